// ABOUTME: Position providers used by gym detection.
// ABOUTME: Providers report a best-effort fix and never return errors.
package geo

import (
	"context"
	"time"
)

// PositionTimeout bounds a single position query.
const PositionTimeout = 10 * time.Second

// PositionProvider reports the device position, if one is available.
type PositionProvider interface {
	CurrentPosition(ctx context.Context) (Coordinates, bool)
}

// StaticPosition always reports the same coordinates.
type StaticPosition Coordinates

// CurrentPosition implements PositionProvider.
func (p StaticPosition) CurrentPosition(ctx context.Context) (Coordinates, bool) {
	if ctx.Err() != nil {
		return Coordinates{}, false
	}
	return Coordinates(p), true
}

// NoPosition never reports a position.
type NoPosition struct{}

// CurrentPosition implements PositionProvider.
func (NoPosition) CurrentPosition(context.Context) (Coordinates, bool) {
	return Coordinates{}, false
}

// PositionFunc adapts a function to PositionProvider.
type PositionFunc func(ctx context.Context) (Coordinates, bool)

// CurrentPosition implements PositionProvider.
func (f PositionFunc) CurrentPosition(ctx context.Context) (Coordinates, bool) {
	return f(ctx)
}
