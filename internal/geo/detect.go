// ABOUTME: Detector that picks the nearest gym and makes it current.
// ABOUTME: Failures are logged at debug level and never returned.
package geo

import (
	"context"
	"io"

	"github.com/alexng353/uplifting/internal/models"
	"github.com/charmbracelet/log"
)

// GymSource lists the gyms known locally.
type GymSource interface {
	List(ctx context.Context) []models.Gym
}

// CurrentGymSetter makes a gym the current one.
type CurrentGymSetter interface {
	SetCurrentGym(ctx context.Context, gymID string) error
}

// Detector selects the current gym from the device position.
type Detector struct {
	positions PositionProvider
	gyms      GymSource
	current   CurrentGymSetter
	logger    *log.Logger
}

// NewDetector builds a Detector. A nil logger discards output.
func NewDetector(positions PositionProvider, gyms GymSource, current CurrentGymSetter, logger *log.Logger) *Detector {
	if positions == nil {
		positions = NoPosition{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Detector{positions: positions, gyms: gyms, current: current, logger: logger}
}

// Position queries the provider, giving up after PositionTimeout.
func (d *Detector) Position(ctx context.Context) (Coordinates, bool) {
	ctx, cancel := context.WithTimeout(ctx, PositionTimeout)
	defer cancel()

	type fix struct {
		pos Coordinates
		ok  bool
	}
	ch := make(chan fix, 1)
	go func() {
		pos, ok := d.positions.CurrentPosition(ctx)
		ch <- fix{pos, ok}
	}()

	select {
	case f := <-ch:
		return f.pos, f.ok
	case <-ctx.Done():
		d.logger.Debug("position query timed out", "err", ctx.Err())
		return Coordinates{}, false
	}
}

// Nearby returns the gym nearest to pos without changing the current gym.
func (d *Detector) Nearby(ctx context.Context, pos Coordinates) (Detection, bool) {
	return NearestGym(pos, d.gyms.List(ctx))
}

// DetectAndSet finds the nearest gym to the device and sets it as current.
func (d *Detector) DetectAndSet(ctx context.Context) (Detection, bool) {
	pos, ok := d.Position(ctx)
	if !ok {
		d.logger.Debug("no position available")
		return Detection{}, false
	}

	det, ok := d.Nearby(ctx, pos)
	if !ok {
		d.logger.Debug("no gym nearby", "lat", pos.Latitude, "lon", pos.Longitude)
		return Detection{}, false
	}

	if err := d.current.SetCurrentGym(ctx, det.Gym.ID); err != nil {
		d.logger.Debug("set current gym failed", "gym", det.Gym.ID, "err", err)
		return Detection{}, false
	}

	d.logger.Debug("detected gym", "gym", det.Gym.ID, "meters", det.DistanceMeters)
	return det, true
}
