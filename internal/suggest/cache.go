// ABOUTME: Session cache of previous-set history for suggestions.
// ABOUTME: Loads history once and serves suggestions from memory.
package suggest

import (
	"context"
	"sync"

	"github.com/alexng353/uplifting/internal/models"
)

// HistorySource loads previous-set history.
type HistorySource interface {
	PreviousSets(ctx context.Context) models.PreviousSets
}

// Cache holds history for the lifetime of a session.
type Cache struct {
	source  HistorySource
	mu      sync.Mutex
	history models.PreviousSets
	loaded  bool
}

// NewCache creates a Cache reading from source on first use.
func NewCache(source HistorySource) *Cache {
	return &Cache{source: source}
}

// History returns the cached history, loading it if needed.
func (c *Cache) History(ctx context.Context) models.PreviousSets {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.history = c.source.PreviousSets(ctx)
		c.loaded = true
	}
	return c.history
}

// Suggest runs Suggest over the cached history.
func (c *Cache) Suggest(ctx context.Context, exerciseID, profileID string, setNumber int, side models.Side) Suggestion {
	return Suggest(c.History(ctx), exerciseID, profileID, setNumber, side)
}

// Invalidate drops the cached history so the next call reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	c.loaded = false
}
