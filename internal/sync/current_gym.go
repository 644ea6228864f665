// ABOUTME: Current-gym pointer family of the sync layer.
// ABOUTME: The pointer references an existing gym or is empty.
package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/charmbracelet/log"
)

// CurrentGym tracks the active gym and mirrors changes to server settings.
type CurrentGym struct {
	store  *storage.Store
	remote api.Remote
	coord  *Coordinator
	events *Events
	logger *log.Logger
}

// NewCurrentGym creates the current-gym family. remote may be nil when offline.
func NewCurrentGym(store *storage.Store, remote api.Remote, coord *Coordinator, events *Events, logger *log.Logger) *CurrentGym {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CurrentGym{store: store, remote: remote, coord: coord, events: events, logger: logger}
}

// Load reads the pointer from the local store.
func (c *CurrentGym) Load(ctx context.Context) string {
	return c.store.CurrentGymID(ctx)
}

// ID returns the current gym ID, or "" when none is set.
func (c *CurrentGym) ID(ctx context.Context) string {
	return c.store.CurrentGymID(ctx)
}

// Gym returns the current gym record.
func (c *CurrentGym) Gym(ctx context.Context) (models.Gym, bool) {
	id := c.ID(ctx)
	if id == "" {
		return models.Gym{}, false
	}
	return models.FindGym(c.store.Gyms(ctx), id)
}

// Set makes id the current gym. An empty id clears it.
func (c *CurrentGym) Set(ctx context.Context, id string) (Result[string], error) {
	m := Mutation[string, api.Settings]{
		Key: storage.KeyCurrentGym,
		Op:  OpUpdate,
		Local: func(ctx context.Context) (string, error) {
			if id != "" {
				if _, ok := models.FindGym(c.store.Gyms(ctx), id); !ok {
					return "", fmt.Errorf("%w: %s", ErrUnknownGym, id)
				}
			}
			if err := c.store.SetCurrentGymID(ctx, id); err != nil {
				return "", err
			}
			c.events.Publish(Event{Topic: TopicCurrentGym, ID: id})
			return id, nil
		},
	}
	if c.remote != nil {
		m.Remote = func(ctx context.Context, id string) (api.Settings, error) {
			var ptr *string
			if id != "" {
				ptr = &id
			}
			return c.remote.UpdateSettings(ctx, ptr)
		}
	}

	return Apply(ctx, c.coord, m)
}

// SetCurrentGym sets the current gym, discarding the mutation result.
func (c *CurrentGym) SetCurrentGym(ctx context.Context, id string) error {
	_, err := c.Set(ctx, id)
	return err
}

// Refresh re-reads the pointer and clears it if its gym is gone.
func (c *CurrentGym) Refresh(ctx context.Context) {
	id := c.store.CurrentGymID(ctx)
	if id != "" {
		if _, ok := models.FindGym(c.store.Gyms(ctx), id); !ok {
			if err := c.store.SetCurrentGymID(ctx, ""); err != nil {
				c.logger.Warn("clear dangling current gym failed", "gym", id, "err", err)
			} else {
				c.logger.Debug("cleared dangling current gym", "gym", id)
				id = ""
			}
		}
	}
	c.events.Publish(Event{Topic: TopicCurrentGym, ID: id})
}

// Pull adopts the server's current gym setting.
// A server gym that is not stored locally is ignored.
func (c *CurrentGym) Pull(ctx context.Context) (string, error) {
	if c.remote == nil || !c.coord.Authenticated() {
		return "", ErrNotAuthenticated
	}

	settings, err := c.remote.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("get settings: %w", err)
	}

	id := ""
	if settings.CurrentGymID != nil {
		id = *settings.CurrentGymID
	}
	if id != "" {
		if _, ok := models.FindGym(c.store.Gyms(ctx), id); !ok {
			c.logger.Debug("server current gym not stored locally", "gym", id)
			return c.ID(ctx), nil
		}
	}

	if err := c.store.SetCurrentGymID(ctx, id); err != nil {
		return "", err
	}
	c.events.Publish(Event{Topic: TopicCurrentGym, ID: id})
	return id, nil
}
