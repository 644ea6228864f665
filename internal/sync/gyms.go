// ABOUTME: Gym family of the sync layer: add, rename, delete, pull.
// ABOUTME: Placeholder IDs are replaced by server IDs once a create is confirmed.
package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/geo"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/charmbracelet/log"
)

// Gyms keeps the local gym list and mirrors changes to the server.
type Gyms struct {
	store  *storage.Store
	remote api.Remote
	coord  *Coordinator
	events *Events
	logger *log.Logger
}

// NewGyms creates the gym family. remote may be nil when offline.
func NewGyms(store *storage.Store, remote api.Remote, coord *Coordinator, events *Events, logger *log.Logger) *Gyms {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gyms{store: store, remote: remote, coord: coord, events: events, logger: logger}
}

// Load reads the gym list from the local store.
func (g *Gyms) Load(ctx context.Context) []models.Gym {
	return g.store.Gyms(ctx)
}

// List returns the gym list. The local store is the source of truth, so
// writes made by any family or by bootstrap are visible immediately.
func (g *Gyms) List(ctx context.Context) []models.Gym {
	return g.store.Gyms(ctx)
}

// Get returns the gym with id.
func (g *Gyms) Get(ctx context.Context, id string) (models.Gym, bool) {
	return models.FindGym(g.List(ctx), id)
}

// Refresh announces that the gym list changed.
func (g *Gyms) Refresh(context.Context) {
	g.events.Publish(Event{Topic: TopicGyms})
}

// Add creates a gym locally and then on the server.
// On confirmation the placeholder is replaced by the server record.
func (g *Gyms) Add(ctx context.Context, name string, coords *geo.Coordinates) (Result[models.Gym], error) {
	gym := models.NewGym(name)
	if coords != nil {
		gym.WithLocation(coords.Latitude, coords.Longitude)
	}

	m := Mutation[models.Gym, api.Gym]{
		Key: gym.ID,
		Op:  OpCreate,
		Local: func(ctx context.Context) (models.Gym, error) {
			if err := g.store.AddGym(ctx, *gym); err != nil {
				return models.Gym{}, err
			}
			g.Refresh(ctx)
			return *gym, nil
		},
		Reconcile: func(ctx context.Context, local models.Gym, remote api.Gym) (models.Gym, error) {
			confirmed := gymFromAPI(remote, &local, time.Now())
			if err := g.store.ReplaceGym(ctx, local.ID, confirmed); err != nil {
				return local, err
			}
			if confirmed.ID != local.ID {
				g.events.Publish(Event{Topic: TopicCurrentGym, ID: confirmed.ID})
				g.events.Publish(Event{Topic: TopicMappings})
			}
			return confirmed, nil
		},
		Refresh: g.Refresh,
	}
	if g.remote != nil {
		m.Remote = func(ctx context.Context, local models.Gym) (api.Gym, error) {
			return g.remote.CreateGym(ctx, api.CreateGymRequest{
				Name:      local.Name,
				Latitude:  local.Latitude,
				Longitude: local.Longitude,
			})
		}
	}

	return Apply(ctx, g.coord, m)
}

// Rename renames a gym locally and then on the server.
func (g *Gyms) Rename(ctx context.Context, id, name string) (Result[models.Gym], error) {
	m := Mutation[models.Gym, api.Gym]{
		Key: id,
		Op:  OpUpdate,
		Local: func(ctx context.Context) (models.Gym, error) {
			ok, err := g.store.RenameGym(ctx, id, name)
			if err != nil {
				return models.Gym{}, err
			}
			if !ok {
				return models.Gym{}, fmt.Errorf("%w: %s", ErrUnknownGym, id)
			}
			g.Refresh(ctx)
			gym, _ := g.Get(ctx, id)
			return gym, nil
		},
		Refresh: g.Refresh,
	}
	if g.remote != nil {
		m.Remote = func(ctx context.Context, local models.Gym) (api.Gym, error) {
			return g.remote.UpdateGym(ctx, local.ID, local.Name)
		}
	}

	return Apply(ctx, g.coord, m)
}

// Delete removes a gym locally, clearing the current gym if it pointed
// there, and then deletes it on the server.
func (g *Gyms) Delete(ctx context.Context, id string) (Result[string], error) {
	m := Mutation[string, struct{}]{
		Key: id,
		Op:  OpDelete,
		Local: func(ctx context.Context) (string, error) {
			wasCurrent := g.store.CurrentGymID(ctx) == id
			if err := g.store.DeleteGym(ctx, id); err != nil {
				return "", err
			}
			g.Refresh(ctx)
			if wasCurrent {
				g.events.Publish(Event{Topic: TopicCurrentGym})
			}
			return id, nil
		},
		Refresh: g.Refresh,
	}
	if g.remote != nil {
		m.Remote = func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, g.remote.DeleteGym(ctx, id)
		}
	}

	return Apply(ctx, g.coord, m)
}

// Pull replaces the local gym list with the server's.
// Local coordinates survive when the server has none. A current gym that
// no longer exists is cleared.
func (g *Gyms) Pull(ctx context.Context) ([]models.Gym, error) {
	if g.remote == nil || !g.coord.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	server, err := g.remote.ListGyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gyms: %w", err)
	}

	gyms := gymsFromAPI(server, g.store.Gyms(ctx), time.Now())
	if err := g.store.SetGyms(ctx, gyms); err != nil {
		return nil, err
	}

	if current := g.store.CurrentGymID(ctx); current != "" {
		if _, ok := models.FindGym(gyms, current); !ok {
			if err := g.store.SetCurrentGymID(ctx, ""); err != nil {
				return nil, err
			}
			g.events.Publish(Event{Topic: TopicCurrentGym})
		}
	}

	g.Refresh(ctx)
	g.logger.Debug("pulled gyms", "count", len(gyms))
	return gyms, nil
}
