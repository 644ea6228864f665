// ABOUTME: Gym profile mapping family of the sync layer.
// ABOUTME: Records the last profile used for an exercise at a gym.
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

// CurrentGymReader returns the active gym ID.
type CurrentGymReader interface {
	ID(ctx context.Context) string
}

// Mappings keeps gym profile mappings and mirrors them to the server.
type Mappings struct {
	store   *storage.Store
	remote  api.Remote
	coord   *Coordinator
	events  *Events
	current CurrentGymReader
	logger  *log.Logger
}

// NewMappings creates the mapping family. remote may be nil when offline.
func NewMappings(store *storage.Store, remote api.Remote, coord *Coordinator, events *Events, current CurrentGymReader, logger *log.Logger) *Mappings {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mappings{store: store, remote: remote, coord: coord, events: events, current: current, logger: logger}
}

// Load returns every stored mapping.
func (m *Mappings) Load(ctx context.Context) models.GymProfileMap {
	return m.store.GymProfileMap(ctx)
}

// SuggestedProfile returns the profile last used for exercise at gym, or "".
func (m *Mappings) SuggestedProfile(ctx context.Context, exerciseID, gymID string) string {
	return m.store.LastProfileForExerciseAtGym(ctx, exerciseID, gymID)
}

// resolveGym returns gymID, or the current gym when gymID is empty.
func (m *Mappings) resolveGym(ctx context.Context, gymID string) (string, error) {
	if gymID != "" {
		return gymID, nil
	}
	if m.current != nil {
		gymID = m.current.ID(ctx)
	}
	if gymID == "" {
		return "", ErrNoCurrentGym
	}
	return gymID, nil
}

// Record stores profileID as the last profile for exercise at gym, then
// sends it to the server. An empty gymID means the current gym.
func (m *Mappings) Record(ctx context.Context, gymID, exerciseID, profileID string) (Result[string], error) {
	gymID, err := m.resolveGym(ctx, gymID)
	if err != nil {
		return Result[string]{}, err
	}

	mut := Mutation[string, api.ProfileMapping]{
		Key: models.GymProfileKey(exerciseID, gymID),
		Op:  OpUpdate,
		Local: func(ctx context.Context) (string, error) {
			if err := m.store.SetGymProfileForExercise(ctx, exerciseID, gymID, profileID); err != nil {
				return "", err
			}
			m.events.Publish(Event{Topic: TopicMappings, ID: gymID})
			return profileID, nil
		},
	}
	if m.remote != nil {
		mut.Remote = func(ctx context.Context, profileID string) (api.ProfileMapping, error) {
			return m.remote.SetProfileMapping(ctx, gymID, exerciseID, profileID)
		}
	}

	return Apply(ctx, m.coord, mut)
}

// Pull merges the server's mappings for a gym into the local map.
// An empty gymID means the current gym.
func (m *Mappings) Pull(ctx context.Context, gymID string) (int, error) {
	if m.remote == nil || !m.coord.Authenticated() {
		return 0, ErrNotAuthenticated
	}
	gymID, err := m.resolveGym(ctx, gymID)
	if err != nil {
		return 0, err
	}

	server, err := m.remote.GetProfileMappings(ctx, gymID)
	if err != nil {
		return 0, fmt.Errorf("get profile mappings: %w", err)
	}

	entries := make(models.GymProfileMap, len(server))
	for _, sm := range server {
		entries.Put(sm.ExerciseID, gymID, sm.ProfileID)
	}
	if err := m.store.MergeGymProfileMap(ctx, entries); err != nil {
		return 0, err
	}

	m.events.Publish(Event{Topic: TopicMappings, ID: gymID})
	return len(entries), nil
}
