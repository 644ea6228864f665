// ABOUTME: Typed local store over the logical keys of the on-device data layer.
// ABOUTME: Reads degrade to documented defaults; writes surface storage errors.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexng353/uplifting/internal/models"
	"github.com/charmbracelet/log"
)

// Logical keys, one JSON value each.
const (
	KeyCurrentWorkout   = "current_workout"
	KeySettings         = "settings"
	KeyExercises        = "exercises"
	KeyPreviousSets     = "previous_sets"
	KeyProfiles         = "profiles"
	KeyLastSync         = "last_sync"
	KeyPendingWorkout   = "pending_workout"
	KeyWorkoutLastSlide = "workout_last_slide"
	KeyGyms             = "gyms"
	KeyCurrentGym       = "current_gym"
	KeyGymProfileMap    = "gym_profile_map"
)

// AllKeys lists every logical key under management.
var AllKeys = []string{
	KeyCurrentWorkout,
	KeySettings,
	KeyExercises,
	KeyPreviousSets,
	KeyProfiles,
	KeyLastSync,
	KeyPendingWorkout,
	KeyWorkoutLastSlide,
	KeyGyms,
	KeyCurrentGym,
	KeyGymProfileMap,
}

// Store exposes typed access to a KV.
//
// Read-modify-write helpers are serialized by an internal mutex. Helpers that
// touch more than one key run their writes in sequence and may leave partial
// results behind if the process dies in between.
type Store struct {
	kv     KV
	logger *log.Logger
	mu     sync.Mutex
}

// NewStore wraps kv. A nil logger discards output.
func NewStore(kv KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: kv, logger: logger}
}

// KV returns the underlying backend.
func (s *Store) KV() KV {
	return s.kv
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// getJSON decodes key into a T, returning def when the key is missing or unreadable.
func getJSON[T any](ctx context.Context, s *Store, key string, def T) T {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("read failed, using default", "key", key, "err", err)
		}
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("decode failed, using default", "key", key, "err", err)
		return def
	}
	return v
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ClearAll removes every key under management.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}

// Gyms returns all stored gyms, or an empty slice.
func (s *Store) Gyms(ctx context.Context) []models.Gym {
	return getJSON(ctx, s, KeyGyms, []models.Gym{})
}

// SetGyms overwrites the gyms partition.
func (s *Store) SetGyms(ctx context.Context, gyms []models.Gym) error {
	if gyms == nil {
		gyms = []models.Gym{}
	}
	return s.setJSON(ctx, KeyGyms, gyms)
}

// AddGym appends a gym.
func (s *Store) AddGym(ctx context.Context, gym models.Gym) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gyms := s.Gyms(ctx)
	gyms = append(gyms, gym)
	return s.SetGyms(ctx, gyms)
}

// RenameGym renames a gym. Returns false if no gym has the ID.
func (s *Store) RenameGym(ctx context.Context, id, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gyms := s.Gyms(ctx)
	for i := range gyms {
		if gyms[i].ID == id {
			gyms[i].Name = name
			return true, s.SetGyms(ctx, gyms)
		}
	}
	return false, nil
}

// DeleteGym removes a gym, then clears the current gym pointer if it
// referenced the deleted gym.
func (s *Store) DeleteGym(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gyms := s.Gyms(ctx)
	kept := make([]models.Gym, 0, len(gyms))
	for _, g := range gyms {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if err := s.SetGyms(ctx, kept); err != nil {
		return err
	}

	if s.CurrentGymID(ctx) == id {
		return s.SetCurrentGymID(ctx, "")
	}
	return nil
}

// ReplaceGym swaps a locally minted placeholder for the server-confirmed gym.
//
// The placeholder is removed and the confirmed gym is upserted by ID, so
// applying the same replacement twice leaves a single record. The current
// gym pointer and gym profile mappings follow the new ID.
func (s *Store) ReplaceGym(ctx context.Context, placeholderID string, confirmed models.Gym) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gyms := s.Gyms(ctx)
	out := make([]models.Gym, 0, len(gyms)+1)
	inserted := false
	for _, g := range gyms {
		switch g.ID {
		case confirmed.ID:
			if !inserted {
				out = append(out, confirmed)
				inserted = true
			}
		case placeholderID:
			if !inserted {
				out = append(out, confirmed)
				inserted = true
			}
		default:
			out = append(out, g)
		}
	}
	if !inserted {
		out = append(out, confirmed)
	}
	if err := s.SetGyms(ctx, out); err != nil {
		return err
	}

	if placeholderID == confirmed.ID {
		return nil
	}

	if s.CurrentGymID(ctx) == placeholderID {
		if err := s.SetCurrentGymID(ctx, confirmed.ID); err != nil {
			return err
		}
	}

	mappings := s.GymProfileMap(ctx)
	if mappings.RekeyGym(placeholderID, confirmed.ID) > 0 {
		return s.SetGymProfileMap(ctx, mappings)
	}
	return nil
}

// CurrentGymID returns the active gym ID, or "" when none is set.
func (s *Store) CurrentGymID(ctx context.Context) string {
	return getJSON(ctx, s, KeyCurrentGym, "")
}

// SetCurrentGymID stores the active gym. An empty ID deletes the key.
func (s *Store) SetCurrentGymID(ctx context.Context, id string) error {
	if id == "" {
		return s.delete(ctx, KeyCurrentGym)
	}
	return s.setJSON(ctx, KeyCurrentGym, id)
}

// GymProfileMap returns the exercise-at-gym profile mapping, or an empty map.
func (s *Store) GymProfileMap(ctx context.Context) models.GymProfileMap {
	m := getJSON[models.GymProfileMap](ctx, s, KeyGymProfileMap, nil)
	if m == nil {
		m = models.GymProfileMap{}
	}
	return m
}

// SetGymProfileMap overwrites the mapping partition.
func (s *Store) SetGymProfileMap(ctx context.Context, m models.GymProfileMap) error {
	if m == nil {
		m = models.GymProfileMap{}
	}
	return s.setJSON(ctx, KeyGymProfileMap, m)
}

// SetGymProfileForExercise records the profile last used for exercise at gym.
func (s *Store) SetGymProfileForExercise(ctx context.Context, exerciseID, gymID, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.GymProfileMap(ctx)
	m.Put(exerciseID, gymID, profileID)
	return s.SetGymProfileMap(ctx, m)
}

// MergeGymProfileMap writes entries over the stored mapping.
func (s *Store) MergeGymProfileMap(ctx context.Context, entries models.GymProfileMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.GymProfileMap(ctx)
	for k, v := range entries {
		m[k] = v
	}
	return s.SetGymProfileMap(ctx, m)
}

// LastProfileForExerciseAtGym returns the recorded profile, or "".
func (s *Store) LastProfileForExerciseAtGym(ctx context.Context, exerciseID, gymID string) string {
	return s.GymProfileMap(ctx).Lookup(exerciseID, gymID)
}

// PreviousSets returns the set history, or an empty map.
func (s *Store) PreviousSets(ctx context.Context) models.PreviousSets {
	p := getJSON[models.PreviousSets](ctx, s, KeyPreviousSets, nil)
	if p == nil {
		p = models.PreviousSets{}
	}
	return p
}

// SetPreviousSets overwrites the history partition.
func (s *Store) SetPreviousSets(ctx context.Context, p models.PreviousSets) error {
	if p == nil {
		p = models.PreviousSets{}
	}
	return s.setJSON(ctx, KeyPreviousSets, p)
}

// UpdatePreviousSets replaces the history for one exercise and profile.
func (s *Store) UpdatePreviousSets(ctx context.Context, exerciseID, profileID string, sets []models.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.PreviousSets(ctx)
	p[models.PreviousSetsKey(exerciseID, profileID)] = sets
	return s.SetPreviousSets(ctx, p)
}

// Profiles returns cached profiles, or an empty slice.
func (s *Store) Profiles(ctx context.Context) []models.Profile {
	return getJSON(ctx, s, KeyProfiles, []models.Profile{})
}

// SetProfiles overwrites the profiles partition.
func (s *Store) SetProfiles(ctx context.Context, profiles []models.Profile) error {
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return s.setJSON(ctx, KeyProfiles, profiles)
}

// Exercises returns cached exercises, or an empty slice.
func (s *Store) Exercises(ctx context.Context) []models.Exercise {
	return getJSON(ctx, s, KeyExercises, []models.Exercise{})
}

// SetExercises overwrites the exercises cache.
func (s *Store) SetExercises(ctx context.Context, exercises []models.Exercise) error {
	return s.setJSON(ctx, KeyExercises, exercises)
}

// Settings returns stored settings, or DefaultSettings.
func (s *Store) Settings(ctx context.Context) models.Settings {
	return getJSON(ctx, s, KeySettings, models.DefaultSettings())
}

// SetSettings overwrites the settings.
func (s *Store) SetSettings(ctx context.Context, settings models.Settings) error {
	return s.setJSON(ctx, KeySettings, settings)
}

// LastSyncTime returns the last successful bootstrap time, if any.
func (s *Store) LastSyncTime(ctx context.Context) (time.Time, bool) {
	raw := getJSON(ctx, s, KeyLastSync, "")
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.logger.Warn("invalid last sync time", "value", raw, "err", err)
		return time.Time{}, false
	}
	return t, true
}

// SetLastSyncTime records a successful sync.
func (s *Store) SetLastSyncTime(ctx context.Context, t time.Time) error {
	return s.setJSON(ctx, KeyLastSync, t.UTC().Format(time.RFC3339Nano))
}

// CurrentWorkout returns the in-progress workout, or nil.
func (s *Store) CurrentWorkout(ctx context.Context) *models.StoredWorkout {
	return getJSON[*models.StoredWorkout](ctx, s, KeyCurrentWorkout, nil)
}

// SetCurrentWorkout stores the in-progress workout. Nil deletes it.
func (s *Store) SetCurrentWorkout(ctx context.Context, w *models.StoredWorkout) error {
	if w == nil {
		return s.delete(ctx, KeyCurrentWorkout)
	}
	return s.setJSON(ctx, KeyCurrentWorkout, w)
}

// PendingWorkout returns a finished workout awaiting upload, or nil.
func (s *Store) PendingWorkout(ctx context.Context) *models.StoredWorkout {
	return getJSON[*models.StoredWorkout](ctx, s, KeyPendingWorkout, nil)
}

// SetPendingWorkout stores a workout awaiting upload. Nil deletes it.
func (s *Store) SetPendingWorkout(ctx context.Context, w *models.StoredWorkout) error {
	if w == nil {
		return s.delete(ctx, KeyPendingWorkout)
	}
	return s.setJSON(ctx, KeyPendingWorkout, w)
}

// WorkoutLastSlide returns the last viewed slide, or nil.
func (s *Store) WorkoutLastSlide(ctx context.Context) *models.WorkoutLastSlide {
	return getJSON[*models.WorkoutLastSlide](ctx, s, KeyWorkoutLastSlide, nil)
}

// SetWorkoutLastSlide records the last viewed slide of a workout.
func (s *Store) SetWorkoutLastSlide(ctx context.Context, workoutID string, slideIndex int) error {
	return s.setJSON(ctx, KeyWorkoutLastSlide, models.WorkoutLastSlide{
		WorkoutID:  workoutID,
		SlideIndex: slideIndex,
	})
}

// ClearWorkoutLastSlide forgets the last viewed slide.
func (s *Store) ClearWorkoutLastSlide(ctx context.Context) error {
	return s.delete(ctx, KeyWorkoutLastSlide)
}
