// ABOUTME: Bootstrap merger seeding the local store from a server snapshot.
// ABOUTME: Fetches, transforms and applies gyms, profiles, mappings and set history.
package sync

import (
	"context"
	"fmt"
	"io"
	gosync "sync"
	"time"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/geo"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// GymDetector picks the current gym from the device position.
type GymDetector interface {
	DetectAndSet(ctx context.Context) (geo.Detection, bool)
}

// Snapshot is a bootstrap payload in local store shapes.
type Snapshot struct {
	Gyms          []models.Gym
	Profiles      []models.Profile
	GymProfileMap models.GymProfileMap
	PreviousSets  models.PreviousSets
}

// BootstrapSetID is the synthesized ID of the index-th set under key.
func BootstrapSetID(key string, index int) string {
	return fmt.Sprintf("bootstrap_%s_%d", key, index)
}

// Transform converts a server snapshot into local shapes.
// Duplicate mappings resolve to the last one listed. now stamps sets,
// which carry no timestamp on the wire. A set with an unknown side tag is
// kept as a two-sided set. logger may be nil.
func Transform(snap api.Bootstrap, now time.Time, logger *log.Logger) (Snapshot, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := Snapshot{
		Gyms:          make([]models.Gym, 0, len(snap.Gyms)),
		Profiles:      make([]models.Profile, 0, len(snap.Profiles)),
		GymProfileMap: make(models.GymProfileMap, len(snap.GymProfileMappings)),
		PreviousSets:  make(models.PreviousSets, len(snap.PreviousSets)),
	}

	for _, g := range snap.Gyms {
		if g.ID == "" {
			return Snapshot{}, fmt.Errorf("gym %q has no id", g.Name)
		}
		out.Gyms = append(out.Gyms, gymFromAPI(g, nil, now))
	}

	for _, p := range snap.Profiles {
		out.Profiles = append(out.Profiles, models.Profile{
			ID:         p.ID,
			ExerciseID: p.ExerciseID,
			Name:       p.Name,
		})
	}

	for _, m := range snap.GymProfileMappings {
		out.GymProfileMap.Put(m.ExerciseID, m.GymID, m.ProfileID)
	}

	for key, sets := range snap.PreviousSets {
		local := make([]models.Set, 0, len(sets))
		for i, s := range sets {
			side := models.SideNone
			if s.Side != nil {
				parsed, err := models.ParseSide(*s.Side)
				if err != nil {
					logger.Warn("ignoring set side", "set", BootstrapSetID(key, i), "side", *s.Side)
				}
				side = parsed
			}
			reps := s.Reps
			weight := s.Weight.Float64()
			local = append(local, models.Set{
				ID:         BootstrapSetID(key, i),
				Reps:       &reps,
				Weight:     &weight,
				WeightUnit: s.WeightUnit,
				CreatedAt:  now.UTC(),
				Side:       side,
			})
		}
		out.PreviousSets[key] = local
	}

	return out, nil
}

// Bootstrapper seeds the local store from the server once per session.
type Bootstrapper struct {
	store    *storage.Store
	remote   api.Remote
	auth     AuthState
	events   *Events
	detector GymDetector
	logger   *log.Logger
	now      func() time.Time

	wg gosync.WaitGroup
}

// NewBootstrapper creates a Bootstrapper. detector may be nil.
func NewBootstrapper(store *storage.Store, remote api.Remote, auth AuthState, events *Events, detector GymDetector, logger *log.Logger) *Bootstrapper {
	if auth == nil {
		auth = StaticAuth(false)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bootstrapper{
		store:    store,
		remote:   remote,
		auth:     auth,
		events:   events,
		detector: detector,
		logger:   logger,
		now:      time.Now,
	}
}

// Run fetches the snapshot and overwrites the gyms, profiles, mappings and
// previous-sets partitions with it.
//
// A fetch or transform failure, or a ctx cancelled before the writes
// begin, leaves the store untouched. Once the writes begin they run to
// completion regardless of ctx. On success, gym detection runs once in the
// background; Wait joins it.
func (b *Bootstrapper) Run(ctx context.Context) (Snapshot, error) {
	if b.remote == nil || !b.auth.IsAuthenticated() {
		return Snapshot{}, ErrNotAuthenticated
	}

	raw, err := b.remote.GetBootstrap(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("bootstrap: fetch: %w", err)
	}

	snap, err := Transform(raw, b.now(), b.logger)
	if err != nil {
		return Snapshot{}, fmt.Errorf("bootstrap: transform: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("bootstrap: %w", err)
	}

	if err := b.apply(context.WithoutCancel(ctx), snap); err != nil {
		return Snapshot{}, fmt.Errorf("bootstrap: apply: %w", err)
	}

	b.logger.Info("bootstrap complete",
		"gyms", len(snap.Gyms),
		"profiles", len(snap.Profiles),
		"mappings", len(snap.GymProfileMap),
		"previous_sets", len(snap.PreviousSets),
	)

	b.detectInBackground(ctx)
	return snap, nil
}

// apply writes the partitions concurrently, then fixes the current gym
// pointer and records the sync time.
func (b *Bootstrapper) apply(ctx context.Context, snap Snapshot) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.store.SetGyms(gctx, snap.Gyms) })
	g.Go(func() error { return b.store.SetProfiles(gctx, snap.Profiles) })
	g.Go(func() error { return b.store.SetGymProfileMap(gctx, snap.GymProfileMap) })
	g.Go(func() error { return b.store.SetPreviousSets(gctx, snap.PreviousSets) })
	if err := g.Wait(); err != nil {
		return err
	}

	if current := b.store.CurrentGymID(ctx); current != "" {
		if _, ok := models.FindGym(snap.Gyms, current); !ok {
			if err := b.store.SetCurrentGymID(ctx, ""); err != nil {
				return err
			}
		}
	}

	if err := b.store.SetLastSyncTime(ctx, b.now()); err != nil {
		return err
	}

	for _, topic := range []Topic{TopicGyms, TopicCurrentGym, TopicMappings, TopicPreviousSets} {
		b.events.Publish(Event{Topic: topic})
	}
	return nil
}

// detectInBackground runs gym detection without tying it to ctx's lifetime.
func (b *Bootstrapper) detectInBackground(ctx context.Context) {
	if b.detector == nil {
		return
	}

	dctx := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Warn("gym detection panicked", "panic", r)
			}
		}()

		if det, ok := b.detector.DetectAndSet(dctx); ok {
			b.logger.Info("detected gym", "gym", det.Gym.Name, "meters", int(det.DistanceMeters))
		}
	}()
}

// Wait blocks until background gym detection has finished.
func (b *Bootstrapper) Wait() {
	b.wg.Wait()
}
