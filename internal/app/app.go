// ABOUTME: Session wiring of store, remote, sync families, suggestions and gym detection.
// ABOUTME: The CLI and MCP server build one App per process and call its components.
package app

import (
	"context"
	"fmt"
	"io"
	gosync "sync"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/config"
	"github.com/alexng353/uplifting/internal/geo"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/alexng353/uplifting/internal/suggest"
	"github.com/alexng353/uplifting/internal/sync"
	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	KV     storage.KV
	Remote api.Remote
	Auth   sync.AuthState
	// Positions overrides the settable position used for gym detection.
	Positions          geo.PositionProvider
	Logger             *log.Logger
	SerializeMutations bool
}

// App holds one session's components.
type App struct {
	Logger       *log.Logger
	Store        *storage.Store
	Remote       api.Remote
	Coordinator  *sync.Coordinator
	Events       *sync.Events
	Gyms         *sync.Gyms
	CurrentGym   *sync.CurrentGym
	Mappings     *sync.Mappings
	Suggestions  *suggest.Cache
	Detector     *geo.Detector
	Bootstrapper *sync.Bootstrapper

	posMu    gosync.Mutex
	position *geo.Coordinates

	unsubscribe func()
	wg          gosync.WaitGroup
	closeOnce   gosync.Once
}

// New wires the components over opts.KV.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	auth := opts.Auth
	if auth == nil {
		auth = sync.StaticAuth(opts.Remote != nil)
	}

	var coordOpts []sync.CoordinatorOption
	if opts.SerializeMutations {
		coordOpts = append(coordOpts, sync.WithSerializedKeys())
	}

	a := &App{
		Logger:      logger,
		Store:       storage.NewStore(opts.KV, logger),
		Remote:      opts.Remote,
		Coordinator: sync.NewCoordinator(auth, logger, coordOpts...),
		Events:      sync.NewEvents(),
	}

	a.Gyms = sync.NewGyms(a.Store, a.Remote, a.Coordinator, a.Events, logger)
	a.CurrentGym = sync.NewCurrentGym(a.Store, a.Remote, a.Coordinator, a.Events, logger)
	a.Mappings = sync.NewMappings(a.Store, a.Remote, a.Coordinator, a.Events, a.CurrentGym, logger)
	a.Suggestions = suggest.NewCache(a.Store)

	positions := opts.Positions
	if positions == nil {
		positions = geo.PositionFunc(a.currentPosition)
	}
	a.Detector = geo.NewDetector(positions, a.Gyms, a.CurrentGym, logger)
	a.Bootstrapper = sync.NewBootstrapper(a.Store, a.Remote, auth, a.Events, a.Detector, logger)

	a.watchPreviousSets()
	return a
}

// Open builds an App from configuration, opening the configured backend and,
// when authenticated, the remote API client.
func Open(cfg *config.Config, logger *log.Logger) (*App, error) {
	kv, err := cfg.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var remote api.Remote
	if cfg.IsAuthenticated() {
		client, err := api.New(cfg.Server, cfg.Token)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("api client: %w", err)
		}
		remote = client
	}

	return New(Options{
		KV:                 kv,
		Remote:             remote,
		Logger:             logger,
		SerializeMutations: cfg.SerializeMutations,
	}), nil
}

// watchPreviousSets drops the suggestion cache whenever history changes.
func (a *App) watchPreviousSets() {
	ch, unsubscribe := a.Events.Subscribe(sync.TopicPreviousSets, 4)
	a.unsubscribe = unsubscribe
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for range ch {
			a.Suggestions.Invalidate()
		}
	}()
}

// SetPosition fixes the device position used by gym detection.
func (a *App) SetPosition(c geo.Coordinates) {
	a.posMu.Lock()
	defer a.posMu.Unlock()
	a.position = &c
}

func (a *App) currentPosition(context.Context) (geo.Coordinates, bool) {
	a.posMu.Lock()
	defer a.posMu.Unlock()
	if a.position == nil {
		return geo.Coordinates{}, false
	}
	return *a.position, true
}

// RecordSets stores the sets just completed for an exercise and profile.
func (a *App) RecordSets(ctx context.Context, exerciseID, profileID string, sets []models.Set) error {
	if err := a.Store.UpdatePreviousSets(ctx, exerciseID, profileID, sets); err != nil {
		return err
	}
	a.Suggestions.Invalidate()
	a.Events.Publish(sync.Event{Topic: sync.TopicPreviousSets, ID: models.PreviousSetsKey(exerciseID, profileID)})
	return nil
}

// Bootstrap seeds the store from the server. Cached suggestions are
// dropped before it returns, so the next suggestion reads the new history.
func (a *App) Bootstrap(ctx context.Context) (sync.Snapshot, error) {
	snap, err := a.Bootstrapper.Run(ctx)
	if err != nil {
		return snap, err
	}
	a.Suggestions.Invalidate()
	return snap, nil
}

// Close waits for background work and closes the store.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.Bootstrapper.Wait()
		a.unsubscribe()
		a.wg.Wait()
		err = a.Store.Close()
	})
	return err
}
