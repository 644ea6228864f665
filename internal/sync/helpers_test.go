// ABOUTME: Shared test helpers for sync package tests.
// ABOUTME: Provides an in-memory store and a scriptable fake remote.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"testing"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("network unreachable")

// fakeRemote is an in-memory api.Remote.
type fakeRemote struct {
	mu        gosync.Mutex
	calls     []string
	err       error
	nextID    int
	gyms      []api.Gym
	mappings  map[string][]api.ProfileMapping
	settings  api.Settings
	bootstrap api.Bootstrap
}

var _ api.Remote = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{mappings: make(map[string][]api.ProfileMapping)}
}

func (f *fakeRemote) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeRemote) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) ListGyms(context.Context) ([]api.Gym, error) {
	if err := f.record("ListGyms"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Gym(nil), f.gyms...), nil
}

func (f *fakeRemote) CreateGym(_ context.Context, req api.CreateGymRequest) (api.Gym, error) {
	if err := f.record("CreateGym"); err != nil {
		return api.Gym{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	g := api.Gym{ID: fmt.Sprintf("srv-%d", f.nextID), Name: req.Name}
	f.gyms = append(f.gyms, g)
	return g, nil
}

func (f *fakeRemote) UpdateGym(_ context.Context, id, name string) (api.Gym, error) {
	if err := f.record("UpdateGym"); err != nil {
		return api.Gym{}, err
	}
	return api.Gym{ID: id, Name: name}, nil
}

func (f *fakeRemote) DeleteGym(context.Context, string) error {
	return f.record("DeleteGym")
}

func (f *fakeRemote) GetProfileMappings(_ context.Context, gymID string) ([]api.ProfileMapping, error) {
	if err := f.record("GetProfileMappings"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mappings[gymID], nil
}

func (f *fakeRemote) SetProfileMapping(_ context.Context, gymID, exerciseID, profileID string) (api.ProfileMapping, error) {
	if err := f.record("SetProfileMapping"); err != nil {
		return api.ProfileMapping{}, err
	}
	m := api.ProfileMapping{ExerciseID: exerciseID, ProfileID: profileID}
	f.mu.Lock()
	f.mappings[gymID] = append(f.mappings[gymID], m)
	f.mu.Unlock()
	return m, nil
}

func (f *fakeRemote) GetBootstrap(context.Context) (api.Bootstrap, error) {
	if err := f.record("GetBootstrap"); err != nil {
		return api.Bootstrap{}, err
	}
	return f.bootstrap, nil
}

func (f *fakeRemote) GetSettings(context.Context) (api.Settings, error) {
	if err := f.record("GetSettings"); err != nil {
		return api.Settings{}, err
	}
	return f.settings, nil
}

func (f *fakeRemote) UpdateSettings(_ context.Context, currentGymID *string) (api.Settings, error) {
	if err := f.record("UpdateSettings"); err != nil {
		return api.Settings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = api.Settings{CurrentGymID: currentGymID}
	return f.settings, nil
}

// fixture bundles the families over one store.
type fixture struct {
	store    *storage.Store
	remote   *fakeRemote
	coord    *Coordinator
	events   *Events
	gyms     *Gyms
	current  *CurrentGym
	mappings *Mappings
}

func newFixture(t *testing.T, authenticated bool) *fixture {
	t.Helper()

	kv, err := storage.OpenBadgerInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	f := &fixture{
		store:  storage.NewStore(kv, nil),
		remote: newFakeRemote(),
		events: NewEvents(),
	}
	f.coord = NewCoordinator(StaticAuth(authenticated), nil)
	f.gyms = NewGyms(f.store, f.remote, f.coord, f.events, nil)
	f.current = NewCurrentGym(f.store, f.remote, f.coord, f.events, nil)
	f.mappings = NewMappings(f.store, f.remote, f.coord, f.events, f.current, nil)
	return f
}
