// ABOUTME: Tests for the gym family: offline adds, re-keying and delete cascade.
// ABOUTME: Runs against an in-memory store and a fake remote.
package sync

import (
	"context"
	"testing"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/geo"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGymOffline(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	res, err := f.gyms.Add(ctx, "X", nil)
	require.NoError(t, err)
	assert.Equal(t, LocalOnly, res.State)

	gyms := f.gyms.List(ctx)
	require.Len(t, gyms, 1)
	assert.Equal(t, "X", gyms[0].Name)
	assert.Equal(t, res.Value.ID, gyms[0].ID)
	assert.Equal(t, 0, f.remote.callCount(), "no remote call while offline")
}

func TestAddGymReplacesPlaceholder(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.gyms.Add(ctx, "Downtown", &geo.Coordinates{Latitude: 40, Longitude: -73})
	require.NoError(t, err)
	assert.Equal(t, ServerConfirmed, res.State)
	assert.Equal(t, "srv-1", res.Value.ID)

	gyms := f.gyms.List(ctx)
	require.Len(t, gyms, 1)
	assert.Equal(t, "srv-1", gyms[0].ID)
	assert.True(t, gyms[0].HasLocation(), "local coordinates kept when server omits them")
}

func TestReplaceGymTwiceLeavesOneRecord(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	placeholder := models.NewGym("Y")
	require.NoError(t, f.store.AddGym(ctx, *placeholder))
	confirmed := models.Gym{ID: "srv-9", Name: "Y"}

	require.NoError(t, f.store.ReplaceGym(ctx, placeholder.ID, confirmed))
	once := f.gyms.List(ctx)
	require.NoError(t, f.store.ReplaceGym(ctx, placeholder.ID, confirmed))
	twice := f.gyms.List(ctx)

	assert.Equal(t, once, twice)
	assert.Len(t, twice, 1)
}

func TestAddGymRemoteFailureKeepsLocal(t *testing.T) {
	f := newFixture(t, true)
	f.remote.setErr(errOffline)
	ctx := context.Background()

	res, err := f.gyms.Add(ctx, "Z", nil)
	require.NoError(t, err)
	assert.Equal(t, LocalOnly, res.State)
	assert.ErrorIs(t, res.RemoteErr, errOffline)

	gyms := f.gyms.List(ctx)
	require.Len(t, gyms, 1)
	assert.Equal(t, res.Value.ID, gyms[0].ID)
}

func TestAddGymRekeysCurrentAndMappings(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	res, err := f.gyms.Add(ctx, "Home", nil)
	require.NoError(t, err)
	placeholder := res.Value.ID
	_, err = f.current.Set(ctx, placeholder)
	require.NoError(t, err)
	_, err = f.mappings.Record(ctx, "", "bench", "p1")
	require.NoError(t, err)

	confirmed := gymFromAPI(api.Gym{ID: "srv-5", Name: "Home"}, &res.Value, res.Value.CreatedAt)
	require.NoError(t, f.store.ReplaceGym(ctx, placeholder, confirmed))

	assert.Equal(t, "srv-5", f.current.ID(ctx))
	assert.Equal(t, "p1", f.mappings.SuggestedProfile(ctx, "bench", "srv-5"))
}

func TestRenameGym(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.gyms.Add(ctx, "Old", nil)
	require.NoError(t, err)

	renamed, err := f.gyms.Rename(ctx, res.Value.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, ServerConfirmed, renamed.State)
	assert.Equal(t, "New", renamed.Value.Name)

	_, err = f.gyms.Rename(ctx, "missing", "Nope")
	assert.ErrorIs(t, err, ErrUnknownGym)
}

func TestDeleteCurrentGymClearsPointer(t *testing.T) {
	for _, authenticated := range []bool{false, true} {
		f := newFixture(t, authenticated)
		ctx := context.Background()

		res, err := f.gyms.Add(ctx, "A", nil)
		require.NoError(t, err)
		_, err = f.current.Set(ctx, res.Value.ID)
		require.NoError(t, err)

		_, err = f.gyms.Delete(ctx, res.Value.ID)
		require.NoError(t, err)
		assert.Empty(t, f.current.ID(ctx))
		assert.Empty(t, f.gyms.List(ctx))
	}
}

func TestDeletePublishesEvents(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	res, err := f.gyms.Add(ctx, "A", nil)
	require.NoError(t, err)
	_, err = f.current.Set(ctx, res.Value.ID)
	require.NoError(t, err)

	currentCh, unsubscribe := f.events.Subscribe(TopicCurrentGym, 4)
	defer unsubscribe()

	_, err = f.gyms.Delete(ctx, res.Value.ID)
	require.NoError(t, err)

	select {
	case ev := <-currentCh:
		assert.Equal(t, TopicCurrentGym, ev.Topic)
	default:
		t.Fatal("expected a current gym event")
	}
}

func TestPullGyms(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	lat, lon := 1.0, 2.0
	local := models.Gym{ID: "srv-1", Name: "Local name", Latitude: &lat, Longitude: &lon}
	stale := models.NewGym("Stale")
	require.NoError(t, f.store.SetGyms(ctx, []models.Gym{local, *stale}))
	require.NoError(t, f.store.SetCurrentGymID(ctx, stale.ID))

	f.remote.gyms = []api.Gym{{ID: "srv-1", Name: "Server name"}, {ID: "srv-2", Name: "Other"}}

	gyms, err := f.gyms.Pull(ctx)
	require.NoError(t, err)
	require.Len(t, gyms, 2)
	assert.Equal(t, "Server name", gyms[0].Name)
	assert.True(t, gyms[0].HasLocation())
	assert.Empty(t, f.current.ID(ctx), "dangling current gym cleared")
}

func TestPullGymsOffline(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.gyms.Pull(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
