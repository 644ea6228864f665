// ABOUTME: Tests for the gym profile mapping family.
// ABOUTME: Covers recording, current-gym fallback and server merge.
package sync

import (
	"context"
	"testing"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWithoutCurrentGym(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.mappings.Record(context.Background(), "", "bench", "p1")
	assert.ErrorIs(t, err, ErrNoCurrentGym)
	assert.Empty(t, f.mappings.Load(context.Background()))
}

func TestRecordLastWriteWins(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.mappings.Record(ctx, "g1", "bench", "p1")
	require.NoError(t, err)
	res, err := f.mappings.Record(ctx, "g1", "bench", "p2")
	require.NoError(t, err)

	assert.Equal(t, ServerConfirmed, res.State)
	assert.Equal(t, "p2", f.mappings.SuggestedProfile(ctx, "bench", "g1"))
	assert.Len(t, f.mappings.Load(ctx), 1)
	assert.Empty(t, f.mappings.SuggestedProfile(ctx, "bench", ""))
}

func TestRecordUsesCurrentGym(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	g := models.NewGym("A")
	require.NoError(t, f.store.AddGym(ctx, *g))
	_, err := f.current.Set(ctx, g.ID)
	require.NoError(t, err)

	res, err := f.mappings.Record(ctx, "", "squat", "p9")
	require.NoError(t, err)
	assert.Equal(t, LocalOnly, res.State)
	assert.Equal(t, "p9", f.mappings.SuggestedProfile(ctx, "squat", g.ID))
}

func TestRecordRemoteFailureKeepsLocal(t *testing.T) {
	f := newFixture(t, true)
	f.remote.setErr(errOffline)
	ctx := context.Background()

	res, err := f.mappings.Record(ctx, "g1", "row", "p3")
	require.NoError(t, err)
	assert.Equal(t, LocalOnly, res.State)
	assert.Equal(t, "p3", f.mappings.SuggestedProfile(ctx, "row", "g1"))
}

func TestPullMappingsMerges(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.store.SetGymProfileForExercise(ctx, "deadlift", "g1", "local"))
	f.remote.mappings["g1"] = []api.ProfileMapping{{ExerciseID: "bench", ProfileID: "srv-p"}}

	n, err := f.mappings.Pull(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "srv-p", f.mappings.SuggestedProfile(ctx, "bench", "g1"))
	assert.Equal(t, "local", f.mappings.SuggestedProfile(ctx, "deadlift", "g1"))
}
