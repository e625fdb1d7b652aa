// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshint/dat-runner/internal/batch"
	"github.com/meshint/dat-runner/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.HistoryConfig{
		DBPath: filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() batch.Result {
	return batch.Result{
		Converted: 1,
		Failed:    1,
		Invocations: []types.Invocation{
			{
				InputPath: "/dats/a.dat",
				OutputDir: "/roms/a",
				Status:    types.StatusDone,
				StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
				Duration:  1500 * time.Millisecond,
			},
			{
				InputPath: "/dats/b.dat",
				OutputDir: "/roms/b",
				Status:    types.StatusFailed,
				ExitCode:  2,
				StartedAt: time.Date(2026, 3, 1, 12, 0, 2, 0, time.UTC),
				Duration:  300 * time.Millisecond,
			},
		},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cfg := types.RunConfig{InputDir: "/dats", OutputDir: "/roms"}
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Second)

	runID, err := store.RecordRun(ctx, cfg, sampleResult(), started, finished)
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, runID, r.ID)
	assert.Equal(t, "/dats", r.InputDir)
	assert.Equal(t, "/roms", r.OutputDir)
	assert.Equal(t, 1, r.Converted)
	assert.Equal(t, 1, r.Failed)
	assert.True(t, r.StartedAt.Equal(started))
	assert.True(t, r.FinishedAt.Equal(finished))
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	cfg := types.RunConfig{InputDir: "/dats", OutputDir: "/roms"}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		started := base.Add(time.Duration(i) * time.Hour)
		_, err := store.RecordRun(ctx, cfg, batch.Result{Converted: i}, started, started.Add(time.Minute))
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Equal(t, 2, runs[0].Converted)
}

func TestListInvocations(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	cfg := types.RunConfig{InputDir: "/dats", OutputDir: "/roms"}

	runID, err := store.RecordRun(ctx, cfg, sampleResult(), time.Now(), time.Now())
	require.NoError(t, err)

	invs, err := store.ListInvocations(ctx, runID)
	require.NoError(t, err)
	require.Len(t, invs, 2)

	assert.Equal(t, "/dats/a.dat", invs[0].InputPath)
	assert.Equal(t, types.StatusDone, invs[0].Status)
	assert.Equal(t, 1500*time.Millisecond, invs[0].Duration)

	assert.Equal(t, "/dats/b.dat", invs[1].InputPath)
	assert.Equal(t, types.StatusFailed, invs[1].Status)
	assert.Equal(t, 2, invs[1].ExitCode)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	cfg := types.RunConfig{InputDir: "/dats", OutputDir: "/roms"}

	old := time.Now().Add(-60 * 24 * time.Hour)
	recent := time.Now().Add(-time.Hour)
	_, err := store.RecordRun(ctx, cfg, sampleResult(), old, old.Add(time.Minute))
	require.NoError(t, err)
	keepID, err := store.RecordRun(ctx, cfg, batch.Result{}, recent, recent.Add(time.Minute))
	require.NoError(t, err)

	removed, err := store.Prune(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, keepID, runs[0].ID)

	// The old run's invocations cascade away with it.
	invs, err := store.ListInvocations(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Empty(t, invs)
}
