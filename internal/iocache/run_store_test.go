package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bonuspoints/thelist/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRunStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func samplePoints() []schema.DataPoint {
	return []schema.DataPoint{
		{Episode: 1, ItemID: "1942", Rank: 1, Track: 0, Lane: 0, DisplayName: "The Witcher 3", CatalogRef: "https://www.igdb.com/games/the-witcher-3-wild-hunt"},
		{Episode: 1, ItemID: "homebrew", Rank: 2, Track: 1, Lane: 0, DisplayName: "homebrew"},
		{Episode: 2, ItemID: "homebrew", Rank: 1, Track: 1, Lane: 1, DisplayName: "homebrew"},
	}
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginRun(time.Now(), map[string]any{"layout": "stable"})
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, store.RecordPoints(id, samplePoints()))
	assert.NoError(t, store.EndRun(id, time.Now(), 3))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestRunStoreLifecycle(t *testing.T) {
	store := newSQLiteRunStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"layout": "stable", "fill_gaps": true})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordPoints(runID, samplePoints()))
	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond), 3))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.NoError(t, uuid.Validate(run.RunUUID))
	assert.True(t, run.StartTime.Equal(start))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.DurationMs)
	assert.Equal(t, int64(1500), *run.DurationMs)
	require.NotNil(t, run.TotalPoints)
	assert.Equal(t, int64(3), *run.TotalPoints)
	require.NotNil(t, run.ConfigJSON)
	assert.JSONEq(t, `{"layout":"stable","fill_gaps":true}`, *run.ConfigJSON)

	points, err := store.GetAllPoints()
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "1942", points[0].ItemID)
	require.NotNil(t, points[0].CatalogRef)
	assert.Nil(t, points[1].CatalogRef)
	assert.Equal(t, int32(2), points[2].Episode)
	assert.Equal(t, int32(1), points[2].Lane)
}

func TestRunStoreRecordPointsIsAtomic(t *testing.T) {
	store := newSQLiteRunStore(t)
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	// The duplicate primary key fails the second insert and rolls back the first.
	dup := []schema.DataPoint{
		{Episode: 1, ItemID: "a", Rank: 1, DisplayName: "a"},
		{Episode: 1, ItemID: "a", Rank: 2, DisplayName: "a"},
	}
	assert.Error(t, store.RecordPoints(runID, dup))

	points, err := store.GetAllPoints()
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestRunStoreMultipleRuns(t *testing.T) {
	store := newSQLiteRunStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []int64
	for i := range 3 {
		id, err := store.BeginRun(base.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordPoints(id, samplePoints()[:1]))
		require.NoError(t, store.EndRun(id, base.Add(time.Duration(i)*time.Hour+time.Second), 1))
		ids = append(ids, id)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, ids[2], status.LastRunID)
	assert.True(t, status.LastRunTime.Equal(base.Add(2*time.Hour)))
	assert.True(t, status.OldestRunTime.Equal(base))
	assert.Equal(t, 3, status.TotalPoints)
	assert.Equal(t, int64(3), status.TableSizes[runsTable])
	assert.Equal(t, int64(3), status.TableSizes[seriesPointsTable])
}

func TestRunStoreEndUnknownRun(t *testing.T) {
	store := newSQLiteRunStore(t)
	assert.Error(t, store.EndRun(99, time.Now(), 0))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 6, 1, 10, 0, 0, 500_000_000, time.UTC)

	got, err := parseTime(want)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = parseTime(want.Format(time.RFC3339Nano))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = parseTime([]byte("2024-06-01 10:00:00.5"))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	_, err = parseTime(42)
	assert.Error(t, err)
}

func TestExecuteRunsExport(t *testing.T) {
	store := newSQLiteRunStore(t)
	out := filepath.Join(t.TempDir(), "history")

	assert.ErrorContains(t, ExecuteRunsExport(store, ""), "--output-file")
	assert.ErrorContains(t, ExecuteRunsExport(store, out), "no run data")

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordPoints(runID, samplePoints()))
	require.NoError(t, store.EndRun(runID, time.Now(), 3))

	require.NoError(t, ExecuteRunsExport(store, out))
	assert.FileExists(t, out+".runs.parquet")
	assert.FileExists(t, out+".series_points.parquet")
}
