//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bonuspoints/thelist/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offline flags keep every run away from the catalog API and the default cache.
var offline = []string{"--offline", "--cache-backend", "none"}

func runJSON(t *testing.T, dir string, v any, args ...string) {
	t.Helper()
	args = append(append(args, offline...), "--output", "json")
	out, err := runList(t, dir, args...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), "stdout should hold only the JSON document")
}

func TestHistoryCommand(t *testing.T) {
	dir := workspace(t)

	var got schema.HistoryResult
	runJSON(t, dir, &got, "history", "events.csv")

	require.Len(t, got.Snapshots, 3)
	assert.Equal(t, []string{"hades", "celeste", "tunic"}, got.Snapshots[0].Items)
	assert.Equal(t, []string{"tunic", "hades"}, got.Snapshots[1].Items)
	assert.Equal(t, []string{"tunic", "celeste", "hades"}, got.Snapshots[2].Items)
}

func TestTimelineCommand(t *testing.T) {
	dir := workspace(t)

	var got schema.TimelineResult
	runJSON(t, dir, &got, "timeline", "events.csv", "--item", "celeste")

	require.Len(t, got.Timeline.Entries, 3)
	assert.True(t, got.Timeline.Entries[0].Present)
	assert.False(t, got.Timeline.Entries[1].Present)
	assert.True(t, got.Timeline.Entries[2].Present)
	assert.Len(t, got.Intervals, 2)

	_, err := runList(t, dir, append([]string{"timeline", "events.csv", "--item", "zelda"}, offline...)...)
	assert.Error(t, err, "an item that never appears should fail the command")
}

func TestLayoutCommand(t *testing.T) {
	dir := workspace(t)

	for _, strategy := range []schema.LayoutStrategy{schema.StableLayout, schema.RankLayout} {
		t.Run(string(strategy), func(t *testing.T) {
			var got schema.LayoutResult
			runJSON(t, dir, &got, "layout", "events.csv", "--layout", string(strategy))

			assert.Equal(t, strategy, got.Assignment.Strategy)
			assert.Len(t, got.Assignment.Episodes, 3)
			assert.Len(t, got.Crossings, 2)
		})
	}

	_, err := runList(t, dir, append([]string{"layout", "events.csv", "--layout", "force"}, offline...)...)
	assert.Error(t, err, "an unknown layout should be rejected")
}

func TestSeriesWithRunTracking(t *testing.T) {
	dir := workspace(t)
	runsDB := filepath.Join(dir, "runs.db")
	t.Setenv("THELIST_RUNS_BACKEND", "sqlite")
	t.Setenv("THELIST_RUNS_DB_CONNECT", runsDB)

	var got schema.SeriesResult
	runJSON(t, dir, &got, "series", "events.csv")
	assert.Len(t, got.Points, 8)

	_, err := runList(t, dir, "runs", "status")
	require.NoError(t, err)

	export := filepath.Join(dir, "export")
	_, err = runList(t, dir, "runs", "export", "--output-file", export)
	require.NoError(t, err)
	for _, suffix := range []string{".runs.parquet", ".series_points.parquet"} {
		_, err := os.Stat(export + suffix)
		assert.NoError(t, err, "export should write %s", suffix)
	}

	_, err = runList(t, dir, "runs", "clear")
	require.NoError(t, err)
}

func TestSeriesParquetOutput(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "series.parquet")

	_, err := runList(t, dir, append([]string{"series", "events.csv", "--output", "parquet", "--output-file", out}, offline...)...)
	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = runList(t, dir, append([]string{"history", "events.csv", "--output", "parquet", "--output-file", out}, offline...)...)
	assert.Error(t, err, "parquet output is only available for the series")
}
