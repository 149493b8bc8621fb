package core

import (
	"context"
	"time"

	"github.com/bonuspoints/thelist/core/algo"
	"github.com/bonuspoints/thelist/core/replay"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/outwriter"
	"github.com/bonuspoints/thelist/schema"
)

// ExecuteSeries exports the chart series and prints it in the configured format.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetSeriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSeriesResults(result, cfg, duration)
}

// GetSeriesResults replays the log, lays it out and attaches display metadata to
// every present (item, episode). Runs are recorded when a run store is configured.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.SeriesResult, time.Duration, error) {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, "series")

	ctx, cancel := withRunTimeout(ctx, cfg)
	defer cancel()

	// --- 0. Begin Run Tracking (if configured) ---
	var runStore contract.RunStore
	if mgr != nil {
		runStore = mgr.GetRunStore()
	}
	if runStore != nil {
		configParams := map[string]any{
			"input":        cfg.InputPath,
			"input_format": string(cfg.InputFormat),
			"layout":       string(cfg.Layout),
			"fill_gaps":    cfg.FillGaps,
			"offline":      cfg.Offline,
			"workers":      cfg.Workers,
		}
		runID, err := runStore.BeginRun(start, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 1. Replay, Layout and Export ---
	result, err := exportSeries(ctx, cfg)

	// --- 2. Record and End Run Tracking ---
	recordRun(ctx, runStore, result.Points, err)
	if err != nil {
		return schema.SeriesResult{}, 0, err
	}

	return result, time.Since(start), nil
}

// exportSeries replays the log, lays it out and exports the points with metadata.
func exportSeries(ctx context.Context, cfg *contract.Config) (schema.SeriesResult, error) {
	snapshots, err := loadSnapshots(ctx, cfg)
	if err != nil {
		return schema.SeriesResult{}, err
	}
	assignment := algo.AssignTracks(snapshots, cfg.Layout)

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return schema.SeriesResult{}, err
	}
	return exporter.Export(ctx, replay.Timelines(snapshots), assignment)
}

// recordRun stores the exported points and closes the run. A failed export still
// closes its run, with no points. Failures are logged and never fail the export.
func recordRun(ctx context.Context, store contract.RunStore, points []schema.DataPoint, exportErr error) {
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if exportErr != nil {
		points = nil
	} else if err := store.RecordPoints(runID, points); err != nil {
		contract.LogWarn("Failed to record series points", err)
	}
	if err := store.EndRun(runID, time.Now(), len(points)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
