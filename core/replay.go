package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bonuspoints/thelist/core/algo"
	"github.com/bonuspoints/thelist/core/replay"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/outwriter"
	"github.com/bonuspoints/thelist/schema"
)

// ExecuteHistory replays the event log and prints every snapshot.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetHistoryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintHistoryResults(result, cfg, duration)
}

// GetHistoryResults replays the event log into ordered snapshots.
func GetHistoryResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.HistoryResult, time.Duration, error) {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, "history")

	snapshots, err := loadSnapshots(ctx, cfg)
	if err != nil {
		return schema.HistoryResult{}, 0, err
	}
	if snapshots == nil {
		snapshots = []schema.ListSnapshot{}
	}
	return schema.HistoryResult{Snapshots: snapshots}, time.Since(start), nil
}

// ExecuteTimeline prints the rank of one item over every episode.
func ExecuteTimeline(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetTimelineResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintTimelineResults(result, cfg, duration)
}

// GetTimelineResults builds the timeline of cfg.Item with its presence intervals.
func GetTimelineResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TimelineResult, time.Duration, error) {
	start := time.Now()
	if cfg.Item == "" {
		return schema.TimelineResult{}, 0, errors.New("an item is required for the timeline (use --item)")
	}
	ctx = beginRun(ctx, cfg, mgr, "timeline")

	snapshots, err := loadSnapshots(ctx, cfg)
	if err != nil {
		return schema.TimelineResult{}, 0, err
	}
	timeline, ok := replay.Timeline(snapshots, cfg.Item)
	if !ok {
		return schema.TimelineResult{}, 0, fmt.Errorf("item %q never appears on the list", cfg.Item)
	}

	intervals := []schema.PresenceInterval{}
	for _, iv := range algo.AssignTracks(snapshots, cfg.Layout).Intervals {
		if iv.Item == cfg.Item {
			intervals = append(intervals, iv)
		}
	}
	return schema.TimelineResult{Timeline: timeline, Intervals: intervals}, time.Since(start), nil
}

// ExecuteLayout prints the track assignment and its crossing counts.
func ExecuteLayout(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetLayoutResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintLayoutResults(result, cfg, duration)
}

// GetLayoutResults assigns tracks with the configured strategy and counts crossings
// between adjacent episodes.
func GetLayoutResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.LayoutResult, time.Duration, error) {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, "layout")

	snapshots, err := loadSnapshots(ctx, cfg)
	if err != nil {
		return schema.LayoutResult{}, 0, err
	}
	assignment := algo.AssignTracks(snapshots, cfg.Layout)
	crossings := algo.CountCrossings(snapshots, assignment)
	trackSwaps, rankSwaps := algo.TotalSwaps(crossings)

	return schema.LayoutResult{
		Assignment: assignment,
		Crossings:  crossings,
		TrackSwaps: trackSwaps,
		RankSwaps:  rankSwaps,
	}, time.Since(start), nil
}
