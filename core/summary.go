package core

import (
	"context"
	"time"

	"github.com/bonuspoints/thelist/core/algo"
	"github.com/bonuspoints/thelist/core/export"
	"github.com/bonuspoints/thelist/core/replay"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/outwriter"
	"github.com/bonuspoints/thelist/schema"
)

// ratedCount is how many overrated and underrated items the summary lists.
const ratedCount = 5

// ExecuteSummary prints derived statistics about the list history.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetSummaryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSummaryResults(result, cfg, duration)
}

// GetSummaryResults computes tenure rankings for the top, the bottom and the whole
// list, the items the list rates furthest from the catalog, tallies of genres, engines,
// companies and platforms, and the release range of every item that was ever listed.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.SummaryResult, time.Duration, error) {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, "summary")

	ctx, cancel := withRunTimeout(ctx, cfg)
	defer cancel()

	snapshots, err := loadSnapshots(ctx, cfg)
	if err != nil {
		return schema.SummaryResult{}, 0, err
	}
	items := distinctItems(snapshots)

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return schema.SummaryResult{}, 0, err
	}
	resolved := exporter.Resolve(ctx, items)

	result := summarize(snapshots, items, resolved, cfg.ResultLimit)
	return result, time.Since(start), nil
}

// summarize builds the summary from replayed snapshots and resolved metadata.
func summarize(snapshots []schema.ListSnapshot, items []string, resolved map[string]export.Result, limit int) schema.SummaryResult {
	names := displayNames(resolved)
	named := func(tenures []schema.Tenure) []schema.Tenure {
		ranked := algo.RankTenures(tenures, limit)
		for i := range ranked {
			ranked[i].DisplayName = names[ranked[i].Item]
			if ranked[i].DisplayName == "" {
				ranked[i].DisplayName = ranked[i].Item
			}
		}
		return ranked
	}

	result := schema.SummaryResult{
		Snapshots:     len(snapshots),
		DistinctItems: len(items),
		Top:           named(algo.Extrema(snapshots, algo.Top)),
		Bottom:        named(algo.Extrema(snapshots, algo.Bottom)),
		Longest:       named(algo.Longest(snapshots)),
	}
	if latest, ok := replay.Latest(snapshots); ok {
		result.LatestSize = latest.Len()
		diffs := rankingDiffs(latest, resolved, schema.TotalRating)
		n := ratedCount
		if limit > 0 {
			n = min(n, limit)
		}
		result.Overrated = diffs.Overrated[:min(n, len(diffs.Overrated))]
		result.Underrated = diffs.Underrated[:min(n, len(diffs.Underrated))]
	}

	var genres, engines, companies, platforms []string
	for _, id := range items {
		r, ok := resolved[id]
		if !ok || r.Err != nil {
			continue
		}
		genres = append(genres, r.Attrs.Genres...)
		engines = append(engines, r.Attrs.Engines...)
		companies = append(companies, r.Attrs.Companies...)
		platforms = append(platforms, r.Attrs.Platforms...)
		release := r.Attrs.ReleaseDate
		if release.IsZero() {
			continue
		}
		if result.EarliestRelease.IsZero() || release.Before(result.EarliestRelease) {
			result.EarliestRelease = release
		}
		if release.After(result.LatestRelease) {
			result.LatestRelease = release
		}
	}
	tally := func(values []string) []schema.Tally {
		if len(values) == 0 {
			return nil
		}
		return algo.MostCommon(values, limit)
	}
	result.Genres = tally(genres)
	result.Engines = tally(engines)
	result.Companies = tally(companies)
	result.Platforms = tally(platforms)
	return result
}
