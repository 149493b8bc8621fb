package core

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/bonuspoints/thelist/core/export"
	"github.com/bonuspoints/thelist/core/replay"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/outwriter"
	"github.com/bonuspoints/thelist/schema"
)

// ExecuteDiffs prints how the latest list compares with the catalog's rating order.
func ExecuteDiffs(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetDiffResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDiffResults(result, cfg, duration)
}

// GetDiffResults ranks the items of the latest list by their catalog rating of
// kind cfg.Rating and compares that order with the list order.
func GetDiffResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.DiffResult, time.Duration, error) {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, "diffs")

	ctx, cancel := withRunTimeout(ctx, cfg)
	defer cancel()

	snapshots, err := loadSnapshots(ctx, cfg)
	if err != nil {
		return schema.DiffResult{}, 0, err
	}
	latest, ok := replay.Latest(snapshots)
	if !ok || latest.Len() == 0 {
		return schema.DiffResult{}, 0, errors.New("the latest list is empty")
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return schema.DiffResult{}, 0, err
	}
	resolved := exporter.Resolve(ctx, latest.Items)

	return rankingDiffs(latest, resolved, cfg.Rating), time.Since(start), nil
}

// rankingDiffs compares list positions with positions in the catalog ranking.
// Only rated items take part; both positions count rated items only, so the two
// orders cover the same set. Ties in rating keep list order. Entries are sorted
// by the size of the difference, largest first.
func rankingDiffs(latest schema.ListSnapshot, resolved map[string]export.Result, kind schema.RatingKind) schema.DiffResult {
	type rated struct {
		item    string
		name    string
		listPos int
		rating  float64
	}

	result := schema.DiffResult{Kind: kind, Entries: []schema.DiffEntry{}}
	var items []rated
	for _, id := range latest.Items {
		r := resolved[id]
		rating, ok := r.Attrs.Rating(kind)
		if r.Err != nil || !ok {
			result.Unrated = append(result.Unrated, id)
			continue
		}
		name := r.Attrs.DisplayName
		if name == "" {
			name = id
		}
		items = append(items, rated{item: id, name: name, listPos: len(items), rating: rating})
	}

	byRating := slices.Clone(items)
	slices.SortStableFunc(byRating, func(a, b rated) int {
		return cmp.Compare(b.rating, a.rating)
	})
	catalogPos := make(map[string]int, len(byRating))
	for i, it := range byRating {
		catalogPos[it.item] = i
	}

	for _, it := range items {
		cp := catalogPos[it.item]
		result.Entries = append(result.Entries, schema.DiffEntry{
			Item:            it.item,
			DisplayName:     it.name,
			ListPosition:    it.listPos,
			CatalogPosition: cp,
			Rating:          it.rating,
			Difference:      it.listPos - cp,
		})
	}
	result.Overrated, result.Underrated = splitBySign(result.Entries)
	slices.SortStableFunc(result.Entries, func(a, b schema.DiffEntry) int {
		return cmp.Compare(abs(b.Difference), abs(a.Difference))
	})
	return result
}

// splitBySign orders entries by signed difference and returns those with a negative
// difference, most negative first, and those with a positive one, most positive first.
// Items at the same position in both rankings are in neither.
func splitBySign(entries []schema.DiffEntry) (overrated, underrated []schema.DiffEntry) {
	signed := slices.Clone(entries)
	slices.SortStableFunc(signed, func(a, b schema.DiffEntry) int {
		return cmp.Compare(a.Difference, b.Difference)
	})
	for _, e := range signed {
		if e.Difference < 0 {
			overrated = append(overrated, e)
		}
	}
	for i := len(signed) - 1; i >= 0; i-- {
		if signed[i].Difference > 0 {
			underrated = append(underrated, signed[i])
		}
	}
	return overrated, underrated
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
