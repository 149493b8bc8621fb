// Package core runs the replay, layout and export stages behind every command.
package core

import (
	"context"
	"fmt"

	"github.com/bonuspoints/thelist/core/eventlog"
	"github.com/bonuspoints/thelist/core/export"
	"github.com/bonuspoints/thelist/core/replay"
	"github.com/bonuspoints/thelist/internal/catalog"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/records"
	"github.com/bonuspoints/thelist/schema"
)

// beginRun prints the header unless suppressed and attaches the cache manager.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string) context.Context {
	if !shouldSuppressHeader(ctx) {
		contract.LogRunHeader(cfg, command)
	}
	return contextWithCacheManager(ctx, mgr)
}

// withRunTimeout bounds a run that performs metadata lookups by cfg.Timeout.
func withRunTimeout(ctx context.Context, cfg *contract.Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}

// loadSnapshots reads the input file, validates it as an event log and replays it.
func loadSnapshots(ctx context.Context, cfg *contract.Config) ([]schema.ListSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := records.Load(cfg.InputPath, cfg.InputFormat)
	if err != nil {
		return nil, err
	}
	log, err := eventlog.Load(src)
	if err != nil {
		return nil, fmt.Errorf("invalid event log: %w", err)
	}
	snapshots, err := replay.Replay(log, replay.Options{FillGaps: cfg.FillGaps})
	if err != nil {
		return nil, fmt.Errorf("replay failed: %w", err)
	}
	return snapshots, nil
}

// newLookup builds the metadata lookup for a run. Offline runs without an
// overrides file have nothing to resolve against and get a nil lookup, so
// every display name stays the raw identifier without a warning per item.
func newLookup(ctx context.Context, cfg *contract.Config) (contract.MetadataLookup, error) {
	if cfg.Offline && cfg.OverridesPath == "" {
		return nil, nil
	}

	var store contract.CacheStore
	if mgr, ok := cacheManagerFromContext(ctx); ok {
		store = mgr.GetMetadataStore()
	}
	cat, err := catalog.NewFromConfig(cfg, store)
	if err != nil {
		return nil, fmt.Errorf("failed to set up catalog: %w", err)
	}
	return cat, nil
}

// newExporter builds an exporter with a fresh run-scoped metadata cache.
func newExporter(ctx context.Context, cfg *contract.Config) (*export.Exporter, error) {
	lookup, err := newLookup(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return export.New(lookup,
		export.WithWorkers(cfg.Workers),
		export.WithLookupTimeout(cfg.LookupTimeout),
		export.WithCache(export.NewMetadataCache()),
	), nil
}

// displayNames returns the resolved display name of every id, falling back to the id.
func displayNames(resolved map[string]export.Result) map[string]string {
	names := make(map[string]string, len(resolved))
	for id, r := range resolved {
		name := id
		if r.Err == nil && r.Attrs.DisplayName != "" {
			name = r.Attrs.DisplayName
		}
		names[id] = name
	}
	return names
}

// distinctItems returns every item that appears in any snapshot, in first-seen order.
func distinctItems(snapshots []schema.ListSnapshot) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, s := range snapshots {
		for _, id := range s.Items {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			items = append(items, id)
		}
	}
	return items
}
