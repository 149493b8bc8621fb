// Package export flattens timelines and track assignments into the rows a renderer consumes.
package export

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
)

// Exporter attaches display metadata to the layout. Lookups run on a bounded
// worker pool, each under its own timeout, and never affect ordering.
type Exporter struct {
	lookup        contract.MetadataLookup
	cache         *MetadataCache
	workers       int
	lookupTimeout time.Duration
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithWorkers sets the number of concurrent lookups.
func WithWorkers(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLookupTimeout bounds every single lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.lookupTimeout = d
		}
	}
}

// WithCache shares a run-scoped cache between exports.
func WithCache(c *MetadataCache) Option {
	return func(e *Exporter) {
		if c != nil {
			e.cache = c
		}
	}
}

// New returns an Exporter. A nil lookup leaves every display name as the raw identifier.
func New(lookup contract.MetadataLookup, opts ...Option) *Exporter {
	e := &Exporter{
		lookup:        lookup,
		cache:         NewMetadataCache(),
		workers:       contract.DefaultWorkers,
		lookupTimeout: contract.DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the run-scoped cache used by the exporter.
func (e *Exporter) Cache() *MetadataCache {
	return e.cache
}

// Export produces one DataPoint per (item, episode) where the item is present,
// ordered by episode and then rank. Metadata failures are logged and the raw
// identifier is used as the display name.
func (e *Exporter) Export(ctx context.Context, timelines []schema.ItemTimeline, assignment schema.TrackAssignment) (schema.SeriesResult, error) {
	result := schema.SeriesResult{Points: []schema.DataPoint{}}
	if len(timelines) == 0 || len(timelines[0].Entries) == 0 {
		return result, nil
	}

	entries := timelines[0].Entries
	firstEpisode := entries[0].Episode
	lastIdx := len(entries) - 1

	sizes := make(map[int]int, len(entries))
	ids := make([]string, 0, len(timelines))
	type ranked struct {
		id   string
		rank int
	}
	var latest []ranked
	for _, tl := range timelines {
		ids = append(ids, tl.Item)
		for _, en := range tl.Entries {
			if en.Present {
				sizes[en.Episode]++
			}
		}
		if lastIdx < len(tl.Entries) && tl.Entries[lastIdx].Present {
			latest = append(latest, ranked{id: tl.Item, rank: tl.Entries[lastIdx].Rank})
		}
	}
	slices.SortFunc(latest, func(a, b ranked) int { return cmp.Compare(a.rank, b.rank) })
	latestIDs := make([]string, len(latest))
	for i, r := range latest {
		latestIDs[i] = r.id
	}
	styles := Palette(latestIDs)

	resolved := e.Resolve(ctx, ids)

	for _, tl := range timelines {
		res := resolved[tl.Item]
		style := StyleFor(styles, tl.Item)
		for _, en := range tl.Entries {
			if !en.Present {
				continue
			}
			et, ok := assignment.At(en.Episode)
			if !ok {
				return result, fmt.Errorf("no track assignment for episode %d", en.Episode)
			}
			track, ok := et.Tracks[tl.Item]
			if !ok {
				return result, fmt.Errorf("no track for item %q at episode %d", tl.Item, en.Episode)
			}

			p := schema.DataPoint{
				Episode:       en.Episode,
				Date:          en.Date,
				ItemID:        tl.Item,
				Rank:          en.Rank,
				Track:         track,
				Lane:          et.Lanes[tl.Item],
				DisplayName:   res.Attrs.DisplayName,
				CatalogRef:    res.Attrs.CatalogRef,
				CoverImageRef: res.Attrs.CoverImageRef,
				Color:         style.Color,
				Marker:        style.Marker,
				ScaledY:       ScaledY(en.Rank, sizes[en.Episode], en.Episode == firstEpisode),
			}
			if res.Err != nil {
				p.MetadataMissing = true
			}
			if p.DisplayName == "" {
				p.DisplayName = tl.Item
			}
			result.Points = append(result.Points, p)
		}
		if res.Err != nil {
			result.Missing = append(result.Missing, tl.Item)
		}
	}

	slices.SortFunc(result.Points, func(a, b schema.DataPoint) int {
		return cmp.Or(cmp.Compare(a.Episode, b.Episode), cmp.Compare(a.Rank, b.Rank))
	})
	slices.Sort(result.Missing)
	return result, nil
}

// Resolve looks up every distinct identifier once and returns the outcomes by identifier.
// Outcomes already in the cache are reused.
func (e *Exporter) Resolve(ctx context.Context, ids []string) map[string]Result {
	out := make(map[string]Result, len(ids))
	var pending []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if r, ok := e.cache.Load(id); ok {
			out[id] = r
			continue
		}
		pending = append(pending, id)
	}
	if len(pending) == 0 {
		return out
	}

	if e.lookup == nil {
		for _, id := range pending {
			r := Result{Err: &MetadataLookupError{Item: id, Err: contract.ErrNotFound}}
			e.cache.Store(id, r)
			out[id] = r
		}
		return out
	}

	if p, ok := e.lookup.(contract.MetadataPrefetcher); ok {
		if err := p.Prefetch(ctx, pending); err != nil {
			contract.LogWarn("Metadata prefetch failed", err)
		}
	}

	type idResult struct {
		id string
		r  Result
	}
	idCh := make(chan string, len(pending))
	resCh := make(chan idResult, len(pending))
	var wg sync.WaitGroup

	// Start worker pool
	for range min(e.workers, len(pending)) {
		wg.Go(func() {
			for id := range idCh {
				resCh <- idResult{id: id, r: e.lookupOne(ctx, id)}
			}
		})
	}

	for _, id := range pending {
		idCh <- id
	}
	close(idCh)

	wg.Wait()
	close(resCh)

	for ir := range resCh {
		if ir.r.Err != nil {
			contract.LogWarn("Metadata omitted", ir.r.Err)
		}
		e.cache.Store(ir.id, ir.r)
		out[ir.id] = ir.r
	}
	return out
}

// lookupOne runs a single lookup under the per-lookup timeout. The lookup runs in
// its own goroutine so a collaborator that ignores its context still cannot stall a worker.
func (e *Exporter) lookupOne(ctx context.Context, id string) Result {
	lctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		attrs, err := e.lookup.Lookup(lctx, id)
		done <- Result{Attrs: attrs, Err: err}
	}()

	var r Result
	select {
	case r = <-done:
	case <-lctx.Done():
		r = Result{Err: lctx.Err()}
	}
	if r.Err != nil {
		return Result{Err: &MetadataLookupError{Item: id, Err: r.Err}}
	}
	return r
}
