package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
	"golang.org/x/sync/errgroup"
)

// currentCacheVersion defines the version of the cached attribute schema.
const currentCacheVersion = 2

// Batch limits for prefetching. IGDB caps a query at 500 results.
const (
	MaxBatchSize      = 500
	maxConcurrentRuns = 4
)

// GameFetcher fetches games by IGDB id. *Client implements it.
type GameFetcher interface {
	Games(ctx context.Context, ids []int64) ([]Game, error)
}

// Catalog resolves attributes from overrides, then the durable cache, then the API.
// It implements contract.MetadataLookup and contract.MetadataPrefetcher.
type Catalog struct {
	fetcher   GameFetcher
	store     contract.CacheStore
	ttl       time.Duration
	overrides map[string]schema.Attributes

	mu      sync.RWMutex
	fetched map[string]schema.Attributes
	missing map[string]struct{}
}

var (
	_ contract.MetadataLookup     = &Catalog{} // Compile-time check
	_ contract.MetadataPrefetcher = &Catalog{}
)

// New creates a catalog. fetcher may be nil to work offline; store may be nil to skip durable caching.
func New(fetcher GameFetcher, store contract.CacheStore, ttl time.Duration, overrides map[string]schema.Attributes) *Catalog {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	return &Catalog{
		fetcher:   fetcher,
		store:     store,
		ttl:       ttl,
		overrides: overrides,
		fetched:   make(map[string]schema.Attributes),
		missing:   make(map[string]struct{}),
	}
}

// NewFromConfig builds the catalog for a run from the validated config.
func NewFromConfig(cfg *contract.Config, store contract.CacheStore) (*Catalog, error) {
	var overrides map[string]schema.Attributes
	if cfg.OverridesPath != "" {
		var err error
		if overrides, err = LoadOverrides(cfg.OverridesPath); err != nil {
			return nil, err
		}
	}

	var fetcher GameFetcher
	if !cfg.Offline {
		client, err := NewClient(cfg.ClientID, cfg.ClientSecret, WithBaseURL(cfg.CatalogURL), WithAuthURL(cfg.AuthURL))
		if err != nil {
			return nil, err
		}
		fetcher = client
	}
	return New(fetcher, store, cfg.CacheTTL, overrides), nil
}

// Lookup returns the attributes of one item.
func (c *Catalog) Lookup(ctx context.Context, id string) (schema.Attributes, error) {
	if attrs, ok := c.local(id); ok {
		return attrs, nil
	}
	c.mu.RLock()
	_, miss := c.missing[id]
	c.mu.RUnlock()
	if miss {
		return schema.Attributes{}, fmt.Errorf("item %s: %w", id, contract.ErrNotFound)
	}

	gameID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return schema.Attributes{}, fmt.Errorf("item %s is not a catalog id: %w", id, contract.ErrNotFound)
	}
	if c.fetcher == nil {
		return schema.Attributes{}, fmt.Errorf("item %s offline: %w", id, contract.ErrNotFound)
	}

	if err := c.fetch(ctx, []int64{gameID}); err != nil {
		return schema.Attributes{}, err
	}
	if attrs, ok := c.local(id); ok {
		return attrs, nil
	}
	return schema.Attributes{}, fmt.Errorf("item %s: %w", id, contract.ErrNotFound)
}

// Prefetch resolves every id not yet known in batches of at most MaxBatchSize, a few batches at a time.
func (c *Catalog) Prefetch(ctx context.Context, ids []string) error {
	if c.fetcher == nil {
		return nil
	}
	var pending []int64
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := c.local(id); ok {
			continue
		}
		gameID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[gameID]; dup {
			continue
		}
		seen[gameID] = struct{}{}
		pending = append(pending, gameID)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRuns)
	for batch := range slices.Chunk(pending, MaxBatchSize) {
		g.Go(func() error {
			return c.fetch(gctx, batch)
		})
	}
	return g.Wait()
}

// local checks overrides, the in-memory results and the durable cache.
func (c *Catalog) local(id string) (schema.Attributes, bool) {
	if attrs, ok := c.overrides[id]; ok {
		return attrs, true
	}
	c.mu.RLock()
	attrs, ok := c.fetched[id]
	c.mu.RUnlock()
	if ok {
		return attrs, true
	}
	if attrs, ok := c.checkCacheHit(id); ok {
		c.mu.Lock()
		c.fetched[id] = attrs
		c.mu.Unlock()
		return attrs, true
	}
	return schema.Attributes{}, false
}

// fetch asks the API for ids and records both hits and misses.
func (c *Catalog) fetch(ctx context.Context, ids []int64) error {
	games, err := c.fetcher.Games(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetch %d games: %w", len(ids), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	found := make(map[string]struct{}, len(games))
	for _, g := range games {
		attrs := g.Attributes()
		found[attrs.ID] = struct{}{}
		c.fetched[attrs.ID] = attrs
		c.storeCache(attrs)
	}
	for _, id := range ids {
		key := strconv.FormatInt(id, 10)
		if _, ok := found[key]; !ok {
			c.missing[key] = struct{}{}
		}
	}
	return nil
}

// checkCacheHit attempts to retrieve and validate a cached attribute record.
func (c *Catalog) checkCacheHit(id string) (schema.Attributes, bool) {
	if c.store == nil {
		return schema.Attributes{}, false
	}
	data, version, ts, err := c.store.Get(cacheKey(id))
	if err != nil {
		return schema.Attributes{}, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > c.ttl {
		return schema.Attributes{}, false
	}
	var attrs schema.Attributes
	if err := json.Unmarshal(data, &attrs); err != nil {
		return schema.Attributes{}, false
	}
	return attrs, true
}

func (c *Catalog) storeCache(attrs schema.Attributes) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return
	}
	if err := c.store.Set(cacheKey(attrs.ID), data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache metadata for item "+attrs.ID, err)
	}
}

// cacheKey creates the durable key of an item's attributes.
func cacheKey(id string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("igdb:game:"+id)))
}
