package export

import (
	"sync"

	"github.com/bonuspoints/thelist/schema"
)

// Result is the outcome of one metadata lookup.
type Result struct {
	Attrs schema.Attributes
	Err   error
}

// MetadataCache holds lookup outcomes for the lifetime of one run.
// Misses are remembered too, so a failing item is asked for only once.
type MetadataCache struct {
	mu      sync.RWMutex
	entries map[string]Result
}

// NewMetadataCache returns an empty cache.
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{entries: make(map[string]Result)}
}

// Load returns the cached outcome for id. ok is false when id was never looked up.
func (c *MetadataCache) Load(id string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[id]
	return r, ok
}

// Store records the outcome of a lookup.
func (c *MetadataCache) Store(id string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = r
}

// Len returns the number of cached outcomes.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
