// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/bonuspoints/thelist/schema"
)

// ErrNotFound is returned by a MetadataLookup when the catalog has no record for an item.
var ErrNotFound = errors.New("metadata not found")

// MetadataLookup resolves display attributes for an item identifier.
// This allows the exporter to be tested without a real catalog.
type MetadataLookup interface {
	// Lookup returns the attributes of one item, or an error wrapping ErrNotFound.
	Lookup(ctx context.Context, id string) (schema.Attributes, error)
}

// MetadataPrefetcher is implemented by lookups that can resolve many items in one call.
type MetadataPrefetcher interface {
	// Prefetch warms the lookup for the given identifiers.
	Prefetch(ctx context.Context, ids []string) error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetMetadataStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking series runs and the points they exported.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalPoints int) error

	// RecordPoints stores exported data points for a run
	RecordPoints(runID int64, points []schema.DataPoint) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllPoints returns every recorded point ordered by run, episode and rank
	GetAllPoints() ([]schema.SeriesPointRecord, error)

	// Close closes the underlying connection
	Close() error
}
