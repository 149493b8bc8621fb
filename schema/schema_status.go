package schema

import "time"

// CacheStatus represents the status of the metadata cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStatus represents the status of the run tracking store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalPoints   int              `json:"total_points"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the thelist_runs table.
type RunRecord struct {
	RunID       int64
	RunUUID     string
	StartTime   time.Time
	EndTime     *time.Time
	DurationMs  *int64
	TotalPoints *int64
	ConfigJSON  *string
}

// SeriesPointRecord represents a row from the thelist_series_points table.
type SeriesPointRecord struct {
	RunID       int64
	Episode     int32
	ItemID      string
	Rank        int32
	Track       int32
	Lane        int32
	DisplayName string
	CatalogRef  *string
}
