package schema

import "time"

// HistoryResult holds the replayed snapshots.
type HistoryResult struct {
	Snapshots []ListSnapshot `json:"snapshots"`
}

// TimelineResult holds the timeline of a single item.
type TimelineResult struct {
	Timeline  ItemTimeline       `json:"timeline"`
	Intervals []PresenceInterval `json:"intervals"`
}

// LayoutResult holds a track assignment and its crossing report.
type LayoutResult struct {
	Assignment TrackAssignment `json:"assignment"`
	Crossings  []Crossing      `json:"crossings"`
	TrackSwaps int             `json:"track_swaps"`
	RankSwaps  int             `json:"rank_swaps"`
}

// Tenure is the accumulated time an item spent in some position.
// Days is set when episodes are dated; Episodes is always set.
type Tenure struct {
	Item        string  `json:"item"`
	DisplayName string  `json:"display_name"`
	Episodes    int     `json:"episodes"`
	Days        float64 `json:"days,omitempty"`
}

// Tally is a count of how often a value occurs.
type Tally struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SummaryResult holds derived statistics about the list history.
type SummaryResult struct {
	Snapshots       int         `json:"snapshots"`
	DistinctItems   int         `json:"distinct_items"`
	LatestSize      int         `json:"latest_size"`
	Top             []Tenure    `json:"top"`
	Bottom          []Tenure    `json:"bottom"`
	Longest         []Tenure    `json:"longest"`
	Genres          []Tally     `json:"genres,omitempty"`
	Engines         []Tally     `json:"engines,omitempty"`
	Companies       []Tally     `json:"companies,omitempty"`
	Platforms       []Tally     `json:"platforms,omitempty"`
	Overrated       []DiffEntry `json:"overrated,omitempty"`
	Underrated      []DiffEntry `json:"underrated,omitempty"`
	EarliestRelease time.Time   `json:"earliest_release,omitzero"`
	LatestRelease   time.Time   `json:"latest_release,omitzero"`
}

// DiffEntry compares an item's list position with its catalog ranking position.
// Difference is list position minus catalog position, both 0-based.
type DiffEntry struct {
	Item            string  `json:"item"`
	DisplayName     string  `json:"display_name"`
	ListPosition    int     `json:"list_position"`
	CatalogPosition int     `json:"catalog_position"`
	Rating          float64 `json:"rating"`
	Difference      int     `json:"difference"`
}

// DiffResult holds the comparison of the latest list with a catalog ranking.
// Entries are ordered by the size of the difference. Overrated holds the items the
// list ranks above the catalog, most negative difference first, and Underrated the
// items it ranks below, most positive difference first.
type DiffResult struct {
	Kind       RatingKind  `json:"kind"`
	Entries    []DiffEntry `json:"entries"`
	Overrated  []DiffEntry `json:"overrated,omitempty"`
	Underrated []DiffEntry `json:"underrated,omitempty"`
	Unrated    []string    `json:"unrated,omitempty"`
}
