// Package schema has the data types shared by the replay, layout and export stages.
package schema

import (
	"slices"
	"time"
)

// RankEvent is a single edit to the ranked list.
type RankEvent struct {
	Episode  int    `json:"episode" yaml:"episode"`
	Item     string `json:"item" yaml:"item"`
	Op       OpKind `json:"op" yaml:"op"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"` // 1-based, 0 when absent
}

// Episode is one point on the time axis. Date is zero when unknown.
type Episode struct {
	Index int       `json:"index" yaml:"index"`
	Date  time.Time `json:"date,omitzero" yaml:"date,omitempty"`
}

// ListSnapshot is the ordered list after all events of one episode.
type ListSnapshot struct {
	Episode   int       `json:"episode"`
	Date      time.Time `json:"date,omitzero"`
	Items     []string  `json:"items"`
	Synthetic bool      `json:"synthetic,omitempty"` // carried forward for an episode without events
}

// Len returns the number of items in the snapshot.
func (s ListSnapshot) Len() int {
	return len(s.Items)
}

// Rank returns the 1-based position of item, or 0 when it is absent.
func (s ListSnapshot) Rank(item string) int {
	return slices.Index(s.Items, item) + 1
}

// Ranks returns a lookup of item to 1-based position.
func (s ListSnapshot) Ranks() map[string]int {
	ranks := make(map[string]int, len(s.Items))
	for i, id := range s.Items {
		ranks[id] = i + 1
	}
	return ranks
}

// TimelineEntry is an item's state at one episode.
type TimelineEntry struct {
	Episode int       `json:"episode"`
	Date    time.Time `json:"date,omitzero"`
	Rank    int       `json:"rank,omitempty"`
	Present bool      `json:"present"`
}

// ItemTimeline is an item's rank over every snapshot episode.
type ItemTimeline struct {
	Item    string          `json:"item"`
	Entries []TimelineEntry `json:"entries"`
}

// FirstSeen returns the first episode where the item was present.
func (t ItemTimeline) FirstSeen() (int, bool) {
	for _, e := range t.Entries {
		if e.Present {
			return e.Episode, true
		}
	}
	return 0, false
}

// PresentCount returns how many episodes the item was on the list.
func (t ItemTimeline) PresentCount() int {
	n := 0
	for _, e := range t.Entries {
		if e.Present {
			n++
		}
	}
	return n
}

// EpisodeTracks holds the track and lane of every item present at one episode.
type EpisodeTracks struct {
	Episode int            `json:"episode"`
	Tracks  map[string]int `json:"tracks"`
	Lanes   map[string]int `json:"lanes"`
}

// PresenceInterval is a contiguous run of episodes in which an item stayed on the list.
type PresenceInterval struct {
	Item  string `json:"item"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Lane  int    `json:"lane"`
}

// TrackAssignment is the layout produced for a sequence of snapshots.
// Episodes is aligned with the snapshots it was computed from.
type TrackAssignment struct {
	Strategy  LayoutStrategy     `json:"strategy"`
	Episodes  []EpisodeTracks    `json:"episodes"`
	Intervals []PresenceInterval `json:"intervals"`
}

// At returns the tracks for an episode.
func (a TrackAssignment) At(episode int) (EpisodeTracks, bool) {
	i, ok := slices.BinarySearchFunc(a.Episodes, episode, func(e EpisodeTracks, target int) int {
		return e.Episode - target
	})
	if !ok {
		return EpisodeTracks{}, false
	}
	return a.Episodes[i], true
}

// Track returns the track of item at episode.
func (a TrackAssignment) Track(episode int, item string) (int, bool) {
	et, ok := a.At(episode)
	if !ok {
		return 0, false
	}
	t, ok := et.Tracks[item]
	return t, ok
}

// Crossing counts order flips between two adjacent episodes.
type Crossing struct {
	From        int `json:"from"`
	To          int `json:"to"`
	TrackSwaps  int `json:"track_swaps"`
	RankSwaps   int `json:"rank_swaps"`
	SharedItems int `json:"shared_items"`
}

// Attributes are display properties resolved from the catalog.
type Attributes struct {
	ID            string    `json:"id" yaml:"id"`
	DisplayName   string    `json:"display_name" yaml:"display_name"`
	CatalogRef    string    `json:"catalog_ref,omitempty" yaml:"catalog_ref,omitempty"`
	CoverImageRef string    `json:"cover_image_ref,omitempty" yaml:"cover_image_ref,omitempty"`
	ReleaseDate   time.Time `json:"release_date,omitzero" yaml:"release_date,omitempty"`
	Genres        []string  `json:"genres,omitempty" yaml:"genres,omitempty"`
	Engines       []string  `json:"engines,omitempty" yaml:"engines,omitempty"`
	Companies     []string  `json:"companies,omitempty" yaml:"companies,omitempty"`
	Platforms     []string  `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	UserRating    *float64  `json:"user_rating,omitempty" yaml:"user_rating,omitempty"`
	CriticRating  *float64  `json:"critic_rating,omitempty" yaml:"critic_rating,omitempty"`
	TotalRating   *float64  `json:"total_rating,omitempty" yaml:"total_rating,omitempty"`
}

// Rating returns the rating of the given kind if the catalog has one.
func (a Attributes) Rating(kind RatingKind) (float64, bool) {
	var r *float64
	switch kind {
	case UserRating:
		r = a.UserRating
	case CriticRating:
		r = a.CriticRating
	default:
		r = a.TotalRating
	}
	if r == nil {
		return 0, false
	}
	return *r, true
}

// DataPoint is one exported row: an item present at an episode.
type DataPoint struct {
	Episode         int        `json:"episode"`
	Date            time.Time  `json:"date,omitzero"`
	ItemID          string     `json:"item_id"`
	Rank            int        `json:"rank"`
	Track           int        `json:"track"`
	Lane            int        `json:"lane"`
	DisplayName     string     `json:"display_name"`
	CatalogRef      string     `json:"catalog_ref,omitempty"`
	CoverImageRef   string     `json:"cover_image_ref,omitempty"`
	Color           string     `json:"color"`
	Marker          MarkerKind `json:"marker"`
	ScaledY         float64    `json:"scaled_y"`
	MetadataMissing bool       `json:"metadata_missing,omitempty"`
}

// SeriesResult is the exporter output.
type SeriesResult struct {
	Points  []DataPoint `json:"points"`
	Missing []string    `json:"missing,omitempty"` // items whose metadata could not be resolved
}
