package algo

import (
	"cmp"
	"slices"

	"github.com/bonuspoints/thelist/schema"
)

// trackFunc computes the tracks of one snapshot given the tracks of the previous one.
// prev is empty for the first snapshot.
type trackFunc func(prev map[string]int, snapshot schema.ListSnapshot) map[string]int

// AssignTracks lays out snapshots into tracks using the given strategy.
// Tracks at every episode are the contiguous integers 0..n-1 for the n present items.
// Lanes and presence intervals are computed independently of the strategy.
func AssignTracks(snapshots []schema.ListSnapshot, strategy schema.LayoutStrategy) schema.TrackAssignment {
	assign := stableTracks
	if strategy == schema.RankLayout {
		assign = rankTracks
	} else {
		strategy = schema.StableLayout
	}

	result := schema.TrackAssignment{
		Strategy:  strategy,
		Episodes:  make([]schema.EpisodeTracks, 0, len(snapshots)),
		Intervals: []schema.PresenceInterval{},
	}

	prevTracks := map[string]int{}
	prevLanes := map[string]int{}
	open := map[string]int{} // item -> index into result.Intervals
	for _, s := range snapshots {
		tracks := assign(prevTracks, s)
		lanes := assignLanes(prevLanes, s)

		for _, id := range s.Items {
			if i, ok := open[id]; ok {
				result.Intervals[i].End = s.Episode
				continue
			}
			open[id] = len(result.Intervals)
			result.Intervals = append(result.Intervals, schema.PresenceInterval{
				Item: id, Start: s.Episode, End: s.Episode, Lane: lanes[id],
			})
		}
		for id := range open {
			if _, ok := tracks[id]; !ok {
				delete(open, id)
			}
		}

		result.Episodes = append(result.Episodes, schema.EpisodeTracks{
			Episode: s.Episode,
			Tracks:  tracks,
			Lanes:   lanes,
		})
		prevTracks, prevLanes = tracks, lanes
	}
	return result
}

// rankTracks places every item on the track matching its rank.
func rankTracks(_ map[string]int, s schema.ListSnapshot) map[string]int {
	tracks := make(map[string]int, len(s.Items))
	for i, id := range s.Items {
		tracks[id] = i
	}
	return tracks
}

type mergeKey struct {
	id     string
	anchor int
	rank   int
}

// stableTracks is a stable merge of the previous track order with the new ranking.
// Continuing items are ordered by their previous track. An entering item is anchored
// to the nearest continuing item above it in the new ranking and sorts right after it,
// entering items sharing an anchor keep their rank order. Items entering above every
// continuing item anchor at -1, so a snapshot of only new items is laid out by rank.
func stableTracks(prev map[string]int, s schema.ListSnapshot) map[string]int {
	keys := make([]mergeKey, len(s.Items))
	anchor := -1
	for i, id := range s.Items {
		if t, ok := prev[id]; ok {
			anchor = t
		}
		keys[i] = mergeKey{id: id, anchor: anchor, rank: i + 1}
	}

	slices.SortStableFunc(keys, func(a, b mergeKey) int {
		return cmp.Or(cmp.Compare(a.anchor, b.anchor), cmp.Compare(a.rank, b.rank))
	})

	tracks := make(map[string]int, len(keys))
	for i, k := range keys {
		tracks[k.id] = i
	}
	return tracks
}

// assignLanes keeps the lane of every continuing item and hands each entering item,
// in rank order, the smallest lane nobody present is using.
func assignLanes(prev map[string]int, s schema.ListSnapshot) map[string]int {
	lanes := make(map[string]int, len(s.Items))
	used := make(map[int]struct{}, len(s.Items))
	for _, id := range s.Items {
		if l, ok := prev[id]; ok {
			lanes[id] = l
			used[l] = struct{}{}
		}
	}

	next := 0
	for _, id := range s.Items {
		if _, ok := lanes[id]; ok {
			continue
		}
		for {
			if _, taken := used[next]; !taken {
				break
			}
			next++
		}
		lanes[id] = next
		used[next] = struct{}{}
	}
	return lanes
}
