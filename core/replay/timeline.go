package replay

import (
	"github.com/bonuspoints/thelist/schema"
)

// Timelines returns one timeline per item that ever appears, in order of first appearance.
// Each timeline has an entry for every snapshot.
func Timelines(snapshots []schema.ListSnapshot) []schema.ItemTimeline {
	var order []string
	seen := make(map[string]int)
	ranks := make([]map[string]int, len(snapshots))

	for i, s := range snapshots {
		ranks[i] = s.Ranks()
		for _, id := range s.Items {
			if _, ok := seen[id]; !ok {
				seen[id] = len(order)
				order = append(order, id)
			}
		}
	}

	timelines := make([]schema.ItemTimeline, len(order))
	for i, id := range order {
		timelines[i] = buildTimeline(id, snapshots, ranks)
	}
	return timelines
}

// Timeline returns the timeline of a single item.
func Timeline(snapshots []schema.ListSnapshot, item string) (schema.ItemTimeline, bool) {
	ranks := make([]map[string]int, len(snapshots))
	found := false
	for i, s := range snapshots {
		ranks[i] = s.Ranks()
		if _, ok := ranks[i][item]; ok {
			found = true
		}
	}
	if !found {
		return schema.ItemTimeline{}, false
	}
	return buildTimeline(item, snapshots, ranks), true
}

func buildTimeline(item string, snapshots []schema.ListSnapshot, ranks []map[string]int) schema.ItemTimeline {
	entries := make([]schema.TimelineEntry, len(snapshots))
	for i, s := range snapshots {
		rank, ok := ranks[i][item]
		entries[i] = schema.TimelineEntry{Episode: s.Episode, Date: s.Date, Rank: rank, Present: ok}
	}
	return schema.ItemTimeline{Item: item, Entries: entries}
}
