package algo

import (
	"github.com/bonuspoints/thelist/schema"
)

// CountCrossings compares every pair of adjacent snapshots. For the items present in
// both, it counts the pairs whose relative track order flips and the pairs whose
// relative rank order flips.
func CountCrossings(snapshots []schema.ListSnapshot, assignment schema.TrackAssignment) []schema.Crossing {
	if len(snapshots) < 2 {
		return []schema.Crossing{}
	}

	crossings := make([]schema.Crossing, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		prev, cur := snapshots[i-1], snapshots[i]
		prevTracks, _ := assignment.At(prev.Episode)
		curTracks, _ := assignment.At(cur.Episode)
		prevRanks, curRanks := prev.Ranks(), cur.Ranks()

		// Shared items in previous rank order.
		var shared []string
		for _, id := range prev.Items {
			if _, ok := curRanks[id]; ok {
				shared = append(shared, id)
			}
		}

		c := schema.Crossing{From: prev.Episode, To: cur.Episode, SharedItems: len(shared)}
		for a := 0; a < len(shared); a++ {
			for b := a + 1; b < len(shared); b++ {
				x, y := shared[a], shared[b]
				if flipped(prevTracks.Tracks[x], prevTracks.Tracks[y], curTracks.Tracks[x], curTracks.Tracks[y]) {
					c.TrackSwaps++
				}
				if flipped(prevRanks[x], prevRanks[y], curRanks[x], curRanks[y]) {
					c.RankSwaps++
				}
			}
		}
		crossings = append(crossings, c)
	}
	return crossings
}

// TotalSwaps sums the track and rank swaps over all crossings.
func TotalSwaps(crossings []schema.Crossing) (tracks, ranks int) {
	for _, c := range crossings {
		tracks += c.TrackSwaps
		ranks += c.RankSwaps
	}
	return tracks, ranks
}

func flipped(x0, y0, x1, y1 int) bool {
	return (x0 < y0) != (x1 < y1)
}
