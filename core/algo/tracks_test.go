package algo

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/bonuspoints/thelist/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snaps(lists ...[]string) []schema.ListSnapshot {
	out := make([]schema.ListSnapshot, len(lists))
	for i, l := range lists {
		out[i] = schema.ListSnapshot{Episode: i + 1, Items: l}
	}
	return out
}

// TestAssignTracksScenario checks the stable layout on a simple swap and removal.
func TestAssignTracksScenario(t *testing.T) {
	s := snaps([]string{"A", "B"}, []string{"B", "A"}, []string{"A"})
	a := AssignTracks(s, schema.StableLayout)

	require.Len(t, a.Episodes, 3)
	assert.Equal(t, schema.StableLayout, a.Strategy)
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, a.Episodes[0].Tracks)
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, a.Episodes[1].Tracks)
	assert.Equal(t, map[string]int{"A": 0}, a.Episodes[2].Tracks)

	crossings := CountCrossings(s, a)
	require.Len(t, crossings, 2)
	assert.Equal(t, schema.Crossing{From: 1, To: 2, TrackSwaps: 0, RankSwaps: 1, SharedItems: 2}, crossings[0])
	assert.Equal(t, schema.Crossing{From: 2, To: 3, SharedItems: 1}, crossings[1])
}

// TestAssignTracksRankStrategy checks that the baseline follows the ranking.
func TestAssignTracksRankStrategy(t *testing.T) {
	s := snaps([]string{"A", "B"}, []string{"B", "A"})
	a := AssignTracks(s, schema.RankLayout)

	assert.Equal(t, schema.RankLayout, a.Strategy)
	assert.Equal(t, map[string]int{"B": 0, "A": 1}, a.Episodes[1].Tracks)

	tracks, ranks := TotalSwaps(CountCrossings(s, a))
	assert.Equal(t, 1, tracks)
	assert.Equal(t, 1, ranks)
}

// TestAssignTracksUnknownStrategyDefaultsToStable checks the fallback.
func TestAssignTracksUnknownStrategyDefaultsToStable(t *testing.T) {
	a := AssignTracks(snaps([]string{"A"}), "")
	assert.Equal(t, schema.StableLayout, a.Strategy)
}

// TestStableTracksEnteringItems checks where entering items are merged in.
func TestStableTracksEnteringItems(t *testing.T) {
	s := snaps(
		[]string{"A", "B", "C"},
		[]string{"D", "B", "E", "A", "C"},
	)
	a := AssignTracks(s, schema.StableLayout)

	assert.Equal(t, map[string]int{"D": 0, "A": 1, "B": 2, "E": 3, "C": 4}, a.Episodes[1].Tracks)
}

// TestStableTracksAllNewItems checks that a fresh list is laid out by rank.
func TestStableTracksAllNewItems(t *testing.T) {
	s := snaps([]string{"A", "B"}, []string{"X", "Y", "Z"})
	a := AssignTracks(s, schema.StableLayout)

	assert.Equal(t, map[string]int{"X": 0, "Y": 1, "Z": 2}, a.Episodes[1].Tracks)
}

// TestAssignTracksEmptyEpisode checks that an empty snapshot has an empty map.
func TestAssignTracksEmptyEpisode(t *testing.T) {
	a := AssignTracks([]schema.ListSnapshot{{Episode: 1}}, schema.StableLayout)

	require.Len(t, a.Episodes, 1)
	assert.NotNil(t, a.Episodes[0].Tracks)
	assert.Empty(t, a.Episodes[0].Tracks)
	assert.Empty(t, a.Intervals)
	assert.Empty(t, CountCrossings([]schema.ListSnapshot{{Episode: 1}}, a))
}

// TestLanesAndIntervals checks lane reuse and re-entry.
func TestLanesAndIntervals(t *testing.T) {
	s := snaps(
		[]string{"A", "B", "C"},
		[]string{"A", "C"},
		[]string{"D", "A", "C"},
		[]string{"B", "D", "A", "C"},
	)
	a := AssignTracks(s, schema.StableLayout)

	assert.Equal(t, map[string]int{"A": 0, "C": 2}, a.Episodes[1].Lanes)
	assert.Equal(t, map[string]int{"D": 1, "A": 0, "C": 2}, a.Episodes[2].Lanes)
	assert.Equal(t, map[string]int{"B": 3, "D": 1, "A": 0, "C": 2}, a.Episodes[3].Lanes)

	assert.ElementsMatch(t, []schema.PresenceInterval{
		{Item: "A", Start: 1, End: 4, Lane: 0},
		{Item: "B", Start: 1, End: 1, Lane: 1},
		{Item: "C", Start: 1, End: 4, Lane: 2},
		{Item: "D", Start: 3, End: 4, Lane: 1},
		{Item: "B", Start: 4, End: 4, Lane: 3},
	}, a.Intervals)
}

// TestTrackAssignmentLookup checks At and Track against assigned episodes.
func TestTrackAssignmentLookup(t *testing.T) {
	a := AssignTracks(snaps([]string{"A", "B"}, []string{"B"}), schema.StableLayout)

	track, ok := a.Track(2, "B")
	require.True(t, ok)
	assert.Equal(t, 0, track)

	_, ok = a.Track(2, "A")
	assert.False(t, ok)
	_, ok = a.At(9)
	assert.False(t, ok)
}

func randomSnapshots(r *rand.Rand, episodes int) []schema.ListSnapshot {
	var list []string
	next := 0
	out := make([]schema.ListSnapshot, 0, episodes)
	for ep := 1; ep <= episodes; ep++ {
		for range r.IntN(4) {
			if len(list) > 0 && r.IntN(3) == 0 {
				i := r.IntN(len(list))
				list = slices.Delete(list, i, i+1)
				continue
			}
			id := fmt.Sprintf("g%d", next)
			next++
			list = slices.Insert(list, r.IntN(len(list)+1), id)
		}
		if len(list) > 1 {
			i, j := r.IntN(len(list)), r.IntN(len(list))
			list[i], list[j] = list[j], list[i]
		}
		out = append(out, schema.ListSnapshot{Episode: ep, Items: slices.Clone(list)})
	}
	return out
}

// TestAssignTracksInvariants checks contiguity, distinctness and lane constancy on random histories.
func TestAssignTracksInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for _, strategy := range []schema.LayoutStrategy{schema.StableLayout, schema.RankLayout} {
		t.Run(string(strategy), func(t *testing.T) {
			for range 40 {
				s := randomSnapshots(r, 15)
				a := AssignTracks(s, strategy)
				require.Len(t, a.Episodes, len(s))

				for i, et := range a.Episodes {
					require.Len(t, et.Tracks, s[i].Len())
					got := make([]int, 0, len(et.Tracks))
					for _, tr := range et.Tracks {
						got = append(got, tr)
					}
					slices.Sort(got)
					for k, tr := range got {
						assert.Equal(t, k, tr)
					}

					seen := make(map[int]struct{})
					for _, l := range et.Lanes {
						_, dup := seen[l]
						assert.False(t, dup)
						seen[l] = struct{}{}
					}
				}

				for _, iv := range a.Intervals {
					for _, et := range a.Episodes {
						if et.Episode < iv.Start || et.Episode > iv.End {
							continue
						}
						assert.Equal(t, iv.Lane, et.Lanes[iv.Item])
					}
				}
			}
		})
	}
}

// TestStableLayoutKeepsContinuingOrder checks that continuing items never swap tracks.
func TestStableLayoutKeepsContinuingOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 1))
	for range 40 {
		s := randomSnapshots(r, 12)
		stable, _ := TotalSwaps(CountCrossings(s, AssignTracks(s, schema.StableLayout)))
		byRank, ranks := TotalSwaps(CountCrossings(s, AssignTracks(s, schema.RankLayout)))
		assert.Zero(t, stable)
		assert.Equal(t, ranks, byRank)
	}
}

// BenchmarkAssignTracks benchmarks the stable layout on a long history.
func BenchmarkAssignTracks(b *testing.B) {
	s := randomSnapshots(rand.New(rand.NewPCG(1, 2)), 200)

	for b.Loop() {
		AssignTracks(s, schema.StableLayout)
	}
}
