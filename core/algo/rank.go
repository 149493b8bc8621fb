package algo

import (
	"cmp"
	"slices"

	"github.com/bonuspoints/thelist/schema"
)

// Position selects which end of the list an extremum refers to.
type Position int

const (
	// Top is rank 1.
	Top Position = iota
	// Bottom is the last rank.
	Bottom
)

// Extrema accumulates, for every item that ever held the given end of the list,
// the number of episodes it held it. When a snapshot and its successor are both
// dated, the holder is also credited with the days between them.
func Extrema(snapshots []schema.ListSnapshot, pos Position) []schema.Tenure {
	return accumulate(snapshots, func(s schema.ListSnapshot) []string {
		if len(s.Items) == 0 {
			return nil
		}
		if pos == Top {
			return s.Items[:1]
		}
		return s.Items[len(s.Items)-1:]
	})
}

// Longest accumulates the time every item spent on the list at all.
func Longest(snapshots []schema.ListSnapshot) []schema.Tenure {
	return accumulate(snapshots, func(s schema.ListSnapshot) []string {
		return s.Items
	})
}

func accumulate(snapshots []schema.ListSnapshot, holders func(schema.ListSnapshot) []string) []schema.Tenure {
	index := make(map[string]int)
	var tenures []schema.Tenure
	for i, s := range snapshots {
		var days float64
		if i+1 < len(snapshots) && !s.Date.IsZero() && !snapshots[i+1].Date.IsZero() {
			days = snapshots[i+1].Date.Sub(s.Date).Hours() / 24
		}
		for _, id := range holders(s) {
			j, ok := index[id]
			if !ok {
				j = len(tenures)
				index[id] = j
				tenures = append(tenures, schema.Tenure{Item: id})
			}
			tenures[j].Episodes++
			tenures[j].Days += days
		}
	}
	return tenures
}

// RankTenures sorts tenures by days, then episodes, in descending order
// and returns the top 'limit' entries. Ties are broken by item identifier.
func RankTenures(tenures []schema.Tenure, limit int) []schema.Tenure {
	slices.SortStableFunc(tenures, func(a, b schema.Tenure) int {
		return cmp.Or(
			cmp.Compare(b.Days, a.Days),
			cmp.Compare(b.Episodes, a.Episodes),
			cmp.Compare(a.Item, b.Item),
		)
	})
	if limit > 0 && len(tenures) > limit {
		return tenures[:limit]
	}
	return tenures
}

// MostCommon tallies values and returns them by descending count
// and returns the top 'limit' values. A limit of 0 keeps everything.
func MostCommon(values []string, limit int) []schema.Tally {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	tallies := make([]schema.Tally, 0, len(counts))
	for v, n := range counts {
		tallies = append(tallies, schema.Tally{Value: v, Count: n})
	}
	slices.SortFunc(tallies, func(a, b schema.Tally) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Value, b.Value))
	})
	if limit > 0 && len(tallies) > limit {
		return tallies[:limit]
	}
	return tallies
}
