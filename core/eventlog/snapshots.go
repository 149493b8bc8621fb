package eventlog

import (
	"fmt"
	"slices"
	"time"

	"github.com/bonuspoints/thelist/schema"
)

// DatedList is a complete ranked list as it stood on a given date.
type DatedList struct {
	Date  time.Time
	Items []string
}

// FromSnapshots turns a series of dense dated lists into the events that reproduce them.
// Lists are sorted by date and numbered from episode 1. Between two lists the dropped items
// are removed first, then every position is fixed front to back with a move or an insert.
func FromSnapshots(lists []DatedList) (Source, error) {
	sorted := slices.Clone(lists)
	slices.SortStableFunc(sorted, func(a, b DatedList) int { return a.Date.Compare(b.Date) })

	var src Source
	var working []string
	for i, list := range sorted {
		episode := i + 1
		if i > 0 && list.Date.Equal(sorted[i-1].Date) {
			return Source{}, fmt.Errorf("two lists share the date %s", list.Date.Format("2006-01-02"))
		}
		if err := checkUnique(list); err != nil {
			return Source{}, err
		}
		src.Episodes = append(src.Episodes, schema.Episode{Index: episode, Date: list.Date})

		keep := make(map[string]struct{}, len(list.Items))
		for _, id := range list.Items {
			keep[id] = struct{}{}
		}
		for _, id := range slices.Clone(working) {
			if _, ok := keep[id]; ok {
				continue
			}
			src.Events = append(src.Events, schema.RankEvent{Episode: episode, Item: id, Op: schema.RemoveOp})
			working = slices.DeleteFunc(working, func(s string) bool { return s == id })
		}

		for pos, id := range list.Items {
			if pos < len(working) && working[pos] == id {
				continue
			}
			op := schema.InsertOp
			if j := slices.Index(working, id); j >= 0 {
				op = schema.MoveOp
				working = slices.Delete(working, j, j+1)
			}
			working = slices.Insert(working, pos, id)
			src.Events = append(src.Events, schema.RankEvent{Episode: episode, Item: id, Op: op, Position: pos + 1})
		}
	}
	return src, nil
}

func checkUnique(list DatedList) error {
	seen := make(map[string]struct{}, len(list.Items))
	for _, id := range list.Items {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("item %q appears twice in the list dated %s", id, list.Date.Format("2006-01-02"))
		}
		seen[id] = struct{}{}
	}
	return nil
}
