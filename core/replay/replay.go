// Package replay rebuilds the ranked list after every episode from a validated event log.
package replay

import (
	"slices"

	"github.com/bonuspoints/thelist/core/eventlog"
	"github.com/bonuspoints/thelist/schema"
)

// Machine is the mutable ranked list. Items are kept in an index-addressed slice
// with a membership set alongside it.
type Machine struct {
	items   []string
	members map[string]struct{}
}

// NewMachine returns an empty list.
func NewMachine() *Machine {
	return &Machine{members: make(map[string]struct{})}
}

// Len returns the current list length.
func (m *Machine) Len() int {
	return len(m.items)
}

// Contains reports whether the item is on the list.
func (m *Machine) Contains(item string) bool {
	_, ok := m.members[item]
	return ok
}

// Items returns a copy of the current order.
func (m *Machine) Items() []string {
	return slices.Clone(m.items)
}

// Apply performs a single event. On error the list is left unchanged.
func (m *Machine) Apply(e schema.RankEvent) error {
	switch e.Op {
	case schema.InsertOp:
		if m.Contains(e.Item) {
			return &eventlog.DuplicateInsertError{Episode: e.Episode, Item: e.Item}
		}
		if e.Position < 1 || e.Position > len(m.items)+1 {
			return &eventlog.PositionOutOfRangeError{
				Episode: e.Episode, Item: e.Item, Op: e.Op, Position: e.Position, Max: len(m.items) + 1,
			}
		}
		m.items = slices.Insert(m.items, e.Position-1, e.Item)
		m.members[e.Item] = struct{}{}

	case schema.MoveOp:
		if !m.Contains(e.Item) {
			return &eventlog.UnknownItemError{Episode: e.Episode, Item: e.Item, Op: e.Op}
		}
		// Position is measured against the list with the item taken out,
		// so moving to 1 always lands at the front.
		if e.Position < 1 || e.Position > len(m.items) {
			return &eventlog.PositionOutOfRangeError{
				Episode: e.Episode, Item: e.Item, Op: e.Op, Position: e.Position, Max: len(m.items),
			}
		}
		i := slices.Index(m.items, e.Item)
		m.items = slices.Delete(m.items, i, i+1)
		m.items = slices.Insert(m.items, e.Position-1, e.Item)

	case schema.RemoveOp:
		if !m.Contains(e.Item) {
			return &eventlog.UnknownItemError{Episode: e.Episode, Item: e.Item, Op: e.Op}
		}
		i := slices.Index(m.items, e.Item)
		m.items = slices.Delete(m.items, i, i+1)
		delete(m.members, e.Item)

	default:
		return &eventlog.MalformedEventError{Index: -1, Episode: e.Episode, Item: e.Item, Reason: "unknown operation " + string(e.Op)}
	}
	return nil
}

// Options controls snapshot generation.
type Options struct {
	// FillGaps emits a carried-forward snapshot for every integer episode
	// between the first and last known episode.
	FillGaps bool
}

// Replay applies the log in order and returns the list after each episode.
// Every known episode produces a snapshot; episodes without events carry the
// previous state forward and are marked synthetic.
func Replay(log eventlog.Log, opts Options) ([]schema.ListSnapshot, error) {
	episodes := log.Episodes()
	events := log.Events()
	m := NewMachine()

	var snapshots []schema.ListSnapshot
	next := 0
	for i, ep := range episodes {
		if opts.FillGaps && i > 0 {
			for gap := episodes[i-1].Index + 1; gap < ep.Index; gap++ {
				snapshots = append(snapshots, schema.ListSnapshot{Episode: gap, Items: m.Items(), Synthetic: true})
			}
		}

		applied := 0
		for next < len(events) && events[next].Episode == ep.Index {
			if err := m.Apply(events[next]); err != nil {
				return nil, err
			}
			next++
			applied++
		}

		snapshots = append(snapshots, schema.ListSnapshot{
			Episode:   ep.Index,
			Date:      ep.Date,
			Items:     m.Items(),
			Synthetic: applied == 0,
		})
	}
	return snapshots, nil
}

// Latest returns the final snapshot.
func Latest(snapshots []schema.ListSnapshot) (schema.ListSnapshot, bool) {
	if len(snapshots) == 0 {
		return schema.ListSnapshot{}, false
	}
	return snapshots[len(snapshots)-1], true
}
