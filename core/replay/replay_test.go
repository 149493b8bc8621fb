package replay

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/bonuspoints/thelist/core/eventlog"
	"github.com/bonuspoints/thelist/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ins(ep int, item string, pos int) schema.RankEvent {
	return schema.RankEvent{Episode: ep, Item: item, Op: schema.InsertOp, Position: pos}
}

func mv(ep int, item string, pos int) schema.RankEvent {
	return schema.RankEvent{Episode: ep, Item: item, Op: schema.MoveOp, Position: pos}
}

func rm(ep int, item string) schema.RankEvent {
	return schema.RankEvent{Episode: ep, Item: item, Op: schema.RemoveOp}
}

func mustLoad(t *testing.T, events []schema.RankEvent, episodes ...schema.Episode) eventlog.Log {
	t.Helper()
	log, err := eventlog.Load(eventlog.Source{Events: events, Episodes: episodes})
	require.NoError(t, err)
	return log
}

func items(snapshots []schema.ListSnapshot) [][]string {
	out := make([][]string, len(snapshots))
	for i, s := range snapshots {
		out[i] = s.Items
	}
	return out
}

func TestReplayScenario(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{
		ins(1, "A", 1),
		ins(1, "B", 2),
		mv(2, "A", 2),
		rm(3, "B"),
	})

	snapshots, err := Replay(log, Options{})
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	assert.Equal(t, [][]string{{"A", "B"}, {"B", "A"}, {"A"}}, items(snapshots))
	for i, s := range snapshots {
		assert.Equal(t, i+1, s.Episode)
		assert.False(t, s.Synthetic)
	}
}

func TestReplayIdempotent(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{
		ins(1, "A", 1), ins(1, "B", 1), ins(1, "C", 2),
		mv(2, "C", 1), ins(2, "D", 4),
		rm(3, "A"), mv(3, "D", 2),
	})

	first, err := Replay(log, Options{})
	require.NoError(t, err)
	second, err := Replay(log, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReplayInsertThenRemoveSameEpisode(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{
		ins(1, "A", 1), ins(1, "B", 2), ins(1, "C", 3),
		ins(2, "X", 2), rm(2, "X"),
	})

	snapshots, err := Replay(log, Options{})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, snapshots[0].Items, snapshots[1].Items)
	assert.Equal(t, 0, snapshots[1].Rank("X"))
}

func TestReplayMoveToFront(t *testing.T) {
	for from := 1; from <= 4; from++ {
		t.Run(fmt.Sprintf("from %d", from), func(t *testing.T) {
			base := []string{"A", "B", "C", "D"}
			var events []schema.RankEvent
			for i, id := range base {
				events = append(events, ins(1, id, i+1))
			}
			target := base[from-1]
			events = append(events, mv(2, target, 1))

			snapshots, err := Replay(mustLoad(t, events), Options{})
			require.NoError(t, err)
			latest, ok := Latest(snapshots)
			require.True(t, ok)
			assert.Equal(t, target, latest.Items[0])
			assert.Len(t, latest.Items, 4)
		})
	}
}

func TestReplayMoveUsesPositionWithItemRemoved(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{
		ins(1, "A", 1), ins(1, "B", 2), ins(1, "C", 3), ins(1, "D", 4),
		mv(2, "A", 3), // [B C D] then insert at 3 -> [B C A D]
		mv(3, "D", 4), // already last: stays last
	})

	snapshots, err := Replay(log, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A", "D"}, snapshots[1].Items)
	assert.Equal(t, []string{"B", "C", "A", "D"}, snapshots[2].Items)
}

func TestReplayUnmentionedItemsKeepRelativeOrder(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{
		ins(1, "A", 1), ins(1, "B", 2), ins(1, "C", 3), ins(1, "D", 4), ins(1, "E", 5),
		mv(2, "D", 1), ins(2, "F", 3), rm(2, "B"),
	})

	snapshots, err := Replay(log, Options{})
	require.NoError(t, err)

	var rest []string
	for _, id := range snapshots[1].Items {
		if id == "A" || id == "C" || id == "E" {
			rest = append(rest, id)
		}
	}
	assert.Equal(t, []string{"A", "C", "E"}, rest)
}

func TestReplaySingleEmptyEpisode(t *testing.T) {
	log := mustLoad(t, nil, schema.Episode{Index: 1})

	snapshots, err := Replay(log, Options{})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0].Items)
	assert.Equal(t, 1, snapshots[0].Episode)
}

func TestReplayFillGaps(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{
		ins(1, "A", 1),
		ins(4, "B", 1),
	})

	sparse, err := Replay(log, Options{})
	require.NoError(t, err)
	assert.Len(t, sparse, 2)

	dense, err := Replay(log, Options{FillGaps: true})
	require.NoError(t, err)
	require.Len(t, dense, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{dense[0].Episode, dense[1].Episode, dense[2].Episode, dense[3].Episode})
	assert.True(t, dense[1].Synthetic)
	assert.True(t, dense[2].Synthetic)
	assert.Equal(t, []string{"A"}, dense[2].Items)
	assert.Equal(t, []string{"B", "A"}, dense[3].Items)
}

func TestReplaySnapshotsDoNotShareStorage(t *testing.T) {
	log := mustLoad(t, []schema.RankEvent{ins(1, "A", 1), ins(2, "B", 2)})
	snapshots, err := Replay(log, Options{})
	require.NoError(t, err)

	snapshots[0].Items[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, snapshots[1].Items)
}

func TestMachineErrorsLeaveStateUnchanged(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Apply(ins(1, "A", 1)))
	require.NoError(t, m.Apply(ins(1, "B", 2)))

	tests := []struct {
		name  string
		event schema.RankEvent
		check func(t *testing.T, err error)
	}{
		{"duplicate insert", ins(2, "A", 1), func(t *testing.T, err error) {
			var target *eventlog.DuplicateInsertError
			require.True(t, errors.As(err, &target))
			assert.Equal(t, 2, target.Episode)
			assert.Equal(t, "A", target.Item)
		}},
		{"insert out of range", ins(2, "C", 4), func(t *testing.T, err error) {
			var target *eventlog.PositionOutOfRangeError
			require.True(t, errors.As(err, &target))
			assert.Equal(t, 3, target.Max)
		}},
		{"move out of range", mv(2, "A", 3), func(t *testing.T, err error) {
			var target *eventlog.PositionOutOfRangeError
			require.True(t, errors.As(err, &target))
			assert.Equal(t, 2, target.Max)
		}},
		{"move unknown", mv(2, "Z", 1), func(t *testing.T, err error) {
			var target *eventlog.UnknownItemError
			require.True(t, errors.As(err, &target))
			assert.Equal(t, schema.MoveOp, target.Op)
		}},
		{"remove unknown", rm(2, "Z"), func(t *testing.T, err error) {
			var target *eventlog.UnknownItemError
			require.True(t, errors.As(err, &target))
			assert.Equal(t, schema.RemoveOp, target.Op)
		}},
		{"bad op", schema.RankEvent{Episode: 2, Item: "A", Op: "swap"}, func(t *testing.T, err error) {
			var target *eventlog.MalformedEventError
			require.True(t, errors.As(err, &target))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Apply(tt.event)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, []string{"A", "B"}, m.Items())
		})
	}
}

// randomLog builds a valid event log by driving a plain slice model.
func randomLog(r *rand.Rand, episodes int) []schema.RankEvent {
	var list []string
	var events []schema.RankEvent
	nextID := 0
	for ep := 1; ep <= episodes; ep++ {
		for range r.IntN(5) {
			switch {
			case len(list) == 0 || r.IntN(3) == 0:
				id := fmt.Sprintf("item-%d", nextID)
				nextID++
				pos := r.IntN(len(list)+1) + 1
				events = append(events, ins(ep, id, pos))
				list = append(list[:pos-1], append([]string{id}, list[pos-1:]...)...)
			case r.IntN(2) == 0:
				i := r.IntN(len(list))
				id := list[i]
				list = append(list[:i:i], list[i+1:]...)
				pos := r.IntN(len(list)+1) + 1
				events = append(events, mv(ep, id, pos))
				list = append(list[:pos-1], append([]string{id}, list[pos-1:]...)...)
			default:
				i := r.IntN(len(list))
				events = append(events, rm(ep, list[i]))
				list = append(list[:i:i], list[i+1:]...)
			}
		}
	}
	return events
}

func TestReplayPropertiesOnRandomLogs(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for run := range 50 {
		events := randomLog(r, 12)
		log, err := eventlog.Load(eventlog.Source{Events: events})
		require.NoError(t, err, "run %d", run)

		snapshots, err := Replay(log, Options{FillGaps: true})
		require.NoError(t, err, "run %d", run)

		for _, s := range snapshots {
			seen := make(map[string]struct{})
			for _, id := range s.Items {
				_, dup := seen[id]
				require.False(t, dup, "run %d episode %d duplicates %s", run, s.Episode, id)
				seen[id] = struct{}{}
			}
			for pos, id := range s.Items {
				assert.Equal(t, pos+1, s.Rank(id))
			}
		}
	}
}
