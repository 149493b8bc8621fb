package eventlog

import (
	"errors"
	"strings"
	"testing"
	"time"

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

func TestLoadValidLog(t *testing.T) {
	src := Source{
		Events: []schema.RankEvent{
			ins(1, "A", 1),
			ins(1, "B", 2),
			mv(2, "A", 2),
			rm(3, "B"),
		},
		Episodes: []schema.Episode{{Index: 5}},
	}

	log, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, 4, log.Len())
	assert.Equal(t, src.Events, log.Events())
	assert.Equal(t, []string{"A", "B"}, log.ItemIDs())

	var indexes []int
	for _, ep := range log.Episodes() {
		indexes = append(indexes, ep.Index)
	}
	assert.Equal(t, []int{1, 2, 3, 5}, indexes)
}

func TestLoadDoesNotAliasInput(t *testing.T) {
	events := []schema.RankEvent{ins(1, "A", 1)}
	log, err := Load(Source{Events: events})
	require.NoError(t, err)

	events[0].Item = "changed"
	assert.Equal(t, "A", log.Events()[0].Item)
}

func TestLoadEmptyWithDeclaredEpisode(t *testing.T) {
	log, err := Load(Source{Episodes: []schema.Episode{{Index: 1}}})
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
	assert.Len(t, log.Episodes(), 1)
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		events  []schema.RankEvent
		index   int
		reason  string
		asCause any
	}{
		{
			name:   "episode decreases",
			events: []schema.RankEvent{ins(2, "A", 1), ins(1, "B", 1)},
			index:  1,
			reason: "episode decreases",
		},
		{
			name:   "empty identifier",
			events: []schema.RankEvent{ins(1, "  ", 1)},
			index:  0,
			reason: "invalid item identifier",
		},
		{
			name:   "unknown op",
			events: []schema.RankEvent{{Episode: 1, Item: "A", Op: "swap", Position: 1}},
			index:  0,
			reason: "unknown operation",
		},
		{
			name:    "insert beyond end",
			events:  []schema.RankEvent{ins(1, "A", 1), ins(1, "B", 3)},
			index:   1,
			reason:  "insert position out of range",
			asCause: &PositionOutOfRangeError{},
		},
		{
			name:    "insert at zero",
			events:  []schema.RankEvent{ins(1, "A", 0)},
			index:   0,
			reason:  "insert position out of range",
			asCause: &PositionOutOfRangeError{},
		},
		{
			name:    "duplicate insert",
			events:  []schema.RankEvent{ins(1, "A", 1), ins(2, "A", 1)},
			index:   1,
			reason:  "insert of present item",
			asCause: &DuplicateInsertError{},
		},
		{
			name:    "move beyond length",
			events:  []schema.RankEvent{ins(1, "A", 1), ins(1, "B", 2), mv(2, "A", 3)},
			index:   2,
			reason:  "move position out of range",
			asCause: &PositionOutOfRangeError{},
		},
		{
			name:    "move absent",
			events:  []schema.RankEvent{mv(1, "A", 1)},
			index:   0,
			reason:  "move of absent item",
			asCause: &UnknownItemError{},
		},
		{
			name:    "remove absent",
			events:  []schema.RankEvent{ins(1, "A", 1), rm(2, "A"), rm(3, "A")},
			index:   2,
			reason:  "remove of absent item",
			asCause: &UnknownItemError{},
		},
		{
			name:   "remove with position",
			events: []schema.RankEvent{ins(1, "A", 1), {Episode: 2, Item: "A", Op: schema.RemoveOp, Position: 1}},
			index:  1,
			reason: "remove takes no position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Source{Events: tt.events})
			require.Error(t, err)

			var malformed *MalformedEventError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.index, malformed.Index)
			assert.Equal(t, tt.events[tt.index].Episode, malformed.Episode)
			assert.Equal(t, tt.events[tt.index].Item, malformed.Item)
			assert.Contains(t, malformed.Reason, tt.reason)

			switch tt.asCause.(type) {
			case *PositionOutOfRangeError:
				var target *PositionOutOfRangeError
				assert.True(t, errors.As(err, &target))
			case *DuplicateInsertError:
				var target *DuplicateInsertError
				assert.True(t, errors.As(err, &target))
			case *UnknownItemError:
				var target *UnknownItemError
				assert.True(t, errors.As(err, &target))
			}
		})
	}
}

func TestLoadEpisodeDates(t *testing.T) {
	d1 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)

	t.Run("dates attach to episodes", func(t *testing.T) {
		log, err := Load(Source{
			Events:   []schema.RankEvent{ins(1, "A", 1), ins(2, "B", 1)},
			Episodes: []schema.Episode{{Index: 2, Date: d2}, {Index: 1, Date: d1}, {Index: 1}},
		})
		require.NoError(t, err)
		eps := log.Episodes()
		require.Len(t, eps, 2)
		assert.Equal(t, d1, eps[0].Date)
		assert.Equal(t, d2, eps[1].Date)
	})

	t.Run("conflicting dates", func(t *testing.T) {
		_, err := Load(Source{Episodes: []schema.Episode{{Index: 1, Date: d1}, {Index: 1, Date: d2}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conflicting dates")
	})

	t.Run("dates out of order", func(t *testing.T) {
		_, err := Load(Source{Episodes: []schema.Episode{{Index: 1, Date: d2}, {Index: 2, Date: d1}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "before episode 1")
	})
}

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		id string
		ok bool
	}{
		{"1942", true},
		{"outer-wilds", true},
		{"Hollow Knight", true},
		{"", false},
		{" padded", false},
		{"tab\there", false},
		{strings.Repeat("x", MaxItemIDLength+1), false},
		{string([]byte{0xff, 0xfe}), false},
	}
	for _, tt := range tests {
		err := ValidateItemID(tt.id)
		if tt.ok {
			assert.NoError(t, err, tt.id)
		} else {
			assert.Error(t, err, tt.id)
		}
	}
}

func TestErrorMessagesNameEpisodeAndItem(t *testing.T) {
	errs := []error{
		&DuplicateInsertError{Episode: 4, Item: "celeste"},
		&PositionOutOfRangeError{Episode: 4, Item: "celeste", Op: schema.MoveOp, Position: 9, Max: 3},
		&UnknownItemError{Episode: 4, Item: "celeste", Op: schema.RemoveOp},
		&MalformedEventError{Index: 2, Episode: 4, Item: "celeste", Reason: "bad"},
	}
	for _, err := range errs {
		assert.Contains(t, err.Error(), "episode 4")
		assert.Contains(t, err.Error(), "celeste")
	}
}
