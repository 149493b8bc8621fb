package eventlog

import (
	"fmt"

	"github.com/bonuspoints/thelist/schema"
)

// MalformedEventError reports an event that breaks the structural rules of the log.
// Err carries the precise cause when one of the replay errors applies.
type MalformedEventError struct {
	Index   int // position of the event in the log
	Episode int
	Item    string
	Reason  string
	Err     error
}

func (e *MalformedEventError) Error() string {
	msg := fmt.Sprintf("malformed event #%d (episode %d, item %q): %s", e.Index, e.Episode, e.Item, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

// DuplicateInsertError is returned when an item is inserted while already on the list.
type DuplicateInsertError struct {
	Episode int
	Item    string
}

func (e *DuplicateInsertError) Error() string {
	return fmt.Sprintf("episode %d: item %q is already on the list", e.Episode, e.Item)
}

// PositionOutOfRangeError is returned when an insert or move targets a position outside [1, Max].
type PositionOutOfRangeError struct {
	Episode  int
	Item     string
	Op       schema.OpKind
	Position int
	Max      int
}

func (e *PositionOutOfRangeError) Error() string {
	return fmt.Sprintf("episode %d: %s of item %q to position %d is outside [1, %d]", e.Episode, e.Op, e.Item, e.Position, e.Max)
}

// UnknownItemError is returned when a move or remove names an item that is not on the list.
type UnknownItemError struct {
	Episode int
	Item    string
	Op      schema.OpKind
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("episode %d: cannot %s item %q, it is not on the list", e.Episode, e.Op, e.Item)
}
