// Package eventlog validates ranking events and holds them as an immutable, ordered log.
package eventlog

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bonuspoints/thelist/schema"
)

// MaxItemIDLength bounds the size of an item identifier in bytes.
const MaxItemIDLength = 128

// Source is the in-memory form of parsed event records.
// Episodes may declare episodes without events and attach air dates.
type Source struct {
	Events   []schema.RankEvent
	Episodes []schema.Episode
}

// Log is a validated, ordered sequence of ranking events.
type Log struct {
	events   []schema.RankEvent
	episodes []schema.Episode
}

// Events returns a copy of the events in log order.
func (l Log) Events() []schema.RankEvent {
	return slices.Clone(l.events)
}

// Episodes returns every known episode in ascending order, whether declared or referenced by an event.
func (l Log) Episodes() []schema.Episode {
	return slices.Clone(l.episodes)
}

// Len returns the number of events.
func (l Log) Len() int {
	return len(l.events)
}

// ItemIDs returns the distinct item identifiers in order of first appearance.
func (l Log) ItemIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range l.events {
		if _, ok := seen[e.Item]; ok {
			continue
		}
		seen[e.Item] = struct{}{}
		ids = append(ids, e.Item)
	}
	return ids
}

// Load validates the source and returns the log.
// It checks that episodes never decrease, that identifiers and operations are well-formed,
// and dry-runs list length and membership so positions and removals are known to be consistent.
func Load(src Source) (Log, error) {
	episodes, err := mergeEpisodes(src)
	if err != nil {
		return Log{}, err
	}

	length := 0
	present := make(map[string]struct{})
	prevEpisode := 0

	for i, e := range src.Events {
		malformed := func(reason string, cause error) error {
			return &MalformedEventError{Index: i, Episode: e.Episode, Item: e.Item, Reason: reason, Err: cause}
		}

		if i > 0 && e.Episode < prevEpisode {
			return Log{}, malformed(fmt.Sprintf("episode decreases from %d", prevEpisode), nil)
		}
		prevEpisode = e.Episode

		if err := ValidateItemID(e.Item); err != nil {
			return Log{}, malformed("invalid item identifier", err)
		}
		if _, ok := schema.ValidOpKinds[e.Op]; !ok {
			return Log{}, malformed(fmt.Sprintf("unknown operation %q", e.Op), nil)
		}

		_, onList := present[e.Item]
		switch e.Op {
		case schema.InsertOp:
			if onList {
				return Log{}, malformed("insert of present item", &DuplicateInsertError{Episode: e.Episode, Item: e.Item})
			}
			if e.Position < 1 || e.Position > length+1 {
				return Log{}, malformed("insert position out of range", &PositionOutOfRangeError{
					Episode: e.Episode, Item: e.Item, Op: e.Op, Position: e.Position, Max: length + 1,
				})
			}
			present[e.Item] = struct{}{}
			length++

		case schema.MoveOp:
			if !onList {
				return Log{}, malformed("move of absent item", &UnknownItemError{Episode: e.Episode, Item: e.Item, Op: e.Op})
			}
			// The target is resolved against the list with the item removed.
			if e.Position < 1 || e.Position > length {
				return Log{}, malformed("move position out of range", &PositionOutOfRangeError{
					Episode: e.Episode, Item: e.Item, Op: e.Op, Position: e.Position, Max: length,
				})
			}

		case schema.RemoveOp:
			if e.Position != 0 {
				return Log{}, malformed("remove takes no position", nil)
			}
			if !onList {
				return Log{}, malformed("remove of absent item", &UnknownItemError{Episode: e.Episode, Item: e.Item, Op: e.Op})
			}
			delete(present, e.Item)
			length--
		}
	}

	return Log{events: slices.Clone(src.Events), episodes: episodes}, nil
}

// ValidateItemID checks that an identifier is usable as a stable item key.
func ValidateItemID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("identifier is empty")
	case strings.TrimSpace(id) != id:
		return fmt.Errorf("identifier %q has surrounding whitespace", id)
	case len(id) > MaxItemIDLength:
		return fmt.Errorf("identifier is longer than %d bytes", MaxItemIDLength)
	case !utf8.ValidString(id):
		return fmt.Errorf("identifier is not valid UTF-8")
	}
	if strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return fmt.Errorf("identifier %q contains control characters", id)
	}
	return nil
}

// mergeEpisodes combines declared episodes with those referenced by events.
func mergeEpisodes(src Source) ([]schema.Episode, error) {
	byIndex := make(map[int]schema.Episode, len(src.Episodes))
	for _, ep := range src.Episodes {
		if prev, ok := byIndex[ep.Index]; ok && !prev.Date.IsZero() && !ep.Date.IsZero() && !prev.Date.Equal(ep.Date) {
			return nil, fmt.Errorf("episode %d declared with conflicting dates %s and %s",
				ep.Index, prev.Date.Format("2006-01-02"), ep.Date.Format("2006-01-02"))
		}
		if prev, ok := byIndex[ep.Index]; ok && ep.Date.IsZero() {
			ep.Date = prev.Date
		}
		byIndex[ep.Index] = ep
	}
	for _, e := range src.Events {
		if _, ok := byIndex[e.Episode]; !ok {
			byIndex[e.Episode] = schema.Episode{Index: e.Episode}
		}
	}

	episodes := make([]schema.Episode, 0, len(byIndex))
	for _, ep := range byIndex {
		episodes = append(episodes, ep)
	}
	slices.SortFunc(episodes, func(a, b schema.Episode) int { return a.Index - b.Index })

	// Dates, when present, must follow episode order.
	var last schema.Episode
	for _, ep := range episodes {
		if ep.Date.IsZero() {
			continue
		}
		if !last.Date.IsZero() && ep.Date.Before(last.Date) {
			return nil, fmt.Errorf("episode %d is dated %s, before episode %d dated %s",
				ep.Index, ep.Date.Format("2006-01-02"), last.Index, last.Date.Format("2006-01-02"))
		}
		last = ep
	}
	return episodes, nil
}
