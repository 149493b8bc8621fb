package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
)

// writeJSONResultsForTimeline marshals the schema.TimelineResult to JSON and writes it.
func writeJSONResultsForTimeline(w io.Writer, result schema.TimelineResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForTimeline writes one row per episode, absent episodes included.
func writeCSVResultsForTimeline(w *csv.Writer, result schema.TimelineResult) error {
	header := []string{"item", "episode", "date", "present", "rank", "movement"}
	if err := w.Write(header); err != nil {
		return err
	}

	prev := 0
	for _, e := range result.Timeline.Entries {
		rank, move := "", ""
		if e.Present {
			rank = strconv.Itoa(e.Rank)
			move = contract.GetPlainMovement(prev, e.Rank)
		}
		row := []string{
			result.Timeline.Item,
			strconv.Itoa(e.Episode),
			formatDate(e.Date),
			strconv.FormatBool(e.Present),
			rank,
			move,
		}
		if err := w.Write(row); err != nil {
			return err
		}
		prev = e.Rank
	}
	return nil
}
