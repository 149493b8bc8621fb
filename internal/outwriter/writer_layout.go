package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bonuspoints/thelist/schema"
)

// writeJSONResultsForLayout marshals the schema.LayoutResult to JSON and writes it.
func writeJSONResultsForLayout(w io.Writer, result schema.LayoutResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForLayout writes one row per item per episode, in track order.
func writeCSVResultsForLayout(w *csv.Writer, result schema.LayoutResult) error {
	header := []string{"strategy", "episode", "item", "track", "lane"}
	if err := w.Write(header); err != nil {
		return err
	}

	strategy := string(result.Assignment.Strategy)
	for _, et := range result.Assignment.Episodes {
		episode := strconv.Itoa(et.Episode)
		for _, item := range trackOrder(et) {
			row := []string{
				strategy,
				episode,
				item,
				strconv.Itoa(et.Tracks[item]),
				strconv.Itoa(et.Lanes[item]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
