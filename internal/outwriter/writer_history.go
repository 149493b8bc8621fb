package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
)

// writeJSONResultsForHistory marshals the schema.HistoryResult to JSON and writes it.
func writeJSONResultsForHistory(w io.Writer, result schema.HistoryResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForHistory writes one row per item per snapshot.
func writeCSVResultsForHistory(w *csv.Writer, result schema.HistoryResult) error {
	header := []string{"episode", "date", "synthetic", "rank", "item", "movement"}
	if err := w.Write(header); err != nil {
		return err
	}

	var prevRanks map[string]int
	for _, snap := range result.Snapshots {
		for i, item := range snap.Items {
			row := []string{
				strconv.Itoa(snap.Episode),
				formatDate(snap.Date),
				strconv.FormatBool(snap.Synthetic),
				strconv.Itoa(i + 1),
				item,
				contract.GetPlainMovement(prevRanks[item], i+1),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		prevRanks = snap.Ranks()
	}
	return nil
}
