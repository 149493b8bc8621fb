package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bonuspoints/thelist/schema"
)

// writeJSONResultsForDiffs marshals the schema.DiffResult to JSON and writes it.
func writeJSONResultsForDiffs(w io.Writer, result schema.DiffResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForDiffs writes the schema.DiffResult entries to a CSV writer.
// Positions are 0-based, matching the JSON output.
func writeCSVResultsForDiffs(w *csv.Writer, result schema.DiffResult, fmtFloat func(float64) string) error {
	header := []string{"kind", "item", "display_name", "list_position", "catalog_position", "rating", "difference"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, e := range result.Entries {
		row := []string{
			string(result.Kind),
			e.Item,
			e.DisplayName,
			strconv.Itoa(e.ListPosition),
			strconv.Itoa(e.CatalogPosition),
			fmtFloat(e.Rating),
			strconv.Itoa(e.Difference),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
