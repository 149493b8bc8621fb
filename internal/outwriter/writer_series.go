package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bonuspoints/thelist/schema"
)

// writeJSONResultsForSeries marshals the schema.SeriesResult to JSON and writes it.
func writeJSONResultsForSeries(w io.Writer, result schema.SeriesResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForSeries writes the schema.SeriesResult data points to a CSV writer.
func writeCSVResultsForSeries(w *csv.Writer, result schema.SeriesResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"episode",
		"date",
		"item_id",
		"rank",
		"track",
		"lane",
		"display_name",
		"catalog_ref",
		"cover_image_ref",
		"color",
		"marker",
		"scaled_y",
		"metadata_missing",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, p := range result.Points {
		row := []string{
			strconv.Itoa(p.Episode),
			formatDate(p.Date),
			p.ItemID,
			strconv.Itoa(p.Rank),
			strconv.Itoa(p.Track),
			strconv.Itoa(p.Lane),
			p.DisplayName,
			p.CatalogRef,
			p.CoverImageRef,
			p.Color,
			string(p.Marker),
			fmtFloat(p.ScaledY),
			strconv.FormatBool(p.MetadataMissing),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
