package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bonuspoints/thelist/schema"
)

// Summary CSV sections.
const (
	topSection        = "top"
	bottomSection     = "bottom"
	longestSection    = "longest"
	overratedSection  = "overrated"
	underratedSection = "underrated"
	genreSection      = "genre"
	engineSection     = "engine"
	companySection    = "company"
	platformSection   = "platform"
)

// writeJSONResultsForSummary marshals the schema.SummaryResult to JSON and writes it.
func writeJSONResultsForSummary(w io.Writer, result schema.SummaryResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForSummary flattens every statistic into one table keyed by section.
// Tally rows put the value in the item column and its tally in the count column.
// Overrated and underrated rows carry the signed difference to the catalog ranking.
func writeCSVResultsForSummary(w *csv.Writer, result schema.SummaryResult, fmtFloat func(float64) string) error {
	header := []string{"section", "position", "item", "display_name", "episodes", "days", "count", "difference"}
	if err := w.Write(header); err != nil {
		return err
	}

	writeTenures := func(section string, tenures []schema.Tenure) error {
		for i, t := range tenures {
			days := ""
			if t.Days > 0 {
				days = fmtFloat(t.Days)
			}
			row := []string{section, strconv.Itoa(i + 1), t.Item, t.DisplayName, strconv.Itoa(t.Episodes), days, "", ""}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeTenures(topSection, result.Top); err != nil {
		return err
	}
	if err := writeTenures(bottomSection, result.Bottom); err != nil {
		return err
	}
	if err := writeTenures(longestSection, result.Longest); err != nil {
		return err
	}

	for _, s := range []struct {
		section string
		entries []schema.DiffEntry
	}{
		{overratedSection, result.Overrated},
		{underratedSection, result.Underrated},
	} {
		for i, e := range s.entries {
			row := []string{s.section, strconv.Itoa(i + 1), e.Item, e.DisplayName, "", "", "", strconv.Itoa(e.Difference)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	for _, s := range []struct {
		section string
		tallies []schema.Tally
	}{
		{genreSection, result.Genres},
		{engineSection, result.Engines},
		{companySection, result.Companies},
		{platformSection, result.Platforms},
	} {
		for i, g := range s.tallies {
			row := []string{s.section, strconv.Itoa(i + 1), g.Value, g.Value, "", "", strconv.Itoa(g.Count), ""}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
