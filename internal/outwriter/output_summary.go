package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
)

// PrintSummaryResults outputs the list statistics, dispatching based on the output format configured.
func PrintSummaryResults(result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForSummary(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForSummary(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errParquetSeriesOnly
	default:
		if err := writeSummaryTable(os.Stdout, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing summary table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForSummary handles opening the file and calling the JSON writer.
func printJSONResultsForSummary(result schema.SummaryResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSummary(w, result)
	}, "Wrote JSON summary results")
}

// printCSVResultsForSummary handles opening the file and calling the CSV writer.
func printCSVResultsForSummary(result schema.SummaryResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSummary(csvWriter, result, fmtFloat)
	}, "Wrote CSV summary results")
}

// writeSummaryTable prints an overview line and one table per statistic.
func writeSummaryTable(w io.Writer, result schema.SummaryResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "%d snapshots, %d distinct items, %d on the latest list.\n",
		result.Snapshots, result.DistinctItems, result.LatestSize)
	if !result.EarliestRelease.IsZero() {
		_, _ = fmt.Fprintf(w, "Release dates range from %s to %s.\n",
			formatDate(result.EarliestRelease), formatDate(result.LatestRelease))
	}
	nameWidth := GetMaxNameWidth(cfg, 30)

	sections := []struct {
		title   string
		tenures []schema.Tenure
	}{
		{"Time at the top", result.Top},
		{"Time at the bottom", result.Bottom},
		{"Longest on the list", result.Longest},
	}
	for _, s := range sections {
		if len(s.tenures) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s:\n", s.title)
		table := newTable(w, []string{"#", "Item", "Episodes", "Days"})
		var data [][]string
		for i, t := range s.tenures {
			days := ""
			if t.Days > 0 {
				days = fmtFloat(t.Days)
			}
			data = append(data, []string{
				strconv.Itoa(i + 1),
				contract.TruncateName(t.DisplayName, nameWidth),
				strconv.Itoa(t.Episodes),
				days,
			})
		}
		if err := renderTable(table, data); err != nil {
			return err
		}
	}

	rated := []struct {
		title   string
		entries []schema.DiffEntry
	}{
		{"Overrated (list above the catalog)", result.Overrated},
		{"Underrated (list below the catalog)", result.Underrated},
	}
	for _, s := range rated {
		if len(s.entries) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s:\n", s.title)
		table := newTable(w, []string{"#", "Item", "List", "Catalog", "Diff"})
		var data [][]string
		for i, e := range s.entries {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				contract.TruncateName(e.DisplayName, nameWidth),
				strconv.Itoa(e.ListPosition + 1),
				strconv.Itoa(e.CatalogPosition + 1),
				strconv.Itoa(e.Difference),
			})
		}
		if err := renderTable(table, data); err != nil {
			return err
		}
	}

	tallies := []struct {
		title   string
		column  string
		tallies []schema.Tally
	}{
		{"Most common genres", "Genre", result.Genres},
		{"Most common game engines", "Engine", result.Engines},
		{"Most common companies", "Company", result.Companies},
		{"Most common platforms", "Platform", result.Platforms},
	}
	for _, s := range tallies {
		if len(s.tallies) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s:\n", s.title)
		table := newTable(w, []string{s.column, "Items"})
		var data [][]string
		for _, g := range s.tallies {
			data = append(data, []string{g.Value, strconv.Itoa(g.Count)})
		}
		if err := renderTable(table, data); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Summary completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}
