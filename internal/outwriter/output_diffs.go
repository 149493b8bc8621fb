package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
)

// PrintDiffResults outputs the list versus catalog comparison, dispatching based on the output format configured.
func PrintDiffResults(result schema.DiffResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForDiffs(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForDiffs(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errParquetSeriesOnly
	default:
		if err := writeDiffsTable(os.Stdout, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing diffs table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForDiffs handles opening the file and calling the JSON writer.
func printJSONResultsForDiffs(result schema.DiffResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForDiffs(w, result)
	}, "Wrote JSON diff results")
}

// printCSVResultsForDiffs handles opening the file and calling the CSV writer.
func printCSVResultsForDiffs(result schema.DiffResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForDiffs(csvWriter, result, fmtFloat)
	}, "Wrote CSV diff results")
}

// writeDiffsTable prints list and catalog positions side by side. Positions are shown 1-based;
// the arrow points up when the list ranks an item higher than the catalog does.
func writeDiffsTable(w io.Writer, result schema.DiffResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	nameWidth := GetMaxNameWidth(cfg, 45)

	table := newTable(w, []string{"Item", "List", "Catalog", "Rating", "Diff"})
	var data [][]string
	for _, e := range result.Entries {
		if cfg.ResultLimit > 0 && len(data) >= cfg.ResultLimit {
			break
		}
		data = append(data, []string{
			contract.TruncateName(e.DisplayName, nameWidth),
			strconv.Itoa(e.ListPosition + 1),
			strconv.Itoa(e.CatalogPosition + 1),
			fmtFloat(e.Rating),
			movementLabel(cfg, e.CatalogPosition+1, e.ListPosition+1),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	if len(result.Unrated) > 0 {
		_, _ = fmt.Fprintf(w, "No %s rating for: %s\n", result.Kind, strings.Join(result.Unrated, ", "))
	}
	_, err := fmt.Fprintf(w, "Rating diffs (%s) completed in %v with %d workers. Cache backend: %s\n",
		result.Kind, duration, cfg.Workers, cfg.CacheBackend)
	return err
}
