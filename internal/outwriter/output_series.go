package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/parquet"
	"github.com/bonuspoints/thelist/schema"
)

// PrintSeriesResults outputs the exported data points, dispatching based on the output format configured.
func PrintSeriesResults(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForSeries(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForSeries(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForSeries(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeSeriesTable(os.Stdout, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForSeries handles opening the file and calling the JSON writer.
func printJSONResultsForSeries(result schema.SeriesResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForSeries(w, result)
	}, "Wrote JSON series results")
}

// printCSVResultsForSeries handles opening the file and calling the CSV writer.
func printCSVResultsForSeries(result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSeries(csvWriter, result, fmtFloat)
	}, "Wrote CSV series results")
}

// printParquetResultsForSeries handles opening the file and calling the Parquet writer.
func printParquetResultsForSeries(result schema.SeriesResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.Write(w, parquet.ConvertDataPoints(result.Points))
	}, "Wrote Parquet series results")
}

// writeSeriesTable prints the points of the latest episode. The full series is
// available through the machine-readable formats.
func writeSeriesTable(w io.Writer, result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	points := result.Points
	if len(points) == 0 {
		_, err := fmt.Fprintln(w, "No data points to show.")
		return err
	}
	nameWidth := GetMaxNameWidth(cfg, 60)

	latest := points[len(points)-1].Episode
	start := len(points)
	for start > 0 && points[start-1].Episode == latest {
		start--
	}

	table := newTable(w, []string{"#", "Item", "Track", "Lane", "Y", "Color", "Marker"})
	var data [][]string
	for _, p := range points[start:] {
		if cfg.ResultLimit > 0 && len(data) >= cfg.ResultLimit {
			break
		}
		name := p.DisplayName
		if p.MetadataMissing {
			name += " (?)"
		}
		data = append(data, []string{
			strconv.Itoa(p.Rank),
			contract.TruncateName(name, nameWidth),
			strconv.Itoa(p.Track),
			strconv.Itoa(p.Lane),
			fmtFloat(p.ScaledY),
			p.Color,
			string(p.Marker),
		})
	}
	_, _ = fmt.Fprintf(w, "Episode %d:\n", latest)
	if err := renderTable(table, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Series export completed in %v with %d workers: %d points, %d items without metadata. Cache backend: %s\n",
		duration, cfg.Workers, len(points), len(result.Missing), cfg.CacheBackend)
	return err
}
