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

// PrintTimelineResults outputs a single item's timeline, dispatching based on the output format configured.
func PrintTimelineResults(result schema.TimelineResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForTimeline(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForTimeline(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errParquetSeriesOnly
	default:
		if err := writeTimelineTable(os.Stdout, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing timeline table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForTimeline handles opening the file and calling the JSON writer.
func printJSONResultsForTimeline(result schema.TimelineResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForTimeline(w, result)
	}, "Wrote JSON timeline results")
}

// printCSVResultsForTimeline handles opening the file and calling the CSV writer.
func printCSVResultsForTimeline(result schema.TimelineResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForTimeline(csvWriter, result)
	}, "Wrote CSV timeline results")
}

// writeTimelineTable prints the rank of the item at every episode and its presence intervals.
func writeTimelineTable(w io.Writer, result schema.TimelineResult, cfg *contract.Config, duration time.Duration) error {
	timeline := result.Timeline

	table := newTable(w, []string{"Episode", "Date", "Rank", "Move"})
	var data [][]string
	prev := 0
	for _, e := range timeline.Entries {
		move := ""
		if e.Present {
			move = movementLabel(cfg, prev, e.Rank)
		}
		data = append(data, []string{
			strconv.Itoa(e.Episode),
			formatDate(e.Date),
			formatRank(e.Rank),
			move,
		})
		prev = e.Rank
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	if len(result.Intervals) > 0 {
		_, _ = fmt.Fprintln(w, "\nPresence intervals:")
		table = newTable(w, []string{"Start", "End", "Episodes", "Lane"})
		data = nil
		for _, iv := range result.Intervals {
			data = append(data, []string{
				strconv.Itoa(iv.Start),
				strconv.Itoa(iv.End),
				strconv.Itoa(iv.End - iv.Start + 1),
				strconv.Itoa(iv.Lane),
			})
		}
		if err := renderTable(table, data); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Timeline for %s completed in %v: present in %d of %d episodes.\n",
		timeline.Item, duration, timeline.PresentCount(), len(timeline.Entries))
	return err
}
