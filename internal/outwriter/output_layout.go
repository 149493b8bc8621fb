package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
)

// PrintLayoutResults outputs the track assignment report, dispatching based on the output format configured.
func PrintLayoutResults(result schema.LayoutResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForLayout(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForLayout(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errParquetSeriesOnly
	default:
		if err := writeLayoutTable(os.Stdout, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing layout table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForLayout handles opening the file and calling the JSON writer.
func printJSONResultsForLayout(result schema.LayoutResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForLayout(w, result)
	}, "Wrote JSON layout results")
}

// printCSVResultsForLayout handles opening the file and calling the CSV writer.
func printCSVResultsForLayout(result schema.LayoutResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForLayout(csvWriter, result)
	}, "Wrote CSV layout results")
}

// writeLayoutTable prints the track order of the most recent episodes with the
// crossings that led into each of them.
func writeLayoutTable(w io.Writer, result schema.LayoutResult, cfg *contract.Config, duration time.Duration) error {
	episodes := result.Assignment.Episodes
	crossingsInto := make(map[int]schema.Crossing, len(result.Crossings))
	for _, c := range result.Crossings {
		crossingsInto[c.To] = c
	}
	orderWidth := GetMaxNameWidth(cfg, 40)

	table := newTable(w, []string{"Episode", "Items", "Track Swaps", "Rank Swaps", "Track Order"})
	var data [][]string
	for _, et := range episodes[tailStart(len(episodes), cfg.ResultLimit):] {
		trackSwaps, rankSwaps := "-", "-"
		if c, ok := crossingsInto[et.Episode]; ok {
			trackSwaps = strconv.Itoa(c.TrackSwaps)
			rankSwaps = strconv.Itoa(c.RankSwaps)
		}
		data = append(data, []string{
			strconv.Itoa(et.Episode),
			strconv.Itoa(len(et.Tracks)),
			trackSwaps,
			rankSwaps,
			contract.TruncateName(strings.Join(trackOrder(et), " "), orderWidth),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Layout (%s) completed in %v: %d intervals, %d track swaps, %d rank swaps.\n",
		result.Assignment.Strategy, duration, len(result.Assignment.Intervals), result.TrackSwaps, result.RankSwaps)
	return err
}

// trackOrder returns the items of an episode sorted by track.
func trackOrder(et schema.EpisodeTracks) []string {
	items := make([]string, 0, len(et.Tracks))
	for item := range et.Tracks {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b string) int {
		return cmp.Compare(et.Tracks[a], et.Tracks[b])
	})
	return items
}
