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

// PrintHistoryResults outputs the replayed snapshots, dispatching based on the output format configured.
func PrintHistoryResults(result schema.HistoryResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForHistory(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForHistory(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errParquetSeriesOnly
	default:
		if err := writeHistoryTable(os.Stdout, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing history table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForHistory handles opening the file and calling the JSON writer.
func printJSONResultsForHistory(result schema.HistoryResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForHistory(w, result)
	}, "Wrote JSON history results")
}

// printCSVResultsForHistory handles opening the file and calling the CSV writer.
func printCSVResultsForHistory(result schema.HistoryResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForHistory(csvWriter, result)
	}, "Wrote CSV history results")
}

// writeHistoryTable prints one row per episode for the most recent snapshots,
// followed by the latest list with movement against the snapshot before it.
func writeHistoryTable(w io.Writer, result schema.HistoryResult, cfg *contract.Config, duration time.Duration) error {
	snapshots := result.Snapshots
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots to show.")
		return err
	}
	nameWidth := GetMaxNameWidth(cfg, 45)

	table := newTable(w, []string{"Episode", "Date", "Size", "Leader", "Entered", "Left"})
	var data [][]string
	for i := tailStart(len(snapshots), cfg.ResultLimit); i < len(snapshots); i++ {
		snap := snapshots[i]
		var prev schema.ListSnapshot
		if i > 0 {
			prev = snapshots[i-1]
		}
		entered, left := membershipChanges(prev, snap)
		leader := ""
		if snap.Len() > 0 {
			leader = contract.TruncateName(snap.Items[0], nameWidth)
		}
		episode := strconv.Itoa(snap.Episode)
		if snap.Synthetic {
			episode += "*"
		}
		data = append(data, []string{
			episode,
			formatDate(snap.Date),
			strconv.Itoa(snap.Len()),
			leader,
			strconv.Itoa(len(entered)),
			strconv.Itoa(len(left)),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	latest := snapshots[len(snapshots)-1]
	var prevRanks map[string]int
	if len(snapshots) > 1 {
		prevRanks = snapshots[len(snapshots)-2].Ranks()
	}
	_, _ = fmt.Fprintf(w, "\nLatest list (episode %d):\n", latest.Episode)
	table = newTable(w, []string{"#", "Item", "Move"})
	data = nil
	for i, item := range latest.Items {
		if cfg.ResultLimit > 0 && i >= cfg.ResultLimit {
			break
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(item, nameWidth),
			movementLabel(cfg, prevRanks[item], i+1),
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "History replay completed in %v: %d snapshots, %d items on the latest list.\n",
		duration, len(snapshots), latest.Len())
	return err
}

// membershipChanges returns the items that entered and left between two snapshots.
func membershipChanges(prev, cur schema.ListSnapshot) (entered, left []string) {
	prevRanks := prev.Ranks()
	curRanks := cur.Ranks()
	for _, item := range cur.Items {
		if _, ok := prevRanks[item]; !ok {
			entered = append(entered, item)
		}
	}
	for _, item := range prev.Items {
		if _, ok := curRanks[item]; !ok {
			left = append(left, item)
		}
	}
	return entered, left
}

