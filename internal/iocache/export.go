package iocache

import (
	"errors"
	"fmt"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/parquet"
)

// ExecuteRunsExport exports the run history to Parquet files next to outputFile.
func ExecuteRunsExport(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total point records: %d\n", status.TableSizes[seriesPointsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	points, err := store.GetAllPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve series points: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteFile(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	pointsFile := outputFile + ".series_points.parquet"
	if err := parquet.WriteFile(parquet.ConvertSeriesPointRecords(points), pointsFile); err != nil {
		return fmt.Errorf("failed to write series points: %w", err)
	}
	fmt.Printf("Exported %d series points to: %s\n", len(points), pointsFile)
	return nil
}
