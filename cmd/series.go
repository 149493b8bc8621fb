package cmd

import (
	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd exports the bump-chart series.
var seriesCmd = &cobra.Command{
	Use:   "series [input-file]",
	Short: "Export bump-chart data points with catalog metadata.",
	Long: `Replay the log, assign tracks and export one data point per item and episode.

Every point carries the episode, rank, track and lane, the item's display name,
color and marker, and its catalog attributes (release year, genres, ratings).
Metadata is resolved concurrently through the game catalog, the local metadata
cache and the overrides file. Items that cannot be resolved keep their raw
identifier and are reported as missing.

When run tracking is enabled (--runs-backend), each export is recorded with its
configuration and points so it can be exported later with 'thelist runs export'.

Examples:
  # Export the series as a table
  thelist series events.csv

  # Write a Parquet file for a plotting notebook
  thelist series --output parquet --output-file series.parquet

  # Offline export with manual metadata
  thelist series --offline --overrides overrides.yaml --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export series", err)
		}
	},
}
