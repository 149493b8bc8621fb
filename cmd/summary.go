package cmd

import (
	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd prints aggregate statistics about the list history.
var summaryCmd = &cobra.Command{
	Use:   "summary [input-file]",
	Short: "Summarize tenures, ratings and catalog tallies of the list.",
	Long: `Summarize the replayed history.

Shows which items spent the most episodes at the top and at the bottom of the
list, which stayed on it the longest, and the five items the latest list ranks
furthest above (overrated) and below (underrated) the catalog's total rating.
It then tallies the most common genres, game engines, companies and platforms
among all listed games and shows the range of their release dates.

Examples:
  thelist summary
  thelist summary events.yaml --limit 5 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize history", err)
		}
	},
}
