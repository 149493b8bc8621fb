package cmd

import (
	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/spf13/cobra"
)

// diffsCmd compares the latest list with the catalog ratings.
var diffsCmd = &cobra.Command{
	Use:   "diffs [input-file]",
	Short: "Compare the latest list with the catalog's rating order.",
	Long: `Rank the items of the latest list by a catalog rating and show how far each
item's list position is from its rating position.

Ratings:
  user   - average user rating
  critic - aggregated critic rating
  total  - combined rating (default)

Items without the chosen rating are listed separately and do not take part in
either ranking.

Examples:
  thelist diffs --rating critic
  thelist diffs --rating user --output csv --output-file diffs.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDiffs(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare ratings", err)
		}
	},
}
