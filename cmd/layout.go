package cmd

import (
	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/spf13/cobra"
)

// layoutCmd reports the track assignment and its crossings.
var layoutCmd = &cobra.Command{
	Use:   "layout [input-file]",
	Short: "Assign tracks to every episode and count crossings.",
	Long: `Assign every present item a track per episode and report how many lines cross.

Strategies:
  stable - continuing items keep their relative track order and entering items
           slot in right below the nearest continuing item ranked above them
  rank   - the track is the item's rank

Lanes are independent of the strategy: an item keeps its lane while it stays on
the list and entering items take the smallest free lane.

Track swaps count pairs of items whose track order flips between adjacent
episodes. Rank swaps count pairs whose rank order flips.

Examples:
  # Compare both strategies
  thelist layout --layout stable
  thelist layout --layout rank

  # Export the track table as CSV
  thelist layout --output csv --output-file tracks.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLayout(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute layout", err)
		}
	},
}
