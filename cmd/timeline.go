package cmd

import (
	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/spf13/cobra"
)

// timelineCmd follows a single item through the history.
var timelineCmd = &cobra.Command{
	Use:   "timeline [input-file]",
	Short: "Show the rank of one item at every episode.",
	Long: `Follow one item through the replayed history.

Prints the item's rank (or absence) at every episode, its movement between
episodes, and the contiguous intervals it stayed on the list together with the
lane each interval was drawn in.

Examples:
  # Follow an item through the default event file
  thelist timeline --item hades

  # Use rank lanes instead of stable lanes
  thelist timeline events.csv --item celeste --layout rank`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTimeline(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build timeline", err)
		}
	},
}
