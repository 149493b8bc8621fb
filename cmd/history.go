package cmd

import (
	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd replays the event log and prints every snapshot.
var historyCmd = &cobra.Command{
	Use:   "history [input-file]",
	Short: "Replay the event log and show the list after every episode.",
	Long: `Replay insert, move and remove events against an empty list, one episode at a time.

Each episode produces a snapshot of the complete ranked list. The table shows who
led the list, who entered and who left, followed by the latest list with the
movement of every item since the previous episode.

Episodes with a declared date but no events are carried forward. With --fill-gaps,
every missing episode index between the first and last is carried forward too
and marked with an asterisk.

Examples:
  # Replay the default event file
  thelist history

  # Replay a JSON event file and keep gap episodes
  thelist history events.json --fill-gaps

  # Export every snapshot to CSV
  thelist history --output csv --output-file history.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot replay history", err)
		}
	},
}
