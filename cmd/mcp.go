package cmd

import (
	"github.com/bonuspoints/thelist/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [input-file]",
	Short: "Start the list history MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents replay the list history,
follow items, lay out tracks and export the bump-chart series via standard tools.

The event file and flags given here are the defaults; every tool can point at a
different file with its input_path argument.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
