package cmd

import (
	"github.com/huangsam/covtree/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the covtree MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents summarize, rank, compare
and check coverage reports through standard tools.

Report paths are given per tool call. Flags and config set the defaults.`,
	Args:    cobra.NoArgs,
	PreRunE: settingsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
