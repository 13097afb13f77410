package cmd

import (
	"github.com/huangsam/covtree/core"
	"github.com/spf13/cobra"
)

// formatsCmd lists the supported report formats.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported report formats",
	Long: `Show every report format that --format accepts, with what kind of data it carries.

Examples:
  covtree formats
  covtree formats --output json`,
	Args:    cobra.NoArgs,
	PreRunE: settingsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		exitOnError("Cannot list formats", core.ExecuteFormats(rootCtx, cfg, storeManager))
	},
}
