package cmd

import (
	"github.com/huangsam/covtree/core"
	"github.com/spf13/cobra"
)

// filesCmd ranks files by line coverage.
var filesCmd = &cobra.Command{
	Use:   "files <report>...",
	Short: "Show the least covered files.",
	Long: `Merge the reports and rank individual files by ascending line coverage.

Files without any line data are listed last. Ties are broken by the number of
missed lines, then by path. The Uncovered column lists the missed line ranges.

Examples:
  # Find the 10 least covered files
  covtree files coverage.out --limit 10

  # Focus on one directory
  covtree files coverage.out --filter internal/

  # Skip generated code
  covtree files coverage.out --exclude "_gen.go,mocks/"

  # Export findings to CSV for tracking
  covtree files --format cobertura coverage.xml --output csv --output-file files.csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		exitOnError("Cannot run files analysis", core.ExecuteFiles(rootCtx, cfg, storeManager))
	},
}
