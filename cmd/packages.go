package cmd

import (
	"github.com/huangsam/covtree/core"
	"github.com/spf13/cobra"
)

// packagesCmd ranks packages by line coverage.
var packagesCmd = &cobra.Command{
	Use:   "packages <report>...",
	Short: "Show the least covered packages.",
	Long: `Merge the reports and rank packages by ascending line coverage.

A package rolls up every file it contains, so a high-level view of weak
subsystems is one command away.

Examples:
  # Rank packages of a Go coverprofile
  covtree packages coverage.out

  # Rank packages of merged Cobertura reports as JSON
  covtree packages --format cobertura a.xml b.xml --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		exitOnError("Cannot run packages analysis", core.ExecutePackages(rootCtx, cfg, storeManager))
	},
}
