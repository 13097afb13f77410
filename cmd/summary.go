package cmd

import (
	"github.com/huangsam/covtree/core"
	"github.com/spf13/cobra"
)

// summaryCmd prints the merged aggregate of every metric.
var summaryCmd = &cobra.Command{
	Use:   "summary <report>...",
	Short: "Show one aggregate row per metric for the merged reports.",
	Long: `Parse every report, merge them into a single coverage tree, and print the
aggregate value of each metric found.

Coverage metrics (LINE, BRANCH, INSTRUCTION, ...) show covered, missed and total
counts with a percentage. Scalar metrics (LOC, COMPLEXITY, ...) show their amount.

Examples:
  # Summarize a Go coverprofile
  covtree summary coverage.out

  # Merge JaCoCo reports of several modules
  covtree summary --format jacoco app/jacoco.xml lib/jacoco.xml

  # Export to JSON for dashboards
  covtree summary --format cobertura coverage.xml --output json --output-file summary.json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		exitOnError("Cannot summarize reports", core.ExecuteSummary(rootCtx, cfg, storeManager))
	},
}
