package cmd

import (
	"errors"
	"os"

	"github.com/huangsam/covtree/core"
	"github.com/huangsam/covtree/internal/iostore"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <report>...",
	Short: "Enforce coverage thresholds for CI/CD pipelines (fails build on violations)",
	Long: `Merge the reports and check every configured threshold against the aggregate.

Designed for CI/CD integration - exits with code 1 when a metric is below its
threshold. A metric the reports carry no data for fails its threshold.

Default thresholds: line:80

Thresholds come from the 'thresholds' map of .covtree.yaml and are overridden
per metric by --thresholds-override.

Examples:
  # Gate on the default line threshold
  covtree check coverage.out

  # Custom thresholds per metric
  covtree check --format jacoco jacoco.xml --thresholds-override "line:85,branch:70"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, storeManager)
		if errors.Is(err, core.ErrCheckFailed) {
			// The result has already been printed
			_ = stopProfiling()
			iostore.CloseStore()
			os.Exit(1)
		}
		exitOnError("Policy check failed", err)
	},
}
