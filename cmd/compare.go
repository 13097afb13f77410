package cmd

import (
	"errors"

	"github.com/huangsam/covtree/core"
	"github.com/spf13/cobra"
)

// compareCmd shows coverage deltas between two report sets.
var compareCmd = &cobra.Command{
	Use:   "compare --base <report> <report>...",
	Short: "Compare coverage between a base and a target report set.",
	Long: `Merge the base reports and the target reports separately and show how coverage moved.

The first table has one row per metric. The second table has one row per file,
with the largest drops first. Each file is new, removed, changed or unchanged.

Ideal for:
- Pull request reviews - see which files lost coverage
- Release audits - compare coverage between versions

Examples:
  # Compare main branch coverage with a feature branch
  covtree compare --base main.out feature.out

  # Compare merged JaCoCo reports as CSV
  covtree compare --format jacoco --base old/a.xml,old/b.xml new/a.xml new/b.xml --output csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if len(cfg.BasePaths) == 0 {
			exitOnError("Cannot run compare analysis", errors.New("base reports must be provided with --base"))
		}
		exitOnError("Cannot run compare analysis", core.ExecuteCompare(rootCtx, cfg, storeManager))
	},
}
