package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build metadata injected through -ldflags.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information for covtree.",
	Long: `Print the release version, commit, build date and Go runtime.

Include this output when reporting a parsing problem with a coverage report.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "covtree CLI")
		for _, row := range [][2]string{
			{"Version:", version},
			{"Commit:", commit},
			{"Built:", date},
			{"Runtime:", runtime.Version()},
		} {
			_, _ = fmt.Fprintf(out, "  %-8s %s\n", row[0], row[1])
		}
	},
}
