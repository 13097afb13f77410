package iostore

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/covtree/schema"
)

// PrintStoreStatus prints result store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Total Reports Read: %d\n", status.TotalReportsRead)
	}
	fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
