package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/parquet"
)

// ErrNothingToExport is returned when the store holds no runs.
var ErrNothingToExport = errors.New("no stored runs found to export")

// ExecuteExport exports every stored run and node metric of the global
// store to <outputFile>.runs.parquet and <outputFile>.node_metrics.parquet.
func ExecuteExport(w io.Writer, outputFile string) error {
	return exportStore(w, Manager.GetResultStore(), outputFile)
}

func exportStore(w io.Writer, store contract.ResultStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("result store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNothingToExport
	}

	fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	fmt.Fprintf(w, "Total node metric records: %d\n", status.TableSizes[nodeMetricsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	nodeMetrics, err := store.GetAllNodeMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve node metrics: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.Write(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	nodeMetricsFile := outputFile + ".node_metrics.parquet"
	if err := parquet.Write(parquet.ConvertNodeMetricRecords(nodeMetrics), nodeMetricsFile); err != nil {
		return fmt.Errorf("failed to write node metrics: %w", err)
	}
	fmt.Fprintf(w, "Exported %d node metric records to: %s\n", len(nodeMetrics), nodeMetricsFile)

	return nil
}
