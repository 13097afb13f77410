package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/covtree/core/agg"
	"github.com/huangsam/covtree/internal/contract"
)

// runReportAnalysis parses and merges the configured reports, applies the
// path filter and excludes, and records the result in the store if one is
// configured.
func runReportAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*agg.Output, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogReportHeader(cfg)
	}

	// --- 0. Begin Run Tracking (if configured) ---
	store := resultStore(mgr)
	if store != nil {
		configParams := map[string]any{
			"format":   string(cfg.Format),
			"mode":     cfg.Mode.String(),
			"filter":   cfg.PathFilter,
			"excludes": cfg.Excludes,
			"workers":  cfg.Workers,
		}
		runID, err := store.BeginRun(time.Now(), string(cfg.Format), len(cfg.ReportPaths), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 1. Parse and merge ---
	output, err := agg.ParseReports(ctx, cfg, cfg.ReportPaths)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		for _, w := range output.Warnings {
			contract.LogWarn("skipped record", errors.New(w))
		}
	}

	// --- 2. Filtering ---
	output.Tree = agg.FilterTree(cfg, output.Tree)

	// --- 3. Record and end run ---
	if runID, ok := getRunID(ctx); ok && store != nil {
		recordRun(store, runID, output)
	}

	return output, nil
}

// recordRun stores the flattened tree and closes the run. Store failures
// never fail the command.
func recordRun(store contract.ResultStore, runID int64, output *agg.Output) {
	if err := store.RecordNodeMetrics(runID, agg.FlattenNodeMetrics(output.Tree)); err != nil {
		logTrackingError("record node metrics", err)
	}
	if err := store.EndRun(runID, time.Now()); err != nil {
		logTrackingError("finalize run", err)
	}
}

// resultStore returns the store of mgr, or nil when there is none.
func resultStore(mgr contract.StoreManager) contract.ResultStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetResultStore()
}

// logTrackingError logs a result store failure.
func logTrackingError(operation string, err error) {
	contract.LogWarn(fmt.Sprintf("Failed to %s", operation), err)
}
