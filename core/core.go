// Package core has core logic for parsing, rolling up, ranking and comparing coverage reports.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/covtree/core/agg"
	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/outwriter"
	"github.com/huangsam/covtree/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteSummary parses and merges the reports and prints one row per metric.
// It serves as the main entry point for the 'summary' command.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := runSummary(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(result, cfg, time.Since(start))
}

// ExecuteFiles prints the least covered files of the merged reports.
// It serves as the main entry point for the 'files' command.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked, err := runFiles(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteFiles(ranked, cfg, time.Since(start))
}

// ExecutePackages prints the least covered packages of the merged reports.
// It serves as the main entry point for the 'packages' command.
func ExecutePackages(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked, err := runPackages(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePackages(ranked, cfg, time.Since(start))
}

// ExecuteCompare parses the base and target report sets and prints the
// metric and file deltas between them. Compare runs are not recorded.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	result, err := runCompare(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(result, cfg, time.Since(start))
}

// ExecuteFormats lists the supported report formats.
// This is a static display that does not read any report.
func ExecuteFormats(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteFormats(registry.Describe(), cfg)
}

// GetSummaryResult returns the summary of the reports without printing.
func GetSummaryResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SummaryResult, error) {
	return runSummary(withSuppressHeader(ctx), cfg, mgr)
}

// GetFileResults returns the ranked file rows without printing.
func GetFileResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.FileResult, error) {
	return runFiles(withSuppressHeader(ctx), cfg, mgr)
}

// GetPackageResults returns the ranked package rows without printing.
func GetPackageResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.PackageResult, error) {
	return runPackages(withSuppressHeader(ctx), cfg, mgr)
}

// GetComparisonResult compares the base and target report sets without printing.
func GetComparisonResult(ctx context.Context, cfg *contract.Config) (schema.ComparisonResult, error) {
	return runCompare(withSuppressHeader(ctx), cfg)
}

func runCompare(ctx context.Context, cfg *contract.Config) (schema.ComparisonResult, error) {
	if len(cfg.BasePaths) == 0 {
		return schema.ComparisonResult{}, errors.New("must specify --base when running compare command")
	}

	// Print single header for the comparison
	if !shouldSuppressHeader(ctx) {
		contract.LogCompareHeader(cfg)
	}

	baseOutput, err := agg.ParseReports(ctx, cfg, cfg.BasePaths)
	if err != nil {
		return schema.ComparisonResult{}, err
	}
	targetOutput, err := agg.ParseReports(ctx, cfg, cfg.ReportPaths)
	if err != nil {
		return schema.ComparisonResult{}, err
	}

	return compareTrees(
		agg.FilterTree(cfg, baseOutput.Tree),
		agg.FilterTree(cfg, targetOutput.Tree),
		cfg.ResultLimit,
	), nil
}

func runSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SummaryResult, error) {
	output, err := runReportAnalysis(ctx, cfg, mgr)
	if err != nil {
		return schema.SummaryResult{}, err
	}
	return schema.SummaryResult{
		Root:        output.Tree.Name(),
		Format:      string(cfg.Format),
		ReportCount: output.ReportCount,
		FileCount:   len(output.Tree.FileNodes()),
		Metrics:     agg.SummarizeMetrics(output.Tree),
		Warnings:    output.Warnings,
	}, nil
}

func runFiles(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.FileResult, error) {
	output, err := runReportAnalysis(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return rankFiles(agg.FileRows(output.Tree), cfg.ResultLimit), nil
}

func runPackages(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.PackageResult, error) {
	output, err := runReportAnalysis(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return rankPackages(agg.PackageRows(output.Tree), cfg.ResultLimit), nil
}
