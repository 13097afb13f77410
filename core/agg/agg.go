// Package agg parses report sets into merged coverage trees and rolls them up into result rows.
package agg

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/core/parser"
	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/internal/contract"
)

// Output is the merged result of parsing a report set.
type Output struct {
	Tree        *coverage.Node
	ReportCount int
	Warnings    []string // diagnostics collected in IgnoreErrors mode
}

// reportResult is what a worker produces for one report.
type reportResult struct {
	index int
	tree  *coverage.Node
	log   *parser.Log
	err   error
}

// ParseReports decodes every report in paths with the configured format and
// merges the trees. Reports are decoded on cfg.Workers goroutines; merging
// happens afterwards on the calling goroutine in path order.
func ParseReports(ctx context.Context, cfg *contract.Config, paths []string) (*Output, error) {
	if len(paths) == 0 {
		return nil, contract.ErrNoReports
	}
	p, err := registry.Lookup(string(cfg.Format))
	if err != nil {
		return nil, err
	}

	pathCh := make(chan int, len(paths))
	resultCh := make(chan reportResult, len(paths))
	var wg sync.WaitGroup

	workers := max(1, min(cfg.Workers, len(paths)))
	for range workers {
		wg.Go(func() {
			for i := range pathCh {
				if err := ctx.Err(); err != nil {
					resultCh <- reportResult{index: i, err: err}
					continue
				}
				resultCh <- parseReport(i, paths[i], p, cfg.Mode)
			}
		})
	}

	for i := range paths {
		pathCh <- i
	}
	close(pathCh)

	wg.Wait()
	close(resultCh)

	results := make([]reportResult, len(paths))
	for r := range resultCh {
		results[r.index] = r
	}

	trees := make([]*coverage.Node, 0, len(results))
	var warnings []string
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("report %s: %w", paths[i], r.err)
		}
		warnings = append(warnings, collectWarnings(paths[i], r.log)...)
		trees = append(trees, r.tree)
	}

	tree, err := coverage.MergeAll(trees...)
	if err != nil {
		return nil, fmt.Errorf("merging reports: %w", err)
	}

	return &Output{Tree: tree, ReportCount: len(paths), Warnings: warnings}, nil
}

// parseReport opens and decodes a single report.
func parseReport(index int, path string, p parser.Parser, mode parser.ProcessingMode) reportResult {
	log := parser.NewLog()
	f, err := os.Open(path)
	if err != nil {
		return reportResult{index: index, log: log, err: err}
	}
	defer func() { _ = f.Close() }()

	tree, err := p.Parse(f, path, mode, log)
	return reportResult{index: index, tree: tree, log: log, err: err}
}

// collectWarnings flattens a report log. Defects already name their report;
// notes get the report path as prefix.
func collectWarnings(path string, log *parser.Log) []string {
	if log == nil {
		return nil
	}
	out := log.Errors()
	for _, line := range log.Infos() {
		out = append(out, path+": "+line)
	}
	return out
}

// FilterTree returns a copy of tree that keeps only the files under the path
// filter that no exclude pattern matches.
func FilterTree(cfg *contract.Config, tree *coverage.Node) *coverage.Node {
	pathFilterSet := cfg.PathFilter != ""
	return tree.Filter(func(path string) bool {
		if pathFilterSet && !strings.HasPrefix(path, cfg.PathFilter) {
			return false
		}
		return !contract.ShouldIgnore(path, cfg.Excludes)
	})
}
