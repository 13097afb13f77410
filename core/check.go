package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/outwriter"
	"github.com/huangsam/covtree/schema"
)

// ErrCheckFailed is returned by ExecuteCheck when a threshold is violated.
var ErrCheckFailed = errors.New("coverage check failed")

// ExecuteCheck runs the check command for CI/CD gating.
// It evaluates every configured threshold against the merged aggregate of all
// reports and returns ErrCheckFailed if any of them is not met.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	result, err := runCheck(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return ErrCheckFailed
	}
	return nil
}

// GetCheckResult evaluates the thresholds and returns the result without printing.
func GetCheckResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.CheckResult, error) {
	return runCheck(withSuppressHeader(ctx), cfg, mgr)
}

func runCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.CheckResult, error) {
	output, err := runReportAnalysis(ctx, cfg, mgr)
	if err != nil {
		return schema.CheckResult{}, err
	}
	result := evaluateThresholds(output.Tree, cfg.Thresholds)
	result.ReportCount = output.ReportCount
	return result, nil
}

// evaluateThresholds compares the aggregate percentage of every metric with
// a threshold, in metric rank order. A metric the reports carry no data for
// fails its threshold.
func evaluateThresholds(tree *coverage.Node, thresholds map[coverage.Metric]float64) schema.CheckResult {
	result := schema.CheckResult{Passed: true}
	for _, m := range coverage.Metrics() {
		threshold, ok := thresholds[m]
		if !ok {
			continue
		}

		eval := schema.CheckEvaluation{Metric: m.String(), Threshold: threshold}
		if v, found := tree.AggregateValue(m); found {
			eval.Covered = v.Covered()
			eval.Total = v.Total()
			_, eval.Measured = v.Percentage()
			if eval.Measured {
				eval.Percent = float64(eval.Covered) * 100 / float64(eval.Total)
			}
		}
		// Scaled counts avoid the rounding of covered/total*100 at the boundary
		eval.Passed = eval.Measured && float64(eval.Covered)*100 >= threshold*float64(eval.Total)
		if !eval.Passed {
			result.Passed = false
		}
		result.Evaluations = append(result.Evaluations, eval)
	}
	return result
}
