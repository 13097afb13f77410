package core

import (
	"math"
	"sort"
	"strings"

	"github.com/huangsam/covtree/core/agg"
	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/schema"
)

// minDelta is the smallest percentage change reported as a change.
const minDelta = 0.01

// snapshot is one side of a comparison.
type snapshot struct {
	percent float64
	total   int
}

// compareTrees computes the metric and file deltas between a base tree and
// a target tree. Only changed, new and removed files are listed.
func compareTrees(base, target *coverage.Node, limit int) schema.ComparisonResult {
	baseMetrics := agg.SummarizeMetrics(base)
	targetMetrics := agg.SummarizeMetrics(target)

	metrics := compareMetrics(baseMetrics, targetMetrics)
	files, summary := compareFiles(agg.FileRows(base), agg.FileRows(target), limit)
	for _, m := range metrics {
		if m.Key == coverage.Line.String() {
			summary.LineDelta = m.Delta
		}
	}

	return schema.ComparisonResult{Metrics: metrics, Files: files, Summary: summary}
}

// compareMetrics compares every ratio metric present on either side, in
// metric rank order.
func compareMetrics(baseRows, targetRows []schema.MetricSummary) []schema.ComparisonDetail {
	baseMap := metricMap(baseRows)
	targetMap := metricMap(targetRows)

	var details []schema.ComparisonDetail
	for _, m := range coverage.Metrics() {
		if !m.IsRatio() {
			continue
		}
		key := m.String()
		b, baseExists := baseMap[key]
		t, targetExists := targetMap[key]
		if !baseExists && !targetExists {
			continue
		}
		details = append(details, buildDetail(key, b, t, baseExists, targetExists))
	}
	return details
}

func metricMap(rows []schema.MetricSummary) map[string]snapshot {
	out := make(map[string]snapshot, len(rows))
	for _, r := range rows {
		if r.IsRatio {
			out[r.Metric] = snapshot{percent: r.Percent, total: r.Total}
		}
	}
	return out
}

// compareFiles matches file rows by path and computes line coverage deltas.
func compareFiles(baseRows, targetRows []schema.FileResult, limit int) ([]schema.ComparisonDetail, schema.ComparisonSummary) {
	baseMap := make(map[string]snapshot, len(baseRows))
	targetMap := make(map[string]snapshot, len(targetRows))
	allPaths := make(map[string]struct{})

	// 1. Populate maps and collect all paths
	for _, r := range baseRows {
		baseMap[r.Path] = snapshot{percent: r.LinePercent, total: r.CoveredLines + r.MissedLines}
		allPaths[r.Path] = struct{}{}
	}
	for _, r := range targetRows {
		targetMap[r.Path] = snapshot{percent: r.LinePercent, total: r.CoveredLines + r.MissedLines}
		allPaths[r.Path] = struct{}{}
	}

	// 2. Compare all paths
	var summary schema.ComparisonSummary
	details := make([]schema.ComparisonDetail, 0, len(allPaths))
	for path := range allPaths {
		b, baseExists := baseMap[path]
		t, targetExists := targetMap[path]
		detail := buildDetail(path, b, t, baseExists, targetExists)

		switch detail.Status {
		case schema.NewStatus:
			summary.TotalNew++
		case schema.RemovedStatus:
			summary.TotalRemoved++
		case schema.ChangedStatus:
			summary.TotalChanged++
		default:
			summary.TotalUnchanged++
			continue
		}
		details = append(details, detail)
	}

	// 3. Sort and apply limit
	sortComparisonDetails(details)
	if limit > 0 && len(details) > limit {
		details = details[:limit]
	}
	return details, summary
}

// buildDetail computes the delta of one key. Missing sides count as 0%.
func buildDetail(key string, base, target snapshot, baseExists, targetExists bool) schema.ComparisonDetail {
	detail := schema.ComparisonDetail{Key: key}
	if baseExists {
		detail.BeforePercent = base.percent
		detail.BeforeTotal = base.total
	}
	if targetExists {
		detail.AfterPercent = target.percent
		detail.AfterTotal = target.total
	}
	detail.Delta = detail.AfterPercent - detail.BeforePercent

	changed := math.Abs(detail.Delta) > minDelta || detail.BeforeTotal != detail.AfterTotal
	detail.Status = determineStatus(baseExists, targetExists, changed)
	return detail
}

// determineStatus returns the status based on existence in base and target.
func determineStatus(baseExists, targetExists, changed bool) schema.Status {
	switch {
	case !baseExists:
		return schema.NewStatus
	case !targetExists:
		return schema.RemovedStatus
	case changed:
		return schema.ChangedStatus
	default:
		return schema.UnchangedStatus
	}
}

// sortComparisonDetails sorts details by absolute delta, then delta sign, then key.
func sortComparisonDetails(details []schema.ComparisonDetail) {
	sort.Slice(details, func(i, j int) bool {
		a := details[i]
		b := details[j]

		// Primary: Absolute delta (descending)
		absA := math.Abs(a.Delta)
		absB := math.Abs(b.Delta)
		if absA != absB {
			return absA > absB
		}

		// Secondary: Delta sign (improvements before regressions)
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}

		// Tertiary: Key (ascending)
		return strings.Compare(a.Key, b.Key) < 0
	})
}
