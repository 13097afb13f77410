package agg

import (
	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/schema"
)

// SummarizeMetrics returns one row per metric measured anywhere in tree,
// in metric rank order.
func SummarizeMetrics(tree *coverage.Node) []schema.MetricSummary {
	values := tree.AggregateValues()
	rows := make([]schema.MetricSummary, 0, len(values))
	for _, m := range coverage.Metrics() {
		if v, ok := values[m]; ok {
			rows = append(rows, toMetricSummary(v))
		}
	}
	return rows
}

func toMetricSummary(v coverage.Value) schema.MetricSummary {
	pct, ok := v.Percentage()
	return schema.MetricSummary{
		Metric:     v.Metric().String(),
		Covered:    v.Covered(),
		Missed:     v.Missed(),
		Total:      v.Total(),
		Amount:     v.Amount(),
		Percent:    pct * 100,
		HasPercent: ok,
		IsRatio:    v.IsRatio(),
	}
}

// FileRows builds one unsorted row per file node of tree.
func FileRows(tree *coverage.Node) []schema.FileResult {
	files := tree.FileNodes()
	rows := make([]schema.FileResult, 0, len(files))
	for _, f := range files {
		values := f.AggregateValues()
		row := schema.FileResult{
			Path:    f.Path(),
			Package: enclosingPackage(f),
		}
		row.CoveredLines, row.MissedLines, row.LinePercent, row.HasLines = ratio(values, coverage.Line)
		row.CoveredBranch, row.MissedBranch, row.BranchPercent, row.HasBranches = ratio(values, coverage.Branch)
		row.LinesOfCode = values[coverage.LOC].Amount()
		row.Complexity = values[coverage.Complexity].Amount()
		row.MethodCount = values[coverage.Method].Total()
		if f.HasLineDetail() {
			row.MissedLineList = f.MissedLines()
		}
		rows = append(rows, row)
	}
	return rows
}

// PackageRows builds one unsorted row per package node of tree.
func PackageRows(tree *coverage.Node) []schema.PackageResult {
	var rows []schema.PackageResult
	for p := range tree.All(coverage.Package) {
		values := p.AggregateValues()
		row := schema.PackageResult{
			Name:      p.Name(),
			FileCount: len(p.FileNodes()),
		}
		row.CoveredLines, row.MissedLines, row.LinePercent, row.HasLines = ratio(values, coverage.Line)
		_, _, row.BranchPercent, row.HasBranches = ratio(values, coverage.Branch)
		row.LinesOfCode = values[coverage.LOC].Amount()
		row.Tests = values[coverage.Tests].Amount()
		rows = append(rows, row)
	}
	return rows
}

// ratio unpacks a ratio metric, with the percentage scaled to 0..100.
func ratio(values map[coverage.Metric]coverage.Value, metric coverage.Metric) (covered, missed int, percent float64, ok bool) {
	v, found := values[metric]
	if !found {
		return 0, 0, 0, false
	}
	pct, ok := v.Percentage()
	return v.Covered(), v.Missed(), pct * 100, ok
}

// enclosingPackage returns the name of the nearest package above n.
func enclosingPackage(n *coverage.Node) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Metric() == coverage.Package {
			return p.Name()
		}
	}
	return ""
}

// FlattenNodeMetrics lists the rolled-up values of every node from the root
// down to file level, parents before children.
func FlattenNodeMetrics(tree *coverage.Node) []schema.NodeMetric {
	var out []schema.NodeMetric
	flatten(tree, tree.Name(), &out)
	return out
}

func flatten(n *coverage.Node, nodePath string, out *[]schema.NodeMetric) {
	values := n.AggregateValues()
	for _, m := range coverage.Metrics() {
		v, ok := values[m]
		if !ok {
			continue
		}
		*out = append(*out, schema.NodeMetric{
			NodePath:   nodePath,
			NodeMetric: n.Metric().String(),
			Metric:     m.String(),
			Covered:    v.Covered(),
			Missed:     v.Missed(),
			Amount:     v.Amount(),
		})
	}
	if n.Metric() == coverage.File {
		return
	}
	for _, c := range n.Children() {
		if c.Metric() == coverage.Class || c.Metric() == coverage.Method {
			continue
		}
		flatten(c, nodePath+"/"+c.Name(), out)
	}
}
