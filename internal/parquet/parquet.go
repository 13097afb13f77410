// Package parquet provides data structures and functions for exporting covtree
// results and stored runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/covtree/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single stored covtree run with metadata.
// This struct maps to the covtree_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// ReportCount is the number of reports read in this run
	ReportCount int32 `parquet:"report_count,snappy"`

	// Format is the report format of the run
	Format string `parquet:"format,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// NodeMetric represents one rolled-up value of one tree node in a run.
// This struct maps to the covtree_node_metrics database table.
type NodeMetric struct {
	RunID      int64  `parquet:"run_id,snappy"`
	NodePath   string `parquet:"node_path,snappy"`
	NodeMetric string `parquet:"node_metric,snappy"`
	Metric     string `parquet:"metric,snappy"`
	Covered    int32  `parquet:"covered,snappy"`
	Missed     int32  `parquet:"missed,snappy"`
	Amount     int32  `parquet:"amount,snappy"`
}

// MetricRow is one row of the summary output.
type MetricRow struct {
	Metric  string   `parquet:"metric,snappy"`
	Covered int64    `parquet:"covered,snappy"`
	Missed  int64    `parquet:"missed,snappy"`
	Total   int64    `parquet:"total,snappy"`
	Percent *float64 `parquet:"percent,optional,snappy"`
	Label   string   `parquet:"label,snappy"`
}

// FileRow is one row of the files output.
type FileRow struct {
	Rank          int32    `parquet:"rank,snappy"`
	Path          string   `parquet:"path,snappy"`
	Package       string   `parquet:"package,snappy"`
	CoveredLines  int64    `parquet:"covered_lines,snappy"`
	MissedLines   int64    `parquet:"missed_lines,snappy"`
	LinePercent   *float64 `parquet:"line_percent,optional,snappy"`
	BranchPercent *float64 `parquet:"branch_percent,optional,snappy"`
	LinesOfCode   int64    `parquet:"loc,snappy"`
	Complexity    int64    `parquet:"complexity,snappy"`
	Label         string   `parquet:"label,snappy"`
}

// PackageRow is one row of the packages output.
type PackageRow struct {
	Rank          int32    `parquet:"rank,snappy"`
	Name          string   `parquet:"name,snappy"`
	FileCount     int64    `parquet:"files,snappy"`
	CoveredLines  int64    `parquet:"covered_lines,snappy"`
	MissedLines   int64    `parquet:"missed_lines,snappy"`
	LinePercent   *float64 `parquet:"line_percent,optional,snappy"`
	BranchPercent *float64 `parquet:"branch_percent,optional,snappy"`
	LinesOfCode   int64    `parquet:"loc,snappy"`
	Tests         int64    `parquet:"tests,snappy"`
	Label         string   `parquet:"label,snappy"`
}

// ComparisonRow is one metric or file delta of the compare output.
type ComparisonRow struct {
	Kind          string  `parquet:"kind,snappy"` // "metric" or "file"
	Key           string  `parquet:"key,snappy"`
	BeforePercent float64 `parquet:"before_percent,snappy"`
	AfterPercent  float64 `parquet:"after_percent,snappy"`
	Delta         float64 `parquet:"delta,snappy"`
	BeforeTotal   int64   `parquet:"before_total,snappy"`
	AfterTotal    int64   `parquet:"after_total,snappy"`
	Status        string  `parquet:"status,snappy"`
}

// EvaluationRow is one threshold evaluation of the check output.
type EvaluationRow struct {
	Metric    string  `parquet:"metric,snappy"`
	Threshold float64 `parquet:"threshold,snappy"`
	Percent   float64 `parquet:"percent,snappy"`
	Covered   int64   `parquet:"covered,snappy"`
	Total     int64   `parquet:"total,snappy"`
	Measured  bool    `parquet:"measured,snappy"`
	Passed    bool    `parquet:"passed,snappy"`
}

// Write writes a slice of rows to a Parquet file. The schema is derived
// from the struct tags of T.
func Write[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			ReportCount:   record.ReportCount,
			Format:        record.Format,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertNodeMetricRecords converts schema.NodeMetricRecord to NodeMetric for Parquet export.
func ConvertNodeMetricRecords(records []schema.NodeMetricRecord) []NodeMetric {
	result := make([]NodeMetric, len(records))
	for i, record := range records {
		result[i] = NodeMetric(record)
	}
	return result
}

// ConvertMetricSummaries converts summary rows for Parquet output.
func ConvertMetricSummaries(metrics []schema.MetricSummary) []MetricRow {
	result := make([]MetricRow, len(metrics))
	for i, m := range metrics {
		result[i] = MetricRow{
			Metric:  m.Metric,
			Covered: int64(m.Covered),
			Missed:  int64(m.Missed),
			Total:   int64(m.Total),
			Percent: optionalPercent(m.Percent, m.HasPercent),
			Label:   schema.LabelFor(m.Percent, m.HasPercent),
		}
	}
	return result
}

// ConvertFileResults converts ranked file rows for Parquet output.
func ConvertFileResults(files []schema.EnrichedFileResult) []FileRow {
	result := make([]FileRow, len(files))
	for i, f := range files {
		result[i] = FileRow{
			Rank:          int32(f.Rank),
			Path:          f.Path,
			Package:       f.Package,
			CoveredLines:  int64(f.CoveredLines),
			MissedLines:   int64(f.MissedLines),
			LinePercent:   optionalPercent(f.LinePercent, f.HasLines),
			BranchPercent: optionalPercent(f.BranchPercent, f.HasBranches),
			LinesOfCode:   int64(f.LinesOfCode),
			Complexity:    int64(f.Complexity),
			Label:         f.Label,
		}
	}
	return result
}

// ConvertPackageResults converts ranked package rows for Parquet output.
func ConvertPackageResults(packages []schema.EnrichedPackageResult) []PackageRow {
	result := make([]PackageRow, len(packages))
	for i, p := range packages {
		result[i] = PackageRow{
			Rank:          int32(p.Rank),
			Name:          p.Name,
			FileCount:     int64(p.FileCount),
			CoveredLines:  int64(p.CoveredLines),
			MissedLines:   int64(p.MissedLines),
			LinePercent:   optionalPercent(p.LinePercent, p.HasLines),
			BranchPercent: optionalPercent(p.BranchPercent, p.HasBranches),
			LinesOfCode:   int64(p.LinesOfCode),
			Tests:         int64(p.Tests),
			Label:         p.Label,
		}
	}
	return result
}

// ConvertComparison flattens metric and file deltas for Parquet output.
func ConvertComparison(result schema.ComparisonResult) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(result.Metrics)+len(result.Files))
	for _, d := range result.Metrics {
		rows = append(rows, comparisonRow("metric", d))
	}
	for _, d := range result.Files {
		rows = append(rows, comparisonRow("file", d))
	}
	return rows
}

func comparisonRow(kind string, d schema.ComparisonDetail) ComparisonRow {
	return ComparisonRow{
		Kind:          kind,
		Key:           d.Key,
		BeforePercent: d.BeforePercent,
		AfterPercent:  d.AfterPercent,
		Delta:         d.Delta,
		BeforeTotal:   int64(d.BeforeTotal),
		AfterTotal:    int64(d.AfterTotal),
		Status:        string(d.Status),
	}
}

// ConvertEvaluations converts check evaluations for Parquet output.
func ConvertEvaluations(evaluations []schema.CheckEvaluation) []EvaluationRow {
	result := make([]EvaluationRow, len(evaluations))
	for i, e := range evaluations {
		result[i] = EvaluationRow{
			Metric:    e.Metric,
			Threshold: e.Threshold,
			Percent:   e.Percent,
			Covered:   int64(e.Covered),
			Total:     int64(e.Total),
			Measured:  e.Measured,
			Passed:    e.Passed,
		}
	}
	return result
}

func optionalPercent(percent float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &percent
}
