package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComparisonResults outputs the comparison, dispatching based on the output format configured.
func WriteComparisonResults(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForComparison(w, result, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeComparisonTables(w, result, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeComparisonTables writes the metric deltas followed by the file deltas.
func writeComparisonTables(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	formatDelta := deltaFormatter(cfg)

	metrics := tablewriter.NewWriter(w)
	metrics.Header([]string{"Metric", "Before", "After", "Delta", "Before Total", "After Total"})
	metrics.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var metricRows [][]string
	for _, d := range result.Metrics {
		metricRows = append(metricRows, []string{
			d.Key,
			fmtFloat(d.BeforePercent),
			fmtFloat(d.AfterPercent),
			formatDelta(d.Delta),
			fmt.Sprintf(intFmt, d.BeforeTotal),
			fmt.Sprintf(intFmt, d.AfterTotal),
		})
	}
	if err := metrics.Bulk(metricRows); err != nil {
		return err
	}
	if err := metrics.Render(); err != nil {
		return err
	}

	files := tablewriter.NewWriter(w)
	files.Header([]string{"Rank", "Path", "Before", "After", "Delta", "Status"})
	files.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	pathWidth := GetMaxTablePathWidth(cfg, compareTableWidth)
	var fileRows [][]string
	for i, d := range result.Files {
		fileRows = append(fileRows, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(d.Key, pathWidth),
			fmtFloat(d.BeforePercent),
			fmtFloat(d.AfterPercent),
			formatDelta(d.Delta),
			string(d.Status),
		})
	}
	if err := files.Bulk(fileRows); err != nil {
		return err
	}
	if err := files.Render(); err != nil {
		return err
	}

	s := result.Summary
	if _, err := fmt.Fprintf(w, "Showing top %d file changes\n", len(result.Files)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Net line coverage delta: %s\n", formatDelta(s.LineDelta)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "New files: %d, Removed files: %d, Changed files: %d, Unchanged files: %d\n", s.TotalNew, s.TotalRemoved, s.TotalChanged, s.TotalUnchanged); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// deltaFormatter renders deltas with a sign and arrow. Rising coverage is good news.
func deltaFormatter(cfg *contract.Config) func(float64) string {
	up, down, flat := deltaColors(cfg.UseColors)
	return func(delta float64) string {
		switch {
		case delta > 0:
			return up(fmt.Sprintf("+%.*f ▲", cfg.Precision, delta))
		case delta < 0:
			return down(fmt.Sprintf("%.*f ▼", cfg.Precision, delta))
		default:
			return flat(fmt.Sprintf("%.*f", cfg.Precision, 0.0))
		}
	}
}

// writeCSVResultsForComparison writes metric and file deltas as one CSV table.
func writeCSVResultsForComparison(w io.Writer, result schema.ComparisonResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"kind",
		"key",
		"before_percent",
		"after_percent",
		"delta",
		"before_total",
		"after_total",
		"status",
	}
	writeRow := func(csvWriter *csv.Writer, kind string, d schema.ComparisonDetail) error {
		return csvWriter.Write([]string{
			kind,
			d.Key,
			fmtFloat(d.BeforePercent),
			fmtFloat(d.AfterPercent),
			fmtFloat(d.Delta),
			fmt.Sprintf(intFmt, d.BeforeTotal),
			fmt.Sprintf(intFmt, d.AfterTotal),
			string(d.Status),
		})
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, d := range result.Metrics {
			if err := writeRow(csvWriter, "metric", d); err != nil {
				return err
			}
		}
		for _, d := range result.Files {
			if err := writeRow(csvWriter, "file", d); err != nil {
				return err
			}
		}
		return nil
	})
}
