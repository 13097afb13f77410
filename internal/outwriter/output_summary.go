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

// WriteSummaryResult writes the summary, dispatching based on the output format configured.
func WriteSummaryResult(w io.Writer, result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForSummary(w, result, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeSummaryTable(w, result, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeSummaryTable writes one row per metric. Scalar metrics only fill the Total column.
func writeSummaryTable(w io.Writer, result schema.SummaryResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Covered", "Missed", "Total", "Percent", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range result.Metrics {
		if !m.IsRatio {
			data = append(data, []string{m.Metric, "-", "-", fmt.Sprintf(intFmt, m.Amount), "-", ""})
			continue
		}
		data = append(data, []string{
			m.Metric,
			fmt.Sprintf(intFmt, m.Covered),
			fmt.Sprintf(intFmt, m.Missed),
			fmt.Sprintf(intFmt, m.Total),
			fmtPercent(fmtFloat, m.Percent, m.HasPercent),
			labelFor(cfg, m.Percent, m.HasPercent),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Merged %d report(s) into %s (%d files)\n", result.ReportCount, result.Root, result.FileCount); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// writeCSVResultsForSummary writes one CSV row per metric.
func writeCSVResultsForSummary(w io.Writer, result schema.SummaryResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"metric", "covered", "missed", "total", "amount", "percent", "label"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, m := range result.Metrics {
			percent := ""
			if m.HasPercent {
				percent = fmtFloat(m.Percent)
			}
			row := []string{
				m.Metric,
				fmt.Sprintf(intFmt, m.Covered),
				fmt.Sprintf(intFmt, m.Missed),
				fmt.Sprintf(intFmt, m.Total),
				strconv.Itoa(m.Amount),
				percent,
				schema.LabelFor(m.Percent, m.HasPercent),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
