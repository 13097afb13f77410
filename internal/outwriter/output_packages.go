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

// WritePackageResults outputs the ranked packages, dispatching based on the output format configured.
func WritePackageResults(w io.Writer, packages []schema.PackageResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, schema.EnrichPackages(packages)); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForPackages(w, packages, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writePackageTable(w, packages, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writePackageTable generates and writes the human-readable table.
func writePackageTable(w io.Writer, packages []schema.PackageResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Package", "Files", "Line %", "Covered", "Missed", "Branch %", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTablePathWidth(cfg, packagesTableWidth)
	var data [][]string
	totalFiles := 0
	for i, p := range packages {
		totalFiles += p.FileCount
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(p.Name, nameWidth),
			fmt.Sprintf(intFmt, p.FileCount),
			fmtPercent(fmtFloat, p.LinePercent, p.HasLines),
			fmt.Sprintf(intFmt, p.CoveredLines),
			fmt.Sprintf(intFmt, p.MissedLines),
			fmtPercent(fmtFloat, p.BranchPercent, p.HasBranches),
			labelFor(cfg, p.LinePercent, p.HasLines),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d packages (total files: %d)\n", len(packages), totalFiles); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// writeCSVResultsForPackages writes the ranked packages in CSV format.
func writeCSVResultsForPackages(w io.Writer, packages []schema.PackageResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"package",
		"files",
		"covered_lines",
		"missed_lines",
		"line_percent",
		"branch_percent",
		"loc",
		"tests",
		"label",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, p := range schema.EnrichPackages(packages) {
			rec := []string{
				strconv.Itoa(p.Rank),
				p.Name,
				fmt.Sprintf(intFmt, p.FileCount),
				fmt.Sprintf(intFmt, p.CoveredLines),
				fmt.Sprintf(intFmt, p.MissedLines),
				csvPercent(fmtFloat, p.LinePercent, p.HasLines),
				csvPercent(fmtFloat, p.BranchPercent, p.HasBranches),
				fmt.Sprintf(intFmt, p.LinesOfCode),
				fmt.Sprintf(intFmt, p.Tests),
				p.Label,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
