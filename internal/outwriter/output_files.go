package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxTableLineRanges caps the uncovered line ranges shown in a table cell.
const maxTableLineRanges = 3

// WriteFileResults outputs the ranked files, dispatching based on the output format configured.
func WriteFileResults(w io.Writer, files []schema.FileResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, schema.EnrichFiles(files)); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForFiles(w, files, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeFileTable(w, files, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeFileTable generates and writes the human-readable table.
func writeFileTable(w io.Writer, files []schema.FileResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Line %", "Covered", "Missed", "Branch %", "Label", "Uncovered"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg, filesTableWidth)
	var data [][]string
	totalMissed := 0
	for i, f := range files {
		totalMissed += f.MissedLines
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, pathWidth),
			fmtPercent(fmtFloat, f.LinePercent, f.HasLines),
			fmt.Sprintf(intFmt, f.CoveredLines),
			fmt.Sprintf(intFmt, f.MissedLines),
			fmtPercent(fmtFloat, f.BranchPercent, f.HasBranches),
			labelFor(cfg, f.LinePercent, f.HasLines),
			formatLineRanges(f.MissedLineList, maxTableLineRanges),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d files (total missed lines: %d)\n", len(files), totalMissed); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// writeCSVResultsForFiles writes the ranked files in CSV format.
func writeCSVResultsForFiles(w io.Writer, files []schema.FileResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"path",
		"package",
		"covered_lines",
		"missed_lines",
		"line_percent",
		"covered_branches",
		"missed_branches",
		"branch_percent",
		"loc",
		"complexity",
		"label",
		"missed_line_numbers",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, f := range schema.EnrichFiles(files) {
			rec := []string{
				strconv.Itoa(f.Rank),
				f.Path,
				f.Package,
				fmt.Sprintf(intFmt, f.CoveredLines),
				fmt.Sprintf(intFmt, f.MissedLines),
				csvPercent(fmtFloat, f.LinePercent, f.HasLines),
				fmt.Sprintf(intFmt, f.CoveredBranch),
				fmt.Sprintf(intFmt, f.MissedBranch),
				csvPercent(fmtFloat, f.BranchPercent, f.HasBranches),
				fmt.Sprintf(intFmt, f.LinesOfCode),
				fmt.Sprintf(intFmt, f.Complexity),
				f.Label,
				formatLineRanges(f.MissedLineList, 0),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// csvPercent leaves the cell empty when nothing was measured.
func csvPercent(fmtFloat func(float64) string, percent float64, ok bool) string {
	if !ok {
		return ""
	}
	return fmtFloat(percent)
}

// formatLineRanges collapses sorted line numbers into ranges such as
// "10,15-17". A positive maxRanges truncates the list with a trailing "...".
func formatLineRanges(lines []int, maxRanges int) string {
	if len(lines) == 0 {
		return ""
	}

	var parts []string
	start, prev := lines[0], lines[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, n := range lines[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()

	if maxRanges > 0 && len(parts) > maxRanges {
		return strings.Join(parts[:maxRanges], ",") + ",..."
	}
	return strings.Join(parts, ",")
}
