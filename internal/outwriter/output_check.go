package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
)

// WriteCheckResult outputs the threshold evaluations, dispatching based on the output format configured.
func WriteCheckResult(w io.Writer, result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForCheck(w, result, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeCheckText(w, result, cfg, fmtFloat, duration)
	}
	return nil
}

// writeCheckText prints the check result in a concise format suitable for CI/CD.
func writeCheckText(w io.Writer, result schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, "Policy Check Results:"); err != nil {
		return err
	}

	// Pad metric names to the longest one
	maxNameLen := 0
	for _, e := range result.Evaluations {
		maxNameLen = max(maxNameLen, len(e.Metric))
	}

	for _, e := range result.Evaluations {
		actual := "no data"
		if e.Measured {
			actual = fmt.Sprintf("%s%% (%d/%d)", fmtFloat(e.Percent), e.Covered, e.Total)
		}
		if _, err := fmt.Fprintf(w, "  %-*s %-4s %s (threshold %s%%)\n",
			maxNameLen+1, e.Metric+":", checkMark(e.Passed), actual, fmtFloat(e.Threshold)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nChecked %d report(s) in %v\n", result.ReportCount, duration); err != nil {
		return err
	}

	violations := len(result.Violations())
	var summary string
	switch {
	case violations == 0 && cfg.UseEmojis:
		summary = "✅ All thresholds passed"
	case violations == 0:
		summary = "All thresholds passed"
	case cfg.UseEmojis:
		summary = fmt.Sprintf("❌ Coverage check failed: %d violation(s)", violations)
	default:
		summary = fmt.Sprintf("Coverage check failed: %d violation(s)", violations)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

func checkMark(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

// writeCSVResultsForCheck writes one CSV row per evaluated threshold.
func writeCSVResultsForCheck(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"metric", "threshold", "percent", "covered", "total", "measured", "passed"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, e := range result.Evaluations {
			percent := ""
			if e.Measured {
				percent = fmtFloat(e.Percent)
			}
			rec := []string{
				e.Metric,
				fmtFloat(e.Threshold),
				percent,
				fmt.Sprintf(intFmt, e.Covered),
				fmt.Sprintf(intFmt, e.Total),
				strconv.FormatBool(e.Measured),
				strconv.FormatBool(e.Passed),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
