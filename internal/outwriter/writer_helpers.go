package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/parquet"
	"github.com/huangsam/covtree/schema"
)

var errParquetFormats = errors.New("parquet output is not supported for the formats listing")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquetFile writes rows to outputFile, which config validation
// guarantees to be set for parquet output.
func writeParquetFile[T any](rows []T, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	if err := parquet.Write(rows, outputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	default:
		return "Wrote table"
	}
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// fmtPercent renders a percentage cell, or "-" when nothing was measured.
func fmtPercent(fmtFloat func(float64) string, percent float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmtFloat(percent)
}

// labelFor returns the colored label in tables when colors are enabled.
func labelFor(cfg *contract.Config, percent float64, measured bool) string {
	if cfg.UseColors {
		return contract.GetColorLabel(percent, measured)
	}
	return schema.LabelFor(percent, measured)
}

// deltaColors returns the colorizers for improving, regressing and flat deltas.
func deltaColors(useColors bool) (up, down, flat func(...any) string) {
	if !useColors {
		return fmt.Sprint, fmt.Sprint, fmt.Sprint
	}
	return color.New(color.FgGreen).SprintFunc(),
		color.New(color.FgRed).SprintFunc(),
		color.New(color.FgYellow).SprintFunc()
}

// writeFooter prints the timing line shared by every table.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, storeBackendName(cfg))
	return err
}

func storeBackendName(cfg *contract.Config) schema.DatabaseBackend {
	if cfg.StoreBackend == "" {
		return schema.NoneBackend
	}
	return cfg.StoreBackend
}
