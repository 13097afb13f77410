// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/parquet"
	"github.com/huangsam/covtree/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints the per-metric summary using the configured output format.
func (ow *OutWriter) WriteSummary(result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(parquet.ConvertMetricSummaries(result.Metrics), cfg.OutputFile)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummaryResult(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteFiles prints ranked file results using the configured output format.
func (ow *OutWriter) WriteFiles(results []schema.FileResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(parquet.ConvertFileResults(schema.EnrichFiles(results)), cfg.OutputFile)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteFileResults(w, results, cfg, duration)
	}, successMessage(cfg.Output))
}

// WritePackages prints ranked package results using the configured output format.
func (ow *OutWriter) WritePackages(results []schema.PackageResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(parquet.ConvertPackageResults(schema.EnrichPackages(results)), cfg.OutputFile)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WritePackageResults(w, results, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteComparison prints comparison results using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(parquet.ConvertComparison(result), cfg.OutputFile)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteCheck prints the threshold evaluations of a check using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(parquet.ConvertEvaluations(result.Evaluations), cfg.OutputFile)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCheckResult(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteFormats prints the supported report formats using the configured output format.
func (ow *OutWriter) WriteFormats(descs []registry.Descriptor, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetFormats
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteFormatDescriptors(w, descs, cfg)
	}, successMessage(cfg.Output))
}
