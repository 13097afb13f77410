package contract

import (
	"fmt"
	"strings"

	"github.com/huangsam/covtree/schema"
)

// machineOutput is true when stdout carries csv, json or parquet data,
// which headers would corrupt.
func machineOutput(cfg *Config) bool {
	return cfg.Output != "" && cfg.Output != schema.TextOut
}

// LogReportHeader prints a concise, 2-line header for a run over a report set.
func LogReportHeader(cfg *Config) {
	if machineOutput(cfg) {
		return
	}
	if cfg.UseEmojis {
		fmt.Printf("📄 Reports: %d (format: %s)\n", len(cfg.ReportPaths), cfg.Format)
		fmt.Printf("⚙️  Mode: %s (workers: %d)\n", cfg.Mode, cfg.Workers)
		return
	}
	fmt.Printf("Reports: %d (format: %s)\n", len(cfg.ReportPaths), cfg.Format)
	fmt.Printf("Mode: %s (workers: %d)\n", cfg.Mode, cfg.Workers)
}

// LogCompareHeader prints a header for a comparison between two report sets.
func LogCompareHeader(cfg *Config) {
	if machineOutput(cfg) {
		return
	}
	base := strings.Join(cfg.BasePaths, ",")
	target := strings.Join(cfg.ReportPaths, ",")
	if cfg.UseEmojis {
		fmt.Printf("📄 Format: %s\n", cfg.Format)
		fmt.Printf("📊 Comparing: %s ↔ %s\n", base, target)
		return
	}
	fmt.Printf("Format: %s\n", cfg.Format)
	fmt.Printf("Comparing: %s <-> %s\n", base, target)
}
