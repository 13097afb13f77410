// Package main provides a performance benchmarking tool for the covtree CLI.
// It generates Go coverprofiles of increasing size, measures execution times
// across command types, running each test multiple times, treating the first
// successful run as cold and averaging the rest as warm, and writes CSV output
// for performance analysis and documentation.
//
// Prerequisites:
// - covtree binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated reports and the SQLite store
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoStoreRuns int
	StoreRuns   int
	Datasets    []Dataset
}

// Dataset describes a generated report set.
type Dataset struct {
	Name     string
	Reports  int // number of coverprofiles
	Packages int // packages per profile
	Files    int // files per package
	Blocks   int // blocks per file
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Datasets: []Dataset{
			{Name: "small", Reports: 1, Packages: 10, Files: 10, Blocks: 20},
			{Name: "medium", Reports: 4, Packages: 50, Files: 20, Blocks: 40},
			{Name: "large", Reports: 8, Packages: 200, Files: 25, Blocks: 60},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	dbPath := filepath.Join(config.WorkDir, "covtree_bench.db")
	_ = os.Remove(dbPath)

	results := runBenchmarks(config, dbPath)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the covtree binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("covtree"); err != nil {
		return fmt.Errorf("covtree binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDataset writes the base and target profiles of a dataset and
// returns their paths. Target profiles cover every third block more.
func generateDataset(workDir string, ds Dataset) (base, target []string, err error) {
	dir := filepath.Join(workDir, ds.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	for r := range ds.Reports {
		basePath := filepath.Join(dir, fmt.Sprintf("base_%d.out", r))
		targetPath := filepath.Join(dir, fmt.Sprintf("target_%d.out", r))
		if err := writeProfile(basePath, ds, r, 0); err != nil {
			return nil, nil, err
		}
		if err := writeProfile(targetPath, ds, r, 3); err != nil {
			return nil, nil, err
		}
		base = append(base, basePath)
		target = append(target, targetPath)
	}
	return base, target, nil
}

// writeProfile writes one coverprofile. Report r owns its own packages so
// merged reports stay disjoint.
func writeProfile(path string, ds Dataset, r, boost int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "mode: set"); err != nil {
		return err
	}
	for p := range ds.Packages {
		for fi := range ds.Files {
			name := fmt.Sprintf("github.com/bench/project/r%d/pkg%d/file%d.go", r, p, fi)
			for b := range ds.Blocks {
				line := 10 + b*5
				count := 0
				if (b+p+fi)%2 == 0 || (boost > 0 && b%boost == 0) {
					count = 1
				}
				if _, err := fmt.Fprintf(w, "%s:%d.1,%d.2 %d %d\n", name, line, line+3, 3, count); err != nil {
					return err
				}
			}
		}
	}
	return w.Flush()
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig, dbPath string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, no-store: %d runs, store: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.NoStoreRuns, config.StoreRuns)

	for _, ds := range config.Datasets {
		fmt.Printf("Generating %s dataset\n", ds.Name)
		base, target, err := generateDataset(config.WorkDir, ds)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", ds.Name, err)
			continue
		}

		for _, command := range []string{"summary", "files", "packages"} {
			results = append(results, runBenchmarkSuite(config, dbPath, ds.Name, command, target))
		}

		compareArgs := append([]string{"--base", strings.Join(base, ",")}, target...)
		results = append(results, runBenchmarkSuite(config, dbPath, ds.Name, "compare", compareArgs))
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dbPath, dataset, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dbPath, command, extraArgs, storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: SQLite store runs
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a covtree command multiple times with the specified store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dbPath, command string, extraArgs []string, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, "--store-backend", storeBackend, "--workers", fmt.Sprint(config.Workers), "--emoji", "no"}
	if storeBackend == "sqlite" {
		args = append(args, "--store-db-connect", dbPath)
	}
	args = append(args, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("covtree", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("covtree_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "summary", "Summary:")
	printCommandSummary(results, "files", "Files:")
	printCommandSummary(results, "packages", "Packages:")
	printCommandSummary(results, "compare", "Compare:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-store: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
