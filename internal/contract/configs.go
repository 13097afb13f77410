package contract

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/covtree/core/coverage"
	"github.com/huangsam/covtree/core/parser"
	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit   = 25
	MaxResultLimit       = 1000
	DefaultPrecision     = 1
	DefaultLineThreshold = 80.0
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultExcludes are always applied before user excludes.
var DefaultExcludes = []string{"vendor/", "node_modules/", ".pb.go"}

// ErrNoReports is returned when no report paths were given.
var ErrNoReports = errors.New("at least one report path is required")

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	ReportPaths []string
	Format      registry.Format
	Mode        parser.ProcessingMode
	PathFilter  string
	ResultLimit int
	Workers     int
	Excludes    []string
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	BasePaths []string // Reports of the base side in compare

	// Thresholds is a mapping of [Metric] = minimum percentage
	Thresholds map[coverage.Metric]float64

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ReportPaths []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Format         string `mapstructure:"format"`
	IgnoreErrors   bool   `mapstructure:"ignore-errors"`
	Filter         string `mapstructure:"filter"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Exclude        string `mapstructure:"exclude"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Fields from compareCmd.Flags() ---
	Base string `mapstructure:"base"`

	// --- Fields from checkCmd.Flags() ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Thresholds from config file ---
	Thresholds map[string]float64 `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ReportPaths = slices.Clone(c.ReportPaths)
	clone.BasePaths = slices.Clone(c.BasePaths)
	clone.Excludes = slices.Clone(c.Excludes)
	if c.Thresholds != nil {
		clone.Thresholds = make(map[coverage.Metric]float64, len(c.Thresholds))
		maps.Copy(clone.Thresholds, c.Thresholds)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessSettings(cfg, input); err != nil {
		return err
	}
	return resolveReportPaths(cfg, input)
}

// ProcessSettings validates everything except the report paths. Commands
// that receive their reports later, like the MCP server, use it directly.
func ProcessSettings(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFormat(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return processThresholds(cfg, input)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return fmt.Errorf("profile prefix %q must name a file, not a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}

// ApplyReportOverrides replaces the report sets and the format of an already
// validated config. An empty format keeps the current one.
func ApplyReportOverrides(cfg *Config, paths, base, format string) error {
	input := &ConfigRawInput{
		ReportPaths:  splitList(paths),
		Base:         base,
		Format:       format,
		IgnoreErrors: cfg.Mode == parser.IgnoreErrors,
	}
	if format != "" {
		if err := processFormat(cfg, input); err != nil {
			return err
		}
	}
	cfg.BasePaths = nil
	return resolveReportPaths(cfg, input)
}

// ApplyThresholdOverrides replaces the thresholds of an already validated
// config. An empty string keeps the current ones.
func ApplyThresholdOverrides(cfg *Config, thresholdsStr string) error {
	if strings.TrimSpace(thresholdsStr) == "" {
		return nil
	}
	return processThresholds(cfg, &ConfigRawInput{ThresholdsStr: thresholdsStr})
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.PathFilter = strings.TrimPrefix(input.Filter, "./")
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Excludes = slices.Clone(DefaultExcludes)
	cfg.Excludes = append(cfg.Excludes, splitList(input.Exclude)...)

	return nil
}

// processFormat resolves the report format and the processing mode.
func processFormat(cfg *Config, input *ConfigRawInput) error {
	name := input.Format
	if name == "" {
		name = string(registry.Go)
	}
	format, err := registry.ParseFormat(name)
	if err != nil {
		return fmt.Errorf("invalid --format: %w", err)
	}
	cfg.Format = format

	cfg.Mode = parser.FailFast
	if input.IgnoreErrors {
		cfg.Mode = parser.IgnoreErrors
	}
	return nil
}

// validateBackendConfig validates the result store configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.StoreBackend
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processThresholds merges thresholds from the config file with the
// command-line override. LINE at DefaultLineThreshold applies when nothing is set.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := make(map[coverage.Metric]float64)

	for name, value := range input.Thresholds {
		metric, err := parseThresholdMetric(name)
		if err != nil {
			return err
		}
		thresholds[metric] = value
	}

	overrides, err := ParseThresholdsString(input.ThresholdsStr)
	if err != nil {
		return fmt.Errorf("invalid --thresholds-override: %w", err)
	}
	maps.Copy(thresholds, overrides)

	for metric, threshold := range thresholds {
		if threshold < 0.0 || threshold > 100.0 {
			return fmt.Errorf("threshold for metric %s must be between 0.0 and 100.0 (received %.2f)", metric, threshold)
		}
	}

	if len(thresholds) == 0 {
		thresholds[coverage.Line] = DefaultLineThreshold
	}
	cfg.Thresholds = thresholds
	return nil
}

// resolveReportPaths checks that every report and base report exists.
func resolveReportPaths(cfg *Config, input *ConfigRawInput) error {
	if len(input.ReportPaths) == 0 {
		return ErrNoReports
	}
	paths, err := checkReportPaths(input.ReportPaths)
	if err != nil {
		return err
	}
	cfg.ReportPaths = paths

	if input.Base != "" {
		base, err := checkReportPaths(splitList(input.Base))
		if err != nil {
			return fmt.Errorf("invalid --base: %w", err)
		}
		cfg.BasePaths = base
	}
	return nil
}

func checkReportPaths(paths []string) ([]string, error) {
	checked := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("report %s is a directory", p)
		}
		checked = append(checked, p)
	}
	return checked, nil
}

// ParseThresholdsString parses a string like "line:80,branch:60"
// into a map of Metric to float64.
func ParseThresholdsString(s string) (map[coverage.Metric]float64, error) {
	thresholds := make(map[coverage.Metric]float64)

	for _, part := range splitList(s) {
		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid threshold format '%s', expected 'metric:value'", part)
		}

		metric, err := parseThresholdMetric(keyValue[0])
		if err != nil {
			return nil, err
		}

		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold value '%s' for metric %s: %w", valueStr, metric, err)
		}

		thresholds[metric] = value
	}

	return thresholds, nil
}

// parseThresholdMetric only accepts coverage metrics, which have percentages.
func parseThresholdMetric(name string) (coverage.Metric, error) {
	metric, err := coverage.ParseMetric(name)
	if err != nil {
		return 0, err
	}
	if !metric.IsCoverage() {
		return 0, fmt.Errorf("metric %s has no percentage and cannot take a threshold", metric)
	}
	return metric, nil
}

// splitList splits a comma list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
