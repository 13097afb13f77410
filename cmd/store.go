package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/iostore"
	"github.com/huangsam/covtree/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig reads and validates the store settings only.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := strings.ToLower(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without reading any report.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := storeConfig(); err != nil {
		return err
	}
	return initStore()
}

// storeMigrateSetup loads the store settings without opening the store,
// allowing migrations to run on a fresh database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := storeConfig(); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect == "" {
		cfg.StoreDBConnect = iostore.GetDBFilePath()
	}
	return nil
}

// sqliteFilePath returns the SQLite file of the configured store.
func sqliteFilePath() string {
	if cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return iostore.GetDBFilePath()
}

// storeCmd focused on result history management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by report commands. No report is read.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the result history store and exports",
	Long: `Manage the history of covtree runs used for trend tracking and reporting.

When a store backend is configured, every summary, files, packages and check run stores:
- Run metadata (timestamp, format, report count, configuration, duration)
- The rolled-up value of every metric of every tree node

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  covtree store status --store-backend sqlite

  # Export for analysis in pandas/DuckDB
  covtree store export --store-backend sqlite --output-file covtree-data`,
}

// storeClearCmd clears the stored results.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and node metrics",
	Long: `Delete all stored runs and node metric history.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the result tables

Examples:
  # Export before clearing
  covtree store export --output-file backup
  covtree store clear

  # Clear MySQL history (set connection string via env variable)
  COVTREE_STORE_BACKEND=mysql COVTREE_STORE_DB_CONNECT="..." covtree store clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Clearing must not open the SQLite file it is about to delete
		return storeConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		err := iostore.ClearStore(cfg.StoreBackend, sqliteFilePath(), cfg.StoreDBConnect)
		exitOnError("Failed to clear store", err)
		fmt.Println("Result store cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the result history store.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total reports read across all runs
- Database table sizes

Examples:
  covtree store status --store-backend sqlite`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetResultStore().GetStatus()
		exitOnError("Failed to get store status", err)
		iostore.PrintStoreStatus(os.Stdout, status)
	},
}

// storeExportCmd exports stored data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Exports two datasets:
- <output-file>.runs.parquet - metadata about each run
- <output-file>.node_metrics.parquet - rolled-up metric values per tree node

Requires: --output-file parameter

Examples:
  # Export all data
  covtree store export --store-backend sqlite --output-file covtree-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('covtree-data.runs.parquet') LIMIT 10"`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		exitOnError("Failed to export store data", iostore.ExecuteExport(os.Stdout, cfg.OutputFile))
	},
}

// storeMigrateCmd runs database migrations for the result store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the result store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  covtree store migrate --store-backend sqlite

  # Migrate to specific version
  covtree store migrate --store-backend sqlite --target-version 1

  # Rollback everything
  covtree store migrate --store-backend sqlite --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		exitOnError("Failed to run migrations", iostore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion))
	},
}
