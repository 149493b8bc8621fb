package cmd

import (
	"errors"
	"fmt"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/iocache"
	"github.com/bonuspoints/thelist/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackendFromConfig reads the run tracking backend, treating an empty value as disabled.
func runsBackendFromConfig() (schema.DatabaseBackend, string, error) {
	backend := schema.NoneBackend
	if s := viper.GetString("runs-backend"); s != "" {
		backend = schema.DatabaseBackend(s)
	}
	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run store operations.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	// No metadata caching for runs commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads the configuration for migrations. It does NOT initialize
// stores or create tables, allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for the migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runStore returns the initialized run store or exits when tracking is disabled.
func runStore(action string) contract.RunStore {
	store := iocache.Manager.GetRunStore()
	if store == nil {
		contract.LogFatal(action, errors.New("run tracking is not configured (set --runs-backend)"))
	}
	return store
}

// runsCmd focused on run tracking management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded series exports",
	Long: `Manage the history of series exports.

When --runs-backend is set, every 'thelist series' run is recorded with:
- Run metadata (timestamps, configuration, point count)
- Every exported data point (episode, item, rank, track, lane, display metadata)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run tracking statistics
  export  - Export runs and points to Parquet
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  thelist runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  thelist runs export --runs-backend sqlite --output-file runs`,
}

// runsClearCmd clears the run data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and points",
	Long: `Delete all recorded runs and the points they exported.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  thelist runs export --output-file backup
  thelist runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunsBackend, sqliteFile(cfg.RunsDBConnect, contract.GetRunsDBFilePath()), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about recorded series runs.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Table sizes

Examples:
  thelist runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := runStore("Failed to get run status").GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(status)
	},
}

// runsExportCmd exports run data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and points to Parquet",
	Long: `Export all recorded runs and their points to Parquet.

Exports two datasets named after --output-file:
- <output-file>.runs.parquet - metadata about each series export
- <output-file>.series_points.parquet - every exported data point

Requires: --output-file parameter

Examples:
  thelist runs export --output-file backup
  duckdb -c "SELECT * FROM read_parquet('backup.series_points.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(iocache.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  thelist runs migrate --runs-backend sqlite

  # Rollback to initial state
  thelist runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
