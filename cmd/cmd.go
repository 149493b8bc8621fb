// Package cmd defines the command-line interface for thelist.
package cmd

import (
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(diffsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", contract.DefaultInputPath, "Path to the event file (also accepted as the first argument)")
	rootCmd.PersistentFlags().String("input-format", "", "Event file format: csv or json or yaml or lists (inferred from the extension when empty)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent metadata lookups")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Upper bound on a whole run")
	rootCmd.PersistentFlags().String("lookup-timeout", contract.DefaultLookupTimeout.String(), "Upper bound on a single metadata lookup")
	rootCmd.PersistentFlags().Bool("fill-gaps", false, "Emit a carried-forward snapshot for every episode without events")
	rootCmd.PersistentFlags().String("layout", string(schema.StableLayout), "Track assignment strategy: stable or rank")
	rootCmd.PersistentFlags().Bool("offline", false, "Resolve metadata from overrides and cache only")
	rootCmd.PersistentFlags().String("overrides", "", "Path to a JSON or YAML list of metadata overrides keyed by id")
	rootCmd.PersistentFlags().String("client-id", "", "Catalog API client ID")
	rootCmd.PersistentFlags().String("client-secret", "", "Catalog API client secret (prefer THELIST_CLIENT_SECRET)")
	rootCmd.PersistentFlags().String("catalog-url", contract.DefaultCatalogURL, "Catalog API base URL")
	rootCmd.PersistentFlags().String("auth-url", contract.DefaultAuthURL, "Catalog token endpoint")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached metadata stays fresh")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of timelineCmd to Viper
	timelineCmd.Flags().String("item", "", "Identifier of the item to follow")
	if err := viper.BindPFlags(timelineCmd.Flags()); err != nil {
		contract.LogFatal("Error binding timeline flags", err)
	}

	// Bind all flags of diffsCmd to Viper
	diffsCmd.Flags().String("rating", string(schema.TotalRating), "Catalog rating to rank by: user or critic or total")
	if err := viper.BindPFlags(diffsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding diffs flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
