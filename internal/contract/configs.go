package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bonuspoints/thelist/schema"
)

// Default values for configuration.
const (
	DefaultInputPath     = "thelist.csv"
	DefaultResultLimit   = 10
	MaxResultLimit       = 1000
	DefaultPrecision     = 1
	DefaultTimeout       = 2 * time.Minute
	DefaultLookupTimeout = 10 * time.Second
	DefaultCacheTTL      = 7 * 24 * time.Hour
	DefaultCatalogURL    = "https://api.igdb.com/v4"
	DefaultAuthURL       = "https://id.twitch.tv/oauth2/token"
)

// DefaultWorkers is the default number of concurrent metadata lookups.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateFormat is the date representation used in tables and input files.
var DateFormat = time.DateOnly

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	InputFormat schema.InputFormat
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Timeout       time.Duration // Overall run bound
	LookupTimeout time.Duration // Bound on a single metadata lookup

	FillGaps bool
	Layout   schema.LayoutStrategy
	Item     string
	Rating   schema.RatingKind

	Offline       bool // Skip the catalog API; overrides and cache only
	OverridesPath string
	ClientID      string
	ClientSecret  string // Please use env var as this is plaintext
	CatalogURL    string
	AuthURL       string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored movement labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	InputFormat    string `mapstructure:"input-format"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Timeout        string `mapstructure:"timeout"`
	LookupTimeout  string `mapstructure:"lookup-timeout"`
	FillGaps       bool   `mapstructure:"fill-gaps"`
	Layout         string `mapstructure:"layout"`
	Offline        bool   `mapstructure:"offline"`
	Overrides      string `mapstructure:"overrides"`
	ClientID       string `mapstructure:"client-id"`
	ClientSecret   string `mapstructure:"client-secret"`
	CatalogURL     string `mapstructure:"catalog-url"`
	AuthURL        string `mapstructure:"auth-url"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Fields from timelineCmd.Flags() ---
	Item string `mapstructure:"item"`

	// --- Fields from diffsCmd.Flags() ---
	Rating string `mapstructure:"rating"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// HasCredentials reports whether catalog credentials were supplied.
func (c *Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processCatalog(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveInput(cfg, input); err != nil {
		return err
	}
	return nil
}

// RevalidateInput re-resolves the input file of a copied config, as MCP tool
// arguments may point at a different file than the server was started with.
// Empty arguments keep the current values.
func RevalidateInput(cfg *Config, path, format string) error {
	if path == "" && format == "" {
		return nil
	}
	input := &ConfigRawInput{InputPathStr: path, InputFormat: format}
	if path == "" {
		input.InputPathStr = cfg.InputPath
	}
	return resolveInput(cfg, input)
}

// RevalidateLayout sets the layout strategy of a copied config. An empty value keeps the current one.
func RevalidateLayout(cfg *Config, layout string) error {
	if layout == "" {
		return nil
	}
	strategy := schema.LayoutStrategy(strings.ToLower(layout))
	if _, ok := schema.ValidLayoutStrategies[strategy]; !ok {
		return fmt.Errorf("invalid layout '%s'. must be stable, rank", layout)
	}
	cfg.Layout = strategy
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
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

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.FillGaps = input.FillGaps
	cfg.Item = strings.TrimSpace(input.Item)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Layout and Rating Validation ---
	cfg.Layout = schema.LayoutStrategy(strings.ToLower(input.Layout))
	if cfg.Layout == "" {
		cfg.Layout = schema.StableLayout
	}
	if _, ok := schema.ValidLayoutStrategies[cfg.Layout]; !ok {
		return fmt.Errorf("invalid layout '%s'. must be stable, rank", input.Layout)
	}

	cfg.Rating = schema.RatingKind(strings.ToLower(input.Rating))
	if cfg.Rating == "" {
		cfg.Rating = schema.TotalRating
	}
	if _, ok := schema.ValidRatingKinds[cfg.Rating]; !ok {
		return fmt.Errorf("invalid rating '%s'. must be user, critic, total", input.Rating)
	}

	return nil
}

// processDurations parses the timeout and TTL strings.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	parse := func(name, value string, fallback time.Duration) (time.Duration, error) {
		if value == "" {
			return fallback, nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s '%s': %w", name, value, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%s must be positive (received %s)", name, value)
		}
		return d, nil
	}

	var err error
	if cfg.Timeout, err = parse("timeout", input.Timeout, DefaultTimeout); err != nil {
		return err
	}
	if cfg.LookupTimeout, err = parse("lookup-timeout", input.LookupTimeout, DefaultLookupTimeout); err != nil {
		return err
	}
	if cfg.CacheTTL, err = parse("cache-ttl", input.CacheTTL, DefaultCacheTTL); err != nil {
		return err
	}
	if cfg.LookupTimeout > cfg.Timeout {
		return fmt.Errorf("lookup-timeout (%s) cannot exceed timeout (%s)", cfg.LookupTimeout, cfg.Timeout)
	}
	return nil
}

// processCatalog handles credentials and endpoints for the metadata catalog.
// Without credentials the run is forced offline.
func processCatalog(cfg *Config, input *ConfigRawInput) error {
	cfg.ClientID = strings.TrimSpace(input.ClientID)
	cfg.ClientSecret = strings.TrimSpace(input.ClientSecret)
	cfg.Offline = input.Offline || !cfg.HasCredentials()

	cfg.CatalogURL = strings.TrimRight(input.CatalogURL, "/")
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = DefaultCatalogURL
	}
	cfg.AuthURL = input.AuthURL
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}

	cfg.OverridesPath = input.Overrides
	if cfg.OverridesPath != "" {
		if _, err := os.Stat(cfg.OverridesPath); err != nil {
			return fmt.Errorf("overrides file %q is not readable: %w", cfg.OverridesPath, err)
		}
	}
	return nil
}

// validateBackendConfigs validates cache and runs backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Runs Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		runsPath := cfg.RunsDBConnect
		if runsPath == "" {
			runsPath = GetRunsDBFilePath()
		}
		if cachePath == runsPath {
			return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// resolveInput checks the input file and settles its format.
func resolveInput(cfg *Config, input *ConfigRawInput) error {
	path := input.InputPathStr
	if path == "" {
		path = DefaultInputPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("input %q is not readable: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %q is a directory, expected an event file", path)
	}
	cfg.InputPath = abs

	format := schema.InputFormat(strings.ToLower(input.InputFormat))
	if format == "" {
		format = InferInputFormat(abs)
	}
	if _, ok := schema.ValidInputFormats[format]; !ok {
		return fmt.Errorf("cannot determine input format for %q. set --input-format to csv, json, yaml, lists", path)
	}
	cfg.InputFormat = format
	return nil
}

// InferInputFormat maps a file extension to an input format. It returns "" when unknown.
func InferInputFormat(path string) schema.InputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return schema.CSVInput
	case ".json":
		return schema.JSONInput
	case ".yaml", ".yml":
		return schema.YAMLInput
	default:
		return ""
	}
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
