// Package config provides configuration management for the time
// series manager.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use TSM_ prefix with underscores for nesting:
//
//	TSM_CATALOG_HOST=localhost
//	TSM_CATALOG_PORT=5432
//	TSM_FETCH_TIMEOUT=120
//	TSM_LOG_LEVEL=info
package config

// Config represents the complete time series manager configuration.
type Config struct {
	// Catalog contains PostgreSQL connection settings for the
	// time series catalog store.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// Fetch contains settings for outbound WaterOneFlow requests.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Assets contains locations of deployment assets: WaterML XSD
	// schemas, the ODM2 master template, and the validation policy.
	Assets AssetsConfig `mapstructure:"assets" yaml:"assets"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, workspace and logs directories
	// reside. It must be set by CLI during init, there is no default
	// value for it.
	HomeDir string
}

// CatalogConfig contains PostgreSQL connection parameters for the
// catalog store.
type CatalogConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// FetchConfig contains settings for the concurrent WaterOneFlow
// fetcher.
type FetchConfig struct {
	// Timeout is the per-request timeout in seconds. WaterOneFlow
	// endpoints are third-party services and can hang; a timed out
	// request degrades to an empty payload for that item.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// MaxConnsPerHost bounds the connection pool of the shared HTTP
	// client. Batches are human-scale (tens to low hundreds), so the
	// pool limit is the only concurrency cap needed.
	MaxConnsPerHost int `mapstructure:"max_conns_per_host" yaml:"max_conns_per_host"`

	// CacheBase is the WaterOneFlow archive cache endpoint used for
	// references that carry a cache URI.
	CacheBase string `mapstructure:"cache_base" yaml:"cache_base"`
}

// AssetsConfig contains locations of deployment assets.
type AssetsConfig struct {
	// Dir is the directory holding wml_1_0_schema.xsd,
	// wml_1_1_schema.xsd and ODM2_master.sqlite.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Workspace is the directory where per-session artifacts
	// (timeseries.refts.json, timeseries.odm2.sqlite) are written.
	Workspace string `mapstructure:"workspace" yaml:"workspace"`

	// PolicyFile overrides the embedded tolerated-validation policy.
	// Empty means use the embedded default.
	PolicyFile string `mapstructure:"policy_file" yaml:"policy_file"`

	// BatchSize defines the number of observation values inserted per
	// batch during the ODM2 load.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Catalog: CatalogConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "tsmanager",
			SSLMode:  "disable",
		},
		Fetch: FetchConfig{
			Timeout:         120,
			MaxConnsPerHost: 10,
			CacheBase:       "https://qa-hiswebclient.azurewebsites.net/CUAHSI/HydroClient/WaterOneFlowArchive",
		},
		Assets: AssetsConfig{
			BatchSize: 10_000,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
	}

	return res
}
