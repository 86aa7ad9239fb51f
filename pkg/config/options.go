package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptCatalogHost sets the PostgreSQL server hostname or IP address.
func OptCatalogHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Host", s) {
			c.Catalog.Host = s
		}
	}
}

// OptCatalogPort sets the PostgreSQL server port number.
func OptCatalogPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Catalog Port", i) {
			c.Catalog.Port = i
		}
	}
}

// OptCatalogUser sets the PostgreSQL database username.
func OptCatalogUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog User", s) {
			c.Catalog.User = s
		}
	}
}

// OptCatalogPassword sets the PostgreSQL database password.
func OptCatalogPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Password", s) {
			c.Catalog.Password = s
		}
	}
}

// OptCatalogDatabase sets the PostgreSQL database name to connect to.
func OptCatalogDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalog Database", s) {
			c.Catalog.Database = s
		}
	}
}

// OptCatalogSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptCatalogSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Catalog.SSLMode", s) {
			c.Catalog.SSLMode = s
		}
	}
}

// OptFetchTimeout sets the per-request timeout in seconds for
// outbound WaterOneFlow requests.
func OptFetchTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Timeout", i) {
			c.Fetch.Timeout = i
		}
	}
}

// OptFetchMaxConnsPerHost sets the connection pool bound of the
// shared HTTP client.
func OptFetchMaxConnsPerHost(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch MaxConnsPerHost", i) {
			c.Fetch.MaxConnsPerHost = i
		}
	}
}

// OptFetchCacheBase sets the WaterOneFlow archive cache endpoint.
func OptFetchCacheBase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fetch CacheBase", s) {
			c.Fetch.CacheBase = s
		}
	}
}

// OptAssetsDir sets the directory holding WaterML XSD schemas and the
// ODM2 master template.
func OptAssetsDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Assets Dir", s) {
			c.Assets.Dir = s
		}
	}
}

// OptAssetsWorkspace sets the directory for per-session artifacts.
func OptAssetsWorkspace(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Assets Workspace", s) {
			c.Assets.Workspace = s
		}
	}
}

// OptAssetsPolicyFile sets the tolerated-validation policy file.
// Runtime override of the embedded default policy.
func OptAssetsPolicyFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Assets PolicyFile", s) {
			c.Assets.PolicyFile = s
		}
	}
}

// OptAssetsBatchSize sets the number of observation values inserted
// per batch during the ODM2 load.
func OptAssetsBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Assets.BatchSize = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, workspace, and log
// locations. Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
