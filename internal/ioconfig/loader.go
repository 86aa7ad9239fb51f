// Package ioconfig provides I/O operations for loading configuration from
// files and flags. This is an impure package that handles file system and
// flag operations.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about the source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // Path to config file used, or empty if using defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file and returns a validated Config
// with source info. If configPath is empty, it searches the default
// location (~/.config/tsmanager/config.yaml).
//
// Returns error if file is malformed.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	// Precedence: flags > env vars > config file > defaults
	v.SetEnvPrefix("TSM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults BEFORE reading config - this allows env vars to work
	// with AutomaticEnv() even when no config file exists.
	defaults := config.New()
	v.SetDefault("catalog.host", defaults.Catalog.Host)
	v.SetDefault("catalog.port", defaults.Catalog.Port)
	v.SetDefault("catalog.user", defaults.Catalog.User)
	v.SetDefault("catalog.password", defaults.Catalog.Password)
	v.SetDefault("catalog.database", defaults.Catalog.Database)
	v.SetDefault("catalog.ssl_mode", defaults.Catalog.SSLMode)
	v.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	v.SetDefault("fetch.max_conns_per_host", defaults.Fetch.MaxConnsPerHost)
	v.SetDefault("fetch.cache_base", defaults.Fetch.CacheBase)
	v.SetDefault("assets.dir", defaults.Assets.Dir)
	v.SetDefault("assets.workspace", defaults.Assets.Workspace)
	v.SetDefault("assets.policy_file", defaults.Assets.PolicyFile)
	v.SetDefault("assets.batch_size", defaults.Assets.BatchSize)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.destination", defaults.Log.Destination)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			defaultPath := config.ConfigFilePath(homeDir)
			if _, statErr := os.Stat(defaultPath); statErr == nil {
				v.SetConfigFile(defaultPath)
			}
		}
	}

	configFileRead := false
	usedConfigPath := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Round the loaded values through Option validation so malformed
	// entries are rejected with warnings instead of poisoning the run.
	validated := config.New()
	validated.Update(cfg.ToOptions())

	res := &LoadResult{Config: validated}
	switch {
	case configFileRead:
		res.Source = "file"
		res.SourcePath = usedConfigPath
	case hasEnvOverrides():
		res.Source = "defaults+env"
	default:
		res.Source = "defaults"
	}
	return res, nil
}

// hasEnvOverrides reports whether any TSM_ environment variable is set.
func hasEnvOverrides() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "TSM_") {
			return true
		}
	}
	return false
}
