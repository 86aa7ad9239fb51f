package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, PolicyFile).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Catalog.Host
	if s != "" {
		res = append(res, OptCatalogHost(s))
	}
	i = c.Catalog.Port
	if i > 0 {
		res = append(res, OptCatalogPort(i))
	}
	s = c.Catalog.User
	if s != "" {
		res = append(res, OptCatalogUser(s))
	}
	s = c.Catalog.Password
	if s != "" {
		res = append(res, OptCatalogPassword(s))
	}
	s = c.Catalog.Database
	if s != "" {
		res = append(res, OptCatalogDatabase(s))
	}
	s = c.Catalog.SSLMode
	if s != "" {
		res = append(res, OptCatalogSSLMode(s))
	}

	i = c.Fetch.Timeout
	if i > 0 {
		res = append(res, OptFetchTimeout(i))
	}
	i = c.Fetch.MaxConnsPerHost
	if i > 0 {
		res = append(res, OptFetchMaxConnsPerHost(i))
	}
	s = c.Fetch.CacheBase
	if s != "" {
		res = append(res, OptFetchCacheBase(s))
	}

	s = c.Assets.Dir
	if s != "" {
		res = append(res, OptAssetsDir(s))
	}
	s = c.Assets.Workspace
	if s != "" {
		res = append(res, OptAssetsWorkspace(s))
	}
	i = c.Assets.BatchSize
	if i > 0 {
		res = append(res, OptAssetsBatchSize(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Catalog.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			[]string{name, val, strings.Join(lines, "\n")},
		)
		return false
	}
}
