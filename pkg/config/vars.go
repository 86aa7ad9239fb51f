package config

import (
	"path/filepath"
	"strings"
)

var (
	// AppName is used in generating file system paths.
	AppName = "tsmanager"

	// ReftsFileVersion is written into every assembled REFTS document.
	ReftsFileVersion = "1.0.0"

	// ReftsFileName is the name of the assembled REFTS document within
	// a session workspace.
	ReftsFileName = "timeseries.refts.json"

	// ODM2FileName is the name of the populated ODM2 database within a
	// session workspace.
	ODM2FileName = "timeseries.odm2.sqlite"

	// ODM2MasterName is the name of the master ODM2 template in the
	// assets directory.
	ODM2MasterName = "ODM2_master.sqlite"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/tsmanager by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// WorkspaceDir returns the default directory for per-session
// artifacts. Returns ~/.local/share/tsmanager/workspace by default.
func WorkspaceDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "workspace")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/tsmanager/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/tsmanager/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SchemaFileName returns the XSD asset file name for a WaterML
// version string. Any version containing "1.1" maps to the 1.1
// schema, everything else to 1.0, mirroring live WaterOneFlow
// behavior where the version field is free-form.
func SchemaFileName(version string) string {
	if strings.Contains(version, "1.1") {
		return "wml_1_1_schema.xsd"
	}
	return "wml_1_0_schema.xsd"
}
