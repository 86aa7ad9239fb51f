package iofs

import (
	_ "embed"
	"io"
	"os"
	"path/filepath"

	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed policy.yaml
var PolicyYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.WorkspaceDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ResetSessionDir removes and recreates the workspace directory of a
// session, so a packaging run always starts from empty.
func ResetSessionDir(workspace, sessionID string) (string, error) {
	dir := filepath.Join(workspace, sessionID)
	if err := os.RemoveAll(dir); err != nil {
		return "", CreateDirError(dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", CreateDirError(dir, err)
	}
	return dir, nil
}

// CopyFile copies src to dst, creating or truncating dst. Used to
// seed the ODM2 output database from the master template.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return ReadFileError(src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return CopyFileError(dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return CopyFileError(dst, err)
	}
	return out.Sync()
}
