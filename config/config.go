// Package config resolves the per-user state directory and manages the list
// of root directories the crawler scans.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/lexandro/projectindex-mcp/jsonfile"
)

// EnvConfigPath overrides the state directory when set.
const EnvConfigPath = "LP_CONFIG_PATH"

// File names inside the state directory.
const (
	ConfigFileName      = "lp.config.json"
	IndexFileName       = "index.json"
	SearchIndexFileName = "search-index.json"
)

// ErrPathExists is returned by AddDir for a directory already configured.
var ErrPathExists = errors.New("directory already configured")

// Config is the persisted list of scan roots.
type Config struct {
	ProjectDirs []string `json:"project_dirs"`

	path string
}

// Dir returns the state directory: $LP_CONFIG_PATH when set, otherwise
// .lp_config under the user config directory (home directory as fallback).
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigPath); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving config directory: %w", err)
		}
	}
	return filepath.Join(base, ".lp_config"), nil
}

// EnsureDir creates dir if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load reads lp.config.json from dir. A missing file yields an empty config.
func Load(dir string) (*Config, error) {
	cfg := &Config{path: filepath.Join(dir, ConfigFileName)}
	if err := jsonfile.Read(cfg.path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.ProjectDirs = []string{}
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.ProjectDirs == nil {
		cfg.ProjectDirs = []string{}
	}
	return cfg, nil
}

// Path returns the file the config saves to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config atomically.
func (c *Config) Save() error {
	if err := jsonfile.Write(c.path, c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// AddDir appends dir (made absolute) to the scan roots.
func (c *Config) AddDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory %s: %w", dir, err)
	}
	if slices.Contains(c.ProjectDirs, absDir) {
		return absDir, fmt.Errorf("%w: %s", ErrPathExists, absDir)
	}
	c.ProjectDirs = append(c.ProjectDirs, absDir)
	return absDir, nil
}

// RemoveDir drops dir from the scan roots and reports whether it was present.
func (c *Config) RemoveDir(dir string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	i := slices.Index(c.ProjectDirs, absDir)
	if i < 0 {
		return false
	}
	c.ProjectDirs = slices.Delete(c.ProjectDirs, i, i+1)
	return true
}
