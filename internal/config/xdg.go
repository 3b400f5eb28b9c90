// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "streaks"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigDir returns the directory holding user-editable documents.
func DefaultConfigDir() string {
	return filepath.Join(XDGConfigHome(), appDir)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// DefaultEnvPath returns the optional dotenv file read before the environment.
func DefaultEnvPath() string {
	return filepath.Join(DefaultConfigDir(), "streaks.env")
}

// DefaultAssetsDir returns the default portrait directory.
func DefaultAssetsDir() string {
	return filepath.Join(DefaultConfigDir(), "media")
}

// DefaultOverridesPath returns the default character overrides document.
func DefaultOverridesPath() string {
	return filepath.Join(DefaultConfigDir(), "overrides.toml")
}

// DefaultCategoriesPath returns the default category document.
func DefaultCategoriesPath() string {
	return filepath.Join(DefaultConfigDir(), "categories.txt")
}

// DefaultStatePath returns the default streak state document.
func DefaultStatePath() string {
	return filepath.Join(XDGDataHome(), appDir, "streaks.json")
}

// DefaultHistoryPath returns the default path for the SQLite event log.
func DefaultHistoryPath() string {
	return filepath.Join(XDGDataHome(), appDir, "history.db")
}
