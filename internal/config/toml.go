// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Paths      PathsConfig      `toml:"paths"`
	Categories CategoriesConfig `toml:"categories"`
	Links      []LinkConfig     `toml:"links"`
	History    HistoryConfig    `toml:"history"`
}

// PathsConfig maps document locations. Relative paths are resolved against
// the directory holding the config file.
type PathsConfig struct {
	Assets     *string `toml:"assets"`
	Overrides  *string `toml:"overrides"`
	Categories *string `toml:"categories"`
	State      *string `toml:"state"`
	History    *string `toml:"history"`
}

// CategoriesConfig maps category settings.
type CategoriesConfig struct {
	Default *string     `toml:"default"`
	Sets    []SetConfig `toml:"sets"`
}

// SetConfig declares a category document used by specific characters.
type SetConfig struct {
	Name       string   `toml:"name"`
	Path       string   `toml:"path"`
	Characters []string `toml:"characters"`
}

// LinkConfig keeps the personal best of To at least the personal best of From.
type LinkConfig struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// HistoryConfig maps event log settings.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultTemplate is written by `streaks config` when no config exists.
func DefaultTemplate() string {
	return fmt.Sprintf(`# streaks configuration
# Uncomment a value to enable it. Environment variables and CLI flags override config values.
# Relative paths are resolved against this file's directory.

[paths]
# assets = %q          # Portrait images; file names become character keys
# overrides = %q  # Display-name overrides and explicit order
# categories = %q  # One category per line
# state = %q
# history = %q

[categories]
# default = %q              # Used when the category file has no entries

# Extra category lists for specific characters.
# [[categories.sets]]
# name = "survivor"
# path = "survivor_streaks.txt"
# characters = ["Survivor"]

# Keep one category's personal best at least as high as another's.
# [[links]]
# from = "4k"
# to = "3k"

[history]
# enabled = true                  # Record every win/loss in the history database
`,
		DefaultAssetsDir(),
		DefaultOverridesPath(),
		DefaultCategoriesPath(),
		DefaultStatePath(),
		DefaultHistoryPath(),
		"Default",
	)
}
