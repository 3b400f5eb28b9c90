package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	AssetsDir       string `env:"STREAKS_ASSETS_DIR"`
	OverridesFile   string `env:"STREAKS_OVERRIDES_FILE"`
	CategoriesFile  string `env:"STREAKS_CATEGORIES_FILE"`
	StateFile       string `env:"STREAKS_STATE_FILE"`
	HistoryDB       string `env:"STREAKS_HISTORY_DB"`
	DefaultCategory string `env:"STREAKS_DEFAULT_CATEGORY"`
	NoHistory       bool   `env:"STREAKS_NO_HISTORY"`
}

// LoadEnv parses EnvConfig from the process environment. Variables from the
// optional dotenv files are used only where the process does not set them;
// files that do not exist are skipped.
func LoadEnv(files ...string) (EnvConfig, error) {
	vars := map[string]string{}
	for _, path := range files {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return EnvConfig{}, fmt.Errorf("failed to stat env file: %w", err)
		}
		fileVars, err := godotenv.Read(path)
		if err != nil {
			return EnvConfig{}, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Settings is the resolved runtime configuration.
type Settings struct {
	AssetsDir       string
	OverridesPath   string
	CategoriesPath  string
	StatePath       string
	HistoryPath     string
	DefaultCategory string
	HistoryEnabled  bool
	Sets            []SetConfig
	Links           []LinkConfig
}

// Defaults returns settings built from XDG locations only.
func Defaults() Settings {
	return Settings{
		AssetsDir:       DefaultAssetsDir(),
		OverridesPath:   DefaultOverridesPath(),
		CategoriesPath:  DefaultCategoriesPath(),
		StatePath:       DefaultStatePath(),
		HistoryPath:     DefaultHistoryPath(),
		DefaultCategory: "Default",
		HistoryEnabled:  true,
	}
}

// Resolve layers the config file and environment over the defaults. baseDir
// is used to resolve relative paths from the config file.
func Resolve(file FileConfig, envCfg EnvConfig, baseDir string) Settings {
	s := Defaults()
	home, _ := os.UserHomeDir()

	applyPath(&s.AssetsDir, file.Paths.Assets, baseDir, home)
	applyPath(&s.OverridesPath, file.Paths.Overrides, baseDir, home)
	applyPath(&s.CategoriesPath, file.Paths.Categories, baseDir, home)
	applyPath(&s.StatePath, file.Paths.State, baseDir, home)
	applyPath(&s.HistoryPath, file.Paths.History, baseDir, home)
	if file.Categories.Default != nil && strings.TrimSpace(*file.Categories.Default) != "" {
		s.DefaultCategory = strings.TrimSpace(*file.Categories.Default)
	}
	if file.History.Enabled != nil {
		s.HistoryEnabled = *file.History.Enabled
	}
	for _, set := range file.Categories.Sets {
		set.Path = resolvePath(set.Path, baseDir, home)
		s.Sets = append(s.Sets, set)
	}
	s.Links = append(s.Links, file.Links...)

	applyEnv(&s.AssetsDir, envCfg.AssetsDir, home)
	applyEnv(&s.OverridesPath, envCfg.OverridesFile, home)
	applyEnv(&s.CategoriesPath, envCfg.CategoriesFile, home)
	applyEnv(&s.StatePath, envCfg.StateFile, home)
	applyEnv(&s.HistoryPath, envCfg.HistoryDB, home)
	if v := strings.TrimSpace(envCfg.DefaultCategory); v != "" {
		s.DefaultCategory = v
	}
	if envCfg.NoHistory {
		s.HistoryEnabled = false
	}
	return s
}

func applyPath(target, value *string, baseDir, home string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	*target = resolvePath(strings.TrimSpace(*value), baseDir, home)
}

func applyEnv(target *string, value, home string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*target = expandHome(value, home)
}

func resolvePath(path, baseDir, home string) string {
	if path == "" {
		return path
	}
	path = expandHome(path, home)
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
