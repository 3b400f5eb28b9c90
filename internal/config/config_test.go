package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Paths.Assets != nil || len(cfg.Links) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(DefaultTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Paths.Assets != nil {
		t.Fatalf("template values should be commented out")
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	doc := `
[paths]
assets = "portraits"
state = "/abs/state.json"

[categories]
default = "Ranked"

[[categories.sets]]
name = "survivor"
path = "survivor.txt"
characters = ["Survivor"]

[[links]]
from = "4k"
to = "3k"

[history]
enabled = false
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	s := Resolve(file, EnvConfig{}, dir)
	if s.AssetsDir != filepath.Join(dir, "portraits") {
		t.Fatalf("relative path should resolve against config dir, got %s", s.AssetsDir)
	}
	if s.StatePath != "/abs/state.json" {
		t.Fatalf("unexpected state path: %s", s.StatePath)
	}
	if s.CategoriesPath != filepath.Join("/xdg/config", "streaks", "categories.txt") {
		t.Fatalf("unexpected default categories path: %s", s.CategoriesPath)
	}
	if s.HistoryPath != filepath.Join("/xdg/data", "streaks", "history.db") {
		t.Fatalf("unexpected default history path: %s", s.HistoryPath)
	}
	if s.DefaultCategory != "Ranked" || s.HistoryEnabled {
		t.Fatalf("unexpected category/history settings: %+v", s)
	}
	if len(s.Sets) != 1 || s.Sets[0].Path != filepath.Join(dir, "survivor.txt") {
		t.Fatalf("unexpected sets: %+v", s.Sets)
	}
	if len(s.Links) != 1 || s.Links[0].From != "4k" {
		t.Fatalf("unexpected links: %+v", s.Links)
	}

	s = Resolve(FileConfig{}, EnvConfig{AssetsDir: "/env/media", DefaultCategory: "Casual", NoHistory: true}, dir)
	if s.AssetsDir != "/env/media" || s.DefaultCategory != "Casual" || s.HistoryEnabled {
		t.Fatalf("environment should override defaults: %+v", s)
	}
	s = Resolve(file, EnvConfig{AssetsDir: "/env/media"}, dir)
	if s.AssetsDir != "/env/media" {
		t.Fatalf("environment should override file: %+v", s)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("STREAKS_STATE_FILE", "/tmp/state.json")
	t.Setenv("STREAKS_NO_HISTORY", "true")
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.StateFile != "/tmp/state.json" {
		t.Fatalf("unexpected state file: %q", cfg.StateFile)
	}
	if !cfg.NoHistory {
		t.Fatalf("expected history disabled from env")
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("STREAKS_ASSETS_DIR", "/from/process")
	t.Setenv("STREAKS_DEFAULT_CATEGORY", "")
	if err := os.Unsetenv("STREAKS_DEFAULT_CATEGORY"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	path := filepath.Join(t.TempDir(), "streaks.env")
	doc := "STREAKS_ASSETS_DIR=/from/file\nSTREAKS_DEFAULT_CATEGORY=Ranked\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.AssetsDir != "/from/process" {
		t.Fatalf("process environment should win over the env file, got %q", cfg.AssetsDir)
	}
	if cfg.DefaultCategory != "Ranked" {
		t.Fatalf("expected category from env file, got %q", cfg.DefaultCategory)
	}
	if _, ok := os.LookupEnv("STREAKS_DEFAULT_CATEGORY"); ok {
		t.Fatalf("env file must not modify the process environment")
	}
}

func TestExpandHome(t *testing.T) {
	if got := expandHome("~/media", "/home/me"); got != "/home/me/media" {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got := expandHome("~", "/home/me"); got != "/home/me" {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got := expandHome("media", "/home/me"); got != "media" {
		t.Fatalf("relative path should not change: %s", got)
	}
}
