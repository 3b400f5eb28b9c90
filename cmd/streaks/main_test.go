package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/streaks/internal/persist"
	"github.com/verte-zerg/streaks/internal/tui"
)

func setupHome(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	media := filepath.Join(root, "config", "streaks", "media")
	if err := os.MkdirAll(media, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"TheNurse.png", "Survivor.png"} {
		if err := os.WriteFile(filepath.Join(media, name), []byte("png"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("streaks %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestOutcomeCommandsPersist(t *testing.T) {
	root := setupHome(t)

	if got := run(t, "win", "--character", "The Nurse"); got != "The Nurse / Default: streak 1, PB 1\n" {
		t.Fatalf("unexpected output: %q", got)
	}
	run(t, "win", "--character", "TheNurse")
	if got := run(t, "loss", "--character", "The Nurse"); got != "The Nurse / Default: streak 0, PB 2\n" {
		t.Fatalf("unexpected output: %q", got)
	}

	if _, err := os.Stat(filepath.Join(root, "data", "streaks", "streaks.json")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "config", "streaks", "categories.txt")); err != nil {
		t.Fatalf("expected categories file to be created: %v", err)
	}

	show := run(t, "show")
	for _, want := range []string{"The Nurse", "Default", "66.7%"} {
		if !strings.Contains(show, want) {
			t.Fatalf("show output missing %q:\n%s", want, show)
		}
	}

	hist := run(t, "history", "--character", "The Nurse")
	if !strings.Contains(hist, "Form: WWL") {
		t.Fatalf("history output missing form:\n%s", hist)
	}
}

func TestOutcomeCommandRejectsUnknownInput(t *testing.T) {
	setupHome(t)
	cases := [][]string{
		{"win"},
		{"win", "--character", "Wraith"},
		{"loss", "--character", "Survivor", "--category", "Ranked"},
	}
	for _, args := range cases {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRosterCommand(t *testing.T) {
	root := setupHome(t)
	out := run(t, "roster", "--init")
	if !strings.Contains(out, "Survivor") || !strings.Contains(out, "The Nurse") {
		t.Fatalf("roster output missing characters:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(root, "config", "streaks", "overrides.toml")); err != nil {
		t.Fatalf("expected overrides file: %v", err)
	}
}

func TestNoHistoryFlag(t *testing.T) {
	root := setupHome(t)
	run(t, "win", "--no-history", "--character", "Survivor")
	if _, err := os.Stat(filepath.Join(root, "data", "streaks", "history.db")); !os.IsNotExist(err) {
		t.Fatalf("history db should not be created, stat err: %v", err)
	}
}

func TestRelayResultsReportsFinalFailures(t *testing.T) {
	results := make(chan persist.Result, 4)
	results <- persist.Result{Name: "save", Err: errors.New("disk full")}
	results <- persist.Result{Name: "history", Err: errors.New("locked")}
	results <- persist.Result{Name: "save"}
	results <- persist.Result{Name: "history", Err: errors.New("still locked")}
	close(results)

	var sent []tea.Msg
	failing := relayResults(results, func(msg tea.Msg) { sent = append(sent, msg) })
	if len(sent) != 4 {
		t.Fatalf("expected every result forwarded, got %d", len(sent))
	}
	if _, ok := sent[0].(tui.ResultMsg); !ok {
		t.Fatalf("unexpected message type %T", sent[0])
	}
	if len(failing) != 1 || failing["history"] == nil || failing["history"].Error() != "still locked" {
		t.Fatalf("expected only the latest history failure, got %v", failing)
	}
}
