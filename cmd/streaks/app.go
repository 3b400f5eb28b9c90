package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/streaks/internal/category"
	"github.com/verte-zerg/streaks/internal/config"
	"github.com/verte-zerg/streaks/internal/history"
	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/persist"
	"github.com/verte-zerg/streaks/internal/roster"
	"github.com/verte-zerg/streaks/internal/session"
	"github.com/verte-zerg/streaks/internal/streak"
)

// app holds the engine components built from resolved settings.
type app struct {
	settings config.Settings
	roster   *roster.Roster
	catalog  *category.Catalog
	store    *streak.Store
	history  *history.Store
	warnings []string
}

// openApp builds every component. Nothing here is fatal: problems become
// warnings and the affected component starts empty or disabled.
func openApp(s config.Settings) *app {
	a := &app{settings: s}

	a.roster = roster.New(s.AssetsDir, s.OverridesPath)
	if err := a.roster.Rescan(); err != nil {
		if errors.Is(err, roster.ErrAssetDirectoryMissing) {
			a.warn("portrait folder not found: %s", s.AssetsDir)
		} else {
			a.warn("roster: %v", err)
		}
	}

	sets := make([]category.Set, 0, len(s.Sets))
	for _, set := range s.Sets {
		sets = append(sets, category.Set{Name: set.Name, Path: set.Path, Characters: set.Characters})
	}
	var catWarnings []error
	a.catalog, catWarnings = category.LoadCatalog(s.CategoriesPath, s.DefaultCategory, sets)
	for _, w := range catWarnings {
		a.warn("categories: %v", w)
	}

	var report streak.LoadReport
	a.store, report = streak.Load(s.StatePath, streak.WithLinks(links(s.Links)...))
	for _, w := range report.Warnings {
		a.warn("state: %s", w)
	}
	if report.Skipped > 0 {
		a.warn("state: kept %d records, skipped %d unreadable entries", report.Loaded, report.Skipped)
	}

	if s.HistoryEnabled {
		hist, err := history.Open(s.HistoryPath)
		if err != nil {
			a.warn("history disabled: %v", err)
		} else {
			a.history = hist
		}
	}
	return a
}

func (a *app) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.warnings = append(a.warnings, msg)
	logErrln(msg)
}

func (a *app) close() {
	if a.history == nil {
		return
	}
	if cerr := a.history.Close(); cerr != nil {
		logErrf("failed to close history db: %v\n", cerr)
	}
}

// persistTo saves state and appends history for every event the controller emits.
// The snapshot is taken when the event happens so queued saves never race
// with later changes.
func (a *app) persistTo(ctl *session.Controller, worker *persist.Worker) {
	statePath := a.settings.StatePath
	hist := a.history
	ctl.Subscribe(func(ev model.Event) {
		entries := a.store.Snapshot()
		worker.Enqueue("save", "state", func(context.Context) error {
			return streak.WriteFile(statePath, entries)
		})
		if hist == nil {
			return
		}
		worker.Enqueue("history", "", func(ctx context.Context) error {
			_, err := hist.InsertEvent(ctx, ev)
			return err
		})
	})
}

// displayNames maps character keys to their roster display names.
func (a *app) displayNames() map[string]string {
	names := map[string]string{}
	for _, ch := range a.roster.Characters() {
		names[ch.Key] = ch.Name
	}
	return names
}

// characterKey resolves a display name or key to a key. Unknown values are
// returned unchanged so history for removed portraits stays reachable.
func (a *app) characterKey(value string) string {
	for _, ch := range a.roster.Characters() {
		if ch.Name == value || ch.Key == value {
			return ch.Key
		}
	}
	return value
}

func links(cfg []config.LinkConfig) []streak.Link {
	out := make([]streak.Link, 0, len(cfg))
	for _, l := range cfg {
		out = append(out, streak.Link{From: l.From, To: l.To})
	}
	return out
}
