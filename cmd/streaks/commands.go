package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/persist"
	"github.com/verte-zerg/streaks/internal/roster"
	"github.com/verte-zerg/streaks/internal/session"
	"github.com/verte-zerg/streaks/internal/stats"
)

const defaultHistoryLast = 20

var (
	outcomeCharacter string
	outcomeCategory  string

	rosterInit bool

	historyCharacter string
	historyCategory  string
	historySince     string
	historyLast      int
)

func newOutcomeCmd(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  runOutcomeCmd,
	}
	cmd.Flags().StringVar(&outcomeCharacter, "character", "", "character name or key (required)")
	cmd.Flags().StringVar(&outcomeCategory, "category", "", "category name (default: first category)")
	return cmd
}

func runOutcomeCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(outcomeCharacter) == "" {
		return errors.New("--character is required")
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a := openApp(settings)
	defer a.close()

	ctl := session.New(a.roster, a.catalog, a.store)
	if !ctl.SelectCharacterByName(strings.TrimSpace(outcomeCharacter)) {
		return fmt.Errorf("unknown character %q (see: streaks roster)", outcomeCharacter)
	}
	if outcomeCategory != "" && !ctl.SelectCategoryByName(strings.TrimSpace(outcomeCategory)) {
		return fmt.Errorf("unknown category %q for %s (available: %s)",
			outcomeCategory, ctl.Display().CharacterName, strings.Join(ctl.Display().CategoryNames, ", "))
	}

	worker := persist.Start(context.Background())
	a.persistTo(ctl, worker)

	var ev model.Event
	switch cmd.Name() {
	case "win":
		ev, err = ctl.Win()
	case "loss":
		ev, err = ctl.Loss()
	default:
		ev, err = ctl.Reset()
	}
	worker.Close()
	if err != nil {
		return err
	}

	failing := relayResults(worker.Results(), nil)
	if herr, ok := failing["history"]; ok {
		logErrf("history failed: %v\n", herr)
	}
	if serr, ok := failing["save"]; ok {
		return fmt.Errorf("failed to save state: %w", serr)
	}

	d := ctl.Display()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: streak %d, PB %d\n", d.CharacterName, ev.Key.Category, ev.Record.Current, ev.Record.Best)
	return err
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current streaks and personal bests",
		Args:  cobra.NoArgs,
		RunE:  runShowCmd,
	}
}

func runShowCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a := openApp(settings)
	defer a.close()

	var tallies []model.Tally
	if a.history != nil {
		tallies, err = a.history.Tallies(cmd.Context(), model.HistoryFilter{})
		if err != nil {
			logErrf("failed to load history: %v\n", err)
		}
	}
	rows := stats.Summarize(a.store.Snapshot(), tallies, a.displayNames())
	out := cmd.OutOrStdout()
	return stats.WriteSummary(out, rows, a.history != nil, stats.TerminalWidth(out))
}

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List characters found in the portrait folder",
		Args:  cobra.NoArgs,
		RunE:  runRosterCmd,
	}
	cmd.Flags().BoolVar(&rosterInit, "init", false, "create the overrides file if it does not exist")
	return cmd
}

func runRosterCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if rosterInit {
		if err := writeIfMissing(settings.OverridesPath, roster.OverridesTemplate); err != nil {
			return err
		}
		logErrf("Overrides file: %s\n", settings.OverridesPath)
	}

	r := roster.New(settings.AssetsDir, settings.OverridesPath)
	if err := r.Rescan(); err != nil {
		if errors.Is(err, roster.ErrAssetDirectoryMissing) {
			logErrf("Add portrait images to %s\n", settings.AssetsDir)
			return err
		}
		logErrf("warning: %v\n", err)
	}
	chars := r.Characters()
	if len(chars) == 0 {
		logErrf("No characters found. Add portrait images to %s\n", settings.AssetsDir)
		return nil
	}
	rows := make([][]string, 0, len(chars))
	for i, ch := range chars {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), ch.Name, ch.Key, ch.ImagePath})
	}
	out := cmd.OutOrStdout()
	for _, line := range stats.FormatTable([]string{"#", "Name", "Key", "Image"}, rows, map[int]bool{0: true}, stats.TerminalWidth(out)) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List streak categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesCmd,
	}
}

func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a := openApp(settings)
	defer a.close()

	rows := [][]string{{"(all)", strings.Join(a.catalog.Primary(), ", "), settings.CategoriesPath}}
	for _, set := range settings.Sets {
		names := a.catalog.Primary()
		if len(set.Characters) > 0 {
			names = a.catalog.For(set.Characters[0])
		}
		rows = append(rows, []string{strings.Join(set.Characters, ", "), strings.Join(names, ", "), set.Path})
	}
	out := cmd.OutOrStdout()
	for _, line := range stats.FormatTable([]string{"Characters", "Categories", "File"}, rows, nil, stats.TerminalWidth(out)) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded wins and losses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyCharacter, "character", "", "character name or key filter")
	cmd.Flags().StringVar(&historyCategory, "category", "", "category filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N events (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !settings.HistoryEnabled {
		return errors.New("history is disabled")
	}
	a := openApp(settings)
	defer a.close()
	if a.history == nil {
		return fmt.Errorf("history database unavailable: %s", settings.HistoryPath)
	}

	filter := model.HistoryFilter{
		Category: strings.TrimSpace(historyCategory),
		Since:    sinceTime,
		Last:     historyLast,
	}
	if c := strings.TrimSpace(historyCharacter); c != "" {
		filter.Character = a.characterKey(c)
	}
	events, err := a.history.ListEvents(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	return stats.WriteEvents(out, events, stats.TerminalWidth(out))
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
