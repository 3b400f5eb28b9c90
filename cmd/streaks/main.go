// Package main provides the CLI entrypoint for streaks.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/streaks/internal/config"
	"github.com/verte-zerg/streaks/internal/persist"
	"github.com/verte-zerg/streaks/internal/session"
	"github.com/verte-zerg/streaks/internal/stats"
	"github.com/verte-zerg/streaks/internal/tui"
)

var (
	flagAssets     string
	flagCategories string
	flagState      string
	flagNoHistory  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "streaks",
		Short:         "Win streak overlay for streams",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runOverlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagAssets, "assets", "", "portrait directory (default: $XDG_CONFIG_HOME/streaks/media)")
	rootCmd.PersistentFlags().StringVar(&flagCategories, "categories", "", "category file (default: $XDG_CONFIG_HOME/streaks/categories.txt)")
	rootCmd.PersistentFlags().StringVar(&flagState, "state", "", "streak state file (default: $XDG_DATA_HOME/streaks/streaks.json)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "do not record or read the history database")

	rootCmd.AddCommand(newOutcomeCmd("win", "Record a win"))
	rootCmd.AddCommand(newOutcomeCmd("loss", "Record a loss"))
	rootCmd.AddCommand(newOutcomeCmd("reset", "Clear streak and personal best"))
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newRosterCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings layers defaults, the config file, the environment and flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv(config.DefaultEnvPath())
	if err != nil {
		return config.Settings{}, err
	}
	s := config.Resolve(fileCfg, envCfg, filepath.Dir(path))
	applyStringFlag(cmd, "assets", &s.AssetsDir, flagAssets)
	applyStringFlag(cmd, "categories", &s.CategoriesPath, flagCategories)
	applyStringFlag(cmd, "state", &s.StatePath, flagState)
	if cmd.Flags().Changed("no-history") && flagNoHistory {
		s.HistoryEnabled = false
	}
	return s, nil
}

func runOverlayCmd(cmd *cobra.Command, _ []string) error {
	if !stats.IsTerminal(os.Stdout) {
		return errors.New("the overlay needs a terminal; use `streaks win` or `streaks loss` from scripts")
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a := openApp(settings)
	defer a.close()

	worker := persist.Start(context.Background())
	ctl := session.New(a.roster, a.catalog, a.store)
	a.persistTo(ctl, worker)

	model := tui.NewModel(ctl, tui.Options{
		AssetsDir: settings.AssetsDir,
		Warnings:  a.warnings,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	relayed := make(chan map[string]error, 1)
	go func() {
		relayed <- relayResults(worker.Results(), program.Send)
	}()
	_, runErr := program.Run()
	worker.Close()
	for name, err := range <-relayed {
		logErrf("%s failed: %v\n", name, err)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run overlay: %w", runErr)
	}
	return nil
}

// relayResults is the only reader of results. Each result is passed to send
// when it is non-nil. It returns the jobs whose latest run failed, once
// results is closed.
func relayResults(results <-chan persist.Result, send func(tea.Msg)) map[string]error {
	failing := map[string]error{}
	for res := range results {
		if res.Err != nil {
			failing[res.Name] = res.Err
		} else {
			delete(failing, res.Name)
		}
		if send != nil {
			send(tui.ResultMsg(res))
		}
	}
	return failing
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return openEditor(path)
}

func openEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if v := strings.TrimSpace(value); v != "" {
		*target = v
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
