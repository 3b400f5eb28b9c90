// Package tui provides the Bubble Tea streak overlay.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/persist"
	"github.com/verte-zerg/streaks/internal/roster"
	"github.com/verte-zerg/streaks/internal/session"
)

// Options configures the overlay.
type Options struct {
	AssetsDir string
	Warnings  []string
}

// ResultMsg delivers a finished persistence job to the overlay.
type ResultMsg persist.Result

// Model implements the overlay. It only reads display state from the
// controller and forwards intents to it.
type Model struct {
	ctl  *session.Controller
	opts Options

	help      help.Model
	records   table.Model
	showTable bool

	finding bool
	find    textinput.Model

	confirmReset bool

	notice    string
	noticeErr bool
	failing   map[string]bool

	copyText func(string) error

	width  int
	height int
}

// NewModel constructs the overlay model.
func NewModel(ctl *session.Controller, opts Options) *Model {
	find := textinput.New()
	find.Placeholder = "character name"
	find.Prompt = "find: "
	find.CharLimit = 64

	m := &Model{
		ctl:     ctl,
		opts:    opts,
		help:    help.New(),
		find:    find,
		failing: map[string]bool{},
		records: table.New(
			table.WithColumns([]table.Column{
				{Title: "Category", Width: 20},
				{Title: "Streak", Width: 6},
				{Title: "PB", Width: 6},
			}),
			table.WithHeight(6),
		),
	}
	m.copyText = clipboard.WriteAll
	if len(opts.Warnings) > 0 {
		m.setNotice(opts.Warnings[len(opts.Warnings)-1], true)
		if len(opts.Warnings) > 1 {
			m.notice = fmt.Sprintf("%s (+%d more warnings)", m.notice, len(opts.Warnings)-1)
		}
	}
	m.refreshTable()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case ResultMsg:
		m.handleResult(persist.Result(msg))
		return m, nil
	case tea.KeyMsg:
		if m.finding {
			return m.updateFind(msg)
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmReset {
		m.confirmReset = false
		if msg.String() == "y" {
			m.record(m.ctl.Reset)
		} else {
			m.setNotice("reset cancelled", false)
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Win):
		m.record(m.ctl.Win)
	case key.Matches(msg, keys.Loss):
		m.record(m.ctl.Loss)
	case key.Matches(msg, keys.Reset):
		if m.ctl.Display().HasCharacter {
			m.confirmReset = true
			m.setNotice("reset streak and PB for this category? press y to confirm", false)
		}
	case key.Matches(msg, keys.PrevCharacter):
		m.ctl.PreviousCharacter()
	case key.Matches(msg, keys.NextCharacter):
		m.ctl.NextCharacter()
	case key.Matches(msg, keys.PrevCategory):
		m.ctl.PreviousCategory()
	case key.Matches(msg, keys.NextCategory):
		m.ctl.NextCategory()
	case key.Matches(msg, keys.Rescan):
		m.rescan()
	case key.Matches(msg, keys.Table):
		m.showTable = !m.showTable
	case key.Matches(msg, keys.Copy):
		m.copyStreak()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Find):
		if len(m.ctl.Display().CharacterNames) > 0 {
			m.finding = true
			m.find.SetValue("")
			m.refreshTable()
			return m, m.find.Focus()
		}
	}
	m.refreshTable()
	return m, nil
}

func (m *Model) updateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.finding = false
		m.find.Blur()
		return m, nil
	case tea.KeyEnter:
		m.finding = false
		m.find.Blur()
		query := strings.TrimSpace(m.find.Value())
		if name, ok := matchName(m.ctl.Display().CharacterNames, query); ok {
			m.ctl.SelectCharacterByName(name)
		} else if query != "" {
			m.setNotice(fmt.Sprintf("no character matches %q", query), false)
		}
		m.refreshTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	return m, cmd
}

// matchName prefers an exact case-insensitive match, then a prefix, then a substring.
func matchName(names []string, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	q := strings.ToLower(query)
	for _, n := range names {
		if strings.ToLower(n) == q {
			return n, true
		}
	}
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), q) {
			return n, true
		}
	}
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			return n, true
		}
	}
	return "", false
}

func (m *Model) record(fn func() (model.Event, error)) {
	ev, err := fn()
	if err != nil {
		if errors.Is(err, session.ErrNoSelection) {
			m.setNotice("no character selected", false)
			return
		}
		m.setNotice(err.Error(), true)
		return
	}
	if len(m.failing) == 0 {
		m.setNotice(describe(ev), false)
	}
}

func describe(ev model.Event) string {
	switch ev.Outcome {
	case model.OutcomeWin:
		if ev.Record.Best > ev.Before.Best && ev.Record.Best > 1 {
			return fmt.Sprintf("win, new PB %d", ev.Record.Best)
		}
		return "win recorded"
	case model.OutcomeLoss:
		return "loss recorded, streak reset"
	case model.OutcomeReset:
		return "streak and PB cleared"
	default:
		return ""
	}
}

// streakText is the line copied for chat messages and stream titles.
func streakText(d session.Display) string {
	return fmt.Sprintf("%s (%s): streak %d, PB %d", d.CharacterName, d.CategoryLabel, d.Current, d.Best)
}

func (m *Model) copyStreak() {
	d := m.ctl.Display()
	if !d.HasCharacter {
		m.setNotice("no character selected", false)
		return
	}
	text := streakText(d)
	if err := m.copyText(text); err != nil {
		m.setNotice(fmt.Sprintf("copy failed: %v", err), true)
		return
	}
	m.setNotice("copied: "+text, false)
}

func (m *Model) rescan() {
	err := m.ctl.Rescan()
	n := len(m.ctl.Display().CharacterNames)
	switch {
	case errors.Is(err, roster.ErrAssetDirectoryMissing):
		m.setNotice(fmt.Sprintf("portrait folder not found: %s", m.opts.AssetsDir), true)
	case err != nil:
		m.setNotice(fmt.Sprintf("rescan: %v", err), true)
	default:
		m.setNotice(fmt.Sprintf("found %d characters", n), false)
	}
}

func (m *Model) handleResult(res persist.Result) {
	if res.Err != nil {
		m.failing[res.Name] = true
		m.setNotice(fmt.Sprintf("%s failed: %v (will retry on next change)", res.Name, res.Err), true)
		return
	}
	if m.failing[res.Name] {
		delete(m.failing, res.Name)
		if len(m.failing) == 0 {
			m.setNotice(fmt.Sprintf("%s recovered", res.Name), false)
		}
	}
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) refreshTable() {
	entries := m.ctl.Records()
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.Key.Category, strconv.Itoa(e.Record.Current), strconv.Itoa(e.Record.Best)})
	}
	m.records.SetRows(rows)
	if idx := m.ctl.CategoryIndex(); idx >= 0 && idx < len(rows) {
		m.records.SetCursor(idx)
	}
}
