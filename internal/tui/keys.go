package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevCharacter key.Binding
	NextCharacter key.Binding
	PrevCategory  key.Binding
	NextCategory  key.Binding
	Win           key.Binding
	Loss          key.Binding
	Reset         key.Binding
	Find          key.Binding
	Rescan        key.Binding
	Table         key.Binding
	Copy          key.Binding
	Help          key.Binding
	Quit          key.Binding
}

var keys = keyMap{
	PrevCharacter: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev character"),
	),
	NextCharacter: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next character"),
	),
	PrevCategory: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev category"),
	),
	NextCategory: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next category"),
	),
	Win: key.NewBinding(
		key.WithKeys("w", "+", "="),
		key.WithHelp("w/+", "win"),
	),
	Loss: key.NewBinding(
		key.WithKeys("x", "-"),
		key.WithHelp("x/-", "loss"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "reset PB"),
	),
	Find: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find character"),
	),
	Rescan: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rescan portraits"),
	),
	Table: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "all categories"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy streak"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Win, k.Loss, k.PrevCharacter, k.NextCharacter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Win, k.Loss, k.Reset},
		{k.PrevCharacter, k.NextCharacter, k.Find},
		{k.PrevCategory, k.NextCategory, k.Table},
		{k.Rescan, k.Copy, k.Help, k.Quit},
	}
}
