package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/streaks/internal/session"
)

var (
	cardStyle        = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A"))
	nameStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	counterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pbStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	activeCatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Underline(true)
	inactiveCatStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// maxNameWidth bounds the character name line inside the card.
const maxNameWidth = 32

// View implements tea.Model.
func (m *Model) View() string {
	d := m.ctl.Display()
	sections := []string{m.renderCard(d)}
	if m.showTable && d.HasCharacter {
		sections = append(sections, m.records.View())
	}
	if m.finding {
		sections = append(sections, m.find.View())
	}
	if line := m.renderNotice(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(keys))
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderCard(d session.Display) string {
	if !d.HasCharacter {
		lines := []string{
			nameStyle.Render("No characters found"),
			mutedStyle.Render(fmt.Sprintf("add portraits to %s", m.opts.AssetsDir)),
			mutedStyle.Render("then press r to rescan"),
		}
		return cardStyle.Render(strings.Join(lines, "\n"))
	}
	name := runewidth.Truncate(d.CharacterName, maxNameWidth, "…")
	position := mutedStyle.Render(fmt.Sprintf("%d/%d", d.CharacterIndex+1, len(d.CharacterNames)))
	lines := []string{
		nameStyle.Render(name) + "  " + position,
		mutedStyle.Render(filepath.Base(d.ImagePath)),
		"",
		renderCategories(d.CategoryNames, d.CategoryIndex),
		"",
		counterStyle.Render(fmt.Sprintf("Streak %d", d.Current)) + "   " + pbStyle.Render(fmt.Sprintf("PB %d", d.Best)),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func renderCategories(names []string, selected int) string {
	parts := make([]string, 0, len(names))
	for i, name := range names {
		if i == selected {
			parts = append(parts, activeCatStyle.Render(name))
			continue
		}
		parts = append(parts, inactiveCatStyle.Render(name))
	}
	return strings.Join(parts, mutedStyle.Render(" · "))
}

func (m *Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return errorStyle.Render(m.notice)
	}
	return noticeStyle.Render(m.notice)
}
