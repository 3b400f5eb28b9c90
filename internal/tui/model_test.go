package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/streaks/internal/category"
	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/persist"
	"github.com/verte-zerg/streaks/internal/session"
	"github.com/verte-zerg/streaks/internal/streak"
)

type stubRoster struct {
	chars []model.Character
}

func (s *stubRoster) Characters() []model.Character { return s.chars }

func (s *stubRoster) Rescan() error { return nil }

func newTestModel(names ...string) (*Model, *streak.Store) {
	chars := make([]model.Character, 0, len(names))
	for _, n := range names {
		key := strings.ReplaceAll(n, " ", "")
		chars = append(chars, model.Character{Key: key, Name: n, ImagePath: "/media/" + key + ".png"})
	}
	st := streak.New()
	ctl := session.New(&stubRoster{chars: chars}, category.NewCatalog([]string{"4k", "3k"}), st)
	return NewModel(ctl, Options{AssetsDir: "/media"}), st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestViewEmptyRoster(t *testing.T) {
	m, _ := newTestModel()
	out := m.View()
	if !containsAll(out, []string{"No characters found", "/media"}) {
		t.Fatalf("empty roster view missing hints: %s", out)
	}
	press(m, runes("w"))
	if m.notice != "no character selected" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
}

func TestWinAndLossUpdateView(t *testing.T) {
	m, st := newTestModel("Survivor", "The Nurse")
	press(m, runes("w"), runes("+"))
	out := m.View()
	if !containsAll(out, []string{"Survivor", "1/2", "Survivor.png", "4k", "3k", "Streak 2", "PB 2"}) {
		t.Fatalf("view missing expected segments: %s", out)
	}
	if m.notice != "win, new PB 2" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}

	press(m, runes("x"))
	if got := st.Get(model.Key{Character: "Survivor", Category: "4k"}); got != (model.Record{Current: 0, Best: 2}) {
		t.Fatalf("unexpected record after loss: %+v", got)
	}
	if !strings.Contains(m.View(), "Streak 0") {
		t.Fatalf("expected streak to drop to zero")
	}
}

func TestNewPBOnlyWhenRaised(t *testing.T) {
	m, _ := newTestModel("Survivor")
	press(m, runes("w"), runes("w"), runes("x"), runes("w"))
	if m.notice != "win recorded" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
	press(m, runes("w"))
	if m.notice != "win recorded" {
		t.Fatalf("tying the PB is not a new PB, got %q", m.notice)
	}
	press(m, runes("w"))
	if m.notice != "win, new PB 3" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
}

func TestNavigationKeys(t *testing.T) {
	m, st := newTestModel("Survivor", "The Nurse")
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if !strings.Contains(m.View(), "The Nurse") || m.ctl.CharacterIndex() != 1 {
		t.Fatalf("left from the first character should wrap to the last")
	}
	press(m, tea.KeyMsg{Type: tea.KeyDown}, runes("w"))
	if got := st.Get(model.Key{Character: "TheNurse", Category: "3k"}); got.Current != 1 {
		t.Fatalf("expected win under 3k, got %+v", got)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	m, st := newTestModel("Survivor")
	k := model.Key{Character: "Survivor", Category: "4k"}
	press(m, runes("w"), runes("w"))

	press(m, tea.KeyMsg{Type: tea.KeyCtrlR}, runes("n"))
	if m.notice != "reset cancelled" || st.Get(k).Best != 2 {
		t.Fatalf("reset should be cancelled, notice %q record %+v", m.notice, st.Get(k))
	}

	press(m, tea.KeyMsg{Type: tea.KeyCtrlR}, runes("y"))
	if st.Get(k) != (model.Record{}) {
		t.Fatalf("expected cleared record, got %+v", st.Get(k))
	}
	if m.notice != "streak and PB cleared" {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
}

func TestFindSelectsCharacter(t *testing.T) {
	m, st := newTestModel("Survivor", "The Nurse", "The Trapper")
	press(m, runes("/"), runes("nur"))
	if !m.finding {
		t.Fatalf("expected find mode")
	}
	if st.Len() != 0 {
		t.Fatalf("typing in find mode must not record outcomes")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.finding || m.ctl.CharacterIndex() != 1 {
		t.Fatalf("expected The Nurse selected, index %d", m.ctl.CharacterIndex())
	}

	press(m, runes("/"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.ctl.CharacterIndex() != 1 || !strings.Contains(m.notice, "no character matches") {
		t.Fatalf("unmatched query should keep selection, notice %q", m.notice)
	}
}

func TestMatchName(t *testing.T) {
	names := []string{"The Nurse", "Nurse Joy", "The Trapper"}
	cases := []struct {
		query string
		want  string
		ok    bool
	}{
		{query: "nurse joy", want: "Nurse Joy", ok: true},
		{query: "nur", want: "Nurse Joy", ok: true},
		{query: "trap", want: "The Trapper", ok: true},
		{query: "", ok: false},
		{query: "wraith", ok: false},
	}
	for _, tc := range cases {
		got, ok := matchName(names, tc.query)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("matchName(%q) = %q, %v; want %q, %v", tc.query, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPersistResultNotices(t *testing.T) {
	m, _ := newTestModel("Survivor")
	press(m, ResultMsg(persist.Result{Name: "save", Err: errors.New("disk full")}))
	if !m.noticeErr || !containsAll(m.notice, []string{"save failed", "disk full"}) {
		t.Fatalf("expected save failure notice, got %q", m.notice)
	}

	press(m, runes("w"))
	if !m.noticeErr {
		t.Fatalf("failure notice should stay visible while saves are failing")
	}

	press(m, ResultMsg(persist.Result{Name: "save"}))
	if m.noticeErr || m.notice != "save recovered" {
		t.Fatalf("expected recovery notice, got %q", m.notice)
	}
}

func TestCopyStreak(t *testing.T) {
	m, _ := newTestModel("The Nurse")
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}
	press(m, runes("w"), runes("c"))
	if copied != "The Nurse (4k): streak 1, PB 1" {
		t.Fatalf("unexpected clipboard text: %q", copied)
	}
	if !strings.HasPrefix(m.notice, "copied: ") {
		t.Fatalf("unexpected notice: %q", m.notice)
	}

	m.copyText = func(string) error { return errors.New("no clipboard") }
	press(m, runes("c"))
	if !m.noticeErr || !strings.Contains(m.notice, "no clipboard") {
		t.Fatalf("expected copy failure notice, got %q", m.notice)
	}
}

func TestStartupWarnings(t *testing.T) {
	chars := []model.Character{{Key: "Survivor", Name: "Survivor"}}
	ctl := session.New(&stubRoster{chars: chars}, category.NewCatalog([]string{"Default"}), streak.New())
	m := NewModel(ctl, Options{Warnings: []string{"first", "second"}})
	if !m.noticeErr || m.notice != "second (+1 more warnings)" {
		t.Fatalf("unexpected startup notice: %q", m.notice)
	}
	if !strings.Contains(m.View(), "second") {
		t.Fatalf("warning should be rendered")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
