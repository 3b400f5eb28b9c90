package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/streak"
)

func TestWinRate(t *testing.T) {
	if got := WinRate(0, 0); got != 0 {
		t.Fatalf("expected 0 without games, got %f", got)
	}
	if got := WinRate(3, 1); got != 0.75 {
		t.Fatalf("expected 0.75, got %f", got)
	}
}

func TestSummarizeMergesRecordsAndTallies(t *testing.T) {
	nurse := model.Key{Character: "TheNurse", Category: "4k"}
	old := model.Key{Character: "Removed", Category: "3k"}
	entries := []streak.Entry{{Key: nurse, Record: model.Record{Current: 2, Best: 5}}}
	tallies := []model.Tally{
		{Key: nurse, Wins: 7, Losses: 3},
		{Key: old, Wins: 1},
	}
	rows := Summarize(entries, tallies, map[string]string{"TheNurse": "The Nurse"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Character != "Removed" || rows[0].Record != (model.Record{}) || rows[0].Wins != 1 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Character != "The Nurse" || rows[1].Record.Best != 5 || rows[1].Wins != 7 || rows[1].Losses != 3 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, nil, false, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "No streaks") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	rows := []Row{{Key: model.Key{Character: "TheNurse", Category: "4k"}, Character: "The Nurse", Record: model.Record{Current: 1, Best: 4}, Wins: 3, Losses: 1}}
	if err := WriteSummary(&buf, rows, true, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Character", "Win%", "The Nurse", "75.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteEventsAndForm(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	key := model.Key{Character: "TheNurse", Category: "4k"}
	events := []model.Event{
		{At: at, Key: key, Outcome: model.OutcomeWin, Record: model.Record{Current: 1, Best: 1}},
		{At: at, Key: key, Outcome: model.OutcomeWin, Record: model.Record{Current: 2, Best: 2}},
		{At: at, Key: key, Outcome: model.OutcomeLoss, Record: model.Record{Current: 0, Best: 2}},
		{At: at, Key: key, Outcome: model.OutcomeReset},
	}
	if got := Form(events); got != "WWL-" {
		t.Fatalf("unexpected form: %q", got)
	}
	var buf bytes.Buffer
	if err := WriteEvents(&buf, events, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Form: WWL-") || !strings.Contains(out, "loss") {
		t.Fatalf("unexpected events output:\n%s", out)
	}
	if !strings.Contains(out, "Streak: [+@  ]") || !strings.Contains(out, "Win rate: 66.7% over last 3 games") {
		t.Fatalf("missing trend lines:\n%s", out)
	}
}

func TestWriteEventsMixedKeysSkipsTrend(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	events := []model.Event{
		{At: at, Key: model.Key{Character: "TheNurse", Category: "4k"}, Outcome: model.OutcomeWin, Record: model.Record{Current: 1, Best: 1}},
		{At: at, Key: model.Key{Character: "Survivor", Category: "4k"}, Outcome: model.OutcomeLoss},
	}
	var buf bytes.Buffer
	if err := WriteEvents(&buf, events, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Form:") || strings.Contains(out, "Streak:") || strings.Contains(out, "Win rate:") {
		t.Fatalf("mixed keys must not print a combined trend:\n%s", out)
	}
	if !strings.Contains(out, "Filter by --character and --category") {
		t.Fatalf("expected filter hint:\n%s", out)
	}
}

func TestTerminalWidthForNonTerminal(t *testing.T) {
	if got := TerminalWidth(&bytes.Buffer{}); got != 0 {
		t.Fatalf("expected 0 for non-terminal writer, got %d", got)
	}
}
