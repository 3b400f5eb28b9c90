package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/streak"
)

// Row is one line of the records summary.
type Row struct {
	Key       model.Key
	Character string
	Record    model.Record
	Wins      int
	Losses    int
}

// WinRate returns wins / (wins + losses), or 0 without games.
func WinRate(wins, losses int) float64 {
	total := wins + losses
	if total <= 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// Summarize merges stored records with history tallies. displayNames maps
// character keys to display names; unknown keys are shown as-is.
func Summarize(entries []streak.Entry, tallies []model.Tally, displayNames map[string]string) []Row {
	byKey := map[model.Key]*Row{}
	var order []model.Key
	get := func(key model.Key) *Row {
		if r, ok := byKey[key]; ok {
			return r
		}
		name := displayNames[key.Character]
		if name == "" {
			name = key.Character
		}
		r := &Row{Key: key, Character: name}
		byKey[key] = r
		order = append(order, key)
		return r
	}
	for _, e := range entries {
		get(e.Key).Record = e.Record
	}
	for _, t := range tallies {
		r := get(t.Key)
		r.Wins = t.Wins
		r.Losses = t.Losses
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := byKey[order[i]], byKey[order[j]]
		if a.Character != b.Character {
			return a.Character < b.Character
		}
		return a.Key.Category < b.Key.Category
	})
	rows := make([]Row, 0, len(order))
	for _, key := range order {
		rows = append(rows, *byKey[key])
	}
	return rows
}

// Form renders outcomes as a compact string, e.g. "WWLW". Resets show as "-".
func Form(events []model.Event) string {
	var b strings.Builder
	for _, ev := range events {
		switch ev.Outcome {
		case model.OutcomeWin:
			b.WriteByte('W')
		case model.OutcomeLoss:
			b.WriteByte('L')
		case model.OutcomeReset:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// WriteSummary prints rows as an aligned table.
func WriteSummary(w io.Writer, rows []Row, withHistory bool, maxWidth int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No streaks recorded yet.")
		return err
	}
	headers := []string{"Character", "Category", "Streak", "PB"}
	right := map[int]bool{2: true, 3: true}
	if withHistory {
		headers = append(headers, "W", "L", "Win%")
		right[4], right[5], right[6] = true, true, true
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Character, r.Key.Category, strconv.Itoa(r.Record.Current), strconv.Itoa(r.Record.Best)}
		if withHistory {
			line = append(line, strconv.Itoa(r.Wins), strconv.Itoa(r.Losses), fmt.Sprintf("%.1f%%", WinRate(r.Wins, r.Losses)*100))
		}
		table = append(table, line)
	}
	for _, line := range FormatTable(headers, table, right, maxWidth) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents prints events oldest first. Form and trend lines are added
// only when every event belongs to the same character and category.
func WriteEvents(w io.Writer, events []model.Event, maxWidth int) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No history recorded yet.")
		return err
	}
	headers := []string{"When", "Character", "Category", "Outcome", "Streak", "PB"}
	table := make([][]string, 0, len(events))
	for _, ev := range events {
		table = append(table, []string{
			ev.At.Local().Format("2006-01-02 15:04"),
			ev.Key.Character,
			ev.Key.Category,
			string(ev.Outcome),
			strconv.Itoa(ev.Record.Current),
			strconv.Itoa(ev.Record.Best),
		})
	}
	for _, line := range FormatTable(headers, table, map[int]bool{4: true, 5: true}, maxWidth) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if !singleKey(events) {
		_, err := fmt.Fprintln(w, "Filter by --character and --category to see form and trend.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Form: %s\n", Form(events)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Streak: [%s]\n", StreakLine(events)); err != nil {
		return err
	}
	rates := RollingWinRate(events, RateWindow)
	if len(rates) == 0 {
		return nil
	}
	games := len(rates)
	if games > RateWindow {
		games = RateWindow
	}
	_, err := fmt.Fprintf(w, "Win rate: %.1f%% over last %d games\n", rates[len(rates)-1]*100, games)
	return err
}

func singleKey(events []model.Event) bool {
	for _, ev := range events[1:] {
		if ev.Key != events[0].Key {
			return false
		}
	}
	return true
}
