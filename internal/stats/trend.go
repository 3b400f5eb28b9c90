package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/streaks/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RateWindow is the number of recent games used for the rolling win rate.
const RateWindow = 10

// StreakLine renders the running streak after each event as a one-line
// sparkline scaled to the highest streak in events. Zero is always blank.
func StreakLine(events []model.Event) string {
	if len(events) == 0 {
		return ""
	}
	peak := 0
	for _, ev := range events {
		if ev.Record.Current > peak {
			peak = ev.Record.Current
		}
	}
	var b strings.Builder
	for _, ev := range events {
		if peak == 0 || ev.Record.Current <= 0 {
			b.WriteByte(sparkChars[0])
			continue
		}
		pos := float64(ev.Record.Current) / float64(peak)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RollingWinRate returns, for every win or loss in events, the win rate over
// the trailing window of games. Resets are not games and are skipped.
func RollingWinRate(events []model.Event, window int) []float64 {
	games := make([]float64, 0, len(events))
	for _, ev := range events {
		switch ev.Outcome {
		case model.OutcomeWin:
			games = append(games, 1)
		case model.OutcomeLoss:
			games = append(games, 0)
		}
	}
	return movingAverage(games, window)
}

func movingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}
