// Package history records every streak transition in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/streaks/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for the event log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			recorded_at TEXT NOT NULL,
			character TEXT NOT NULL,
			category TEXT NOT NULL,
			outcome TEXT NOT NULL,
			streak_current INTEGER NOT NULL,
			streak_best INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_recorded_at ON events(recorded_at);`,
		`CREATE INDEX IF NOT EXISTS idx_events_key ON events(character, category);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertEvent appends an event to the log.
func (s *Store) InsertEvent(ctx context.Context, ev model.Event) (int64, error) {
	if !ev.Outcome.Valid() {
		return 0, fmt.Errorf("unknown outcome %q", ev.Outcome)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (recorded_at, character, category, outcome, streak_current, streak_best)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.At.UTC().Format(timeLayout),
		ev.Key.Character,
		ev.Key.Category,
		string(ev.Outcome),
		ev.Record.Current,
		ev.Record.Best,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func whereClause(f model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Character != "" {
		clauses = append(clauses, "character = ?")
		args = append(args, f.Character)
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Since != nil {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

// ListEvents returns matching events in chronological order. When f.Last is
// positive only the most recent f.Last events are returned.
func (s *Store) ListEvents(ctx context.Context, f model.HistoryFilter) ([]model.Event, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`SELECT recorded_at, character, category, outcome, streak_current, streak_best
		FROM events
		WHERE %s
		ORDER BY recorded_at DESC, id DESC`, where)
	if f.Last > 0 {
		query += " LIMIT ?"
		args = append(args, f.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		var recordedAt, outcome string
		if err := rows.Scan(&recordedAt, &ev.Key.Character, &ev.Key.Category, &outcome, &ev.Record.Current, &ev.Record.Best); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, err
		}
		ev.At = parsed
		ev.Outcome = model.Outcome(outcome)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// Tallies counts wins and losses per key, ordered by character then category.
func (s *Store) Tallies(ctx context.Context, f model.HistoryFilter) ([]model.Tally, error) {
	where, args := whereClause(f)
	query := fmt.Sprintf(`SELECT character, category,
		SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END) AS wins,
		SUM(CASE WHEN outcome = 'loss' THEN 1 ELSE 0 END) AS losses,
		MAX(recorded_at) AS last_at
		FROM events
		WHERE %s
		GROUP BY character, category
		ORDER BY character, category`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Tally
	for rows.Next() {
		var t model.Tally
		var lastAt string
		if err := rows.Scan(&t.Key.Character, &t.Key.Category, &t.Wins, &t.Losses, &lastAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, lastAt)
		if err != nil {
			return nil, err
		}
		t.LastAt = parsed
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
