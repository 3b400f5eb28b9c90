// Package model defines shared data structures.
package model

import "time"

// Character is a selectable roster entry derived from a portrait asset.
type Character struct {
	Key       string
	Name      string
	ImagePath string
}

// Key identifies a streak record by character key and category name.
type Key struct {
	Character string
	Category  string
}

// Record holds the counters for one key.
type Record struct {
	Current int
	Best    int
}

// Outcome is the kind of state transition applied to a record.
type Outcome string

// Outcomes recorded in the event log.
const (
	OutcomeWin   Outcome = "win"
	OutcomeLoss  Outcome = "loss"
	OutcomeReset Outcome = "reset"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeReset:
		return true
	default:
		return false
	}
}

// Event describes an applied transition and the resulting record. Before is
// the record prior to the transition; it is not kept in the event log.
type Event struct {
	At      time.Time
	Key     Key
	Outcome Outcome
	Before  Record
	Record  Record
}

// Tally aggregates recorded outcomes for a key.
type Tally struct {
	Key    Key
	Wins   int
	Losses int
	LastAt time.Time
}

// HistoryFilter narrows history queries. Empty fields match everything.
type HistoryFilter struct {
	Character string
	Category  string
	Since     *time.Time
	Last      int
}
