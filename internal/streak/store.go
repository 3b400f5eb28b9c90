// Package streak owns the per-character, per-category streak counters.
package streak

import (
	"sort"

	"github.com/verte-zerg/streaks/internal/model"
)

// Link keeps the personal best of To at least as high as the personal best
// of From for the same character.
type Link struct {
	From string
	To   string
}

// Entry is a record together with its key, as stored on disk.
type Entry struct {
	Key    model.Key
	Record model.Record
}

// Store holds the sparse record set. It is not safe for concurrent use;
// callers mutate it from a single event loop and hand Snapshots to writers.
type Store struct {
	records map[model.Key]model.Record
	links   []Link
}

// Option configures a Store.
type Option func(*Store)

// WithLinks installs personal-best links applied after every win.
func WithLinks(links ...Link) Option {
	return func(s *Store) {
		for _, l := range links {
			if l.From == "" || l.To == "" || l.From == l.To {
				continue
			}
			s.links = append(s.links, l)
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{records: map[model.Key]model.Record{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the record for key, or the zero record when it was never touched.
func (s *Store) Get(key model.Key) model.Record {
	return s.records[key]
}

// RecordWin increments the current streak and raises the personal best when exceeded.
func (s *Store) RecordWin(key model.Key) model.Record {
	rec := s.records[key]
	rec.Current++
	if rec.Current > rec.Best {
		rec.Best = rec.Current
	}
	s.records[key] = rec
	s.applyLinks(key.Character)
	return s.records[key]
}

// RecordLoss resets the current streak. The personal best is kept.
func (s *Store) RecordLoss(key model.Key) model.Record {
	rec := s.records[key]
	rec.Current = 0
	s.records[key] = rec
	return rec
}

// Reset forgets the record for key, including its personal best.
func (s *Store) Reset(key model.Key) model.Record {
	delete(s.records, key)
	return model.Record{}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Snapshot returns a copy of all records sorted by character then category.
func (s *Store) Snapshot() []Entry {
	out := make([]Entry, 0, len(s.records))
	for k, r := range s.records {
		out = append(out, Entry{Key: k, Record: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Character != out[j].Key.Character {
			return out[i].Key.Character < out[j].Key.Character
		}
		return out[i].Key.Category < out[j].Key.Category
	})
	return out
}

func (s *Store) put(key model.Key, rec model.Record) {
	s.records[key] = rec
}

func (s *Store) applyLinks(character string) {
	for _, l := range s.links {
		from, ok := s.records[model.Key{Character: character, Category: l.From}]
		if !ok || from.Best == 0 {
			continue
		}
		toKey := model.Key{Character: character, Category: l.To}
		to := s.records[toKey]
		if from.Best > to.Best {
			to.Best = from.Best
			s.records[toKey] = to
		}
	}
}
