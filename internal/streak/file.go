package streak

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/streaks/internal/model"
)

const documentVersion = 1

type document struct {
	Version int          `json:"version"`
	Records []fileRecord `json:"records"`
}

type rawDocument struct {
	Version json.RawMessage   `json:"version"`
	Records []json.RawMessage `json:"records"`
}

type fileRecord struct {
	Character string `json:"character"`
	Category  string `json:"category"`
	Current   int    `json:"current"`
	Best      int    `json:"best"`
}

// LoadReport summarizes what Load recovered from the state document.
type LoadReport struct {
	Loaded   int
	Skipped  int
	Warnings []string
}

// Unreadable reports whether anything in the document had to be dropped or repaired.
func (r LoadReport) Unreadable() bool {
	return len(r.Warnings) > 0
}

func (r *LoadReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Load reads the state document at path into a new store. It never fails:
// a missing file yields an empty store, an unparseable file yields an empty
// store with a warning, and malformed entries are skipped one by one.
func Load(path string, opts ...Option) (*Store, LoadReport) {
	st := New(opts...)
	var report LoadReport

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			report.warnf("failed to read %s: %v", path, err)
		}
		return st, report
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return st, report
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		report.warnf("failed to parse %s: %v", path, err)
		return st, report
	}
	if len(raw.Version) > 0 {
		var version int
		if err := json.Unmarshal(raw.Version, &version); err != nil {
			report.warnf("%s has unreadable version %s; reading records anyway", path, raw.Version)
		} else if version > documentVersion {
			report.warnf("%s has newer version %d; reading known fields only", path, version)
		}
	}

	for i, msg := range raw.Records {
		var rec fileRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			report.Skipped++
			report.warnf("record %d: %v", i, err)
			continue
		}
		if rec.Character == "" || rec.Category == "" {
			report.Skipped++
			report.warnf("record %d: missing character or category", i)
			continue
		}
		if rec.Current < 0 || rec.Best < 0 {
			report.Skipped++
			report.warnf("record %d (%s/%s): negative counter", i, rec.Character, rec.Category)
			continue
		}
		if rec.Best < rec.Current {
			report.warnf("record %d (%s/%s): best %d below current %d, raised", i, rec.Character, rec.Category, rec.Best, rec.Current)
			rec.Best = rec.Current
		}
		key := model.Key{Character: rec.Character, Category: rec.Category}
		if _, dup := st.records[key]; dup {
			report.Skipped++
			report.warnf("record %d (%s/%s): duplicate entry ignored", i, rec.Character, rec.Category)
			continue
		}
		st.put(key, model.Record{Current: rec.Current, Best: rec.Best})
		report.Loaded++
	}
	return st, report
}

// Save writes the full record set to path atomically.
func (s *Store) Save(path string) error {
	return WriteFile(path, s.Snapshot())
}

// WriteFile writes entries to path through a temporary file in the same
// directory, so an interrupted write leaves the previous document intact.
func WriteFile(path string, entries []Entry) error {
	doc := document{Version: documentVersion, Records: make([]fileRecord, 0, len(entries))}
	for _, e := range entries {
		doc.Records = append(doc.Records, fileRecord{
			Character: e.Key.Character,
			Category:  e.Key.Category,
			Current:   e.Record.Current,
			Best:      e.Record.Best,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode streaks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "streaks-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync state file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
