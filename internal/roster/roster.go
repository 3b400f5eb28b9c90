// Package roster discovers characters from a directory of portrait images.
package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verte-zerg/streaks/internal/model"
	"github.com/verte-zerg/streaks/internal/names"
)

// ErrAssetDirectoryMissing is returned when the portrait directory does not exist.
var ErrAssetDirectoryMissing = errors.New("asset directory missing")

var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
}

// Build scans dir for portrait images and returns the ordered roster.
// Keys listed in ov.Order come first in that order; the remaining characters
// follow in ASCII order of their key.
func Build(dir string, ov Overrides) ([]model.Character, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetDirectoryMissing, dir)
		}
		return nil, fmt.Errorf("failed to stat asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrAssetDirectoryMissing, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	byKey := make(map[string]model.Character, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if _, ok := imageExts[strings.ToLower(ext)]; !ok {
			continue
		}
		key := strings.TrimSuffix(name, ext)
		if key == "" {
			continue
		}
		if _, dup := byKey[key]; dup {
			continue
		}
		display := names.Normalize(key)
		if override, ok := ov.Names[key]; ok && strings.TrimSpace(override) != "" {
			display = strings.TrimSpace(override)
		}
		if display == "" {
			display = key
		}
		byKey[key] = model.Character{
			Key:       key,
			Name:      display,
			ImagePath: filepath.Join(dir, name),
		}
	}
	return order(byKey, ov.Order), nil
}

func order(byKey map[string]model.Character, explicit []string) []model.Character {
	out := make([]model.Character, 0, len(byKey))
	placed := make(map[string]struct{}, len(explicit))
	for _, key := range explicit {
		ch, ok := byKey[key]
		if !ok {
			continue
		}
		if _, seen := placed[key]; seen {
			continue
		}
		placed[key] = struct{}{}
		out = append(out, ch)
	}
	rest := make([]string, 0, len(byKey)-len(placed))
	for key := range byKey {
		if _, ok := placed[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, byKey[key])
	}
	return out
}

// Roster remembers where characters come from so it can be rebuilt on demand.
type Roster struct {
	dir           string
	overridesPath string
	characters    []model.Character
}

// New returns an unscanned roster. Call Rescan to populate it.
func New(dir, overridesPath string) *Roster {
	return &Roster{dir: dir, overridesPath: overridesPath}
}

// Dir returns the asset directory.
func (r *Roster) Dir() string {
	return r.dir
}

// Characters returns the current roster. The slice must not be modified.
func (r *Roster) Characters() []model.Character {
	return r.characters
}

// Rescan rebuilds the roster from disk. On failure the roster is left empty.
// A broken overrides document does not prevent the scan; its error is
// returned after the roster has been rebuilt without overrides.
func (r *Roster) Rescan() error {
	ov, ovErr := LoadOverrides(r.overridesPath)
	chars, err := Build(r.dir, ov)
	if err != nil {
		r.characters = nil
		return err
	}
	r.characters = chars
	if ovErr != nil {
		return ovErr
	}
	return nil
}
