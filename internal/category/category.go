// Package category loads streak category definitions from line-oriented files.
package category

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the category used when none are defined.
const DefaultName = "Default"

// ErrNoCategoriesDefined is returned when a category document has no usable lines.
var ErrNoCategoriesDefined = errors.New("no categories defined")

const commentPrefix = "#"

// Parse reads one category per line. Blank lines and lines starting with '#'
// are ignored; duplicates keep their first occurrence.
func Parse(r io.Reader) ([]string, error) {
	seen := map[string]struct{}{}
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoCategoriesDefined
	}
	return names, nil
}

// LoadOrCreate reads the category document at path. When no document exists
// at path it is created with authoring instructions and defaults, and the
// defaults are returned. A failure to create the document, including a parent
// path that is not a directory, is returned together with the defaults.
func LoadOrCreate(path string, defaults []string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if _, serr := os.Stat(path); serr == nil {
			return nil, fmt.Errorf("failed to open categories: %w", err)
		}
		out := append([]string(nil), defaults...)
		if werr := writeTemplate(path, defaults); werr != nil {
			return out, werr
		}
		return out, nil
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only category file.
			_ = cerr
		}
	}()
	names, err := Parse(file)
	if err != nil {
		if errors.Is(err, ErrNoCategoriesDefined) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return names, nil
}

// LoadOrDefault loads categories and falls back to a single default category
// when nothing usable is found. The returned warning is nil when no fallback
// or write problem occurred.
func LoadOrDefault(path, defaultName string) ([]string, error) {
	if strings.TrimSpace(defaultName) == "" {
		defaultName = DefaultName
	}
	names, err := LoadOrCreate(path, []string{defaultName})
	if len(names) > 0 {
		return names, err
	}
	return []string{defaultName}, err
}

// Template renders the document written on first run.
func Template(defaults []string) string {
	var b strings.Builder
	b.WriteString("# Streak categories\n")
	b.WriteString("# Each line is one streak category tracked separately for every character.\n")
	b.WriteString("# Lines starting with # are comments and are ignored.\n")
	b.WriteString("# Empty lines are ignored, and repeated names count once.\n")
	b.WriteString("# The first category is selected when a character is picked.\n")
	b.WriteString("#\n")
	b.WriteString("# Default categories:\n")
	for _, name := range defaults {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeTemplate(path string, defaults []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create categories directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template(defaults)), 0o644); err != nil {
		return fmt.Errorf("failed to write categories: %w", err)
	}
	return nil
}
