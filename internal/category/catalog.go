package category

import "fmt"

// Set is an additional category document used by a group of characters.
type Set struct {
	Name       string
	Path       string
	Characters []string
}

// Catalog resolves the category list for a character.
type Catalog struct {
	primary []string
	byChar  map[string][]string
}

// NewCatalog returns a catalog where every character uses primary.
func NewCatalog(primary []string) *Catalog {
	if len(primary) == 0 {
		primary = []string{DefaultName}
	}
	return &Catalog{primary: primary, byChar: map[string][]string{}}
}

// Assign makes the listed characters use names instead of the primary list.
func (c *Catalog) Assign(names []string, characters ...string) {
	if len(names) == 0 {
		return
	}
	for _, key := range characters {
		c.byChar[key] = names
	}
}

// Primary returns the category list used by unassigned characters.
func (c *Catalog) Primary() []string {
	return c.primary
}

// For returns the category list for a character key.
func (c *Catalog) For(characterKey string) []string {
	if names, ok := c.byChar[characterKey]; ok {
		return names
	}
	return c.primary
}

// LoadCatalog loads the primary document and every set. Problems are
// collected as warnings; the catalog is always usable.
func LoadCatalog(primaryPath, defaultName string, sets []Set) (*Catalog, []error) {
	var warnings []error
	primary, err := LoadOrDefault(primaryPath, defaultName)
	if err != nil {
		warnings = append(warnings, err)
	}
	cat := NewCatalog(primary)
	for _, set := range sets {
		if set.Path == "" {
			warnings = append(warnings, fmt.Errorf("category set %q has no path", set.Name))
			continue
		}
		names, err := LoadOrDefault(set.Path, defaultName)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("category set %q: %w", set.Name, err))
		}
		cat.Assign(names, set.Characters...)
	}
	return cat, warnings
}
