// Package names turns portrait file names into display names.
package names

import (
	"strings"
	"unicode"
)

// Normalize converts an asset base name (without extension) into a display name.
//
// Underscores become spaces. When the name has at least one lowercase letter,
// a space is inserted before each uppercase letter that follows a lowercase
// one, so "TheNurse" becomes "The Nurse". Names without lowercase letters
// ("THENURSE") are treated as stylized and are not split. Runs of spaces are
// collapsed and the result is trimmed.
func Normalize(stem string) string {
	s := strings.ReplaceAll(stem, "_", " ")
	if hasLower(s) {
		s = splitCamel(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func splitCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
