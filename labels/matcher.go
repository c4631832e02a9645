// Package labels matches detector class names against sets of accepted spellings.
package labels

import (
	"strings"
	"unicode"
)

// Normalize lower-cases name and removes hyphens, underscores and whitespace,
// so "NO-Safety Vest" and "nosafetyvest" compare equal.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// AliasSet is a set of normalized spellings that all mean the same category
type AliasSet map[string]struct{}

// NewAliasSet normalizes aliases into a set
func NewAliasSet(aliases ...string) AliasSet {
	s := make(AliasSet, len(aliases))
	for _, a := range aliases {
		s[Normalize(a)] = struct{}{}
	}
	return s
}

// Matches reports whether className normalizes to one of the aliases
func (s AliasSet) Matches(className string) bool {
	_, ok := s[Normalize(className)]
	return ok
}

// Matches reports whether className normalizes to the same string as any of aliases
func Matches(className string, aliases []string) bool {
	n := Normalize(className)
	for _, a := range aliases {
		if Normalize(a) == n {
			return true
		}
	}
	return false
}
