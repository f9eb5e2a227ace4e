package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Find returns the first module matching term.
//
// Abbreviations are tried first, across the whole catalog: a module matches
// when one of its tokens equals term exactly (case-sensitive). Only when no
// abbreviation matches are names considered: a module matches when its
// lower-cased name starts with the lower-cased term. Abbreviations are never
// prefix-matched and names are never matched mid-string.
//
// Find is safe for concurrent use on the same catalog.
func (c Catalog) Find(term string) (Match, bool) {
	if m, ok := c.findAbbreviation(term); ok {
		return m, true
	}
	return c.findNamePrefix(term)
}

func (c Catalog) findAbbreviation(term string) (Match, bool) {
	for i, mod := range c {
		if slices.Contains(mod.Abbreviations, term) {
			return Match{Module: mod, Index: i, Phase: PhaseAbbreviation}, true
		}
	}
	return Match{}, false
}

func (c Catalog) findNamePrefix(term string) (Match, bool) {
	// Casers keep state, so each call gets its own.
	lower := cases.Lower(language.Und)
	prefix := lower.String(term)
	for i, mod := range c {
		if strings.HasPrefix(lower.String(mod.Name), prefix) {
			return Match{Module: mod, Index: i, Phase: PhasePrefix}, true
		}
	}
	return Match{}, false
}
