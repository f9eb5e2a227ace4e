// Package catalog holds the course catalog model and the search matcher.
//
// A Catalog is supplied whole with every lookup; nothing here caches or
// owns catalog data.
package catalog

// Module is one catalog entry: an ILIAS resource with a display name and
// optional exact-match abbreviations.
type Module struct {
	ID            int64    `json:"id" validate:"min=0"`
	Name          string   `json:"name" validate:"min=1"`
	Abbreviations []string `json:"abbr,omitempty" validate:"omitempty,dive,min=1"`
}

// Catalog is an ordered list of modules. Order is the only tie-break when
// several modules match; duplicate ids or names are allowed.
type Catalog []Module

// Phase names the matching rule that selected a module.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseAbbreviation
	PhasePrefix
)

func (p Phase) String() string {
	switch p {
	case PhaseAbbreviation:
		return "abbreviation"
	case PhasePrefix:
		return "prefix"
	default:
		return "none"
	}
}

// Match is the result of a successful Find.
type Match struct {
	Module Module
	// Index is the module's position in the catalog.
	Index int
	Phase Phase
}
