package redirect

import (
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType = "invalid_type"
	CodeTooSmall    = "too_small"
	CodeCustom      = "custom"
)

// Issue is one validation problem. Path starts with the query parameter
// name and continues into the decoded catalog: ["db", 0, "abbr", 1].
type Issue struct {
	Code    string `json:"code"`
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// Field returns the query parameter the issue belongs to.
func (i Issue) Field() string {
	if len(i.Path) == 0 {
		return ""
	}
	s, _ := i.Path[0].(string)
	return s
}

func (i Issue) String() string {
	parts := make([]string, len(i.Path))
	for n, p := range i.Path {
		parts[n] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".") + ": " + i.Message
}

// Issues is an ordered list of validation problems, ordered by parameter
// (db, search, redirectHome) and then by position in the catalog.
type Issues []Issue

func (is Issues) Error() string {
	parts := make([]string, len(is))
	for n, i := range is {
		parts[n] = i.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}
