package redirect

import "github.com/skekre98/iliasjump/catalog"

// NotFoundMessage is the error body for lookups without a match or fallback.
const NotFoundMessage = "No course found for that search string"

type Kind int

const (
	// KindUnknown is the zero Kind; a zero Outcome never redirects.
	KindUnknown Kind = iota
	KindRedirectTo
	KindRedirectHome
	KindNotFound
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindRedirectTo:
		return "redirect"
	case KindRedirectHome:
		return "home"
	case KindNotFound:
		return "not_found"
	case KindValidationFailed:
		return "invalid"
	default:
		return "unknown"
	}
}

// Outcome is the final decision for one lookup.
type Outcome struct {
	Kind Kind
	// ResourceID and Phase are set for KindRedirectTo.
	ResourceID int64
	Phase      catalog.Phase
	// Issues is set for KindValidationFailed.
	Issues Issues
}

// Resolve maps a matcher result and the fallback flag to an Outcome.
func Resolve(m catalog.Match, found, fallbackOnMiss bool) Outcome {
	switch {
	case found:
		return Outcome{Kind: KindRedirectTo, ResourceID: m.Module.ID, Phase: m.Phase}
	case fallbackOnMiss:
		return Outcome{Kind: KindRedirectHome}
	default:
		return Outcome{Kind: KindNotFound}
	}
}

// Invalid wraps validation issues in an Outcome.
func Invalid(issues Issues) Outcome {
	return Outcome{Kind: KindValidationFailed, Issues: issues}
}
