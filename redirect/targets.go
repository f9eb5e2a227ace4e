package redirect

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skekre98/iliasjump/config"
)

// Targets turns redirect outcomes into ILIAS URLs.
type Targets struct {
	base            *url.URL
	RepositoryClass string
	HomeClass       string
	// Status is the HTTP redirect status code.
	Status int
}

// NewTargets validates cfg and builds Targets from it.
func NewTargets(cfg config.RedirectConfig) (Targets, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return Targets{}, fmt.Errorf("parse redirect base url: %w", err)
	}
	if !base.IsAbs() {
		return Targets{}, fmt.Errorf("redirect base url %q is not absolute", cfg.BaseURL)
	}
	status := cfg.StatusCode
	if status == 0 {
		status = http.StatusTemporaryRedirect
	}
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		return Targets{}, fmt.Errorf("redirect status %d is not a 3xx code", status)
	}
	return Targets{
		base:            base,
		RepositoryClass: cfg.RepositoryClass,
		HomeClass:       cfg.HomeClass,
		Status:          status,
	}, nil
}

// BaseURL returns the configured ILIAS entry point.
func (t Targets) BaseURL() string {
	if t.base == nil {
		return ""
	}
	return t.base.String()
}

// Location returns the redirect URL for o. Only KindRedirectTo and
// KindRedirectHome have one.
//
//	RedirectTo(42) -> <base>?baseClass=<repositoryClass>&ref_id=42
//	RedirectHome   -> <base>?baseClass=<homeClass>
func (t Targets) Location(o Outcome) (string, bool) {
	if t.base == nil {
		return "", false
	}
	u := *t.base
	q := u.Query()
	switch o.Kind {
	case KindRedirectTo:
		q.Set("baseClass", t.RepositoryClass)
		q.Set("ref_id", strconv.FormatInt(o.ResourceID, 10))
	case KindRedirectHome:
		q.Set("baseClass", t.HomeClass)
	default:
		return "", false
	}
	u.RawQuery = q.Encode()
	return u.String(), true
}
