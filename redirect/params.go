package redirect

import (
	"net/url"

	"github.com/skekre98/iliasjump/catalog"
)

// Query parameter names.
const (
	ParamDB           = "db"
	ParamSearch       = "search"
	ParamRedirectHome = "redirectHome"
)

// Params carries the raw inputs as received. A nil field means the
// parameter was absent, which is reported differently from an empty one.
type Params struct {
	DB           *string `param:"db" validate:"required,min=1"`
	Search       *string `param:"search" validate:"required,min=1"`
	RedirectHome *string `param:"redirectHome" validate:"required,min=1,oneof=true false"`
}

// ParamsFromQuery picks the first value of each parameter from q.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		DB:           first(q, ParamDB),
		Search:       first(q, ParamSearch),
		RedirectHome: first(q, ParamRedirectHome),
	}
}

func first(q url.Values, key string) *string {
	vs, ok := q[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

// SearchRequest is the validated, typed form of Params.
type SearchRequest struct {
	Catalog        catalog.Catalog
	SearchTerm     string
	FallbackOnMiss bool
}
