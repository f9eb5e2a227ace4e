package redirect

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/iliasjump/web"
)

// Handler serves GET lookups. Query parameters are db, search and
// redirectHome.
func Handler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := web.RequestIDFrom(c); id != "" {
			ctx = WithLogger(ctx, s.logger.With("request_id", id))
		}

		// one snapshot per request so a reload cannot split a response
		t := s.Targets()
		out := s.Resolve(ctx, ParamsFromQuery(c.Request.URL.Query()))

		switch out.Kind {
		case KindValidationFailed:
			c.JSON(http.StatusBadRequest, gin.H{"errors": out.Issues})
		case KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": NotFoundMessage})
		default:
			loc, ok := t.Location(out)
			if !ok {
				s.logger.Error("no redirect location", slog.String("outcome", out.Kind.String()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redirect target not configured"})
				return
			}
			c.Redirect(t.Status, loc)
		}
	}
}
