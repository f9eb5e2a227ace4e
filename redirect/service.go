package redirect

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/skekre98/iliasjump/metrics"
)

type loggerKey struct{}

// WithLogger returns a context carrying a request-scoped logger.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Service runs the validate, match and resolve pipeline. It keeps no state
// between calls apart from the redirect targets, which may be replaced at
// any time by SetTargets.
type Service struct {
	validator *Validator
	targets   atomic.Pointer[Targets]
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService builds a Service. m may be nil.
func NewService(t Targets, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		validator: NewValidator(),
		metrics:   m,
		logger:    logger,
	}
	s.SetTargets(t)
	return s
}

func (s *Service) Targets() Targets {
	return *s.targets.Load()
}

func (s *Service) SetTargets(t Targets) {
	s.targets.Store(&t)
}

// Resolve validates p, searches the supplied catalog and decides the
// outcome.
func (s *Service) Resolve(ctx context.Context, p Params) Outcome {
	l := s.logger
	if rl, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && rl != nil {
		l = rl
	}

	req, issues := s.validator.Validate(p)
	if len(issues) > 0 {
		for _, iss := range issues {
			s.metrics.ObserveIssue(iss.Field())
		}
		s.metrics.ObserveLookup(KindValidationFailed.String(), "", -1)
		l.DebugContext(ctx, "redirect input rejected", "issues", len(issues), "first", issues[0].String())
		return Invalid(issues)
	}

	m, found := req.Catalog.Find(req.SearchTerm)
	out := Resolve(m, found, req.FallbackOnMiss)

	phase := ""
	if out.Kind == KindRedirectTo {
		phase = out.Phase.String()
	}
	s.metrics.ObserveLookup(out.Kind.String(), phase, len(req.Catalog))

	l.DebugContext(ctx, "redirect resolved",
		"search", req.SearchTerm,
		"catalog_size", len(req.Catalog),
		"outcome", out.Kind.String(),
		"phase", out.Phase.String(),
		"ref_id", out.ResourceID,
	)
	return out
}
