package redirect

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/iliasjump/catalog"
	"github.com/skekre98/iliasjump/metrics"
)

const analysisDB = `[{"id":1,"name":"Analysis I","abbr":["ANA1"]},{"id":2,"name":"Analysis II"}]`

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestService(t *testing.T, m *metrics.Metrics) *Service {
	t.Helper()
	tg, err := NewTargets(iliasConfig())
	require.NoError(t, err)
	return NewService(tg, discard(), m)
}

func TestService_Resolve(t *testing.T) {
	s := newTestService(t, nil)

	tests := []struct {
		name   string
		search string
		home   string
		want   Outcome
	}{
		{name: "abbreviation", search: "ANA1", home: "false", want: Outcome{Kind: KindRedirectTo, ResourceID: 1, Phase: catalog.PhaseAbbreviation}},
		{name: "first prefix", search: "analysis", home: "false", want: Outcome{Kind: KindRedirectTo, ResourceID: 1, Phase: catalog.PhasePrefix}},
		{name: "second by longer prefix", search: "Analysis II", home: "false", want: Outcome{Kind: KindRedirectTo, ResourceID: 2, Phase: catalog.PhasePrefix}},
		{name: "miss with home", search: "zzz", home: "true", want: Outcome{Kind: KindRedirectHome}},
		{name: "miss", search: "zzz", home: "false", want: Outcome{Kind: KindNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Resolve(context.Background(), params(str(analysisDB), str(tt.search), str(tt.home)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Resolve_Invalid(t *testing.T) {
	s := newTestService(t, nil)

	got := s.Resolve(context.Background(), params(nil, str(""), str("maybe")))

	assert.Equal(t, KindValidationFailed, got.Kind)
	require.Len(t, got.Issues, 3)
	assert.Equal(t, []string{"db", "search", "redirectHome"},
		[]string{got.Issues[0].Field(), got.Issues[1].Field(), got.Issues[2].Field()})
}

func TestService_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := newTestService(t, m)
	ctx := context.Background()

	s.Resolve(ctx, params(str(analysisDB), str("ANA1"), str("false")))
	s.Resolve(ctx, params(str(analysisDB), str("analysis"), str("false")))
	s.Resolve(ctx, params(str(analysisDB), str("zzz"), str("true")))
	s.Resolve(ctx, params(nil, nil, str("true")))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RedirectOutcomesTotal.WithLabelValues("redirect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectOutcomesTotal.WithLabelValues("home")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectOutcomesTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectMatchPhase.WithLabelValues("abbreviation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectMatchPhase.WithLabelValues("prefix")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationIssuesTotal.WithLabelValues("db")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationIssuesTotal.WithLabelValues("search")))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "iliasjump_catalog_size" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(3), samples)
}

func TestService_RequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestService(t, nil)

	ctx := WithLogger(context.Background(), l.With("request_id", "r-1"))
	s.Resolve(ctx, params(str(analysisDB), str("ANA1"), str("false")))

	assert.Contains(t, buf.String(), "request_id=r-1")
	assert.Contains(t, buf.String(), "outcome=redirect")
	assert.Contains(t, buf.String(), "phase=abbreviation")
}

func TestService_SetTargets(t *testing.T) {
	s := newTestService(t, nil)
	cfg := iliasConfig()
	cfg.BaseURL = "https://ilias.example.org/ilias.php"
	next, err := NewTargets(cfg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Resolve(context.Background(), params(str(analysisDB), str("ANA1"), str("false")))
				_ = s.Targets().BaseURL()
			}
		}()
	}
	s.SetTargets(next)
	wg.Wait()

	assert.Equal(t, "https://ilias.example.org/ilias.php", s.Targets().BaseURL())
}
