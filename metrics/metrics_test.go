package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultRegistry(t *testing.T) {
	m := New(nil)
	require.NotNil(t, m.Registry)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
}

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("GET", "/api/redirect", "307", 0.002)
	m.ObserveLookup("redirect", "abbreviation", 12)
	m.ObserveLookup("not_found", "", 3)
	m.ObserveLookup("invalid", "", -1)
	m.ObserveIssue("db")
	m.ObserveIssue("db")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/redirect", "307")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectOutcomesTotal.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RedirectMatchPhase.WithLabelValues("abbreviation")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationIssuesTotal.WithLabelValues("db")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RedirectMatchPhase))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", "200", 0)
		m.ObserveLookup("home", "", 1)
		m.ObserveIssue("search")
	})
}
