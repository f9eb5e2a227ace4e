// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPDurationSeconds *prometheus.HistogramVec

	// Redirect metrics
	RedirectOutcomesTotal *prometheus.CounterVec
	RedirectMatchPhase    *prometheus.CounterVec
	ValidationIssuesTotal *prometheus.CounterVec
	CatalogSize           prometheus.Histogram
}

// New creates a Metrics instance registered on registry. A nil registry gets
// a fresh one with the Go and process collectors attached.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iliasjump_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iliasjump_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by method and route",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),

		RedirectOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iliasjump_redirect_outcomes_total",
				Help: "Total number of redirect lookups by outcome",
			},
			[]string{"outcome"}, // outcome: redirect, home, not_found, invalid
		),

		RedirectMatchPhase: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iliasjump_redirect_match_phase_total",
				Help: "Total number of matched lookups by the rule that matched",
			},
			[]string{"phase"}, // phase: abbreviation, prefix
		),

		ValidationIssuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iliasjump_validation_issues_total",
				Help: "Total number of validation issues by query parameter",
			},
			[]string{"field"},
		),

		CatalogSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "iliasjump_catalog_size",
				Help:    "Number of modules in catalogs that passed validation",
				Buckets: prometheus.ExponentialBuckets(1, 4, 7), // 1 .. 4096
			},
		),
	}
}

// ObserveHTTP records one finished request. Nil receivers are no-ops.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPDurationSeconds.WithLabelValues(method, route).Observe(seconds)
}

// ObserveLookup records a completed lookup. phase is empty when nothing
// matched; catalogSize is negative when the catalog was not validated.
func (m *Metrics) ObserveLookup(outcome, phase string, catalogSize int) {
	if m == nil {
		return
	}
	m.RedirectOutcomesTotal.WithLabelValues(outcome).Inc()
	if phase != "" {
		m.RedirectMatchPhase.WithLabelValues(phase).Inc()
	}
	if catalogSize >= 0 {
		m.CatalogSize.Observe(float64(catalogSize))
	}
}

// ObserveIssue counts one validation issue for field.
func (m *Metrics) ObserveIssue(field string) {
	if m == nil {
		return
	}
	m.ValidationIssuesTotal.WithLabelValues(field).Inc()
}
