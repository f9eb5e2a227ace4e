// Package sentry wires the Sentry SDK into the service. Reporting is off
// unless observability.sentry.dsn is set.
package sentry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/skekre98/iliasjump/config"
)

// Initialize sets up the global Sentry client. An empty DSN disables
// reporting and returns nil.
func Initialize(cfg config.SentryConfig, app config.AppInfo) error {
	if cfg.DSN == "" {
		return nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      app.Environment,
		Release:          app.Name + "@" + app.Version,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// Enabled reports whether a client is bound to the current hub.
func Enabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Middleware reports handler panics and re-panics so the recovery
// middleware still answers the request.
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// Flush waits up to timeout for buffered events to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
