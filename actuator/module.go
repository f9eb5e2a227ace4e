package actuator

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/iliasjump/config"
	"github.com/skekre98/iliasjump/core"
	"github.com/skekre98/iliasjump/metrics"
	"github.com/skekre98/iliasjump/web"
)

const Name = "actuator"

type module struct {
	started time.Time
}

func Module() core.Module { return &module{} }

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Configure(c core.Container) error {
	engine := web.Engine(c)
	cfg := core.Get[config.Root](c)

	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status": "UP",
			"checks": []gin.H{},
		})
	})

	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":        cfg.App.Name,
				"version":     cfg.App.Version,
				"environment": cfg.App.Environment,
			},
			"redirect": gin.H{
				"path":    cfg.Redirect.Path,
				"baseURL": cfg.Redirect.BaseURL,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"uptime":       time.Since(m.started).Round(time.Second).String(),
				"pid":          os.Getpid(),
			},
		})
	})

	if cfg.Observability.Metrics.Enabled {
		mx, ok := core.Lookup[*metrics.Metrics](c)
		if !ok {
			mx = metrics.New(nil)
			core.Put(c, mx)
		}
		handler := promhttp.HandlerFor(mx.Registry, promhttp.HandlerOpts{Registry: mx.Registry})
		engine.GET(metricsPath(cfg), gin.WrapH(handler))
	}

	return nil
}

// metricsPath prefers observability.metrics.path and falls back to
// <actuator.basePath>/metrics.
func metricsPath(cfg config.Root) string {
	if p := cfg.Observability.Metrics.Path; p != "" {
		return p
	}
	return cfg.Actuator.BasePath + "/metrics"
}

func (m *module) Start(_ context.Context, _ core.Container) error {
	m.started = time.Now()
	return nil
}

func (m *module) Stop(_ context.Context, _ core.Container) error { return nil }
