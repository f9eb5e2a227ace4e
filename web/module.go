package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/iliasjump/config"
	"github.com/skekre98/iliasjump/core"
	"github.com/skekre98/iliasjump/metrics"
)

const Name = "web"

func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

// Routes returns the router rooted at server.basePath. Application routes
// go here; the actuator registers on the bare engine.
func Routes(c core.Container) Router {
	return core.Get[Router](c)
}

func Module(opts ...Option) core.Module {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &webModule{opts: options}
}

type webModule struct {
	opts   Options
	server *http.Server
	done   chan struct{}
}

func (m *webModule) Name() string        { return Name }
func (m *webModule) DependsOn() []string { return nil }

func (m *webModule) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	l := core.Get[*slog.Logger](c)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(RequestID())
	r.Use(RecoveryProblem(l))
	r.Use(AccessLog(l))
	if mx, ok := core.Lookup[*metrics.Metrics](c); ok {
		r.Use(Metrics(mx))
	}
	r.Use(m.opts.Middlewares...)

	r.NoRoute(func(ctx *gin.Context) {
		Problem(ctx, http.StatusNotFound, "no route for "+ctx.Request.URL.Path)
	})

	var root Router = r
	if bp := cfg.Server.BasePath; bp != "" && bp != "/" {
		root = r.Group(bp)
	}
	for _, reg := range m.opts.Routes {
		reg(root)
	}

	m.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	core.Put[*gin.Engine](c, r)
	core.Put[Router](c, root)
	core.Put[*http.Server](c, m.server)
	return nil
}

// Start binds the listener synchronously so a busy port fails startup
// instead of surfacing later in a log line.
func (m *webModule) Start(ctx context.Context, c core.Container) error {
	l := core.Get[*slog.Logger](c)

	ln, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", m.server.Addr, err)
	}

	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		l.Info("http server starting", "addr", ln.Addr().String())
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (m *webModule) Stop(ctx context.Context, c core.Container) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if m.done != nil {
		<-m.done
	}
	return nil
}
