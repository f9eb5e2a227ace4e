package redirect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skekre98/iliasjump/config"
	"github.com/skekre98/iliasjump/core"
	"github.com/skekre98/iliasjump/metrics"
	"github.com/skekre98/iliasjump/web"
)

const Name = "redirect"

// Module registers the lookup endpoint and keeps its targets in sync with
// configuration reloads.
func Module() core.Module { return &module{} }

type module struct {
	svc    *Service
	path   string
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	m.logger = core.Get[*slog.Logger](c).With("module", Name)

	t, err := NewTargets(cfg.Redirect)
	if err != nil {
		return err
	}
	mx, _ := core.Lookup[*metrics.Metrics](c)

	m.svc = NewService(t, m.logger, mx)
	m.path = cfg.Redirect.Path
	core.Put(c, m.svc)

	web.Routes(c).GET(m.path, Handler(m.svc))
	return nil
}

func (m *module) Start(ctx context.Context, c core.Container) error {
	mgr, ok := core.Lookup[*config.Manager](c)
	if !ok {
		return nil
	}

	events := make(chan config.Event, 4)
	mgr.Subscribe(events)

	watchCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-watchCtx.Done():
				return
			case evt := <-events:
				if evt.Changed("redirect") {
					m.apply(evt)
				}
			}
		}
	}()
	return nil
}

func (m *module) apply(evt config.Event) {
	cfg, ok := evt.NewConfig.(*config.Root)
	if !ok {
		m.logger.Warn("unexpected config type in event", "type", fmt.Sprintf("%T", evt.NewConfig))
		return
	}
	t, err := NewTargets(cfg.Redirect)
	if err != nil {
		m.logger.Error("keeping previous redirect targets", "error", err)
		return
	}
	m.svc.SetTargets(t)
	m.logger.Info("redirect targets updated", "baseURL", t.BaseURL(), "status", t.Status)

	if cfg.Redirect.Path != m.path {
		m.logger.Warn("redirect path changes need a restart", "current", m.path, "configured", cfg.Redirect.Path)
	}
}

func (m *module) Stop(ctx context.Context, c core.Container) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	return nil
}
