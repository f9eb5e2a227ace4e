package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"sort"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long Stop hooks may take in total.
const DefaultShutdownTimeout = 15 * time.Second

type App struct {
	Modules         []Module
	Container       Container
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
}

func NewApp(logger *slog.Logger, mods ...Module) *App {
	return &App{
		Modules:         mods,
		Container:       NewContainer(),
		Logger:          logger,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Run configures and starts every module, blocks until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then stops modules in reverse order.
func (a *App) Run(ctx context.Context) error {
	order, err := topoSort(a.Modules)
	if err != nil {
		return err
	}

	for _, m := range order {
		if err := m.Configure(a.Container); err != nil {
			return fmt.Errorf("configure %s: %w", m.Name(), err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := make([]Module, 0, len(order))
	for _, m := range order {
		a.Logger.Info("starting module", "module", m.Name())
		if err := m.Start(ctx, a.Container); err != nil {
			// unwind whatever already came up
			_ = a.stopAll(started)
			return fmt.Errorf("start %s: %w", m.Name(), err)
		}
		started = append(started, m)
	}

	<-ctx.Done()
	return a.stopAll(started)
}

func (a *App) stopAll(started []Module) error {
	timeout := a.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for i := len(started) - 1; i >= 0; i-- {
		m := started[i]
		a.Logger.Info("stopping module", "module", m.Name())
		if err := m.Stop(shutdownCtx, a.Container); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func topoSort(mods []Module) ([]Module, error) {
	nameToMod := map[string]Module{}
	for _, m := range mods {
		if _, dup := nameToMod[m.Name()]; dup {
			return nil, errors.New("duplicate module name: " + m.Name())
		}
		nameToMod[m.Name()] = m
	}
	visited := map[string]bool{}
	temp := map[string]bool{}
	var out []Module
	var visit func(string) error

	visit = func(n string) error {
		if temp[n] {
			return errors.New("cycle detected at module " + n)
		}
		if visited[n] {
			return nil
		}
		temp[n] = true
		for _, d := range nameToMod[n].DependsOn() {
			if _, ok := nameToMod[d]; !ok {
				return errors.New("missing dependency: " + n + " depends on " + d)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		visited[n] = true
		temp[n] = false
		out = append(out, nameToMod[n])
		return nil
	}

	// Make iteration order stable.
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	sort.Strings(names)

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}
