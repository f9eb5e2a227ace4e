package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Manager orchestrates configuration loading from multiple sources,
// validates the configuration, and notifies subscribers of changes.
//
// The configuration is updated atomically: a reload that fails to load,
// decode or validate leaves the previous configuration in place. All public
// methods are safe for concurrent use.
type Manager struct {
	sources []ConfigSource
	config  any
	binder  *Binder
	logger  *slog.Logger

	mu   sync.RWMutex
	subs []chan Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures the behavior of a Manager.
type Options struct {
	// AutoReload starts a watcher per source and reloads whenever one of
	// them reports a change. Call Close to stop the watchers.
	AutoReload bool

	// Logger receives reload failures from watchers. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewManager creates a Manager that loads cfg (a pointer to a struct) from
// the provided sources. Sources are merged in order, so later sources win:
// with [defaults, file, env, cli], flags override everything else.
//
// Returns an error if the initial load or validation fails.
//
// Example:
//
//	var cfg config.Root
//	mgr, err := config.NewManager(&cfg, config.Options{AutoReload: true},
//	    &source.StaticSource{Values: config.Defaults()},
//	    &source.FileSource{BasePath: "configs", Optional: true},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
		logger:  logger,
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		m.startWatchers()
	}

	return m, nil
}

// Reload loads configuration from all sources, validates it, and atomically
// updates the configuration if validation succeeds. Subscribers are notified
// only when at least one top-level field changed.
//
// Returns an error if the context is cancelled, any source fails to load,
// or the merged values fail to bind or validate.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	newCfg := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Snapshot returns a copy of the current configuration. T must be the
// struct type whose pointer was given to NewManager.
func Snapshot[T any](m *Manager) T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.config.(*T)
}

// Subscribe registers a channel to receive configuration change events.
//
// Delivery is non-blocking: if the channel's buffer is full the event is
// dropped, so callers should use a buffered channel. The Manager never
// closes subscribed channels.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops the source watchers started by AutoReload and waits for them.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers() {
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	for _, src := range m.sources {
		ch := make(chan Event, 1)

		m.wg.Add(2)
		go func() {
			defer m.wg.Done()
			if err := src.Watch(ctx, ch); err != nil && ctx.Err() == nil {
				m.logger.Warn("config watch stopped", "source", src.Name(), "error", err)
			}
		}()
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					if err := m.Reload(ctx); err != nil && ctx.Err() == nil {
						m.logger.Error("config reload failed", "source", src.Name(), "error", err)
					}
				}
			}
		}()
	}
}
