package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skekre98/iliasjump/actuator"
	"github.com/skekre98/iliasjump/config"
	"github.com/skekre98/iliasjump/config/source"
	"github.com/skekre98/iliasjump/core"
	"github.com/skekre98/iliasjump/logging"
	"github.com/skekre98/iliasjump/metrics"
	"github.com/skekre98/iliasjump/redirect"
	"github.com/skekre98/iliasjump/sentry"
	"github.com/skekre98/iliasjump/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve [--section.key=value ...]",
		Short: "Start the HTTP redirect service",
		Example: `  iliasjump serve
  iliasjump serve --server.addr=:9090 --redirect.statusCode=302
  ILIASJUMP_LOGGING_LEVEL=debug iliasjump serve --profile prod`,
		// dotted config flags are read by the cli config source
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload configuration when files in --config-dir change")
	return cmd
}

func loadConfig(opts *rootOptions, autoReload bool, logger *slog.Logger, extra ...config.ConfigSource) (*config.Manager, error) {
	var cfg config.Root
	sources := []config.ConfigSource{
		&source.StaticSource{Values: config.Defaults(), Label: "defaults"},
		&source.FileSource{BasePath: opts.configDir, Profile: opts.profile, Optional: true},
		&source.EnvSource{DotenvFiles: []string{".env"}},
	}
	sources = append(sources, extra...)

	mgr, err := config.NewManager(&cfg, config.Options{AutoReload: autoReload, Logger: logger}, sources...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return mgr, nil
}

func runServe(ctx context.Context, opts *rootOptions, watch bool) error {
	boot := logging.New(config.LoggingConfig{}, os.Stderr)
	mgr, err := loadConfig(opts, watch, boot, &source.CLISource{})
	if err != nil {
		return err
	}
	defer mgr.Close()

	cfg := config.Snapshot[config.Root](mgr)
	logger := logging.New(cfg.Logging, os.Stdout).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)

	if err := sentry.Initialize(cfg.Observability.Sentry, cfg.App); err != nil {
		return err
	}
	defer sentry.Flush(2 * time.Second)

	var middlewares []web.Handler
	if sentry.Enabled() {
		middlewares = append(middlewares, sentry.Middleware())
		logger.Info("sentry error reporting enabled")
	}

	app := core.NewApp(
		logger,
		web.Module(web.WithMiddlewares(middlewares...)),
		actuator.Module(),
		redirect.Module(),
	)

	core.Put(app.Container, cfg)
	core.Put(app.Container, logger)
	core.Put(app.Container, mgr)
	if cfg.Observability.Metrics.Enabled {
		core.Put(app.Container, metrics.New(nil))
	}

	return app.Run(ctx)
}
