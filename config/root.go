package config

import "time"

type AppInfo struct {
	Name        string `config:"name" validate:"required"`
	Version     string `config:"version" validate:"required"`
	Environment string `config:"environment"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	BasePath     string        `config:"basePath"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `config:"format" validate:"omitempty,oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN        string  `config:"dsn" validate:"omitempty,url"`
	SampleRate float64 `config:"sampleRate" validate:"gte=0,lte=1"`
	Debug      bool    `config:"debug"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
	Sentry  SentryConfig  `config:"sentry"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath"`
}

// RedirectConfig describes where resolved searches are sent.
//
// Module matches go to BaseURL?baseClass=RepositoryClass&ref_id=<id>, the
// fallback goes to BaseURL?baseClass=HomeClass.
type RedirectConfig struct {
	Path            string `config:"path" validate:"required,startswith=/"`
	BaseURL         string `config:"baseURL" validate:"required,url"`
	RepositoryClass string `config:"repositoryClass" validate:"required"`
	HomeClass       string `config:"homeClass" validate:"required"`
	StatusCode      int    `config:"statusCode" validate:"omitempty,oneof=301 302 303 307 308"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Logging       LoggingConfig       `config:"logging"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
	Redirect      RedirectConfig      `config:"redirect"`
}
