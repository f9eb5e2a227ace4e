// Package config loads, validates and hot-reloads the service configuration.
//
// Values come from an ordered list of sources (see config/source) merged
// into one map, decoded into Root by Binder and validated with struct tags.
package config

// Defaults returns the built-in configuration layer. It is meant to be the
// first source handed to NewManager so every other source overrides it.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "iliasjump",
			"version":     "dev",
			"environment": "development",
		},
		"server": map[string]any{
			"addr":         ":8080",
			"readTimeout":  "5s",
			"writeTimeout": "10s",
			"idleTimeout":  "60s",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/actuator/metrics",
			},
			"sentry": map[string]any{
				"sampleRate": 1.0,
			},
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
		},
		"redirect": map[string]any{
			"path":            "/api/redirect",
			"baseURL":         "https://ilias.studium.kit.edu/ilias.php",
			"repositoryClass": "ilrepositorygui",
			"homeClass":       "ilmembershipoverviewgui",
			"statusCode":      307,
		},
	}
}
