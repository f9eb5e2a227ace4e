package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/skekre98/iliasjump/config"
)

// ENV_PREFIX is the default prefix for environment variables.
// Only variables starting with the prefix are loaded.
const ENV_PREFIX = "ILIASJUMP_"

// EnvSource loads configuration from environment variables.
//
// Variables are filtered by prefix, the prefix is stripped, the rest is
// lower-cased and split on underscores into a nested map:
//
//	ILIASJUMP_SERVER_ADDR=:9090
//	  -> {server: {addr: ":9090"}}
//
//	ILIASJUMP_REDIRECT_BASEURL=https://ilias.example.org/ilias.php
//	  -> {redirect: {baseurl: "https://ilias.example.org/ilias.php"}}
//
// Keys are matched to struct fields case-insensitively during binding, so
// "baseurl" fills the field tagged `config:"baseURL"`.
//
// DotenvFiles are read first with godotenv; missing files are skipped and
// variables from the real environment take precedence over them.
//
// Conflict handling: once a leaf exists at a path, no nested values are
// created beneath it (ILIASJUMP_DB=x wins over ILIASJUMP_DB_HOST=y when seen first).
type EnvSource struct {
	// Prefix overrides ENV_PREFIX when set.
	Prefix string

	DotenvFiles []string
}

// Name returns the identifier for this source.
func (e *EnvSource) Name() string { return "env" }

// Load reads all matching variables. It fails only when a dotenv file
// exists but cannot be parsed.
func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	vars, err := e.environ()
	if err != nil {
		return nil, err
	}
	return loadEnvVars(vars, e.prefix()), nil
}

// Watch is a no-op: the environment is fixed for the process lifetime.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	return nil
}

func (e *EnvSource) prefix() string {
	if e.Prefix != "" {
		return e.Prefix
	}
	return ENV_PREFIX
}

// environ returns dotenv entries followed by os.Environ, so later (real)
// entries overwrite earlier ones when loaded into the map.
func (e *EnvSource) environ() ([]string, error) {
	var lines []string
	for _, path := range e.DotenvFiles {
		vals, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read dotenv %s: %w", path, err)
		}
		for k, v := range vals {
			lines = append(lines, k+"="+v)
		}
	}
	return append(lines, os.Environ()...), nil
}

func loadEnvVars(environ []string, prefix string) map[string]any {
	flat := make(map[string]string)
	var order []string

	for _, env := range environ {
		key, value, found := parseEnvLine(env)
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if _, seen := flat[key]; !seen {
			order = append(order, key)
		}
		flat[key] = value
	}

	result := make(map[string]any)
	for _, key := range order {
		setNestedValue(result, strings.Split(key, "_"), flat[key])
	}
	return result
}

func parseEnvLine(env string) (string, string, bool) {
	return strings.Cut(env, "=")
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		if existing, exists := current[segment]; exists {
			nested, ok := existing.(map[string]any)
			if !ok {
				// a leaf already lives here
				return
			}
			current = nested
		} else {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
		}
	}
}
