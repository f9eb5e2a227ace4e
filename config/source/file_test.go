package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skekre98/iliasjump/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", `
server:
  addr: ":8080"
redirect:
  baseURL: https://ilias.studium.kit.edu/ilias.php
  statusCode: 307
`)
	writeFile(t, dir, "application.prod.yml", `
redirect:
  statusCode: 308
logging:
  format: json
`)

	t.Run("base only", func(t *testing.T) {
		got, err := (&FileSource{BasePath: dir}).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"server":   map[string]any{"addr": ":8080"},
			"redirect": map[string]any{"baseURL": "https://ilias.studium.kit.edu/ilias.php", "statusCode": 307},
		}, got)
	})

	t.Run("profile replaces top level sections", func(t *testing.T) {
		got, err := (&FileSource{BasePath: dir, Profile: "prod"}).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"statusCode": 308}, got["redirect"])
		assert.Equal(t, map[string]any{"format": "json"}, got["logging"])
		assert.Equal(t, map[string]any{"addr": ":8080"}, got["server"])
	})

	t.Run("missing profile is ignored", func(t *testing.T) {
		got, err := (&FileSource{BasePath: dir, Profile: "staging"}).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestFileSource_Load_Missing(t *testing.T) {
	dir := t.TempDir()

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	got, err := (&FileSource{BasePath: dir, Optional: true}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSource_Load_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", "redirect: [unclosed\n")

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	assert.ErrorContains(t, err, "application.yaml")
}

func TestFileSource_Watch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", "app:\n  name: iliasjump\n")

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan config.Event, 1)
	done := make(chan error, 1)
	go func() { done <- (&FileSource{BasePath: dir}).Watch(ctx, ch) }()

	// unrelated files do not trigger
	writeFile(t, dir, "notes.txt", "hello")

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "application.yaml"), []byte("app:\n  name: renamed\n"), 0o600)
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestFileSource_Watch_MissingDir(t *testing.T) {
	src := &FileSource{BasePath: filepath.Join(t.TempDir(), "nope")}
	err := src.Watch(context.Background(), make(chan config.Event, 1))
	assert.ErrorContains(t, err, "watch")
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile("/etc/iliasjump/application.yaml"))
	assert.True(t, isConfigFile("application.prod.yml"))
	assert.False(t, isConfigFile("application.json"))
	assert.False(t, isConfigFile("notes.yaml"))
}

func TestStaticSource(t *testing.T) {
	values := config.Defaults()
	src := &StaticSource{Values: values}
	assert.Equal(t, "static", src.Name())
	assert.Equal(t, "defaults", (&StaticSource{Label: "defaults"}).Name())
	assert.NoError(t, src.Watch(context.Background(), nil))

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, values, got)

	// callers may modify the copy
	got["redirect"].(map[string]any)["path"] = "/changed"
	assert.Equal(t, "/api/redirect", values["redirect"].(map[string]any)["path"])
}
