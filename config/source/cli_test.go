package source

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLISource_Load(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "equals form",
			args: []string{"--server.addr=:9090", "--redirect.statusCode=302"},
			want: map[string]any{
				"server":   map[string]any{"addr": ":9090"},
				"redirect": map[string]any{"statusCode": "302"},
			},
		},
		{
			name: "space separated values",
			args: []string{"--redirect.baseURL", "https://ilias.example.org/ilias.php", "--logging.level", "debug"},
			want: map[string]any{
				"redirect": map[string]any{"baseURL": "https://ilias.example.org/ilias.php"},
				"logging":  map[string]any{"level": "debug"},
			},
		},
		{
			name: "subcommand and single dash long flags",
			args: []string{"serve", "-observability.metrics.enabled=false"},
			want: map[string]any{
				"observability": map[string]any{"metrics": map[string]any{"enabled": "false"}},
			},
		},
		{
			name: "empty values are dropped",
			args: []string{"--redirect.path=", "--server.addr=:8081"},
			want: map[string]any{"server": map[string]any{"addr": ":8081"}},
		},
		{
			name: "last value wins",
			args: []string{"--server.addr=:1", "--server.addr=:2"},
			want: map[string]any{"server": map[string]any{"addr": ":2"}},
		},
		{
			name: "no flags",
			args: []string{"serve"},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&CLISource{Args: tt.args}).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCLISource_DefaultsToOSArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"iliasjump", "serve", "--actuator.basePath=/manage"}

	got, err := (&CLISource{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"actuator": map[string]any{"basePath": "/manage"}}, got)
}

func TestCLISource_Watch(t *testing.T) {
	src := &CLISource{}
	assert.Equal(t, "cli", src.Name())
	assert.NoError(t, src.Watch(context.Background(), nil))
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "double dash unchanged", args: []string{"--server.addr=:1"}, want: []string{"--server.addr=:1"}},
		{name: "single dash long flag", args: []string{"-server.addr=:1", "-logging.level"}, want: []string{"--server.addr=:1", "--logging.level"}},
		{name: "single char flag unchanged", args: []string{"-v"}, want: []string{"-v"}},
		{name: "lone dash unchanged", args: []string{"-"}, want: []string{"-"}},
		{name: "positional args unchanged", args: []string{"serve", "x"}, want: []string{"serve", "x"}},
		{name: "empty", args: []string{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.args))
		})
	}
}

func TestExtractFlagName(t *testing.T) {
	tests := map[string]string{
		"--redirect.path=/go": "redirect.path",
		"--redirect.path":     "redirect.path",
		"-server.addr=:1":     "server.addr",
		"---odd":              "odd",
		"--=value":            "",
		"--":                  "",
		"":                    "",
	}

	for arg, want := range tests {
		t.Run(arg, func(t *testing.T) {
			assert.Equal(t, want, extractFlagName(arg))
		})
	}
}
