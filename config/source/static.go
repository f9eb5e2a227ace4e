package source

import (
	"context"

	"github.com/skekre98/iliasjump/config"
)

// StaticSource serves a fixed map, typically config.Defaults().
type StaticSource struct {
	Values map[string]any
	// Label overrides the source name in errors and logs.
	Label string
}

func (s *StaticSource) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "static"
}

// Load returns a deep copy of Values.
func (s *StaticSource) Load(ctx context.Context) (map[string]any, error) {
	return copyMap(s.Values), nil
}

func (s *StaticSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = copyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
