package config

import "context"

// ConfigSource represents a source of configuration data that can be loaded
// and optionally watched for changes.
type ConfigSource interface {
	// Load retrieves configuration data from this source as a string-keyed
	// map, possibly nested. It must be safe for concurrent use and must
	// return a copy the caller may modify.
	Load(ctx context.Context) (map[string]any, error)

	// Watch blocks until ctx is cancelled, sending an Event on ch whenever
	// the underlying data may have changed. Sources that cannot change
	// during the process lifetime return nil immediately. Watch must not
	// close ch.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs ("file", "env", "cli").
	Name() string
}

// Event represents a configuration change notification.
type Event struct {
	// ChangedKeys lists the top-level config keys whose values differ
	// between OldConfig and NewConfig, e.g. ["redirect"].
	ChangedKeys []string

	// OldConfig and NewConfig are pointers to the type given to NewManager.
	// Watchers send zero Events; only the Manager fills these in.
	OldConfig any
	NewConfig any
}

// Changed reports whether key is among the changed top-level keys.
func (e Event) Changed(key string) bool {
	for _, k := range e.ChangedKeys {
		if k == key {
			return true
		}
	}
	return false
}
