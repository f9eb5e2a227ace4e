package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/skekre98/iliasjump/config"
)

// FileSource loads configuration from YAML files on the filesystem.
//
// File loading order:
//  1. application.yaml (or application.yml) from BasePath
//  2. if Profile is set, application.{Profile}.yaml as an overlay
//
// The profile file replaces the base file's values at the top level; the
// Manager deep-merges sources, but a single FileSource does not.
//
// Example directory structure:
//
//	configs/
//	  application.yaml      # Base configuration
//	  application.prod.yaml # Production profile
type FileSource struct {
	// BasePath is the directory containing the configuration files.
	BasePath string

	// Profile selects an optional overlay file; a missing overlay is ignored.
	Profile string

	// Optional makes a missing base file yield an empty map instead of
	// os.ErrNotExist, for deployments configured purely through env/flags.
	Optional bool
}

// Name returns the identifier for this source.
func (f *FileSource) Name() string { return "file" }

// Load reads the base file and the optional profile overlay.
//
// Returns os.ErrNotExist if the base file is not found and Optional is false.
// Returns a YAML parsing error if either file is malformed.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	data := map[string]any{}

	baseFile := findYAMLFile(f.BasePath, "application")
	if baseFile == "" {
		if f.Optional {
			return data, nil
		}
		return nil, os.ErrNotExist
	}
	if err := readYAML(baseFile, data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", baseFile, err)
	}

	if f.Profile != "" {
		if profileFile := findYAMLFile(f.BasePath, "application."+f.Profile); profileFile != "" {
			if err := readYAML(profileFile, data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", profileFile, err)
			}
		}
	}

	return data, nil
}

// Watch reports changes to application*.yaml / application*.yml files in
// BasePath until ctx is cancelled. Bursts of writes collapse into a single
// pending event when the receiver is busy.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.BasePath); err != nil {
		return fmt.Errorf("watch %s: %w", f.BasePath, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			select {
			case ch <- config.Event{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher: %w", err)
		}
	}
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.HasPrefix(base, "application") && (ext == ".yaml" || ext == ".yml")
}

// findYAMLFile looks for a file with either .yaml or .yml extension
func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, &out)
}
