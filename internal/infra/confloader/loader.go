// Package confloader provides configuration loading mechanism.
//
// Settings are merged with koanf from three sources; later sources
// win: struct defaults, then a YAML file, then EVENTGATE_* environment
// variables.
package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix stripped from environment variables
// before they are mapped onto configuration keys.
const DefaultEnvPrefix = "EVENTGATE_"

// Loader merges configuration sources into a koanf tree and
// unmarshals the result onto a target struct.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	loaded    bool
}

// Option configures the Loader.
type Option func(*Loader)

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file read by Load.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configured file (when one was given), layers
// environment variables on top, and unmarshals the merged tree into
// target. Target should arrive pre-filled with defaults; only keys
// present in a source are overwritten.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.loaded = true
	return nil
}

// LoadFile merges a YAML file into the tree. An empty path is a no-op
// so callers can pass an optional flag value straight through.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv merges prefixed environment variables into the tree.
// EVENTGATE_SERVER_HTTP_ADDR becomes the key server.http.addr.
func (l *Loader) LoadEnv() error {
	toKey := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", toKey), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap merges an in-memory map into the tree. Used for flag
// overrides and in tests.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal decodes the merged tree onto target using koanf struct
// tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// Get returns the raw value stored under key, or nil.
func (l *Loader) Get(key string) any {
	return l.k.Get(key)
}

// GetString returns the value under key as a string.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt returns the value under key as an int.
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// GetBool returns the value under key as a bool.
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// IsLoaded reports whether Load has completed.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// All returns the merged tree as a flat key map.
func (l *Loader) All() map[string]any {
	return l.k.All()
}

// Keys returns every key in the merged tree.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}
