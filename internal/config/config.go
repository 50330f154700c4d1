// Package config loads engine options from quill.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the canonical script source extension.
const SourceFileExt = ".qs"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".qs", ".quill"}

// Config is the engine configuration.
type Config struct {
	Cache  CacheConfig  `yaml:"cache,omitempty"`
	Limits LimitsConfig `yaml:"limits,omitempty"`
}

// CacheConfig controls the compiled-bundle cache.
type CacheConfig struct {
	// Enabled turns bundle caching on. Defaults to false.
	Enabled bool `yaml:"enabled,omitempty"`

	// Path to the cache database. Defaults to ~/.quill/bundles.db.
	Path string `yaml:"path,omitempty"`
}

// LimitsConfig bounds per-unit compilation.
type LimitsConfig struct {
	// MaxErrors stops collecting diagnostics past this count.
	// Defaults to 100.
	MaxErrors int `yaml:"max_errors,omitempty"`
}

// Default returns the configuration used when no quill.yaml is present.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a quill.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses quill.yaml content from bytes. The path argument is used
// only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Find searches for quill.yaml starting from dir and walking up to parent
// directories. Returns an empty path and nil error when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"quill.yaml", "quill.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if c.Limits.MaxErrors < 0 {
		return fmt.Errorf("%s: limits.max_errors must not be negative", path)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Limits.MaxErrors == 0 {
		c.Limits.MaxErrors = 100
	}
	if c.Cache.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Cache.Path = filepath.Join(home, ".quill", "bundles.db")
		}
	}
}
