// Package config loads the etude tool configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration unless told otherwise.
const DefaultPath = "etude.yaml"

// Config holds all etude configuration.
type Config struct {
	// Repository that hosts the published snapshot releases.
	Repo RepoConfig `yaml:"repo"`

	// Release tagging
	Release ReleaseConfig `yaml:"release"`

	// Client-side snapshot resolution
	Resolver ResolverConfig `yaml:"resolver"`

	// Local snapshot archive
	Archive ArchiveConfig `yaml:"archive"`
}

// RepoConfig identifies the hosting repository.
type RepoConfig struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// ReleaseConfig configures snapshot tagging.
type ReleaseConfig struct {
	TagPrefix string `yaml:"tag_prefix"`
}

// ResolverConfig configures the day-fallback search.
type ResolverConfig struct {
	DaysToTry  int    `yaml:"days_to_try"`
	MaxRetries int    `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
}

// RetryDelayDuration parses the configured retry delay.
func (c ResolverConfig) RetryDelayDuration() (time.Duration, error) {
	if c.RetryDelay == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid retry_delay %q: %w", c.RetryDelay, err)
	}
	return d, nil
}

// ArchiveConfig configures the local SQLite snapshot archive.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Release: ReleaseConfig{TagPrefix: "data-"},
		Resolver: ResolverConfig{
			DaysToTry:  7,
			MaxRetries: 2,
			RetryDelay: "1s",
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Path:    ".etude/archive.db",
		},
	}
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults apply. Fields left unset in the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Release.TagPrefix == "" {
		cfg.Release.TagPrefix = "data-"
	}
	if cfg.Resolver.DaysToTry <= 0 {
		cfg.Resolver.DaysToTry = 7
	}
	if cfg.Resolver.MaxRetries < 0 {
		cfg.Resolver.MaxRetries = 2
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = ".etude/archive.db"
	}
	return cfg, nil
}
