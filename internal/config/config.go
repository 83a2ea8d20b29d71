// Package config loads rower configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all rower configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the activity store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig configures data package placement.
type OutputConfig struct {
	Root      string `yaml:"root"`
	Overwrite bool   `yaml:"overwrite"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Environment overrides, applied after file values.
const (
	EnvStorePath  = "ROWER_DB_PATH"
	EnvOutputRoot = "ROWER_OUTPUT_ROOT"
)

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Store:   StoreConfig{Path: filepath.Join(home, ".rower", "activities.db")},
		Output:  OutputConfig{Root: "data"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath returns the default config file location (~/.rower/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rower", "config.yaml")
}

// Load reads the config file at path, layered over defaults, then applies
// environment overrides. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// Defaults apply.
		default:
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	if v := os.Getenv(EnvStorePath); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvOutputRoot); v != "" {
		cfg.Output.Root = v
	}
	return cfg, nil
}
