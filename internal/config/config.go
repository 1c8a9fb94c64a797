// Package config loads factmap settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"factmap/internal/loader"
)

// DefaultFile is looked up in the working directory when FACTMAP_CONFIG is unset.
const DefaultFile = ".factmap.yaml"

// Config holds all settings.
type Config struct {
	MaxArguments int      `yaml:"max_arguments"` // per predicate application
	LogLevel     string   `yaml:"log_level"`     // debug, info, warn, error
	PrintTree    bool     `yaml:"print_tree"`    // dump the tag tree before the tables
	Extensions   []string `yaml:"extensions"`    // fact file extensions for directory loads
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		MaxArguments: loader.DefaultMaxArguments,
		LogLevel:     "warn",
		Extensions:   []string{".pl", ".pro", ".facts"},
	}
}

// Path returns the config file to use.
func Path() string {
	if p := os.Getenv("FACTMAP_CONFIG"); p != "" {
		return p
	}
	return DefaultFile
}

// Load reads path. A missing file yields the defaults. Environment overrides
// are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("FACTMAP_MAX_ARGUMENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FACTMAP_MAX_ARGUMENTS %q: %w", v, err)
		}
		c.MaxArguments = n
	}
	if v := os.Getenv("FACTMAP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FACTMAP_PRINT_TREE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid FACTMAP_PRINT_TREE %q: %w", v, err)
		}
		c.PrintTree = b
	}
	return nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.MaxArguments < 1 {
		return fmt.Errorf("max_arguments must be >= 1, got %d", c.MaxArguments)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	return nil
}
