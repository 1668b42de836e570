// Package config provides configuration management for evman.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"

	"github.com/guilhermegouw/evman/internal/jsonfilter"
	"github.com/guilhermegouw/evman/internal/statepath"
)

const appName = "evman"

// Config is the top-level configuration structure.
type Config struct {
	Options *Options                     `json:"options,omitempty"`
	Watch   WatchConfig                  `json:"watch"`
	Filters map[string][]jsonfilter.Rule `json:"filters,omitempty"`
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	DataDir string `json:"data_directory,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
}

// WatchConfig lists the state paths the CLI watches by default.
type WatchConfig struct {
	Paths []string `json:"paths,omitempty"`
}

// NewConfig creates a new Config with initialized maps.
func NewConfig() *Config {
	return &Config{
		Options: &Options{},
		Filters: make(map[string][]jsonfilter.Rule),
	}
}

// Validate checks watch paths and filter rules.
func (c *Config) Validate() error {
	var errs []error
	for _, path := range c.Watch.Paths {
		if _, err := statepath.Parse(path); err != nil {
			errs = append(errs, fmt.Errorf("watch: %w", err))
		}
	}
	for name, rules := range c.Filters {
		for i, rule := range rules {
			if err := rule.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("filter %q rule %d: %w", name, i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// DebugEnabled reports whether debug logging is configured.
func (c *Config) DebugEnabled() bool {
	return c.Options != nil && c.Options.Debug
}

// DebugLogPath returns where the debug log is written.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir(), "debug.log")
}

// SetField updates a single field in the config file at path using sjson,
// leaving every other byte of the file untouched. A missing file starts
// from an empty object.
func SetField(path, key string, value any) error {
	//nolint:gosec // G304: path is a trusted config location.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	//nolint:gosec // 0o600 is intentionally restrictive.
	if err := os.WriteFile(path, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
