package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guilhermegouw/evman/internal/jsonfilter"
	"github.com/guilhermegouw/evman/internal/statepath"
)

// Rule is a filter rule as stored in the config file.
type Rule = jsonfilter.Rule

// SaveToFile writes the configuration to a specific file path.
func SaveToFile(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // Restrictive permissions for security.
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// AddWatchPath appends path to the configured watch paths if missing and
// persists the change to the file at configPath, creating it if needed.
// Existing files are edited in place so unknown fields survive.
func AddWatchPath(configPath, path string) error {
	if _, err := statepath.Parse(path); err != nil {
		return err
	}

	cfg := NewConfig()
	if err := loadFile(configPath, cfg); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.Watch.Paths = []string{path}
		return SaveToFile(cfg, configPath)
	}
	for _, p := range cfg.Watch.Paths {
		if p == path {
			return nil
		}
	}
	if len(cfg.Watch.Paths) == 0 {
		return SetField(configPath, "watch.paths", []string{path})
	}
	return SetField(configPath, "watch.paths.-1", path)
}
