package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed JSON returns an error.
func Load(globalPath, projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	return cfg, nil
}

// DefaultPaths returns the conventional config locations.
// Global: ~/.stepweaver/config.json
// Project: .stepweaver/config.json (relative to cwd)
func DefaultPaths() (globalPath, projectPath string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".stepweaver", "config.json"), filepath.Join(".stepweaver", "config.json"), nil
}

// LoadDefault loads configuration from the conventional paths.
func LoadDefault() (*Config, error) {
	globalPath, projectPath, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return Load(globalPath, projectPath)
}

// mergeConfigFile reads a JSON config file and overlays the fields it sets.
func mergeConfigFile(base *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Missing file is not an error
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var loaded fileConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if loaded.Workers != nil {
		base.Workers = *loaded.Workers
	}
	if loaded.BaseOffset != nil {
		base.BaseOffset = *loaded.BaseOffset
	}
	if loaded.Alphabet != nil {
		base.Alphabet = *loaded.Alphabet
	}

	return nil
}
