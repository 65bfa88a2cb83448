// Package config loads, normalizes, and validates the run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"corpusgen/internal/spec"
)

// Load reads, parses, normalizes, and validates a config file. Relative
// paths inside the config resolve against the config file's directory.
func Load(path string) (spec.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := spec.ParseConfig(data)
	if err != nil {
		return spec.Config{}, err
	}
	Normalize(&cfg, baseDirFromConfigPath(path))
	if err := Validate(&cfg); err != nil {
		return spec.Config{}, err
	}
	return cfg, nil
}

// baseDirFromConfigPath returns the directory containing the config file.
func baseDirFromConfigPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}
