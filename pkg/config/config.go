// Package config provides configuration loading and management for ctvolume.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Input parameters
	Input struct {
		// Extension is the filename extension matched when loading a
		// series from a directory.
		Extension string `yaml:"extension"`
	} `yaml:"input"`

	// Window parameters
	Window struct {
		// Center is the default window center in HU.
		Center float64 `yaml:"center"`

		// Width is the default window width in HU.
		Width float64 `yaml:"width"`

		// HalfUnitBias selects the half-unit rounding convention for
		// the window bounds.
		HalfUnitBias bool `yaml:"halfUnitBias"`
	} `yaml:"window"`

	// Output parameters
	Output struct {
		// Dir is the directory windowed slices are exported to.
		Dir string `yaml:"dir"`

		// Format is the export image format, "png" or "jpg".
		Format string `yaml:"format"`

		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values. The
// default window is the mediastinal soft-tissue window.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.Extension = ".dcm"

	cfg.Window.Center = 60
	cfg.Window.Width = 350
	cfg.Window.HalfUnitBias = true

	cfg.Output.Dir = "windowed_slices"
	cfg.Output.Format = "png"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
