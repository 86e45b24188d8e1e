// Package config loads the YAML configuration file and applies defaults
// and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/jedwillick/trash/internal/env"
)

var validate *validator.Validate

// Config is the user-facing configuration
type Config struct {
	Core    Core    `yaml:"core"`
	Listing Listing `yaml:"listing"`
}

// Core holds behavior settings for the trash operations themselves
type Core struct {
	// TrashDir overrides the home trash location. Must be absolute.
	TrashDir string `yaml:"trash_dir" validate:"omitempty,absPath"`

	// Verbose prints each action as it happens
	Verbose bool `yaml:"verbose"`

	// Logging controls the debug log file
	Logging Logging `yaml:"logging"`
}

// Logging controls the structured debug log
type Logging struct {
	Enabled bool `yaml:"enabled"`
}

// Listing holds filters applied when listing trash contents
type Listing struct {
	Include IncludeConfig `yaml:"include"`
	Exclude ExcludeConfig `yaml:"exclude"`
}

// IncludeConfig narrows listings to a recent window
type IncludeConfig struct {
	// Period lists only entries trashed within this many days; zero
	// disables the window
	Period int `yaml:"within_days" validate:"gte=0"`
}

// ExcludeConfig hides entries from listings
type ExcludeConfig struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns"`
	Globs    []string   `yaml:"globs"`
	Size     SizeConfig `yaml:"size"`
}

// SizeConfig bounds listed entries by payload size
type SizeConfig struct {
	Min string `yaml:"min" validate:"validSize"`
	Max string `yaml:"max" validate:"validSize"`
}

const defaultYAML = `core:
  trash_dir: ""
  verbose: false
  logging:
    enabled: false
listing:
  include:
    within_days: 0
  exclude:
    files: []
    patterns: []
    globs: []
    size:
      min: ""
      max: ""
`

// Parse loads the config from path, falling back to the default location
// and writing a default file there on first run.
func Parse(path string) (Config, error) {
	if path == "" {
		path = env.TRASH_CONFIG_PATH
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validateAll(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultYAML), 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

func (c *Config) validateAll() error {
	if validate == nil {
		validate = validator.New()
		if err := validate.RegisterValidation("validSize", validSize); err != nil {
			return err
		}
		if err := validate.RegisterValidation("absPath", absPath); err != nil {
			return err
		}
	}
	return validate.Struct(c)
}

// validSize accepts an empty value or a human-readable size like "10MB"
func validSize(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	re := regexp.MustCompile(`^\d+\s*([kKmMgGtT]i?)?[bB]$`)
	return re.MatchString(value)
}

func absPath(fl validator.FieldLevel) bool {
	return filepath.IsAbs(fl.Field().String())
}
