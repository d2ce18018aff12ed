// Package config handles loading application configuration from a YAML file,
// an optional .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/webqr/qr"
	"github.com/openclaw/webqr/store"
)

// Window holds the initial size of the main window.
type Window struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Config holds all application configuration values. QR encoding parameters
// are fixed in package qr and cannot be configured.
type Config struct {
	OutputDir   string `yaml:"output_dir"`
	PreviewSize int    `yaml:"preview_size"`
	AutoSave    bool   `yaml:"auto_save"`
	LogLevel    string `yaml:"log_level"`
	Window      Window `yaml:"window"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		OutputDir:   store.DefaultDir,
		PreviewSize: qr.DefaultPreviewSize,
		AutoSave:    true,
		LogLevel:    "info",
		Window:      Window{Width: 500, Height: 600},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Variables from envFile (usually
// ".env") are loaded into the process environment when the file exists, then
// WEBQR_* environment variables override any file or default values.
func Load(path, envFile string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies WEBQR_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBQR_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("WEBQR_PREVIEW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PreviewSize = n
		}
	}
	if v := os.Getenv("WEBQR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WEBQR_AUTO_SAVE"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.AutoSave = true
		case "false", "0", "no":
			cfg.AutoSave = false
		}
	}
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.PreviewSize <= 0 {
		return fmt.Errorf("preview_size must be positive, got %d", c.PreviewSize)
	}
	return nil
}
