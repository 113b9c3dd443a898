package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vbadelita/harvest/internal/fetch"
	"github.com/vbadelita/harvest/internal/ledger"
	"github.com/vbadelita/harvest/pkg/records"
)

// Config defines configuration for the harvest CLI.
type Config struct {
	URL               string        `yaml:"url"`
	Input             string        `yaml:"input"`
	OutputDir         string        `yaml:"output_dir"`
	Concurrency       int           `yaml:"concurrency"`
	Timeout           time.Duration `yaml:"timeout"`
	BatchSize         int           `yaml:"batch_size"`
	BatchPause        time.Duration `yaml:"batch_pause"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Progress          bool          `yaml:"progress"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		URL:          fetch.DefaultURLTemplate,
		Concurrency:  10,
		Timeout:      30 * time.Second,
		BatchSize:    100,
		BatchPause:   100 * time.Millisecond,
		RetryBackoff: 2 * time.Second,
	}
}

// RecordLogPath returns the record log path inside the output directory.
func (c Config) RecordLogPath() string {
	return filepath.Join(c.OutputDir, records.DefaultFileName)
}

// CompletedListPath returns the success ledger path inside the output directory.
func (c Config) CompletedListPath() string {
	return filepath.Join(c.OutputDir, ledger.CompletedName)
}

// FailedListPath returns the failure ledger path inside the output directory.
func (c Config) FailedListPath() string {
	return filepath.Join(c.OutputDir, ledger.FailedName)
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	URL               string  `yaml:"url"`
	Input             string  `yaml:"input"`
	OutputDir         string  `yaml:"output_dir"`
	Concurrency       int     `yaml:"concurrency"`
	Timeout           string  `yaml:"timeout"`
	BatchSize         int     `yaml:"batch_size"`
	BatchPause        string  `yaml:"batch_pause"`
	RetryBackoff      string  `yaml:"retry_backoff"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Progress          bool    `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file, starting from Default.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.Input != "" {
		cfg.Input = yc.Input
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.Concurrency != 0 {
		cfg.Concurrency = yc.Concurrency
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.BatchSize != 0 {
		cfg.BatchSize = yc.BatchSize
	}
	if yc.BatchPause != "" {
		d, err := time.ParseDuration(yc.BatchPause)
		if err != nil {
			return Config{}, fmt.Errorf("parse batch_pause: %w", err)
		}
		cfg.BatchPause = d
	}
	if yc.RetryBackoff != "" {
		d, err := time.ParseDuration(yc.RetryBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry_backoff: %w", err)
		}
		cfg.RetryBackoff = d
	}
	if yc.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = yc.RequestsPerSecond
	}
	cfg.Progress = yc.Progress

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the HARVEST_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HARVEST_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("HARVEST_INPUT"); v != "" {
		c.Input = v
	}
	if v := os.Getenv("HARVEST_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("HARVEST_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse HARVEST_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("HARVEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HARVEST_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("HARVEST_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse HARVEST_BATCH_SIZE: %w", err)
		}
		c.BatchSize = n
	}
	if v := os.Getenv("HARVEST_BATCH_PAUSE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HARVEST_BATCH_PAUSE: %w", err)
		}
		c.BatchPause = d
	}
	if v := os.Getenv("HARVEST_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse HARVEST_RETRY_BACKOFF: %w", err)
		}
		c.RetryBackoff = d
	}
	if v := os.Getenv("HARVEST_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse HARVEST_RPS: %w", err)
		}
		c.RequestsPerSecond = f
	}
	if v := os.Getenv("HARVEST_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("config: url is required")
	}
	if !strings.Contains(c.URL, fetch.Placeholder) {
		return fmt.Errorf("config: url must contain the %s placeholder", fetch.Placeholder)
	}
	if c.Input == "" {
		return errors.New("config: input is required")
	}
	if c.OutputDir == "" {
		return errors.New("config: output directory is required")
	}
	if c.Concurrency <= 0 {
		return errors.New("config: concurrency must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.New("config: batch_size must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("config: requests_per_second must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.URL != "" {
		c.URL = override.URL
	}
	if override.Input != "" {
		c.Input = override.Input
	}
	if override.OutputDir != "" {
		c.OutputDir = override.OutputDir
	}
	if override.Concurrency != 0 {
		c.Concurrency = override.Concurrency
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.BatchSize != 0 {
		c.BatchSize = override.BatchSize
	}
	if override.BatchPause != 0 {
		c.BatchPause = override.BatchPause
	}
	if override.RetryBackoff != 0 {
		c.RetryBackoff = override.RetryBackoff
	}
	if override.RequestsPerSecond != 0 {
		c.RequestsPerSecond = override.RequestsPerSecond
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}
