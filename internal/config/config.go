// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the application configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variables. Environment variables take precedence over
// file-based configuration.
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

	advisorerrors "github.com/tombee/advisor/pkg/errors"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the complete application configuration.
type Config struct {
	Log LogConfig `yaml:"log"`
	LLM LLMConfig `yaml:"llm"`

	// OutputDir is the directory where profiles and reports are written.
	// Environment: ADVISOR_OUTPUT_DIR
	// Default: outputs
	OutputDir string `yaml:"output_dir"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error).
	// Environment: LOG_LEVEL
	// Default: info
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	// Environment: LOG_FORMAT
	// Default: text
	Format string `yaml:"format"`

	// AddSource adds source file and line information to logs.
	// Environment: LOG_SOURCE
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// LLMConfig configures the Azure OpenAI connection.
type LLMConfig struct {
	// Endpoint is the Azure OpenAI resource base URL.
	// Environment: AZURE_API_BASE
	Endpoint string `yaml:"endpoint,omitempty"`

	// Deployment is the chat completion deployment name.
	// Environment: ADVISOR_DEPLOYMENT
	// Default: gpt-4o
	Deployment string `yaml:"deployment"`

	// APIVersion is the Azure OpenAI API version.
	// Default: 2025-01-01-preview
	APIVersion string `yaml:"api_version"`

	// Temperature is the default sampling temperature for crews.
	// Default: 0.7
	Temperature float64 `yaml:"temperature"`

	// RequestTimeout is the maximum duration for a single LLM request.
	// Environment: LLM_REQUEST_TIMEOUT
	// Default: 120s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxRetries is the number of retries for transient LLM failures.
	// Environment: LLM_MAX_RETRIES
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoffBase is the initial backoff before the first retry.
	// Environment: LLM_RETRY_BACKOFF_BASE
	// Default: 100ms
	RetryBackoffBase time.Duration `yaml:"retry_backoff_base"`

	// RequestsPerMinute throttles outgoing requests (0 = unlimited).
	// Default: 0
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:     "info",
			Format:    "text",
			AddSource: false,
		},
		LLM: LLMConfig{
			Deployment:       "gpt-4o",
			APIVersion:       "2025-01-01-preview",
			Temperature:      0.7,
			RequestTimeout:   120 * time.Second,
			MaxRetries:       3,
			RetryBackoffBase: 100 * time.Millisecond,
		},
		OutputDir: "outputs",
	}
}

// Load loads configuration from environment variables and optionally from a
// YAML file. Environment variables take precedence over file-based
// configuration. If configPath is empty, only environment variables are used.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &advisorerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	// Apply defaults to any zero values (handles minimal configs)
	cfg.applyDefaults()

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &advisorerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	// Expand home directory if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// applyDefaults fills in zero values with sensible defaults.
// This allows minimal configs to work without specifying all fields.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}

	if c.LLM.Deployment == "" {
		c.LLM.Deployment = defaults.LLM.Deployment
	}
	if c.LLM.APIVersion == "" {
		c.LLM.APIVersion = defaults.LLM.APIVersion
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = defaults.LLM.Temperature
	}
	if c.LLM.RequestTimeout == 0 {
		c.LLM.RequestTimeout = defaults.LLM.RequestTimeout
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = defaults.LLM.MaxRetries
	}
	if c.LLM.RetryBackoffBase == 0 {
		c.LLM.RetryBackoffBase = defaults.LLM.RetryBackoffBase
	}

	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}

	if val := os.Getenv("AZURE_API_BASE"); val != "" {
		c.LLM.Endpoint = val
	}
	if val := os.Getenv("ADVISOR_DEPLOYMENT"); val != "" {
		c.LLM.Deployment = val
	}
	if val := os.Getenv("LLM_REQUEST_TIMEOUT"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.LLM.RequestTimeout = duration
		}
	}
	if val := os.Getenv("LLM_MAX_RETRIES"); val != "" {
		if retries, err := strconv.Atoi(val); err == nil {
			c.LLM.MaxRetries = retries
		}
	}
	if val := os.Getenv("LLM_RETRY_BACKOFF_BASE"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.LLM.RetryBackoffBase = duration
		}
	}

	if val := os.Getenv("ADVISOR_OUTPUT_DIR"); val != "" {
		c.OutputDir = val
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level must be one of debug, info, warn, error; got %q", ErrInvalidConfig, c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format must be json or text; got %q", ErrInvalidConfig, c.Log.Format)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("%w: llm.temperature must be between 0.0 and 1.0; got %v", ErrInvalidConfig, c.LLM.Temperature)
	}

	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("%w: llm.request_timeout must be > 0; got %v", ErrInvalidConfig, c.LLM.RequestTimeout)
	}

	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("%w: llm.max_retries must be >= 0; got %d", ErrInvalidConfig, c.LLM.MaxRetries)
	}

	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: llm.requests_per_minute must be >= 0; got %d", ErrInvalidConfig, c.LLM.RequestsPerMinute)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}

	return nil
}
