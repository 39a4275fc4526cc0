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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	advisorerrors "github.com/tombee/advisor/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE",
		"AZURE_API_BASE", "ADVISOR_DEPLOYMENT", "ADVISOR_OUTPUT_DIR",
		"LLM_REQUEST_TIMEOUT", "LLM_MAX_RETRIES", "LLM_RETRY_BACKOFF_BASE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.LLM.Deployment != "gpt-4o" {
		t.Errorf("LLM.Deployment = %q, want gpt-4o", cfg.LLM.Deployment)
	}
	if cfg.LLM.APIVersion != "2025-01-01-preview" {
		t.Errorf("LLM.APIVersion = %q", cfg.LLM.APIVersion)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("LLM.Temperature = %v, want 0.7", cfg.LLM.Temperature)
	}
	if cfg.OutputDir != "outputs" {
		t.Errorf("OutputDir = %q, want outputs", cfg.OutputDir)
	}
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.RequestTimeout != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", cfg.LLM.RequestTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *advisorerrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() error = %v, want ConfigError", err)
	}
	if cfgErr.Key != "config_file" {
		t.Errorf("Key = %q, want config_file", cfgErr.Key)
	}
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `llm:
  deployment: gpt-4o-mini
output_dir: reports
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Deployment != "gpt-4o-mini" {
		t.Errorf("Deployment = %q, want gpt-4o-mini", cfg.LLM.Deployment)
	}
	if cfg.OutputDir != "reports" {
		t.Errorf("OutputDir = %q, want reports", cfg.OutputDir)
	}
	// Unspecified fields still get defaults
	if cfg.LLM.APIVersion != "2025-01-01-preview" {
		t.Errorf("APIVersion = %q, want default", cfg.LLM.APIVersion)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm: [not a map"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var cfgErr *advisorerrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() error = %v, want ConfigError", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `llm:
  deployment: from-file
log:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ADVISOR_DEPLOYMENT", "from-env")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_MAX_RETRIES", "5")
	t.Setenv("ADVISOR_OUTPUT_DIR", "/tmp/reports")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Deployment != "from-env" {
		t.Errorf("Deployment = %q, want from-env", cfg.LLM.Deployment)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.LLM.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.LLM.MaxRetries)
	}
	if cfg.OutputDir != "/tmp/reports" {
		t.Errorf("OutputDir = %q, want /tmp/reports", cfg.OutputDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 1.5 }, true},
		{"temperature negative", func(c *Config) { c.LLM.Temperature = -0.1 }, true},
		{"zero request timeout", func(c *Config) { c.LLM.RequestTimeout = 0 }, true},
		{"negative retries", func(c *Config) { c.LLM.MaxRetries = -1 }, true},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigDir_RespectsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}

	want := filepath.Join(dir, "advisor")
	if got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("ConfigDir() did not create directory: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v", err)
	}

	want := filepath.Join(dir, "advisor", "config.yaml")
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}
