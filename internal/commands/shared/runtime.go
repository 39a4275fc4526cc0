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

package shared

import (
	"log/slog"
	"os"

	"github.com/tombee/advisor/internal/config"
	"github.com/tombee/advisor/internal/log"
	"github.com/tombee/advisor/internal/profile"
	"github.com/tombee/advisor/internal/report"
	"github.com/tombee/advisor/pkg/errors"
	"github.com/tombee/advisor/pkg/llm"
	"github.com/tombee/advisor/pkg/llm/providers"
)

// Runtime bundles the application services every command needs: loaded
// configuration, logger, profile manager, and report writer.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Profile *profile.Manager
	Reports *report.Writer
}

// NewRuntime loads configuration and wires up the shared services,
// applying global flag overrides.
func NewRuntime() (*Runtime, error) {
	cfg, err := config.Load(ResolveConfigPath())
	if err != nil {
		return nil, err
	}

	if dir := GetOutputDir(); dir != "" {
		cfg.OutputDir = dir
	}

	logger := buildLogger(cfg)

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Profile: profile.NewManager(profile.DefaultPath(cfg.OutputDir), logger),
		Reports: report.NewWriter(cfg.OutputDir, logger),
	}, nil
}

// Provider builds the configured Azure OpenAI provider wrapped with
// retry behavior.
func (rt *Runtime) Provider() (llm.Provider, error) {
	creds, err := rt.credentials()
	if err != nil {
		return nil, err
	}

	azure, err := providers.NewAzureOpenAIProvider(creds, providers.AzureOpenAIOptions{
		Deployment:        rt.Config.LLM.Deployment,
		APIVersion:        rt.Config.LLM.APIVersion,
		RequestTimeout:    rt.Config.LLM.RequestTimeout,
		RequestsPerMinute: rt.Config.LLM.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}

	retryCfg := llm.DefaultRetryConfig()
	retryCfg.MaxRetries = rt.Config.LLM.MaxRetries
	if rt.Config.LLM.RetryBackoffBase > 0 {
		retryCfg.InitialDelay = rt.Config.LLM.RetryBackoffBase
	}

	log.WithProvider(rt.Logger, azure.Name()).Debug("llm provider configured",
		"endpoint", creds.Endpoint,
		"deployment", rt.Config.LLM.Deployment,
		"api_key", log.SanitizeAPIKey(creds.APIKey),
	)

	return llm.NewRetryableProvider(azure, retryCfg), nil
}

// credentials resolves the Azure connection details. The endpoint may come
// from config or AZURE_API_BASE; the API key always comes from the
// environment so it never lands in a config file.
func (rt *Runtime) credentials() (providers.AzureCredentials, error) {
	if rt.Config.LLM.Endpoint == "" {
		return providers.AzureCredentialsFromEnv()
	}

	apiKey := os.Getenv("AZURE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if apiKey == "" {
		return providers.AzureCredentials{}, &errors.ConfigError{
			Key:    "azure.credentials",
			Reason: "missing required environment variable: AZURE_API_KEY",
		}
	}

	return providers.AzureCredentials{
		APIKey:   apiKey,
		Endpoint: rt.Config.LLM.Endpoint,
	}, nil
}

// ResolveConfigPath returns the --config flag value, or the default config
// file when it exists. An empty result means env-and-defaults only.
func ResolveConfigPath() string {
	if path := GetConfigPath(); path != "" {
		return path
	}

	path, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// buildLogger derives the logger from config, with ADVISOR_DEBUG and
// ADVISOR_LOG_LEVEL overriding the config file and --verbose / --quiet
// overriding both.
func buildLogger(cfg *config.Config) *slog.Logger {
	logCfg := (&log.Config{
		Level:     cfg.Log.Level,
		Format:    log.Format(cfg.Log.Format),
		Output:    os.Stderr,
		AddSource: cfg.Log.AddSource,
	}).ApplyEnv()

	if GetVerbose() {
		logCfg.Level = "debug"
	}
	if GetQuiet() {
		logCfg.Level = "error"
	}

	return log.New(logCfg)
}
