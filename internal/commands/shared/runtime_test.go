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
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/tombee/advisor/internal/config"
)

func clearLogEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADVISOR_DEBUG", "ADVISOR_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestBuildLogger_ConfigLevel(t *testing.T) {
	clearLogEnv(t)

	cfg := config.Default()
	cfg.Log.Level = "warn"

	logger := buildLogger(cfg)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled, config level warn should filter it")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn disabled at config level warn")
	}
}

func TestBuildLogger_DebugEnvEnablesDebug(t *testing.T) {
	clearLogEnv(t)
	t.Setenv("ADVISOR_DEBUG", "1")

	logger := buildLogger(config.Default())
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("ADVISOR_DEBUG=1 did not enable debug logging")
	}
}

func TestBuildLogger_EnvLevelOverridesConfig(t *testing.T) {
	clearLogEnv(t)
	t.Setenv("ADVISOR_LOG_LEVEL", "error")

	cfg := config.Default()
	cfg.Log.Level = "debug"

	logger := buildLogger(cfg)
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn enabled, ADVISOR_LOG_LEVEL=error should override the config level")
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("error disabled at ADVISOR_LOG_LEVEL=error")
	}
}

func TestBuildLogger_VerboseFlagWinsOverEnv(t *testing.T) {
	clearLogEnv(t)
	t.Setenv("ADVISOR_LOG_LEVEL", "error")

	verboseFlag = true
	t.Cleanup(func() { verboseFlag = false })

	logger := buildLogger(config.Default())
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("--verbose did not take precedence over ADVISOR_LOG_LEVEL")
	}
}
