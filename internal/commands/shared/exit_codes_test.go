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
	"errors"
	"strings"
	"testing"

	pkgerrors "github.com/tombee/advisor/pkg/errors"
)

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRunError("running crew", cause)

	if err.Code != ExitRunFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitRunFailed)
	}
	if !strings.Contains(err.Error(), "running crew") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
}

func TestExitError_NoCause(t *testing.T) {
	err := &ExitError{Code: ExitRunFailed, Message: "failed"}
	if err.Error() != "failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "failed")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "validation error",
			err:      &pkgerrors.ValidationError{Field: "financial.income", Message: "negative"},
			wantCode: ExitInvalidInput,
		},
		{
			name:     "config error",
			err:      &pkgerrors.ConfigError{Key: "azure.credentials", Reason: "missing"},
			wantCode: ExitConfigError,
		},
		{
			name:     "provider error",
			err:      &pkgerrors.ProviderError{Provider: "azure-openai", StatusCode: 401, Message: "unauthorized"},
			wantCode: ExitProviderError,
		},
		{
			name:     "wrapped provider error",
			err:      pkgerrors.Wrap(&pkgerrors.ProviderError{Provider: "azure-openai", Message: "bad"}, "calling model"),
			wantCode: ExitProviderError,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: ExitRunFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError("doing thing", tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", got.Code, tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should unwrap to its cause")
			}
		})
	}
}

func TestSuggestionFor(t *testing.T) {
	verr := &pkgerrors.ValidationError{
		Field:      "research.website_url",
		Message:    "bad scheme",
		Suggestion: "Use a full URL such as https://example.com/page",
	}

	if got := SuggestionFor(NewInvalidInputError("setting value", verr)); got != verr.Suggestion {
		t.Errorf("SuggestionFor() = %q, want %q", got, verr.Suggestion)
	}

	if got := SuggestionFor(errors.New("boom")); got != "" {
		t.Errorf("SuggestionFor(plain error) = %q, want empty", got)
	}
}
