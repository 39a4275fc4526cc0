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
	"fmt"
	"os"

	pkgerrors "github.com/tombee/advisor/pkg/errors"
)

// Exit codes for advisor commands
const (
	ExitSuccess       = 0
	ExitRunFailed     = 1
	ExitInvalidInput  = 2
	ExitConfigError   = 3
	ExitProviderError = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewRunError creates an error for crew or report failures
func NewRunError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitRunFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an error for invalid user input
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidInput,
		Message: msg,
		Cause:   cause,
	}
}

// NewConfigExitError creates an error for configuration problems
func NewConfigExitError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitConfigError,
		Message: msg,
		Cause:   cause,
	}
}

// NewProviderExitError creates an error for LLM provider failures
func NewProviderExitError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitProviderError,
		Message: msg,
		Cause:   cause,
	}
}

// ClassifyError wraps an error in an ExitError with a code matching its type.
func ClassifyError(msg string, err error) *ExitError {
	var verr *pkgerrors.ValidationError
	if errors.As(err, &verr) {
		return NewInvalidInputError(msg, err)
	}

	var cerr *pkgerrors.ConfigError
	if errors.As(err, &cerr) {
		return NewConfigExitError(msg, err)
	}

	var perr *pkgerrors.ProviderError
	if errors.As(err, &perr) {
		return NewProviderExitError(msg, err)
	}

	return NewRunError(msg, err)
}

// HandleExitError checks if an error is an ExitError and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	printSuggestion(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(ExitRunFailed)
}

// printSuggestion walks the error chain and prints the first actionable
// suggestion it finds.
func printSuggestion(err error) {
	if s := SuggestionFor(err); s != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", s)
	}
}

// SuggestionFor extracts the suggestion from a typed error, if any.
func SuggestionFor(err error) string {
	var verr *pkgerrors.ValidationError
	if errors.As(err, &verr) && verr.Suggestion != "" {
		return verr.Suggestion
	}

	var perr *pkgerrors.ProviderError
	if errors.As(err, &perr) && perr.Suggestion != "" {
		return perr.Suggestion
	}

	return ""
}
