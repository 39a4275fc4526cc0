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

package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrWriteFailed is returned when the profile cannot be persisted.
var ErrWriteFailed = errors.New("profile: write failed")

// Section names accepted by Reset.
const (
	SectionAll       = ""
	SectionFinancial = "financial"
	SectionProduct   = "product"
	SectionResearch  = "research"
)

// DefaultPath returns the profile location inside the output directory.
func DefaultPath(outputDir string) string {
	return filepath.Join(outputDir, "user_config.json")
}

// Manager owns the on-disk profile with an explicit load/save lifecycle.
type Manager struct {
	path   string
	logger *slog.Logger
}

// NewManager creates a manager for the profile at path.
func NewManager(path string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		path:   path,
		logger: logger,
	}
}

// Path returns the profile file location.
func (m *Manager) Path() string {
	return m.path
}

// Exists reports whether a saved profile is present on disk.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Load reads the saved profile merged over the factory defaults.
//
// A missing file is the expected first-run condition and yields the
// defaults without error. A corrupt file is logged and also yields the
// defaults, so callers always receive a fully populated profile.
func (m *Manager) Load() (*Profile, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	merged, err := mergeWithDefaults(data, m.logger)
	if err != nil {
		m.logger.Warn("failed to load saved profile, using defaults",
			"path", m.path,
			"error", err.Error(),
		)
		return Default(), nil
	}

	return merged, nil
}

// Save validates and persists the profile atomically.
// The file is written to a temp path in the same directory and renamed
// into place, so a crash never leaves a partial profile behind.
func (m *Manager) Save(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrWriteFailed, dir, err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode profile: %v", ErrWriteFailed, err)
	}

	tempPath := m.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write temporary file: %v", ErrWriteFailed, err)
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: failed to rename temporary file: %v", ErrWriteFailed, err)
	}

	m.logger.Debug("profile saved", "path", m.path)
	return nil
}

// Reset restores the given section to factory defaults and persists the
// result. Resetting SectionAll removes the file entirely, returning the
// profile to the first-run state.
func (m *Manager) Reset(section string) (*Profile, error) {
	switch section {
	case SectionAll:
		if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: failed to remove profile file: %v", ErrWriteFailed, err)
		}
		m.logger.Info("profile reset to defaults", "path", m.path)
		return Default(), nil

	case SectionFinancial, SectionProduct, SectionResearch:
		current, err := m.Load()
		if err != nil {
			return nil, err
		}

		defaults := Default()
		switch section {
		case SectionFinancial:
			current.Financial = defaults.Financial
		case SectionProduct:
			current.Product = defaults.Product
		case SectionResearch:
			current.WebsiteURL = defaults.WebsiteURL
			current.ResearchTopic = defaults.ResearchTopic
		}

		if err := m.Save(current); err != nil {
			return nil, err
		}

		m.logger.Info("profile section reset to defaults",
			"path", m.path,
			"section", section,
		)
		return current, nil

	default:
		return nil, fmt.Errorf("unknown profile section %q (valid: financial, product, research)", section)
	}
}
