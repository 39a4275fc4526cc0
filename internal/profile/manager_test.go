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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	advisorerrors "github.com/tombee/advisor/pkg/errors"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_config.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(path, logger)
}

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	m := testManager(t)

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("Load() = %+v, want defaults", got)
	}
	if m.Exists() {
		t.Error("Load() should not create the profile file")
	}
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	m := testManager(t)

	p := Default()
	p.Financial.Income = 7500
	p.Financial.Expenses["gym"] = 60
	p.Product.ProductName = "Widget Pro"
	p.ResearchTopic = "Quantum computing"

	if err := m.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Financial.Income != 7500 {
		t.Errorf("Income = %v, want 7500", got.Financial.Income)
	}
	if got.Financial.Expenses["gym"] != 60 {
		t.Errorf("Expenses[gym] = %v, want 60", got.Financial.Expenses["gym"])
	}
	if got.Financial.Expenses["rent"] != 1500 {
		t.Errorf("Expenses[rent] = %v, want default 1500", got.Financial.Expenses["rent"])
	}
	if got.Product.ProductName != "Widget Pro" {
		t.Errorf("ProductName = %q, want Widget Pro", got.Product.ProductName)
	}
	if got.ResearchTopic != "Quantum computing" {
		t.Errorf("ResearchTopic = %q", got.ResearchTopic)
	}
	// Untouched sections keep their defaults
	if got.WebsiteURL != Default().WebsiteURL {
		t.Errorf("WebsiteURL = %q, want default", got.WebsiteURL)
	}
}

func TestSave_IsAtomic(t *testing.T) {
	m := testManager(t)

	if err := m.Save(Default()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(m.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after save")
	}

	// File is valid JSON
	data, err := os.ReadFile(m.Path())
	if err != nil {
		t.Fatalf("reading saved profile: %v", err)
	}
	var check map[string]any
	if err := json.Unmarshal(data, &check); err != nil {
		t.Errorf("saved profile is not valid JSON: %v", err)
	}
}

func TestSave_UnwritableDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0700) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(filepath.Join(dir, "user_config.json"), logger)

	err := m.Save(Default())
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("Save() error = %v, want ErrWriteFailed", err)
	}
}

func TestSave_InvalidProfileRejectedWithoutCorruption(t *testing.T) {
	m := testManager(t)

	good := Default()
	good.Financial.Income = 6000
	if err := m.Save(good); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	bad := Default()
	bad.Financial.Income = -100

	err := m.Save(bad)
	var valErr *advisorerrors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Save() error = %v, want ValidationError", err)
	}
	if valErr.Field != "financial.income" {
		t.Errorf("Field = %q, want financial.income", valErr.Field)
	}

	// Previously saved values survive the rejected save
	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Financial.Income != 6000 {
		t.Errorf("Income = %v, want previously saved 6000", got.Financial.Income)
	}
}

func TestLoad_CorruptFileReturnsDefaults(t *testing.T) {
	m := testManager(t)

	if err := os.WriteFile(m.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, corrupt files must not fail", err)
	}
	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestLoad_WrongTypeFallsBackPerKey(t *testing.T) {
	m := testManager(t)

	content := `{
  "financial_data": {
    "income": "lots",
    "savings_goal": 900
  },
  "website_url": 42,
  "research_topic": "Robotics"
}`
	if err := os.WriteFile(m.Path(), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Mistyped keys fall back to defaults
	if got.Financial.Income != 5000 {
		t.Errorf("Income = %v, want default 5000", got.Financial.Income)
	}
	if got.WebsiteURL != Default().WebsiteURL {
		t.Errorf("WebsiteURL = %q, want default", got.WebsiteURL)
	}

	// Well-typed keys in the same file survive
	if got.Financial.SavingsGoal != 900 {
		t.Errorf("SavingsGoal = %v, want 900", got.Financial.SavingsGoal)
	}
	if got.ResearchTopic != "Robotics" {
		t.Errorf("ResearchTopic = %q, want Robotics", got.ResearchTopic)
	}

	// Missing keys resolve to defaults
	if got.Product.ProductName != "New Product" {
		t.Errorf("ProductName = %q, want default", got.Product.ProductName)
	}
	if len(got.Financial.Expenses) != 6 {
		t.Errorf("Expenses has %d entries, want 6 defaults", len(got.Financial.Expenses))
	}
}

func TestReset_All(t *testing.T) {
	m := testManager(t)

	p := Default()
	p.Financial.Income = 9999
	if err := m.Save(p); err != nil {
		t.Fatal(err)
	}

	got, err := m.Reset(SectionAll)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("Reset() = %+v, want defaults", got)
	}
	if m.Exists() {
		t.Error("Reset(all) should remove the profile file")
	}
}

func TestReset_AllWithoutFile(t *testing.T) {
	m := testManager(t)

	got, err := m.Reset(SectionAll)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if !reflect.DeepEqual(got, Default()) {
		t.Errorf("Reset() = %+v, want defaults", got)
	}
}

func TestReset_SectionKeepsOtherSections(t *testing.T) {
	m := testManager(t)

	p := Default()
	p.Financial.Income = 9999
	p.Product.ProductName = "Widget Pro"
	p.ResearchTopic = "Robotics"
	if err := m.Save(p); err != nil {
		t.Fatal(err)
	}

	got, err := m.Reset(SectionFinancial)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if got.Financial.Income != 5000 {
		t.Errorf("Income = %v, want default 5000", got.Financial.Income)
	}
	if got.Product.ProductName != "Widget Pro" {
		t.Errorf("ProductName = %q, want Widget Pro preserved", got.Product.ProductName)
	}
	if got.ResearchTopic != "Robotics" {
		t.Errorf("ResearchTopic = %q, want Robotics preserved", got.ResearchTopic)
	}

	// The reset is persisted
	reloaded, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Financial.Income != 5000 {
		t.Errorf("reloaded Income = %v, want 5000", reloaded.Financial.Income)
	}
}

func TestReset_ResearchSection(t *testing.T) {
	m := testManager(t)

	p := Default()
	p.WebsiteURL = "https://example.com"
	p.ResearchTopic = "Robotics"
	p.Financial.Income = 8000
	if err := m.Save(p); err != nil {
		t.Fatal(err)
	}

	got, err := m.Reset(SectionResearch)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if got.WebsiteURL != Default().WebsiteURL {
		t.Errorf("WebsiteURL = %q, want default", got.WebsiteURL)
	}
	if got.ResearchTopic != Default().ResearchTopic {
		t.Errorf("ResearchTopic = %q, want default", got.ResearchTopic)
	}
	if got.Financial.Income != 8000 {
		t.Errorf("Income = %v, want 8000 preserved", got.Financial.Income)
	}
}

func TestReset_UnknownSection(t *testing.T) {
	m := testManager(t)

	_, err := m.Reset("daemon")
	if err == nil {
		t.Fatal("Reset() with unknown section should fail")
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("outputs")
	want := filepath.Join("outputs", "user_config.json")
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
