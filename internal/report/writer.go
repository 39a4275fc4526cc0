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

// Package report writes advisor results to timestamped files in the
// output directory.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const (
	// timestampLayout is used in report file names.
	timestampLayout = "20060102_150405"

	// generatedLayout is used in report headers.
	generatedLayout = "2006-01-02 15:04:05"

	// maxNameLen caps sanitized names embedded in file names.
	maxNameLen = 50
)

// SanitizeName reduces a free-form name to a safe file name fragment,
// keeping letters, digits, underscores, and hyphens.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	// Truncate by rune so multi-byte names are never split mid-sequence
	runes := []rune(b.String())
	if len(runes) > maxNameLen {
		runes = runes[:maxNameLen]
	}
	return string(runes)
}

// Writer persists reports into a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the time source, used by tests for stable file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a report writer for the given directory.
func NewWriter(dir string, logger *slog.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Writer{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteFinancialReport saves a financial analysis with its report header
// and returns the written file path.
func (w *Writer) WriteFinancialReport(result string, income, savingsGoal float64) (string, error) {
	now := w.now()
	filename := fmt.Sprintf("financial_analysis_income_%v_%s.md", income, now.Format(timestampLayout))

	content := fmt.Sprintf(`# Personal Financial Analysis Report

**Generated:** %s
**Monthly Income:** $%s
**Savings Goal:** $%s

---

## Analysis Results

%s

---

**Note:** This analysis is generated by AI, based on the information provided and should be used as a guide.
Consider consulting with a financial advisor for personalized advice.
`, now.Format(generatedLayout), FormatAmount(income), FormatAmount(savingsGoal), result)

	return w.write(filename, content)
}

// WriteResearchReport saves research findings with their report header
// and returns the written file path. websiteURL may be empty for
// topic-only research.
func (w *Writer) WriteResearchReport(result, topic, websiteURL string) (string, error) {
	now := w.now()
	safeTopic := SanitizeName(topic)
	if safeTopic == "" {
		safeTopic = "research"
	}
	filename := fmt.Sprintf("research_%s_%s.md", safeTopic, now.Format(timestampLayout))

	source := ""
	if websiteURL != "" {
		source = fmt.Sprintf("**Website Analyzed:** %s\n", websiteURL)
	}

	content := fmt.Sprintf(`# Website Research Report

**Research Topic:** %s
%s**Generated:** %s

---

## Key Findings

%s

---

*This research was conducted using the Business Advisor Suite Web Research Module*
`, topic, source, now.Format(generatedLayout), result)

	return w.write(filename, content)
}

// LaunchArtifacts lists everything written for a launch run.
type LaunchArtifacts struct {
	// SummaryPath is the launch summary markdown file.
	SummaryPath string

	// FilePaths are the individual task output files (market research,
	// content plan, outreach report).
	FilePaths []string

	// PackagePath is the zip archive bundling all launch materials.
	PackagePath string
}

// WriteLaunchReport saves the launch summary, each non-empty task file,
// and a zip package bundling them all.
func (w *Writer) WriteLaunchReport(result, productName string, files map[string]string) (*LaunchArtifacts, error) {
	now := w.now()
	safeName := SanitizeName(productName)
	if safeName == "" {
		safeName = "product"
	}
	timestamp := now.Format(timestampLayout)

	artifacts := &LaunchArtifacts{}

	summaryName := fmt.Sprintf("launch_summary_%s_%s.md", safeName, timestamp)
	summaryPath, err := w.write(summaryName, result)
	if err != nil {
		return nil, err
	}
	artifacts.SummaryPath = summaryPath

	for name, content := range files {
		if strings.TrimSpace(content) == "" {
			continue
		}
		path, err := w.write(name, content)
		if err != nil {
			return nil, err
		}
		artifacts.FilePaths = append(artifacts.FilePaths, path)
	}

	packageName := fmt.Sprintf("launch_package_%s_%s.zip", safeName, timestamp)
	packagePath, err := w.writeLaunchPackage(packageName, safeName, now, result, files)
	if err != nil {
		return nil, err
	}
	artifacts.PackagePath = packagePath

	return artifacts, nil
}

// write persists a single file in the output directory.
func (w *Writer) write(filename, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("report written", "report", path)
	return path, nil
}

// FormatAmount renders a dollar amount with thousands separators,
// dropping the cents when the amount is whole.
func FormatAmount(amount float64) string {
	whole := int64(amount)
	cents := amount - float64(whole)

	s := formatThousands(whole)
	if cents > 0.004 {
		return fmt.Sprintf("%s.%02d", s, int(cents*100+0.5))
	}
	return s
}

func formatThousands(n int64) string {
	if n < 0 {
		return "-" + formatThousands(-n)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
