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

package report

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// writeLaunchPackage bundles the launch summary, all non-empty task files,
// and a README into a zip archive in the output directory.
func (w *Writer) writeLaunchPackage(filename, safeName string, now time.Time, result string, files map[string]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create package: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	summaryName := fmt.Sprintf("launch_summary_%s.md", safeName)
	if err := addZipEntry(zw, summaryName, result); err != nil {
		zw.Close()
		return "", err
	}

	// Stable entry order for reproducible archives
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		content := files[name]
		if strings.TrimSpace(content) == "" {
			continue
		}
		if err := addZipEntry(zw, name, content); err != nil {
			zw.Close()
			return "", err
		}
	}

	readme := fmt.Sprintf(`# Product Launch Package: %s

Generated: %s

## Contents:
- %s: Complete launch strategy overview
- market_research.json: Market analysis and competitor research
- content_plan.txt: Content marketing strategy
- outreach_report.md: PR and influencer outreach plan

This package was created by the Business Advisor Suite.
`, safeName, now.Format(generatedLayout), summaryName)

	if err := addZipEntry(zw, "README.md", readme); err != nil {
		zw.Close()
		return "", err
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize package: %w", err)
	}

	w.logger.Info("launch package written", "report", path)
	return path, nil
}

func addZipEntry(zw *zip.Writer, name, content string) error {
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to package: %w", name, err)
	}
	if _, err := entry.Write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write %s to package: %w", name, err)
	}
	return nil
}
