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

package cli

import (
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "advisor" {
		t.Errorf("Use = %q, want %q", cmd.Use, "advisor")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be set")
	}
	if !cmd.SilenceErrors {
		t.Error("SilenceErrors should be set")
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"verbose", "quiet", "json", "config", "output-dir"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}
}

func TestNewRootCommand_FlagParsing(t *testing.T) {
	cmd := NewRootCommand()

	if err := cmd.PersistentFlags().Parse([]string{"--verbose", "--output-dir", "/tmp/out"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	verbose, err := cmd.PersistentFlags().GetBool("verbose")
	if err != nil || !verbose {
		t.Errorf("verbose = %v, err = %v", verbose, err)
	}

	dir, err := cmd.PersistentFlags().GetString("output-dir")
	if err != nil || dir != "/tmp/out" {
		t.Errorf("output-dir = %q, err = %v", dir, err)
	}
}
