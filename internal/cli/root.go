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

// Package cli builds the root command for the advisor CLI.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for the advisor CLI
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advisor",
		Short: "Business Advisor Suite - AI advisor crews for your business",
		Long: `Advisor runs small crews of LLM agents against your saved profile:
a financial advisor, a product launch planner, and a web researcher.
Reports are written to the output directory.

Configure Azure OpenAI credentials via AZURE_API_KEY and AZURE_API_BASE.
Run 'advisor profile edit' to set up your data interactively.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	// Get flag pointers from shared package
	verbose, quiet, json, config, outputDir := shared.RegisterFlagPointers()

	// Add global flags
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ~/.config/advisor/config.yaml)")
	cmd.PersistentFlags().StringVar(outputDir, "output-dir", "", "Directory for profiles and reports (default: outputs)")

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
