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

package main

import (
	"github.com/tombee/advisor/internal/cli"
	configcmd "github.com/tombee/advisor/internal/commands/config"
	"github.com/tombee/advisor/internal/commands/finance"
	"github.com/tombee/advisor/internal/commands/launch"
	profilecmd "github.com/tombee/advisor/internal/commands/profile"
	"github.com/tombee/advisor/internal/commands/research"
	versioncmd "github.com/tombee/advisor/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Set version information from build-time ldflags
	cli.SetVersion(version, commit, buildDate)

	// Create root command and add subcommands
	rootCmd := cli.NewRootCommand()

	// Advisor crew commands
	rootCmd.AddCommand(finance.NewCommand())
	rootCmd.AddCommand(launch.NewCommand())
	rootCmd.AddCommand(research.NewCommand())

	// Profile and configuration
	rootCmd.AddCommand(profilecmd.NewCommand())
	rootCmd.AddCommand(configcmd.NewCommand())

	// Version command
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		cli.HandleExitError(err)
	}
}
