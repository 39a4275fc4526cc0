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

// Package profile implements the `advisor profile` command group for
// managing the persisted scenario profile.
package profile

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the profile command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the advisor profile",
		Long: `View and edit the persisted profile the advisor crews run against:
financial data (income, expenses, debts, savings goal), product details,
and research settings.

The profile is stored as JSON in the output directory. Missing or
invalid values fall back to built-in defaults on load.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newResetCommand())
	cmd.AddCommand(newEditCommand())

	return cmd
}
