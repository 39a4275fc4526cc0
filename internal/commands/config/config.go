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

// Package config implements the `advisor config` command group.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	appconfig "github.com/tombee/advisor/internal/config"
	"gopkg.in/yaml.v3"
)

// NewCommand creates the config command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect advisor configuration",
		Long: `Show the effective application configuration (file, environment, and
defaults merged) or the path the config file is loaded from.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newPathCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load(shared.ResolveConfigPath())
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			Config *appconfig.Config `json:"config"`
		}{
			JSONResponse: shared.NewJSONResponse("config show"),
			Config:       cfg,
		}
		return shared.EmitJSON(resp)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Print(string(data))

	return nil
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE:  runPath,
	}
}

func runPath(cmd *cobra.Command, args []string) error {
	path := shared.GetConfigPath()
	if path == "" {
		var err error
		path, err = appconfig.ConfigPath()
		if err != nil {
			return shared.ClassifyError("resolving config path", err)
		}
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			Path string `json:"path"`
		}{
			JSONResponse: shared.NewJSONResponse("config path"),
			Path:         path,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(path)
	return nil
}
