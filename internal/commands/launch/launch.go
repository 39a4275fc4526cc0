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

// Package launch implements the `advisor launch` command.
package launch

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	launchcrew "github.com/tombee/advisor/internal/crews/launch"
	"github.com/tombee/advisor/internal/log"
	"github.com/tombee/advisor/pkg/crew"
)

// timeRound trims run durations for display.
const timeRound = 100 * time.Millisecond

// NewCommand creates the launch command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Run the product launch crew",
		Long: `Plan a product launch for the product in your profile with the market
research, content creation, and PR outreach agents. Writes the launch
summary, the individual task files, and a zip package bundling them all.

Set the product details first with 'advisor profile set' or
'advisor profile edit'.`,
		Args: cobra.NoArgs,
		RunE: runLaunch,
	}

	return cmd
}

func runLaunch(cmd *cobra.Command, args []string) error {
	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	prof, err := rt.Profile.Load()
	if err != nil {
		return shared.ClassifyError("loading profile", err)
	}

	provider, err := rt.Provider()
	if err != nil {
		return shared.ClassifyError("configuring LLM provider", err)
	}

	plan, err := launchcrew.Run(cmd.Context(), provider, prof.Product,
		crew.WithLogger(log.WithCrew(rt.Logger, "launch")),
		crew.WithTemperature(rt.Config.LLM.Temperature),
	)
	if err != nil {
		return shared.ClassifyError("running launch planning", err)
	}

	artifacts, err := rt.Reports.WriteLaunchReport(plan.Summary, prof.Product.ProductName, plan.Files)
	if err != nil {
		return shared.NewRunError("writing launch package", err)
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			SummaryPath string   `json:"summary_path"`
			FilePaths   []string `json:"file_paths"`
			PackagePath string   `json:"package_path"`
			TotalTokens int      `json:"total_tokens"`
		}{
			JSONResponse: shared.NewJSONResponse("launch"),
			SummaryPath:  artifacts.SummaryPath,
			FilePaths:    artifacts.FilePaths,
			PackagePath:  artifacts.PackagePath,
			TotalTokens:  plan.Result.Usage.TotalTokens,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderOK("launch summary written to " + artifacts.SummaryPath))
	for _, path := range artifacts.FilePaths {
		cmd.Println(shared.RenderOK("task output written to " + path))
	}
	cmd.Println(shared.RenderOK("launch package written to " + artifacts.PackagePath))
	if !shared.GetQuiet() {
		cmd.Println(shared.RenderLabel(fmt.Sprintf("tasks: %d  tokens: %d  duration: %s",
			len(plan.Result.TaskOutputs), plan.Result.Usage.TotalTokens, plan.Result.Duration.Round(timeRound))))
	}

	return nil
}
