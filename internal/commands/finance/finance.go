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

// Package finance implements the `advisor finance` command.
package finance

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	financecrew "github.com/tombee/advisor/internal/crews/finance"
	"github.com/tombee/advisor/internal/log"
	"github.com/tombee/advisor/pkg/crew"
)

// timeRound trims run durations for display.
const timeRound = 100 * time.Millisecond

// NewCommand creates the finance command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Run the financial advisor crew",
		Long: `Analyze the financial data in your profile with the budgeting,
investment, and debt management agents, and write the analysis report
to the output directory.

Set your income, expenses, debts, and savings goal first with
'advisor profile set' or 'advisor profile edit'.`,
		Args: cobra.NoArgs,
		RunE: runFinance,
	}

	return cmd
}

func runFinance(cmd *cobra.Command, args []string) error {
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

	analysis, err := financecrew.Run(cmd.Context(), provider, prof.Financial,
		crew.WithLogger(log.WithCrew(rt.Logger, "finance")),
		crew.WithTemperature(rt.Config.LLM.Temperature),
	)
	if err != nil {
		return shared.ClassifyError("running financial analysis", err)
	}

	path, err := rt.Reports.WriteFinancialReport(analysis.Report, prof.Financial.Income, prof.Financial.SavingsGoal)
	if err != nil {
		return shared.NewRunError("writing report", err)
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			ReportPath  string `json:"report_path"`
			TotalTokens int    `json:"total_tokens"`
		}{
			JSONResponse: shared.NewJSONResponse("finance"),
			ReportPath:   path,
			TotalTokens:  analysis.Result.Usage.TotalTokens,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderOK("financial analysis written to " + path))
	if !shared.GetQuiet() {
		cmd.Println(shared.RenderLabel(fmt.Sprintf("tasks: %d  tokens: %d  duration: %s",
			len(analysis.Result.TaskOutputs), analysis.Result.Usage.TotalTokens, analysis.Result.Duration.Round(timeRound))))
	}

	return nil
}
