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

// Package research implements the `advisor research` command group.
package research

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	researchcrew "github.com/tombee/advisor/internal/crews/research"
	"github.com/tombee/advisor/internal/log"
	"github.com/tombee/advisor/pkg/crew"
)

// timeRound trims run durations for display.
const timeRound = 100 * time.Millisecond

// NewCommand creates the research command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Run the web research crew",
		Long: `Research a topic with the research analyst agents and write the
structured report to the output directory.

'research website' analyzes a topic against a specific website;
'research topic' researches a topic from the model's own knowledge.
Both default to the topic and URL stored in your profile.`,
	}

	cmd.AddCommand(newWebsiteCommand())
	cmd.AddCommand(newTopicCommand())

	return cmd
}

func newWebsiteCommand() *cobra.Command {
	var url, topic string

	cmd := &cobra.Command{
		Use:   "website",
		Short: "Research a topic against a website",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebsite(cmd, url, topic)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Website URL to analyze (default: profile research.website_url)")
	cmd.Flags().StringVar(&topic, "topic", "", "Research topic (default: profile research.topic)")

	return cmd
}

func newTopicCommand() *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Research a topic without a source website",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopic(cmd, topic)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Research topic (default: profile research.topic)")

	return cmd
}

func runWebsite(cmd *cobra.Command, url, topic string) error {
	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	prof, err := rt.Profile.Load()
	if err != nil {
		return shared.ClassifyError("loading profile", err)
	}
	if url == "" {
		url = prof.WebsiteURL
	}
	if topic == "" {
		topic = prof.ResearchTopic
	}

	provider, err := rt.Provider()
	if err != nil {
		return shared.ClassifyError("configuring LLM provider", err)
	}

	result, err := researchcrew.RunWebsite(cmd.Context(), provider, url, topic,
		crew.WithLogger(log.WithCrew(rt.Logger, "research")))
	if err != nil {
		return shared.ClassifyError("running website research", err)
	}

	path, err := rt.Reports.WriteResearchReport(result.Report, topic, url)
	if err != nil {
		return shared.NewRunError("writing report", err)
	}

	return emitResult(cmd, "research website", path, result)
}

func runTopic(cmd *cobra.Command, topic string) error {
	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	prof, err := rt.Profile.Load()
	if err != nil {
		return shared.ClassifyError("loading profile", err)
	}
	if topic == "" {
		topic = prof.ResearchTopic
	}

	provider, err := rt.Provider()
	if err != nil {
		return shared.ClassifyError("configuring LLM provider", err)
	}

	result, err := researchcrew.RunTopic(cmd.Context(), provider, topic,
		crew.WithLogger(log.WithCrew(rt.Logger, "research")))
	if err != nil {
		return shared.ClassifyError("running topic research", err)
	}

	path, err := rt.Reports.WriteResearchReport(result.Report, topic, "")
	if err != nil {
		return shared.NewRunError("writing report", err)
	}

	return emitResult(cmd, "research topic", path, result)
}

func emitResult(cmd *cobra.Command, command, path string, result *researchcrew.Report) error {
	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			ReportPath  string `json:"report_path"`
			TotalTokens int    `json:"total_tokens"`
		}{
			JSONResponse: shared.NewJSONResponse(command),
			ReportPath:   path,
			TotalTokens:  result.Result.Usage.TotalTokens,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderOK("research report written to " + path))
	if !shared.GetQuiet() {
		cmd.Println(shared.RenderLabel(fmt.Sprintf("tasks: %d  tokens: %d  duration: %s",
			len(result.Result.TaskOutputs), result.Result.Usage.TotalTokens, result.Result.Duration.Round(timeRound))))
	}

	return nil
}
