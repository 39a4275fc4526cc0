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

// Package launch runs the product launch crew: market research, content
// creation, and PR outreach for a product launch plan.
package launch

import (
	"context"

	"github.com/tombee/advisor/internal/profile"
	"github.com/tombee/advisor/pkg/crew"
	"github.com/tombee/advisor/pkg/llm"
)

// Task output file names bundled into the launch package.
const (
	MarketResearchFile = "market_research.json"
	ContentPlanFile    = "content_plan.txt"
	OutreachReportFile = "outreach_report.md"
)

// Plan is the outcome of a product launch run.
type Plan struct {
	// Summary is the final launch strategy text.
	Summary string

	// Files maps task output file names to their content.
	Files map[string]string

	// Result carries per-task outputs and token usage.
	Result *crew.Result
}

// Run executes the product launch crew for the given product.
func Run(ctx context.Context, provider llm.Provider, product profile.ProductData, opts ...crew.Option) (*Plan, error) {
	c, err := NewCrew(provider, opts...)
	if err != nil {
		return nil, err
	}

	result, err := c.Kickoff(ctx, inputs(product))
	if err != nil {
		return nil, err
	}

	return &Plan{
		Summary: result.Raw,
		Files:   result.Files,
		Result:  result,
	}, nil
}

// NewCrew builds the three-agent product launch crew.
func NewCrew(provider llm.Provider, opts ...crew.Option) (*crew.Crew, error) {
	marketResearcher := crew.Agent{
		Role: "Market Researcher",
		Goal: "Conduct thorough market research to identify target demographics and competitors.",
		Backstory: "Analytical and detail-oriented, you excel at gathering insights about the market, " +
			"analyzing competitors, and identifying the best strategies to target the desired audience.",
	}

	contentCreator := crew.Agent{
		Role: "Content Creator",
		Goal: "Develop engaging content for the product launch, including blogs, social media posts, and videos.",
		Backstory: "Creative and persuasive, you craft content that resonates with the audience, " +
			"driving engagement and excitement for the product launch.",
	}

	prSpecialist := crew.Agent{
		Role: "PR and Outreach Specialist",
		Goal: "Reach out to influencers, media outlets, and key opinion leaders to promote the product launch.",
		Backstory: "With strong networking skills, you connect with influencers and media outlets to ensure " +
			"the product launch gains maximum visibility and coverage.",
	}

	tasks := []crew.Task{
		{
			ID:    "market_research",
			Agent: marketResearcher,
			Description: `Conduct market research for the {{.product_name}} launch, focusing on target demographics and competitors.

PRODUCT DETAILS:
- Name: {{.product_name}}
- Description: {{.product_description}}
- Target Market: {{.target_market}}
- Launch Date: {{.launch_date}}
- Budget: {{.budget}}

Respond with a JSON object containing the fields "target_demographics", "competitor_analysis", and "key_findings".`,
			ExpectedOutput: "A detailed report on market research findings, including target demographics and competitor analysis, as a JSON object.",
			OutputFile:     MarketResearchFile,
		},
		{
			ID:             "content_creation",
			Agent:          contentCreator,
			Description:    "Create content for the {{.product_name}} launch, including blog posts, social media updates, and promotional videos.",
			ExpectedOutput: "A collection of content pieces ready for publication.",
			OutputFile:     ContentPlanFile,
		},
		{
			ID:             "pr_outreach",
			Agent:          prSpecialist,
			Description:    "Contact influencers, media outlets, and key opinion leaders to promote the {{.product_name}} launch.",
			ExpectedOutput: "A report on outreach efforts, including responses from influencers and media coverage.",
			OutputFile:     OutreachReportFile,
		},
	}

	return crew.New("launch", provider, tasks, opts...)
}

// inputs maps the product profile to template variables.
func inputs(product profile.ProductData) map[string]any {
	return map[string]any{
		"product_name":        product.ProductName,
		"product_description": product.ProductDescription,
		"launch_date":         product.LaunchDate,
		"target_market":       product.TargetMarket,
		"budget":              product.Budget,
	}
}
