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

// Package research runs the web research crew: a research analyst pass
// followed by a structuring pass, at low temperature for factual output.
package research

import (
	"context"
	"strings"
	"time"

	"github.com/tombee/advisor/pkg/crew"
	"github.com/tombee/advisor/pkg/errors"
	"github.com/tombee/advisor/pkg/llm"
)

// defaultTemperature keeps research output factual. Callers can still
// override it with crew.WithTemperature.
const defaultTemperature = 0.2

// Report is the outcome of a research run.
type Report struct {
	// Report is the post-processed research report.
	Report string

	// Result carries per-task outputs and token usage.
	Result *crew.Result
}

// RunWebsite researches a topic against a specific website.
func RunWebsite(ctx context.Context, provider llm.Provider, websiteURL, topic string, opts ...crew.Option) (*Report, error) {
	if err := validateInputs(websiteURL, topic); err != nil {
		return nil, err
	}

	c, err := newWebsiteCrew(provider, opts...)
	if err != nil {
		return nil, err
	}

	result, err := c.Kickoff(ctx, map[string]any{
		"topic":       topic,
		"website_url": websiteURL,
	})
	if err != nil {
		return nil, err
	}

	report := ValidateAndImprove(result.Raw, topic)
	report = EnhanceStructure(report, websiteURL, topic, time.Now())

	return &Report{Report: report, Result: result}, nil
}

// RunTopic researches a topic without a source website, relying on the
// model's own knowledge.
func RunTopic(ctx context.Context, provider llm.Provider, topic string, opts ...crew.Option) (*Report, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &errors.ValidationError{
			Field:   "research.topic",
			Message: "research topic must not be empty",
		}
	}

	c, err := newTopicCrew(provider, opts...)
	if err != nil {
		return nil, err
	}

	result, err := c.Kickoff(ctx, map[string]any{"topic": topic})
	if err != nil {
		return nil, err
	}

	report := ValidateAndImprove(result.Raw, topic)
	report = EnhanceStructure(report, "", topic, time.Now())

	return &Report{Report: report, Result: result}, nil
}

func validateInputs(websiteURL, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return &errors.ValidationError{
			Field:   "research.topic",
			Message: "research topic must not be empty",
		}
	}
	if websiteURL == "" {
		return &errors.ValidationError{
			Field:   "research.website_url",
			Message: "website URL must not be empty",
		}
	}
	if !strings.HasPrefix(websiteURL, "http://") && !strings.HasPrefix(websiteURL, "https://") {
		return &errors.ValidationError{
			Field:      "research.website_url",
			Message:    "website URL must start with http:// or https://",
			Suggestion: "Use a full URL such as https://example.com/page",
		}
	}
	return nil
}

func researcherAgent() crew.Agent {
	return crew.Agent{
		Role: "Senior Website Research Analyst",
		Goal: "Conduct comprehensive, structured analysis of website content with systematic information extraction.",
		Backstory: "You are a senior research analyst with expertise in digital content analysis " +
			"and information extraction. You have a systematic approach to research that ensures comprehensive " +
			"coverage of topics and well-structured presentation of findings. You excel at identifying key " +
			"information, analyzing relevance, and presenting insights in organized, actionable formats.",
	}
}

func analyzerAgent() crew.Agent {
	return crew.Agent{
		Role: "Content Structure and Quality Analyst",
		Goal: "Analyze and structure research findings into comprehensive, well-organized reports.",
		Backstory: "You are a content analysis expert who specializes in organizing and structuring " +
			"research findings. You excel at creating clear, logical information hierarchies and ensuring " +
			"that research outputs are comprehensive, actionable, and well-formatted. You have a keen eye " +
			"for identifying gaps in information and ensuring quality standards.",
	}
}

// structureDescription is the second task's brief. It is shared by the
// website and topic crews; only the source line differs.
const structureDescription = `Transform the research findings into a WELL-STRUCTURED, COMPREHENSIVE REPORT.

Using the research data gathered about '{{.topic}}', create a structured analysis that includes:

## 1. EXECUTIVE SUMMARY (150-200 words)
- Concise overview of key findings
- Main insights and conclusions
- Strategic implications or significance

## 2. KEY FINDINGS TABLE
Create a structured table with:
| Finding # | Key Finding | Relevance (1-10) | Source Section | Supporting Details |
|-----------|-------------|------------------|----------------|-------------------|

## 3. DETAILED ANALYSIS SECTIONS

### A. Primary Information Analysis
- Main facts and data about '{{.topic}}'
- Direct quotes or statements from the source material
- Statistical information or metrics

### B. Contextual Analysis
- How '{{.topic}}' fits within the broader context
- Related initiatives, products, or services
- Strategic positioning or approach

### C. Insights and Implications
- What the information reveals about '{{.topic}}'
- Trends, patterns, or notable aspects
- Potential impact or significance

## 4. RESEARCH METHODOLOGY
- Sources analyzed
- Search approach and techniques used
- Coverage assessment (comprehensive vs limited)

## 5. LIMITATIONS AND GAPS
- Information not available in the source material
- Areas requiring additional research
- Potential biases or limitations in source material

## 6. RECOMMENDATIONS
- Suggested follow-up research areas
- Additional sources to consult
- Key questions for further investigation

FORMATTING REQUIREMENTS:
- Use clear headings and subheadings
- Include bullet points for easy reading
- Add tables where appropriate
- Ensure logical flow and organization
- Include specific examples and evidence`

const structureExpectedOutput = `A comprehensive, well-structured research report with:
- Clear executive summary
- Organized key findings in tabular format
- Detailed analysis sections with supporting evidence
- Methodology explanation
- Identified limitations and research gaps
- Actionable recommendations
- Professional formatting with headers, bullets, and tables`

func newWebsiteCrew(provider llm.Provider, opts ...crew.Option) (*crew.Crew, error) {
	tasks := []crew.Task{
		{
			ID:    "website_research",
			Agent: researcherAgent(),
			Description: `Conduct a COMPREHENSIVE research analysis on the topic '{{.topic}}' as presented by the website {{.website_url}}.

RESEARCH METHODOLOGY:
1. **Systematic Content Scanning**: Consider all relevant sections of the website
2. **Topic-Focused Analysis**: Identify all information related to '{{.topic}}'
3. **Relevance Assessment**: Evaluate the importance and relevance of each finding
4. **Context Analysis**: Understand how the information fits within the broader context

SPECIFIC RESEARCH REQUIREMENTS:
- Extract ALL relevant information about '{{.topic}}'
- Identify key facts, statistics, quotes, and data points
- Note the source sections/pages where information was found
- Assess the credibility and recency of information
- Look for related subtopics and supporting information
- Identify any gaps or limitations in available information

WEBSITE TO ANALYZE: {{.website_url}}
RESEARCH TOPIC: '{{.topic}}'

EXPECTED FINDINGS SHOULD INCLUDE:
- Main concepts and definitions related to '{{.topic}}'
- Key facts, statistics, and data points
- Perspectives the website presents on '{{.topic}}'
- Products, services, or solutions related to '{{.topic}}'
- Historical context or background information
- Current status, trends, or developments
- Any supporting evidence or case studies

Be thorough and systematic in your research approach.`,
			ExpectedOutput: `A comprehensive research dataset containing:
- All relevant information found about the topic
- Source locations for each piece of information
- Relevance assessment for each finding
- Contextual analysis and connections between findings
- Identification of information gaps or limitations`,
		},
		{
			ID:             "structure_analysis",
			Agent:          analyzerAgent(),
			Description:    structureDescription,
			ExpectedOutput: structureExpectedOutput,
		},
	}

	return newCrew("research", provider, tasks, opts)
}

func newTopicCrew(provider llm.Provider, opts ...crew.Option) (*crew.Crew, error) {
	tasks := []crew.Task{
		{
			ID:    "topic_research",
			Agent: researcherAgent(),
			Description: `Conduct a COMPREHENSIVE research analysis on the topic '{{.topic}}'.

RESEARCH METHODOLOGY:
1. **Topic-Focused Analysis**: Identify all key information related to '{{.topic}}'
2. **Relevance Assessment**: Evaluate the importance and relevance of each finding
3. **Context Analysis**: Understand how the information fits within the broader context

SPECIFIC RESEARCH REQUIREMENTS:
- Cover the main concepts and definitions related to '{{.topic}}'
- Identify key facts, statistics, and data points
- Include historical context and background information
- Describe current status, trends, and developments
- Identify any gaps or limitations in available information

Be thorough and systematic in your research approach.`,
			ExpectedOutput: `A comprehensive research dataset containing:
- All relevant information about the topic
- Relevance assessment for each finding
- Contextual analysis and connections between findings
- Identification of information gaps or limitations`,
		},
		{
			ID:             "structure_analysis",
			Agent:          analyzerAgent(),
			Description:    structureDescription,
			ExpectedOutput: structureExpectedOutput,
		},
	}

	return newCrew("research", provider, tasks, opts)
}

func newCrew(name string, provider llm.Provider, tasks []crew.Task, opts []crew.Option) (*crew.Crew, error) {
	all := append([]crew.Option{crew.WithTemperature(defaultTemperature)}, opts...)
	return crew.New(name, provider, tasks, all...)
}
