package crew

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/advisor/pkg/llm"
)

// scriptedProvider records requests and answers each with a canned response.
type scriptedProvider struct {
	requests  []llm.CompletionRequest
	responses []string
	err       error
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Capabilities() llm.Capabilities { return llm.Capabilities{} }

func (s *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}

	content := fmt.Sprintf("response %d", len(s.requests))
	if len(s.responses) >= len(s.requests) {
		content = s.responses[len(s.requests)-1]
	}

	return &llm.CompletionResponse{
		Content:      content,
		FinishReason: llm.FinishReasonStop,
		Usage:        llm.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func analystTask(id string) Task {
	return Task{
		ID:          id,
		Description: "Analyze the budget for income {{.income}}.",
		Agent: Agent{
			Role:      "Budget Analyst",
			Goal:      "Produce a clear budget breakdown",
			Backstory: "A seasoned personal finance expert.",
		},
	}
}

func TestNew_Validation(t *testing.T) {
	provider := &scriptedProvider{}

	tests := []struct {
		name    string
		crew    string
		tasks   []Task
		wantErr string
	}{
		{"empty name", "", []Task{analystTask("a")}, "name is required"},
		{"no tasks", "finance", nil, "at least one task"},
		{"missing task id", "finance", []Task{{Agent: Agent{Role: "x"}}}, "has no ID"},
		{"duplicate task id", "finance", []Task{analystTask("a"), analystTask("a")}, "duplicate task ID"},
		{"missing agent role", "finance", []Task{{ID: "a"}}, "no agent role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.crew, provider, tt.tasks)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_RequiresProvider(t *testing.T) {
	_, err := New("finance", nil, []Task{analystTask("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestKickoff_SingleTask(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"budget looks healthy"}}
	c, err := New("finance", provider, []Task{analystTask("analyze")})
	require.NoError(t, err)

	result, err := c.Kickoff(context.Background(), map[string]any{"income": 5000.0})
	require.NoError(t, err)

	assert.Equal(t, "budget looks healthy", result.Raw)
	require.Len(t, result.TaskOutputs, 1)
	assert.Equal(t, "analyze", result.TaskOutputs[0].TaskID)
	assert.Equal(t, 15, result.Usage.TotalTokens)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.MessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "You are Budget Analyst.")
	assert.Contains(t, req.Messages[0].Content, "Your goal:")
	assert.Contains(t, req.Messages[1].Content, "income 5000")
	assert.Equal(t, "finance", req.Metadata["crew"])
	assert.Equal(t, "analyze", req.Metadata["task"])
}

func TestKickoff_PassesPriorOutputsAsContext(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"research findings", "final plan"}}

	research := analystTask("research")
	plan := Task{
		ID:          "plan",
		Description: "Write a plan.",
		Agent:       Agent{Role: "Planner"},
	}

	c, err := New("launch", provider, []Task{research, plan})
	require.NoError(t, err)

	result, err := c.Kickoff(context.Background(), map[string]any{"income": 1.0})
	require.NoError(t, err)

	assert.Equal(t, "final plan", result.Raw)
	assert.Equal(t, 30, result.Usage.TotalTokens)

	require.Len(t, provider.requests, 2)
	second := provider.requests[1].Messages[1].Content
	assert.Contains(t, second, "Context from earlier work")
	assert.Contains(t, second, "research findings")
	assert.Contains(t, second, "Budget Analyst")
}

func TestKickoff_CollectsOutputFiles(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"size": "large"}`, "outreach report"}}

	tasks := []Task{
		{
			ID:          "market",
			Description: "Research the market.",
			OutputFile:  "market_research.json",
			Agent:       Agent{Role: "Market Researcher"},
		},
		{
			ID:          "outreach",
			Description: "Write outreach.",
			OutputFile:  "outreach_report.md",
			Agent:       Agent{Role: "Outreach Specialist"},
		},
	}

	c, err := New("launch", provider, tasks)
	require.NoError(t, err)

	result, err := c.Kickoff(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, `{"size": "large"}`, result.Files["market_research.json"])
	assert.Equal(t, "outreach report", result.Files["outreach_report.md"])
}

func TestKickoff_TemperaturePrecedence(t *testing.T) {
	provider := &scriptedProvider{}

	agentTemp := 0.2
	tasks := []Task{
		{ID: "a", Description: "one", Agent: Agent{Role: "A"}},
		{ID: "b", Description: "two", Agent: Agent{Role: "B", Temperature: &agentTemp}},
	}

	c, err := New("research", provider, tasks, WithTemperature(0.7))
	require.NoError(t, err)

	_, err = c.Kickoff(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, provider.requests, 2)
	require.NotNil(t, provider.requests[0].Temperature)
	assert.Equal(t, 0.7, *provider.requests[0].Temperature)
	require.NotNil(t, provider.requests[1].Temperature)
	assert.Equal(t, 0.2, *provider.requests[1].Temperature)
}

func TestKickoff_ProviderErrorNamesTask(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("boom")}
	c, err := New("finance", provider, []Task{analystTask("analyze")})
	require.NoError(t, err)

	_, err = c.Kickoff(context.Background(), map[string]any{"income": 1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "analyze"`)
	assert.Contains(t, err.Error(), "boom")
}

func TestKickoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{}
	c, err := New("finance", provider, []Task{analystTask("analyze")})
	require.NoError(t, err)

	_, err = c.Kickoff(ctx, map[string]any{"income": 1.0})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, provider.requests)
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		inputs  map[string]any
		want    string
		wantErr bool
	}{
		{
			name:   "simple substitution",
			tmpl:   "Income is {{.income}} per month.",
			inputs: map[string]any{"income": "$5,000.00"},
			want:   "Income is $5,000.00 per month.",
		},
		{
			name:   "no variables",
			tmpl:   "static text",
			inputs: nil,
			want:   "static text",
		},
		{
			name:    "missing key",
			tmpl:    "{{.missing}}",
			inputs:  map[string]any{"income": 1},
			wantErr: true,
		},
		{
			name:    "malformed template",
			tmpl:    "{{.income",
			inputs:  map[string]any{"income": 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate(tt.tmpl, tt.inputs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystemPrompt_OmitsEmptySections(t *testing.T) {
	got := systemPrompt(Agent{Role: "Researcher"})
	assert.Equal(t, "You are Researcher.", got)
	assert.False(t, strings.Contains(got, "Background"))
}
