// Package crew provides a small engine for running teams of LLM agents
// against a sequence of tasks.
//
// A Crew runs its tasks in order:
// 1. Each task's description template is rendered against the run inputs
// 2. The task's agent persona becomes the system prompt
// 3. Earlier task outputs are passed forward as context
// 4. The final task's output becomes the crew result
//
// This mirrors the sequential process of multi-agent frameworks while
// keeping the execution model explicit and synchronous.
package crew

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tombee/advisor/pkg/llm"
)

// Agent describes an LLM persona that performs tasks.
type Agent struct {
	// Role is the agent's job title, e.g. "Budget Analyst".
	Role string

	// Goal is what the agent is trying to achieve.
	Goal string

	// Backstory gives the agent expertise and voice.
	Backstory string

	// Temperature overrides the crew default for this agent's tasks.
	Temperature *float64
}

// Task is a single unit of work assigned to an agent.
type Task struct {
	// ID identifies the task in results and logs.
	ID string

	// Description is a Go template rendered against the run inputs.
	Description string

	// ExpectedOutput tells the agent what shape the answer should take.
	ExpectedOutput string

	// OutputFile, when set, names the file this task's output should be
	// written to by the caller (relative to the report directory).
	OutputFile string

	// Agent performs this task.
	Agent Agent
}

// Crew is an ordered set of tasks executed against one provider.
type Crew struct {
	name     string
	tasks    []Task
	provider llm.Provider
	logger   *slog.Logger

	// temperature is the default sampling temperature for all tasks.
	temperature *float64
}

// Option configures a Crew.
type Option func(*Crew)

// WithLogger sets the logger used during execution. Pass a logger
// already scoped to the crew (e.g. with a "crew" attribute) to tag
// every log line with the crew name.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crew) {
		c.logger = logger
	}
}

// WithTemperature sets the default sampling temperature for all tasks.
func WithTemperature(temperature float64) Option {
	return func(c *Crew) {
		c.temperature = &temperature
	}
}

// New creates a crew that runs tasks sequentially against the provider.
func New(name string, provider llm.Provider, tasks []Task, opts ...Option) (*Crew, error) {
	if name == "" {
		return nil, fmt.Errorf("crew name is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("crew %q requires a provider", name)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("crew %q requires at least one task", name)
	}

	seen := make(map[string]bool, len(tasks))
	for i, task := range tasks {
		if task.ID == "" {
			return nil, fmt.Errorf("crew %q: task %d has no ID", name, i)
		}
		if seen[task.ID] {
			return nil, fmt.Errorf("crew %q: duplicate task ID %q", name, task.ID)
		}
		seen[task.ID] = true
		if task.Agent.Role == "" {
			return nil, fmt.Errorf("crew %q: task %q has no agent role", name, task.ID)
		}
	}

	c := &Crew{
		name:     name,
		tasks:    tasks,
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Name returns the crew's identifier.
func (c *Crew) Name() string {
	return c.name
}

// TaskOutput captures the result of a single task.
type TaskOutput struct {
	// TaskID identifies which task produced this output.
	TaskID string

	// AgentRole is the role of the agent that ran the task.
	AgentRole string

	// Raw is the agent's full text output.
	Raw string

	// OutputFile is the task's requested output file name, if any.
	OutputFile string

	// Usage is the token consumption for this task.
	Usage llm.TokenUsage

	// Duration is how long the task took.
	Duration time.Duration
}

// Result is the outcome of a full crew run.
type Result struct {
	// Raw is the final task's output, the crew's headline answer.
	Raw string

	// TaskOutputs holds every task's output in execution order.
	TaskOutputs []TaskOutput

	// Files maps requested output file names to their content.
	Files map[string]string

	// Usage is the aggregate token consumption across all tasks.
	Usage llm.TokenUsage

	// Duration is the total wall-clock run time.
	Duration time.Duration
}

// Kickoff runs all tasks in order and returns the aggregated result.
// Inputs are available to task description templates as {{.name}}.
func (c *Crew) Kickoff(ctx context.Context, inputs map[string]any) (*Result, error) {
	start := time.Now()

	result := &Result{
		TaskOutputs: make([]TaskOutput, 0, len(c.tasks)),
		Files:       make(map[string]string),
	}

	c.logger.Info("crew starting", "tasks", len(c.tasks))

	for i, task := range c.tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := c.runTask(ctx, task, inputs, result.TaskOutputs)
		if err != nil {
			return nil, fmt.Errorf("crew %q task %q (%d/%d): %w", c.name, task.ID, i+1, len(c.tasks), err)
		}

		result.TaskOutputs = append(result.TaskOutputs, *output)
		result.Usage.Add(output.Usage)
		result.Raw = output.Raw

		if task.OutputFile != "" {
			result.Files[task.OutputFile] = output.Raw
		}
	}

	result.Duration = time.Since(start)

	c.logger.Info("crew finished",
		"duration", result.Duration.Round(time.Millisecond).String(),
		"total_tokens", result.Usage.TotalTokens,
	)

	return result, nil
}

// runTask renders and executes one task, passing prior outputs as context.
func (c *Crew) runTask(ctx context.Context, task Task, inputs map[string]any, prior []TaskOutput) (*TaskOutput, error) {
	start := time.Now()

	description, err := RenderTemplate(task.Description, inputs)
	if err != nil {
		return nil, fmt.Errorf("render description: %w", err)
	}

	temperature := c.temperature
	if task.Agent.Temperature != nil {
		temperature = task.Agent.Temperature
	}

	req := llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.MessageRoleSystem, Content: systemPrompt(task.Agent)},
			{Role: llm.MessageRoleUser, Content: userPrompt(description, task.ExpectedOutput, prior)},
		},
		Temperature: temperature,
		Metadata: map[string]string{
			"crew": c.name,
			"task": task.ID,
		},
	}

	c.logger.Debug("task starting",
		"task", task.ID,
		"agent", task.Agent.Role,
	)

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	c.logger.Debug("task finished",
		"task", task.ID,
		"duration", duration.Round(time.Millisecond).String(),
		"tokens", resp.Usage.TotalTokens,
	)

	return &TaskOutput{
		TaskID:     task.ID,
		AgentRole:  task.Agent.Role,
		Raw:        resp.Content,
		OutputFile: task.OutputFile,
		Usage:      resp.Usage,
		Duration:   duration,
	}, nil
}

// systemPrompt composes the agent persona into a system message.
func systemPrompt(agent Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.", agent.Role)
	if agent.Goal != "" {
		fmt.Fprintf(&b, "\n\nYour goal: %s", agent.Goal)
	}
	if agent.Backstory != "" {
		fmt.Fprintf(&b, "\n\nBackground: %s", agent.Backstory)
	}
	return b.String()
}

// userPrompt composes the task instruction with prior task context.
func userPrompt(description, expectedOutput string, prior []TaskOutput) string {
	var b strings.Builder

	if len(prior) > 0 {
		b.WriteString("Context from earlier work:\n\n")
		for _, out := range prior {
			fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n\n", out.TaskID, out.AgentRole, out.Raw)
		}
		b.WriteString("---\n\n")
	}

	b.WriteString(description)

	if expectedOutput != "" {
		fmt.Fprintf(&b, "\n\nExpected output: %s", expectedOutput)
	}

	return b.String()
}
