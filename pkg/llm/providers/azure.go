// Package providers contains concrete implementations of LLM providers.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tombee/advisor/pkg/errors"
	"github.com/tombee/advisor/pkg/httpclient"
	"github.com/tombee/advisor/pkg/llm"
)

const (
	// azureAPIVersionDefault is the Azure OpenAI API version used when none is configured.
	azureAPIVersionDefault = "2025-01-01-preview"

	// azureDeploymentDefault is the deployment used when none is configured.
	azureDeploymentDefault = "gpt-4o"
)

// AzureCredentials holds the connection details for an Azure OpenAI resource.
type AzureCredentials struct {
	// APIKey authenticates against the Azure OpenAI resource.
	APIKey string

	// Endpoint is the resource base URL, e.g. "https://myresource.openai.azure.com".
	Endpoint string
}

// AzureCredentialsFromEnv reads Azure OpenAI credentials from the environment.
// AZURE_API_KEY and AZURE_API_BASE are required; AZURE_OPENAI_API_KEY is
// accepted as a fallback for the key.
func AzureCredentialsFromEnv() (AzureCredentials, error) {
	creds := AzureCredentials{
		APIKey:   os.Getenv("AZURE_API_KEY"),
		Endpoint: os.Getenv("AZURE_API_BASE"),
	}

	if creds.APIKey == "" {
		creds.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}

	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, "AZURE_API_KEY")
	}
	if creds.Endpoint == "" {
		missing = append(missing, "AZURE_API_BASE")
	}

	if len(missing) > 0 {
		return AzureCredentials{}, &errors.ConfigError{
			Key:    "azure.credentials",
			Reason: fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")),
		}
	}

	return creds, nil
}

// AzureOpenAIOptions configures optional provider behavior.
type AzureOpenAIOptions struct {
	// Deployment is the Azure deployment name. Defaults to "gpt-4o".
	Deployment string

	// APIVersion overrides the default Azure API version.
	APIVersion string

	// RequestTimeout bounds a single API call. Defaults to 120s.
	RequestTimeout time.Duration

	// RequestsPerMinute throttles outgoing requests (0 = unlimited).
	RequestsPerMinute int
}

// AzureOpenAIProvider implements the Provider interface for Azure OpenAI
// chat completion deployments.
type AzureOpenAIProvider struct {
	apiKey     string
	endpoint   string
	deployment string
	apiVersion string
	httpClient *http.Client
	limiter    *rate.Limiter
	lastUsage  *llm.TokenUsage
	usageMu    sync.RWMutex
}

// NewAzureOpenAIProvider creates a provider for an Azure OpenAI resource.
func NewAzureOpenAIProvider(creds AzureCredentials, opts AzureOpenAIOptions) (*AzureOpenAIProvider, error) {
	if creds.APIKey == "" {
		return nil, &errors.ConfigError{
			Key:    "azure.api_key",
			Reason: "API key is required for Azure OpenAI provider",
		}
	}
	if creds.Endpoint == "" {
		return nil, &errors.ConfigError{
			Key:    "azure.endpoint",
			Reason: "endpoint is required for Azure OpenAI provider",
		}
	}

	deployment := opts.Deployment
	if deployment == "" {
		deployment = azureDeploymentDefault
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = azureAPIVersionDefault
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	cfg := httpclient.DefaultConfig()
	cfg.Timeout = timeout
	cfg.UserAgent = "advisor-azure-openai/1.0"
	// Retry is handled by the LLM retry wrapper (pkg/llm/retry.go) which
	// understands provider error semantics
	cfg.RetryAttempts = 0

	httpClient, err := httpclient.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	return &AzureOpenAIProvider{
		apiKey:     creds.APIKey,
		endpoint:   strings.TrimRight(creds.Endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// Name returns the provider identifier.
func (p *AzureOpenAIProvider) Name() string {
	return "azure-openai"
}

// Capabilities returns the features supported by this provider.
func (p *AzureOpenAIProvider) Capabilities() llm.Capabilities {
	return llm.Capabilities{
		Tools: false,
		Models: []llm.ModelInfo{
			{
				ID:              p.deployment,
				Name:            "Azure OpenAI deployment " + p.deployment,
				MaxTokens:       128000,
				MaxOutputTokens: 16384,
				Description:     "Chat completion deployment configured for this resource.",
			},
		},
	}
}

// Complete sends a synchronous chat completion request to Azure OpenAI.
func (p *AzureOpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	requestID := uuid.New().String()

	if len(req.Messages) == 0 {
		return nil, &errors.ValidationError{
			Field:      "messages",
			Message:    "completion request must have at least one message",
			Suggestion: "Add at least one message to the completion request",
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	apiReq := p.buildAPIRequest(req)

	apiResp, err := p.doRequest(ctx, apiReq, requestID)
	if err != nil {
		return nil, err
	}

	return p.parseResponse(apiResp, requestID)
}

// GetLastUsage returns the token usage from the most recent request.
// Implements the UsageTrackable interface for cost tracking.
func (p *AzureOpenAIProvider) GetLastUsage() *llm.TokenUsage {
	p.usageMu.RLock()
	defer p.usageMu.RUnlock()

	if p.lastUsage == nil {
		return nil
	}

	// Return a copy to prevent mutation
	usage := *p.lastUsage
	return &usage
}

// setLastUsage updates the cached usage from a response.
func (p *AzureOpenAIProvider) setLastUsage(usage llm.TokenUsage) {
	p.usageMu.Lock()
	defer p.usageMu.Unlock()
	p.lastUsage = &usage
}

// buildAPIRequest constructs an azureRequest from a CompletionRequest.
func (p *AzureOpenAIProvider) buildAPIRequest(req llm.CompletionRequest) *azureRequest {
	messages := make([]azureMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, azureMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return &azureRequest{
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        req.StopSequences,
	}
}

// completionsURL builds the chat completions endpoint for the configured deployment.
func (p *AzureOpenAIProvider) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, p.deployment, p.apiVersion)
}

// doRequest sends the API request and returns the decoded response body.
func (p *AzureOpenAIProvider) doRequest(ctx context.Context, apiReq *azureRequest, requestID string) (*azureResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, &errors.ProviderError{
			Provider:  "azure-openai",
			Message:   fmt.Sprintf("failed to marshal request: %v", err),
			RequestID: requestID,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.completionsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, &errors.ProviderError{
			Provider:  "azure-openai",
			Message:   fmt.Sprintf("failed to create request: %v", err),
			RequestID: requestID,
		}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &errors.ProviderError{
			Provider:  "azure-openai",
			Message:   fmt.Sprintf("request failed: %v", err),
			RequestID: requestID,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ProviderError{
			Provider:   "azure-openai",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response: %v", err),
			RequestID:  requestID,
		}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp azureErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, &errors.ProviderError{
				Provider:   "azure-openai",
				Code:       errResp.Error.Code,
				StatusCode: resp.StatusCode,
				Message:    errResp.Error.Message,
				Suggestion: p.getSuggestionForError(resp.StatusCode),
				RequestID:  requestID,
			}
		}
		return nil, &errors.ProviderError{
			Provider:   "azure-openai",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(respBody)),
			RequestID:  requestID,
		}
	}

	var apiResp azureResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, &errors.ProviderError{
			Provider:  "azure-openai",
			Message:   fmt.Sprintf("failed to parse response: %v", err),
			RequestID: requestID,
		}
	}

	return &apiResp, nil
}

// getSuggestionForError returns a helpful suggestion based on the HTTP status.
func (p *AzureOpenAIProvider) getSuggestionForError(statusCode int) string {
	switch statusCode {
	case http.StatusUnauthorized:
		return "Check that AZURE_API_KEY is valid for this resource"
	case http.StatusForbidden:
		return "Your key may not have access to this deployment"
	case http.StatusNotFound:
		return "Check that the deployment name and AZURE_API_BASE endpoint are correct"
	case http.StatusTooManyRequests:
		return "Rate limit exceeded. Reduce request frequency or raise your quota"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return "Azure OpenAI is experiencing issues. Retry after a short delay"
	default:
		return "Check the Azure OpenAI documentation for more details"
	}
}

// parseResponse converts an azureResponse to a CompletionResponse.
func (p *AzureOpenAIProvider) parseResponse(resp *azureResponse, requestID string) (*llm.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, &errors.ProviderError{
			Provider:  "azure-openai",
			Message:   "response contained no choices",
			RequestID: requestID,
		}
	}

	choice := resp.Choices[0]

	usage := llm.TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	p.setLastUsage(usage)

	created := time.Now()
	if resp.Created > 0 {
		created = time.Unix(resp.Created, 0)
	}

	return &llm.CompletionResponse{
		Content:      choice.Message.Content,
		FinishReason: mapFinishReason(choice.FinishReason),
		Usage:        usage,
		Model:        resp.Model,
		RequestID:    requestID,
		Created:      created,
	}, nil
}

// mapFinishReason converts an Azure finish_reason to the portable form.
func mapFinishReason(reason string) llm.FinishReason {
	switch reason {
	case "stop":
		return llm.FinishReasonStop
	case "length":
		return llm.FinishReasonLength
	case "content_filter":
		return llm.FinishReasonContentFilter
	default:
		return llm.FinishReasonStop
	}
}

// azureRequest is the chat completions request body.
type azureRequest struct {
	Messages    []azureMessage `json:"messages"`
	Temperature *float64       `json:"temperature,omitempty"`
	MaxTokens   *int           `json:"max_tokens,omitempty"`
	Stop        []string       `json:"stop,omitempty"`
}

// azureMessage is a single chat message on the wire.
type azureMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// azureResponse is the chat completions response body.
type azureResponse struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Created int64         `json:"created"`
	Choices []azureChoice `json:"choices"`
	Usage   azureUsage    `json:"usage"`
}

// azureChoice is a single completion choice.
type azureChoice struct {
	Index        int          `json:"index"`
	Message      azureMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// azureUsage reports token consumption.
type azureUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// azureErrorResponse is the error envelope returned on failures.
type azureErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
