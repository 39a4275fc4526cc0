package httpclient

import (
	"net/url"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config is valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative retry attempts",
			mutate:  func(c *Config) { c.RetryAttempts = -1 },
			wantErr: true,
		},
		{
			name: "zero backoff with retries enabled",
			mutate: func(c *Config) {
				c.RetryAttempts = 3
				c.RetryBackoff = 0
			},
			wantErr: true,
		},
		{
			name: "max backoff below initial backoff",
			mutate: func(c *Config) {
				c.RetryBackoff = time.Second
				c.MaxBackoff = 100 * time.Millisecond
			},
			wantErr: true,
		},
		{
			name:    "empty user agent",
			mutate:  func(c *Config) { c.UserAgent = "" },
			wantErr: true,
		},
		{
			name: "retries disabled ignores backoff",
			mutate: func(c *Config) {
				c.RetryAttempts = 0
				c.RetryBackoff = 0
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "no sensitive params",
			raw:  "https://example.openai.azure.com/openai/deployments/gpt-4o/chat/completions?api-version=2025-01-01-preview",
			want: "https://example.openai.azure.com/openai/deployments/gpt-4o/chat/completions?api-version=2025-01-01-preview",
		},
		{
			name: "api-key redacted",
			raw:  "https://example.com/v1?api-key=secret123",
			want: "https://example.com/v1?api-key=REDACTED",
		},
		{
			name: "token redacted, others kept",
			raw:  "https://example.com/v1?token=abc&limit=10",
			want: "https://example.com/v1?limit=10&token=REDACTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("url.Parse() error = %v", err)
			}
			if got := sanitizeURL(u); got != tt.want {
				t.Errorf("sanitizeURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRetryTransport_ShouldRetryStatus(t *testing.T) {
	rt := newRetryTransport(nil, DefaultConfig())

	retryable := []int{500, 502, 503, 408, 429}
	for _, code := range retryable {
		if !rt.shouldRetryStatus(code) {
			t.Errorf("shouldRetryStatus(%d) = false, want true", code)
		}
	}

	notRetryable := []int{200, 201, 301, 400, 401, 403, 404}
	for _, code := range notRetryable {
		if rt.shouldRetryStatus(code) {
			t.Errorf("shouldRetryStatus(%d) = true, want false", code)
		}
	}
}

func TestRetryTransport_CalculateBackoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetryBackoff = 100 * time.Millisecond
	cfg.MaxBackoff = time.Second
	rt := newRetryTransport(nil, cfg)

	// Backoff grows but never exceeds max plus jitter (25%)
	for retry := 1; retry <= 10; retry++ {
		delay := rt.calculateBackoff(retry)
		if delay < 0 {
			t.Fatalf("calculateBackoff(%d) = %v, negative delay", retry, delay)
		}
		limit := time.Duration(float64(cfg.MaxBackoff) * 1.25)
		if delay > limit {
			t.Errorf("calculateBackoff(%d) = %v, exceeds cap %v", retry, delay, limit)
		}
	}
}
