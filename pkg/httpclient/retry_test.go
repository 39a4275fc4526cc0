package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// trackedBody reports reads after Close so tests can verify which
// attempt's body the transport hands back.
type trackedBody struct {
	reader *strings.Reader
	closed bool
}

func (b *trackedBody) Read(p []byte) (int, error) {
	if b.closed {
		return 0, errors.New("read after close")
	}
	return b.reader.Read(p)
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

// statusSequence returns one canned status per call, repeating the last.
type statusSequence struct {
	statuses []int
	bodies   []*trackedBody
}

func (s *statusSequence) RoundTrip(req *http.Request) (*http.Response, error) {
	idx := len(s.bodies)
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}

	body := &trackedBody{reader: strings.NewReader("attempt body")}
	s.bodies = append(s.bodies, body)

	return &http.Response{
		StatusCode: s.statuses[idx],
		Body:       body,
		Header:     http.Header{},
	}, nil
}

func fastRetryConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.RetryAttempts = attempts
	cfg.RetryBackoff = time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestRetryTransport_ExhaustedRetriesBodyReadable(t *testing.T) {
	base := &statusSequence{statuses: []int{http.StatusServiceUnavailable}}
	transport := newRetryTransport(base, fastRetryConfig(2))

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", resp.StatusCode)
	}
	if got := len(base.bodies); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading exhausted-retries body: %v", err)
	}
	if string(data) != "attempt body" {
		t.Errorf("body = %q, want %q", data, "attempt body")
	}

	for i, body := range base.bodies[:len(base.bodies)-1] {
		if !body.closed {
			t.Errorf("attempt %d body not closed", i+1)
		}
	}
}

func TestRetryTransport_RetriesUntilSuccess(t *testing.T) {
	base := &statusSequence{statuses: []int{http.StatusServiceUnavailable, http.StatusOK}}
	transport := newRetryTransport(base, fastRetryConfig(2))

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if got := len(base.bodies); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	if _, err := io.ReadAll(resp.Body); err != nil {
		t.Errorf("reading successful body: %v", err)
	}
}

func TestRetryTransport_NonIdempotentPassesThrough(t *testing.T) {
	base := &statusSequence{statuses: []int{http.StatusServiceUnavailable}}
	transport := newRetryTransport(base, fastRetryConfig(2))

	req, err := http.NewRequest(http.MethodPost, "http://example.com/", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	defer resp.Body.Close()

	if got := len(base.bodies); got != 1 {
		t.Errorf("attempts = %d, POST must not be retried", got)
	}
	if _, err := io.ReadAll(resp.Body); err != nil {
		t.Errorf("reading pass-through body: %v", err)
	}
}
