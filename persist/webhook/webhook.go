// Package webhook implements an HTTP POST persistence backend.
//
// Submissions are posted as JSON to per-action paths under a base URL
// (/quiz, /reflection, /note). Retries with exponential backoff on 5xx
// responses and network errors; 4xx responses are non-retriable.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pithecene-io/cue/persist"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 2

// Config configures the webhook backend.
type Config struct {
	// BaseURL is the endpoint root to POST to (required).
	BaseURL string
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 2).
	Retries int
}

// Backend persists session facts via HTTP POST.
type Backend struct {
	config Config
	client *http.Client
}

// New creates a webhook backend from the given config.
// Returns an error if the base URL is empty.
func New(cfg Config) (*Backend, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("webhook backend requires a base URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}

	return &Backend{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// SubmitQuiz posts the quiz submission to <base>/quiz.
func (b *Backend) SubmitQuiz(ctx context.Context, sub *persist.QuizSubmission) (*persist.Result, error) {
	return b.post(ctx, "quiz", sub)
}

// SubmitReflection posts the reflection to <base>/reflection.
func (b *Backend) SubmitReflection(ctx context.Context, sub *persist.ReflectionSubmission) (*persist.Result, error) {
	return b.post(ctx, "reflection", sub)
}

// ShareNote posts the note to <base>/note.
func (b *Backend) ShareNote(ctx context.Context, note *persist.NoteShare) (*persist.Result, error) {
	return b.post(ctx, "note", note)
}

// post sends the payload with exponential backoff on retriable failures.
func (b *Backend) post(ctx context.Context, path string, payload any) (*persist.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("webhook: marshal %s payload: %w", path, err)
	}

	url := strings.TrimRight(b.config.BaseURL, "/") + "/" + path

	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + b.config.Retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("webhook: context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("webhook: context canceled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		var result *persist.Result
		result, lastErr = b.doRequest(ctx, url, body)
		if lastErr == nil {
			return result, nil
		}

		// 4xx errors are non-retriable, report failure immediately
		var statusErr *StatusError
		if errors.As(lastErr, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
			return &persist.Result{Success: false, Error: lastErr.Error()}, nil
		}
	}

	return nil, fmt.Errorf("webhook: failed after %d attempts: %w", attempts, lastErr)
}

// StatusError is returned for non-2xx HTTP responses.
// Wrapping the status code allows callers to distinguish retriable (5xx)
// from non-retriable (4xx) failures.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// doRequest performs a single HTTP POST and decodes the Result on 2xx.
func (b *Backend) doRequest(ctx context.Context, url string, body []byte) (*persist.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range b.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain body to allow connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var result persist.Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		// A 2xx with an unparseable body still counts as persisted.
		return &persist.Result{Success: true}, nil
	}
	return &result, nil
}

// Close releases backend resources.
func (b *Backend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// Verify Backend implements the actions interface.
var _ persist.Actions = (*Backend)(nil)
