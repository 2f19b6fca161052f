// Package genai implements the AI text-generation collaborator.
//
// The client POSTs a generation request and reads the response as a stream
// of newline-delimited JSON chunks terminated by a done marker. Servers may
// instead answer with a single JSON payload; both shapes decode through the
// same chunk type. On transport failure the caller is expected to fall back
// to DefaultContent rather than block the session.
package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pithecene-io/cue/log"
	"github.com/pithecene-io/cue/types"
)

// DefaultTimeout is the default per-call timeout.
const DefaultTimeout = 30 * time.Second

// maxResponseSize bounds the response body to prevent memory exhaustion
// from a misbehaving endpoint.
const maxResponseSize = 4 * 1024 * 1024

// Request is the payload sent to the generation endpoint.
type Request struct {
	// ContextID identifies the video the request is about.
	ContextID string `json:"context_id"`
	// Timestamp is the playback position in seconds.
	Timestamp float64 `json:"timestamp"`
	// ContextText is the transcript excerpt around the timestamp. May be
	// empty when no transcript is available.
	ContextText string `json:"context_text,omitempty"`
	// Kind selects the generation flavor ("quiz" or "hint").
	Kind types.AgentType `json:"kind"`
}

// chunk is one unit of the streamed response.
type chunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

// Config configures the generation client.
type Config struct {
	// Endpoint is the generation URL (required).
	Endpoint string
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Timeout is the per-call timeout (default 30s).
	Timeout time.Duration
	// Logger is optional.
	Logger *log.Logger
}

// Client calls the generation endpoint.
type Client struct {
	config Config
	client *http.Client
	logger *log.Logger
}

// New creates a generation client from the given config.
// Returns an error if the endpoint is empty.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("genai client requires an endpoint")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// Generate performs one generation call. onChunk, if non-nil, is invoked
// for every content chunk as it arrives; the full concatenated content is
// returned on completion.
//
// Errors are transport or endpoint errors; callers decide whether to retry
// or serve DefaultContent instead.
func (c *Client) Generate(ctx context.Context, req Request, onChunk func(string)) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("genai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson, application/json")
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("genai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain a little for the error message, then bail.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("genai: endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return c.readStream(io.LimitReader(resp.Body, maxResponseSize), onChunk)
}

// readStream consumes NDJSON chunks until a done marker or EOF.
// A single JSON object without a done marker is treated as a one-chunk
// stream, which covers non-streaming servers.
func (c *Client) readStream(body io.Reader, onChunk func(string)) (string, error) {
	var content strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxResponseSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// Tolerate SSE-style "data: {...}" prefixes.
		line = bytes.TrimPrefix(line, []byte("data: "))

		var ck chunk
		if err := json.Unmarshal(line, &ck); err != nil {
			return "", fmt.Errorf("genai: decode chunk: %w", err)
		}
		if ck.Error != "" {
			return "", fmt.Errorf("genai: endpoint error: %s", ck.Error)
		}
		if ck.Content != "" {
			content.WriteString(ck.Content)
			if onChunk != nil {
				onChunk(ck.Content)
			}
		}
		if ck.Done {
			return content.String(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("genai: read stream: %w", err)
	}

	// EOF without a done marker: accept what arrived. Some servers close
	// the stream instead of sending an explicit terminator.
	if content.Len() == 0 {
		return "", errors.New("genai: empty response")
	}
	c.logger.Debug("stream ended without done marker", map[string]any{
		"bytes": content.Len(),
	})
	return content.String(), nil
}
