// Package redis implements a Redis persistence backend.
//
// Submissions are stored as JSON hashes keyed by session and message, and
// a notification is published to a configurable channel so downstream
// consumers (progress tracking, analytics) can react. Retries with
// exponential backoff on connection errors.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pithecene-io/cue/persist"
)

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "cue:submissions"

// DefaultKeyPrefix namespaces submission keys.
const DefaultKeyPrefix = "cue:session:"

// DefaultTimeout is the default per-call timeout.
const DefaultTimeout = 5 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 2

// Config configures the Redis backend.
type Config struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Channel is the pub/sub channel for submission notifications
	// (default cue:submissions).
	Channel string
	// KeyPrefix namespaces submission keys (default cue:session:).
	KeyPrefix string
	// Timeout is the per-call timeout (default 5s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 2).
	Retries int
}

// Backend persists session facts to Redis.
type Backend struct {
	config Config
	client *goredis.Client
}

// New creates a Redis backend from the given config.
// Returns an error if the URL is empty or invalid.
func New(cfg Config) (*Backend, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis backend requires a URL")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis backend: invalid URL: %w", err)
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
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
		client: goredis.NewClient(opts),
	}, nil
}

// notification is the published envelope for downstream consumers.
type notification struct {
	Kind      string `json:"kind"`
	SessionID string `json:"session_id"`
	VideoID   string `json:"video_id"`
	Key       string `json:"key"`
	Timestamp string `json:"timestamp"`
}

// SubmitQuiz stores the quiz result and publishes a notification.
func (b *Backend) SubmitQuiz(ctx context.Context, sub *persist.QuizSubmission) (*persist.Result, error) {
	key := fmt.Sprintf("%s%s:quiz:%s", b.config.KeyPrefix, sub.SessionID, sub.MessageID)
	return b.store(ctx, "quiz", key, sub.SessionID, sub.VideoID, sub)
}

// SubmitReflection stores the reflection and publishes a notification.
func (b *Backend) SubmitReflection(ctx context.Context, sub *persist.ReflectionSubmission) (*persist.Result, error) {
	key := fmt.Sprintf("%s%s:reflection:%s", b.config.KeyPrefix, sub.SessionID, sub.MessageID)
	return b.store(ctx, "reflection", key, sub.SessionID, sub.VideoID, sub)
}

// ShareNote stores the note and publishes a notification.
func (b *Backend) ShareNote(ctx context.Context, note *persist.NoteShare) (*persist.Result, error) {
	key := fmt.Sprintf("%s%s:note:%d", b.config.KeyPrefix, note.SessionID, time.Now().UnixNano())
	return b.store(ctx, "note", key, note.SessionID, note.VideoID, note)
}

// store writes the record and publishes, with backoff on failures.
func (b *Backend) store(ctx context.Context, kind, key, sessionID, videoID string, payload any) (*persist.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("redis: marshal %s record: %w", kind, err)
	}

	note, err := json.Marshal(notification{
		Kind:      kind,
		SessionID: sessionID,
		VideoID:   videoID,
		Key:       key,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("redis: marshal notification: %w", err)
	}

	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + b.config.Retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("redis: context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("redis: context canceled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = b.write(ctx, key, body, note)
		if lastErr == nil {
			return &persist.Result{
				Success: true,
				Data:    map[string]any{"key": key},
			}, nil
		}
	}

	return nil, fmt.Errorf("redis: failed after %d attempts: %w", attempts, lastErr)
}

// write performs one SET + PUBLISH pair under the configured timeout.
func (b *Backend) write(ctx context.Context, key string, body, note []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	pipe := b.client.TxPipeline()
	pipe.Set(writeCtx, key, body, 0)
	pipe.Publish(writeCtx, b.config.Channel, note)
	_, err := pipe.Exec(writeCtx)
	return err
}

// Close releases backend resources.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Verify Backend implements the actions interface.
var _ persist.Actions = (*Backend)(nil)
