package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces transcript keys in Redis.
const DefaultKeyPrefix = "cue:transcript:"

// DefaultTimeout is the default per-lookup timeout.
const DefaultTimeout = 3 * time.Second

// RedisConfig configures the Redis-backed provider.
type RedisConfig struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// KeyPrefix namespaces transcript keys (default cue:transcript:).
	KeyPrefix string
	// Timeout is the per-lookup timeout (default 3s).
	Timeout time.Duration
}

// RedisProvider reads transcript cues from Redis sorted sets.
//
// Cues are stored per video under <prefix><videoID>, each member a JSON
// cue scored by its start time. ZRangeByScore retrieves candidates whose
// start falls at or before the range end; the end-time overlap check
// happens client-side.
type RedisProvider struct {
	config RedisConfig
	client *goredis.Client
}

// redisCue is the stored member shape.
type redisCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// NewRedisProvider creates a Redis-backed provider from the given config.
// Returns an error if the URL is empty or invalid.
func NewRedisProvider(cfg RedisConfig) (*RedisProvider, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis transcript provider requires a URL")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis transcript provider: invalid URL: %w", err)
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &RedisProvider{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Lookup returns the text of stored cues overlapping [from, to].
func (p *RedisProvider) Lookup(ctx context.Context, videoID string, from, to float64) (string, bool, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	key := p.config.KeyPrefix + videoID
	members, err := p.client.ZRangeByScore(lookupCtx, key, &goredis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", to),
	}).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis transcript lookup: %w", err)
	}
	if len(members) == 0 {
		return "", false, nil
	}

	cues := make([]Cue, 0, len(members))
	for _, member := range members {
		var rc redisCue
		if err := json.Unmarshal([]byte(member), &rc); err != nil {
			// Skip unparseable members rather than failing the lookup.
			continue
		}
		cues = append(cues, Cue{Start: rc.Start, End: rc.End, Text: rc.Text})
	}
	return Collect(cues, from, to)
}

// StoreCues writes cues for a video, replacing any existing set.
// Used by ingestion tooling and tests.
func (p *RedisProvider) StoreCues(ctx context.Context, videoID string, cues []Cue) error {
	key := p.config.KeyPrefix + videoID

	members := make([]goredis.Z, 0, len(cues))
	for _, cue := range cues {
		raw, err := json.Marshal(redisCue{Start: cue.Start, End: cue.End, Text: cue.Text})
		if err != nil {
			return fmt.Errorf("redis transcript store: marshal cue: %w", err)
		}
		members = append(members, goredis.Z{Score: cue.Start, Member: string(raw)})
	}

	pipe := p.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis transcript store: %w", err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (p *RedisProvider) Close() error {
	return p.client.Close()
}

var _ Provider = (*RedisProvider)(nil)
