package config

import (
	"fmt"
	"time"
)

// Config represents a cue.yaml configuration file.
// All values are optional and act as defaults for cue-session flags.
// CLI flags always override config values.
type Config struct {
	SessionID string `yaml:"session_id"`
	VideoID   string `yaml:"video_id"`
	CourseID  string `yaml:"course_id"`

	Journal string `yaml:"journal"`

	Retry      RetryConfig      `yaml:"retry"`
	Generation GenerationConfig `yaml:"generation"`
	Persist    PersistConfig    `yaml:"persist"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Media      MediaConfig      `yaml:"media"`
}

// RetryConfig tunes command attempts per action family.
type RetryConfig struct {
	Mutation     int `yaml:"mutation"`
	VideoControl int `yaml:"video_control"`
	Collaborator int `yaml:"collaborator"`
}

// GenerationConfig holds AI generation endpoint defaults.
type GenerationConfig struct {
	Endpoint string            `yaml:"endpoint"`
	Headers  map[string]string `yaml:"headers,omitempty"`
	Timeout  Duration          `yaml:"timeout,omitempty"`
}

// PersistConfig selects and configures the persistence backend.
// Backend is "webhook", "redis", or empty for in-memory.
type PersistConfig struct {
	Backend string   `yaml:"backend"`
	URL     string   `yaml:"url"`
	Timeout Duration `yaml:"timeout,omitempty"`
	Retries *int     `yaml:"retries,omitempty"`
}

// TranscriptConfig selects the transcript provider.
// Backend is "redis" or empty for none.
type TranscriptConfig struct {
	Backend string `yaml:"backend"`
	URL     string `yaml:"url"`
}

// MediaConfig configures blob storage for reflection recordings.
// Backend is "s3" or empty for in-memory.
type MediaConfig struct {
	Backend     string `yaml:"backend"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
