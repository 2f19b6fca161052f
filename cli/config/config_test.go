package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `session_id: session-1
video_id: vid-1
course_id: course-1

journal: /tmp/session.journal

retry:
  mutation: 1
  video_control: 5
  collaborator: 3

generation:
  endpoint: https://ai.example.com/generate
  headers:
    Authorization: Bearer token123
  timeout: 20s

persist:
  backend: webhook
  url: https://hooks.example.com/cue
  timeout: 10s
  retries: 3

transcript:
  backend: redis
  url: redis://localhost:6379/1

media:
  backend: s3
  bucket: cue-recordings
  prefix: reflections
  region: us-east-1
  endpoint: https://r2.example.com
  s3_path_style: true
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Session identity
	assertEqual(t, "session_id", cfg.SessionID, "session-1")
	assertEqual(t, "video_id", cfg.VideoID, "vid-1")
	assertEqual(t, "course_id", cfg.CourseID, "course-1")
	assertEqual(t, "journal", cfg.Journal, "/tmp/session.journal")

	// Retry
	if cfg.Retry.Mutation != 1 || cfg.Retry.VideoControl != 5 || cfg.Retry.Collaborator != 3 {
		t.Errorf("retry = %+v, want 1/5/3", cfg.Retry)
	}

	// Generation
	assertEqual(t, "generation.endpoint", cfg.Generation.Endpoint, "https://ai.example.com/generate")
	if cfg.Generation.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("expected Authorization header")
	}
	if cfg.Generation.Timeout.Duration != 20*time.Second {
		t.Errorf("expected generation.timeout=20s, got %v", cfg.Generation.Timeout.Duration)
	}

	// Persist
	assertEqual(t, "persist.backend", cfg.Persist.Backend, "webhook")
	assertEqual(t, "persist.url", cfg.Persist.URL, "https://hooks.example.com/cue")
	if cfg.Persist.Timeout.Duration != 10*time.Second {
		t.Errorf("expected persist.timeout=10s, got %v", cfg.Persist.Timeout.Duration)
	}
	if cfg.Persist.Retries == nil || *cfg.Persist.Retries != 3 {
		t.Errorf("expected persist.retries=3")
	}

	// Transcript
	assertEqual(t, "transcript.backend", cfg.Transcript.Backend, "redis")
	assertEqual(t, "transcript.url", cfg.Transcript.URL, "redis://localhost:6379/1")

	// Media
	assertEqual(t, "media.backend", cfg.Media.Backend, "s3")
	assertEqual(t, "media.bucket", cfg.Media.Bucket, "cue-recordings")
	assertEqual(t, "media.prefix", cfg.Media.Prefix, "reflections")
	assertEqual(t, "media.region", cfg.Media.Region, "us-east-1")
	assertEqual(t, "media.endpoint", cfg.Media.Endpoint, "https://r2.example.com")
	if !cfg.Media.S3PathStyle {
		t.Error("expected media.s3_path_style=true")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionID != "" {
		t.Errorf("expected empty session_id, got %q", cfg.SessionID)
	}
	if cfg.Persist.Retries != nil {
		t.Error("expected nil persist.retries when unset")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/cue.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SESSION", "expanded-session")

	yaml := `session_id: ${TEST_SESSION}`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "session_id", cfg.SessionID, "expanded-session")
}

func TestDuration_InvalidString(t *testing.T) {
	yaml := `generation:
  timeout: not-a-duration`
	path := writeTemp(t, yaml)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestDuration_EmptyString(t *testing.T) {
	yaml := `generation:
  timeout: ""`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generation.Timeout.Duration != 0 {
		t.Errorf("expected zero duration, got %v", cfg.Generation.Timeout.Duration)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cue.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
