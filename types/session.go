// Package types defines core domain types for the cue session coordinator.
// Types are deliberately a leaf package with no internal dependencies.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionState is the overall coordinator mode.
type SessionState string

const (
	// SessionIdle indicates normal playback with no active agent flow.
	SessionIdle SessionState = "idle"
	// SessionAgentActive indicates an agent prompt or agent task is active.
	SessionAgentActive SessionState = "agent-active"
	// SessionGenerating indicates an AI generation call is in flight.
	SessionGenerating SessionState = "generating"
	// SessionRecording indicates a reflection recording is in progress.
	SessionRecording SessionState = "recording"
	// SessionError indicates a command exhausted its retries.
	SessionError SessionState = "error"
)

// AgentType identifies the agent feature a prompt belongs to.
type AgentType string

const (
	// AgentQuiz prompts the learner with generated quiz questions.
	AgentQuiz AgentType = "quiz"
	// AgentReflect prompts the learner to record a reflection.
	AgentReflect AgentType = "reflect"
	// AgentHint offers a generated hint about the current passage.
	AgentHint AgentType = "hint"
)

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	switch t {
	case AgentQuiz, AgentReflect, AgentHint:
		return true
	}
	return false
}

// SessionMeta contains session identity metadata. Carried on every log line.
type SessionMeta struct {
	// SessionID is the coordinator instance identifier. Must be unique
	// per hosting surface (typically one per browser tab).
	SessionID string
	// VideoID is the video currently bound to the session. May be empty
	// before the first video is assigned.
	VideoID string
	// CourseID is the course the video belongs to.
	CourseID string
}

// Validate checks session identity rules.
func (m *SessionMeta) Validate() error {
	if m.SessionID == "" {
		return errors.New("session_id must be non-empty")
	}
	return nil
}

// NewID returns a new globally unique identifier for messages, commands,
// and sessions.
func NewID() string {
	return uuid.NewString()
}

// Now returns the current wall-clock time. Indirection point for tests.
var Now = time.Now
