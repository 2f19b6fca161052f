package types

import "time"

// VideoState mirrors the playback element's transport state.
type VideoState struct {
	Playing     bool    `json:"playing" msgpack:"playing"`
	CurrentTime float64 `json:"current_time" msgpack:"current_time"`
	Duration    float64 `json:"duration" msgpack:"duration"`
}

// AgentState tracks the single active agent flow.
// At most one message may hold UnactivatedID or SystemMessageID at a time.
type AgentState struct {
	// UnactivatedID is the id of the pending agent-prompt message, empty
	// when none is pending.
	UnactivatedID string `json:"unactivated_id,omitempty" msgpack:"unactivated_id,omitempty"`
	// SystemMessageID is the id of the accepted agent-prompt message
	// driving the current task, empty when no task is active.
	SystemMessageID string `json:"system_message_id,omitempty" msgpack:"system_message_id,omitempty"`
	// ActiveType is the agent type of the accepted flow, empty when idle.
	ActiveType AgentType `json:"active_type,omitempty" msgpack:"active_type,omitempty"`
}

// Idle reports whether no agent flow is pending or active.
func (a AgentState) Idle() bool {
	return a.UnactivatedID == "" && a.SystemMessageID == "" && a.ActiveType == ""
}

// AIState tracks an in-flight generation call.
type AIState struct {
	Generating bool `json:"generating" msgpack:"generating"`
	// Type is the agent type the generation serves, empty when idle.
	Type AgentType `json:"type,omitempty" msgpack:"type,omitempty"`
	// StreamedContent accumulates chunks as they arrive. Each chunk
	// produces its own snapshot commit, so appends must stay cheap.
	StreamedContent string `json:"streamed_content,omitempty" msgpack:"streamed_content,omitempty"`
	// Error reports the generation failure behind served default
	// content; empty when the content is generator output.
	Error string `json:"error,omitempty" msgpack:"error,omitempty"`
}

// SegmentState is the learner's in/out point selection.
//
// Invariant: Complete is true iff both points are set and InPoint < OutPoint.
// Setting a new in point after a completed segment clears the out point.
type SegmentState struct {
	InPoint  *float64 `json:"in_point,omitempty" msgpack:"in_point,omitempty"`
	OutPoint *float64 `json:"out_point,omitempty" msgpack:"out_point,omitempty"`
	Complete bool     `json:"complete" msgpack:"complete"`
	// SentToChat records that the segment was shared into the message log.
	SentToChat bool `json:"sent_to_chat" msgpack:"sent_to_chat"`
	// Transcript is the transcript text covering [InPoint, OutPoint],
	// empty when no transcript is available.
	Transcript string `json:"transcript,omitempty" msgpack:"transcript,omitempty"`
}

// RecordingState tracks the reflection capture device.
type RecordingState struct {
	Recording bool `json:"recording" msgpack:"recording"`
	Paused    bool `json:"paused" msgpack:"paused"`
}

// ErrorRecord is a diagnostic entry appended when a command fails.
// Records are kept for inspection and are not necessarily user-facing.
type ErrorRecord struct {
	Time        time.Time  `json:"time" msgpack:"time"`
	CommandID   string     `json:"command_id" msgpack:"command_id"`
	CommandType ActionType `json:"command_type" msgpack:"command_type"`
	Message     string     `json:"message" msgpack:"message"`
	Attempts    int        `json:"attempts" msgpack:"attempts"`
}

// Snapshot is the single authoritative coordination state at one version.
// It is replaced wholesale on every committed change; consumers must treat
// it as immutable.
type Snapshot struct {
	SessionID string `json:"session_id" msgpack:"session_id"`
	VideoID   string `json:"video_id" msgpack:"video_id"`
	CourseID  string `json:"course_id" msgpack:"course_id"`

	// Version is the commit counter, incremented on every accepted
	// replacement. Version 0 is the zero snapshot before any commit.
	Version uint64 `json:"version" msgpack:"version"`

	State     SessionState   `json:"state" msgpack:"state"`
	Video     VideoState     `json:"video" msgpack:"video"`
	Agent     AgentState     `json:"agent" msgpack:"agent"`
	AI        AIState        `json:"ai" msgpack:"ai"`
	Segment   SegmentState   `json:"segment" msgpack:"segment"`
	Recording RecordingState `json:"recording" msgpack:"recording"`

	Messages []Message     `json:"messages" msgpack:"messages"`
	Errors   []ErrorRecord `json:"errors" msgpack:"errors"`
}

// NewSnapshot returns the initial snapshot for a session.
func NewSnapshot(meta SessionMeta) Snapshot {
	return Snapshot{
		SessionID: meta.SessionID,
		VideoID:   meta.VideoID,
		CourseID:  meta.CourseID,
		State:     SessionIdle,
	}
}

// Clone returns a deep copy safe for independent mutation.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Segment.InPoint != nil {
		v := *s.Segment.InPoint
		out.Segment.InPoint = &v
	}
	if s.Segment.OutPoint != nil {
		v := *s.Segment.OutPoint
		out.Segment.OutPoint = &v
	}
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.Clone()
	}
	out.Errors = append([]ErrorRecord(nil), s.Errors...)
	return out
}

// MessageByID returns the index of the message with the given id, or -1.
func (s Snapshot) MessageByID(id string) int {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Equal reports structural equality ignoring Version. Used by the store to
// suppress notifications for no-op replacements, guarding subscribers
// against redundant render cycles.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.SessionID != other.SessionID ||
		s.VideoID != other.VideoID ||
		s.CourseID != other.CourseID ||
		s.State != other.State ||
		s.Video != other.Video ||
		s.Agent != other.Agent ||
		s.AI != other.AI ||
		s.Recording != other.Recording {
		return false
	}
	if !segmentEqual(s.Segment, other.Segment) {
		return false
	}
	if len(s.Messages) != len(other.Messages) || len(s.Errors) != len(other.Errors) {
		return false
	}
	for i := range s.Messages {
		if !messageEqual(s.Messages[i], other.Messages[i]) {
			return false
		}
	}
	for i := range s.Errors {
		if s.Errors[i] != other.Errors[i] {
			return false
		}
	}
	return true
}

func segmentEqual(a, b SegmentState) bool {
	if a.Complete != b.Complete || a.SentToChat != b.SentToChat || a.Transcript != b.Transcript {
		return false
	}
	return floatPtrEqual(a.InPoint, b.InPoint) && floatPtrEqual(a.OutPoint, b.OutPoint)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func messageEqual(a, b Message) bool {
	if a.ID != b.ID || a.Type != b.Type || a.State != b.State ||
		a.AgentType != b.AgentType || a.VideoTime != b.VideoTime ||
		a.Text != b.Text || a.MediaRef != b.MediaRef ||
		!a.Timestamp.Equal(b.Timestamp) {
		return false
	}
	if (a.Quiz == nil) != (b.Quiz == nil) {
		return false
	}
	if a.Quiz != nil && !quizEqual(a.Quiz, b.Quiz) {
		return false
	}
	if (a.Reflection == nil) != (b.Reflection == nil) {
		return false
	}
	if a.Reflection != nil {
		if a.Reflection.Prompt != b.Reflection.Prompt ||
			!stringsEqual(a.Reflection.Options, b.Reflection.Options) {
			return false
		}
	}
	return true
}

func quizEqual(a, b *QuizPayload) bool {
	if a.Score != b.Score || len(a.Questions) != len(b.Questions) || len(a.Answers) != len(b.Answers) {
		return false
	}
	for i := range a.Answers {
		if a.Answers[i] != b.Answers[i] {
			return false
		}
	}
	for i := range a.Questions {
		qa, qb := a.Questions[i], b.Questions[i]
		if qa.Prompt != qb.Prompt || qa.Correct != qb.Correct ||
			qa.Explanation != qb.Explanation || !stringsEqual(qa.Options, qb.Options) {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
