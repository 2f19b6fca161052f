// Package persist defines the persistence-actions boundary.
//
// Implementations commit quiz results, reflections, and shared notes to a
// backend. The coordinator treats Success=false as a retryable or terminal
// failure per the dispatching command's retry policy and does not assume
// any particular transport.
package persist

import (
	"context"
	"sync"
)

// Result is the uniform outcome of a persistence action.
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// QuizSubmission is a completed quiz to commit.
type QuizSubmission struct {
	SessionID string  `json:"session_id"`
	VideoID   string  `json:"video_id"`
	CourseID  string  `json:"course_id"`
	MessageID string  `json:"message_id"`
	VideoTime float64 `json:"video_time"`
	Answers   []int   `json:"answers"`
	Score     int     `json:"score"`
	Total     int     `json:"total"`
}

// ReflectionSubmission is a captured reflection to commit. MediaRef is the
// storage reference of the uploaded recording, empty for text-only
// reflections.
type ReflectionSubmission struct {
	SessionID string  `json:"session_id"`
	VideoID   string  `json:"video_id"`
	CourseID  string  `json:"course_id"`
	MessageID string  `json:"message_id"`
	VideoTime float64 `json:"video_time"`
	MediaRef  string  `json:"media_ref,omitempty"`
	MIME      string  `json:"mime,omitempty"`
	Text      string  `json:"text,omitempty"`
}

// NoteShare is a shared video segment note.
type NoteShare struct {
	SessionID string  `json:"session_id"`
	VideoID   string  `json:"video_id"`
	CourseID  string  `json:"course_id"`
	InPoint   float64 `json:"in_point"`
	OutPoint  float64 `json:"out_point"`
	Text      string  `json:"text,omitempty"`
}

// Actions commits session facts to a backend.
// Implementations must be safe for use from a single session worker and
// must respect context cancellation and deadlines.
type Actions interface {
	SubmitQuiz(ctx context.Context, sub *QuizSubmission) (*Result, error)
	SubmitReflection(ctx context.Context, sub *ReflectionSubmission) (*Result, error)
	ShareNote(ctx context.Context, note *NoteShare) (*Result, error)

	// Close releases backend resources.
	Close() error
}

// Stub is a test backend that records submissions without persisting.
type Stub struct {
	mu sync.Mutex

	// Quizzes, Reflections, and Notes store everything submitted,
	// in order, for test assertions.
	Quizzes     []*QuizSubmission
	Reflections []*ReflectionSubmission
	Notes       []*NoteShare

	// Closed indicates whether Close was called.
	Closed bool

	// FailNext, when > 0, makes that many upcoming calls return
	// Success=false before succeeding again.
	FailNext int
	// Err, if non-nil, is returned as a transport error by every call.
	Err error
}

// NewStub creates a recording stub backend.
func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) result() (*Result, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.FailNext > 0 {
		s.FailNext--
		return &Result{Success: false, Error: "stubbed failure"}, nil
	}
	return &Result{Success: true}, nil
}

// SubmitQuiz records the submission.
func (s *Stub) SubmitQuiz(_ context.Context, sub *QuizSubmission) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.result()
	if err == nil && res.Success {
		s.Quizzes = append(s.Quizzes, sub)
	}
	return res, err
}

// SubmitReflection records the submission.
func (s *Stub) SubmitReflection(_ context.Context, sub *ReflectionSubmission) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.result()
	if err == nil && res.Success {
		s.Reflections = append(s.Reflections, sub)
	}
	return res, err
}

// ShareNote records the note.
func (s *Stub) ShareNote(_ context.Context, note *NoteShare) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.result()
	if err == nil && res.Success {
		s.Notes = append(s.Notes, note)
	}
	return res, err
}

// Close marks the stub closed.
func (s *Stub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

var _ Actions = (*Stub)(nil)
