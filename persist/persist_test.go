package persist

import (
	"errors"
	"testing"
)

func TestStub_RecordsSubmissions(t *testing.T) {
	s := NewStub()

	quiz := &QuizSubmission{SessionID: "s-1", MessageID: "m-1", Score: 2, Total: 3}
	res, err := s.SubmitQuiz(t.Context(), quiz)
	if err != nil {
		t.Fatalf("submit quiz: %v", err)
	}
	if !res.Success {
		t.Error("expected success")
	}

	reflection := &ReflectionSubmission{SessionID: "s-1", MessageID: "m-2", Text: "learned a lot"}
	if _, err := s.SubmitReflection(t.Context(), reflection); err != nil {
		t.Fatalf("submit reflection: %v", err)
	}

	note := &NoteShare{SessionID: "s-1", InPoint: 10, OutPoint: 20}
	if _, err := s.ShareNote(t.Context(), note); err != nil {
		t.Fatalf("share note: %v", err)
	}

	if len(s.Quizzes) != 1 || s.Quizzes[0].Score != 2 {
		t.Errorf("quizzes = %+v, want one with score 2", s.Quizzes)
	}
	if len(s.Reflections) != 1 || s.Reflections[0].Text != "learned a lot" {
		t.Errorf("reflections = %+v, want one with text", s.Reflections)
	}
	if len(s.Notes) != 1 || s.Notes[0].OutPoint != 20 {
		t.Errorf("notes = %+v, want one with out point 20", s.Notes)
	}
}

func TestStub_FailNextCountsDown(t *testing.T) {
	s := NewStub()
	s.FailNext = 2

	for i := range 2 {
		res, err := s.SubmitQuiz(t.Context(), &QuizSubmission{MessageID: "m-1"})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if res.Success {
			t.Errorf("submit %d: expected failure", i)
		}
	}

	res, err := s.SubmitQuiz(t.Context(), &QuizSubmission{MessageID: "m-1"})
	if err != nil {
		t.Fatalf("submit after failures: %v", err)
	}
	if !res.Success {
		t.Error("expected success after FailNext drained")
	}
	if len(s.Quizzes) != 1 {
		t.Errorf("recorded %d quizzes, want 1 (failures not recorded)", len(s.Quizzes))
	}
}

func TestStub_TransportError(t *testing.T) {
	s := NewStub()
	s.Err = errors.New("connection refused")

	if _, err := s.ShareNote(t.Context(), &NoteShare{}); err == nil {
		t.Fatal("expected transport error")
	}
	if len(s.Notes) != 0 {
		t.Error("errored call must not record")
	}
}

func TestStub_Close(t *testing.T) {
	s := NewStub()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !s.Closed {
		t.Error("expected Closed to be set")
	}
}
