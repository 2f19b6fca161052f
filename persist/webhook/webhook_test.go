package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pithecene-io/cue/persist"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSubmitQuiz_PostsToQuizPath(t *testing.T) {
	var gotPath string
	var gotBody persist.QuizSubmission

	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(persist.Result{Success: true})
	})

	sub := &persist.QuizSubmission{SessionID: "s-1", MessageID: "m-1", Score: 3, Total: 4}
	res, err := b.SubmitQuiz(t.Context(), sub)
	if err != nil {
		t.Fatalf("submit quiz: %v", err)
	}
	if !res.Success {
		t.Error("expected success")
	}
	if gotPath != "/quiz" {
		t.Errorf("path = %q, want /quiz", gotPath)
	}
	if gotBody.Score != 3 || gotBody.MessageID != "m-1" {
		t.Errorf("body = %+v, want score 3 message m-1", gotBody)
	}
}

func TestShareNote_PostsToNotePath(t *testing.T) {
	var gotPath string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	res, err := b.ShareNote(t.Context(), &persist.NoteShare{InPoint: 5, OutPoint: 10})
	if err != nil {
		t.Fatalf("share note: %v", err)
	}
	// Empty 2xx body still counts as persisted.
	if !res.Success {
		t.Error("expected success on bare 200")
	}
	if gotPath != "/note" {
		t.Errorf("path = %q, want /note", gotPath)
	}
}

func TestPost_CustomHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := New(Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"Authorization": "Bearer token-123"},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = b.Close() }()

	if _, err := b.SubmitReflection(t.Context(), &persist.ReflectionSubmission{Text: "ok"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}
}

func TestPost_4xxIsNonRetriable(t *testing.T) {
	var calls atomic.Int32
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	res, err := b.SubmitQuiz(t.Context(), &persist.QuizSubmission{})
	if err != nil {
		t.Fatalf("4xx should surface as Result, got error: %v", err)
	}
	if res.Success {
		t.Error("expected Success=false on 4xx")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (no retry on 4xx)", got)
	}
}

func TestPost_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(persist.Result{Success: true})
	})

	res, err := b.SubmitQuiz(t.Context(), &persist.QuizSubmission{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Success {
		t.Error("expected success after retry")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestPost_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := New(Config{BaseURL: srv.URL, Retries: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = b.Close() }()

	if _, err := b.SubmitQuiz(t.Context(), &persist.QuizSubmission{}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2 (1 initial + 1 retry)", got)
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestNew_RejectsNegativeRetries(t *testing.T) {
	if _, err := New(Config{BaseURL: "http://localhost", Retries: -1}); err == nil {
		t.Fatal("expected error for negative retries")
	}
}

func TestNew_DefaultsApplied(t *testing.T) {
	b, err := New(Config{BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if b.config.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", b.config.Timeout, DefaultTimeout)
	}
	if b.config.Retries != DefaultRetries {
		t.Errorf("retries = %d, want %d", b.config.Retries, DefaultRetries)
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Code: 503}
	if err.Error() != "unexpected status 503" {
		t.Errorf("error = %q", err.Error())
	}
}
