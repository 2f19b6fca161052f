package media

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryRecorder_Lifecycle(t *testing.T) {
	r := NewMemoryRecorder()

	if err := r.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Pause(t.Context()); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := r.Resume(t.Context()); err != nil {
		t.Fatalf("resume: %v", err)
	}

	blob, err := r.Stop(t.Context())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if blob == nil || len(blob.Data) == 0 {
		t.Fatal("expected a non-empty blob")
	}
	if blob.MIME != "audio/webm" {
		t.Errorf("mime = %q, want audio/webm", blob.MIME)
	}

	if r.StartCalls != 1 || r.PauseCalls != 1 || r.ResumeCalls != 1 || r.StopCalls != 1 {
		t.Errorf("call counts = %d/%d/%d/%d, want 1 each",
			r.StartCalls, r.PauseCalls, r.ResumeCalls, r.StopCalls)
	}
}

func TestMemoryRecorder_DoubleStart(t *testing.T) {
	r := NewMemoryRecorder()
	if err := r.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(t.Context()); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second start = %v, want ErrAlreadyRecording", err)
	}
}

func TestMemoryRecorder_IdleCalls(t *testing.T) {
	r := NewMemoryRecorder()

	if err := r.Pause(t.Context()); !errors.Is(err, ErrNotRecording) {
		t.Errorf("pause idle = %v, want ErrNotRecording", err)
	}
	if err := r.Resume(t.Context()); !errors.Is(err, ErrNotRecording) {
		t.Errorf("resume idle = %v, want ErrNotRecording", err)
	}
	if _, err := r.Stop(t.Context()); !errors.Is(err, ErrNotRecording) {
		t.Errorf("stop idle = %v, want ErrNotRecording", err)
	}
}

func TestMemoryRecorder_ScriptedOutput(t *testing.T) {
	r := NewMemoryRecorder()
	r.Output = &Blob{Data: []byte("scripted"), MIME: "audio/mp4", Duration: 3 * time.Second}

	if err := r.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
	blob, err := r.Stop(t.Context())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if string(blob.Data) != "scripted" || blob.MIME != "audio/mp4" {
		t.Errorf("blob = %+v, want scripted output", blob)
	}
}

func TestMemoryRecorder_ScriptedError(t *testing.T) {
	r := NewMemoryRecorder()
	r.Err = errors.New("device busy")

	if err := r.Start(t.Context()); err == nil {
		t.Fatal("expected scripted error")
	}
}

func TestMemoryRecorder_RestartAfterStop(t *testing.T) {
	r := NewMemoryRecorder()

	if err := r.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := r.Stop(t.Context()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := r.Start(t.Context()); err != nil {
		t.Errorf("restart after stop: %v", err)
	}
}

func TestMemoryStore_Put(t *testing.T) {
	s := NewMemoryStore()

	blob := &Blob{Data: []byte("audio"), MIME: "audio/webm"}
	ref, err := s.Put(t.Context(), "session-1/rec-1", blob)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ref != "mem://session-1/rec-1" {
		t.Errorf("ref = %q, want mem://session-1/rec-1", ref)
	}
	if s.Blobs["session-1/rec-1"] != blob {
		t.Error("expected blob stored under key")
	}
}

func TestMemoryStore_ScriptedError(t *testing.T) {
	s := NewMemoryStore()
	s.Err = errors.New("upload failed")

	if _, err := s.Put(t.Context(), "k", &Blob{Data: []byte("x")}); err == nil {
		t.Fatal("expected scripted error")
	}
	if len(s.Blobs) != 0 {
		t.Error("errored put must not store")
	}
}
