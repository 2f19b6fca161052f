// Package media defines the recording-device and blob-storage boundaries
// for reflection capture.
//
// The recorder yields an in-memory blob on stop. The coordinator retains
// the blob until a submit succeeds, so a failed upload never loses the
// recording.
package media

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Blob is a captured recording held in memory.
type Blob struct {
	Data []byte
	// MIME is the content type, e.g. "audio/webm".
	MIME string
	// Duration is the capture length.
	Duration time.Duration
}

// ErrNotRecording is returned for lifecycle calls with no capture active.
var ErrNotRecording = errors.New("no recording in progress")

// ErrAlreadyRecording is returned when Start is called mid-capture.
var ErrAlreadyRecording = errors.New("recording already in progress")

// Recorder is the capture-device lifecycle. Implementations wrap whatever
// device API the hosting surface provides.
type Recorder interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	// Stop ends the capture and returns the recorded blob.
	Stop(ctx context.Context) (*Blob, error)
}

// BlobStore uploads captured blobs and returns a stable storage reference.
type BlobStore interface {
	// Put stores the blob under key and returns its reference.
	Put(ctx context.Context, key string, blob *Blob) (ref string, err error)

	// Close releases storage resources.
	Close() error
}

// MemoryRecorder is a scripted Recorder for tests and offline replay.
type MemoryRecorder struct {
	mu sync.Mutex

	recording bool
	paused    bool
	started   time.Time

	// Output is the blob returned by Stop. When nil, Stop synthesizes a
	// small placeholder blob.
	Output *Blob
	// Err, if non-nil, is returned by every lifecycle call.
	Err error

	// StartCalls through StopCalls count invocations.
	StartCalls  int
	PauseCalls  int
	ResumeCalls int
	StopCalls   int
}

// NewMemoryRecorder creates an idle in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Start begins a simulated capture.
func (r *MemoryRecorder) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StartCalls++
	if r.Err != nil {
		return r.Err
	}
	if r.recording {
		return ErrAlreadyRecording
	}
	r.recording = true
	r.paused = false
	r.started = time.Now()
	return nil
}

// Pause pauses the simulated capture.
func (r *MemoryRecorder) Pause(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PauseCalls++
	if r.Err != nil {
		return r.Err
	}
	if !r.recording {
		return ErrNotRecording
	}
	r.paused = true
	return nil
}

// Resume resumes the simulated capture.
func (r *MemoryRecorder) Resume(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResumeCalls++
	if r.Err != nil {
		return r.Err
	}
	if !r.recording {
		return ErrNotRecording
	}
	r.paused = false
	return nil
}

// Stop ends the simulated capture and returns the scripted blob.
func (r *MemoryRecorder) Stop(_ context.Context) (*Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StopCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	if !r.recording {
		return nil, ErrNotRecording
	}
	r.recording = false
	r.paused = false

	if r.Output != nil {
		return r.Output, nil
	}
	return &Blob{
		Data:     []byte("recorded-audio"),
		MIME:     "audio/webm",
		Duration: time.Since(r.started),
	}, nil
}

var _ Recorder = (*MemoryRecorder)(nil)

// MemoryStore is an in-memory BlobStore for tests and offline replay.
type MemoryStore struct {
	mu sync.Mutex

	// Blobs maps key to stored blob.
	Blobs map[string]*Blob
	// Err, if non-nil, is returned by Put.
	Err error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Blobs: make(map[string]*Blob)}
}

// Put stores the blob and returns a mem:// reference.
func (s *MemoryStore) Put(_ context.Context, key string, blob *Blob) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Blobs[key] = blob
	return "mem://" + key, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ BlobStore = (*MemoryStore)(nil)
