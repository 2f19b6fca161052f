// Package session implements the video-lesson interaction coordinator.
//
// A Coordinator serializes every state-mutating intent through a FIFO
// command queue drained by a single worker: exactly one command's handler
// runs to completion, including all of its awaited collaborator calls,
// before the next command starts. The resulting ordering guarantee is the
// reason the queue exists: overlapping UI events (rapid clicks, timers)
// can never interleave and corrupt the session snapshot.
//
// Handlers are the only code permitted to call external collaborators
// (video control, generation, transcripts, persistence, recording) and the
// only code permitted to produce new snapshots. UI bindings dispatch
// actions and read snapshots; they never write.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pithecene-io/cue/genai"
	"github.com/pithecene-io/cue/journal"
	"github.com/pithecene-io/cue/log"
	"github.com/pithecene-io/cue/media"
	"github.com/pithecene-io/cue/metrics"
	"github.com/pithecene-io/cue/persist"
	"github.com/pithecene-io/cue/transcript"
	"github.com/pithecene-io/cue/types"
	"github.com/pithecene-io/cue/video"
)

// DefaultCallTimeout bounds each external collaborator call.
const DefaultCallTimeout = 30 * time.Second

// Generator abstracts the AI text-generation collaborator.
// Implemented by genai.Client; tests inject scripted fakes.
type Generator interface {
	Generate(ctx context.Context, req genai.Request, onChunk func(string)) (string, error)
}

// Retries tunes maxAttempts per action family. Values below 1 fall back
// to defaults. These are deployment tuning knobs, not contract.
type Retries struct {
	// Mutation covers pure snapshot mutations (default 1).
	Mutation int
	// VideoControl covers commands driving the playback element, which
	// may need retries against a not-yet-ready handle (default 3).
	VideoControl int
	// Collaborator covers commands calling external services (default 2).
	Collaborator int
}

// DefaultRetries returns the default retry tuning.
func DefaultRetries() Retries {
	return Retries{Mutation: 1, VideoControl: 3, Collaborator: 2}
}

func (r Retries) forFamily(f types.ActionFamily) int {
	defaults := DefaultRetries()
	switch f {
	case types.FamilyVideoControl:
		if r.VideoControl >= 1 {
			return r.VideoControl
		}
		return defaults.VideoControl
	case types.FamilyCollaborator:
		if r.Collaborator >= 1 {
			return r.Collaborator
		}
		return defaults.Collaborator
	}
	if r.Mutation >= 1 {
		return r.Mutation
	}
	return defaults.Mutation
}

// Config configures a Coordinator. Video is required; every other
// collaborator defaults to a local in-memory implementation so a
// coordinator is always constructible in isolation (tests, replay).
type Config struct {
	// Meta is the session identity. SessionID is required.
	Meta types.SessionMeta

	// Video is the playback controller (required).
	Video *video.Controller

	// Generator produces quiz/hint content. Nil serves the built-in
	// default content for every generation.
	Generator Generator
	// Transcript looks up transcript excerpts. Nil means no transcript.
	Transcript transcript.Provider
	// Actions persists quiz results, reflections, and notes.
	// Nil defaults to a recording stub.
	Actions persist.Actions
	// Recorder captures reflections. Nil defaults to an in-memory
	// recorder.
	Recorder media.Recorder
	// Media stores captured blobs. Nil defaults to an in-memory store.
	Media media.BlobStore
	// Journal receives an entry per executed command. Nil disables
	// journaling.
	Journal journal.Sink

	// Logger defaults to a no-op logger.
	Logger *log.Logger
	// Collector is optional; metrics calls are nil-safe.
	Collector *metrics.Collector

	// Retries tunes maxAttempts per action family.
	Retries Retries
	// CallTimeout bounds each collaborator call (default 30s).
	CallTimeout time.Duration
}

// Coordinator sequences video, agent, AI, segment, quiz, and recording
// interactions for one viewing session.
type Coordinator struct {
	store     *store
	videoCtrl *video.Controller

	generator  Generator
	transcript transcript.Provider
	actions    persist.Actions
	recorder   media.Recorder
	mediaStore media.BlobStore
	sink       journal.Sink

	logger    *log.Logger
	collector *metrics.Collector

	retries     Retries
	callTimeout time.Duration

	rootCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*types.Command
	running bool
	closed  bool

	// pendingBlob retains a stopped recording until a submit succeeds,
	// so a failed upload never loses the capture. Worker-only.
	pendingBlob *media.Blob

	done chan struct{}
}

// New constructs a coordinator and starts its command worker.
// One coordinator per viewing session; independent sessions (and tests)
// construct their own.
func New(cfg Config) (*Coordinator, error) {
	if err := cfg.Meta.Validate(); err != nil {
		return nil, err
	}
	if cfg.Video == nil {
		return nil, errors.New("session requires a video controller")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	actions := cfg.Actions
	if actions == nil {
		actions = persist.NewStub()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = media.NewMemoryRecorder()
	}
	mediaStore := cfg.Media
	if mediaStore == nil {
		mediaStore = media.NewMemoryStore()
	}
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		store:       newStore(types.NewSnapshot(cfg.Meta), logger, cfg.Collector),
		videoCtrl:   cfg.Video,
		generator:   cfg.Generator,
		transcript:  cfg.Transcript,
		actions:     actions,
		recorder:    recorder,
		mediaStore:  mediaStore,
		sink:        cfg.Journal,
		logger:      logger,
		collector:   cfg.Collector,
		retries:     cfg.Retries,
		callTimeout: callTimeout,
		rootCtx:     ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)

	go c.run()
	return c, nil
}

// Dispatch accepts an action for ordered execution. Never blocks and
// never returns an error across this boundary: failures surface through
// Snapshot().Errors. Dispatches after Close are dropped.
func (c *Coordinator) Dispatch(action types.Action) {
	maxAttempts := c.retries.forFamily(action.ActionType().Family())
	cmd := types.NewCommand(action, maxAttempts)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("dispatch after close dropped", map[string]any{
			"action": action.ActionType(),
		})
		return
	}
	c.queue = append(c.queue, cmd)
	c.cond.Broadcast()
	c.mu.Unlock()

	c.collector.IncCommandsDispatched()
}

// SetVideoContext rebinds the session to a new video. The reset runs as a
// queued command so it observes the same ordering guarantees as every
// other mutation; binding the same video id again is a no-op.
func (c *Coordinator) SetVideoContext(videoID, courseID string) {
	c.Dispatch(types.ResetSession{VideoID: videoID, CourseID: courseID})
}

// Snapshot returns a deep copy of the current session state.
func (c *Coordinator) Snapshot() types.Snapshot {
	return c.store.Get()
}

// Subscribe registers a callback invoked synchronously after every
// accepted snapshot commit. Returns an unsubscribe function.
func (c *Coordinator) Subscribe(fn func(types.Snapshot)) func() {
	return c.store.Subscribe(fn)
}

// Wait blocks until the queue is empty and no command is executing.
// Primarily for tests and offline replay.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.queue) > 0 || c.running {
		c.cond.Wait()
	}
}

// Close stops accepting dispatches, drains the remaining queue, and
// releases the worker. Safe to call more than once.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.done
		return
	}
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()

	<-c.done
	c.cancel()
}

// run is the single command worker: strict FIFO, one command to
// completion at a time.
func (c *Coordinator) run() {
	defer close(c.done)
	for {
		cmd := c.next()
		if cmd == nil {
			return
		}
		c.execute(cmd)

		c.mu.Lock()
		c.running = false
		c.cond.Broadcast()
		c.mu.Unlock()
	}
}

// next blocks until a command is available, marking the worker running.
// Returns nil once the coordinator is closed and the queue drained.
func (c *Coordinator) next() *types.Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.queue) == 0 && !c.closed {
		c.cond.Wait()
	}
	if len(c.queue) == 0 {
		return nil
	}

	cmd := c.queue[0]
	c.queue = c.queue[1:]
	c.running = true
	return cmd
}

// enqueueInternal appends a coordinator-originated command (e.g. the
// generation follow-up to an accepted agent). Called from handlers on the
// worker goroutine.
func (c *Coordinator) enqueueInternal(action types.Action) {
	maxAttempts := c.retries.forFamily(action.ActionType().Family())
	cmd := types.NewCommand(action, maxAttempts)

	c.mu.Lock()
	c.queue = append(c.queue, cmd)
	c.cond.Broadcast()
	c.mu.Unlock()
}

// execute runs one command through its handler with retry bookkeeping.
// A command that exhausts its attempts is recorded and skipped; the queue
// keeps draining regardless.
func (c *Coordinator) execute(cmd *types.Command) {
	cmd.Status = types.CommandRunning

	var lastErr error
	for cmd.Attempts < cmd.MaxAttempts {
		cmd.Attempts++

		snap := c.store.Get()
		next, err := c.handle(c.rootCtx, cmd, snap)
		if err == nil {
			cmd.Status = types.CommandDone
			committed, _ := c.store.Commit(next)
			c.collector.IncCommandsExecuted()
			c.journal(cmd, committed, nil)
			return
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
		if cmd.Attempts < cmd.MaxAttempts {
			c.collector.IncCommandsRetried()
			c.logger.Warn("command retrying", map[string]any{
				"command": cmd.Type(),
				"attempt": cmd.Attempts,
				"error":   err.Error(),
			})
		}
	}

	// Validation rejections leave the session state untouched; only
	// exhausted retries push the session into the error state.
	cmd.Status = types.CommandFailed
	snap := c.store.Get()
	snap.Errors = append(snap.Errors, types.ErrorRecord{
		Time:        types.Now(),
		CommandID:   cmd.ID,
		CommandType: cmd.Type(),
		Message:     lastErr.Error(),
		Attempts:    cmd.Attempts,
	})
	if IsValidation(lastErr) {
		c.collector.IncValidationErrors()
		c.logger.Debug("command rejected", map[string]any{
			"command": cmd.Type(),
			"error":   lastErr.Error(),
		})
	} else {
		snap.State = types.SessionError
		c.collector.IncCommandsFailed()
		c.logger.Error("command failed", map[string]any{
			"command":  cmd.Type(),
			"attempts": cmd.Attempts,
			"error":    lastErr.Error(),
		})
	}
	committed, _ := c.store.Commit(snap)
	c.journal(cmd, committed, lastErr)
}

// journal records the executed command; journaling is best-effort.
func (c *Coordinator) journal(cmd *types.Command, snap types.Snapshot, execErr error) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Record(journal.NewEntry(cmd, snap, execErr)); err != nil {
		c.logger.Warn("journal record failed", map[string]any{
			"command": cmd.Type(),
			"error":   err.Error(),
		})
	}
}

// callCtx derives the bounded context used for one collaborator call.
func (c *Coordinator) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

// handle routes a command to its family handler. The action union is
// closed, so the default arm is unreachable short of a new variant being
// added without a handler.
func (c *Coordinator) handle(ctx context.Context, cmd *types.Command, snap types.Snapshot) (types.Snapshot, error) {
	switch a := cmd.Action.(type) {
	case types.VideoPlayed:
		return c.handleVideoPlayed(snap)
	case types.VideoPaused:
		return c.handleVideoPaused(snap)
	case types.VideoTimeUpdated:
		return c.handleVideoTimeUpdated(snap, a)
	case types.VideoSeek:
		return c.handleVideoSeek(ctx, snap, a)
	case types.AgentButtonClicked:
		return c.handleAgentButtonClicked(ctx, snap, a)
	case types.ActivateAgent:
		return c.handleActivateAgent(snap, a)
	case types.RejectAgent:
		return c.handleRejectAgent(ctx, snap, a)
	case types.GenerateContent:
		return c.handleGenerateContent(ctx, snap, a)
	case types.SetInPoint:
		return c.handleSetInPoint(ctx, snap, a)
	case types.SetOutPoint:
		return c.handleSetOutPoint(ctx, snap, a)
	case types.UpdateSegment:
		return c.handleUpdateSegment(ctx, snap, a)
	case types.ClearSegment:
		return c.handleClearSegment(snap)
	case types.SendSegment:
		return c.handleSendSegment(ctx, snap)
	case types.QuizAnswer:
		return c.handleQuizAnswer(snap, a)
	case types.QuizComplete:
		return c.handleQuizComplete(ctx, snap, a)
	case types.StartRecording:
		return c.handleStartRecording(ctx, snap)
	case types.PauseRecording:
		return c.handlePauseRecording(ctx, snap)
	case types.ResumeRecording:
		return c.handleResumeRecording(ctx, snap)
	case types.StopRecording:
		return c.handleStopRecording(ctx, snap)
	case types.ReflectionSubmit:
		return c.handleReflectionSubmit(ctx, snap, a)
	case types.ResetSession:
		return c.handleResetSession(snap, a)
	default:
		return snap, validationf("unhandled action type %T", a)
	}
}
