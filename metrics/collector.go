// Package metrics provides per-session metrics collection.
//
// The Collector accumulates counters during a single coordinator session.
// It is a leaf package with no internal dependencies. All increment methods
// are nil-receiver safe so wiring a collector stays optional.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of session metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Command queue
	CommandsDispatched int64
	CommandsExecuted   int64
	CommandsRetried    int64
	CommandsFailed     int64
	ValidationErrors   int64

	// Snapshot commits
	CommitsAccepted int64
	CommitsDeduped  int64
	Notifications   int64

	// Generation
	GenerationCalls     int64
	GenerationChunks    int64
	GenerationFallbacks int64

	// Video control
	VideoControlCalls     int64
	VideoControlFallbacks int64
	VideoControlFailures  int64

	// Collaborators
	PersistCalls    int64
	PersistFailures int64
	MediaUploads    int64

	// Dimensions (informational, set at construction)
	SessionID string
	VideoID   string
}

// Collector accumulates metrics during a single session.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	commandsDispatched int64
	commandsExecuted   int64
	commandsRetried    int64
	commandsFailed     int64
	validationErrors   int64

	commitsAccepted int64
	commitsDeduped  int64
	notifications   int64

	generationCalls     int64
	generationChunks    int64
	generationFallbacks int64

	videoControlCalls     int64
	videoControlFallbacks int64
	videoControlFailures  int64

	persistCalls    int64
	persistFailures int64
	mediaUploads    int64

	sessionID string
	videoID   string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(sessionID, videoID string) *Collector {
	return &Collector{sessionID: sessionID, videoID: videoID}
}

// SetVideoID updates the video dimension after a session rebind.
func (c *Collector) SetVideoID(videoID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.videoID = videoID
	c.mu.Unlock()
}

func (c *Collector) inc(field *int64) {
	c.mu.Lock()
	*field++
	c.mu.Unlock()
}

// IncCommandsDispatched counts an accepted dispatch.
func (c *Collector) IncCommandsDispatched() {
	if c == nil {
		return
	}
	c.inc(&c.commandsDispatched)
}

// IncCommandsExecuted counts a command that completed successfully.
func (c *Collector) IncCommandsExecuted() {
	if c == nil {
		return
	}
	c.inc(&c.commandsExecuted)
}

// IncCommandsRetried counts a retry attempt.
func (c *Collector) IncCommandsRetried() {
	if c == nil {
		return
	}
	c.inc(&c.commandsRetried)
}

// IncCommandsFailed counts a command that exhausted its attempts.
func (c *Collector) IncCommandsFailed() {
	if c == nil {
		return
	}
	c.inc(&c.commandsFailed)
}

// IncValidationErrors counts a command rejected by handler validation.
func (c *Collector) IncValidationErrors() {
	if c == nil {
		return
	}
	c.inc(&c.validationErrors)
}

// IncCommitsAccepted counts a snapshot replacement that changed state.
func (c *Collector) IncCommitsAccepted() {
	if c == nil {
		return
	}
	c.inc(&c.commitsAccepted)
}

// IncCommitsDeduped counts a replacement suppressed as structurally equal.
func (c *Collector) IncCommitsDeduped() {
	if c == nil {
		return
	}
	c.inc(&c.commitsDeduped)
}

// AddNotifications counts subscriber callbacks fired for one commit.
func (c *Collector) AddNotifications(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.notifications += n
	c.mu.Unlock()
}

// IncGenerationCalls counts a generation collaborator call.
func (c *Collector) IncGenerationCalls() {
	if c == nil {
		return
	}
	c.inc(&c.generationCalls)
}

// IncGenerationChunks counts a streamed chunk commit.
func (c *Collector) IncGenerationChunks() {
	if c == nil {
		return
	}
	c.inc(&c.generationChunks)
}

// IncGenerationFallbacks counts a default response served after a
// generation transport failure.
func (c *Collector) IncGenerationFallbacks() {
	if c == nil {
		return
	}
	c.inc(&c.generationFallbacks)
}

// IncVideoControlCalls counts a video controller invocation.
func (c *Collector) IncVideoControlCalls() {
	if c == nil {
		return
	}
	c.inc(&c.videoControlCalls)
}

// AddVideoControlFallbacks records how many strategy tiers were skipped
// before one succeeded.
func (c *Collector) AddVideoControlFallbacks(depth int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.videoControlFallbacks += depth
	c.mu.Unlock()
}

// IncVideoControlFailures counts a call that failed through every tier.
func (c *Collector) IncVideoControlFailures() {
	if c == nil {
		return
	}
	c.inc(&c.videoControlFailures)
}

// IncPersistCalls counts a persistence collaborator call.
func (c *Collector) IncPersistCalls() {
	if c == nil {
		return
	}
	c.inc(&c.persistCalls)
}

// IncPersistFailures counts a persistence call that did not succeed.
func (c *Collector) IncPersistFailures() {
	if c == nil {
		return
	}
	c.inc(&c.persistFailures)
}

// IncMediaUploads counts a reflection blob upload.
func (c *Collector) IncMediaUploads() {
	if c == nil {
		return
	}
	c.inc(&c.mediaUploads)
}

// Snapshot returns an atomic copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		CommandsDispatched: c.commandsDispatched,
		CommandsExecuted:   c.commandsExecuted,
		CommandsRetried:    c.commandsRetried,
		CommandsFailed:     c.commandsFailed,
		ValidationErrors:   c.validationErrors,

		CommitsAccepted: c.commitsAccepted,
		CommitsDeduped:  c.commitsDeduped,
		Notifications:   c.notifications,

		GenerationCalls:     c.generationCalls,
		GenerationChunks:    c.generationChunks,
		GenerationFallbacks: c.generationFallbacks,

		VideoControlCalls:     c.videoControlCalls,
		VideoControlFallbacks: c.videoControlFallbacks,
		VideoControlFailures:  c.videoControlFailures,

		PersistCalls:    c.persistCalls,
		PersistFailures: c.persistFailures,
		MediaUploads:    c.mediaUploads,

		SessionID: c.sessionID,
		VideoID:   c.videoID,
	}
}
