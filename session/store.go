package session

import (
	"sync"

	"github.com/pithecene-io/cue/log"
	"github.com/pithecene-io/cue/metrics"
	"github.com/pithecene-io/cue/types"
)

// store holds the single authoritative snapshot and fans committed
// replacements out to subscribers.
//
// Writes arrive only from the command worker; reads may come from any
// goroutine. Subscribers are invoked synchronously on the committing
// goroutine, outside the store lock, so a callback may subscribe or
// unsubscribe without deadlocking.
type store struct {
	mu        sync.RWMutex
	snap      types.Snapshot
	subs      map[int]func(types.Snapshot)
	nextSubID int

	logger    *log.Logger
	collector *metrics.Collector
}

func newStore(initial types.Snapshot, logger *log.Logger, collector *metrics.Collector) *store {
	return &store{
		snap:      initial,
		subs:      make(map[int]func(types.Snapshot)),
		logger:    logger,
		collector: collector,
	}
}

// Get returns a deep copy of the current snapshot.
func (s *store) Get() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Version returns the current commit counter.
func (s *store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Version
}

// Commit atomically replaces the snapshot and notifies subscribers.
// Structurally identical replacements are suppressed, guarding against
// notify loops when a handler computes a next state equal to the current
// one. Returns the stored snapshot and whether it was accepted.
func (s *store) Commit(next types.Snapshot) (types.Snapshot, bool) {
	s.mu.Lock()
	if next.Equal(s.snap) {
		stored := s.snap
		s.mu.Unlock()
		s.collector.IncCommitsDeduped()
		return stored, false
	}

	next.Version = s.snap.Version + 1
	s.snap = next

	callbacks := make([]func(types.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	s.collector.IncCommitsAccepted()
	s.collector.AddNotifications(int64(len(callbacks)))

	// Subscribers receive the committed value and must treat it as
	// immutable; the snapshot's slices are shared across callbacks.
	for _, fn := range callbacks {
		fn(next)
	}

	s.logger.Debug("snapshot committed", map[string]any{
		"version":     next.Version,
		"state":       next.State,
		"subscribers": len(callbacks),
	})
	return next, true
}

// Subscribe registers a callback invoked after every accepted commit.
// Returns an unsubscribe function.
func (s *store) Subscribe(fn func(types.Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
