package video

import "sync"

// StubPlayer is a scripted Player for tests and offline replay.
// Tracks call counts and play state for assertions.
type StubPlayer struct {
	mu sync.Mutex

	// Playing is the simulated transport state.
	Playing bool
	// Position is the simulated playback position in seconds.
	Position float64

	// PauseCalls and PlayCalls count invocations.
	PauseCalls int
	PlayCalls  int
	SeekCalls  int

	// Err, if non-nil, is returned by every operation.
	Err error
}

// Pause records the call and stops simulated playback.
func (p *StubPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PauseCalls++
	if p.Err != nil {
		return p.Err
	}
	p.Playing = false
	return nil
}

// Play records the call and starts simulated playback.
func (p *StubPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PlayCalls++
	if p.Err != nil {
		return p.Err
	}
	p.Playing = true
	return nil
}

// CurrentTime returns the simulated position.
func (p *StubPlayer) CurrentTime() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Position, nil
}

// SetCurrentTime moves the simulated position.
func (p *StubPlayer) SetCurrentTime(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SeekCalls++
	if p.Err != nil {
		return p.Err
	}
	p.Position = t
	return nil
}

// Counts returns the recorded call counts.
func (p *StubPlayer) Counts() (pause, play, seek int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.PauseCalls, p.PlayCalls, p.SeekCalls
}

// StubController returns a single-tier controller over a fresh StubPlayer.
// Convenience for coordinator tests and the replay CLI.
func StubController() (*Controller, *StubPlayer) {
	player := &StubPlayer{}
	ctrl, err := NewController([]Strategy{
		NewHandleStrategy("stub", func() Player { return player }),
	})
	if err != nil {
		// Unreachable: one strategy is always provided.
		panic(err)
	}
	return ctrl, player
}
