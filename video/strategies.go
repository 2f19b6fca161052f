package video

import "context"

// Player is the imperative surface of the playback element. The hosting UI
// supplies an implementation bound to whichever handle it currently holds.
type Player interface {
	Pause() error
	Play() error
	CurrentTime() (float64, error)
	SetCurrentTime(t float64) error
}

// HandleStrategy drives playback through a live Player handle. The resolve
// function is called per operation because the handle can appear and
// disappear across component remounts; returning nil means this tier is
// currently unavailable.
type HandleStrategy struct {
	name    string
	resolve func() Player
}

// NewHandleStrategy creates a tier backed by a handle resolver.
// Used for both the direct player-component handle and the stored element
// reference; they differ only in where the resolver looks.
func NewHandleStrategy(name string, resolve func() Player) *HandleStrategy {
	return &HandleStrategy{name: name, resolve: resolve}
}

// Name identifies the tier.
func (s *HandleStrategy) Name() string { return s.name }

// Pause pauses through the resolved handle.
func (s *HandleStrategy) Pause(ctx context.Context) error {
	p, err := s.player(ctx)
	if err != nil {
		return err
	}
	return p.Pause()
}

// Play resumes through the resolved handle.
func (s *HandleStrategy) Play(ctx context.Context) error {
	p, err := s.player(ctx)
	if err != nil {
		return err
	}
	return p.Play()
}

// Position reads the playback position through the resolved handle.
func (s *HandleStrategy) Position(ctx context.Context) (float64, error) {
	p, err := s.player(ctx)
	if err != nil {
		return 0, err
	}
	return p.CurrentTime()
}

// SeekTo sets the playback position through the resolved handle.
func (s *HandleStrategy) SeekTo(ctx context.Context, t float64) error {
	p, err := s.player(ctx)
	if err != nil {
		return err
	}
	return p.SetCurrentTime(t)
}

func (s *HandleStrategy) player(ctx context.Context) (Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := s.resolve()
	if p == nil {
		return nil, ErrUnavailable
	}
	return p, nil
}

var _ Seeker = (*HandleStrategy)(nil)

// KeySender simulates a host keypress. Depends on the hosting surface
// holding focus.
type KeySender interface {
	SendKey(ctx context.Context, key string) error
}

// KeyToggleStrategy simulates a play/pause keyboard toggle (spacebar).
// Last-resort tier: it cannot distinguish play from pause, cannot seek,
// and silently does the wrong thing if the player's state diverged from
// the snapshot. Keep it at the end of the chain.
type KeyToggleStrategy struct {
	sender KeySender
	// playing reports the coordinator's current belief about playback,
	// used to decide whether a toggle is needed at all.
	playing func() bool
}

// NewKeyToggleStrategy creates the key-toggle tier.
func NewKeyToggleStrategy(sender KeySender, playing func() bool) *KeyToggleStrategy {
	return &KeyToggleStrategy{sender: sender, playing: playing}
}

// Name identifies the tier.
func (s *KeyToggleStrategy) Name() string { return "key-toggle" }

// Pause toggles only when playback is believed to be running.
func (s *KeyToggleStrategy) Pause(ctx context.Context) error {
	if !s.playing() {
		return nil
	}
	return s.sender.SendKey(ctx, " ")
}

// Play toggles only when playback is believed to be stopped.
func (s *KeyToggleStrategy) Play(ctx context.Context) error {
	if s.playing() {
		return nil
	}
	return s.sender.SendKey(ctx, " ")
}
