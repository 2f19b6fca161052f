package video

import "testing"

func TestKeyToggleStrategy_PauseOnlyWhenPlaying(t *testing.T) {
	playing := true
	sender := &stubKeySender{}
	s := NewKeyToggleStrategy(sender, func() bool { return playing })

	if err := s.Pause(t.Context()); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if len(sender.keys) != 1 {
		t.Fatalf("key presses = %d, want 1", len(sender.keys))
	}

	playing = false
	if err := s.Pause(t.Context()); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if len(sender.keys) != 1 {
		t.Errorf("pause while already paused sent a key press")
	}
}

func TestKeyToggleStrategy_PlayOnlyWhenPaused(t *testing.T) {
	playing := false
	sender := &stubKeySender{}
	s := NewKeyToggleStrategy(sender, func() bool { return playing })

	if err := s.Play(t.Context()); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(sender.keys) != 1 {
		t.Fatalf("key presses = %d, want 1", len(sender.keys))
	}

	playing = true
	if err := s.Play(t.Context()); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(sender.keys) != 1 {
		t.Errorf("play while already playing sent a key press")
	}
}

func TestHandleStrategy_ResolvesPerOperation(t *testing.T) {
	var current *StubPlayer
	s := NewHandleStrategy("handle", func() Player {
		if current == nil {
			return nil
		}
		return current
	})

	if err := s.Pause(t.Context()); err != ErrUnavailable {
		t.Errorf("Pause with nil handle = %v, want ErrUnavailable", err)
	}

	// Handle appears after a remount.
	current = &StubPlayer{}
	if err := s.Pause(t.Context()); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if current.PauseCalls != 1 {
		t.Errorf("pause calls = %d, want 1", current.PauseCalls)
	}
}
