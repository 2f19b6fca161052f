// Package video provides reliable playback control over an unreliable
// player handle.
//
// The hosting surface registers an ordered list of Strategy implementations
// (direct player handle first, then a stored element reference, then a DOM
// lookup, then a key-toggle last resort). Each call walks the list and
// stops at the first strategy that succeeds, so coordination guarantees
// like "playback is paused before an agent prompt appears" hold even while
// the primary handle is transiently nil during a remount.
package video

import (
	"context"
	"errors"
	"fmt"

	"github.com/pithecene-io/cue/log"
	"github.com/pithecene-io/cue/metrics"
)

// ErrUnavailable is returned by a strategy whose underlying handle is not
// currently usable. The controller moves on to the next tier.
var ErrUnavailable = errors.New("playback handle unavailable")

// ErrNoStrategy is returned when every tier failed or when no registered
// strategy supports the requested operation.
var ErrNoStrategy = errors.New("no video control strategy succeeded")

// Strategy is one tier of the fallback chain. Pause and Play must be
// idempotent; pausing an already-paused player is a success.
type Strategy interface {
	// Name identifies the tier in logs and diagnostics.
	Name() string
	Pause(ctx context.Context) error
	Play(ctx context.Context) error
}

// Seeker is implemented by strategies that can read and set the playback
// position. The key-toggle tier deliberately does not implement it.
type Seeker interface {
	Position(ctx context.Context) (float64, error)
	SeekTo(ctx context.Context, t float64) error
}

// Controller walks an ordered strategy list with early exit on first
// success. Construct once per session and share; all methods are safe for
// use from the coordinator's single worker.
type Controller struct {
	strategies []Strategy
	logger     *log.Logger
	collector  *metrics.Collector
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithCollector sets the metrics collector.
func WithCollector(m *metrics.Collector) Option {
	return func(c *Controller) { c.collector = m }
}

// NewController creates a controller over the given strategies, tried in
// order. Returns an error if no strategies are provided.
func NewController(strategies []Strategy, opts ...Option) (*Controller, error) {
	if len(strategies) == 0 {
		return nil, errors.New("video controller requires at least one strategy")
	}
	c := &Controller{
		strategies: strategies,
		logger:     log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Pause pauses playback via the first tier that succeeds.
func (c *Controller) Pause(ctx context.Context) error {
	return c.walk(ctx, "pause", func(ctx context.Context, s Strategy) error {
		return s.Pause(ctx)
	})
}

// Play resumes playback via the first tier that succeeds.
func (c *Controller) Play(ctx context.Context) error {
	return c.walk(ctx, "play", func(ctx context.Context, s Strategy) error {
		return s.Play(ctx)
	})
}

// CurrentTime returns the playback position from the first seek-capable
// tier that succeeds.
func (c *Controller) CurrentTime(ctx context.Context) (float64, error) {
	var position float64
	err := c.walk(ctx, "current_time", func(ctx context.Context, s Strategy) error {
		seeker, ok := s.(Seeker)
		if !ok {
			return ErrUnavailable
		}
		t, err := seeker.Position(ctx)
		if err != nil {
			return err
		}
		position = t
		return nil
	})
	return position, err
}

// SeekTo moves playback to t via the first seek-capable tier that succeeds.
func (c *Controller) SeekTo(ctx context.Context, t float64) error {
	return c.walk(ctx, "seek", func(ctx context.Context, s Strategy) error {
		seeker, ok := s.(Seeker)
		if !ok {
			return ErrUnavailable
		}
		return seeker.SeekTo(ctx, t)
	})
}

// walk tries each tier in order until one succeeds. Failures short of the
// last tier are logged at debug level only; the chain exists precisely
// because individual tiers fail routinely.
func (c *Controller) walk(ctx context.Context, op string, fn func(context.Context, Strategy) error) error {
	c.collector.IncVideoControlCalls()

	var errs []error
	for depth, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx, s)
		if err == nil {
			if depth > 0 {
				c.collector.AddVideoControlFallbacks(int64(depth))
				c.logger.Debug("video control fell back", map[string]any{
					"op":       op,
					"strategy": s.Name(),
					"depth":    depth,
				})
			}
			return nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}

	c.collector.IncVideoControlFailures()
	c.logger.Error("video control exhausted all strategies", map[string]any{
		"op":    op,
		"tiers": len(c.strategies),
	})
	return fmt.Errorf("%w: %s: %w", ErrNoStrategy, op, errors.Join(errs...))
}
