package session

import (
	"context"

	"github.com/pithecene-io/cue/types"
)

// Transport handlers mirror playback element events into the snapshot and
// drive the playback element for coordinator-originated seeks.

func (c *Coordinator) handleVideoPlayed(snap types.Snapshot) (types.Snapshot, error) {
	snap.Video.Playing = true
	return snap, nil
}

func (c *Coordinator) handleVideoPaused(snap types.Snapshot) (types.Snapshot, error) {
	snap.Video.Playing = false
	return snap, nil
}

func (c *Coordinator) handleVideoTimeUpdated(snap types.Snapshot, a types.VideoTimeUpdated) (types.Snapshot, error) {
	if a.Time < 0 {
		return snap, validationf("time update %.3f is negative", a.Time)
	}
	snap.Video.CurrentTime = a.Time
	if a.Duration > 0 {
		snap.Video.Duration = a.Duration
	}
	return snap, nil
}

func (c *Coordinator) handleVideoSeek(ctx context.Context, snap types.Snapshot, a types.VideoSeek) (types.Snapshot, error) {
	if a.Time < 0 {
		return snap, validationf("seek target %.3f is negative", a.Time)
	}
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.videoCtrl.SeekTo(callCtx, a.Time); err != nil {
		return snap, videoControlErr(err)
	}
	snap.Video.CurrentTime = a.Time
	return snap, nil
}

// pausePlayback pauses the element and mirrors the result. Used by agent
// flows that interrupt viewing.
func (c *Coordinator) pausePlayback(ctx context.Context, snap *types.Snapshot) error {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.videoCtrl.Pause(callCtx); err != nil {
		return videoControlErr(err)
	}
	snap.Video.Playing = false
	return nil
}

// resumePlaybackBestEffort resumes the element after an agent flow
// completes. Failures are logged, never propagated: the completing
// command already persisted its outcome and must not be retried for the
// sake of a resume.
func (c *Coordinator) resumePlaybackBestEffort(ctx context.Context, snap *types.Snapshot) {
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.videoCtrl.Play(callCtx); err != nil {
		c.logger.Warn("resume after agent flow failed", map[string]any{
			"error": err.Error(),
		})
		return
	}
	snap.Video.Playing = true
}
