package session

import (
	"context"

	"github.com/pithecene-io/cue/types"
)

// handleResetSession rebinds the session to a new video. Binding the same
// video again is a no-op: transient UI remounts re-announce the current
// video and must not wipe the interaction log. Diagnostic error records
// survive the reset.
func (c *Coordinator) handleResetSession(snap types.Snapshot, a types.ResetSession) (types.Snapshot, error) {
	if a.VideoID == "" {
		return snap, validationf("video id must be non-empty")
	}
	if a.VideoID == snap.VideoID {
		return snap, nil
	}

	if snap.Recording.Recording {
		// Navigating away abandons the capture.
		stopCtx, cancel := c.callCtx(context.Background())
		if _, err := c.recorder.Stop(stopCtx); err != nil {
			c.logger.Warn("abandoning recording on video change failed", map[string]any{
				"error": err.Error(),
			})
		}
		cancel()
		c.pendingBlob = nil
	}

	next := types.NewSnapshot(types.SessionMeta{
		SessionID: snap.SessionID,
		VideoID:   a.VideoID,
		CourseID:  a.CourseID,
	})
	next.Errors = snap.Errors

	c.collector.SetVideoID(a.VideoID)
	c.logger.Info("session rebound to video", map[string]any{
		"video_id":  a.VideoID,
		"course_id": a.CourseID,
	})
	return next, nil
}
