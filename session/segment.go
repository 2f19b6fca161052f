package session

import (
	"context"
	"fmt"

	"github.com/pithecene-io/cue/persist"
	"github.com/pithecene-io/cue/types"
)

// Segment handlers manage the learner's in/out point selection. A segment
// is complete when both points are set with in < out; completing one
// resolves its transcript excerpt.

func (c *Coordinator) handleSetInPoint(ctx context.Context, snap types.Snapshot, a types.SetInPoint) (types.Snapshot, error) {
	if a.Time < 0 {
		return snap, validationf("in point %.3f is negative", a.Time)
	}
	t := a.Time
	wasComplete := snap.Segment.Complete
	snap.Segment.InPoint = &t
	// A new in point over a completed segment starts a fresh selection;
	// the same applies when it would invert the pending range.
	if snap.Segment.OutPoint != nil && (wasComplete || t >= *snap.Segment.OutPoint) {
		snap.Segment.OutPoint = nil
	}
	c.finishSegment(ctx, &snap)
	return snap, nil
}

func (c *Coordinator) handleSetOutPoint(ctx context.Context, snap types.Snapshot, a types.SetOutPoint) (types.Snapshot, error) {
	if snap.Segment.InPoint == nil {
		return snap, validationf("out point requires an in point")
	}
	if a.Time <= *snap.Segment.InPoint {
		return snap, validationf("out point %.3f must be after in point %.3f", a.Time, *snap.Segment.InPoint)
	}
	t := a.Time
	snap.Segment.OutPoint = &t
	c.finishSegment(ctx, &snap)
	return snap, nil
}

func (c *Coordinator) handleUpdateSegment(ctx context.Context, snap types.Snapshot, a types.UpdateSegment) (types.Snapshot, error) {
	if a.InPoint < 0 || a.OutPoint <= a.InPoint {
		return snap, validationf("segment [%.3f, %.3f] is not a valid range", a.InPoint, a.OutPoint)
	}
	in, out := a.InPoint, a.OutPoint
	snap.Segment = types.SegmentState{InPoint: &in, OutPoint: &out}
	c.finishSegment(ctx, &snap)
	return snap, nil
}

func (c *Coordinator) handleClearSegment(snap types.Snapshot) (types.Snapshot, error) {
	snap.Segment = types.SegmentState{}
	return snap, nil
}

func (c *Coordinator) handleSendSegment(ctx context.Context, snap types.Snapshot) (types.Snapshot, error) {
	seg := snap.Segment
	if !seg.Complete {
		return snap, validationf("segment is not complete")
	}
	if seg.SentToChat {
		return snap, validationf("segment already shared")
	}

	text := seg.Transcript
	if text == "" {
		text = fmt.Sprintf("Shared segment %.1fs to %.1fs", *seg.InPoint, *seg.OutPoint)
	}

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	c.collector.IncPersistCalls()
	res, err := c.actions.ShareNote(callCtx, &persist.NoteShare{
		SessionID: snap.SessionID,
		VideoID:   snap.VideoID,
		CourseID:  snap.CourseID,
		InPoint:   *seg.InPoint,
		OutPoint:  *seg.OutPoint,
		Text:      seg.Transcript,
	})
	if err != nil {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(err)
	}
	if !res.Success {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(fmt.Errorf("note share rejected: %s", res.Error))
	}

	msg := newMessage(types.MessageUser, types.MessagePermanent, snap.Video.CurrentTime)
	msg.Text = text
	snap.Messages = append(snap.Messages, msg)
	snap.Segment.SentToChat = true
	return snap, nil
}

// finishSegment recomputes completeness after a point change and resolves
// the transcript excerpt for complete segments. Transcript misses and
// lookup failures leave the excerpt empty; sharing still works without it.
func (c *Coordinator) finishSegment(ctx context.Context, snap *types.Snapshot) {
	seg := &snap.Segment
	seg.SentToChat = false
	seg.Transcript = ""
	seg.Complete = seg.InPoint != nil && seg.OutPoint != nil && *seg.InPoint < *seg.OutPoint

	if !seg.Complete || c.transcript == nil {
		return
	}
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	text, ok, err := c.transcript.Lookup(callCtx, snap.VideoID, *seg.InPoint, *seg.OutPoint)
	if err != nil {
		c.logger.Warn("segment transcript lookup failed", map[string]any{
			"video_id": snap.VideoID,
			"error":    err.Error(),
		})
		return
	}
	if ok {
		seg.Transcript = text
	}
}
