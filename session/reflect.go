package session

import (
	"context"
	"fmt"

	"github.com/pithecene-io/cue/persist"
	"github.com/pithecene-io/cue/types"
)

// Recording handlers drive the capture device for an accepted reflect
// agent. The captured blob never enters the snapshot; it is held on the
// coordinator until a submission succeeds so a failed upload cannot lose
// the capture.

func (c *Coordinator) requireReflect(snap *types.Snapshot) error {
	if snap.Agent.ActiveType != types.AgentReflect {
		return validationf("no reflect agent is active")
	}
	return nil
}

func (c *Coordinator) handleStartRecording(ctx context.Context, snap types.Snapshot) (types.Snapshot, error) {
	if err := c.requireReflect(&snap); err != nil {
		return snap, err
	}
	if snap.Recording.Recording {
		return snap, validationf("recording already in progress")
	}

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.recorder.Start(callCtx); err != nil {
		return snap, collaboratorErr(err)
	}

	c.pendingBlob = nil
	snap.Recording = types.RecordingState{Recording: true}
	snap.State = types.SessionRecording
	return snap, nil
}

func (c *Coordinator) handlePauseRecording(ctx context.Context, snap types.Snapshot) (types.Snapshot, error) {
	if !snap.Recording.Recording || snap.Recording.Paused {
		return snap, validationf("no active recording to pause")
	}
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.recorder.Pause(callCtx); err != nil {
		return snap, collaboratorErr(err)
	}
	snap.Recording.Paused = true
	return snap, nil
}

func (c *Coordinator) handleResumeRecording(ctx context.Context, snap types.Snapshot) (types.Snapshot, error) {
	if !snap.Recording.Recording || !snap.Recording.Paused {
		return snap, validationf("no paused recording to resume")
	}
	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.recorder.Resume(callCtx); err != nil {
		return snap, collaboratorErr(err)
	}
	snap.Recording.Paused = false
	return snap, nil
}

// handleStopRecording ends the capture, uploads it, and commits the
// reflection. The device is stopped at most once: a retry after an upload
// or submission failure reuses the held blob instead of stopping again.
func (c *Coordinator) handleStopRecording(ctx context.Context, snap types.Snapshot) (types.Snapshot, error) {
	if err := c.requireReflect(&snap); err != nil {
		return snap, err
	}
	if !snap.Recording.Recording && c.pendingBlob == nil {
		return snap, validationf("no recording to stop")
	}

	if c.pendingBlob == nil {
		callCtx, cancel := c.callCtx(ctx)
		blob, err := c.recorder.Stop(callCtx)
		cancel()
		if err != nil {
			return snap, collaboratorErr(err)
		}
		c.pendingBlob = blob
	}

	key := fmt.Sprintf("%s/%s", snap.SessionID, types.NewID())
	putCtx, cancelPut := c.callCtx(ctx)
	ref, err := c.mediaStore.Put(putCtx, key, c.pendingBlob)
	cancelPut()
	if err != nil {
		return snap, collaboratorErr(err)
	}
	c.collector.IncMediaUploads()

	subCtx, cancelSub := c.callCtx(ctx)
	defer cancelSub()
	c.collector.IncPersistCalls()
	res, err := c.actions.SubmitReflection(subCtx, &persist.ReflectionSubmission{
		SessionID: snap.SessionID,
		VideoID:   snap.VideoID,
		CourseID:  snap.CourseID,
		MessageID: snap.Agent.SystemMessageID,
		VideoTime: snap.Video.CurrentTime,
		MediaRef:  ref,
		MIME:      c.pendingBlob.MIME,
	})
	if err != nil {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(err)
	}
	if !res.Success {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(fmt.Errorf("reflection submission rejected: %s", res.Error))
	}
	c.pendingBlob = nil

	msg := newMessage(types.MessageAudio, types.MessagePermanent, snap.Video.CurrentTime)
	msg.AgentType = types.AgentReflect
	msg.MediaRef = ref
	snap.Messages = append(snap.Messages, msg)
	snap.Recording = types.RecordingState{}

	completeAgentFlow(&snap)
	c.resumePlaybackBestEffort(ctx, &snap)
	return snap, nil
}

// handleReflectionSubmit commits a typed reflection for an accepted
// reflect agent.
func (c *Coordinator) handleReflectionSubmit(ctx context.Context, snap types.Snapshot, a types.ReflectionSubmit) (types.Snapshot, error) {
	if err := c.requireReflect(&snap); err != nil {
		return snap, err
	}
	if a.Text == "" {
		return snap, validationf("reflection text must be non-empty")
	}
	if snap.Recording.Recording {
		return snap, validationf("stop the recording before submitting text")
	}

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	c.collector.IncPersistCalls()
	res, err := c.actions.SubmitReflection(callCtx, &persist.ReflectionSubmission{
		SessionID: snap.SessionID,
		VideoID:   snap.VideoID,
		CourseID:  snap.CourseID,
		MessageID: snap.Agent.SystemMessageID,
		VideoTime: snap.Video.CurrentTime,
		Text:      a.Text,
	})
	if err != nil {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(err)
	}
	if !res.Success {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(fmt.Errorf("reflection submission rejected: %s", res.Error))
	}

	msg := newMessage(types.MessageUser, types.MessagePermanent, snap.Video.CurrentTime)
	msg.AgentType = types.AgentReflect
	msg.Text = a.Text
	snap.Messages = append(snap.Messages, msg)

	completeAgentFlow(&snap)
	c.resumePlaybackBestEffort(ctx, &snap)
	return snap, nil
}
