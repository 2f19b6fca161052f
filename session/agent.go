package session

import (
	"context"

	"github.com/pithecene-io/cue/types"
)

// reflectionPrompt is shown when a reflect agent is accepted.
const reflectionPrompt = "Take a moment to reflect on what you just watched. " +
	"Record your thoughts, or write them down."

var reflectionOptions = []string{"record audio", "write text"}

// newMessage builds a log entry stamped with the current wall clock and
// playback position.
func newMessage(t types.MessageType, state types.MessageState, videoTime float64) types.Message {
	return types.Message{
		ID:        types.NewID(),
		Type:      t,
		State:     state,
		Timestamp: types.Now(),
		VideoTime: videoTime,
	}
}

// completeAgentFlow commits the active prompt as permanent and returns the
// session to idle. Callers persist their outcome first.
func completeAgentFlow(snap *types.Snapshot) {
	if i := snap.MessageByID(snap.Agent.SystemMessageID); i >= 0 {
		if snap.Messages[i].State.CanTransition(types.MessagePermanent) {
			snap.Messages[i].State = types.MessagePermanent
		}
	}
	snap.Agent = types.AgentState{}
	snap.AI = types.AIState{}
	snap.State = types.SessionIdle
}

func (c *Coordinator) handleAgentButtonClicked(ctx context.Context, snap types.Snapshot, a types.AgentButtonClicked) (types.Snapshot, error) {
	if !a.Agent.Valid() {
		return snap, validationf("unknown agent type %q", a.Agent)
	}
	if !snap.Agent.Idle() {
		return snap, validationf("agent flow already in progress")
	}

	if err := c.pausePlayback(ctx, &snap); err != nil {
		return snap, err
	}

	msg := newMessage(types.MessageAgentPrompt, types.MessageUnactivated, snap.Video.CurrentTime)
	msg.AgentType = a.Agent
	snap.Messages = append(snap.Messages, msg)
	snap.Agent.UnactivatedID = msg.ID
	snap.State = types.SessionAgentActive

	c.logger.Debug("agent prompt created", map[string]any{
		"agent":      a.Agent,
		"message_id": msg.ID,
		"video_time": msg.VideoTime,
	})
	return snap, nil
}

func (c *Coordinator) handleActivateAgent(snap types.Snapshot, a types.ActivateAgent) (types.Snapshot, error) {
	if a.MessageID == "" || a.MessageID != snap.Agent.UnactivatedID {
		return snap, validationf("message %q is not the pending agent prompt", a.MessageID)
	}
	i := snap.MessageByID(a.MessageID)
	if i < 0 {
		return snap, validationf("message %q not found", a.MessageID)
	}
	msg := &snap.Messages[i]
	if !msg.State.CanTransition(types.MessageActivated) {
		return snap, validationf("message %q cannot activate from state %q", a.MessageID, msg.State)
	}

	msg.State = types.MessageActivated
	snap.Agent.UnactivatedID = ""
	snap.Agent.SystemMessageID = msg.ID
	snap.Agent.ActiveType = msg.AgentType
	snap.State = types.SessionAgentActive

	switch msg.AgentType {
	case types.AgentReflect:
		// Reflection offers capture modes directly; nothing to generate.
		opts := newMessage(types.MessageReflectionOptions, types.MessagePermanent, snap.Video.CurrentTime)
		opts.Reflection = &types.ReflectionPayload{
			Prompt:  reflectionPrompt,
			Options: append([]string(nil), reflectionOptions...),
		}
		snap.Messages = append(snap.Messages, opts)
	default:
		c.enqueueInternal(types.GenerateContent{MessageID: msg.ID, Agent: msg.AgentType})
	}
	return snap, nil
}

func (c *Coordinator) handleRejectAgent(ctx context.Context, snap types.Snapshot, a types.RejectAgent) (types.Snapshot, error) {
	if a.MessageID == "" || a.MessageID != snap.Agent.UnactivatedID {
		return snap, validationf("message %q is not the pending agent prompt", a.MessageID)
	}
	i := snap.MessageByID(a.MessageID)
	if i < 0 {
		return snap, validationf("message %q not found", a.MessageID)
	}
	msg := &snap.Messages[i]
	if !msg.State.CanTransition(types.MessageRejected) {
		return snap, validationf("message %q cannot reject from state %q", a.MessageID, msg.State)
	}

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.videoCtrl.Play(callCtx); err != nil {
		return snap, videoControlErr(err)
	}

	msg.State = types.MessageRejected
	snap.Agent = types.AgentState{}
	snap.State = types.SessionIdle
	snap.Video.Playing = true
	return snap, nil
}
