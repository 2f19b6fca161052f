package session

import (
	"context"

	"github.com/pithecene-io/cue/genai"
	"github.com/pithecene-io/cue/types"
)

// transcriptWindow is how far back from the playback position a
// generation request gathers transcript context.
const transcriptWindow = 45.0

// handleGenerateContent streams AI content for an accepted agent prompt.
//
// Each arriving chunk is committed as its own snapshot so subscribers can
// render progressively. Because other commands may have run between the
// activation and this command (or between chunks and finalization), every
// commit re-checks that the prompt is still the active agent task; a
// generation whose prompt was superseded is discarded, never applied.
//
// Generation never fails the command: an unreachable or erroring endpoint
// falls back to built-in default content.
func (c *Coordinator) handleGenerateContent(ctx context.Context, snap types.Snapshot, a types.GenerateContent) (types.Snapshot, error) {
	if snap.Agent.SystemMessageID != a.MessageID {
		c.logger.Debug("generation discarded, prompt superseded", map[string]any{
			"message_id": a.MessageID,
		})
		return snap, nil
	}

	snap.AI = types.AIState{Generating: true, Type: a.Agent}
	snap.State = types.SessionGenerating
	c.store.Commit(snap)

	content, genErr := c.generate(ctx, snap, a)

	// Re-read: chunk commits advanced the store past our working copy.
	final := c.store.Get()
	if final.Agent.SystemMessageID != a.MessageID {
		c.logger.Debug("generation result discarded, prompt superseded", map[string]any{
			"message_id": a.MessageID,
		})
		return final, nil
	}

	videoTime := final.Video.CurrentTime
	switch a.Agent {
	case types.AgentQuiz:
		questions := genai.ParseQuiz(content)
		quiz := newMessage(types.MessageQuizQuestion, types.MessageActivated, videoTime)
		quiz.AgentType = a.Agent
		quiz.Quiz = types.NewQuizPayload(questions)
		final.Messages = append(final.Messages, quiz)
		final.AI = types.AIState{}
		final.State = types.SessionAgentActive
	default:
		// Hints complete immediately: the text is the whole task.
		hint := newMessage(types.MessageAI, types.MessagePermanent, videoTime)
		hint.AgentType = a.Agent
		hint.Text = content
		final.Messages = append(final.Messages, hint)
		completeAgentFlow(&final)
		c.resumePlaybackBestEffort(ctx, &final)
	}
	if genErr != nil {
		// Default content was served; surface the cause to subscribers
		// without failing the flow.
		final.AI.Error = genErr.Error()
	}
	return final, nil
}

// generate performs the streaming call, committing a snapshot per chunk,
// and returns the full content. Falls back to default content on any
// failure or when no generator is configured; a non-nil error reports the
// failure behind a fallback, never an unusable result.
func (c *Coordinator) generate(ctx context.Context, snap types.Snapshot, a types.GenerateContent) (string, error) {
	if c.generator == nil {
		c.collector.IncGenerationFallbacks()
		return genai.DefaultContent(a.Agent), nil
	}

	req := genai.Request{
		ContextID: snap.VideoID,
		Timestamp: snap.Video.CurrentTime,
		Kind:      a.Agent,
	}
	if c.transcript != nil {
		from := req.Timestamp - transcriptWindow
		if from < 0 {
			from = 0
		}
		lookupCtx, cancel := c.callCtx(ctx)
		text, ok, err := c.transcript.Lookup(lookupCtx, snap.VideoID, from, req.Timestamp)
		cancel()
		if err != nil {
			c.logger.Warn("transcript lookup failed", map[string]any{
				"video_id": snap.VideoID,
				"error":    err.Error(),
			})
		} else if ok {
			req.ContextText = text
		}
	}

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	c.collector.IncGenerationCalls()
	content, err := c.generator.Generate(callCtx, req, func(chunk string) {
		c.collector.IncGenerationChunks()
		cur := c.store.Get()
		if cur.Agent.SystemMessageID != a.MessageID {
			return
		}
		cur.AI.StreamedContent += chunk
		c.store.Commit(cur)
	})
	if err != nil {
		c.logger.Warn("generation failed, serving default content", map[string]any{
			"agent": a.Agent,
			"error": err.Error(),
		})
		c.collector.IncGenerationFallbacks()
		return genai.DefaultContent(a.Agent), err
	}
	return content, nil
}
