package session

import (
	"context"
	"fmt"

	"github.com/pithecene-io/cue/persist"
	"github.com/pithecene-io/cue/types"
)

// activeQuiz resolves the quiz message an answer or completion targets.
func activeQuiz(snap *types.Snapshot, messageID string) (*types.Message, error) {
	i := snap.MessageByID(messageID)
	if i < 0 {
		return nil, validationf("message %q not found", messageID)
	}
	msg := &snap.Messages[i]
	if msg.Type != types.MessageQuizQuestion || msg.Quiz == nil {
		return nil, validationf("message %q is not a quiz", messageID)
	}
	if msg.State != types.MessageActivated {
		return nil, validationf("quiz %q is not in progress", messageID)
	}
	return msg, nil
}

func (c *Coordinator) handleQuizAnswer(snap types.Snapshot, a types.QuizAnswer) (types.Snapshot, error) {
	msg, err := activeQuiz(&snap, a.MessageID)
	if err != nil {
		return snap, err
	}
	quiz := msg.Quiz
	if a.QuestionIndex < 0 || a.QuestionIndex >= len(quiz.Questions) {
		return snap, validationf("question index %d out of range", a.QuestionIndex)
	}
	if a.Selected < 0 || a.Selected >= len(quiz.Questions[a.QuestionIndex].Options) {
		return snap, validationf("answer %d out of range for question %d", a.Selected, a.QuestionIndex)
	}

	// Re-answering before completion is allowed; the score follows.
	quiz.Answers[a.QuestionIndex] = a.Selected
	quiz.Rescore()
	return snap, nil
}

func (c *Coordinator) handleQuizComplete(ctx context.Context, snap types.Snapshot, a types.QuizComplete) (types.Snapshot, error) {
	msg, err := activeQuiz(&snap, a.MessageID)
	if err != nil {
		return snap, err
	}
	quiz := msg.Quiz
	if !quiz.Answered() {
		return snap, validationf("quiz has unanswered questions")
	}

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()
	c.collector.IncPersistCalls()
	res, perr := c.actions.SubmitQuiz(callCtx, &persist.QuizSubmission{
		SessionID: snap.SessionID,
		VideoID:   snap.VideoID,
		CourseID:  snap.CourseID,
		MessageID: msg.ID,
		VideoTime: msg.VideoTime,
		Answers:   append([]int(nil), quiz.Answers...),
		Score:     quiz.Score,
		Total:     len(quiz.Questions),
	})
	if perr != nil {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(perr)
	}
	if !res.Success {
		c.collector.IncPersistFailures()
		return snap, collaboratorErr(fmt.Errorf("quiz submission rejected: %s", res.Error))
	}

	msg.State = types.MessagePermanent

	result := newMessage(types.MessageQuizResult, types.MessagePermanent, snap.Video.CurrentTime)
	result.AgentType = types.AgentQuiz
	result.Text = fmt.Sprintf("Quiz complete: %d/%d correct", quiz.Score, len(quiz.Questions))
	result.Quiz = quiz.Clone()
	snap.Messages = append(snap.Messages, result)

	completeAgentFlow(&snap)
	c.resumePlaybackBestEffort(ctx, &snap)
	return snap, nil
}
