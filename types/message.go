package types

import "time"

// MessageType discriminates entries in the chronological interaction log.
type MessageType string

const (
	// MessageSystem is coordinator-originated informational text.
	MessageSystem MessageType = "system"
	// MessageUser is learner-originated text (e.g. a shared segment).
	MessageUser MessageType = "user"
	// MessageAI is generated assistant text (hints, explanations).
	MessageAI MessageType = "ai"
	// MessageAgentPrompt is the accept/decline prompt shown when an agent
	// is triggered.
	MessageAgentPrompt MessageType = "agent-prompt"
	// MessageQuizQuestion carries generated quiz questions and the
	// learner's answer state.
	MessageQuizQuestion MessageType = "quiz-question"
	// MessageQuizResult is the committed outcome of a completed quiz.
	MessageQuizResult MessageType = "quiz-result"
	// MessageReflectionOptions lists the available reflection capture modes.
	MessageReflectionOptions MessageType = "reflection-options"
	// MessageAudio references an uploaded reflection recording.
	MessageAudio MessageType = "audio"
)

// MessageState is the message lifecycle state.
//
// Transitions are the only mutation path:
//
//	UNACTIVATED --(accept)--> ACTIVATED --(task completes & persists)--> PERMANENT
//	UNACTIVATED --(decline)--> REJECTED
//
// Permanent messages are committed, persisted facts and are never
// mutated again.
type MessageState string

const (
	// MessageUnactivated is a pending prompt awaiting accept/decline.
	MessageUnactivated MessageState = "unactivated"
	// MessageActivated is an accepted prompt with its task in progress.
	MessageActivated MessageState = "activated"
	// MessageRejected is a declined prompt. Terminal.
	MessageRejected MessageState = "rejected"
	// MessagePermanent is a committed, persisted fact. Terminal.
	MessagePermanent MessageState = "permanent"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s MessageState) IsTerminal() bool {
	return s == MessageRejected || s == MessagePermanent
}

// CanTransition reports whether the lifecycle permits moving from s to next.
func (s MessageState) CanTransition(next MessageState) bool {
	switch s {
	case MessageUnactivated:
		return next == MessageActivated || next == MessageRejected
	case MessageActivated:
		return next == MessagePermanent
	}
	return false
}

// Message is one entry in the session's ordered interaction log.
// Insertion order is chronological order; the log is append-only within a
// video session and cleared when the bound video changes.
type Message struct {
	ID        string       `json:"id" msgpack:"id"`
	Type      MessageType  `json:"type" msgpack:"type"`
	State     MessageState `json:"state" msgpack:"state"`
	Timestamp time.Time    `json:"timestamp" msgpack:"timestamp"`

	// AgentType is set on agent-prompt messages.
	AgentType AgentType `json:"agent_type,omitempty" msgpack:"agent_type,omitempty"`
	// VideoTime is the playback position the message was created at.
	VideoTime float64 `json:"video_time" msgpack:"video_time"`
	// Text is the display text for text-bearing message types.
	Text string `json:"text,omitempty" msgpack:"text,omitempty"`

	// Quiz is set on quiz-question and quiz-result messages.
	Quiz *QuizPayload `json:"quiz,omitempty" msgpack:"quiz,omitempty"`
	// Reflection is set on reflection-options messages.
	Reflection *ReflectionPayload `json:"reflection,omitempty" msgpack:"reflection,omitempty"`
	// MediaRef is the storage reference on audio messages.
	MediaRef string `json:"media_ref,omitempty" msgpack:"media_ref,omitempty"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Quiz != nil {
		out.Quiz = m.Quiz.Clone()
	}
	if m.Reflection != nil {
		r := *m.Reflection
		r.Options = append([]string(nil), m.Reflection.Options...)
		out.Reflection = &r
	}
	return out
}

// QuizQuestion is a single generated question.
type QuizQuestion struct {
	Prompt string `json:"prompt" msgpack:"prompt"`
	// Options are the answer choices shown to the learner.
	Options []string `json:"options" msgpack:"options"`
	// Correct is the index of the correct option.
	Correct int `json:"correct" msgpack:"correct"`
	// Explanation is shown after the quiz completes.
	Explanation string `json:"explanation,omitempty" msgpack:"explanation,omitempty"`
}

// QuizPayload is the embedded question/answer state of a quiz message.
type QuizPayload struct {
	Questions []QuizQuestion `json:"questions" msgpack:"questions"`
	// Answers holds the selected option index per question, -1 when
	// unanswered. Always the same length as Questions.
	Answers []int `json:"answers" msgpack:"answers"`
	// Score is the count of correct answers, recomputed on every answer.
	Score int `json:"score" msgpack:"score"`
}

// NewQuizPayload builds an unanswered payload for the given questions.
func NewQuizPayload(questions []QuizQuestion) *QuizPayload {
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = -1
	}
	return &QuizPayload{Questions: questions, Answers: answers}
}

// Clone returns a deep copy of the payload.
func (p *QuizPayload) Clone() *QuizPayload {
	out := &QuizPayload{Score: p.Score}
	out.Answers = append([]int(nil), p.Answers...)
	out.Questions = make([]QuizQuestion, len(p.Questions))
	for i, q := range p.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// Rescore recomputes Score by comparing answers to correct indexes.
func (p *QuizPayload) Rescore() {
	score := 0
	for i, q := range p.Questions {
		if i < len(p.Answers) && p.Answers[i] == q.Correct {
			score++
		}
	}
	p.Score = score
}

// Answered reports whether every question has a selected option.
func (p *QuizPayload) Answered() bool {
	for _, a := range p.Answers {
		if a < 0 {
			return false
		}
	}
	return true
}

// ReflectionPayload lists the capture modes offered for a reflection.
type ReflectionPayload struct {
	Prompt  string   `json:"prompt" msgpack:"prompt"`
	Options []string `json:"options" msgpack:"options"`
}
