package types

// ActionType discriminates dispatched actions. One constant per variant of
// the closed Action union below.
type ActionType string

const (
	// Video transport family.
	ActionVideoPlayed      ActionType = "video_played"
	ActionVideoPaused      ActionType = "video_manually_paused"
	ActionVideoTimeUpdated ActionType = "video_time_updated"
	ActionVideoSeek        ActionType = "video_seek"

	// Agent lifecycle family.
	ActionAgentButtonClicked ActionType = "agent_button_clicked"
	ActionActivateAgent      ActionType = "activate_agent"
	ActionRejectAgent        ActionType = "reject_agent"

	// Generation family. Enqueued internally when a quiz or hint agent
	// is accepted, never dispatched by the hosting UI.
	ActionGenerateContent ActionType = "generate_content"

	// Segment family.
	ActionSetInPoint    ActionType = "set_in_point"
	ActionSetOutPoint   ActionType = "set_out_point"
	ActionUpdateSegment ActionType = "update_segment"
	ActionClearSegment  ActionType = "clear_segment"
	ActionSendSegment   ActionType = "send_segment"

	// Quiz family.
	ActionQuizAnswer   ActionType = "quiz_answer"
	ActionQuizComplete ActionType = "quiz_complete"

	// Reflection/recording family.
	ActionStartRecording   ActionType = "start_recording"
	ActionPauseRecording   ActionType = "pause_recording"
	ActionResumeRecording  ActionType = "resume_recording"
	ActionStopRecording    ActionType = "stop_recording"
	ActionReflectionSubmit ActionType = "reflection_submit"

	// Session family. ResetSession is enqueued when the bound video
	// changes so the reset runs under the same ordering guarantees as
	// every other command.
	ActionResetSession ActionType = "reset_session"
)

// Action is a dispatched intent. The set of implementations is closed: one
// struct per action type, each carrying its own typed payload.
type Action interface {
	// ActionType returns the variant discriminant.
	ActionType() ActionType
}

// VideoPlayed reports that playback started (user or programmatic).
type VideoPlayed struct{}

// VideoPaused reports that the user manually paused playback.
type VideoPaused struct{}

// VideoTimeUpdated reports a playback progress tick.
type VideoTimeUpdated struct {
	Time float64
	// Duration is the total video length, 0 when unknown.
	Duration float64
}

// VideoSeek requests a seek to an absolute position.
type VideoSeek struct {
	Time float64
}

// AgentButtonClicked triggers an agent: pause playback, then offer an
// accept/decline prompt of the given type.
type AgentButtonClicked struct {
	Agent AgentType
}

// ActivateAgent accepts a pending agent prompt.
type ActivateAgent struct {
	MessageID string
}

// RejectAgent declines a pending agent prompt and resumes playback.
type RejectAgent struct {
	MessageID string
}

// GenerateContent runs the AI generation for an accepted agent flow.
type GenerateContent struct {
	// MessageID is the accepted agent-prompt message the generation
	// belongs to. The handler discards its result if this message is no
	// longer the active system message by the time chunks arrive.
	MessageID string
	Agent     AgentType
}

// SetInPoint sets the segment start to the given position.
type SetInPoint struct {
	Time float64
}

// SetOutPoint sets the segment end to the given position.
type SetOutPoint struct {
	Time float64
}

// UpdateSegment sets both points in one command. Preferred over two
// separately timed single-point dispatches, which can race.
type UpdateSegment struct {
	InPoint  float64
	OutPoint float64
}

// ClearSegment discards the current selection.
type ClearSegment struct{}

// SendSegment shares a completed segment into the message log.
type SendSegment struct{}

// QuizAnswer records a selected option against the active quiz message.
type QuizAnswer struct {
	MessageID     string
	QuestionIndex int
	Selected      int
}

// QuizComplete finalizes the score and persists the result.
type QuizComplete struct {
	MessageID string
}

// StartRecording begins reflection capture.
type StartRecording struct{}

// PauseRecording pauses an in-progress capture.
type PauseRecording struct{}

// ResumeRecording resumes a paused capture.
type ResumeRecording struct{}

// StopRecording ends capture. The captured blob is retained in memory
// until a submit succeeds.
type StopRecording struct{}

// ReflectionSubmit uploads the captured reflection and persists it.
type ReflectionSubmit struct {
	// Text is an optional typed reflection accompanying the recording.
	Text string
}

// ResetSession rebinds the session to a new video, clearing messages,
// segment, agent, AI, and recording state.
type ResetSession struct {
	VideoID  string
	CourseID string
}

func (VideoPlayed) ActionType() ActionType        { return ActionVideoPlayed }
func (VideoPaused) ActionType() ActionType        { return ActionVideoPaused }
func (VideoTimeUpdated) ActionType() ActionType   { return ActionVideoTimeUpdated }
func (VideoSeek) ActionType() ActionType          { return ActionVideoSeek }
func (AgentButtonClicked) ActionType() ActionType { return ActionAgentButtonClicked }
func (ActivateAgent) ActionType() ActionType      { return ActionActivateAgent }
func (RejectAgent) ActionType() ActionType        { return ActionRejectAgent }
func (GenerateContent) ActionType() ActionType    { return ActionGenerateContent }
func (SetInPoint) ActionType() ActionType         { return ActionSetInPoint }
func (SetOutPoint) ActionType() ActionType        { return ActionSetOutPoint }
func (UpdateSegment) ActionType() ActionType      { return ActionUpdateSegment }
func (ClearSegment) ActionType() ActionType       { return ActionClearSegment }
func (SendSegment) ActionType() ActionType        { return ActionSendSegment }
func (QuizAnswer) ActionType() ActionType         { return ActionQuizAnswer }
func (QuizComplete) ActionType() ActionType       { return ActionQuizComplete }
func (StartRecording) ActionType() ActionType     { return ActionStartRecording }
func (PauseRecording) ActionType() ActionType     { return ActionPauseRecording }
func (ResumeRecording) ActionType() ActionType    { return ActionResumeRecording }
func (StopRecording) ActionType() ActionType      { return ActionStopRecording }
func (ReflectionSubmit) ActionType() ActionType   { return ActionReflectionSubmit }
func (ResetSession) ActionType() ActionType       { return ActionResetSession }

// ActionFamily groups action types for retry tuning.
type ActionFamily string

const (
	// FamilyMutation covers pure snapshot mutations with no external calls.
	FamilyMutation ActionFamily = "mutation"
	// FamilyVideoControl covers commands that drive the playback element,
	// which may be transiently unavailable.
	FamilyVideoControl ActionFamily = "video_control"
	// FamilyCollaborator covers commands that call the generation,
	// persistence, recording, or storage collaborators.
	FamilyCollaborator ActionFamily = "collaborator"
)

// Family returns the retry family of an action type.
func (t ActionType) Family() ActionFamily {
	switch t {
	case ActionVideoSeek, ActionAgentButtonClicked, ActionRejectAgent:
		return FamilyVideoControl
	case ActionGenerateContent, ActionQuizComplete, ActionReflectionSubmit,
		ActionSendSegment, ActionStartRecording, ActionPauseRecording,
		ActionResumeRecording, ActionStopRecording:
		return FamilyCollaborator
	}
	return FamilyMutation
}
