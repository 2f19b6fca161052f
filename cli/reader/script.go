package reader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pithecene-io/cue/types"
)

// Step is one parsed script action. Steps for activate/reject and quiz
// answers may omit the message id in the script; ResolveMessage marks them
// for resolution against the live session at dispatch time, since message
// ids are generated during replay and cannot be known when the script is
// written.
type Step struct {
	Action         types.Action
	ResolveMessage bool
}

// rawStep is the JSON shape of one script line.
type rawStep struct {
	Action    string  `json:"action"`
	Time      float64 `json:"time"`
	Duration  float64 `json:"duration"`
	Agent     string  `json:"agent"`
	MessageID string  `json:"message_id"`
	Question  int     `json:"question"`
	Selected  int     `json:"selected"`
	InPoint   float64 `json:"in_point"`
	OutPoint  float64 `json:"out_point"`
	Text      string  `json:"text"`
	VideoID   string  `json:"video_id"`
	CourseID  string  `json:"course_id"`
}

// ParseScript reads a JSON-lines action script. Blank lines and lines
// starting with # are skipped.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var raw rawStep
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineNo, err)
		}
		step, err := buildStep(raw)
		if err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineNo, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func buildStep(raw rawStep) (Step, error) {
	switch types.ActionType(raw.Action) {
	case types.ActionVideoPlayed:
		return Step{Action: types.VideoPlayed{}}, nil
	case types.ActionVideoPaused:
		return Step{Action: types.VideoPaused{}}, nil
	case types.ActionVideoTimeUpdated:
		return Step{Action: types.VideoTimeUpdated{Time: raw.Time, Duration: raw.Duration}}, nil
	case types.ActionVideoSeek:
		return Step{Action: types.VideoSeek{Time: raw.Time}}, nil
	case types.ActionAgentButtonClicked:
		return Step{Action: types.AgentButtonClicked{Agent: types.AgentType(raw.Agent)}}, nil
	case types.ActionActivateAgent:
		return Step{
			Action:         types.ActivateAgent{MessageID: raw.MessageID},
			ResolveMessage: raw.MessageID == "",
		}, nil
	case types.ActionRejectAgent:
		return Step{
			Action:         types.RejectAgent{MessageID: raw.MessageID},
			ResolveMessage: raw.MessageID == "",
		}, nil
	case types.ActionSetInPoint:
		return Step{Action: types.SetInPoint{Time: raw.Time}}, nil
	case types.ActionSetOutPoint:
		return Step{Action: types.SetOutPoint{Time: raw.Time}}, nil
	case types.ActionUpdateSegment:
		return Step{Action: types.UpdateSegment{InPoint: raw.InPoint, OutPoint: raw.OutPoint}}, nil
	case types.ActionClearSegment:
		return Step{Action: types.ClearSegment{}}, nil
	case types.ActionSendSegment:
		return Step{Action: types.SendSegment{}}, nil
	case types.ActionQuizAnswer:
		return Step{
			Action: types.QuizAnswer{
				MessageID:     raw.MessageID,
				QuestionIndex: raw.Question,
				Selected:      raw.Selected,
			},
			ResolveMessage: raw.MessageID == "",
		}, nil
	case types.ActionQuizComplete:
		return Step{
			Action:         types.QuizComplete{MessageID: raw.MessageID},
			ResolveMessage: raw.MessageID == "",
		}, nil
	case types.ActionStartRecording:
		return Step{Action: types.StartRecording{}}, nil
	case types.ActionPauseRecording:
		return Step{Action: types.PauseRecording{}}, nil
	case types.ActionResumeRecording:
		return Step{Action: types.ResumeRecording{}}, nil
	case types.ActionStopRecording:
		return Step{Action: types.StopRecording{}}, nil
	case types.ActionReflectionSubmit:
		return Step{Action: types.ReflectionSubmit{Text: raw.Text}}, nil
	case types.ActionResetSession:
		return Step{Action: types.ResetSession{VideoID: raw.VideoID, CourseID: raw.CourseID}}, nil
	default:
		return Step{}, fmt.Errorf("unknown action %q", raw.Action)
	}
}

// ResolveMessageID fills in the message id a resolve-marked step targets:
// the pending agent prompt for activation steps, the newest in-progress
// quiz for quiz steps. Returns false when no candidate exists.
func ResolveMessageID(step Step, snap types.Snapshot) (types.Action, bool) {
	switch a := step.Action.(type) {
	case types.ActivateAgent:
		if snap.Agent.UnactivatedID == "" {
			return nil, false
		}
		a.MessageID = snap.Agent.UnactivatedID
		return a, true
	case types.RejectAgent:
		if snap.Agent.UnactivatedID == "" {
			return nil, false
		}
		a.MessageID = snap.Agent.UnactivatedID
		return a, true
	case types.QuizAnswer:
		id, ok := latestQuiz(snap)
		if !ok {
			return nil, false
		}
		a.MessageID = id
		return a, true
	case types.QuizComplete:
		id, ok := latestQuiz(snap)
		if !ok {
			return nil, false
		}
		a.MessageID = id
		return a, true
	}
	return step.Action, true
}

func latestQuiz(snap types.Snapshot) (string, bool) {
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		m := snap.Messages[i]
		if m.Type == types.MessageQuizQuestion && m.State == types.MessageActivated {
			return m.ID, true
		}
	}
	return "", false
}
