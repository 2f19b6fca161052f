package genai

import (
	"encoding/json"
	"fmt"

	"github.com/pithecene-io/cue/types"
)

// Default responses served when the generation endpoint is unreachable.
// The session shows these instead of an empty state; they are not
// persisted as quiz/reflection facts until the learner interacts.

const defaultHint = "Focus on the idea the narrator just introduced and " +
	"try restating it in your own words before continuing."

// defaultQuiz is the fallback quiz, kept deliberately generic so it is
// answerable without transcript context.
var defaultQuiz = []types.QuizQuestion{
	{
		Prompt: "What was the main topic of the section you just watched?",
		Options: []string{
			"A new concept introduced by the instructor",
			"A recap of earlier material",
			"An unrelated aside",
			"Administrative course details",
		},
		Correct:     0,
		Explanation: "Generated offline because the quiz service was unavailable.",
	},
}

// DefaultContent returns the locally defined fallback content for the
// given agent type. Quiz content is returned in the same JSON wire shape
// the endpoint produces, so the parsing path stays uniform.
func DefaultContent(agent types.AgentType) string {
	switch agent {
	case types.AgentQuiz:
		raw, err := json.Marshal(quizDoc{Questions: defaultQuiz})
		if err != nil {
			// Unreachable: the fallback is a static literal.
			panic(fmt.Sprintf("genai: marshal default quiz: %v", err))
		}
		return string(raw)
	default:
		return defaultHint
	}
}

// quizDoc is the JSON document shape for generated quizzes.
type quizDoc struct {
	Questions []types.QuizQuestion `json:"questions"`
}

// ParseQuiz decodes generated quiz content. Falls back to the default
// questions when the content is not valid quiz JSON, so a malformed
// generation never surfaces as an empty quiz.
func ParseQuiz(content string) []types.QuizQuestion {
	var doc quizDoc
	if err := json.Unmarshal([]byte(content), &doc); err == nil && len(doc.Questions) > 0 {
		valid := true
		for _, q := range doc.Questions {
			if q.Prompt == "" || len(q.Options) < 2 || q.Correct < 0 || q.Correct >= len(q.Options) {
				valid = false
				break
			}
		}
		if valid {
			return doc.Questions
		}
	}
	return append([]types.QuizQuestion(nil), defaultQuiz...)
}
