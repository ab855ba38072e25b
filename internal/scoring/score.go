// Package scoring computes a numeric score for completed model responses.
// The default path handles multiple-choice prompts: an exact answer-key
// match, then an ordered list of answer-extraction patterns over the
// response text. Non-multiple-choice prompt types plug in their own
// ScorerFunc.
package scoring

import (
	"fmt"
	"regexp"

	"github.com/peerbench/peerbench/internal/task"
)

// ScorerFunc computes the score of one response. Implementations must be
// pure functions of the response.
type ScorerFunc func(task.PromptResponse) (float64, error)

// Models often restate options before concluding, so extraction uses the
// LAST match of each pattern. Patterns are tried in order; the first one
// with any match decides.
var answerPatterns = []struct {
	re         *regexp.Regexp
	groupIndex int
}{
	{regexp.MustCompile(`(?i)answer is\s+([A-Z])`), 1},
	{regexp.MustCompile(`(?i)answer is\s+\**([A-Z])\**`), 1},
	{regexp.MustCompile(`([A-Z]):.+`), 1},
}

// Score scores the given responses in order. A response with no data is a
// terminal "missing" outcome and keeps a nil score; a response that lost
// its originating prompt is a hard error because no answer key is
// available. When scorer is non-nil it is delegated to entirely.
func Score(responses []task.PromptResponse, scorer ScorerFunc) ([]task.PromptScore, error) {
	scores := make([]task.PromptScore, 0, len(responses))

	for _, response := range responses {
		if response.Data == nil {
			scores = append(scores, task.PromptScore{PromptResponse: response})
			continue
		}
		if response.Prompt == nil {
			return nil, fmt.Errorf("response %s/%s has no prompt attached", response.Provider, response.ModelID)
		}

		var value float64
		if scorer != nil {
			v, err := scorer(response)
			if err != nil {
				return nil, fmt.Errorf("custom scorer: %w", err)
			}
			value = v
		} else {
			value = scoreMultipleChoice(*response.Data, response.Prompt.AnswerKey)
		}

		score := value
		scores = append(scores, task.PromptScore{
			PromptResponse: response,
			Score:          &score,
		})
	}
	return scores, nil
}

func scoreMultipleChoice(data, answerKey string) float64 {
	if data == answerKey {
		return 1
	}
	if letter, ok := ExtractAnswer(data); ok && letter == answerKey {
		return 1
	}
	return 0
}

// ExtractAnswer applies the answer-extraction patterns to a response text
// and returns the extracted option letter, if any.
func ExtractAnswer(text string) (string, bool) {
	for _, pattern := range answerPatterns {
		matches := pattern.re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		last := matches[len(matches)-1]
		if pattern.groupIndex < len(last) {
			return last[pattern.groupIndex], true
		}
	}
	return "", false
}

// StripData returns the compact "no-data" variant of every score, for
// storage and transmission where the bulky payloads are not needed.
func StripData(scores []task.PromptScore) []task.PromptScore {
	out := make([]task.PromptScore, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.StripData())
	}
	return out
}
