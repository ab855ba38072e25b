package scoring

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/peerbench/peerbench/internal/task"
)

// ForType returns the scorer strategy for a non-multiple-choice prompt type,
// or nil for multiple-choice (which uses the default scoring path).
func ForType(promptType string) (ScorerFunc, error) {
	switch promptType {
	case task.TypeMultipleChoice:
		return nil, nil
	case task.TypeOrderSentences:
		return OrderSentences, nil
	case task.TypeTextReplacement, task.TypeTypo:
		return TextSimilarity, nil
	default:
		return nil, fmt.Errorf("no scorer for prompt type %q", promptType)
	}
}

// OrderSentences scores sentence-ordering prompts by positional equality:
// the fraction of lines that appear at the expected position.
func OrderSentences(response task.PromptResponse) (float64, error) {
	if response.Data == nil || response.Prompt == nil {
		return 0, fmt.Errorf("order-sentences scorer needs response data and prompt")
	}
	want := splitLines(response.Prompt.Answer)
	got := splitLines(*response.Data)
	if len(want) == 0 {
		return 0, fmt.Errorf("prompt has no expected sentence order")
	}

	matched := 0
	for i, line := range want {
		if i < len(got) && strings.TrimSpace(got[i]) == strings.TrimSpace(line) {
			matched++
		}
	}
	return float64(matched) / float64(len(want)), nil
}

// TextSimilarity scores text-replacement and typo-correction prompts with a
// normalized edit-distance similarity in [0,1].
func TextSimilarity(response task.PromptResponse) (float64, error) {
	if response.Data == nil || response.Prompt == nil {
		return 0, fmt.Errorf("similarity scorer needs response data and prompt")
	}
	want := strings.TrimSpace(response.Prompt.Answer)
	got := strings.TrimSpace(*response.Data)
	if want == "" && got == "" {
		return 1, nil
	}

	distance := levenshtein.ComputeDistance(want, got)
	longest := max(len([]rune(want)), len([]rune(got)))
	if longest == 0 {
		return 1, nil
	}
	similarity := 1 - float64(distance)/float64(longest)
	if similarity < 0 {
		similarity = 0
	}
	return similarity, nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
