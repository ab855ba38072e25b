package scoring

import (
	"math"
	"testing"

	"github.com/peerbench/peerbench/internal/task"
)

func TestForType(t *testing.T) {
	t.Parallel()

	if scorer, err := ForType(task.TypeMultipleChoice); err != nil || scorer != nil {
		t.Fatalf("multiple-choice uses the default path, got scorer=%v err=%v", scorer, err)
	}
	if scorer, err := ForType(task.TypeOrderSentences); err != nil || scorer == nil {
		t.Fatalf("order-sentences needs a scorer, got scorer=%v err=%v", scorer, err)
	}
	if scorer, err := ForType(task.TypeTypo); err != nil || scorer == nil {
		t.Fatalf("typo needs a scorer, got scorer=%v err=%v", scorer, err)
	}
	if _, err := ForType("haiku"); err == nil {
		t.Fatal("unknown prompt type must be rejected")
	}
}

func orderedResponse(answer, data string) task.PromptResponse {
	return task.PromptResponse{
		Prompt: &task.Prompt{Type: task.TypeOrderSentences, Answer: answer},
		Data:   &data,
	}
}

func TestOrderSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		answer string
		data   string
		want   float64
	}{
		{name: "all in place", answer: "one\ntwo\nthree", data: "one\ntwo\nthree", want: 1},
		{name: "one swapped pair", answer: "one\ntwo\nthree", data: "two\none\nthree", want: 1.0 / 3.0},
		{name: "response too short", answer: "one\ntwo\nthree", data: "one", want: 1.0 / 3.0},
		{name: "whitespace ignored", answer: "one\ntwo", data: "  one  \n two ", want: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := OrderSentences(orderedResponse(tt.answer, tt.data))
			if err != nil {
				t.Fatalf("OrderSentences: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextSimilarity(t *testing.T) {
	t.Parallel()

	similarityResponse := func(answer, data string) task.PromptResponse {
		return task.PromptResponse{
			Prompt: &task.Prompt{Type: task.TypeTypo, Answer: answer},
			Data:   &data,
		}
	}

	tests := []struct {
		name   string
		answer string
		data   string
		want   float64
	}{
		{name: "identical", answer: "the quick brown fox", data: "the quick brown fox", want: 1},
		{name: "one edit", answer: "kitten", data: "sitten", want: 1 - 1.0/6.0},
		{name: "disjoint", answer: "abc", data: "xyz", want: 0},
		{name: "both empty", answer: "", data: "  ", want: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := TextSimilarity(similarityResponse(tt.answer, tt.data))
			if err != nil {
				t.Fatalf("TextSimilarity: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("similarity = %v, want %v", got, tt.want)
			}
		})
	}
}
