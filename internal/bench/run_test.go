package bench

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/peerbench/peerbench/internal/providers"
	"github.com/peerbench/peerbench/internal/task"
)

type stubProvider struct {
	name string
	// failOn makes Forward fail for prompts containing this substring.
	failOn string
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) ParseModelIdentifier(modelID string) (providers.Model, error) {
	owner, name, found := strings.Cut(modelID, "/")
	if !found {
		return providers.Model{}, fmt.Errorf("bad model id %q", modelID)
	}
	return providers.Model{ID: modelID, Name: name, Owner: owner, Host: s.name}, nil
}

func (s stubProvider) Forward(ctx context.Context, prompt, modelID string) (*providers.ForwardResult, error) {
	if s.failOn != "" && strings.Contains(prompt, s.failOn) {
		return nil, errors.New("stub failure")
	}
	now := time.Now()
	return &providers.ForwardResult{
		Response:    "A",
		StartedAt:   now,
		CompletedAt: now.Add(5 * time.Millisecond),
	}, nil
}

func benchTask(questions ...string) *task.Task {
	prompts := make([]task.Prompt, 0, len(questions))
	for i, q := range questions {
		prompts = append(prompts, task.Prompt{
			DID:        fmt.Sprintf("prompt-%d", i),
			Question:   task.NewHashedText(q),
			FullPrompt: task.NewHashedText(q + "\n\nA: yes\nB: no\n"),
			Type:       task.TypeMultipleChoice,
			AnswerKey:  "A",
		})
	}
	return &task.Task{
		DID:      task.TaskDIDMultipleChoice,
		Prompts:  prompts,
		CID:      "bafytask",
		SHA256:   "deadbeef",
		FileName: "exam.json",
	}
}

func TestRunCollectsAllTargets(t *testing.T) {
	t.Parallel()

	reg, err := providers.NewRegistry(stubProvider{name: "stub"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	targets := []Target{
		{Provider: "stub", ModelID: "owner/model-a"},
		{Provider: "stub", ModelID: "owner/model-b"},
	}
	responses, err := Run(context.Background(), reg, benchTask("Q1?", "Q2?"), targets, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 2 prompts x 2 targets", len(responses))
	}

	runID := responses[0].RunID
	byModel := make(map[string]int)
	for _, r := range responses {
		if r.RunID != runID {
			t.Fatalf("run ids differ within one batch: %q vs %q", r.RunID, runID)
		}
		if r.Data == nil || *r.Data != "A" {
			t.Fatalf("response data = %v", r.Data)
		}
		if r.FinishedAt == nil || *r.FinishedAt < r.StartedAt {
			t.Fatalf("timing inconsistent: started %d finished %v", r.StartedAt, r.FinishedAt)
		}
		if r.SourceTaskFile.CID != "bafytask" || r.SourceTaskFile.FileName != "exam.json" {
			t.Fatalf("source file provenance = %+v", r.SourceTaskFile)
		}
		byModel[r.ModelID]++
	}
	if byModel["owner/model-a"] != 2 || byModel["owner/model-b"] != 2 {
		t.Fatalf("responses per model = %v", byModel)
	}
}

func TestRunFailureBecomesEmptyResponse(t *testing.T) {
	t.Parallel()

	reg, err := providers.NewRegistry(stubProvider{name: "stub", failOn: "Q2"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	responses, err := Run(context.Background(), reg, benchTask("Q1?", "Q2?"), []Target{{Provider: "stub", ModelID: "owner/model"}}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	var failed *task.PromptResponse
	for i := range responses {
		if responses[i].Data == nil {
			failed = &responses[i]
		}
	}
	if failed == nil {
		t.Fatal("expected one failed response with absent data")
	}
	if failed.FinishedAt != nil || failed.CID != nil {
		t.Fatal("failed response must not carry completion fields")
	}
	if failed.StartedAt == 0 {
		t.Fatal("failed response still records a start time")
	}
}

func TestRunMaxPrompts(t *testing.T) {
	t.Parallel()

	reg, err := providers.NewRegistry(stubProvider{name: "stub"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	responses, err := Run(context.Background(), reg, benchTask("Q1?", "Q2?", "Q3?"), []Target{{Provider: "stub", ModelID: "owner/model"}}, Options{MaxPrompts: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want MaxPrompts", len(responses))
	}
}

func TestRunUnknownTarget(t *testing.T) {
	t.Parallel()

	reg, err := providers.NewRegistry(stubProvider{name: "stub"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, err := Run(context.Background(), reg, benchTask("Q1?"), []Target{{Provider: "ghost", ModelID: "owner/model"}}, Options{}); err == nil {
		t.Fatal("expected unknown provider to fail the run upfront")
	}
	if _, err := Run(context.Background(), reg, benchTask("Q1?"), []Target{{Provider: "stub", ModelID: "malformed"}}, Options{}); err == nil {
		t.Fatal("expected malformed model id to fail the run upfront")
	}
}
