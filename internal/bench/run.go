// Package bench forwards the prompts of a normalized task to a set of
// (provider, model) pairs and collects the responses. Models run
// concurrently; prompts within one model run sequentially so latencies stay
// attributable to single requests.
package bench

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peerbench/peerbench/internal/digest"
	"github.com/peerbench/peerbench/internal/logging"
	"github.com/peerbench/peerbench/internal/providers"
	"github.com/peerbench/peerbench/internal/task"
	"github.com/peerbench/peerbench/internal/util"
)

// Target names one model behind one registered provider.
type Target struct {
	Provider string
	ModelID  string
}

// Options controls a run.
type Options struct {
	// MaxPrompts limits how many prompts of the task are forwarded;
	// zero means all.
	MaxPrompts int
}

// Run forwards every prompt of t to each target and returns all responses
// under one fresh run ID. A provider failure becomes a response with absent
// data; it never aborts the batch. Responses arrive in no particular order
// across targets.
func Run(ctx context.Context, reg *providers.Registry, t *task.Task, targets []Target, opts Options) ([]task.PromptResponse, error) {
	runID := uuid.Must(uuid.NewV7()).String()
	prompts := t.Prompts
	if opts.MaxPrompts > 0 && opts.MaxPrompts < len(prompts) {
		prompts = prompts[:opts.MaxPrompts]
	}

	type runner struct {
		provider providers.Provider
		model    providers.Model
	}
	runners := make([]runner, 0, len(targets))
	for _, target := range targets {
		provider, err := reg.Get(target.Provider)
		if err != nil {
			return nil, err
		}
		model, err := provider.ParseModelIdentifier(target.ModelID)
		if err != nil {
			return nil, err
		}
		runners = append(runners, runner{provider: provider, model: model})
	}

	var (
		mu        sync.Mutex
		responses []task.PromptResponse
		wg        sync.WaitGroup
	)
	for _, r := range runners {
		wg.Add(1)
		go func(r runner) {
			defer wg.Done()
			for i := range prompts {
				response := forwardOne(ctx, r.provider, r.model, t, &prompts[i], runID)
				mu.Lock()
				responses = append(responses, response)
				mu.Unlock()
			}
		}(r)
	}
	wg.Wait()

	return responses, nil
}

func forwardOne(ctx context.Context, provider providers.Provider, model providers.Model, t *task.Task, prompt *task.Prompt, runID string) task.PromptResponse {
	response := task.PromptResponse{
		Provider:   provider.Name(),
		ModelID:    model.ID,
		ModelName:  model.Name,
		ModelOwner: model.Owner,
		ModelHost:  model.Host,
		TaskID:     t.DID,
		Prompt:     prompt,
		RunID:      runID,
		SourceTaskFile: task.SourceFileRef{
			CID:      t.CID,
			SHA256:   t.SHA256,
			FileName: t.FileName,
		},
	}

	result, err := provider.Forward(ctx, prompt.FullPrompt.Data, model.ID)
	if err != nil {
		logging.L().WithError(err).Warnf("prompt %s failed for %s/%s", prompt.DID, provider.Name(), model.ID)
		response.StartedAt = time.Now().UnixMilli()
		return response
	}

	logging.L().Debugf("prompt %s answered by %s/%s: %s",
		prompt.DID, provider.Name(), model.ID, util.Snippet(result.Response, 80))

	d := digest.SumString(result.Response)
	finishedAt := result.CompletedAt.UnixMilli()
	response.Data = &result.Response
	response.CID = &d.CID
	response.SHA256 = &d.SHA256
	response.StartedAt = result.StartedAt.UnixMilli()
	response.FinishedAt = &finishedAt
	return response
}
