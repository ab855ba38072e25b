// Package aggregate turns batches of scored responses into ranked,
// statistically comparable per-model results. Accumulation is commutative,
// so scores may arrive in any order and may span many files and runs.
package aggregate

import (
	"errors"
	"sort"

	"github.com/peerbench/peerbench/internal/task"
)

// ErrNothingToAggregate reports an empty score set. Surfaced instead of an
// empty table so callers can distinguish "no data" from "all zero".
var ErrNothingToAggregate = errors.New("no scores to aggregate")

// AggregatedResult is one row of the leaderboard: the accumulated
// performance of one (provider, model) pair, optionally keyed by task.
type AggregatedResult struct {
	Provider   string `json:"provider"`
	ModelID    string `json:"modelId"`
	ModelName  string `json:"modelName"`
	ModelOwner string `json:"modelOwner"`
	ModelHost  string `json:"modelHost"`
	TaskID     string `json:"taskId,omitempty"`

	TotalResponses int `json:"totalResponses"`

	// TotalLatency is milliseconds; AvgLatency keeps full precision.
	TotalLatency int64   `json:"totalLatency"`
	AvgLatency   float64 `json:"avgLatency"`

	// Score is the sum over all scored responses; AvgScore the mean over
	// TotalResponses. For binary scoring
	// missingAnswers + wrongAnswers + score == totalResponses.
	Score    float64 `json:"score"`
	AvgScore float64 `json:"avgScore"`

	MissingAnswers int `json:"missingAnswers"`
	WrongAnswers   int `json:"wrongAnswers"`

	RunIDs          StringSet `json:"runIds"`
	SourceFileCIDs  StringSet `json:"sourceFileCIDs"`
	SourceFileNames StringSet `json:"sourceFileNames"`
}

// Result is the outcome of one aggregation call.
type Result struct {
	Results []AggregatedResult `json:"results"`
	RunIDs  StringSet          `json:"runIds"`

	// TaskFiles maps source file CIDs to file names across all scores.
	TaskFiles map[string]string `json:"taskFiles"`
}

// Options controls the grouping key.
type Options struct {
	// ByTask additionally keys groups by task, producing the per-task view.
	ByTask bool
}

// Aggregate groups scores by (provider, model), or (provider, model, task)
// with ByTask set, and accumulates totals, averages and provenance sets.
// Input is not mutated. The result rows are sorted by the documented
// ranking order.
func Aggregate(scores []task.PromptScore, opts Options) (*Result, error) {
	if len(scores) == 0 {
		return nil, ErrNothingToAggregate
	}

	groups := make(map[string]*AggregatedResult)
	order := make([]string, 0)
	runIDs := NewStringSet()
	taskFiles := make(map[string]string)

	for _, score := range scores {
		key := score.Provider + ":" + score.ModelID
		if opts.ByTask {
			key += ":" + score.TaskID
		}

		row, ok := groups[key]
		if !ok {
			row = &AggregatedResult{
				Provider:        score.Provider,
				ModelID:         score.ModelID,
				ModelName:       score.ModelName,
				ModelOwner:      score.ModelOwner,
				ModelHost:       score.ModelHost,
				RunIDs:          NewStringSet(),
				SourceFileCIDs:  NewStringSet(),
				SourceFileNames: NewStringSet(),
			}
			if opts.ByTask {
				row.TaskID = score.TaskID
			}
			groups[key] = row
			order = append(order, key)
		}

		if score.RunID != "" {
			row.RunIDs.Add(score.RunID)
			runIDs.Add(score.RunID)
		}
		if score.SourceTaskFile.CID != "" {
			row.SourceFileCIDs.Add(score.SourceTaskFile.CID)
			taskFiles[score.SourceTaskFile.CID] = score.SourceTaskFile.FileName
		}
		if score.SourceTaskFile.FileName != "" {
			row.SourceFileNames.Add(score.SourceTaskFile.FileName)
		}

		if score.Score != nil && score.FinishedAt != nil {
			row.Score += *score.Score
			row.TotalLatency += *score.FinishedAt - score.StartedAt
		} else {
			row.MissingAnswers++
		}
		row.TotalResponses++
		if score.Score != nil && *score.Score == 0 {
			row.WrongAnswers++
		}
	}

	results := make([]AggregatedResult, 0, len(groups))
	for _, key := range order {
		row := groups[key]
		if row.TotalResponses == 0 {
			continue
		}
		row.AvgLatency = float64(row.TotalLatency) / float64(row.TotalResponses)
		row.AvgScore = row.Score / float64(row.TotalResponses)
		results = append(results, *row)
	}

	sortResults(results)
	return &Result{Results: results, RunIDs: runIDs, TaskFiles: taskFiles}, nil
}

// sortResults applies the ranking order: score descending, then avgScore
// ascending, then avgLatency ascending, then totalResponses descending.
// The ascending tie-breaks are deliberate and must not be changed to
// all-descending without product-owner confirmation.
func sortResults(results []AggregatedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.AvgScore != b.AvgScore {
			return a.AvgScore < b.AvgScore
		}
		if a.AvgLatency != b.AvgLatency {
			return a.AvgLatency < b.AvgLatency
		}
		return a.TotalResponses > b.TotalResponses
	})
}
