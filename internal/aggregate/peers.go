package aggregate

import (
	"math"
	"sort"
)

// PeerStatistics summarizes one model's historical run scores.
type PeerStatistics struct {
	AvgScore float64 `json:"avgScore"`
	StdDev   float64 `json:"stdDev"`
}

// PeerAggregation places one model's runs in context against its peers:
// the per-run average scores plus their mean and population standard
// deviation (divide by n, not n-1).
type PeerAggregation struct {
	ModelID    string         `json:"modelId"`
	Runs       []float64      `json:"runs"`
	Statistics PeerStatistics `json:"statistics"`
}

// AggregatePeers computes the peer distribution for every model from its
// historical per-run average scores. Models with no runs are skipped.
// Output is ordered by model ID for stable rendering.
func AggregatePeers(runsByModel map[string][]float64) []PeerAggregation {
	modelIDs := make([]string, 0, len(runsByModel))
	for modelID := range runsByModel {
		modelIDs = append(modelIDs, modelID)
	}
	sort.Strings(modelIDs)

	out := make([]PeerAggregation, 0, len(modelIDs))
	for _, modelID := range modelIDs {
		runs := runsByModel[modelID]
		if len(runs) == 0 {
			continue
		}
		out = append(out, PeerAggregation{
			ModelID:    modelID,
			Runs:       append([]float64(nil), runs...),
			Statistics: peerStatistics(runs),
		})
	}
	return out
}

func peerStatistics(runs []float64) PeerStatistics {
	n := float64(len(runs))
	var sum float64
	for _, r := range runs {
		sum += r
	}
	mean := sum / n

	var varianceSum float64
	for _, r := range runs {
		d := r - mean
		varianceSum += d * d
	}
	return PeerStatistics{
		AvgScore: mean,
		StdDev:   math.Sqrt(varianceSum / n),
	}
}

// Merge folds one new run score into the distribution without re-scanning
// the historical runs. The updated mean and stddev are numerically
// identical to a full recompute over Runs plus the new sample.
func (p *PeerAggregation) Merge(score float64) {
	n := float64(len(p.Runs))
	if n == 0 {
		p.Runs = []float64{score}
		p.Statistics = PeerStatistics{AvgScore: score, StdDev: 0}
		return
	}

	oldMean := p.Statistics.AvgScore
	oldVar := p.Statistics.StdDev * p.Statistics.StdDev

	// Second moment update: E'[x^2] = (n*(var+mean^2) + x^2) / (n+1).
	newMean := (n*oldMean + score) / (n + 1)
	secondMoment := (n*(oldVar+oldMean*oldMean) + score*score) / (n + 1)
	variance := secondMoment - newMean*newMean
	if variance < 0 {
		// Floating point cancellation can leave a tiny negative residue.
		variance = 0
	}

	p.Runs = append(p.Runs, score)
	p.Statistics = PeerStatistics{
		AvgScore: newMean,
		StdDev:   math.Sqrt(variance),
	}
}
