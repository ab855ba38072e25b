package aggregate

import (
	"math"
	"testing"
)

func TestAggregatePeersKnownDistribution(t *testing.T) {
	t.Parallel()

	out := AggregatePeers(map[string][]float64{
		"model-x": {0.5, 0.7, 0.9},
	})
	if len(out) != 1 {
		t.Fatalf("got %d aggregations, want 1", len(out))
	}

	stats := out[0].Statistics
	if math.Abs(stats.AvgScore-0.7) > 1e-9 {
		t.Fatalf("avgScore = %v, want 0.7", stats.AvgScore)
	}
	// Population stddev: sqrt((0.04 + 0 + 0.04) / 3).
	want := math.Sqrt(0.08 / 3)
	if math.Abs(stats.StdDev-want) > 1e-9 {
		t.Fatalf("stdDev = %v, want %v", stats.StdDev, want)
	}
	if math.Abs(stats.StdDev-0.1633) > 1e-4 {
		t.Fatalf("stdDev = %v, want ~0.1633", stats.StdDev)
	}
}

func TestAggregatePeersOrderingAndSkips(t *testing.T) {
	t.Parallel()

	out := AggregatePeers(map[string][]float64{
		"zeta":  {0.3},
		"alpha": {0.8, 0.6},
		"empty": {},
	})
	if len(out) != 2 {
		t.Fatalf("got %d aggregations, want 2 (empty model skipped)", len(out))
	}
	if out[0].ModelID != "alpha" || out[1].ModelID != "zeta" {
		t.Fatalf("order = %q, %q; want alpha, zeta", out[0].ModelID, out[1].ModelID)
	}
}

func TestAggregatePeersCopiesRuns(t *testing.T) {
	t.Parallel()

	runs := []float64{0.5, 0.7}
	out := AggregatePeers(map[string][]float64{"m": runs})
	out[0].Runs[0] = 99
	if runs[0] != 0.5 {
		t.Fatal("aggregation must not alias the caller's slice")
	}
}

func TestMergeMatchesFullRecompute(t *testing.T) {
	t.Parallel()

	history := []float64{0.5, 0.7, 0.9, 0.62, 0.41}
	newScore := 0.83

	p := AggregatePeers(map[string][]float64{"m": history})[0]
	p.Merge(newScore)

	full := AggregatePeers(map[string][]float64{
		"m": append(append([]float64(nil), history...), newScore),
	})[0]

	if math.Abs(p.Statistics.AvgScore-full.Statistics.AvgScore) > 1e-12 {
		t.Fatalf("merged mean %v differs from recompute %v", p.Statistics.AvgScore, full.Statistics.AvgScore)
	}
	if math.Abs(p.Statistics.StdDev-full.Statistics.StdDev) > 1e-12 {
		t.Fatalf("merged stddev %v differs from recompute %v", p.Statistics.StdDev, full.Statistics.StdDev)
	}
	if len(p.Runs) != len(history)+1 {
		t.Fatalf("runs length = %d, want %d", len(p.Runs), len(history)+1)
	}
}

func TestMergeIntoEmptyDistribution(t *testing.T) {
	t.Parallel()

	var p PeerAggregation
	p.Merge(0.75)

	if p.Statistics.AvgScore != 0.75 || p.Statistics.StdDev != 0 {
		t.Fatalf("stats = %+v, want mean 0.75 stddev 0", p.Statistics)
	}
	if len(p.Runs) != 1 {
		t.Fatalf("runs = %v", p.Runs)
	}
}
