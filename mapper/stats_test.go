package mapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/packster/packster"
)

func results() []packster.MappingResult {
	return []packster.MappingResult{
		{
			Source:    packster.NormalizedItem{PM: packster.APT, Name: "git"},
			Candidate: &packster.Candidate{Namespace: packster.Formula, Name: "git", Confidence: 0.95},
			Decision:  packster.Auto,
		},
		{
			Source:    packster.NormalizedItem{PM: packster.APT, Name: "docker.io"},
			Candidate: &packster.Candidate{Namespace: packster.Cask, Name: "docker", Confidence: 0.85},
			Decision:  packster.Verify,
		},
		{
			Source:    packster.NormalizedItem{PM: packster.APT, Name: "libfoo"},
			Candidate: &packster.Candidate{Namespace: packster.Formula, Name: "foo", Confidence: 0.3},
			Decision:  packster.Manual,
		},
		{
			Source:   packster.NormalizedItem{PM: packster.APT, Name: "mystery"},
			Decision: packster.Manual,
		},
	}
}

func TestComputeStatistics(t *testing.T) {
	got := ComputeStatistics(results())
	want := Statistics{
		Total: 4,
		ByDecision: map[packster.Decision]int{
			packster.Auto:    1,
			packster.Verify:  1,
			packster.Manual:  2,
			packster.Skipped: 0,
		},
		ByNamespace: map[string]int{"brew": 2, "cask": 1},
		Confidence:  ConfidenceBands{High: 1, Medium: 1, Low: 1},
	}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}

	sum := 0
	for _, n := range got.ByDecision {
		sum += n
	}
	if sum != got.Total {
		t.Errorf("decision counts sum to %d, want %d", sum, got.Total)
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	got := ComputeStatistics(nil)
	if got.Total != 0 {
		t.Errorf("total: got: %d, want: 0", got.Total)
	}
	if len(got.ByDecision) != 4 {
		t.Errorf("expected all decision keys present, got: %v", got.ByDecision)
	}
	for d, n := range got.ByDecision {
		if n != 0 {
			t.Errorf("%v: got: %d, want: 0", d, n)
		}
	}
}

func TestFilter(t *testing.T) {
	rs := results()

	t.Run("ByDecision", func(t *testing.T) {
		got := Filter(rs, []packster.Decision{packster.Auto, packster.Verify}, 0)
		if len(got) != 2 {
			t.Errorf("got %d results, want 2", len(got))
		}
	})
	t.Run("ByConfidence", func(t *testing.T) {
		got := Filter(rs, nil, 0.6)
		// libfoo is filtered out; the candidate-less result passes.
		if len(got) != 3 {
			t.Errorf("got %d results, want 3", len(got))
		}
	})
	t.Run("All", func(t *testing.T) {
		got := Filter(rs, nil, 0)
		if len(got) != len(rs) {
			t.Errorf("got %d results, want %d", len(got), len(rs))
		}
	})
}
