package mapper

import (
	"github.com/packster/packster"
)

// ConfidenceBands buckets candidate confidences for reporting.
type ConfidenceBands struct {
	High   int `json:"high"`   // ≥ 0.9
	Medium int `json:"medium"` // 0.6–0.89
	Low    int `json:"low"`    // < 0.6
}

// Statistics is an aggregate summary over mapping results.
type Statistics struct {
	Total       int                       `json:"total"`
	ByDecision  map[packster.Decision]int `json:"by_decision"`
	ByNamespace map[string]int            `json:"by_target_pm"`
	Confidence  ConfidenceBands           `json:"by_confidence"`
}

// ComputeStatistics is a pure reduction over the result list.
//
// Every decision key is present even when zero, and the decision counts
// always sum to Total.
func ComputeStatistics(results []packster.MappingResult) Statistics {
	s := Statistics{
		Total: len(results),
		ByDecision: map[packster.Decision]int{
			packster.Auto:    0,
			packster.Verify:  0,
			packster.Manual:  0,
			packster.Skipped: 0,
		},
		ByNamespace: make(map[string]int),
	}
	for _, r := range results {
		s.ByDecision[r.Decision]++
		if r.Candidate == nil {
			continue
		}
		s.ByNamespace[string(r.Candidate.Namespace)]++
		switch {
		case r.Candidate.Confidence >= 0.9:
			s.Confidence.High++
		case r.Candidate.Confidence >= 0.6:
			s.Confidence.Medium++
		default:
			s.Confidence.Low++
		}
	}
	return s
}

// Filter returns the results matching any of the wanted decisions (all
// when none are given) whose candidate confidence is at least min.
// Results without a candidate pass the confidence filter.
func Filter(results []packster.MappingResult, decisions []packster.Decision, min float64) []packster.MappingResult {
	var out []packster.MappingResult
	for _, r := range results {
		if len(decisions) > 0 {
			ok := false
			for _, d := range decisions {
				if r.Decision == d {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		if r.Candidate != nil && r.Candidate.Confidence < min {
			continue
		}
		out = append(out, r)
	}
	return out
}
