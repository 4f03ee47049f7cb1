package inclusion

import "scriptscore/pkg/screenplay"

// Metrics compares group B against group A. All values are percentages and
// may exceed 100 when group B out-talks or outnumbers group A.
type Metrics struct {
	// DialogueRatio is group B's total dialogue length over group A's.
	DialogueRatio float64 `json:"dialogue_ratio"`
	// HeadcountRatio is the number of group B speakers over group A's.
	HeadcountRatio float64 `json:"headcount_ratio"`
	// InclusionScore averages the two ratios.
	InclusionScore float64 `json:"inclusion_score"`
}

// Compute derives the metrics. A ratio whose group A denominator is zero is
// reported as 0.
func Compute(groupA, groupB []screenplay.RankedSpeaker) Metrics {
	var m Metrics
	if sumA := totalCount(groupA); sumA > 0 {
		m.DialogueRatio = float64(totalCount(groupB)) / float64(sumA) * 100
	}
	if len(groupA) > 0 {
		m.HeadcountRatio = float64(len(groupB)) / float64(len(groupA)) * 100
	}
	m.InclusionScore = (m.DialogueRatio + m.HeadcountRatio) / 2
	return m
}

func totalCount(speakers []screenplay.RankedSpeaker) int {
	total := 0
	for _, s := range speakers {
		total += s.Count
	}
	return total
}
