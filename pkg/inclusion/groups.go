package inclusion

import (
	log "github.com/sirupsen/logrus"

	"scriptscore/pkg/screenplay"
)

// Group is a caller-defined set of speaker names.
type Group struct {
	Label string   `yaml:"label" json:"label"`
	Names []string `yaml:"names" json:"names"`
}

// Groups pairs the reference group A with the compared group B.
type Groups struct {
	A Group `yaml:"a" json:"a"`
	B Group `yaml:"b" json:"b"`
}

// WithDefaultLabels fills empty labels with "Group A" and "Group B".
func (g Groups) WithDefaultLabels() Groups {
	if g.A.Label == "" {
		g.A.Label = "Group A"
	}
	if g.B.Label == "" {
		g.B.Label = "Group B"
	}
	return g
}

// Assignment is the partition of ranked speakers into the two groups. Both
// lists keep the rank order of the candidates.
type Assignment struct {
	A []screenplay.RankedSpeaker `json:"a"`
	B []screenplay.RankedSpeaker `json:"b"`
}

// Metrics computes the inclusion metrics of the assignment.
func (a Assignment) Metrics() Metrics {
	return Compute(a.A, a.B)
}

// Assign matches each candidate against the normalized names of groupA and
// then groupB. A candidate listed in both groups lands in A; one listed in
// neither is dropped.
func Assign(normalizer *screenplay.Normalizer, candidates []screenplay.RankedSpeaker, groupA, groupB []string) Assignment {
	inA := normalizedSet(normalizer, groupA)
	inB := normalizedSet(normalizer, groupB)

	var out Assignment
	dropped := 0
	for _, c := range candidates {
		name, ok := normalizer.Normalize(c.Name)
		if !ok {
			dropped++
			continue
		}
		matched := screenplay.RankedSpeaker{Name: name, Count: c.Count}
		switch {
		case inA[name]:
			out.A = append(out.A, matched)
		case inB[name]:
			out.B = append(out.B, matched)
		default:
			dropped++
		}
	}

	log.Debugf("Assigned %d candidates: %d to group A, %d to group B, %d unmatched",
		len(candidates), len(out.A), len(out.B), dropped)
	return out
}

func normalizedSet(normalizer *screenplay.Normalizer, names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, raw := range names {
		if name, ok := normalizer.Normalize(raw); ok {
			set[name] = true
		}
	}
	return set
}
