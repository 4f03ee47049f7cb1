package screenplay

import "sort"

// MaxRanked bounds the candidate list offered for group selection.
const MaxRanked = 50

// RankedSpeaker is a speaker and the dialogue length attributed to them.
type RankedSpeaker struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Rank returns at most MaxRanked speakers ordered by dialogue length.
func Rank(t *Tally) []RankedSpeaker {
	return RankTop(t, MaxRanked)
}

// RankTop orders the tally by count descending, keeping first-seen order
// between equal counts, drops names containing digits and truncates to
// limit entries. The limit is capped at MaxRanked; a non-positive limit
// means MaxRanked.
func RankTop(t *Tally, limit int) []RankedSpeaker {
	if limit <= 0 || limit > MaxRanked {
		limit = MaxRanked
	}

	speakers := t.Speakers()
	sort.SliceStable(speakers, func(i, j int) bool {
		return speakers[i].Count > speakers[j].Count
	})

	ranked := make([]RankedSpeaker, 0, min(limit, len(speakers)))
	for _, s := range speakers {
		if containsDigit(s.Name) {
			continue
		}
		ranked = append(ranked, s)
		if len(ranked) == limit {
			break
		}
	}
	return ranked
}

// Names returns the speaker names of ranked in order.
func Names(ranked []RankedSpeaker) []string {
	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.Name
	}
	return names
}
