package screenplay

import (
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// Tally holds the accumulated dialogue length per speaker for one document.
// Speakers keep the order in which they were first credited with dialogue.
// A Tally returned by Scan is never modified again.
type Tally struct {
	order  []string
	counts map[string]int
}

func newTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

func (t *Tally) add(name string, n int) {
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name] += n
}

// Len returns the number of speakers in the tally.
func (t *Tally) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Total returns the dialogue length credited to all speakers.
func (t *Tally) Total() int {
	total := 0
	for _, s := range t.Speakers() {
		total += s.Count
	}
	return total
}

// Speakers returns a copy of the tally entries in first-seen order.
func (t *Tally) Speakers() []RankedSpeaker {
	if t == nil {
		return nil
	}
	out := make([]RankedSpeaker, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, RankedSpeaker{Name: name, Count: t.counts[name]})
	}
	return out
}

// Scanner attributes dialogue lines to the most recent speaker label.
type Scanner struct {
	normalizer *Normalizer
}

// NewScanner returns a Scanner that resolves labels with normalizer.
func NewScanner(normalizer *Normalizer) *Scanner {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Scanner{normalizer: normalizer}
}

// Scan walks lines in order. An all-uppercase line switches the current
// speaker to its normalized name; a rejected label clears it so following
// dialogue is discarded. Any other non-blank line adds its trimmed length in
// characters to the current speaker.
func (s *Scanner) Scan(lines []string) *Tally {
	tally := newTally()

	var (
		current    string
		hasCurrent bool
		labels     int
		discarded  int
	)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if IsSpeakerLabel(line) {
			labels++
			current, hasCurrent = s.normalizer.Normalize(line)
			continue
		}
		if !hasCurrent {
			discarded++
			continue
		}
		tally.add(current, utf8.RuneCountInString(line))
	}

	log.Debugf("Scanned %d lines: %d labels, %d speakers, %d unattributed lines",
		len(lines), labels, tally.Len(), discarded)
	return tally
}

// ScanText splits text on newlines and scans the result.
func (s *Scanner) ScanText(text string) *Tally {
	return s.Scan(strings.Split(text, "\n"))
}
