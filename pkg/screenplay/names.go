package screenplay

import (
	"regexp"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// annotationPattern strips parenthetical annotations such as (V.O.) or
// (CONT'D), anything after an unclosed bracket or asterisk, and a single
// trailing sentence-terminal punctuation mark.
var annotationPattern = regexp.MustCompile(`\s*\(.*?\)|[\(\[\*].*|\s*\(CONT'D\)\s*|\(VOICE\)|[.?!,;]$`)

// sceneMarkers disqualify a label when found anywhere in it.
var sceneMarkers = []string{"EXT.", "INT.", "EXT", "INT", "THE"}

// Normalizer turns raw speaker labels into canonical speaker names.
type Normalizer struct {
	classifier TokenClassifier
}

// NewNormalizer returns a Normalizer gating labels through classifier.
// A nil classifier uses the built-in verb lexicon.
func NewNormalizer(classifier TokenClassifier) *Normalizer {
	if classifier == nil {
		classifier = DefaultLexicon()
	}
	return &Normalizer{classifier: classifier}
}

// Normalize cleans raw into a canonical speaker name. The boolean is false
// when the label is rejected.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	name := annotationPattern.ReplaceAllString(raw, "")
	name = cases.Upper(language.Und).String(strings.TrimSpace(name))
	name = collapseRepeats(name)

	if name == "" {
		return "", false
	}
	for _, marker := range sceneMarkers {
		if strings.Contains(name, marker) {
			log.Debugf("Rejected label %q: scene marker %q", raw, marker)
			return "", false
		}
	}
	if strings.HasSuffix(name, ":") {
		return "", false
	}
	for _, token := range tokenize(name) {
		if n.classifier.IsVerbLike(token) {
			log.Debugf("Rejected label %q: verb-like token %q", raw, token)
			return "", false
		}
	}
	return name, true
}

// collapseRepeats reduces every run of three or more identical characters
// to a single occurrence. Runs of two are kept.
func collapseRepeats(s string) string {
	runes := []rune(s)
	if len(runes) < 3 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= 3 {
			b.WriteRune(runes[i])
		} else {
			for k := i; k < j; k++ {
				b.WriteRune(runes[k])
			}
		}
		i = j
	}
	return b.String()
}

func tokenize(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// IsSpeakerLabel reports whether line qualifies as a speaker label: it has
// at least one cased letter and no lowercase or titlecase letters.
func IsSpeakerLabel(line string) bool {
	cased := false
	for _, r := range line {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
