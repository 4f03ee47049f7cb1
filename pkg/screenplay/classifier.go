package screenplay

import (
	"bufio"
	_ "embed"
	"strings"
	"sync"
)

// TokenClassifier decides whether a single token of a speaker label reads as
// a verb. Labels containing a verb-like token are treated as action lines.
type TokenClassifier interface {
	IsVerbLike(token string) bool
}

// ClassifierFunc adapts a plain function to TokenClassifier.
type ClassifierFunc func(token string) bool

func (f ClassifierFunc) IsVerbLike(token string) bool { return f(token) }

// NoVerbs never flags a token.
var NoVerbs TokenClassifier = ClassifierFunc(func(string) bool { return false })

//go:embed verbs.txt
var verbList string

// Lexicon is a word-list classifier. Each entry line of the list holds a base
// verb followed by its irregular forms; regular inflections of the base are
// derived. Auxiliaries and modals are deliberately absent.
type Lexicon struct {
	forms map[string]struct{}
}

var (
	defaultLexicon     *Lexicon
	defaultLexiconOnce sync.Once
)

// DefaultLexicon returns the shared lexicon built from the embedded verb list.
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		defaultLexicon = NewLexicon(verbList)
	})
	return defaultLexicon
}

// NewLexicon parses a verb list. Blank lines and lines starting with # are
// ignored.
func NewLexicon(list string) *Lexicon {
	lex := &Lexicon{forms: make(map[string]struct{})}
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(strings.ToLower(line))
		lex.add(fields[0])
		for _, form := range inflect(fields[0]) {
			lex.add(form)
		}
		for _, form := range fields[1:] {
			lex.add(form)
		}
	}
	return lex
}

func (l *Lexicon) add(word string) {
	l.forms[word] = struct{}{}
}

// IsVerbLike reports whether token is a known verb form, ignoring case.
func (l *Lexicon) IsVerbLike(token string) bool {
	_, ok := l.forms[strings.ToLower(token)]
	return ok
}

// Len returns the number of distinct forms known to the lexicon.
func (l *Lexicon) Len() int { return len(l.forms) }

// inflect derives the regular third-person, past and progressive forms.
func inflect(base string) []string {
	n := len(base)
	if n < 2 {
		return nil
	}
	last := base[n-1]
	consonantY := last == 'y' && !isVowel(base[n-2])

	var third, past, progressive string
	switch {
	case consonantY:
		third = base[:n-1] + "ies"
	case strings.HasSuffix(base, "s"), strings.HasSuffix(base, "x"), strings.HasSuffix(base, "z"),
		strings.HasSuffix(base, "ch"), strings.HasSuffix(base, "sh"), strings.HasSuffix(base, "o"):
		third = base + "es"
	default:
		third = base + "s"
	}

	switch {
	case last == 'e':
		past = base + "d"
	case consonantY:
		past = base[:n-1] + "ied"
	default:
		past = base + "ed"
	}

	switch {
	case strings.HasSuffix(base, "ie"):
		progressive = base[:n-2] + "ying"
	case last == 'e' && !strings.HasSuffix(base, "ee") && !strings.HasSuffix(base, "ye") && !strings.HasSuffix(base, "oe"):
		progressive = base[:n-1] + "ing"
	default:
		progressive = base + "ing"
	}

	return []string{third, past, progressive}
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}
