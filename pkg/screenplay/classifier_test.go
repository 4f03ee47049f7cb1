package screenplay_test

import (
	"testing"

	"scriptscore/pkg/screenplay"
)

func TestLexiconDerivesRegularForms(t *testing.T) {
	lex := screenplay.NewLexicon(`
# comment
walk
cry
move
tie
watch
run ran running
`)

	for _, token := range []string{
		"walk", "WALKS", "walked", "Walking",
		"cry", "cries", "cried", "crying",
		"move", "moves", "moved", "moving",
		"tie", "ties", "tied", "tying",
		"watch", "watches", "watched",
		"run", "ran", "running",
	} {
		if !lex.IsVerbLike(token) {
			t.Errorf("expected %q to be verb-like", token)
		}
	}
	for _, token := range []string{"JOHN", "movie", "comment", "#", "walker"} {
		if lex.IsVerbLike(token) {
			t.Errorf("expected %q not to be verb-like", token)
		}
	}
}

func TestDefaultLexiconSkipsAuxiliariesAndNames(t *testing.T) {
	lex := screenplay.DefaultLexicon()
	if lex.Len() < 500 {
		t.Fatalf("default lexicon unexpectedly small: %d forms", lex.Len())
	}
	for _, token := range []string{"WILL", "MARK", "JACK", "IS", "HAS", "CAN", "HOPE", "ROSE"} {
		if lex.IsVerbLike(token) {
			t.Errorf("expected %q not to be verb-like", token)
		}
	}
	for _, token := range []string{"WALKS", "ENTERS", "LOOKS", "CUT", "FADE", "STANDS"} {
		if !lex.IsVerbLike(token) {
			t.Errorf("expected %q to be verb-like", token)
		}
	}
}

func TestNoVerbs(t *testing.T) {
	if screenplay.NoVerbs.IsVerbLike("RUNS") {
		t.Fatal("NoVerbs flagged a token")
	}
}
