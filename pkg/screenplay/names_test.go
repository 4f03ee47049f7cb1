package screenplay_test

import (
	"testing"

	"scriptscore/pkg/screenplay"
)

func TestNormalizeCleansLabels(t *testing.T) {
	n := screenplay.NewNormalizer(nil)

	cases := []struct {
		raw  string
		want string
	}{
		{"JOHN (V.O.)", "JOHN"},
		{"JOHN (CONT'D)", "JOHN"},
		{"MARY (O.S.) (CONT'D)", "MARY"},
		{"  SARAH  ", "SARAH"},
		{"SARAH.", "SARAH"},
		{"SARAH?", "SARAH"},
		{"DETECTIVE RAMIREZ *", "DETECTIVE RAMIREZ"},
		{"KAREN (into phone", "KAREN"},
		{"mary", "MARY"},
		{"JOOOOHN", "JOHN"},
		{"ANNA", "ANNA"},
		{"LUCY #2", "LUCY #2"},
	}
	for _, tc := range cases {
		got, ok := n.Normalize(tc.raw)
		if !ok {
			t.Errorf("Normalize(%q) rejected, want %q", tc.raw, tc.want)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeRejectsNonNames(t *testing.T) {
	n := screenplay.NewNormalizer(nil)

	for _, raw := range []string{
		"",
		"   ",
		"(BEAT)",
		"INT. KITCHEN - NIGHT",
		"EXT. ROOFTOP - DAY",
		"BACK IN THE CAR",
		"HEATHER",
		"CUT TO:",
		"FADE IN:",
		"ROOM 12:",
		"HE WALKS AWAY",
		"SARAH RUNS",
		"CONTINUED",
	} {
		if got, ok := n.Normalize(raw); ok {
			t.Errorf("Normalize(%q) = %q, want rejection", raw, got)
		}
	}
}

func TestNormalizeIsFixedPoint(t *testing.T) {
	n := screenplay.NewNormalizer(nil)

	for _, raw := range []string{"JOHN (V.O.)", "MARY", "DETECTIVE RAMIREZ", "O'BRIEN", "LLOYD"} {
		first, ok := n.Normalize(raw)
		if !ok {
			t.Fatalf("Normalize(%q) rejected", raw)
		}
		second, ok := n.Normalize(first)
		if !ok || second != first {
			t.Fatalf("Normalize(Normalize(%q)) = %q, %v; want %q", raw, second, ok, first)
		}
	}
}

func TestNormalizeKeepsDoubleLetters(t *testing.T) {
	n := screenplay.NewNormalizer(screenplay.NoVerbs)

	got, ok := n.Normalize("LLOYD")
	if !ok || got != "LLOYD" {
		t.Fatalf("Normalize(LLOYD) = %q, %v", got, ok)
	}
	got, ok = n.Normalize("AAAARGH")
	if !ok || got != "ARGH" {
		t.Fatalf("Normalize(AAAARGH) = %q, %v", got, ok)
	}
}

func TestNormalizeUsesClassifier(t *testing.T) {
	var seen []string
	classifier := screenplay.ClassifierFunc(func(token string) bool {
		seen = append(seen, token)
		return token == "MARK"
	})
	n := screenplay.NewNormalizer(classifier)

	if _, ok := n.Normalize("MARK"); ok {
		t.Fatal("expected MARK to be rejected by the classifier")
	}
	if got, ok := n.Normalize("JOHN O'NEIL"); !ok || got != "JOHN O'NEIL" {
		t.Fatalf("Normalize(JOHN O'NEIL) = %q, %v", got, ok)
	}
	if len(seen) != 3 || seen[1] != "JOHN" || seen[2] != "O'NEIL" {
		t.Fatalf("unexpected classifier tokens: %v", seen)
	}
}

func TestIsSpeakerLabel(t *testing.T) {
	cases := map[string]bool{
		"JOHN":               true,
		"JOHN (V.O.)":        true,
		"INT. HOUSE - NIGHT": true,
		"ROOM 101":           true,
		"Hello there.":       false,
		"JOHN (cont'd)":      false,
		"1984":               false,
		"...":                false,
		"ÉLODIE":             true,
	}
	for line, want := range cases {
		if got := screenplay.IsSpeakerLabel(line); got != want {
			t.Errorf("IsSpeakerLabel(%q) = %v, want %v", line, got, want)
		}
	}
}
