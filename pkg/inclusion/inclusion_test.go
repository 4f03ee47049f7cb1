package inclusion_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptscore/pkg/inclusion"
	"scriptscore/pkg/screenplay"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func scenarioCandidates() []screenplay.RankedSpeaker {
	scanner := screenplay.NewScanner(nil)
	return screenplay.Rank(scanner.Scan([]string{"JOHN", "Hello there.", "MARY", "Hi John!"}))
}

func TestAssignAndComputeScenario(t *testing.T) {
	n := screenplay.NewNormalizer(nil)

	assignment := inclusion.Assign(n, scenarioCandidates(), []string{"JOHN"}, []string{"MARY"})

	if len(assignment.A) != 1 || assignment.A[0] != (screenplay.RankedSpeaker{Name: "JOHN", Count: 12}) {
		t.Fatalf("group A = %v", assignment.A)
	}
	if len(assignment.B) != 1 || assignment.B[0] != (screenplay.RankedSpeaker{Name: "MARY", Count: 8}) {
		t.Fatalf("group B = %v", assignment.B)
	}

	m := assignment.Metrics()
	if !almostEqual(m.DialogueRatio, 66.67) {
		t.Fatalf("DialogueRatio = %.4f, want 66.67", m.DialogueRatio)
	}
	if m.HeadcountRatio != 100 {
		t.Fatalf("HeadcountRatio = %.4f, want 100", m.HeadcountRatio)
	}
	if !almostEqual(m.InclusionScore, 83.33) {
		t.Fatalf("InclusionScore = %.4f, want 83.33", m.InclusionScore)
	}
}

func TestAssignNormalizesGroupNames(t *testing.T) {
	n := screenplay.NewNormalizer(nil)

	assignment := inclusion.Assign(n, scenarioCandidates(), []string{"john (v.o.)"}, []string{"Mary."})

	if len(assignment.A) != 1 || len(assignment.B) != 1 {
		t.Fatalf("assignment = %+v", assignment)
	}
}

func TestAssignPrefersGroupA(t *testing.T) {
	n := screenplay.NewNormalizer(nil)

	assignment := inclusion.Assign(n, scenarioCandidates(), []string{"JOHN", "MARY"}, []string{"MARY"})

	if len(assignment.A) != 2 || len(assignment.B) != 0 {
		t.Fatalf("assignment = %+v", assignment)
	}
	if assignment.A[0].Name != "JOHN" || assignment.A[1].Name != "MARY" {
		t.Fatalf("rank order lost: %v", assignment.A)
	}
}

func TestAssignPartitionsDisjointGroups(t *testing.T) {
	n := screenplay.NewNormalizer(screenplay.NoVerbs)
	candidates := []screenplay.RankedSpeaker{
		{Name: "ANNA", Count: 40}, {Name: "BEN", Count: 30}, {Name: "CLEO", Count: 20},
		{Name: "DORA", Count: 10}, {Name: "EVAN", Count: 5},
	}

	assignment := inclusion.Assign(n, candidates, []string{"BEN", "EVAN"}, []string{"ANNA", "DORA", "NOBODY"})

	seen := map[string]int{}
	for _, s := range assignment.A {
		seen[s.Name]++
	}
	for _, s := range assignment.B {
		seen[s.Name]++
	}
	for name, count := range seen {
		if count != 1 {
			t.Fatalf("%s assigned %d times", name, count)
		}
	}
	if _, ok := seen["CLEO"]; ok {
		t.Fatal("unlisted candidate should be dropped")
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 assigned speakers, got %v", seen)
	}
}

func TestAssignIgnoresRejectedGroupNames(t *testing.T) {
	n := screenplay.NewNormalizer(nil)
	candidates := []screenplay.RankedSpeaker{{Name: "ANNA", Count: 3}}

	assignment := inclusion.Assign(n, candidates, []string{"INT. HOUSE", ""}, []string{"(V.O.)"})

	if len(assignment.A)+len(assignment.B) != 0 {
		t.Fatalf("assignment = %+v", assignment)
	}
}

func TestComputeGuardsEmptyGroupA(t *testing.T) {
	m := inclusion.Compute(nil, []screenplay.RankedSpeaker{{Name: "MARY", Count: 8}})

	if m != (inclusion.Metrics{}) {
		t.Fatalf("metrics = %+v, want zeros", m)
	}
}

func TestComputeZeroDialogueInGroupA(t *testing.T) {
	m := inclusion.Compute(
		[]screenplay.RankedSpeaker{{Name: "JOHN", Count: 0}},
		[]screenplay.RankedSpeaker{{Name: "MARY", Count: 8}, {Name: "ANNA", Count: 2}},
	)

	if m.DialogueRatio != 0 || m.HeadcountRatio != 200 || m.InclusionScore != 100 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestComputeAllowsValuesAboveHundred(t *testing.T) {
	m := inclusion.Compute(
		[]screenplay.RankedSpeaker{{Name: "JOHN", Count: 10}},
		[]screenplay.RankedSpeaker{{Name: "MARY", Count: 25}, {Name: "ANNA", Count: 5}},
	)

	if m.DialogueRatio != 300 || m.HeadcountRatio != 200 || m.InclusionScore != 250 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestParsePresets(t *testing.T) {
	presets, err := inclusion.ParsePresets(strings.NewReader(`
groups:
  gender:
    a: {label: Male, names: [JOHN, PETER]}
    b: {label: Female, names: [MARY]}
  unnamed:
    a: {names: [X]}
    b: {names: [Y]}
`))
	if err != nil {
		t.Fatalf("ParsePresets: %v", err)
	}

	if got := presets.Names(); len(got) != 2 || got[0] != "gender" || got[1] != "unnamed" {
		t.Fatalf("Names = %v", got)
	}
	g, err := presets.Get("gender")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.A.Label != "Male" || len(g.A.Names) != 2 || g.B.Names[0] != "MARY" {
		t.Fatalf("gender preset = %+v", g)
	}
	g, err = presets.Get("unnamed")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.A.Label != "Group A" || g.B.Label != "Group B" {
		t.Fatalf("default labels not applied: %+v", g)
	}
	if _, err := presets.Get("missing"); !errors.Is(err, inclusion.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestLoadPresetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	if err := os.WriteFile(path, []byte("groups:\n  g:\n    a: {names: [A]}\n    b: {names: [B]}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	presets, err := inclusion.LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if _, err := presets.Get("g"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if _, err := inclusion.LoadPresets(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
