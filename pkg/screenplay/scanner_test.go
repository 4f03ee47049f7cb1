package screenplay_test

import (
	"fmt"
	"testing"

	"scriptscore/pkg/screenplay"
)

func TestScanAttributesDialogue(t *testing.T) {
	scanner := screenplay.NewScanner(nil)

	tally := scanner.Scan([]string{"JOHN", "Hello there.", "MARY", "Hi John!"})

	if tally.Len() != 2 {
		t.Fatalf("expected 2 speakers, got %d", tally.Len())
	}
	if got := countOf(tally, "JOHN"); got != 12 {
		t.Fatalf("JOHN = %d, want 12", got)
	}
	if got := countOf(tally, "MARY"); got != 8 {
		t.Fatalf("MARY = %d, want 8", got)
	}
	if got := tally.Total(); got != 20 {
		t.Fatalf("Total = %d, want 20", got)
	}
}

func TestScanMergesLabelsThatNormalizeAlike(t *testing.T) {
	scanner := screenplay.NewScanner(nil)

	tally := scanner.Scan([]string{
		"JOHN",
		"  One.  ",
		"",
		"Two.",
		"JOHN (CONT'D)",
		"Three.",
	})

	if tally.Len() != 1 {
		t.Fatalf("expected a single speaker, got %v", tally.Speakers())
	}
	if got := countOf(tally, "JOHN"); got != 4+4+6 {
		t.Fatalf("JOHN = %d, want 14", got)
	}
}

func TestScanDiscardsDialogueAfterRejectedLabel(t *testing.T) {
	scanner := screenplay.NewScanner(nil)

	tally := scanner.Scan([]string{
		"Some action before anyone speaks.",
		"MARY",
		"First line.",
		"INT. KITCHEN - NIGHT",
		"The kettle whistles.",
		"MARY",
		"Tea?",
	})

	if tally.Len() != 1 {
		t.Fatalf("expected only MARY, got %v", tally.Speakers())
	}
	if got := countOf(tally, "MARY"); got != len("First line.")+len("Tea?") {
		t.Fatalf("MARY = %d", got)
	}
}

func TestScanCountsCharactersNotBytes(t *testing.T) {
	scanner := screenplay.NewScanner(nil)

	tally := scanner.ScanText("ZOË\nCafé au lait?\n")

	if got := countOf(tally, "ZOË"); got != 13 {
		t.Fatalf("ZOË = %d, want 13", got)
	}
}

func TestScanEmptyInput(t *testing.T) {
	scanner := screenplay.NewScanner(nil)

	tally := scanner.Scan(nil)
	if tally.Len() != 0 || tally.Total() != 0 {
		t.Fatalf("expected empty tally, got %v", tally.Speakers())
	}
	if ranked := screenplay.Rank(tally); len(ranked) != 0 {
		t.Fatalf("expected no ranked speakers, got %v", ranked)
	}
}

func TestSpeakersKeepFirstSeenOrder(t *testing.T) {
	scanner := screenplay.NewScanner(nil)

	var lines []string
	for _, name := range []string{"ZED", "AMY", "ZED", "BOB"} {
		lines = append(lines, name, fmt.Sprintf("Line from %s.", name))
	}
	got := screenplay.Names(scanner.Scan(lines).Speakers())

	want := []string{"ZED", "AMY", "BOB"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func countOf(tally *screenplay.Tally, name string) int {
	for _, s := range tally.Speakers() {
		if s.Name == name {
			return s.Count
		}
	}
	return 0
}
