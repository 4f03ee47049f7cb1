// Package report renders scored analyses as markdown, HTML or PDF.
package report

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"

	"scriptscore/pkg/analysis"
	"scriptscore/pkg/screenplay"
)

// Markdown renders one section per scored document.
func Markdown(title string, results ...analysis.Scored) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	for i, r := range results {
		a, bl := r.Groups.A.Label, r.Groups.B.Label
		fmt.Fprintf(&b, "## Results for %s\n\n", documentName(r, i))
		fmt.Fprintf(&b, "Percentage of %s to %s dialogue: %.2f%%\n\n", bl, a, r.Metrics.DialogueRatio)
		fmt.Fprintf(&b, "Percentage of %s to %s characters: %.2f%%\n\n", bl, a, r.Metrics.HeadcountRatio)
		fmt.Fprintf(&b, "%s inclusion score: %.2f%%\n\n", bl, r.Metrics.InclusionScore)

		writeSpeakers(&b, a, r.Assignment.A)
		writeSpeakers(&b, bl, r.Assignment.B)
	}
	return b.String()
}

// HTML converts markdown to an HTML fragment.
func HTML(markdown string) []byte {
	return blackfriday.Run([]byte(markdown))
}

func writeSpeakers(b *strings.Builder, label string, speakers []screenplay.RankedSpeaker) {
	fmt.Fprintf(b, "### %s speakers\n\n", label)
	if len(speakers) == 0 {
		b.WriteString("No matching speakers.\n\n")
		return
	}
	for _, s := range speakers {
		fmt.Fprintf(b, "- %s: %d characters\n", s.Name, s.Count)
	}
	b.WriteString("\n")
}

func documentName(r analysis.Scored, index int) string {
	if r.Session == nil {
		return fmt.Sprintf("document %d", index+1)
	}
	if r.Session.Title != "" {
		return r.Session.Title
	}
	if r.Session.Locator != "" {
		return r.Session.Locator
	}
	return fmt.Sprintf("document %d", index+1)
}
