package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"scriptscore/pkg/analysis"
)

// WritePDF renders the markdown report followed by a radar chart of the
// metrics of every result.
func WritePDF(w io.Writer, title string, results ...analysis.Scored) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	writeMarkdown(pdf, tr, Markdown(title, results...))

	if len(results) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, "Inclusion Metrics")
		pdf.Ln(12)
		series := make([]radarSeries, len(results))
		for i, r := range results {
			series[i] = radarSeries{
				Name:   tr(documentName(r, i)),
				Values: [3]float64{r.Metrics.DialogueRatio, r.Metrics.HeadcountRatio, r.Metrics.InclusionScore},
			}
		}
		labels := radarLabels(results[0])
		for i := range labels {
			labels[i] = tr(labels[i])
		}
		drawRadar(pdf, 105, 120, 60, labels, series)
	}

	pageCount := pdf.PageCount()
	for i := 1; i <= pageCount; i++ {
		pdf.SetPage(i)
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of %d", i, pageCount), "", 0, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// writeMarkdown lays out the HTML produced from markdown line by line:
// headings, paragraphs and list items.
func writeMarkdown(pdf *gofpdf.Fpdf, tr func(string) string, markdown string) {
	lines := strings.Split(string(HTML(markdown)), "\n")

	for _, line := range lines {
		text := tr(stripTags(line))
		switch {
		case strings.Contains(line, "<h1>"):
			pdf.SetFont("Arial", "B", 18)
			pdf.Cell(0, 10, text)
			pdf.Ln(15)
		case strings.Contains(line, "<h2>"):
			pdf.SetFont("Arial", "B", 14)
			pdf.Cell(0, 10, text)
			pdf.Ln(10)
		case strings.Contains(line, "<h3>"):
			pdf.SetFont("Arial", "BI", 12)
			pdf.Cell(0, 10, text)
			pdf.Ln(8)
		case strings.Contains(line, "<li>"):
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, "- "+text, "", "", false)
		case strings.Contains(line, "<p>") && text != "":
			pdf.SetFont("Arial", "", 12)
			pdf.MultiCell(0, 6, text, "", "", false)
			pdf.Ln(2)
		}
	}
}

// stripTags removes HTML tags and unescapes entities.
func stripTags(s string) string {
	var buf bytes.Buffer
	var inTag bool

	for _, r := range s {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			buf.WriteRune(r)
		}
	}

	return strings.TrimSpace(html.UnescapeString(buf.String()))
}
