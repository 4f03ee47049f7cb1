package document

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	log "github.com/sirupsen/logrus"
)

// ExtractPDF returns the text of every page, one line per text row, and the
// page count. Pages whose content cannot be read are skipped.
func ExtractPDF(data []byte, progress ProgressFunc) (text string, pages int, err error) {
	// The PDF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	pages = reader.NumPage()
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows := pageRows(page.Content().Text)
		for _, row := range rows {
			b.WriteString(row)
			b.WriteByte('\n')
		}
		if progress != nil {
			progress(i, pages)
		}
		log.Debugf("Extracted %d rows from page %d/%d", len(rows), i, pages)
	}
	return b.String(), pages, nil
}

// pageRows groups positioned glyphs into text rows, top of the page first.
// Glyphs within a row are ordered left to right and a space is inserted
// where the gap to the previous glyph is wider than that glyph.
func pageRows(glyphs []pdf.Text) []string {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var (
		rows  []string
		start int
	)
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && math.Abs(sorted[i].Y-sorted[start].Y) <= rowTolerance(sorted[start]) {
			continue
		}
		rows = append(rows, joinRow(sorted[start:i]))
		start = i
	}
	return rows
}

func rowTolerance(t pdf.Text) float64 {
	return math.Max(t.FontSize/2, 1)
}

func joinRow(glyphs []pdf.Text) string {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			threshold := prev.W
			if threshold <= 0 {
				threshold = math.Max(prev.FontSize/4, 1)
			}
			gap := g.X - (prev.X + prev.W)
			if gap > threshold && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}
