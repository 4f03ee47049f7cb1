package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"scriptscore/pkg/analysis"
	"scriptscore/pkg/report"
	"scriptscore/pkg/screenplay"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// writeTable draws a rounded table on terminals and falls back to
// tab-separated values when the output is piped. Short rows are padded;
// columns without an alignment are left aligned.
func writeTable(w io.Writer, headers []string, rows [][]string, aligns []columnAlignment) error {
	if len(headers) == 0 {
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if i < len(aligns) && aligns[i] == alignRight {
			configs[i].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)

	out := tw.RenderTSV()
	if isTerminal(w) {
		out = tw.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func speakerRows(speakers []screenplay.RankedSpeaker) [][]string {
	rows := make([][]string, 0, len(speakers))
	for i, s := range speakers {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Name, strconv.Itoa(s.Count)})
	}
	return rows
}

func printSession(w io.Writer, s *analysis.Session, format string) error {
	switch format {
	case "json":
		return writeJSON(w, s)
	case "", "table":
		name := s.Locator
		if s.Title != "" {
			name = s.Title
		}
		fmt.Fprintf(w, "%s: %d speakers, %d characters of dialogue, %d pages\n",
			name, s.Tally.Len(), s.Tally.Total(), s.Pages)
		return writeTable(w, []string{"#", "Speaker", "Characters"}, speakerRows(s.Ranked),
			[]columnAlignment{alignRight, alignLeft, alignRight})
	default:
		return fmt.Errorf("unsupported format %q: want table or json", format)
	}
}

func printScores(w io.Writer, title string, results []analysis.Scored, format string) error {
	switch format {
	case "json":
		if len(results) == 1 {
			return writeJSON(w, results[0])
		}
		return writeJSON(w, results)
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(title, results...))
		return err
	case "", "table":
		rows := make([][]string, 0, len(results))
		for i, r := range results {
			name := r.Session.Locator
			if r.Session.Title != "" {
				name = r.Session.Title
			}
			if name == "" {
				name = "document " + strconv.Itoa(i+1)
			}
			rows = append(rows, []string{
				name,
				strconv.Itoa(len(r.Assignment.A)),
				strconv.Itoa(len(r.Assignment.B)),
				fmt.Sprintf("%.2f%%", r.Metrics.DialogueRatio),
				fmt.Sprintf("%.2f%%", r.Metrics.HeadcountRatio),
				fmt.Sprintf("%.2f%%", r.Metrics.InclusionScore),
			})
		}
		if len(results) == 0 {
			return nil
		}
		labelA, labelB := results[0].Groups.A.Label, results[0].Groups.B.Label
		headers := []string{"Document", labelA, labelB, "Dialogue ratio", "Headcount ratio", "Inclusion score"}
		aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
		if err := writeTable(w, headers, rows, aligns); err != nil {
			return err
		}
		for _, r := range results {
			speakers := make([][]string, 0, len(r.Assignment.A)+len(r.Assignment.B))
			for _, s := range r.Assignment.A {
				speakers = append(speakers, []string{r.Groups.A.Label, s.Name, strconv.Itoa(s.Count)})
			}
			for _, s := range r.Assignment.B {
				speakers = append(speakers, []string{r.Groups.B.Label, s.Name, strconv.Itoa(s.Count)})
			}
			if len(speakers) == 0 {
				continue
			}
			if err := writeTable(w, []string{"Group", "Speaker", "Characters"}, speakers,
				[]columnAlignment{alignLeft, alignLeft, alignRight}); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: want table, json or markdown", format)
	}
}
