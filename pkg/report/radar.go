package report

import (
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"scriptscore/pkg/analysis"
)

type radarSeries struct {
	Name   string
	Values [3]float64
}

var seriesColors = [][3]int{
	{31, 119, 180},
	{214, 39, 40},
	{44, 160, 44},
	{148, 103, 189},
}

func radarLabels(r analysis.Scored) []string {
	a, b := r.Groups.A.Label, r.Groups.B.Label
	return []string{
		fmt.Sprintf("%s to %s Dialogue %%", b, a),
		fmt.Sprintf("%s to %s Character Count %%", b, a),
		fmt.Sprintf("%s Inclusion Score", b),
	}
}

// clampPercent limits a value to the chart's 0-100 radial axis. Only the
// drawing is clamped; reported numbers are not.
func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func radarPoint(cx, cy, radius float64, axis, axes int, value float64) gofpdf.PointType {
	angle := -math.Pi/2 + 2*math.Pi*float64(axis)/float64(axes)
	r := radius * clampPercent(value) / 100
	return gofpdf.PointType{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
}

func drawRadar(pdf *gofpdf.Fpdf, cx, cy, radius float64, labels []string, series []radarSeries) {
	axes := len(labels)

	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(190, 190, 190)
	pdf.SetFont("Arial", "", 7)
	pdf.SetTextColor(120, 120, 120)
	for tick := 20.0; tick <= 100; tick += 20 {
		ring := make([]gofpdf.PointType, axes)
		for i := range ring {
			ring[i] = radarPoint(cx, cy, radius, i, axes, tick)
		}
		pdf.Polygon(ring, "D")
		pdf.Text(cx+1, cy-radius*tick/100-1, fmt.Sprintf("%.0f", tick))
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, label := range labels {
		edge := radarPoint(cx, cy, radius, i, axes, 100)
		pdf.Line(cx, cy, edge.X, edge.Y)

		outer := radarPoint(cx, cy, radius+8, i, axes, 100)
		width := pdf.GetStringWidth(label)
		x := outer.X - width/2
		if outer.X > cx+1 {
			x = outer.X - width/4
		} else if outer.X < cx-1 {
			x = outer.X - width*3/4
		}
		pdf.Text(x, outer.Y, label)
	}

	pdf.SetLineWidth(0.6)
	for i, s := range series {
		c := seriesColors[i%len(seriesColors)]
		points := make([]gofpdf.PointType, axes)
		for axis := range points {
			points[axis] = radarPoint(cx, cy, radius, axis, axes, s.Values[axis%len(s.Values)])
		}
		pdf.SetDrawColor(c[0], c[1], c[2])
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.SetAlpha(0.25, "Normal")
		pdf.Polygon(points, "F")
		pdf.SetAlpha(1, "Normal")
		pdf.Polygon(points, "D")

		legendY := cy + radius + 25 + float64(i)*7
		pdf.Rect(cx-40, legendY-3, 4, 4, "F")
		pdf.SetFont("Arial", "", 9)
		pdf.Text(cx-34, legendY, fmt.Sprintf("%s: %.2f / %.2f / %.2f", s.Name, s.Values[0], s.Values[1], s.Values[2]))
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
}
