package report

import (
	"strconv"
	"strings"
)

// ChartPoint is one labelled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PlottedPoint is a value placed on the chart canvas.
type PlottedPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type LineChart struct {
	Path   string         `json:"path"`
	Points []PlottedPoint `json:"points"`
}

const (
	ChartWidth   = 120
	ChartHeight  = 48
	ChartPadding = 6
)

// BuildLineChart lays points out evenly on x and scales y against
// max(values, 1). The path is an SVG "M x y L x y ..." polyline.
func BuildLineChart(data []ChartPoint, width, height, padding float64) LineChart {
	if len(data) == 0 {
		return LineChart{Points: []PlottedPoint{}}
	}
	max := 1.0
	for _, d := range data {
		if d.Value > max {
			max = d.Value
		}
	}
	step := 0.0
	if len(data) > 1 {
		step = (width - padding*2) / float64(len(data)-1)
	}

	pts := make([]PlottedPoint, 0, len(data))
	var b strings.Builder
	for i, d := range data {
		p := PlottedPoint{
			X:     padding + float64(i)*step,
			Y:     height - padding - (d.Value/max)*(height-padding*2),
			Label: d.Label,
			Value: d.Value,
		}
		pts = append(pts, p)
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(num(p.X))
		b.WriteByte(' ')
		b.WriteString(num(p.Y))
	}
	return LineChart{Path: b.String(), Points: pts}
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
