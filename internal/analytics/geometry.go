package analytics

import (
	"math"
	"strconv"
)

// Padding is the inset between the drawing box edge and the chart area.
type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Box is the target drawing area for a chart.
type Box struct {
	Width   float64
	Height  float64
	Padding Padding
}

func (b Box) chartWidth() float64  { return b.Width - b.Padding.Left - b.Padding.Right }
func (b Box) chartHeight() float64 { return b.Height - b.Padding.Top - b.Padding.Bottom }

// Point is one vertex of a line chart.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bar is one rectangle of a bar chart.
type Bar struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GridLine is one horizontal reference line with its value label.
type GridLine struct {
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// BarOptions tunes bar sizing. MinHeight is the cosmetic floor that keeps
// a zero-value bar visible as a sliver; it is a parameter rather than a
// constant because it makes zero indistinguishable from small nonzero
// values, and some views want it off.
type BarOptions struct {
	Gap       float64
	MaxWidth  float64
	MinHeight float64
}

// DefaultBarOptions matches the sizing the marketplace screens use.
func DefaultBarOptions() BarOptions {
	return BarOptions{Gap: 8, MaxWidth: 40, MinHeight: 15}
}

// gridFractions are the five reference-line positions, bottom to top.
var gridFractions = [5]float64{0, 0.25, 0.5, 0.75, 1}

// MaxValue returns the largest value across all series, floored at 1.
// The floor prevents division by zero when every value is zero, at the
// cost of a flat zero-height chart rather than an undefined one.
func MaxValue(series ...[]float64) float64 {
	max := 1.0
	for _, s := range series {
		for _, v := range s {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// LinePoints maps one series to line-chart vertices. X coordinates are
// evenly spaced across the chart area; a single point sits at its center.
func LinePoints(values []float64, box Box, maxValue float64) []Point {
	n := len(values)
	if n == 0 {
		return nil
	}
	if maxValue < 1 {
		maxValue = 1
	}
	w, h := box.chartWidth(), box.chartHeight()
	points := make([]Point, n)
	for i, v := range values {
		x := box.Padding.Left + w/2
		if n > 1 {
			x = box.Padding.Left + float64(i)*w/float64(n-1)
		}
		points[i] = Point{
			X: x,
			Y: box.Padding.Top + h*(1-v/maxValue),
		}
	}
	return points
}

// Bars maps one series to bar rectangles. Each bar is centered within
// its slot; width is capped and heights are floored per opts.
func Bars(values []float64, box Box, maxValue float64, opts BarOptions) []Bar {
	n := len(values)
	if n == 0 {
		return nil
	}
	if maxValue < 1 {
		maxValue = 1
	}
	w, h := box.chartWidth(), box.chartHeight()
	slot := w / float64(n)
	barWidth := slot - opts.Gap
	if opts.MaxWidth > 0 && barWidth > opts.MaxWidth {
		barWidth = opts.MaxWidth
	}
	if barWidth < 1 {
		barWidth = 1
	}
	bars := make([]Bar, n)
	for i, v := range values {
		height := h * v / maxValue
		if height < opts.MinHeight {
			height = opts.MinHeight
		}
		if height > h {
			height = h
		}
		x := box.Padding.Left + float64(i)*slot + (slot-barWidth)/2
		bars[i] = Bar{
			X:      x,
			Y:      box.Padding.Top + h - height,
			Width:  barWidth,
			Height: height,
		}
	}
	return bars
}

// GridLines produces five horizontal reference lines at 0%, 25%, 50%,
// 75%, and 100% of the value range. With compact set, labels for values
// of 1000 and above collapse to "k" form for currency axes.
func GridLines(box Box, maxValue float64, compact bool) []GridLine {
	if maxValue < 1 {
		maxValue = 1
	}
	h := box.chartHeight()
	lines := make([]GridLine, 0, len(gridFractions))
	for _, f := range gridFractions {
		v := math.Round(maxValue * f)
		lines = append(lines, GridLine{
			Y:     box.Padding.Top + h*(1-f),
			Value: v,
			Label: formatGridLabel(v, compact),
		})
	}
	return lines
}

func formatGridLabel(v float64, compact bool) string {
	if compact && v >= 1000 {
		k := v / 1000
		// One decimal at most; "2k" rather than "2.0k".
		if k == math.Trunc(k) {
			return strconv.FormatFloat(k, 'f', 0, 64) + "k"
		}
		return strconv.FormatFloat(k, 'f', 1, 64) + "k"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
