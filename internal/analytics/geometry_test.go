package analytics

import (
	"math"
	"testing"
)

func testBox() Box {
	return Box{
		Width:   320,
		Height:  200,
		Padding: Padding{Top: 10, Right: 10, Bottom: 20, Left: 30},
	}
}

func TestMaxValueFloorsAtOne(t *testing.T) {
	if got := MaxValue(); got != 1 {
		t.Errorf("no series: MaxValue() = %v, want 1", got)
	}
	if got := MaxValue([]float64{0, 0, 0}); got != 1 {
		t.Errorf("all-zero series: MaxValue() = %v, want 1", got)
	}
	if got := MaxValue([]float64{2, 8}, []float64{5, 12}); got != 12 {
		t.Errorf("MaxValue across series = %v, want 12", got)
	}
}

func TestLinePointsSpacingAndScale(t *testing.T) {
	box := testBox()
	values := []float64{0, 50, 100}
	points := LinePoints(values, box, 100)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	// Evenly spaced from padding.left to width-padding.right.
	if points[0].X != 30 || points[2].X != 310 {
		t.Errorf("x range [%v, %v], want [30, 310]", points[0].X, points[2].X)
	}
	if points[1].X != 170 {
		t.Errorf("middle x = %v, want 170", points[1].X)
	}
	// chartHeight = 170; value 0 sits at the bottom, max at the top.
	if points[0].Y != 180 || points[2].Y != 10 {
		t.Errorf("y endpoints [%v, %v], want [180, 10]", points[0].Y, points[2].Y)
	}
	if points[1].Y != 95 {
		t.Errorf("middle y = %v, want 95", points[1].Y)
	}
}

func TestLinePointsSinglePointCentered(t *testing.T) {
	points := LinePoints([]float64{5}, testBox(), 10)
	if len(points) != 1 || points[0].X != 170 {
		t.Fatalf("single point should center: %v", points)
	}
}

// All-zero series must still yield finite, defined coordinates.
func TestGeometryAllZeroSeriesFinite(t *testing.T) {
	box := testBox()
	values := []float64{0, 0, 0, 0}
	max := MaxValue(values)

	for _, p := range LinePoints(values, box, max) {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("non-finite point: %+v", p)
		}
	}
	for _, b := range Bars(values, box, max, DefaultBarOptions()) {
		for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite bar: %+v", b)
			}
		}
	}
	for _, g := range GridLines(box, max, false) {
		if math.IsNaN(g.Y) || math.IsInf(g.Y, 0) {
			t.Fatalf("non-finite grid line: %+v", g)
		}
	}
}

func TestBarsSizingAndFloor(t *testing.T) {
	box := testBox() // chart area 280x170
	values := []float64{0, 85, 170}
	opts := BarOptions{Gap: 8, MaxWidth: 40, MinHeight: 15}
	bars := Bars(values, box, 170, opts)

	// slot = 280/3; width capped at 40.
	if bars[0].Width != 40 {
		t.Errorf("bar width = %v, want 40 (capped)", bars[0].Width)
	}
	// Zero value keeps the cosmetic floor.
	if bars[0].Height != 15 {
		t.Errorf("zero bar height = %v, want floor 15", bars[0].Height)
	}
	if bars[1].Height != 85 || bars[2].Height != 170 {
		t.Errorf("heights = %v, %v; want 85, 170", bars[1].Height, bars[2].Height)
	}
	// Bars grow upward from the chart bottom.
	if bars[2].Y != 10 {
		t.Errorf("full bar y = %v, want 10", bars[2].Y)
	}

	// Floor disabled: zero bar collapses.
	opts.MinHeight = 0
	bars = Bars(values, box, 170, opts)
	if bars[0].Height != 0 {
		t.Errorf("with floor off, zero bar height = %v, want 0", bars[0].Height)
	}
}

func TestBarsCenteredInSlot(t *testing.T) {
	box := Box{Width: 100, Height: 100}
	bars := Bars([]float64{1, 1}, box, 1, BarOptions{Gap: 10})
	// slot = 50, width = 40, first bar centered at x=5.
	if bars[0].X != 5 || bars[1].X != 55 {
		t.Errorf("bar x = %v, %v; want 5, 55", bars[0].X, bars[1].X)
	}
}

func TestGridLines(t *testing.T) {
	box := testBox()
	lines := GridLines(box, 200, false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 grid lines, got %d", len(lines))
	}
	wantValues := []float64{0, 50, 100, 150, 200}
	for i, line := range lines {
		if line.Value != wantValues[i] {
			t.Errorf("line %d value = %v, want %v", i, line.Value, wantValues[i])
		}
	}
	// Bottom line at chart bottom, top line at padding top.
	if lines[0].Y != 180 || lines[4].Y != 10 {
		t.Errorf("y endpoints [%v, %v], want [180, 10]", lines[0].Y, lines[4].Y)
	}
}

func TestGridLabelCompaction(t *testing.T) {
	cases := []struct {
		value   float64
		compact bool
		want    string
	}{
		{500, true, "500"},
		{1000, true, "1k"},
		{1500, true, "1.5k"},
		{12000, true, "12k"},
		{1500, false, "1500"},
	}
	for _, tc := range cases {
		if got := formatGridLabel(tc.value, tc.compact); got != tc.want {
			t.Errorf("formatGridLabel(%v, %v) = %q, want %q", tc.value, tc.compact, got, tc.want)
		}
	}
}
