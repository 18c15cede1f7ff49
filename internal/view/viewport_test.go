package view

import (
	"math"
	"testing"

	"topocad/pkg/geometry"
	"topocad/pkg/survey"
)

func almostEqual(a, b geometry.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestFitToExtentsScenario(t *testing.T) {
	// Two points spanning (0,0)-(10,10) in an 800x600 view with 50px
	// padding: scale = min(700/10, 500/10) = 50 and the box center
	// (5,5) lands on the viewport center (400,300).
	points := []survey.Point{
		{ID: 1, X: 0, Y: 0, IsFixed: true, Name: "BM1"},
		{ID: 2, X: 10, Y: 10, Name: "P2"},
	}
	vp := FitToExtents(survey.Extents(points), 800, 600, 50)

	if math.Abs(vp.Scale-50) > 1e-9 {
		t.Errorf("expected scale 50, got %v", vp.Scale)
	}

	center := vp.WorldToScreen(geometry.NewVec2(5, 5))
	if !almostEqual(center, geometry.NewVec2(400, 300)) {
		t.Errorf("expected center (400,300), got %v", center)
	}
}

func TestFitToExtentsFitsInsideViewport(t *testing.T) {
	bounds := geometry.NewBounds()
	bounds.Extend(geometry.NewVec2(-120, 40))
	bounds.Extend(geometry.NewVec2(300, 910))

	width, height, padding := 1024.0, 768.0, 40.0
	vp := FitToExtents(bounds, width, height, padding)

	if vp.Scale <= 0 {
		t.Fatalf("scale must be positive, got %v", vp.Scale)
	}

	for _, corner := range []geometry.Vec2{
		bounds.Min,
		bounds.Max,
		{X: bounds.Min.X, Y: bounds.Max.Y},
		{X: bounds.Max.X, Y: bounds.Min.Y},
	} {
		s := vp.WorldToScreen(corner)
		if s.X < padding-1e-6 || s.X > width-padding+1e-6 ||
			s.Y < padding-1e-6 || s.Y > height-padding+1e-6 {
			t.Errorf("corner %v maps outside padded viewport: %v", corner, s)
		}
	}
}

func TestFitToExtentsSmallSite(t *testing.T) {
	// A 2x2 site must fill the padded viewport; the minimum extent
	// substitution only applies to zero-size axes.
	bounds := geometry.NewBounds()
	bounds.Extend(geometry.NewVec2(0, 0))
	bounds.Extend(geometry.NewVec2(2, 2))

	vp := FitToExtents(bounds, 800, 600, 50)

	// scale = min(700/2, 500/2) = 250
	if math.Abs(vp.Scale-250) > 1e-9 {
		t.Errorf("expected scale 250, got %v", vp.Scale)
	}
}

func TestFitToExtentsDegenerateAxis(t *testing.T) {
	// All points on a vertical line: width is zero, the minimum
	// extent substitution keeps the scale finite.
	bounds := geometry.NewBounds()
	bounds.Extend(geometry.NewVec2(5, 0))
	bounds.Extend(geometry.NewVec2(5, 100))

	vp := FitToExtents(bounds, 800, 600, 50)
	if math.IsInf(vp.Scale, 0) || math.IsNaN(vp.Scale) || vp.Scale <= 0 {
		t.Errorf("degenerate axis produced scale %v", vp.Scale)
	}
}

func TestFitToExtentsEmpty(t *testing.T) {
	vp := FitToExtents(geometry.NewBounds(), 800, 600, 50)

	if vp.Scale != DefaultScale {
		t.Errorf("expected default scale %v, got %v", DefaultScale, vp.Scale)
	}
	origin := vp.WorldToScreen(geometry.NewVec2(0, 0))
	if !almostEqual(origin, geometry.NewVec2(400, 300)) {
		t.Errorf("expected origin at viewport center, got %v", origin)
	}
}

func TestWorldScreenRoundTrip(t *testing.T) {
	vp := Viewport{Scale: 3.7, OffsetX: 123.4, OffsetY: -56.7}

	for _, p := range []geometry.Vec2{
		{X: 0, Y: 0},
		{X: 1000.5, Y: -2000.25},
		{X: -3.14, Y: 2.71},
	} {
		back := vp.ScreenToWorld(vp.WorldToScreen(p))
		if !almostEqual(p, back) {
			t.Errorf("round trip failed for %v: got %v", p, back)
		}
	}
}

func TestWorldToScreenNegatesY(t *testing.T) {
	vp := Viewport{Scale: 2, OffsetX: 0, OffsetY: 0}

	north := vp.WorldToScreen(geometry.NewVec2(0, 10))
	if north.Y != -20 {
		t.Errorf("world north should map to decreasing screen y, got %v", north.Y)
	}
}

func TestZoomAtKeepsCursorAnchored(t *testing.T) {
	cursor := geometry.NewVec2(250, 410)

	for _, start := range []Viewport{
		{Scale: 1, OffsetX: 0, OffsetY: 0},
		{Scale: 50, OffsetX: 400, OffsetY: 300},
		{Scale: 0.01, OffsetX: -900, OffsetY: 77},
	} {
		for _, wheel := range []float64{1, -1} {
			before := start.ScreenToWorld(cursor)
			zoomed := start.ZoomAt(cursor, wheel)
			after := zoomed.ScreenToWorld(cursor)

			if !almostEqual(before, after) {
				t.Errorf("zoom moved the anchor: scale %v wheel %v: %v -> %v",
					start.Scale, wheel, before, after)
			}
		}
	}
}

func TestZoomAtStep(t *testing.T) {
	vp := Viewport{Scale: 10, OffsetX: 0, OffsetY: 0}

	in := vp.ZoomAt(geometry.NewVec2(100, 100), 1)
	if math.Abs(in.Scale-11) > 1e-9 {
		t.Errorf("expected scale 11 after zoom in, got %v", in.Scale)
	}

	out := vp.ZoomAt(geometry.NewVec2(100, 100), -1)
	if math.Abs(out.Scale-10/1.1) > 1e-9 {
		t.Errorf("expected scale %v after zoom out, got %v", 10/1.1, out.Scale)
	}
}

func TestPan(t *testing.T) {
	vp := Viewport{Scale: 2, OffsetX: 10, OffsetY: 20}
	moved := vp.Pan(geometry.NewVec2(5, -3))

	if moved.OffsetX != 15 || moved.OffsetY != 17 {
		t.Errorf("unexpected pan result: %+v", moved)
	}
	if moved.Scale != vp.Scale {
		t.Error("pan must not change scale")
	}
}
