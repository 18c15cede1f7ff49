package analysis

import (
	"math"
	"testing"

	"topocad/pkg/survey"
)

func squarePoints() map[int]survey.Point {
	return survey.PointsByID([]survey.Point{
		{ID: 1, Name: "A", X: 0, Y: 0, Z: 100},
		{ID: 2, Name: "B", X: 10, Y: 0, Z: 101},
		{ID: 3, Name: "C", X: 10, Y: 10, Z: 102},
		{ID: 4, Name: "D", X: 0, Y: 10, Z: 101},
	})
}

func TestAnalyzeDrawingLengths(t *testing.T) {
	drawing := survey.DrawingData{Lines: []survey.SegmentRef{
		{From: 1, To: 2},
		{From: 2, To: 3},
	}}
	result := AnalyzeDrawing(drawing, squarePoints())

	if len(result.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(result.Segments))
	}
	if result.TotalLength != 20 {
		t.Errorf("total length = %v, want 20", result.TotalLength)
	}
	if result.MinLength != 10 || result.MaxLength != 10 {
		t.Errorf("min/max = %v/%v, want 10/10", result.MinLength, result.MaxLength)
	}
	if result.DanglingCount != 0 {
		t.Errorf("dangling = %d, want 0", result.DanglingCount)
	}
}

func TestAnalyzeDrawingCountsDangling(t *testing.T) {
	drawing := survey.DrawingData{Lines: []survey.SegmentRef{
		{From: 1, To: 2},
		{From: 2, To: 99},
	}}
	result := AnalyzeDrawing(drawing, squarePoints())

	if len(result.Segments) != 1 {
		t.Errorf("segments = %d, want 1", len(result.Segments))
	}
	if result.DanglingCount != 1 {
		t.Errorf("dangling = %d, want 1", result.DanglingCount)
	}
}

func TestAnalyzeDrawingClosedArea(t *testing.T) {
	drawing := survey.DrawingData{Lines: []survey.SegmentRef{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 3, To: 4},
		{From: 4, To: 1},
	}}
	result := AnalyzeDrawing(drawing, squarePoints())

	if result.ClosedArea != 100 {
		t.Errorf("area = %v, want 100 for a 10x10 ring", result.ClosedArea)
	}
}

func TestAnalyzeDrawingOpenChainHasNoArea(t *testing.T) {
	drawing := survey.DrawingData{Lines: []survey.SegmentRef{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 3, To: 4},
	}}
	result := AnalyzeDrawing(drawing, squarePoints())

	if result.ClosedArea != 0 {
		t.Errorf("area = %v, want 0 for an open chain", result.ClosedArea)
	}
}

func TestDistances(t *testing.T) {
	p1 := survey.Point{X: 0, Y: 0, Z: 100}
	p2 := survey.Point{X: 3, Y: 4, Z: 112}

	if got := Distance2D(p1, p2); got != 5 {
		t.Errorf("Distance2D = %v, want 5", got)
	}
	if got := Distance3D(p1, p2); got != 13 {
		t.Errorf("Distance3D = %v, want 13", got)
	}
}

func TestAzimuthQuadrants(t *testing.T) {
	origin := survey.Point{X: 0, Y: 0}
	tests := []struct {
		name string
		to   survey.Point
		want float64
	}{
		{"north", survey.Point{X: 0, Y: 10}, 0},
		{"east", survey.Point{X: 10, Y: 0}, 90},
		{"south", survey.Point{X: 0, Y: -10}, 180},
		{"west", survey.Point{X: -10, Y: 0}, 270},
		{"northeast", survey.Point{X: 10, Y: 10}, 45},
	}
	for _, tt := range tests {
		got := Azimuth(origin, tt.to)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: azimuth = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGrade(t *testing.T) {
	p1 := survey.Point{X: 0, Y: 0, Z: 100}
	p2 := survey.Point{X: 100, Y: 0, Z: 102}

	if got := Grade(p1, p2); got != 2 {
		t.Errorf("grade = %v%%, want 2%%", got)
	}
	if got := Grade(p1, p1); got != 0 {
		t.Errorf("grade at coincident points = %v, want 0", got)
	}
}

func TestLongestSegments(t *testing.T) {
	points := survey.PointsByID([]survey.Point{
		{ID: 1, X: 0, Y: 0},
		{ID: 2, X: 1, Y: 0},
		{ID: 3, X: 50, Y: 0},
	})
	drawing := survey.DrawingData{Lines: []survey.SegmentRef{
		{From: 1, To: 2},
		{From: 1, To: 3},
	}}
	result := AnalyzeDrawing(drawing, points)

	longest := LongestSegments(result, 1)
	if len(longest) != 1 {
		t.Fatalf("longest = %d, want 1", len(longest))
	}
	if longest[0].Length != 50 {
		t.Errorf("longest length = %v, want 50", longest[0].Length)
	}
}

func TestFormatAzimuth(t *testing.T) {
	got := FormatAzimuth(45.5)
	if got != `45°30'00.0"` {
		t.Errorf("FormatAzimuth(45.5) = %q", got)
	}
}
