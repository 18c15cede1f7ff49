// Package analysis derives plan measurements from survey data:
// distances, azimuths, grades, traverse lengths and enclosed areas.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"topocad/pkg/geometry"
	"topocad/pkg/survey"
)

// SegmentInfo describes one resolved drawing segment
type SegmentInfo struct {
	From    survey.Point
	To      survey.Point
	Length  float64
	Azimuth float64
}

// DrawingResult summarizes the measurable geometry of a layer drawing
type DrawingResult struct {
	Segments      []SegmentInfo
	TotalLength   float64
	MinLength     float64
	MaxLength     float64
	DanglingCount int
	ClosedArea    float64
	Extents       geometry.Bounds
}

// AnalyzeDrawing measures every segment of a drawing that resolves
// against the point set. Unresolvable references are counted, not
// measured. If the segments chain into a closed ring the enclosed
// area is reported.
func AnalyzeDrawing(drawing survey.DrawingData, points map[int]survey.Point) *DrawingResult {
	result := &DrawingResult{
		Segments: make([]SegmentInfo, 0, len(drawing.Lines)),
		Extents:  geometry.NewBounds(),
	}

	minLength := math.MaxFloat64
	for _, ref := range drawing.Lines {
		from, to, ok := survey.ResolveSegment(ref, points)
		if !ok {
			result.DanglingCount++
			continue
		}

		length := Distance2D(from, to)
		result.Segments = append(result.Segments, SegmentInfo{
			From:    from,
			To:      to,
			Length:  length,
			Azimuth: Azimuth(from, to),
		})
		result.TotalLength += length
		if length < minLength {
			minLength = length
		}
		if length > result.MaxLength {
			result.MaxLength = length
		}
		result.Extents.Extend(from.Pos())
		result.Extents.Extend(to.Pos())
	}

	if len(result.Segments) > 0 {
		result.MinLength = minLength
	}
	if ring, ok := closedRing(drawing.Lines); ok {
		result.ClosedArea = ringArea(ring, points)
	}
	return result
}

// LongestSegments returns the N longest resolved segments
func LongestSegments(result *DrawingResult, count int) []SegmentInfo {
	segments := make([]SegmentInfo, len(result.Segments))
	copy(segments, result.Segments)

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Length > segments[j].Length
	})

	if count > len(segments) {
		count = len(segments)
	}
	return segments[:count]
}

// Distance2D is the horizontal distance between two points
func Distance2D(p1, p2 survey.Point) float64 {
	return p1.Pos().Distance(p2.Pos())
}

// Distance3D is the slope distance between two points
func Distance3D(p1, p2 survey.Point) float64 {
	dh := Distance2D(p1, p2)
	dz := p2.Z - p1.Z
	return math.Sqrt(dh*dh + dz*dz)
}

// Azimuth is the bearing from p1 to p2 in decimal degrees, measured
// clockwise from grid north in [0, 360).
func Azimuth(p1, p2 survey.Point) float64 {
	az := math.Atan2(p2.X-p1.X, p2.Y-p1.Y) * 180 / math.Pi
	if az < 0 {
		az += 360
	}
	return az
}

// Grade is the slope between two points as a percentage. Coincident
// plan positions yield 0.
func Grade(p1, p2 survey.Point) float64 {
	dh := Distance2D(p1, p2)
	if dh == 0 {
		return 0
	}
	return (p2.Z - p1.Z) / dh * 100
}

// closedRing orders segment refs into a single closed loop of point
// ids. It reports false for open chains, branches and empty drawings.
func closedRing(lines []survey.SegmentRef) ([]int, bool) {
	if len(lines) < 3 {
		return nil, false
	}

	next := make(map[int]int, len(lines))
	for _, ref := range lines {
		if _, dup := next[ref.From]; dup {
			return nil, false
		}
		next[ref.From] = ref.To
	}

	start := lines[0].From
	ring := []int{start}
	current := start
	for range lines {
		to, ok := next[current]
		if !ok {
			return nil, false
		}
		if to == start {
			return ring, len(ring) == len(lines)
		}
		ring = append(ring, to)
		current = to
	}
	return nil, false
}

// ringArea computes the enclosed area of an ordered ring by the
// shoelace formula
func ringArea(ring []int, points map[int]survey.Point) float64 {
	sum := 0.0
	for i, id := range ring {
		p1, ok1 := points[id]
		p2, ok2 := points[ring[(i+1)%len(ring)]]
		if !ok1 || !ok2 {
			return 0
		}
		sum += p1.X*p2.Y - p2.X*p1.Y
	}
	return math.Abs(sum) / 2
}

// FormatDistance formats a distance in meters
func FormatDistance(value float64) string {
	return fmt.Sprintf("%.3f m", value)
}

// FormatAzimuth formats an azimuth in degrees, minutes and seconds
func FormatAzimuth(degrees float64) string {
	d := int(degrees)
	minFloat := (degrees - float64(d)) * 60
	m := int(minFloat)
	s := (minFloat - float64(m)) * 60
	return fmt.Sprintf("%d°%02d'%04.1f\"", d, m, s)
}
