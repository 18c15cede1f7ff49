package geometry

import "math"

// Bounds represents an axis-aligned bounding box in the survey plane
type Bounds struct {
	Min Vec2
	Max Vec2
}

// NewBounds creates an empty bounding box
func NewBounds() Bounds {
	return Bounds{
		Min: Vec2{X: math.MaxFloat64, Y: math.MaxFloat64},
		Max: Vec2{X: -math.MaxFloat64, Y: -math.MaxFloat64},
	}
}

// Extend expands the bounding box to include a point
func (b *Bounds) Extend(point Vec2) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether the box has never been extended
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Size returns the dimensions of the bounding box
func (b Bounds) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b Bounds) Center() Vec2 {
	return Vec2{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b Bounds) Diagonal() float64 {
	return b.Size().Length()
}
