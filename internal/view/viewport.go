package view

import (
	"topocad/pkg/geometry"
)

const (
	// DefaultScale is used when there are no points to fit
	DefaultScale = 5.0

	// minExtent substitutes for a degenerate (zero-size) bounding-box
	// axis so the fit never divides by zero
	minExtent = 10.0

	degenerateExtent = 1e-9

	zoomStep = 1.1
	minScale = 1e-6
	maxScale = 1e6
)

// Viewport maps world (survey grid) coordinates to screen pixels.
// Scale is world-units-to-pixels; OffsetX/OffsetY is the pixel
// position of the world origin. World north (+Y) maps to decreasing
// screen Y.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// FitToExtents computes the viewport that frames the given world
// bounds inside a width x height screen with the given pixel padding,
// preserving aspect ratio. Empty bounds yield a default view centered
// on the world origin.
func FitToExtents(bounds geometry.Bounds, width, height, padding float64) Viewport {
	if bounds.IsEmpty() {
		return Viewport{
			Scale:   DefaultScale,
			OffsetX: width / 2,
			OffsetY: height / 2,
		}
	}

	size := bounds.Size()
	dataWidth := size.X
	dataHeight := size.Y
	if dataWidth < degenerateExtent {
		dataWidth = minExtent
	}
	if dataHeight < degenerateExtent {
		dataHeight = minExtent
	}

	scaleX := (width - 2*padding) / dataWidth
	scaleY := (height - 2*padding) / dataHeight
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	center := bounds.Center()
	return Viewport{
		Scale:   scale,
		OffsetX: width/2 - center.X*scale,
		OffsetY: height/2 + center.Y*scale,
	}
}

// WorldToScreen maps a world point to screen pixels
func (v Viewport) WorldToScreen(p geometry.Vec2) geometry.Vec2 {
	return geometry.Vec2{
		X: p.X*v.Scale + v.OffsetX,
		Y: -p.Y*v.Scale + v.OffsetY,
	}
}

// ScreenToWorld maps screen pixels back to world coordinates
func (v Viewport) ScreenToWorld(p geometry.Vec2) geometry.Vec2 {
	return geometry.Vec2{
		X: (p.X - v.OffsetX) / v.Scale,
		Y: -(p.Y - v.OffsetY) / v.Scale,
	}
}

// ZoomAt zooms by one wheel notch toward (wheel > 0) or away from
// (wheel < 0) the cursor. The world point under the cursor stays under
// the cursor, so the view never jumps.
func (v Viewport) ZoomAt(cursor geometry.Vec2, wheel float64) Viewport {
	if wheel == 0 {
		return v
	}

	anchor := v.ScreenToWorld(cursor)

	scale := v.Scale
	if wheel > 0 {
		scale *= zoomStep
	} else {
		scale /= zoomStep
	}
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}

	return Viewport{
		Scale:   scale,
		OffsetX: cursor.X - anchor.X*scale,
		OffsetY: cursor.Y + anchor.Y*scale,
	}
}

// Pan shifts the view by a pixel delta
func (v Viewport) Pan(delta geometry.Vec2) Viewport {
	v.OffsetX += delta.X
	v.OffsetY += delta.Y
	return v
}
