// Package plan turns survey data into a 2D draw list. Build is a pure
// function of scene data, viewport and tool state; the raylib viewer
// replays the list on the GPU and Rasterize replays it onto an image
// for previews and exports.
package plan

import (
	"fmt"
	"image/color"

	"topocad/internal/tools"
	"topocad/internal/view"
	"topocad/pkg/geometry"
	"topocad/pkg/survey"
)

// Line is a straight stroke in screen pixels
type Line struct {
	From   geometry.Vec2
	To     geometry.Vec2
	Width  float64
	Color  color.RGBA
	Dashed bool
}

// Marker is a filled circle in screen pixels
type Marker struct {
	Center geometry.Vec2
	Radius float64
	Fill   color.RGBA
}

// Label is a text annotation in screen pixels
type Label struct {
	Pos   geometry.Vec2
	Text  string
	Size  float64
	Color color.RGBA
}

// DrawList is a complete scene in draw order: radiations behind,
// then manual segments, then the anchor ring, then point markers and
// labels in front so lines never obscure them.
type DrawList struct {
	Radiations []Line
	Segments   []Line
	AnchorRing *Marker
	Markers    []Marker
	Labels     []Label
}

// Input is everything a frame depends on
type Input struct {
	Points   []survey.Point
	Stations []survey.Station
	Layers   []survey.Layer
	Viewport view.Viewport
	Tool     tools.State

	// ShowElevations adds a z label under each point name
	ShowElevations bool
}

var (
	radiationColor = color.RGBA{R: 71, G: 85, B: 105, A: 255}
	anchorColor    = color.RGBA{R: 99, G: 102, B: 241, A: 255}
	labelColor     = color.RGBA{R: 226, G: 232, B: 240, A: 255}
	elevationColor = color.RGBA{R: 148, G: 163, B: 184, A: 255}
)

const (
	radiationWidth = 1.0
	segmentWidth   = 1.5
	markerRadius   = 4.0
	fixedRadius    = 6.0
	anchorRadius   = 10.0
	labelSize      = 12.0
	labelOffset    = 8.0
)

// Build maps the scene to its draw list. Stroke widths, marker radii
// and label sizes are constant in screen space, so zooming changes
// only geometry, never legibility. Dangling layer segments and
// unresolved observations are skipped silently.
func Build(in Input) DrawList {
	var list DrawList
	pointsByID := survey.PointsByID(in.Points)

	// Station sight lines, dashed, in the background
	for _, station := range in.Stations {
		if station.OccupiedPoint == nil {
			continue
		}
		from := in.Viewport.WorldToScreen(station.OccupiedPoint.Pos())
		for _, obs := range station.Observations {
			if obs.TargetPoint == nil {
				continue
			}
			list.Radiations = append(list.Radiations, Line{
				From:   from,
				To:     in.Viewport.WorldToScreen(obs.TargetPoint.Pos()),
				Width:  radiationWidth,
				Color:  radiationColor,
				Dashed: true,
			})
		}
	}

	// Manual segments of visible layers
	for _, layer := range in.Layers {
		if !layer.Visible {
			continue
		}
		layerColor := ParseHexColor(layer.Color)
		for _, seg := range layer.Drawing().Lines {
			p1, p2, ok := survey.ResolveSegment(seg, pointsByID)
			if !ok {
				continue
			}
			list.Segments = append(list.Segments, Line{
				From:  in.Viewport.WorldToScreen(p1.Pos()),
				To:    in.Viewport.WorldToScreen(p2.Pos()),
				Width: segmentWidth,
				Color: layerColor,
			})
		}
	}

	// Drawing-in-progress feedback: ring around the anchor
	if in.Tool.Active == tools.DrawLine && in.Tool.Anchor != 0 {
		if anchor, ok := pointsByID[in.Tool.Anchor]; ok {
			list.AnchorRing = &Marker{
				Center: in.Viewport.WorldToScreen(anchor.Pos()),
				Radius: anchorRadius,
				Fill:   anchorColor,
			}
		}
	}

	// Point markers and labels in front
	for _, p := range in.Points {
		pos := in.Viewport.WorldToScreen(p.Pos())

		radius := markerRadius
		if p.IsFixed {
			radius = fixedRadius
		}
		fill := survey.ClassifyCode(p.Code).Color
		if in.Tool.Active == tools.DrawLine && in.Tool.Anchor == p.ID {
			fill = anchorColor
		}
		list.Markers = append(list.Markers, Marker{Center: pos, Radius: radius, Fill: fill})

		list.Labels = append(list.Labels, Label{
			Pos:   geometry.NewVec2(pos.X+labelOffset, pos.Y-labelOffset),
			Text:  p.Name,
			Size:  labelSize,
			Color: labelColor,
		})
		if in.ShowElevations {
			list.Labels = append(list.Labels, Label{
				Pos:   geometry.NewVec2(pos.X+labelOffset, pos.Y+labelOffset),
				Text:  fmt.Sprintf("%.2f", p.Z),
				Size:  labelSize - 2,
				Color: elevationColor,
			})
		}
	}

	return list
}
