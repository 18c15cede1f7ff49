package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"topocad/internal/tools"
	"topocad/pkg/geometry"
	"topocad/pkg/plan"
)

const dashLength = 6.0

// drawScene replays a draw list on the GPU, back to front
func (app *App) drawScene(list plan.DrawList) {
	for _, line := range list.Radiations {
		drawDashedLine(line)
	}
	for _, line := range list.Segments {
		rl.DrawLineEx(toVector2(line.From), toVector2(line.To),
			float32(line.Width), rl.NewColor(line.Color.R, line.Color.G, line.Color.B, line.Color.A))
	}
	if ring := list.AnchorRing; ring != nil {
		rl.DrawRing(toVector2(ring.Center),
			float32(ring.Radius)-1.5, float32(ring.Radius)+1.5, 0, 360, 48,
			rl.NewColor(ring.Fill.R, ring.Fill.G, ring.Fill.B, ring.Fill.A))
	}
	for _, marker := range list.Markers {
		rl.DrawCircleV(toVector2(marker.Center), float32(marker.Radius),
			rl.NewColor(marker.Fill.R, marker.Fill.G, marker.Fill.B, marker.Fill.A))
	}
	for _, label := range list.Labels {
		rl.DrawText(label.Text, int32(label.Pos.X), int32(label.Pos.Y),
			int32(label.Size), rl.NewColor(label.Color.R, label.Color.G, label.Color.B, label.Color.A))
	}
}

// drawRubberBand previews the segment being drawn, from the anchor to
// the live cursor
func (app *App) drawRubberBand() {
	if app.Tool.state.Active != tools.DrawLine || app.Tool.state.Anchor == 0 {
		return
	}
	anchor, ok := app.scene.PointsByID()[app.Tool.state.Anchor]
	if !ok {
		return
	}

	from := toVector2(app.View.viewport.WorldToScreen(anchor.Pos()))
	to := rl.GetMousePosition()
	rl.DrawLineEx(from, to, 1.0, rl.NewColor(99, 102, 241, 160))
}

// drawMeasurements overlays the session's distance readings and the
// preview from an armed pick to the cursor
func (app *App) drawMeasurements() {
	measureColor := rl.NewColor(250, 204, 21, 220)

	for _, m := range app.Tool.measurements.Measurements {
		from := toVector2(app.View.viewport.WorldToScreen(m.From.Pos()))
		to := toVector2(app.View.viewport.WorldToScreen(m.To.Pos()))
		rl.DrawLineEx(from, to, 1.5, measureColor)

		mid := rl.Vector2{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
		rl.DrawText(m.Label(), int32(mid.X)+6, int32(mid.Y)-14, 12, measureColor)
	}

	if app.Tool.state.Active == tools.Measure && app.Tool.measurements.Pending != nil {
		from := toVector2(app.View.viewport.WorldToScreen(app.Tool.measurements.Pending.Pos()))
		rl.DrawLineEx(from, rl.GetMousePosition(), 1.0, rl.NewColor(250, 204, 21, 140))
	}
}

func drawDashedLine(line plan.Line) {
	delta := line.To.Sub(line.From)
	length := delta.Length()
	if length == 0 {
		return
	}
	dir := delta.Mul(1.0 / length)
	col := rl.NewColor(line.Color.R, line.Color.G, line.Color.B, line.Color.A)

	for t := 0.0; t < length; t += 2 * dashLength {
		end := t + dashLength
		if end > length {
			end = length
		}
		rl.DrawLineEx(
			toVector2(line.From.Add(dir.Mul(t))),
			toVector2(line.From.Add(dir.Mul(end))),
			float32(line.Width), col)
	}
}

func toVector2(v geometry.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
