package app

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"topocad/internal/tools"
	"topocad/pkg/geometry"
)

// hitRadius is the screen-space pick tolerance for point markers
const hitRadius = 9.0

// handleInput processes one frame of user input
func (app *App) handleInput(ctx context.Context) {
	mouse := rl.GetMousePosition()
	cursor := geometry.NewVec2(float64(mouse.X), float64(mouse.Y))

	app.handleToolKeys(ctx)
	app.Tool.hoveredPoint = app.pointAt(cursor)
	app.updateCursor()

	// Zoom to cursor
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		app.View.viewport = app.View.viewport.ZoomAt(cursor, float64(wheel))
		app.View.userMoved = true
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Tool.mouseDownPos = mouse
		app.Tool.mouseMoved = false

		if app.Tool.state.Active == tools.MovePoint && app.Tool.hoveredPoint != 0 {
			app.Tool.draggingPoint = app.Tool.hoveredPoint
			app.Tool.dragPos = app.View.viewport.ScreenToWorld(cursor)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			if rl.Vector2Distance(app.Tool.mouseDownPos, mouse) > 3.0 {
				app.Tool.mouseMoved = true
			}

			switch {
			case app.Tool.draggingPoint != 0:
				app.Tool.dragPos = app.View.viewport.ScreenToWorld(cursor)
			case app.Tool.state.Active == tools.Pan:
				app.View.viewport = app.View.viewport.Pan(
					geometry.NewVec2(float64(delta.X), float64(delta.Y)))
				app.View.userMoved = true
			}
		}
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		if app.Tool.draggingPoint != 0 {
			app.finishPointDrag(ctx)
		} else if !app.Tool.mouseMoved {
			app.handleClick(ctx)
		}
	}
}

func (app *App) handleToolKeys(ctx context.Context) {
	switch {
	case rl.IsKeyPressed(rl.KeyOne) || rl.IsKeyPressed(rl.KeyP):
		app.setTool(tools.Pan)
	case rl.IsKeyPressed(rl.KeyTwo) || rl.IsKeyPressed(rl.KeyM):
		app.setTool(tools.MovePoint)
	case rl.IsKeyPressed(rl.KeyThree) || rl.IsKeyPressed(rl.KeyD):
		app.setTool(tools.DrawLine)
	case rl.IsKeyPressed(rl.KeyFour) || rl.IsKeyPressed(rl.KeyX):
		app.setTool(tools.Measure)
	case rl.IsKeyPressed(rl.KeyC) && app.Tool.state.Active == tools.Measure:
		app.Tool.measurements.Clear()
		app.HUD.status = "mediciones borradas"
	case rl.IsKeyPressed(rl.KeyE):
		app.HUD.showElevations = !app.HUD.showElevations
	case rl.IsKeyPressed(rl.KeyL):
		app.HUD.showLayerPanel = !app.HUD.showLayerPanel
	case rl.IsKeyPressed(rl.KeyEscape):
		app.Tool.state = tools.ClearAnchor(app.Tool.state)
		app.Tool.measurements.Cancel()
	}

	if app.HUD.showLayerPanel {
		app.handleLayerPanelKeys(ctx)
	}
}

func (app *App) setTool(tool tools.Tool) {
	app.Tool.state = tools.SetTool(app.Tool.state, tool)
	app.Tool.draggingPoint = 0
	app.HUD.status = ""
}

func (app *App) updateCursor() {
	switch {
	case app.Tool.state.Active == tools.Pan:
		rl.SetMouseCursor(rl.MouseCursorResizeAll)
	case app.Tool.state.Active == tools.MovePoint && app.Tool.hoveredPoint != 0:
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	case app.Tool.state.Active == tools.DrawLine,
		app.Tool.state.Active == tools.Measure:
		rl.SetMouseCursor(rl.MouseCursorCrosshair)
	default:
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

// pointAt returns the id of the point whose marker is under the given
// screen position, preferring the closest within tolerance
func (app *App) pointAt(cursor geometry.Vec2) int {
	best := 0
	bestDist := hitRadius
	for _, p := range app.visiblePoints() {
		d := app.View.viewport.WorldToScreen(p.Pos()).Distance(cursor)
		if d <= bestDist {
			best = p.ID
			bestDist = d
		}
	}
	return best
}

func (app *App) finishPointDrag(ctx context.Context) {
	id := app.Tool.draggingPoint
	pos := app.Tool.dragPos
	app.Tool.draggingPoint = 0

	if !app.Tool.mouseMoved {
		return
	}

	// Keep the dragged position on screen until the refetch confirms
	app.Tool.moved[id] = pos
	app.scene.MovePoint(ctx, id, pos.X, pos.Y)
	app.HUD.status = fmt.Sprintf("moviendo punto %d a %.2f, %.2f", id, pos.X, pos.Y)
}

func (app *App) handleClick(ctx context.Context) {
	if app.Tool.hoveredPoint == 0 {
		return
	}

	if app.Tool.state.Active == tools.Measure {
		if p, ok := app.scene.PointsByID()[app.Tool.hoveredPoint]; ok {
			app.Tool.measurements.Pick(p)
			if n := len(app.Tool.measurements.Measurements); n > 0 && app.Tool.measurements.Pending == nil {
				app.HUD.status = app.Tool.measurements.Measurements[n-1].Label()
			}
		}
		return
	}

	state, action, seg := tools.ClickPoint(app.Tool.state, app.Tool.hoveredPoint, app.hasActiveLayer())
	app.Tool.state = state

	switch action {
	case tools.NeedLayer:
		// No layer to draw on: surface the panel instead of writing
		app.HUD.showLayerPanel = true
		app.HUD.status = "selecciona una capa activa para dibujar"
	case tools.AppendSegment:
		layer, ok := app.scene.ActiveLayerByID(app.Tool.activeLayerID)
		if !ok {
			return
		}
		app.scene.AppendSegment(ctx, layer, seg.From, seg.To)
		app.HUD.status = fmt.Sprintf("segmento %d-%d en capa %s", seg.From, seg.To, layer.Name)
	}
}

// handleLayerPanelKeys drives the layer panel: digits select the
// active layer, V toggles its visibility, N creates a layer.
func (app *App) handleLayerPanelKeys(ctx context.Context) {
	layers := app.scene.Layers

	for i, key := range []int32{rl.KeyF1, rl.KeyF2, rl.KeyF3, rl.KeyF4, rl.KeyF5, rl.KeyF6} {
		if i < len(layers) && rl.IsKeyPressed(key) {
			app.Tool.activeLayerID = layers[i].ID
			app.HUD.status = "capa activa: " + layers[i].Name
		}
	}

	if rl.IsKeyPressed(rl.KeyV) {
		if layer, ok := app.scene.ActiveLayerByID(app.Tool.activeLayerID); ok {
			app.scene.ToggleLayer(ctx, layer)
		}
	}

	if rl.IsKeyPressed(rl.KeyN) {
		palette := []string{"#f97316", "#22c55e", "#3b82f6", "#eab308", "#ec4899"}
		color := palette[len(layers)%len(palette)]
		app.scene.CreateLayer(ctx,
			fmt.Sprintf("Capa %d", len(layers)+1), color)
	}
}
