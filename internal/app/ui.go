package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"topocad/internal/tools"
	"topocad/pkg/geometry"
	"topocad/pkg/plan"
)

var (
	hudText   = rl.NewColor(226, 232, 240, 255)
	hudDim    = rl.NewColor(148, 163, 184, 255)
	hudAccent = rl.NewColor(99, 102, 241, 255)
	hudError  = rl.NewColor(239, 68, 68, 255)
	hudPanel  = rl.NewColor(15, 23, 42, 230)
)

// drawHUD draws the toolbar, status bar and layer panel
func (app *App) drawHUD() {
	screenWidth := app.screenWidth
	screenHeight := app.screenHeight

	if !app.scene.Ready() {
		app.drawLoadingState()
		return
	}

	// Top bar: project, tool, scale
	rl.DrawRectangle(0, 0, screenWidth, 36, hudPanel)
	rl.DrawText(app.scene.Project.Name, 12, 9, 18, hudText)

	toolText := fmt.Sprintf("[1] pan  [2] mover  [3] dibujar  [4] medir   activo: %s", app.Tool.state.Active)
	rl.DrawText(toolText, 320, 11, 14, hudDim)
	rl.DrawText(fmt.Sprintf("escala %.2f px/m", app.View.viewport.Scale),
		screenWidth-180, 11, 14, hudDim)

	// Bottom status bar
	rl.DrawRectangle(0, screenHeight-28, screenWidth, 28, hudPanel)
	mouse := rl.GetMousePosition()
	world := app.View.viewport.ScreenToWorld(vec2FromMouse(mouse))
	rl.DrawText(fmt.Sprintf("E %.2f  N %.2f", world.X, world.Y), 12, screenHeight-22, 14, hudDim)

	if app.scene.LastError != "" {
		rl.DrawText(app.scene.LastError, 220, screenHeight-22, 14, hudError)
	} else if app.HUD.status != "" {
		rl.DrawText(app.HUD.status, 220, screenHeight-22, 14, hudText)
	}

	hint := "[L] capas  [E] cotas  [Esc] cancelar"
	rl.DrawText(hint, screenWidth-300, screenHeight-22, 14, hudDim)

	if app.HUD.showLayerPanel {
		app.drawLayerPanel()
	}

	if app.Tool.state.Active == tools.DrawLine && app.Tool.state.Anchor != 0 {
		rl.DrawText(fmt.Sprintf("dibujando desde punto %d", app.Tool.state.Anchor),
			12, 44, 14, hudAccent)
	}
	if app.Tool.state.Active == tools.Measure {
		rl.DrawText(fmt.Sprintf("mediciones: %d   [C] borrar", len(app.Tool.measurements.Measurements)),
			12, 44, 14, hudAccent)
	}
}

func (app *App) drawLoadingState() {
	msg := "cargando proyecto..."
	color := hudDim
	if app.scene.LoadErr != nil {
		msg = "error cargando el proyecto: " + app.scene.LoadErr.Error()
		color = hudError
	}
	width := rl.MeasureText(msg, 18)
	rl.DrawText(msg, (app.screenWidth-width)/2, app.screenHeight/2-9, 18, color)
}

// drawLayerPanel lists layers with visibility and the active marker
func (app *App) drawLayerPanel() {
	panelWidth := int32(300)
	x := app.screenWidth - panelWidth - 16
	y := int32(48)
	rowHeight := int32(24)
	height := rowHeight*int32(len(app.scene.Layers)+2) + 16

	rl.DrawRectangle(x, y, panelWidth, height, hudPanel)
	rl.DrawRectangleLines(x, y, panelWidth, height, hudDim)
	rl.DrawText("capas   [F1..] activa  [V] visible  [N] nueva", x+10, y+8, 12, hudDim)

	for i, layer := range app.scene.Layers {
		rowY := y + 8 + rowHeight*int32(i+1)

		swatch := layerSwatch(layer.Color)
		rl.DrawRectangle(x+10, rowY+3, 12, 12, swatch)

		name := layer.Name
		if !layer.Visible {
			name += " (oculta)"
		}
		color := hudText
		if layer.ID == app.Tool.activeLayerID {
			color = hudAccent
		}
		rl.DrawText(fmt.Sprintf("F%d  %s  (%d lineas)", i+1, name, len(layer.Drawing().Lines)),
			x+30, rowY, 14, color)
	}

	if len(app.scene.Layers) == 0 {
		rl.DrawText("sin capas: [N] crea la primera", x+10, y+8+rowHeight, 14, hudText)
	}
}

func vec2FromMouse(v rl.Vector2) geometry.Vec2 {
	return geometry.NewVec2(float64(v.X), float64(v.Y))
}

func layerSwatch(hex string) rl.Color {
	c := plan.ParseHexColor(hex)
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
