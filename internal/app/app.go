package app

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"topocad/internal/scene"
	"topocad/internal/tools"
	"topocad/internal/view"
	"topocad/pkg/geometry"
	"topocad/pkg/plan"
	"topocad/pkg/survey"
)

const fitPadding = 50.0

// Run opens the interactive plan viewer for a project and blocks
// until the window closes.
func Run(backend scene.Backend, projectID int, log *zap.Logger) {
	screenWidth := int32(1400)
	screenHeight := int32(900)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(screenWidth, screenHeight, "TopoCAD")
	rl.SetTargetFPS(60)

	app := &App{
		scene: scene.New(backend, projectID, log),
		Tool: ToolUIState{
			state: tools.State{Active: tools.Pan},
			moved: make(map[int]geometry.Vec2),
		},
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}

	ctx := context.Background()

	for {
		ctrlDown := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if shouldQuit(rl.WindowShouldClose(), rl.IsKeyPressed(rl.KeyEscape),
			ctrlDown, rl.IsKeyPressed(rl.KeyC)) {
			break
		}

		app.screenWidth = int32(rl.GetScreenWidth())
		app.screenHeight = int32(rl.GetScreenHeight())

		app.scene.Update(ctx)
		app.applySceneChanges()

		if app.scene.Ready() {
			app.handleInput(ctx)
		}

		list := plan.Build(plan.Input{
			Points:         app.visiblePoints(),
			Stations:       app.scene.Stations,
			Layers:         app.scene.Layers,
			Viewport:       app.View.viewport,
			Tool:           app.Tool.state,
			ShowElevations: app.HUD.showElevations,
		})

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		if app.scene.Ready() {
			app.drawScene(list)
			app.drawMeasurements()
			app.drawRubberBand()
		}
		app.drawHUD()

		rl.EndDrawing()
	}

	rl.CloseWindow()
}

// shouldQuit decides when the main loop ends. Escape cancels the
// active gesture (ESC is raylib's default exit key, which flags the
// window for close), so only the close button or Ctrl+C quit.
func shouldQuit(windowShouldClose, escPressed, ctrlDown, cPressed bool) bool {
	if windowShouldClose && !escPressed {
		return true
	}
	return ctrlDown && cPressed
}

// applySceneChanges reacts to freshly fetched data: the one-time
// auto-fit, overlay cleanup, and a default active layer.
func (app *App) applySceneChanges() {
	if app.scene.ConsumeFreshPoints() && !app.View.userMoved {
		app.View.viewport = view.FitToExtents(
			survey.Extents(app.scene.Points),
			float64(app.screenWidth), float64(app.screenHeight), fitPadding)
		app.View.fitted = true
	}

	// Authoritative points arrived: local drag overlay is obsolete
	// and measurements re-resolve against the new coordinates
	if app.scene.PointsVersion != app.Tool.movedVersion {
		app.Tool.movedVersion = app.scene.PointsVersion
		app.Tool.moved = make(map[int]geometry.Vec2)
		app.Tool.measurements.Refresh(app.scene.PointsByID())
	}

	if app.Tool.activeLayerID == 0 && len(app.scene.Layers) > 0 {
		app.Tool.activeLayerID = app.scene.Layers[0].ID
	}
}

// visiblePoints returns the cached points with local drag positions
// layered on top, so a move shows immediately and survives until the
// refetch confirms (or corrects) it.
func (app *App) visiblePoints() []survey.Point {
	if len(app.Tool.moved) == 0 && app.Tool.draggingPoint == 0 {
		return app.scene.Points
	}

	points := make([]survey.Point, len(app.scene.Points))
	copy(points, app.scene.Points)
	for i, p := range points {
		if app.Tool.draggingPoint == p.ID {
			points[i].X = app.Tool.dragPos.X
			points[i].Y = app.Tool.dragPos.Y
			continue
		}
		if pos, ok := app.Tool.moved[p.ID]; ok {
			points[i].X = pos.X
			points[i].Y = pos.Y
		}
	}
	return points
}

// hasActiveLayer reports whether drawing can persist anywhere
func (app *App) hasActiveLayer() bool {
	_, ok := app.scene.ActiveLayerByID(app.Tool.activeLayerID)
	return ok
}
