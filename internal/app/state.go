package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"topocad/internal/measure"
	"topocad/internal/scene"
	"topocad/internal/tools"
	"topocad/internal/view"
	"topocad/pkg/geometry"
)

// ViewState holds the viewport and its auto-fit guard
type ViewState struct {
	viewport view.Viewport
	// fitted is set after the one-time auto-fit; userMoved is set on
	// the first zoom or pan and keeps refetches from resetting the
	// view afterwards
	fitted    bool
	userMoved bool
}

// ToolUIState holds tool selection and gesture transients
type ToolUIState struct {
	state         tools.State
	activeLayerID int

	hoveredPoint int // point id under the cursor, 0 = none

	// Move-point drag
	draggingPoint int
	dragPos       geometry.Vec2 // live world position while dragging

	// Local overlay of moved points, kept until the next points
	// refetch brings authoritative coordinates
	moved        map[int]geometry.Vec2
	movedVersion int

	// Session-local distance measurements
	measurements measure.State

	mouseDownPos rl.Vector2
	mouseMoved   bool
}

// HUDState holds display toggles and transient messages
type HUDState struct {
	showElevations bool
	showLayerPanel bool
	status         string
}

// App is the interactive plan viewer
type App struct {
	scene *scene.Scene
	View  ViewState
	Tool  ToolUIState
	HUD   HUDState

	screenWidth  int32
	screenHeight int32
}
