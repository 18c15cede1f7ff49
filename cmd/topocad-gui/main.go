package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"topocad/internal/config"
	"topocad/internal/logger"
	"topocad/internal/view"
	"topocad/pkg/plan"
	"topocad/pkg/survey"
	"topocad/pkg/topoapi"
)

const defaultUserID = 1

const (
	previewWidth  = 900
	previewHeight = 640
)

type App struct {
	window fyne.Window
	client *topoapi.Client

	projects []survey.Project
	list     *widget.List
	preview  *canvas.Image
	details  *widget.Label
}

func main() {
	log := logger.New(config.Load())
	defer log.Sync()

	cfg := config.Load()
	client := topoapi.NewClient(cfg.APIBaseURL,
		topoapi.WithLogger(log.Logger),
		topoapi.WithToken(cfg.APIToken))

	a := app.New()
	w := a.NewWindow("TopoCAD - Proyectos")

	appInstance := &App{
		window: w,
		client: client,
	}
	appInstance.setupUI()
	appInstance.reloadProjects()

	w.Resize(fyne.NewSize(1280, 760))
	w.ShowAndRun()
}

func (a *App) setupUI() {
	a.list = widget.NewList(
		func() int { return len(a.projects) },
		func() fyne.CanvasObject { return widget.NewLabel("proyecto") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(a.projects[i].Name)
		},
	)
	a.list.OnSelected = func(i widget.ListItemID) {
		a.showProject(a.projects[i])
	}

	a.preview = canvas.NewImageFromImage(plan.Rasterize(plan.DrawList{}, previewWidth, previewHeight))
	a.preview.FillMode = canvas.ImageFillContain
	a.preview.SetMinSize(fyne.NewSize(previewWidth/2, previewHeight/2))

	a.details = widget.NewLabel("Selecciona un proyecto")

	refreshButton := widget.NewButton("Actualizar", a.reloadProjects)

	left := container.NewBorder(
		widget.NewLabelWithStyle("Proyectos", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		refreshButton, nil, nil, a.list)

	right := container.NewBorder(a.details, nil, nil, nil, a.preview)

	split := container.NewHSplit(left, right)
	split.SetOffset(0.25)

	a.window.SetContent(split)
}

func (a *App) reloadProjects() {
	projects, err := a.client.Projects(context.Background(), defaultUserID)
	if err != nil {
		dialog.ShowError(fmt.Errorf("no se pudieron cargar los proyectos: %w", err), a.window)
		return
	}
	a.projects = projects
	a.list.Refresh()
}

// showProject renders a plan preview of the selected project
func (a *App) showProject(project survey.Project) {
	ctx := context.Background()

	points, err := a.client.Points(ctx, project.ID)
	if err != nil {
		dialog.ShowError(fmt.Errorf("no se pudieron cargar los puntos: %w", err), a.window)
		return
	}
	// Optional: keep the preview working without them
	stations, _ := a.client.Stations(ctx, project.ID)
	layers, _ := a.client.Layers(ctx, project.ID)

	viewport := view.FitToExtents(survey.Extents(points), previewWidth, previewHeight, 40)
	list := plan.Build(plan.Input{
		Points:         points,
		Stations:       stations,
		Layers:         layers,
		Viewport:       viewport,
		ShowElevations: false,
	})

	a.preview.Image = plan.Rasterize(list, previewWidth, previewHeight)
	a.preview.Refresh()

	observations := 0
	for _, s := range stations {
		observations += len(s.Observations)
	}
	a.details.SetText(fmt.Sprintf("%s — %d puntos, %d estaciones (%d obs.), %d capas. Abre con: topocad view %d",
		project.Name, len(points), len(stations), observations, len(layers), project.ID))
}
