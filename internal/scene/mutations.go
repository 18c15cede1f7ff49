package scene

import (
	"context"
	"fmt"

	"topocad/pkg/survey"
	"topocad/pkg/topoapi"
)

// Mutator is the write side of the backend contract
type Mutator interface {
	UpdatePoint(ctx context.Context, id int, patch topoapi.PointPatch) (survey.Point, error)
	UpdateLayer(ctx context.Context, id int, patch topoapi.LayerPatch) (survey.Layer, error)
	CreateLayer(ctx context.Context, projectID int, name, color string, visible bool) (survey.Layer, error)
}

// Backend is the full contract the scene needs
type Backend interface {
	Fetcher
	Mutator
}

// Invalidation edges: which collections a mutation makes stale.
// Stations embed point objects by value, so point moves must also
// refresh stations or sight lines would keep the old coordinates.
var (
	pointEdges = []Kind{KindPoints, KindStations}
	layerEdges = []Kind{KindLayers}
)

// mutator returns the write side, which New wired as part of Backend.
// Scenes built over a plain Fetcher (headless commands) cannot mutate.
func (s *Scene) mutator() (Mutator, bool) {
	m, ok := s.fetcher.(Mutator)
	return m, ok
}

func (s *Scene) dispatch(label string, invalidates []Kind, run func() error) {
	go func() {
		result := mutationResult{label: label, invalidates: invalidates}
		result.err = run()
		s.events <- event{mutation: &result}
	}()
}

// MovePoint persists a drag-to-move: the point keeps its elevation and
// name, only x/y change. The invalidation edge also refreshes stations.
func (s *Scene) MovePoint(ctx context.Context, pointID int, x, y float64) {
	m, ok := s.mutator()
	if !ok {
		return
	}
	s.dispatch(fmt.Sprintf("move point %d", pointID), pointEdges, func() error {
		_, err := m.UpdatePoint(ctx, pointID, topoapi.PointPatch{X: &x, Y: &y})
		return err
	})
}

// AppendSegment persists a completed draw-line gesture: read-modify-
// write of the target layer's whole drawing payload.
func (s *Scene) AppendSegment(ctx context.Context, layer survey.Layer, from, to int) {
	m, ok := s.mutator()
	if !ok {
		return
	}
	drawing := layer.Drawing().Append(from, to)
	encoded := survey.EncodeDrawing(drawing)
	s.dispatch(fmt.Sprintf("draw segment %d-%d", from, to), layerEdges, func() error {
		_, err := m.UpdateLayer(ctx, layer.ID, topoapi.LayerPatch{DrawingData: encoded})
		return err
	})
}

// ToggleLayer flips a layer's visibility. Only the visible field is
// patched, so the drawing payload cannot be clobbered.
func (s *Scene) ToggleLayer(ctx context.Context, layer survey.Layer) {
	m, ok := s.mutator()
	if !ok {
		return
	}
	visible := !layer.Visible
	s.dispatch(fmt.Sprintf("toggle layer %d", layer.ID), layerEdges, func() error {
		_, err := m.UpdateLayer(ctx, layer.ID, topoapi.LayerPatch{Visible: &visible})
		return err
	})
}

// CreateLayer adds an empty drawing layer to the project
func (s *Scene) CreateLayer(ctx context.Context, name, color string) {
	m, ok := s.mutator()
	if !ok {
		return
	}
	s.dispatch("create layer "+name, layerEdges, func() error {
		_, err := m.CreateLayer(ctx, s.projectID, name, color, true)
		return err
	})
}

// ActiveLayerByID finds a layer in the cached collection
func (s *Scene) ActiveLayerByID(id int) (survey.Layer, bool) {
	for _, layer := range s.Layers {
		if layer.ID == id {
			return layer, true
		}
	}
	return survey.Layer{}, false
}
