package scene

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"topocad/pkg/survey"
	"topocad/pkg/topoapi"
)

// fakeBackend is a synchronous in-memory backend that counts fetches
type fakeBackend struct {
	mu sync.Mutex

	points   []survey.Point
	stations []survey.Station
	layers   []survey.Layer

	fetches map[Kind]int

	stationsErr error
	pointsErr   error

	lastPointPatch topoapi.PointPatch
	lastLayerPatch topoapi.LayerPatch
	lastLayerCtx   context.Context
	updateErr      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		points:  []survey.Point{{ID: 1, Name: "BM1", X: 0, Y: 0, IsFixed: true}, {ID: 2, Name: "P2", X: 10, Y: 10}},
		layers:  []survey.Layer{{ID: 5, Name: "eje", Color: "#fff", Visible: true, DrawingData: json.RawMessage(`{"lines":[]}`)}},
		fetches: map[Kind]int{},
	}
}

func (f *fakeBackend) count(kind Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[kind]++
}

func (f *fakeBackend) fetchCount(kind Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[kind]
}

func (f *fakeBackend) Project(ctx context.Context, id int) (survey.Project, error) {
	f.count(KindProject)
	return survey.Project{ID: id, Name: "Finca Norte"}, nil
}

func (f *fakeBackend) Points(ctx context.Context, projectID int) ([]survey.Point, error) {
	f.count(KindPoints)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points, f.pointsErr
}

func (f *fakeBackend) Stations(ctx context.Context, projectID int) ([]survey.Station, error) {
	f.count(KindStations)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stations, f.stationsErr
}

func (f *fakeBackend) Layers(ctx context.Context, projectID int) ([]survey.Layer, error) {
	f.count(KindLayers)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layers, nil
}

func (f *fakeBackend) UpdatePoint(ctx context.Context, id int, patch topoapi.PointPatch) (survey.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPointPatch = patch
	return survey.Point{ID: id}, f.updateErr
}

func (f *fakeBackend) UpdateLayer(ctx context.Context, id int, patch topoapi.LayerPatch) (survey.Layer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLayerPatch = patch
	f.lastLayerCtx = ctx
	return survey.Layer{ID: id}, f.updateErr
}

func (f *fakeBackend) CreateLayer(ctx context.Context, projectID int, name, color string, visible bool) (survey.Layer, error) {
	return survey.Layer{ID: 99, Name: name, Color: color, Visible: visible}, nil
}

// pump drives the scene's frame loop until cond holds
func pump(t *testing.T, s *Scene, cond func() bool) {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Update(ctx)
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestInitialLoad(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, 7, zap.NewNop())

	pump(t, s, s.Ready)

	if len(s.Points) != 2 || s.Project.Name != "Finca Norte" {
		t.Errorf("unexpected scene: %d points, project %q", len(s.Points), s.Project.Name)
	}
	if s.PointsByID()[2].Name != "P2" {
		t.Errorf("point index not built: %+v", s.PointsByID())
	}
	if !s.ConsumeFreshPoints() {
		t.Error("first load should report fresh points")
	}
	if s.ConsumeFreshPoints() {
		t.Error("fresh points must be reported only once")
	}
}

func TestStationsFailureDegrades(t *testing.T) {
	backend := newFakeBackend()
	backend.stationsErr = errors.New("boom")
	s := New(backend, 7, zap.NewNop())

	pump(t, s, s.Ready)

	if s.Stations != nil {
		t.Errorf("stations should degrade to empty, got %+v", s.Stations)
	}
	if s.LoadErr != nil {
		t.Errorf("optional failure must not block the scene: %v", s.LoadErr)
	}
}

func TestPointsFailureBlocks(t *testing.T) {
	backend := newFakeBackend()
	backend.pointsErr = errors.New("backend down")
	s := New(backend, 7, zap.NewNop())

	pump(t, s, func() bool { return s.LoadErr != nil })

	if s.Ready() {
		t.Error("scene must not be ready without points")
	}
}

func TestMovePointInvalidatesPointsAndStations(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, 7, zap.NewNop())
	pump(t, s, s.Ready)

	pointFetches := backend.fetchCount(KindPoints)
	stationFetches := backend.fetchCount(KindStations)

	s.MovePoint(context.Background(), 2, 20, 30)

	pump(t, s, func() bool {
		return backend.fetchCount(KindPoints) > pointFetches &&
			backend.fetchCount(KindStations) > stationFetches
	})

	backend.mu.Lock()
	patch := backend.lastPointPatch
	backend.mu.Unlock()
	if patch.X == nil || *patch.X != 20 || patch.Y == nil || *patch.Y != 30 {
		t.Errorf("unexpected point patch: %+v", patch)
	}
	if patch.Z != nil || patch.Name != nil {
		t.Error("move must patch only x and y")
	}
}

func TestAppendSegmentPatchesWholeDrawing(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, 7, zap.NewNop())
	pump(t, s, s.Ready)

	layerFetches := backend.fetchCount(KindLayers)
	s.AppendSegment(context.Background(), s.Layers[0], 1, 2)

	pump(t, s, func() bool { return backend.fetchCount(KindLayers) > layerFetches })

	backend.mu.Lock()
	patch := backend.lastLayerPatch
	backend.mu.Unlock()
	if string(patch.DrawingData) != `{"lines":[{"from":1,"to":2}]}` {
		t.Errorf("unexpected drawing patch: %s", patch.DrawingData)
	}
	if patch.Visible != nil {
		t.Error("segment append must not touch visibility")
	}
}

func TestToggleLayerPatchesOnlyVisible(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, 7, zap.NewNop())
	pump(t, s, s.Ready)

	layerFetches := backend.fetchCount(KindLayers)
	s.ToggleLayer(context.Background(), s.Layers[0])
	pump(t, s, func() bool { return backend.fetchCount(KindLayers) > layerFetches })

	backend.mu.Lock()
	patch := backend.lastLayerPatch
	backend.mu.Unlock()
	if patch.Visible == nil || *patch.Visible != false {
		t.Errorf("expected visible=false patch, got %+v", patch)
	}
	if patch.DrawingData != nil {
		t.Error("visibility toggle must not send drawingData")
	}
}

type frameCtxKey struct{}

func TestMutationsForwardCallerContext(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, 7, zap.NewNop())
	pump(t, s, s.Ready)

	layerFetches := backend.fetchCount(KindLayers)
	ctx := context.WithValue(context.Background(), frameCtxKey{}, "frame")
	s.ToggleLayer(ctx, s.Layers[0])
	pump(t, s, func() bool { return backend.fetchCount(KindLayers) > layerFetches })

	backend.mu.Lock()
	seen := backend.lastLayerCtx
	backend.mu.Unlock()
	if seen == nil || seen.Value(frameCtxKey{}) != "frame" {
		t.Error("mutation must run under the caller's context, not a detached one")
	}
}

func TestMutationFailureSurfacesError(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, 7, zap.NewNop())
	pump(t, s, s.Ready)

	backend.mu.Lock()
	backend.updateErr = errors.New("rechazado")
	backend.mu.Unlock()

	s.MovePoint(context.Background(), 2, 1, 1)
	pump(t, s, func() bool { return s.LastError != "" })

	if s.Ready() != true {
		t.Error("mutation failure must not unload the scene")
	}
}
