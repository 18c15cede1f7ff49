// Package scene owns the viewer's remote data: a typed read-through
// cache of project entities plus the mutation dispatcher that writes
// edits back and re-fetches what they invalidated.
//
// All fields are touched only from the frame loop. Fetches and
// mutations run in goroutines that report back on an event channel
// drained by Update, so the viewer never blocks a frame on the
// network.
package scene

import (
	"context"

	"go.uber.org/zap"

	"topocad/pkg/survey"
)

// Kind identifies one independently cached collection
type Kind int

const (
	KindProject Kind = iota
	KindPoints
	KindStations
	KindLayers
)

// String returns the collection name
func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindPoints:
		return "points"
	case KindStations:
		return "stations"
	case KindLayers:
		return "layers"
	}
	return "unknown"
}

// Fetcher is the read side of the backend contract
type Fetcher interface {
	Project(ctx context.Context, id int) (survey.Project, error)
	Points(ctx context.Context, projectID int) ([]survey.Point, error)
	Stations(ctx context.Context, projectID int) ([]survey.Station, error)
	Layers(ctx context.Context, projectID int) ([]survey.Layer, error)
}

type event struct {
	fetch    *fetchResult
	mutation *mutationResult
}

type fetchResult struct {
	kind     Kind
	project  survey.Project
	points   []survey.Point
	stations []survey.Station
	layers   []survey.Layer
	err      error
}

type mutationResult struct {
	label       string
	err         error
	invalidates []Kind
}

// Scene caches one project's collections keyed by (Kind, projectID)
type Scene struct {
	projectID int
	fetcher   Fetcher
	log       *zap.Logger
	events    chan event

	Project  survey.Project
	Points   []survey.Point
	Stations []survey.Station
	Layers   []survey.Layer

	pointsByID map[int]survey.Point

	stale    map[Kind]bool
	inFlight map[Kind]bool
	loaded   map[Kind]bool

	// LoadErr blocks the scene: project or points could not be
	// fetched. Stations and layers failures degrade instead.
	LoadErr error

	// LastError is the most recent mutation failure, for the status
	// bar. Cleared by the next successful mutation.
	LastError string

	// PointsVersion increments whenever a points fetch lands, so the
	// viewer can drop local drag overlays once authoritative data
	// arrives.
	PointsVersion int

	freshPoints bool
}

// New creates an empty, fully stale scene for a project
func New(fetcher Fetcher, projectID int, log *zap.Logger) *Scene {
	return &Scene{
		projectID:  projectID,
		fetcher:    fetcher,
		log:        log,
		events:     make(chan event, 16),
		pointsByID: map[int]survey.Point{},
		stale: map[Kind]bool{
			KindProject:  true,
			KindPoints:   true,
			KindStations: true,
			KindLayers:   true,
		},
		inFlight: map[Kind]bool{},
		loaded:   map[Kind]bool{},
	}
}

// ProjectID returns the cached project's id
func (s *Scene) ProjectID() int {
	return s.projectID
}

// PointsByID returns the current point index
func (s *Scene) PointsByID() map[int]survey.Point {
	return s.pointsByID
}

// Ready reports whether the required collections have loaded
func (s *Scene) Ready() bool {
	return s.loaded[KindProject] && s.loaded[KindPoints] && s.LoadErr == nil
}

// Invalidate marks collections stale; the next Update refetches them
func (s *Scene) Invalidate(kinds ...Kind) {
	for _, kind := range kinds {
		s.stale[kind] = true
	}
}

// ConsumeFreshPoints reports, once per load, that a new point set has
// arrived. The viewer uses it to auto-fit exactly one time.
func (s *Scene) ConsumeFreshPoints() bool {
	fresh := s.freshPoints
	s.freshPoints = false
	return fresh
}

// Update drains completed fetches/mutations and kicks off fetches for
// stale collections. Call once per frame from the main loop.
func (s *Scene) Update(ctx context.Context) {
	for {
		select {
		case ev := <-s.events:
			s.apply(ev)
		default:
			s.startStaleFetches(ctx)
			return
		}
	}
}

func (s *Scene) startStaleFetches(ctx context.Context) {
	for _, kind := range []Kind{KindProject, KindPoints, KindStations, KindLayers} {
		if !s.stale[kind] || s.inFlight[kind] {
			continue
		}
		s.stale[kind] = false
		s.inFlight[kind] = true
		go s.fetch(ctx, kind)
	}
}

func (s *Scene) fetch(ctx context.Context, kind Kind) {
	result := fetchResult{kind: kind}
	switch kind {
	case KindProject:
		result.project, result.err = s.fetcher.Project(ctx, s.projectID)
	case KindPoints:
		result.points, result.err = s.fetcher.Points(ctx, s.projectID)
	case KindStations:
		result.stations, result.err = s.fetcher.Stations(ctx, s.projectID)
	case KindLayers:
		result.layers, result.err = s.fetcher.Layers(ctx, s.projectID)
	}
	s.events <- event{fetch: &result}
}

func (s *Scene) apply(ev event) {
	if ev.mutation != nil {
		s.applyMutation(*ev.mutation)
		return
	}

	result := *ev.fetch
	s.inFlight[result.kind] = false

	if result.err != nil {
		switch result.kind {
		case KindStations, KindLayers:
			// Optional subsystems: an empty collection keeps the rest
			// of the scene rendering.
			s.log.Warn("optional fetch failed, using empty collection",
				zap.Stringer("kind", result.kind),
				zap.Int("project", s.projectID),
				zap.Error(result.err))
			if result.kind == KindStations {
				s.Stations = nil
			} else {
				s.Layers = nil
			}
			s.loaded[result.kind] = true
		default:
			s.log.Error("fetch failed",
				zap.Stringer("kind", result.kind),
				zap.Int("project", s.projectID),
				zap.Error(result.err))
			s.LoadErr = result.err
		}
		return
	}

	switch result.kind {
	case KindProject:
		s.Project = result.project
	case KindPoints:
		s.Points = result.points
		s.pointsByID = survey.PointsByID(result.points)
		s.PointsVersion++
		if !s.loaded[KindPoints] {
			s.freshPoints = true
		}
	case KindStations:
		s.Stations = result.stations
	case KindLayers:
		s.Layers = result.layers
	}
	s.loaded[result.kind] = true
	if result.kind == KindProject || result.kind == KindPoints {
		s.LoadErr = nil
	}
}

func (s *Scene) applyMutation(result mutationResult) {
	if result.err != nil {
		s.log.Error("mutation failed",
			zap.String("mutation", result.label),
			zap.Error(result.err))
		s.LastError = result.label + ": " + result.err.Error()
		return
	}
	s.LastError = ""
	// Completed write: refetch everything it may have changed. A stale
	// in-flight read can still land after this one; the refetch is
	// what settles the scene.
	s.Invalidate(result.invalidates...)
}
