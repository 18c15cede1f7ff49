package topoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"topocad/pkg/survey"
)

// Project fetches a single project by id
func (c *Client) Project(ctx context.Context, id int) (survey.Project, error) {
	var project survey.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &project)
	return project, err
}

// Projects lists the projects of a user
func (c *Client) Projects(ctx context.Context, userID int) ([]survey.Project, error) {
	var projects []survey.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/user/%d", userID), nil, &projects)
	return projects, err
}

// CreateProject creates a project for a user
func (c *Client) CreateProject(ctx context.Context, userID int, name, description string) (survey.Project, error) {
	body := map[string]any{"userId": userID, "name": name, "description": description}
	var project survey.Project
	err := c.do(ctx, http.MethodPost, "/projects", body, &project)
	return project, err
}

// Points fetches all points of a project
func (c *Client) Points(ctx context.Context, projectID int) ([]survey.Point, error) {
	var points []survey.Point
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/points/project/%d", projectID), nil, &points)
	return points, err
}

// PointPatch is a partial point update; nil fields stay untouched
type PointPatch struct {
	Name *string  `json:"name,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	Z    *float64 `json:"z,omitempty"`
}

// UpdatePoint applies a partial update and returns the stored point
func (c *Client) UpdatePoint(ctx context.Context, id int, patch PointPatch) (survey.Point, error) {
	var point survey.Point
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/points/%d", id), patch, &point)
	return point, err
}

// CreatePoint creates a manually entered point
func (c *Client) CreatePoint(ctx context.Context, projectID int, point survey.Point) (survey.Point, error) {
	body := map[string]any{
		"projectId": projectID,
		"name":      point.Name,
		"x":         point.X,
		"y":         point.Y,
		"z":         point.Z,
		"code":      point.Code,
		"isFixed":   point.IsFixed,
	}
	var created survey.Point
	err := c.do(ctx, http.MethodPost, "/points", body, &created)
	return created, err
}

// DeletePoint removes a point
func (c *Client) DeletePoint(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/points/%d", id), nil, nil)
}

// Stations fetches a project's stations with nested observations and
// resolved occupied/target point objects
func (c *Client) Stations(ctx context.Context, projectID int) ([]survey.Station, error) {
	var stations []survey.Station
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stations/project/%d", projectID), nil, &stations)
	return stations, err
}

// CreateStationRequest describes a new instrument setup
type CreateStationRequest struct {
	ProjectID        int     `json:"projectId"`
	OccupiedPointID  int     `json:"occupiedPointId"`
	InstrumentID     int     `json:"instrumentId"`
	HeightInstrument float64 `json:"heightInstrument"`
	BacksightAngle   float64 `json:"backsightAngle"`
}

// CreateStation registers an instrument setup
func (c *Client) CreateStation(ctx context.Context, req CreateStationRequest) (survey.Station, error) {
	var station survey.Station
	err := c.do(ctx, http.MethodPost, "/stations", req, &station)
	return station, err
}

// CreateObservationRequest records a reading from a station
type CreateObservationRequest struct {
	StationID       int     `json:"stationId"`
	AngleHorizontal float64 `json:"angleHorizontal"`
	AngleVertical   float64 `json:"angleVertical"`
	IsStadia        bool    `json:"isStadia"`
	StadiaTop       float64 `json:"stadiaTop,omitempty"`
	StadiaMiddle    float64 `json:"stadiaMiddle,omitempty"`
	StadiaBottom    float64 `json:"stadiaBottom,omitempty"`
	DistanceSlope   float64 `json:"distanceSlope,omitempty"`
	HeightTarget    float64 `json:"heightTarget,omitempty"`
}

// CreateObservation records a reading; the backend resolves the
// target point asynchronously
func (c *Client) CreateObservation(ctx context.Context, req CreateObservationRequest) (survey.Observation, error) {
	var obs survey.Observation
	err := c.do(ctx, http.MethodPost, "/observations", req, &obs)
	return obs, err
}

// Layers fetches a project's drawing layers
func (c *Client) Layers(ctx context.Context, projectID int) ([]survey.Layer, error) {
	var layers []survey.Layer
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/layers/project/%d", projectID), nil, &layers)
	return layers, err
}

// LayerPatch is a partial layer update; nil fields stay untouched.
// Toggling visibility alone must not clobber the drawing payload, so
// callers send only the fields that changed.
type LayerPatch struct {
	Name        *string         `json:"name,omitempty"`
	Color       *string         `json:"color,omitempty"`
	Visible     *bool           `json:"visible,omitempty"`
	DrawingData json.RawMessage `json:"drawingData,omitempty"`
}

// UpdateLayer applies a partial update and returns the stored layer
func (c *Client) UpdateLayer(ctx context.Context, id int, patch LayerPatch) (survey.Layer, error) {
	var layer survey.Layer
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/layers/%d", id), patch, &layer)
	return layer, err
}

// CreateLayer creates an empty drawing layer
func (c *Client) CreateLayer(ctx context.Context, projectID int, name, color string, visible bool) (survey.Layer, error) {
	body := map[string]any{
		"projectId": projectID,
		"name":      name,
		"color":     color,
		"visible":   visible,
	}
	var layer survey.Layer
	err := c.do(ctx, http.MethodPost, "/layers", body, &layer)
	return layer, err
}

// DeleteLayer removes a layer and its drawing
func (c *Client) DeleteLayer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/layers/%d", id), nil, nil)
}

// LevelingRuns lists a project's leveling booklets
func (c *Client) LevelingRuns(ctx context.Context, projectID int) ([]survey.LevelingRun, error) {
	var runs []survey.LevelingRun
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/leveling/project/%d", projectID), nil, &runs)
	return runs, err
}

// LevelingRunDetails fetches a run with its calculated readings
func (c *Client) LevelingRunDetails(ctx context.Context, runID int) (survey.LevelingRun, error) {
	var run survey.LevelingRun
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/leveling/run/%d", runID), nil, &run)
	return run, err
}

// CreateLevelingRun opens a new booklet
func (c *Client) CreateLevelingRun(ctx context.Context, projectID int, name string) (survey.LevelingRun, error) {
	body := map[string]any{"projectId": projectID, "name": name}
	var run survey.LevelingRun
	err := c.do(ctx, http.MethodPost, "/leveling/run", body, &run)
	return run, err
}

// AddLevelingReading appends a row to a booklet; AI and Z come back
// calculated by the server
func (c *Client) AddLevelingReading(ctx context.Context, runID int, reading survey.Reading) (survey.Reading, error) {
	body := map[string]any{
		"runId":        runID,
		"pointId":      reading.PointID,
		"backsight":    reading.Backsight,
		"intermediate": reading.Intermediate,
		"foresight":    reading.Foresight,
	}
	var created survey.Reading
	err := c.do(ctx, http.MethodPost, "/leveling/reading", body, &created)
	return created, err
}

// Surfaces lists a project's terrain surfaces
func (c *Client) Surfaces(ctx context.Context, projectID int) ([]survey.Surface, error) {
	var surfaces []survey.Surface
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/surfaces/project/%d", projectID), nil, &surfaces)
	return surfaces, err
}

// CreateSurface creates a terrain surface (INITIAL or FINAL)
func (c *Client) CreateSurface(ctx context.Context, projectID int, name, surfaceType string) (survey.Surface, error) {
	body := map[string]any{"projectId": projectID, "name": name, "type": surfaceType}
	var surface survey.Surface
	err := c.do(ctx, http.MethodPost, "/surfaces", body, &surface)
	return surface, err
}

// AddSurfacePoints attaches points to a surface
func (c *Client) AddSurfacePoints(ctx context.Context, surfaceID int, pointIDs []int) error {
	body := map[string]any{"pointIds": pointIDs}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/surfaces/%d/points", surfaceID), body, nil)
}
