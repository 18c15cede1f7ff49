// Package server implements the topography REST contract over SQLite,
// for offline development and integration testing of the viewer.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"topocad/pkg/survey"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS points (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL DEFAULT '',
    x REAL NOT NULL DEFAULT 0,
    y REAL NOT NULL DEFAULT 0,
    z REAL NOT NULL DEFAULT 0,
    code TEXT NOT NULL DEFAULT '',
    is_fixed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS stations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id),
    occupied_point_id INTEGER NOT NULL REFERENCES points(id),
    instrument_id INTEGER NOT NULL DEFAULT 0,
    height_instrument REAL NOT NULL DEFAULT 0,
    backsight_angle REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    station_id INTEGER NOT NULL REFERENCES stations(id),
    target_point_id INTEGER REFERENCES points(id),
    angle_horizontal REAL NOT NULL DEFAULT 0,
    angle_vertical REAL NOT NULL DEFAULT 0,
    is_stadia INTEGER NOT NULL DEFAULT 0,
    stadia_top REAL NOT NULL DEFAULT 0,
    stadia_middle REAL NOT NULL DEFAULT 0,
    stadia_bottom REAL NOT NULL DEFAULT 0,
    distance_slope REAL NOT NULL DEFAULT 0,
    height_target REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS layers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '#0ea5e9',
    visible INTEGER NOT NULL DEFAULT 1,
    drawing_data TEXT NOT NULL DEFAULT '{"lines":[]}'
);
CREATE TABLE IF NOT EXISTS leveling_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES leveling_runs(id),
    point_id INTEGER REFERENCES points(id),
    backsight REAL,
    intermediate REAL,
    foresight REAL
);
CREATE TABLE IF NOT EXISTS surfaces (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'INITIAL',
    contour_interval REAL NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS surface_points (
    surface_id INTEGER NOT NULL REFERENCES surfaces(id),
    point_id INTEGER NOT NULL REFERENCES points(id),
    PRIMARY KEY (surface_id, point_id)
);
`

// Init runs migrations
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// ============================================================
// Projects
// ============================================================

func (s *Store) Project(ctx context.Context, id int) (survey.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description FROM projects WHERE id = ?`, id)

	var p survey.Project
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return survey.Project{}, ErrNotFound
		}
		return survey.Project{}, err
	}
	return p, nil
}

func (s *Store) ProjectsByUser(ctx context.Context, userID int) ([]survey.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, description FROM projects WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []survey.Project{}
	for rows.Next() {
		var p survey.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, userID int, name, description string) (survey.Project, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (user_id, name, description) VALUES (?, ?, ?)`,
		userID, name, description)
	if err != nil {
		return survey.Project{}, err
	}
	id, _ := result.LastInsertId()
	return s.Project(ctx, int(id))
}

func (s *Store) DeleteProject(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

// ============================================================
// Points
// ============================================================

func scanPoint(row interface{ Scan(...any) error }) (survey.Point, error) {
	var p survey.Point
	err := row.Scan(&p.ID, &p.Name, &p.X, &p.Y, &p.Z, &p.Code, &p.IsFixed)
	return p, err
}

func (s *Store) Point(ctx context.Context, id int) (survey.Point, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, x, y, z, code, is_fixed FROM points WHERE id = ?`, id)
	p, err := scanPoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return survey.Point{}, ErrNotFound
	}
	return p, err
}

func (s *Store) PointsByProject(ctx context.Context, projectID int) ([]survey.Point, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, x, y, z, code, is_fixed FROM points WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []survey.Point{}
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *Store) CreatePoint(ctx context.Context, projectID int, p survey.Point) (survey.Point, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO points (project_id, name, x, y, z, code, is_fixed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectID, p.Name, p.X, p.Y, p.Z, p.Code, p.IsFixed)
	if err != nil {
		return survey.Point{}, err
	}
	id, _ := result.LastInsertId()
	return s.Point(ctx, int(id))
}

// PointPatch applies only the non-nil fields
type PointPatch struct {
	Name *string  `json:"name"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Z    *float64 `json:"z"`
	Code *string  `json:"code"`
}

func (s *Store) UpdatePoint(ctx context.Context, id int, patch PointPatch) (survey.Point, error) {
	current, err := s.Point(ctx, id)
	if err != nil {
		return survey.Point{}, err
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.X != nil {
		current.X = *patch.X
	}
	if patch.Y != nil {
		current.Y = *patch.Y
	}
	if patch.Z != nil {
		current.Z = *patch.Z
	}
	if patch.Code != nil {
		current.Code = *patch.Code
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE points SET name = ?, x = ?, y = ?, z = ?, code = ? WHERE id = ?`,
		current.Name, current.X, current.Y, current.Z, current.Code, id)
	if err != nil {
		return survey.Point{}, err
	}
	return current, nil
}

func (s *Store) DeletePoint(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	return err
}

// ============================================================
// Stations & observations
// ============================================================

func (s *Store) StationsByProject(ctx context.Context, projectID int) ([]survey.Station, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, occupied_point_id, instrument_id, height_instrument, backsight_angle
         FROM stations WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := []survey.Station{}
	occupiedIDs := []int{}
	for rows.Next() {
		var station survey.Station
		var occupiedID int
		if err := rows.Scan(&station.ID, &occupiedID, &station.InstrumentID,
			&station.HeightInstrument, &station.BacksightAngle); err != nil {
			return nil, err
		}
		stations = append(stations, station)
		occupiedIDs = append(occupiedIDs, occupiedID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stations {
		occupied, err := s.Point(ctx, occupiedIDs[i])
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err == nil {
			stations[i].OccupiedPoint = &occupied
		}

		observations, err := s.observationsByStation(ctx, stations[i].ID)
		if err != nil {
			return nil, err
		}
		stations[i].Observations = observations
	}
	return stations, nil
}

func (s *Store) observationsByStation(ctx context.Context, stationID int) ([]survey.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target_point_id, angle_horizontal, angle_vertical, is_stadia,
                stadia_top, stadia_middle, stadia_bottom, distance_slope, height_target
         FROM observations WHERE station_id = ? ORDER BY id`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	observations := []survey.Observation{}
	for rows.Next() {
		var obs survey.Observation
		var targetID sql.NullInt64
		if err := rows.Scan(&obs.ID, &targetID, &obs.AngleHorizontal, &obs.AngleVertical,
			&obs.IsStadia, &obs.StadiaTop, &obs.StadiaMiddle, &obs.StadiaBottom,
			&obs.DistanceSlope, &obs.HeightTarget); err != nil {
			return nil, err
		}
		if targetID.Valid {
			target, err := s.Point(ctx, int(targetID.Int64))
			if err == nil {
				obs.TargetPoint = &target
			}
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

func (s *Store) CreateStation(ctx context.Context, projectID, occupiedPointID, instrumentID int, heightInstrument, backsightAngle float64) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO stations (project_id, occupied_point_id, instrument_id, height_instrument, backsight_angle)
         VALUES (?, ?, ?, ?, ?)`,
		projectID, occupiedPointID, instrumentID, heightInstrument, backsightAngle)
	if err != nil {
		return 0, err
	}
	id, _ := result.LastInsertId()
	return int(id), nil
}

// CreateObservation stores a reading. Coordinate resolution is a
// backend concern the stub does not implement, so the target point
// stays null.
func (s *Store) CreateObservation(ctx context.Context, stationID int, obs survey.Observation) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO observations (station_id, angle_horizontal, angle_vertical, is_stadia,
                stadia_top, stadia_middle, stadia_bottom, distance_slope, height_target)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stationID, obs.AngleHorizontal, obs.AngleVertical, obs.IsStadia,
		obs.StadiaTop, obs.StadiaMiddle, obs.StadiaBottom, obs.DistanceSlope, obs.HeightTarget)
	if err != nil {
		return 0, err
	}
	id, _ := result.LastInsertId()
	return int(id), nil
}

// ============================================================
// Layers
// ============================================================

// LayerRecord serves drawingData as a string-encoded payload, the
// serialized-text form the real backend is known to produce
type LayerRecord struct {
	ID          int    `json:"id"`
	ProjectID   int    `json:"projectId"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Visible     bool   `json:"visible"`
	DrawingData string `json:"drawingData"`
}

func (s *Store) Layer(ctx context.Context, id int) (LayerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, color, visible, drawing_data FROM layers WHERE id = ?`, id)

	var l LayerRecord
	if err := row.Scan(&l.ID, &l.ProjectID, &l.Name, &l.Color, &l.Visible, &l.DrawingData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LayerRecord{}, ErrNotFound
		}
		return LayerRecord{}, err
	}
	return l, nil
}

func (s *Store) LayersByProject(ctx context.Context, projectID int) ([]LayerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, color, visible, drawing_data FROM layers WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	layers := []LayerRecord{}
	for rows.Next() {
		var l LayerRecord
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Name, &l.Color, &l.Visible, &l.DrawingData); err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return layers, rows.Err()
}

func (s *Store) CreateLayer(ctx context.Context, projectID int, name, color string, visible bool) (LayerRecord, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO layers (project_id, name, color, visible) VALUES (?, ?, ?, ?)`,
		projectID, name, color, visible)
	if err != nil {
		return LayerRecord{}, err
	}
	id, _ := result.LastInsertId()
	return s.Layer(ctx, int(id))
}

// LayerPatch applies only the non-nil fields; a visibility toggle
// must leave the drawing payload untouched
type LayerPatch struct {
	Name        *string         `json:"name"`
	Color       *string         `json:"color"`
	Visible     *bool           `json:"visible"`
	DrawingData json.RawMessage `json:"drawingData"`
}

func (s *Store) UpdateLayer(ctx context.Context, id int, patch LayerPatch) (LayerRecord, error) {
	current, err := s.Layer(ctx, id)
	if err != nil {
		return LayerRecord{}, err
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Color != nil {
		current.Color = *patch.Color
	}
	if patch.Visible != nil {
		current.Visible = *patch.Visible
	}
	if len(patch.DrawingData) > 0 {
		// Normalize whatever representation arrived before storing
		current.DrawingData = string(survey.EncodeDrawing(survey.DecodeDrawing(patch.DrawingData)))
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE layers SET name = ?, color = ?, visible = ?, drawing_data = ? WHERE id = ?`,
		current.Name, current.Color, current.Visible, current.DrawingData, id)
	if err != nil {
		return LayerRecord{}, err
	}
	return current, nil
}

func (s *Store) DeleteLayer(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM layers WHERE id = ?`, id)
	return err
}

// ============================================================
// Leveling
// ============================================================

func (s *Store) LevelingRunsByProject(ctx context.Context, projectID int) ([]survey.LevelingRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM leveling_runs WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []survey.LevelingRun{}
	for rows.Next() {
		var run survey.LevelingRun
		if err := rows.Scan(&run.ID, &run.Name); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) CreateLevelingRun(ctx context.Context, projectID int, name string) (survey.LevelingRun, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO leveling_runs (project_id, name) VALUES (?, ?)`, projectID, name)
	if err != nil {
		return survey.LevelingRun{}, err
	}
	id, _ := result.LastInsertId()
	return survey.LevelingRun{ID: int(id), Name: name, Readings: []survey.Reading{}}, nil
}

func (s *Store) AddReading(ctx context.Context, runID int, reading survey.Reading) (int, error) {
	var pointID any
	if reading.PointID != nil {
		pointID = *reading.PointID
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO readings (run_id, point_id, backsight, intermediate, foresight) VALUES (?, ?, ?, ?, ?)`,
		runID, pointID, reading.Backsight, reading.Intermediate, reading.Foresight)
	if err != nil {
		return 0, err
	}
	id, _ := result.LastInsertId()
	return int(id), nil
}

// datumElevation anchors a run whose first backsight has no known
// benchmark point
const datumElevation = 100.0

// LevelingRunDetails returns a run with its readings and the
// propagated instrument heights and elevations: a backsight on a
// known elevation sets AI = Z + backsight; every other sight derives
// Z = AI - reading.
func (s *Store) LevelingRunDetails(ctx context.Context, runID int) (survey.LevelingRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM leveling_runs WHERE id = ?`, runID)
	var run survey.LevelingRun
	if err := row.Scan(&run.ID, &run.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return survey.LevelingRun{}, ErrNotFound
		}
		return survey.LevelingRun{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, point_id, backsight, intermediate, foresight FROM readings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return survey.LevelingRun{}, err
	}
	defer rows.Close()

	run.Readings = []survey.Reading{}
	for rows.Next() {
		var r survey.Reading
		var pointID sql.NullInt64
		if err := rows.Scan(&r.ID, &pointID, &r.Backsight, &r.Intermediate, &r.Foresight); err != nil {
			return survey.LevelingRun{}, err
		}
		if pointID.Valid {
			id := int(pointID.Int64)
			r.PointID = &id
		}
		run.Readings = append(run.Readings, r)
	}
	if err := rows.Err(); err != nil {
		return survey.LevelingRun{}, err
	}

	s.propagateLeveling(ctx, run.Readings)
	return run, nil
}

func (s *Store) propagateLeveling(ctx context.Context, readings []survey.Reading) {
	var instrumentHeight *float64
	lastZ := datumElevation

	for i := range readings {
		r := &readings[i]

		if r.Backsight != nil {
			z := lastZ
			if r.PointID != nil {
				if point, err := s.Point(ctx, *r.PointID); err == nil {
					z = point.Z
				}
			}
			ai := z + *r.Backsight
			instrumentHeight = &ai
			r.CalculatedAI = &ai
			r.CalculatedZ = &z
			lastZ = z
			continue
		}

		if instrumentHeight == nil {
			continue
		}
		var sight *float64
		if r.Foresight != nil {
			sight = r.Foresight
		} else if r.Intermediate != nil {
			sight = r.Intermediate
		}
		if sight == nil {
			continue
		}
		z := *instrumentHeight - *sight
		r.CalculatedAI = instrumentHeight
		r.CalculatedZ = &z
		lastZ = z
	}
}

// ============================================================
// Surfaces
// ============================================================

func (s *Store) SurfacesByProject(ctx context.Context, projectID int) ([]survey.Surface, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, contour_interval FROM surfaces WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surfaces := []survey.Surface{}
	for rows.Next() {
		var surface survey.Surface
		if err := rows.Scan(&surface.ID, &surface.Name, &surface.Type, &surface.ContourInterval); err != nil {
			return nil, err
		}
		surfaces = append(surfaces, surface)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range surfaces {
		points, err := s.surfacePoints(ctx, surfaces[i].ID)
		if err != nil {
			return nil, err
		}
		surfaces[i].Points = points
	}
	return surfaces, nil
}

func (s *Store) surfacePoints(ctx context.Context, surfaceID int) ([]survey.Point, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.x, p.y, p.z, p.code, p.is_fixed
         FROM points p JOIN surface_points sp ON sp.point_id = p.id
         WHERE sp.surface_id = ? ORDER BY p.id`, surfaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []survey.Point{}
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CreateSurface creates a surface and attaches every current project
// point to it
func (s *Store) CreateSurface(ctx context.Context, projectID int, name, surfaceType string) (survey.Surface, error) {
	if surfaceType != survey.SurfaceInitial && surfaceType != survey.SurfaceFinal {
		surfaceType = survey.SurfaceInitial
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO surfaces (project_id, name, type) VALUES (?, ?, ?)`,
		projectID, name, surfaceType)
	if err != nil {
		return survey.Surface{}, err
	}
	id, _ := result.LastInsertId()

	points, err := s.PointsByProject(ctx, projectID)
	if err != nil {
		return survey.Surface{}, err
	}
	pointIDs := make([]int, len(points))
	for i, p := range points {
		pointIDs[i] = p.ID
	}
	if err := s.AddSurfacePoints(ctx, int(id), pointIDs); err != nil {
		return survey.Surface{}, err
	}

	return survey.Surface{ID: int(id), Name: name, Type: surfaceType, ContourInterval: 1, Points: points}, nil
}

func (s *Store) AddSurfacePoints(ctx context.Context, surfaceID int, pointIDs []int) error {
	for _, pointID := range pointIDs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO surface_points (surface_id, point_id) VALUES (?, ?)`,
			surfaceID, pointID); err != nil {
			return err
		}
	}
	return nil
}
