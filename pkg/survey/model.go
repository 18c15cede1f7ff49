package survey

import (
	"encoding/json"

	"topocad/pkg/geometry"
)

// Point is a surveyed or computed location. Y is grid north; canvas
// code negates it when mapping to screen space.
type Point struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Code    string  `json:"code"`
	IsFixed bool    `json:"isFixed"`
}

// Pos returns the point's plan position
func (p Point) Pos() geometry.Vec2 {
	return geometry.NewVec2(p.X, p.Y)
}

// Station is an instrument setup at an occupied point
type Station struct {
	ID               int           `json:"id"`
	OccupiedPoint    *Point        `json:"occupiedPoint"`
	InstrumentID     int           `json:"instrumentId"`
	HeightInstrument float64       `json:"heightInstrument"`
	BacksightAngle   float64       `json:"backsightAngle"`
	Observations     []Observation `json:"observations"`
}

// Observation is a single sight from a station toward a target point.
// TargetPoint is nil until the backend has resolved the reading into a
// coordinate.
type Observation struct {
	ID              int     `json:"id"`
	TargetPoint     *Point  `json:"targetPoint"`
	AngleHorizontal float64 `json:"angleHorizontal"`
	AngleVertical   float64 `json:"angleVertical"`
	IsStadia        bool    `json:"isStadia"`
	StadiaTop       float64 `json:"stadiaTop,omitempty"`
	StadiaMiddle    float64 `json:"stadiaMiddle,omitempty"`
	StadiaBottom    float64 `json:"stadiaBottom,omitempty"`
	DistanceSlope   float64 `json:"distanceSlope,omitempty"`
	HeightTarget    float64 `json:"heightTarget,omitempty"`
}

// Layer is a named, colored collection of manually drawn segments.
// DrawingData crosses the wire as either a JSON object or its
// string-encoded form; use DecodeDrawing before touching it.
type Layer struct {
	ID          int             `json:"id"`
	ProjectID   int             `json:"projectId"`
	Name        string          `json:"name"`
	Color       string          `json:"color"`
	Visible     bool            `json:"visible"`
	DrawingData json.RawMessage `json:"drawingData,omitempty"`
}

// Drawing returns the layer's decoded drawing payload
func (l Layer) Drawing() DrawingData {
	return DecodeDrawing(l.DrawingData)
}

// LevelingRun is an append-only booklet of leveling readings
type LevelingRun struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Readings []Reading `json:"readings,omitempty"`
}

// Reading is one row of a leveling run. CalculatedAI and CalculatedZ
// are server-derived and read-only on the client.
type Reading struct {
	ID           int      `json:"id"`
	PointID      *int     `json:"pointId,omitempty"`
	Backsight    *float64 `json:"backsight,omitempty"`
	Intermediate *float64 `json:"intermediate,omitempty"`
	Foresight    *float64 `json:"foresight,omitempty"`
	CalculatedAI *float64 `json:"calculatedAI,omitempty"`
	CalculatedZ  *float64 `json:"calculatedZ,omitempty"`
}

// Surface terrain model types
const (
	SurfaceInitial = "INITIAL"
	SurfaceFinal   = "FINAL"
)

// Surface is a terrain model built from a subset of project points
type Surface struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	ContourInterval float64 `json:"contourInterval,omitempty"`
	Points          []Point `json:"points,omitempty"`
}

// Project owns points, stations, layers, runs and surfaces
type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserID      int    `json:"userId,omitempty"`
}

// PointsByID indexes a point slice by id
func PointsByID(points []Point) map[int]Point {
	byID := make(map[int]Point, len(points))
	for _, p := range points {
		byID[p.ID] = p
	}
	return byID
}

// Extents returns the plan bounding box of a point set
func Extents(points []Point) geometry.Bounds {
	bounds := geometry.NewBounds()
	for _, p := range points {
		bounds.Extend(p.Pos())
	}
	return bounds
}
