// Package measure holds the state of the distance measurement tool.
// Measurements live only in the viewer session and never touch the
// backend.
package measure

import (
	"fmt"

	"topocad/pkg/analysis"
	"topocad/pkg/survey"
)

// Measurement is a completed reading between two picked points
type Measurement struct {
	From survey.Point
	To   survey.Point
}

// Horizontal is the plan distance
func (m Measurement) Horizontal() float64 {
	return analysis.Distance2D(m.From, m.To)
}

// Slope is the 3D distance
func (m Measurement) Slope() float64 {
	return analysis.Distance3D(m.From, m.To)
}

// Azimuth is the bearing From -> To in decimal degrees
func (m Measurement) Azimuth() float64 {
	return analysis.Azimuth(m.From, m.To)
}

// DeltaZ is the elevation difference To minus From
func (m Measurement) DeltaZ() float64 {
	return m.To.Z - m.From.Z
}

// Label is the reading shown next to the measurement line
func (m Measurement) Label() string {
	return fmt.Sprintf("%s  az %s  dz %+.3f",
		analysis.FormatDistance(m.Horizontal()),
		analysis.FormatAzimuth(m.Azimuth()),
		m.DeltaZ())
}

// State is the measurement tool's session state. Pending holds the
// first pick of an unfinished pair.
type State struct {
	Pending      *survey.Point
	Measurements []Measurement
}

// Pick feeds a clicked point to the tool. The first pick arms, a
// repeat pick on the same point disarms, and a second distinct pick
// completes a measurement.
func (s *State) Pick(p survey.Point) {
	if s.Pending == nil {
		s.Pending = &p
		return
	}
	if s.Pending.ID == p.ID {
		s.Pending = nil
		return
	}
	s.Measurements = append(s.Measurements, Measurement{From: *s.Pending, To: p})
	s.Pending = nil
}

// Cancel drops an unfinished pick
func (s *State) Cancel() {
	s.Pending = nil
}

// Clear removes every measurement and any pending pick
func (s *State) Clear() {
	s.Pending = nil
	s.Measurements = nil
}

// Refresh re-resolves measured endpoints against the current point
// set, so readings follow moved points and drop with deleted ones.
func (s *State) Refresh(points map[int]survey.Point) {
	kept := s.Measurements[:0]
	for _, m := range s.Measurements {
		from, okFrom := points[m.From.ID]
		to, okTo := points[m.To.ID]
		if !okFrom || !okTo {
			continue
		}
		kept = append(kept, Measurement{From: from, To: to})
	}
	s.Measurements = kept

	if s.Pending != nil {
		if p, ok := points[s.Pending.ID]; ok {
			s.Pending = &p
		} else {
			s.Pending = nil
		}
	}
}
