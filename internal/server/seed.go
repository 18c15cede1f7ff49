package server

import (
	"context"
	"fmt"

	"topocad/pkg/survey"
)

// Seed inserts a small demo project when the database is empty, so a
// fresh checkout has something to look at
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	project, err := s.CreateProject(ctx, 1, "Lote demo", "Levantamiento de ejemplo")
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	seedPoints := []survey.Point{
		{Name: "BM-1", X: 1000, Y: 2000, Z: 100.000, Code: "BM", IsFixed: true},
		{Name: "E-1", X: 1012.40, Y: 2008.15, Z: 100.42, Code: "BASE", IsFixed: true},
		{Name: "P-1", X: 1025.12, Y: 2019.80, Z: 101.03, Code: "VIA"},
		{Name: "P-2", X: 1040.77, Y: 2021.33, Z: 101.15, Code: "VIA"},
		{Name: "P-3", X: 1038.05, Y: 2002.46, Z: 100.88, Code: "POSTE"},
		{Name: "P-4", X: 1018.90, Y: 1995.61, Z: 100.37, Code: "ARBOL"},
	}
	created := make([]survey.Point, 0, len(seedPoints))
	for _, p := range seedPoints {
		stored, err := s.CreatePoint(ctx, project.ID, p)
		if err != nil {
			return fmt.Errorf("seed point %s: %w", p.Name, err)
		}
		created = append(created, stored)
	}

	layer, err := s.CreateLayer(ctx, project.ID, "Eje de via", "#22c55e", true)
	if err != nil {
		return fmt.Errorf("seed layer: %w", err)
	}
	drawing := survey.DrawingData{Lines: []survey.SegmentRef{}}
	drawing = drawing.Append(created[2].ID, created[3].ID)
	payload := survey.EncodeDrawing(drawing)
	if _, err := s.UpdateLayer(ctx, layer.ID, LayerPatch{DrawingData: payload}); err != nil {
		return fmt.Errorf("seed drawing: %w", err)
	}

	stationID, err := s.CreateStation(ctx, project.ID, created[1].ID, 1, 1.52, 0)
	if err != nil {
		return fmt.Errorf("seed station: %w", err)
	}
	for i, target := range created[2:] {
		obsID, err := s.CreateObservation(ctx, stationID, survey.Observation{
			AngleHorizontal: float64(30 * i), AngleVertical: 90.0,
		})
		if err != nil {
			return fmt.Errorf("seed observation: %w", err)
		}
		// Pretend the reduction already ran so the radiations render
		if _, err := s.db.ExecContext(ctx,
			`UPDATE observations SET target_point_id = ? WHERE id = ?`,
			target.ID, obsID); err != nil {
			return fmt.Errorf("seed observation target: %w", err)
		}
	}

	return nil
}
