package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"topocad/pkg/survey"
)

type Handler struct {
	store *Store
	log   *zap.Logger
}

func NewHandler(store *Store, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"error": message})
}

func (h *Handler) fail(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, ErrNotFound) {
		h.writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.log.Error(what, zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

func urlID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return false
	}
	return true
}

// ============================================================
// Projects
// ============================================================

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	project, err := h.store.Project(r.Context(), id)
	if err != nil {
		h.fail(w, err, "project")
		return
	}
	h.writeJSON(w, http.StatusOK, project)
}

func (h *Handler) GetUserProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r, "userId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	projects, err := h.store.ProjectsByUser(r.Context(), userID)
	if err != nil {
		h.fail(w, err, "projects")
		return
	}
	h.writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int    `json:"userId"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	project, err := h.store.CreateProject(r.Context(), req.UserID, req.Name, req.Description)
	if err != nil {
		h.fail(w, err, "create project")
		return
	}
	h.writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		h.fail(w, err, "delete project")
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// ============================================================
// Points
// ============================================================

func (h *Handler) GetProjectPoints(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlID(r, "projectId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	points, err := h.store.PointsByProject(r.Context(), projectID)
	if err != nil {
		h.fail(w, err, "points")
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

func (h *Handler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID int `json:"projectId"`
		survey.Point
	}
	if !decodeBody(w, r, &req) {
		return
	}
	point, err := h.store.CreatePoint(r.Context(), req.ProjectID, req.Point)
	if err != nil {
		h.fail(w, err, "create point")
		return
	}
	h.writeJSON(w, http.StatusCreated, point)
}

func (h *Handler) PatchPoint(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid point id")
		return
	}
	var patch PointPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	point, err := h.store.UpdatePoint(r.Context(), id, patch)
	if err != nil {
		h.fail(w, err, "update point")
		return
	}
	h.log.Info("point updated", zap.Int("id", id))
	h.writeJSON(w, http.StatusOK, point)
}

func (h *Handler) DeletePoint(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid point id")
		return
	}
	if err := h.store.DeletePoint(r.Context(), id); err != nil {
		h.fail(w, err, "delete point")
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// ============================================================
// Stations & observations
// ============================================================

func (h *Handler) GetProjectStations(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlID(r, "projectId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	stations, err := h.store.StationsByProject(r.Context(), projectID)
	if err != nil {
		h.fail(w, err, "stations")
		return
	}
	h.writeJSON(w, http.StatusOK, stations)
}

func (h *Handler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID        int     `json:"projectId"`
		OccupiedPointID  int     `json:"occupiedPointId"`
		InstrumentID     int     `json:"instrumentId"`
		HeightInstrument float64 `json:"heightInstrument"`
		BacksightAngle   float64 `json:"backsightAngle"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	occupied, err := h.store.Point(r.Context(), req.OccupiedPointID)
	if err != nil {
		h.fail(w, err, "occupied point")
		return
	}
	id, err := h.store.CreateStation(r.Context(), req.ProjectID, req.OccupiedPointID,
		req.InstrumentID, req.HeightInstrument, req.BacksightAngle)
	if err != nil {
		h.fail(w, err, "create station")
		return
	}
	h.writeJSON(w, http.StatusCreated, survey.Station{
		ID:               id,
		OccupiedPoint:    &occupied,
		InstrumentID:     req.InstrumentID,
		HeightInstrument: req.HeightInstrument,
		BacksightAngle:   req.BacksightAngle,
		Observations:     []survey.Observation{},
	})
}

func (h *Handler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationID int `json:"stationId"`
		survey.Observation
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.store.CreateObservation(r.Context(), req.StationID, req.Observation)
	if err != nil {
		h.fail(w, err, "create observation")
		return
	}
	obs := req.Observation
	obs.ID = id
	obs.TargetPoint = nil
	h.writeJSON(w, http.StatusCreated, obs)
}

// ============================================================
// Layers
// ============================================================

func (h *Handler) GetProjectLayers(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlID(r, "projectId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	layers, err := h.store.LayersByProject(r.Context(), projectID)
	if err != nil {
		h.fail(w, err, "layers")
		return
	}
	h.writeJSON(w, http.StatusOK, layers)
}

func (h *Handler) CreateLayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID int    `json:"projectId"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		Visible   *bool  `json:"visible"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}
	layer, err := h.store.CreateLayer(r.Context(), req.ProjectID, req.Name, req.Color, visible)
	if err != nil {
		h.fail(w, err, "create layer")
		return
	}
	h.writeJSON(w, http.StatusCreated, layer)
}

// PatchLayer merges only the fields present in the body, so a
// visibility toggle never clobbers the drawing payload.
func (h *Handler) PatchLayer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid layer id")
		return
	}
	var patch LayerPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	layer, err := h.store.UpdateLayer(r.Context(), id, patch)
	if err != nil {
		h.fail(w, err, "update layer")
		return
	}
	h.log.Info("layer updated", zap.Int("id", id))
	h.writeJSON(w, http.StatusOK, layer)
}

func (h *Handler) DeleteLayer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid layer id")
		return
	}
	if err := h.store.DeleteLayer(r.Context(), id); err != nil {
		h.fail(w, err, "delete layer")
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

// ============================================================
// Leveling
// ============================================================

func (h *Handler) GetProjectLevelingRuns(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlID(r, "projectId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	runs, err := h.store.LevelingRunsByProject(r.Context(), projectID)
	if err != nil {
		h.fail(w, err, "leveling runs")
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) GetLevelingRun(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := h.store.LevelingRunDetails(r.Context(), id)
	if err != nil {
		h.fail(w, err, "leveling run")
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) CreateLevelingRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID int    `json:"projectId"`
		Name      string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := h.store.CreateLevelingRun(r.Context(), req.ProjectID, req.Name)
	if err != nil {
		h.fail(w, err, "create leveling run")
		return
	}
	h.writeJSON(w, http.StatusCreated, run)
}

func (h *Handler) AddLevelingReading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RunID int `json:"runId"`
		survey.Reading
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.store.AddReading(r.Context(), req.RunID, req.Reading)
	if err != nil {
		h.fail(w, err, "add reading")
		return
	}
	// Return the row with its propagated instrument height and
	// elevation
	run, err := h.store.LevelingRunDetails(r.Context(), req.RunID)
	if err != nil {
		h.fail(w, err, "leveling run")
		return
	}
	for _, reading := range run.Readings {
		if reading.ID == id {
			h.writeJSON(w, http.StatusCreated, reading)
			return
		}
	}
	h.writeError(w, http.StatusInternalServerError, "reading vanished after insert")
}

// ============================================================
// Surfaces
// ============================================================

func (h *Handler) GetProjectSurfaces(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlID(r, "projectId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	surfaces, err := h.store.SurfacesByProject(r.Context(), projectID)
	if err != nil {
		h.fail(w, err, "surfaces")
		return
	}
	h.writeJSON(w, http.StatusOK, surfaces)
}

func (h *Handler) CreateSurface(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID int    `json:"projectId"`
		Name      string `json:"name"`
		Type      string `json:"type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	surface, err := h.store.CreateSurface(r.Context(), req.ProjectID, req.Name, req.Type)
	if err != nil {
		h.fail(w, err, "create surface")
		return
	}
	h.writeJSON(w, http.StatusCreated, surface)
}

func (h *Handler) AddSurfacePoints(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid surface id")
		return
	}
	var req struct {
		PointIDs []int `json:"pointIds"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.store.AddSurfacePoints(r.Context(), id, req.PointIDs); err != nil {
		h.fail(w, err, "add surface points")
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}
