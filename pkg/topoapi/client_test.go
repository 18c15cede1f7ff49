package topoapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"topocad/pkg/survey"
)

func TestPointsRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/points/project/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"name":"BM1","x":100,"y":200,"z":50,"code":"BM","isFixed":true}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	points, err := client.Points(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 || points[0].Name != "BM1" || !points[0].IsFixed {
		t.Errorf("unexpected points: %+v", points)
	}
}

func TestUpdatePointPatchBody(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/points/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		io.WriteString(w, `{"id":3,"x":12.5,"y":-4}`)
	}))
	defer server.Close()

	x, y := 12.5, -4.0
	client := NewClient(server.URL)
	point, err := client.UpdatePoint(context.Background(), 3, PointPatch{X: &x, Y: &y})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the changed coordinates cross the wire
	if len(body) != 2 || body["x"] != 12.5 || body["y"] != -4.0 {
		t.Errorf("patch should carry only x and y: %v", body)
	}
	if point.X != 12.5 {
		t.Errorf("unexpected point: %+v", point)
	}
}

func TestUpdateLayerVisibilityOnly(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/layers/9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"id":9,"visible":false}`)
	}))
	defer server.Close()

	visible := false
	client := NewClient(server.URL)
	if _, err := client.UpdateLayer(context.Background(), 9, LayerPatch{Visible: &visible}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, hasDrawing := body["drawingData"]; hasDrawing {
		t.Error("visibility toggle must not send drawingData")
	}
	if body["visible"] != false {
		t.Errorf("expected visible=false in patch, got %v", body)
	}
}

func TestUpdateLayerDrawingData(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"id":9}`)
	}))
	defer server.Close()

	drawing := survey.EncodeDrawing(survey.DrawingData{}.Append(1, 2))
	client := NewClient(server.URL)
	if _, err := client.UpdateLayer(context.Background(), 9, LayerPatch{DrawingData: drawing}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := json.Marshal(body["drawingData"])
	if string(raw) != `{"lines":[{"from":1,"to":2}]}` {
		t.Errorf("unexpected drawingData: %s", raw)
	}
}

func TestStationsDegradedFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"occupiedPoint":{"id":4,"x":0,"y":0},"observations":[{"id":2,"targetPoint":null,"angleHorizontal":45}]}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	stations, err := client.Stations(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stations[0].OccupiedPoint == nil || stations[0].OccupiedPoint.ID != 4 {
		t.Errorf("occupied point not resolved: %+v", stations[0])
	}
	if stations[0].Observations[0].TargetPoint != nil {
		t.Error("null targetPoint should decode to nil")
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"project not found"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Project(context.Background(), 99)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apiErr.Status)
	}
}

func TestBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secreto" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken("secreto"))
	if _, err := client.Layers(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateLayerBody(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/layers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"id":12,"name":"eje vial","color":"#f97316","visible":true}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	layer, err := client.CreateLayer(context.Background(), 7, "eje vial", "#f97316", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["projectId"] != 7.0 || body["name"] != "eje vial" {
		t.Errorf("unexpected body: %v", body)
	}
	if layer.ID != 12 {
		t.Errorf("unexpected layer: %+v", layer)
	}
}
