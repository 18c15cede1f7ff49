package dxf

import (
	"bytes"
	"strings"
	"testing"

	"topocad/pkg/survey"
)

func TestWriteEntities(t *testing.T) {
	points := []survey.Point{
		{ID: 1, Name: "BM-1", X: 1000, Y: 2000, Z: 100},
		{ID: 2, Name: "P-1", X: 1010, Y: 2010, Z: 101},
	}
	drawing := survey.DrawingData{}.Append(1, 2)
	layers := []survey.Layer{
		{ID: 5, Name: "Eje", Color: "#ff0000", Visible: true, DrawingData: survey.EncodeDrawing(drawing)},
	}

	var buf bytes.Buffer
	if err := Write(&buf, Document{Points: points, Layers: layers}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	if !strings.HasSuffix(strings.TrimSpace(out), "EOF") {
		t.Error("drawing does not end with EOF")
	}
	if got := strings.Count(out, "\nPOINT\n"); got != 2 {
		t.Errorf("POINT entities = %d, want 2", got)
	}
	if got := strings.Count(out, "\nTEXT\n"); got != 2 {
		t.Errorf("TEXT labels = %d, want 2", got)
	}
	if got := strings.Count(out, "\nLINE\n"); got != 1 {
		t.Errorf("LINE entities = %d, want 1", got)
	}
	if !strings.Contains(out, "BM-1") {
		t.Error("point name missing from drawing")
	}
	if !strings.Contains(out, "Eje") {
		t.Error("layer name missing from drawing")
	}
	if !strings.Contains(out, "1000.000000") {
		t.Error("point coordinate missing from drawing")
	}
}

func TestWriteSkipsDanglingSegments(t *testing.T) {
	points := []survey.Point{{ID: 1, Name: "P-1"}}
	drawing := survey.DrawingData{}.Append(1, 99)
	layers := []survey.Layer{
		{ID: 5, Name: "Eje", DrawingData: survey.EncodeDrawing(drawing)},
	}

	var buf bytes.Buffer
	if err := Write(&buf, Document{Points: points, Layers: layers}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Count(buf.String(), "\nLINE\n") != 0 {
		t.Error("dangling segment should not be exported")
	}
}

func TestWriteUnnamedLayerGetsFallbackName(t *testing.T) {
	layers := []survey.Layer{{ID: 7}}

	var buf bytes.Buffer
	if err := Write(&buf, Document{Layers: layers}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "CAPA_7") {
		t.Error("unnamed layer should export as CAPA_7")
	}
}

func TestACIFromHex(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"#ff0000", 1},
		{"#00ff00", 3},
		{"#0000ff", 5},
		{"#ffffff", 7},
		{"#808080", 8},
	}
	for _, tt := range tests {
		if got := aciFromHex(tt.hex); got != tt.want {
			t.Errorf("aciFromHex(%s) = %d, want %d", tt.hex, got, tt.want)
		}
	}
}
