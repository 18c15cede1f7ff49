package survey

import (
	"encoding/json"
	"testing"
)

func TestDecodeDrawingStructured(t *testing.T) {
	raw := json.RawMessage(`{"lines":[{"from":1,"to":2},{"from":2,"to":3}]}`)
	data := DecodeDrawing(raw)

	if len(data.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(data.Lines))
	}
	if data.Lines[0] != (SegmentRef{From: 1, To: 2}) {
		t.Errorf("unexpected first segment: %+v", data.Lines[0])
	}
}

func TestDecodeDrawingStringEncoded(t *testing.T) {
	raw := json.RawMessage(`"{\"lines\":[{\"from\":5,\"to\":7}]}"`)
	data := DecodeDrawing(raw)

	if len(data.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(data.Lines))
	}
	if data.Lines[0] != (SegmentRef{From: 5, To: 7}) {
		t.Errorf("unexpected segment: %+v", data.Lines[0])
	}
}

func TestDecodeDrawingAbsentAndMalformed(t *testing.T) {
	cases := []json.RawMessage{
		nil,
		json.RawMessage(`null`),
		json.RawMessage(`"not json at all"`),
		json.RawMessage(`42`),
		json.RawMessage(`{"something":"else"}`),
	}
	for _, raw := range cases {
		data := DecodeDrawing(raw)
		if data.Lines == nil || len(data.Lines) != 0 {
			t.Errorf("payload %q: expected empty drawing, got %+v", raw, data)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := DrawingData{Lines: []SegmentRef{{From: 1, To: 2}}}
	decoded := DecodeDrawing(EncodeDrawing(data))

	if len(decoded.Lines) != 1 || decoded.Lines[0] != data.Lines[0] {
		t.Errorf("round trip failed: %+v", decoded)
	}
}

func TestAppendIsPure(t *testing.T) {
	original := DrawingData{Lines: []SegmentRef{{From: 1, To: 2}}}
	updated := original.Append(2, 3)

	if len(original.Lines) != 1 {
		t.Errorf("Append mutated its receiver: %+v", original)
	}
	if len(updated.Lines) != 2 {
		t.Fatalf("expected 2 lines after append, got %d", len(updated.Lines))
	}
	if updated.Lines[1] != (SegmentRef{From: 2, To: 3}) {
		t.Errorf("unexpected appended segment: %+v", updated.Lines[1])
	}
}

func TestAppendKeepsDuplicates(t *testing.T) {
	data := DrawingData{}.Append(1, 2).Append(1, 2)

	if len(data.Lines) != 2 {
		t.Errorf("duplicate segments should be kept, got %d lines", len(data.Lines))
	}
}

func TestAppendEmptyLayerScenario(t *testing.T) {
	layer := Layer{DrawingData: json.RawMessage(`{"lines":[]}`)}
	updated := layer.Drawing().Append(1, 2)

	encoded := string(EncodeDrawing(updated))
	expected := `{"lines":[{"from":1,"to":2}]}`
	if encoded != expected {
		t.Errorf("expected %s, got %s", expected, encoded)
	}
}

func TestResolveSegment(t *testing.T) {
	points := PointsByID([]Point{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 10, Y: 10}})

	p1, p2, ok := ResolveSegment(SegmentRef{From: 1, To: 2}, points)
	if !ok {
		t.Fatal("expected segment to resolve")
	}
	if p1.ID != 1 || p2.ID != 2 {
		t.Errorf("wrong endpoints: %d, %d", p1.ID, p2.ID)
	}
}

func TestResolveSegmentDangling(t *testing.T) {
	points := PointsByID([]Point{{ID: 1}})

	if _, _, ok := ResolveSegment(SegmentRef{From: 1, To: 99}, points); ok {
		t.Error("missing target should not resolve")
	}
	if _, _, ok := ResolveSegment(SegmentRef{From: 99, To: 1}, points); ok {
		t.Error("missing source should not resolve")
	}
	if _, _, ok := ResolveSegment(SegmentRef{From: 1, To: 1}, nil); ok {
		t.Error("nil point set should not resolve")
	}
}
