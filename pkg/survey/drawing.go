package survey

import "encoding/json"

// SegmentRef is a drawn segment between two point ids
type SegmentRef struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// DrawingData is the persisted drawing payload of a layer
type DrawingData struct {
	Lines []SegmentRef `json:"lines"`
}

// DecodeDrawing parses a layer's raw drawing payload. The backend may
// serialize it either as a JSON object or as a string containing JSON;
// both forms decode to the same structure. Absent or malformed
// payloads decode to an empty drawing, never an error.
func DecodeDrawing(raw json.RawMessage) DrawingData {
	if len(raw) == 0 {
		return DrawingData{Lines: []SegmentRef{}}
	}

	var data DrawingData
	if err := json.Unmarshal(raw, &data); err == nil && data.Lines != nil {
		return data
	}

	// Try the string-encoded form
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if err := json.Unmarshal([]byte(text), &data); err == nil && data.Lines != nil {
			return data
		}
	}

	return DrawingData{Lines: []SegmentRef{}}
}

// EncodeDrawing serializes a drawing back to its structured wire form
func EncodeDrawing(data DrawingData) json.RawMessage {
	if data.Lines == nil {
		data.Lines = []SegmentRef{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage(`{"lines":[]}`)
	}
	return raw
}

// Append returns a copy of the drawing with one more segment. The
// receiver is not modified. Duplicate segments are permitted; the
// backend stores whatever the client sends.
func (d DrawingData) Append(from, to int) DrawingData {
	lines := make([]SegmentRef, 0, len(d.Lines)+1)
	lines = append(lines, d.Lines...)
	lines = append(lines, SegmentRef{From: from, To: to})
	return DrawingData{Lines: lines}
}

// ResolveSegment looks up a segment's endpoints in the current point
// set. ok is false when either endpoint is missing, which callers must
// treat as "skip this segment".
func ResolveSegment(seg SegmentRef, pointsByID map[int]Point) (p1, p2 Point, ok bool) {
	p1, ok1 := pointsByID[seg.From]
	p2, ok2 := pointsByID[seg.To]
	if !ok1 || !ok2 {
		return Point{}, Point{}, false
	}
	return p1, p2, true
}
