// Package tools holds the viewer's interaction-mode state machine,
// kept free of any rendering framework so gestures can be tested
// headless.
package tools

// Tool is the active interaction mode of the canvas
type Tool int

const (
	// Pan drags the whole canvas
	Pan Tool = iota
	// MovePoint drags individual point markers
	MovePoint
	// DrawLine connects points into layer segments by clicking pairs
	DrawLine
	// Measure reads distances and azimuths between clicked points
	// without writing anything
	Measure
)

// String returns the tool's display name
func (t Tool) String() string {
	switch t {
	case Pan:
		return "pan"
	case MovePoint:
		return "move"
	case DrawLine:
		return "draw"
	case Measure:
		return "measure"
	}
	return "unknown"
}

// State is the current tool plus its transient gesture state. Anchor
// is the first point of a line-drawing gesture, 0 when none.
type State struct {
	Active Tool
	Anchor int
}

// Action is what a completed gesture asks the caller to do
type Action int

const (
	// NoAction means the click only changed transient state
	NoAction Action = iota
	// AppendSegment means persist a new segment From -> To
	AppendSegment
	// NeedLayer means drawing was attempted with no active layer;
	// surface the layer panel instead of writing
	NeedLayer
)

// SegmentAction describes the segment a DrawLine gesture produced
type SegmentAction struct {
	From int
	To   int
}

// SetTool switches the active tool. Any drawing in progress is
// abandoned: the anchor always clears, with no write.
func SetTool(s State, tool Tool) State {
	return State{Active: tool}
}

// ClickPoint feeds a click on a point marker through the state
// machine. In DrawLine mode the first click anchors, a repeat click
// on the anchor cancels, and a click on a different point completes a
// segment and chains the anchor forward for polyline entry.
// hasActiveLayer gates any write.
func ClickPoint(s State, pointID int, hasActiveLayer bool) (State, Action, SegmentAction) {
	if s.Active != DrawLine {
		return s, NoAction, SegmentAction{}
	}

	if !hasActiveLayer {
		return s, NeedLayer, SegmentAction{}
	}

	if s.Anchor == 0 {
		s.Anchor = pointID
		return s, NoAction, SegmentAction{}
	}

	if s.Anchor == pointID {
		s.Anchor = 0
		return s, NoAction, SegmentAction{}
	}

	seg := SegmentAction{From: s.Anchor, To: pointID}
	s.Anchor = pointID
	return s, AppendSegment, seg
}

// ClearAnchor drops the drawing anchor without a write
func ClearAnchor(s State) State {
	s.Anchor = 0
	return s
}
