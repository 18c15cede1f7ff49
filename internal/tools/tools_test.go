package tools

import "testing"

func TestClickPointAnchorsFirstPoint(t *testing.T) {
	s := State{Active: DrawLine}

	s, action, _ := ClickPoint(s, 4, true)
	if action != NoAction {
		t.Errorf("first click should not act, got %v", action)
	}
	if s.Anchor != 4 {
		t.Errorf("expected anchor 4, got %d", s.Anchor)
	}
}

func TestClickSamePointCancels(t *testing.T) {
	s := State{Active: DrawLine}
	s, _, _ = ClickPoint(s, 4, true)

	s, action, _ := ClickPoint(s, 4, true)
	if action != NoAction {
		t.Errorf("clicking the anchor should cancel silently, got %v", action)
	}
	if s.Anchor != 0 {
		t.Errorf("anchor should clear, got %d", s.Anchor)
	}
}

func TestClickSecondPointAppendsAndChains(t *testing.T) {
	s := State{Active: DrawLine}
	s, _, _ = ClickPoint(s, 4, true)

	s, action, seg := ClickPoint(s, 9, true)
	if action != AppendSegment {
		t.Fatalf("expected AppendSegment, got %v", action)
	}
	if seg != (SegmentAction{From: 4, To: 9}) {
		t.Errorf("unexpected segment: %+v", seg)
	}
	if s.Anchor != 9 {
		t.Errorf("anchor should chain to 9, got %d", s.Anchor)
	}
}

func TestPolylineChain(t *testing.T) {
	s := State{Active: DrawLine}
	var segments []SegmentAction

	for _, id := range []int{1, 2, 3, 4} {
		var action Action
		var seg SegmentAction
		s, action, seg = ClickPoint(s, id, true)
		if action == AppendSegment {
			segments = append(segments, seg)
		}
	}

	expected := []SegmentAction{{1, 2}, {2, 3}, {3, 4}}
	if len(segments) != len(expected) {
		t.Fatalf("expected %d segments, got %d", len(expected), len(segments))
	}
	for i, seg := range segments {
		if seg != expected[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, expected[i], seg)
		}
	}
}

func TestClickWithoutActiveLayer(t *testing.T) {
	s := State{Active: DrawLine}

	s, action, _ := ClickPoint(s, 4, false)
	if action != NeedLayer {
		t.Errorf("expected NeedLayer, got %v", action)
	}
	if s.Anchor != 0 {
		t.Errorf("no anchor should be set without a layer, got %d", s.Anchor)
	}
}

func TestClickOutsideDrawMode(t *testing.T) {
	for _, tool := range []Tool{Pan, MovePoint} {
		s := State{Active: tool}
		s, action, _ := ClickPoint(s, 4, true)
		if action != NoAction || s.Anchor != 0 {
			t.Errorf("tool %v: point clicks must be inert", tool)
		}
	}
}

func TestSetToolClearsAnchor(t *testing.T) {
	s := State{Active: DrawLine}
	s, _, _ = ClickPoint(s, 4, true)

	s = SetTool(s, Pan)
	if s.Anchor != 0 {
		t.Errorf("switching tools should clear the anchor, got %d", s.Anchor)
	}
	if s.Active != Pan {
		t.Errorf("expected Pan, got %v", s.Active)
	}
}

func TestToolString(t *testing.T) {
	if Pan.String() != "pan" || MovePoint.String() != "move" || DrawLine.String() != "draw" || Measure.String() != "measure" {
		t.Error("unexpected tool names")
	}
}
