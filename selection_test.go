package vtx

import (
	"bytes"
	"testing"
)

func writeRow(s *Screen, y int, text string) {
	line := s.activeRing().at(y)
	for x, ch := range text {
		line.SetCell(x, MakeCell(ch, 0, 0, 0))
	}
}

// TestSelectionIdempotence is spec.md §8 property 7: two FixSelection
// calls in a row are a fixed point.
func TestSelectionIdempotence(t *testing.T) {
	s := New(20, 5)
	writeRow(s, 0, "hello world")

	s.SetSelection(1, 0, 8, 0, GranWord, ModNone)
	s.FixSelection()
	first := s.selection

	s.FixSelection()
	second := s.selection

	if first.StartX != second.StartX || first.StartY != second.StartY ||
		first.EndX != second.EndX || first.EndY != second.EndY {
		t.Errorf("FixSelection not idempotent: first=%+v second=%+v", first, second)
	}
}

// TestSelectionWordClassExtraction is spec.md §8 property 8: a single
// word-interior cell selects the whole word.
func TestSelectionWordClassExtraction(t *testing.T) {
	s := New(20, 5)
	writeRow(s, 0, "hello world")

	// Click in the middle of "hello" (index 2, the 'l').
	s.SetSelection(2, 0, 2, 0, GranWord, ModNone)
	s.FixSelection()

	if s.selection.StartX != 0 || s.selection.EndX != 4 {
		t.Errorf("expected word bounds [0,4], got [%d,%d]", s.selection.StartX, s.selection.EndX)
	}
}

func TestSelectionBackwardOrderPreserved(t *testing.T) {
	s := New(20, 5)
	writeRow(s, 0, "hello world")

	// Drag from end back to start: StartX > EndX on entry.
	s.SetSelection(8, 0, 1, 0, GranWord, ModNone)
	s.FixSelection()

	// Original ordering (Start after End) must be preserved post-fix.
	if s.selection.StartX < s.selection.EndX {
		t.Errorf("expected backward ordering preserved, got Start=%d End=%d",
			s.selection.StartX, s.selection.EndX)
	}
}

func TestGetSelectionSingleLine(t *testing.T) {
	s := New(20, 5)
	writeRow(s, 0, "hello world")

	s.SetSelection(0, 0, 4, 0, GranChar, ModNone)
	s.FixSelection()

	got := s.GetSelection(1)
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("GetSelection = %q, want %q", got, "hello")
	}
}

func TestGetSelectionMultiLineNewline(t *testing.T) {
	s := New(10, 5)
	writeRow(s, 0, "abc")
	writeRow(s, 1, "def")

	s.SetSelection(0, 0, 2, 1, GranChar, ModNone)
	s.FixSelection()

	got := s.GetSelection(1)
	if !bytes.Contains(got, []byte("\n")) {
		t.Errorf("GetSelection = %q, want a newline between rows", got)
	}
}

func TestGetSelectionInactiveReturnsNil(t *testing.T) {
	s := New(10, 5)
	if got := s.GetSelection(1); got != nil {
		t.Errorf("expected nil for inactive selection, got %q", got)
	}
}
