package vtx

import "testing"

func TestLineSetCellAndWidth(t *testing.T) {
	l := NewLine(5)
	if l.Width() != 5 {
		t.Fatalf("width = %d, want 5", l.Width())
	}
	l.SetCell(2, MakeCell('x', 0, 0, 0))
	if c := l.Cell(2); c.Char() != 'x' {
		t.Errorf("cell(2) = %q, want 'x'", c.Char())
	}
	if c := l.Cell(99); c != Clear {
		t.Errorf("out-of-range cell = %v, want Clear", c)
	}
}

func TestLineLastNonBlank(t *testing.T) {
	l := NewLine(5)
	if l.LastNonBlank() != -1 {
		t.Errorf("blank line LastNonBlank = %d, want -1", l.LastNonBlank())
	}
	l.SetCell(3, MakeCell('y', 0, 0, 0))
	if l.LastNonBlank() != 3 {
		t.Errorf("LastNonBlank = %d, want 3", l.LastNonBlank())
	}
}

func TestLineResizePreservesFillAttr(t *testing.T) {
	l := NewLine(3)
	l.SetCell(0, MakeCell('a', 0, 0, 0))
	fill := MakeCell(0, 5, 6, 0)
	l.Resize(5, fill)

	if l.Width() != 5 {
		t.Fatalf("width = %d, want 5", l.Width())
	}
	if l.Cell(0).Char() != 'a' {
		t.Error("expected existing cell preserved after grow")
	}
	if l.Cell(4) != fill {
		t.Errorf("new cell = %v, want fill %v", l.Cell(4), fill)
	}

	l.Resize(2, fill)
	if l.Width() != 2 {
		t.Fatalf("width = %d, want 2", l.Width())
	}
}

func TestLineCopyRestore(t *testing.T) {
	l := NewLine(3)
	l.SetCell(1, MakeCell('z', 0, 0, 0))
	saved := l.Copy()

	l.SetCell(1, MakeCell('q', 0, 0, 0))
	l.Restore(saved)

	if l.Cell(1).Char() != 'z' {
		t.Errorf("after restore, cell(1) = %q, want 'z'", l.Cell(1).Char())
	}
}

func TestLineRingRotateUp(t *testing.T) {
	r := newLineRing(3, 4)
	top := r.at(0)
	top.SetCell(0, MakeCell('t', 0, 0, 0))

	evicted := r.rotateUp()
	if evicted != top {
		t.Error("rotateUp should return the old logical row 0")
	}
	if r.at(2) != top {
		t.Error("evicted line should now be the new bottom row")
	}
}

func TestLineRingRotateDownInverse(t *testing.T) {
	r := newLineRing(3, 4)
	orig := r.all()

	evicted := r.rotateUp()
	r.rotateDown(evicted)

	for i, l := range r.all() {
		if l != orig[i] {
			t.Errorf("row %d not restored after rotateUp/rotateDown pair", i)
		}
	}
}

func TestScrollbackRingPushAndEvict(t *testing.T) {
	s := newScrollbackRing(2)
	a, b, c := NewLine(1), NewLine(1), NewLine(1)
	s.Push(a)
	s.Push(b)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	s.Push(c)
	if s.Len() != 2 {
		t.Fatalf("len after overflow = %d, want 2", s.Len())
	}
	if s.At(0) != b || s.At(1) != c {
		t.Error("expected oldest entry evicted, FIFO order preserved")
	}
}

func TestScrollbackRingSetMaxShrinkKeepsNewest(t *testing.T) {
	s := newScrollbackRing(5)
	lines := make([]*Line, 5)
	for i := range lines {
		lines[i] = NewLine(1)
		s.Push(lines[i])
	}

	s.SetMax(2)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if s.At(0) != lines[3] || s.At(1) != lines[4] {
		t.Error("expected the two most recent lines to survive shrink")
	}
}

func TestScrollbackRingSetMaxGrow(t *testing.T) {
	s := newScrollbackRing(1)
	l := NewLine(1)
	s.Push(l)

	s.SetMax(4)
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	if s.At(0) != l {
		t.Error("expected surviving entry preserved after grow")
	}

	more := NewLine(1)
	s.Push(more)
	s.Push(more)
	s.Push(more)
	if s.Len() != 4 {
		t.Errorf("len = %d, want 4", s.Len())
	}
}
