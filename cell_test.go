package vtx

import "testing"

func TestMakeCellRoundTrip(t *testing.T) {
	c := MakeCell('X', 1, 2, AttrBold|AttrUnderline)

	if c.Char() != 'X' {
		t.Errorf("expected 'X', got %q", c.Char())
	}
	if c.Fg() != 1 {
		t.Errorf("expected fg 1, got %d", c.Fg())
	}
	if c.Bg() != 2 {
		t.Errorf("expected bg 2, got %d", c.Bg())
	}
	if !c.Bold() || !c.Underline() {
		t.Error("expected bold and underline set")
	}
	if c.Blink() || c.Reverse() || c.Concealed() {
		t.Error("expected no other attributes set")
	}
}

func TestCellWithAccessors(t *testing.T) {
	c := Clear
	c = c.WithChar('A').WithFg(3).WithBg(4).WithAttr(AttrReverse)

	if c.Char() != 'A' {
		t.Errorf("expected 'A', got %q", c.Char())
	}
	if c.Fg() != 3 || c.Bg() != 4 {
		t.Errorf("expected fg=3 bg=4, got fg=%d bg=%d", c.Fg(), c.Bg())
	}
	if !c.Reverse() {
		t.Error("expected reverse set")
	}

	c = c.WithoutAttr(AttrReverse)
	if c.Reverse() {
		t.Error("expected reverse cleared")
	}
}

func TestCellBlanked(t *testing.T) {
	c := MakeCell('X', 1, 2, AttrBold|AttrUnderline|AttrConcealed)
	b := c.Blanked()

	if b.Char() != 0 {
		t.Errorf("expected char cleared, got %q", b.Char())
	}
	if b.Fg() != 1 || b.Bg() != 2 {
		t.Error("expected colours to survive blanking")
	}
	if b.Bold() || b.Underline() {
		t.Error("expected bold/underline cleared")
	}
	if !b.Concealed() {
		t.Error("expected concealed to survive blanking (ClearMask)")
	}
}

func TestCellIsBlank(t *testing.T) {
	cases := []struct {
		ch   rune
		want bool
	}{
		{0, true},
		{'\t', true},
		{' ', true},
		{'a', false},
		{'0', false},
	}
	for _, c := range cases {
		got := MakeCell(c.ch, 0, 0, 0).IsBlank()
		if got != c.want {
			t.Errorf("IsBlank(%q) = %v, want %v", c.ch, got, c.want)
		}
	}
}

func TestReverseVideo(t *testing.T) {
	c := MakeCell('X', 1, 2, 0)
	r := c.reverseVideo()
	if r.Fg() != 2 || r.Bg() != 1 {
		t.Errorf("expected fg/bg swapped, got fg=%d bg=%d", r.Fg(), r.Bg())
	}
}
