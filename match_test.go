package vtx

import "testing"

func TestRegisterMatchAndGetMatches(t *testing.T) {
	s := New(20, 3)
	writeRow(s, 0, "foo bar foo")

	if err := s.matches.RegisterMatch("foo", MakeCell(0, 0, 0, AttrBold)); err != nil {
		t.Fatalf("RegisterMatch: %v", err)
	}

	found := s.matches.getmatches()
	if len(found) != 2 {
		t.Fatalf("got %d matches, want 2", len(found))
	}
	if found[0].Blocks[0].Start != 0 || found[0].Blocks[0].End != 3 {
		t.Errorf("first match block = %+v, want {0,0,3}", found[0].Blocks[0])
	}
	if found[1].Blocks[0].Start != 8 || found[1].Blocks[0].End != 11 {
		t.Errorf("second match block = %+v, want {0,8,11}", found[1].Blocks[0])
	}
}

func TestRegisterMatchBadPatternErrors(t *testing.T) {
	s := New(10, 3)
	if err := s.matches.RegisterMatch("(unbalanced", Clear); err == nil {
		t.Error("expected error compiling an unbalanced POSIX ERE")
	}
}

func TestMatchClearRemovesPattern(t *testing.T) {
	s := New(20, 3)
	writeRow(s, 0, "foo bar foo")
	s.matches.RegisterMatch("foo", Clear)
	s.matches.getmatches()

	s.matches.MatchClear("foo")
	if len(s.matches.patterns) != 0 {
		t.Errorf("expected pattern removed, %d remain", len(s.matches.patterns))
	}
	if len(s.matches.matches) != 0 {
		t.Errorf("expected matches cleared, %d remain", len(s.matches.matches))
	}
}

func TestMatchHighlightAttributeOnlyTogglesBack(t *testing.T) {
	s := New(20, 3)
	writeRow(s, 0, "foo bar")
	s.matches.RegisterMatch("foo", MakeCell(0, 0, 0, AttrBold))
	found := s.matches.getmatches()

	before := s.Row(0).Cell(0)
	s.matches.MatchHighlight(found[0])
	if !s.Row(0).Cell(0).Bold() {
		t.Error("expected bold set after highlight")
	}

	s.matches.MatchHighlight(found[0])
	if s.Row(0).Cell(0) != before {
		t.Errorf("expected cell restored after un-highlight: got %v, want %v", s.Row(0).Cell(0), before)
	}
}

func TestMatchHighlightColourSavesAndRestores(t *testing.T) {
	s := New(20, 3)
	writeRow(s, 0, "foo bar")
	mask := MakeCell(0, 3, 0, 0).WithFg(3)
	s.matches.RegisterMatch("foo", mask)
	found := s.matches.getmatches()

	before := s.Row(0).Cell(0)
	s.matches.MatchHighlight(found[0])
	if s.Row(0).Cell(0).Fg() != 3 {
		t.Errorf("expected fg=3 after highlight, got %d", s.Row(0).Cell(0).Fg())
	}

	s.matches.MatchHighlight(found[0])
	if s.Row(0).Cell(0) != before {
		t.Errorf("expected cell restored from saved copy: got %v, want %v", s.Row(0).Cell(0), before)
	}
}

func TestMatchCheckFindsCoveringMatch(t *testing.T) {
	s := New(20, 3)
	writeRow(s, 0, "foo bar foo")
	s.matches.RegisterMatch("bar", Clear)
	s.matches.getmatches()

	if m := s.matches.MatchCheck(4, 0); m == nil {
		t.Error("expected a match covering (4,0)")
	}
	if m := s.matches.MatchCheck(0, 0); m != nil {
		t.Error("expected no match covering (0,0)")
	}
}

func TestOnlyOneMatchHighlightedAtATime(t *testing.T) {
	s := New(20, 3)
	writeRow(s, 0, "foo bar foo")
	s.matches.RegisterMatch("foo", MakeCell(0, 0, 0, AttrBold))
	found := s.matches.getmatches()
	if len(found) != 2 {
		t.Fatalf("got %d matches, want 2", len(found))
	}

	s.matches.MatchHighlight(found[0])
	s.matches.MatchHighlight(found[1])

	if found[0].highlighted {
		t.Error("expected first match un-highlighted once a second is shown")
	}
	if !found[1].highlighted {
		t.Error("expected second match highlighted")
	}
}
