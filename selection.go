package vtx

// Granularity selects how far a selection endpoint expands from the
// point the host reported (spec.md §4.4).
type Granularity int

const (
	GranChar Granularity = iota
	GranWord
	GranLine
)

// Modifier records how a selection endpoint was most recently set
// (spec.md §4.4 "type bitfield"): by dragging the start, the end, by a
// move, or none yet.
type Modifier int

const (
	ModNone Modifier = iota
	ModByStart
	ModByEnd
	ModMoved
)

// Selection is the current text-selection state. Coordinates are in
// cell space; y < 0 indexes scrollback, with -1 the row immediately
// above the live screen (spec.md §4.4).
type Selection struct {
	StartX, StartY int
	EndX, EndY     int
	Gran           Granularity
	Mod            Modifier
	Active         bool

	prevStartX, prevStartY int
	prevEndX, prevEndY     int
	hasPrev                bool
}

// SetSelection begins or updates a selection with the given raw
// endpoints and granularity; call FixSelection afterward to normalise
// and expand them.
func (s *Screen) SetSelection(startX, startY, endX, endY int, gran Granularity, mod Modifier) {
	s.selection.StartX, s.selection.StartY = startX, startY
	s.selection.EndX, s.selection.EndY = endX, endY
	s.selection.Gran = gran
	s.selection.Mod = mod
	s.selection.Active = true
}

// ClearSelection deactivates the current selection.
func (s *Screen) ClearSelection() {
	s.selection.Active = false
	s.selection.hasPrev = false
}

// SelectionActive reports whether a selection is currently active.
func (s *Screen) SelectionActive() bool { return s.selection.Active }

// lineAt returns the line at logical row y (0-based on the live screen,
// negative indexing into scrollback with -1 nearest), independent of
// the current scrollbackOffset viewport - selection coordinates track
// content, not the viewport (spec.md §4.4).
func (s *Screen) lineAt(y int) *Line {
	if y >= 0 {
		if y >= s.height {
			return nil
		}
		return s.activeRing().at(y)
	}
	idx := s.scrollback.Len() + y
	return s.scrollback.At(idx)
}

func (s *Screen) minScrollbackY() int { return -s.scrollback.Len() }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FixSelection normalises the current selection: clamps y into
// [-scrollbacklines, height-1], expands both endpoints per the active
// granularity, and restores the caller's original start/end ordering
// even though expansion is computed on the backward-swapped pair
// internally (spec.md §4.4 "fix_selection", testable property 7
// "selection idempotence").
func (s *Screen) FixSelection() {
	sel := &s.selection
	minY := s.minScrollbackY()
	sel.StartY = clampInt(sel.StartY, minY, s.height-1)
	sel.EndY = clampInt(sel.EndY, minY, s.height-1)

	backward := sel.StartY > sel.EndY || (sel.StartY == sel.EndY && sel.StartX > sel.EndX)
	sx, sy, ex, ey := sel.StartX, sel.StartY, sel.EndX, sel.EndY
	if backward {
		sx, sy, ex, ey = ex, ey, sx, sy
	}

	switch sel.Gran {
	case GranLine:
		sx = 0
		if l := s.lineAt(ey); l != nil {
			ex = l.Width()
		} else {
			ex = s.width
		}
	case GranWord, GranChar:
		sx, sy = s.expandLeft(sx, sy, sel.Gran)
		ex, ey = s.expandRight(ex, ey, sel.Gran)
	}

	if backward {
		sel.StartX, sel.StartY, sel.EndX, sel.EndY = ex, ey, sx, sy
	} else {
		sel.StartX, sel.StartY, sel.EndX, sel.EndY = sx, sy, ex, ey
	}
}

// charClass classifies a cell for WORD-granularity expansion: 0 for
// blank cells, 1 for word-class members (default: alphanumeric and
// underscore, plus any character above 0xFF), 2 for everything else.
func (s *Screen) charClass(c Cell) int {
	ch := c.Char()
	if c.IsBlank() {
		return 0
	}
	if ch > 0xFF || (ch < 256 && s.wordclass[ch]) {
		return 1
	}
	return 2
}

// expandLeft extends a selection start leftward through the current
// word class (WORD granularity) or just past a run of NUL filler cells
// preceding a tab (both granularities - spec.md §4.4 "Runs of NUL cells
// between tabs compress").
func (s *Screen) expandLeft(x, y int, gran Granularity) (int, int) {
	line := s.lineAt(y)
	if line == nil {
		return x, y
	}
	if gran == GranWord {
		class := s.charClass(line.Cell(x))
		for x > 0 {
			if s.charClass(line.Cell(x-1)) != class {
				break
			}
			x--
		}
	}
	if line.Cell(x).Char() == 0 {
		k := x
		for k > 0 && line.Cell(k).Char() == 0 {
			k--
		}
		if line.Cell(k).Char() == '\t' {
			x = k
		}
	}
	return x, y
}

// expandRight is the mirror of expandLeft for the selection end.
func (s *Screen) expandRight(x, y int, gran Granularity) (int, int) {
	line := s.lineAt(y)
	if line == nil {
		return x, y
	}
	width := line.Width()
	if gran == GranWord && x < width {
		class := s.charClass(line.Cell(x))
		for x+1 < width && s.charClass(line.Cell(x+1)) == class {
			x++
		}
	}
	if x < width && line.Cell(x).Char() == '\t' {
		for x+1 < width && line.Cell(x+1).Char() == 0 {
			x++
		}
	}
	return x, y
}

// rowRange returns the [colStart, colEnd) slice of row y to include in
// a multi-row selection spanning sy..ey. The end column ex is inclusive,
// so colEnd on the last row is ex+1 (callers clamp it to the width).
func rowRange(y, sy, sx, ey, ex, width int) (int, int) {
	switch {
	case y == sy && y == ey:
		return sx, ex + 1
	case y == sy:
		return sx, width
	case y == ey:
		return 0, ex + 1
	default:
		return 0, width
	}
}

// GetSelection extracts the selected text as a flat character buffer,
// packed unit bytes per character (unit in {1, 2, 4}), per spec.md
// §4.4 "get_selection(size)". Characters below 32 other than tab emit a
// space; tab collapses following NUL cells into one tab; a newline is
// appended after every row but the last when the selection covers that
// row to its last non-blank cell; characters that don't fit in unit
// emit '?'.
func (s *Screen) GetSelection(unit int) []byte {
	sel := s.selection
	if !sel.Active {
		return nil
	}
	sy, ey := sel.StartY, sel.EndY
	if sy > ey || (sy == ey && sel.StartX > sel.EndX) {
		return nil
	}

	var runes []rune
	for y := sy; y <= ey; y++ {
		line := s.lineAt(y)
		if line == nil {
			continue
		}
		colStart, colEnd := rowRange(y, sy, sel.StartX, ey, sel.EndX, line.Width())
		if colEnd > line.Width() {
			colEnd = line.Width()
		}
		x := colStart
		for x < colEnd {
			ch := line.Cell(x).Char()
			switch {
			case ch == '\t':
				runes = append(runes, '\t')
				x++
				for x < colEnd && line.Cell(x).Char() == 0 {
					x++
				}
			case ch < 32:
				runes = append(runes, ' ')
				x++
			default:
				runes = append(runes, ch)
				x++
			}
		}
		if y != ey {
			runes = append(runes, '\n')
		}
	}

	return packSelection(runes, unit)
}

func packSelection(runes []rune, unit int) []byte {
	out := make([]byte, 0, len(runes)*unit)
	for _, r := range runes {
		switch unit {
		case 1:
			if r > 0xFF {
				r = '?'
			}
			out = append(out, byte(r))
		case 2:
			if r > 0xFFFF {
				r = '?'
			}
			v := uint16(r)
			out = append(out, byte(v), byte(v>>8))
		default: // 4
			v := uint32(r)
			out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		}
	}
	return out
}

// DrawSelection computes the symmetric difference between the new and
// previously-drawn endpoints and repaints only the two changed ranges
// (spec.md §4.4 "draw_selection"), keeping selection drag O(delta) not
// O(selection).
func (s *Screen) DrawSelection() {
	sel := &s.selection
	if !sel.hasPrev {
		if sel.Active {
			s.repaintSpan(sel.StartX, sel.StartY, sel.EndX, sel.EndY)
		}
		sel.prevStartX, sel.prevStartY = sel.StartX, sel.StartY
		sel.prevEndX, sel.prevEndY = sel.EndX, sel.EndY
		sel.hasPrev = true
		s.renderer.SelectionChanged()
		return
	}

	if sel.prevStartX != sel.StartX || sel.prevStartY != sel.StartY {
		s.repaintSpan(sel.prevStartX, sel.prevStartY, sel.StartX, sel.StartY)
	}
	if sel.prevEndX != sel.EndX || sel.prevEndY != sel.EndY {
		s.repaintSpan(sel.prevEndX, sel.prevEndY, sel.EndX, sel.EndY)
	}

	sel.prevStartX, sel.prevStartY = sel.StartX, sel.StartY
	sel.prevEndX, sel.prevEndY = sel.EndX, sel.EndY
	s.renderer.SelectionChanged()
}

// repaintSpan issues UpdateRect covering the rows between two endpoints
// (normalising order first).
func (s *Screen) repaintSpan(ax, ay, bx, by int) {
	if ay > by || (ay == by && ax > bx) {
		ax, ay, bx, by = bx, by, ax, ay
	}
	if ay < 0 {
		ay = 0
	}
	if by < 0 {
		return
	}
	s.UpdateRect(-1, 0, ay, s.width-1, by)
}

// SetWordClass replaces the 256-bit word-class set used by WORD
// granularity expansion (spec.md §6 "set_wordclass(chars)").
func (s *Screen) SetWordClass(chars []byte) {
	s.wordclass = [256]bool{}
	for _, c := range chars {
		s.wordclass[c] = true
	}
}
