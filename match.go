package vtx

import "regexp"

// MatchBlock is one physical-row span a match crosses, in viewport row
// coordinates (0..height-1, same space as draw_text/UpdateRect -
// spec.md §4.5 step 4).
type MatchBlock struct {
	Row        int
	Start, End int // [Start, End) columns
}

// Match is one located occurrence of a registered regular expression,
// plus the highlight state needed to reverse it (spec.md §4.5
// "match_highlight").
type Match struct {
	pattern     *pattern
	Blocks      []MatchBlock
	highlighted bool
	saved       map[int][]Cell // row -> saved cell copy, only set when the mask touches colour bits
}

// pattern is a host-registered regular expression and the attribute
// mask to apply when a match under it is highlighted.
type pattern struct {
	source string
	re     *regexp.Regexp
	mask   Cell
}

// MatchEngine holds the set of host-registered regular expressions and
// the matches located by the most recent getmatches call (spec.md
// §4.5).
type MatchEngine struct {
	screen   *Screen
	patterns []*pattern
	matches  []*Match
	current  *Match
}

// newMatchEngine creates an engine with no registered patterns.
func newMatchEngine(s *Screen) *MatchEngine {
	return &MatchEngine{screen: s}
}

// RegisterMatch compiles pattern as a POSIX extended regular expression
// (spec.md §4.5 "Host registers POSIX extended regular expressions")
// and adds it with the given highlight-attribute mask. Compile errors
// are returned to the caller; nothing is registered on error.
func (m *MatchEngine) RegisterMatch(source string, mask Cell) error {
	re, err := regexp.CompilePOSIX(source)
	if err != nil {
		return err
	}
	m.patterns = append(m.patterns, &pattern{source: source, re: re, mask: mask})
	return nil
}

// MatchClear removes a previously registered pattern by its source
// text (spec.md §6 "match_clear(regex)"). Matches already located from
// it are dropped; if one was highlighted it is first un-highlighted.
func (m *MatchEngine) MatchClear(source string) {
	for i, p := range m.patterns {
		if p.source == source {
			m.patterns = append(m.patterns[:i], m.patterns[i+1:]...)
			break
		}
	}
	kept := m.matches[:0]
	for _, mt := range m.matches {
		if mt.pattern != nil && mt.pattern.source == source {
			if mt.highlighted {
				m.unhighlight(mt)
			}
			if m.current == mt {
				m.current = nil
			}
			continue
		}
		kept = append(kept, mt)
	}
	m.matches = kept
}

// clearOverlay un-highlights the currently shown match, if any, as
// step 2 of the update algorithm requires before redrawing (spec.md
// §4.3 "Clear any active regex highlight overlay").
func (m *MatchEngine) clearOverlay() {
	if m.current != nil {
		m.unhighlight(m.current)
		m.current = nil
	}
}

// logicalLine is one soft-wrap-joined run of physical viewport rows,
// plus the viewport row each source byte came from.
type logicalLine struct {
	text  []byte
	rowOf []int
	colOf []int
}

// imageRow renders one viewport row to a byte-per-cell image: controls
// become space, non-ASCII becomes '.' (spec.md §4.5 step 2).
func imageRow(line *Line) []byte {
	width := line.Width()
	out := make([]byte, width)
	for x := 0; x < width; x++ {
		ch := line.Cell(x).Char()
		switch {
		case ch < 32:
			out[x] = ' '
		case ch > 126:
			out[x] = '.'
		default:
			out[x] = byte(ch)
		}
	}
	return out
}

// buildLogicalLines walks the visible viewport (including any
// scrolled-back rows per the current offset) and joins physical rows
// into logical lines: a row joins the next one when its rightmost cell
// is non-blank, i.e. soft-wrapped (spec.md §4.5 step 3).
func (s *Screen) buildLogicalLines() []logicalLine {
	var lines []logicalLine
	var cur logicalLine

	flush := func() {
		if len(cur.text) > 0 {
			lines = append(lines, cur)
		}
		cur = logicalLine{}
	}

	for y := 0; y < s.height; y++ {
		line := s.viewLine(y)
		if line == nil {
			flush()
			continue
		}
		row := imageRow(line)
		for x, b := range row {
			cur.text = append(cur.text, b)
			cur.rowOf = append(cur.rowOf, y)
			cur.colOf = append(cur.colOf, x)
		}
		if line.LastNonBlank() == line.Width()-1 {
			// Soft-wrapped: keep accumulating into the same logical line.
			continue
		}
		flush()
	}
	flush()
	return lines
}

// getmatches discards all prior matches and overlay state, then scans
// every registered pattern over the current viewport's logical lines,
// per spec.md §4.5.
func (m *MatchEngine) getmatches() []*Match {
	m.clearOverlay()
	m.matches = nil

	lines := m.screen.buildLogicalLines()

	for _, p := range m.patterns {
		for _, ll := range lines {
			text := ll.text
			pos := 0
			for pos <= len(text) {
				loc := p.re.FindIndex(text[pos:])
				if loc == nil {
					break
				}
				start, end := pos+loc[0], pos+loc[1]
				mt := &Match{pattern: p, Blocks: blocksFor(ll, start, end)}
				m.matches = append(m.matches, mt)
				if end == start {
					pos = end + 1 // empty matches advance one byte
				} else {
					pos = end
				}
			}
		}
	}
	return m.matches
}

// blocksFor maps a [start,end) byte span within a logical line back to
// the physical-row runs it crosses.
func blocksFor(ll logicalLine, start, end int) []MatchBlock {
	var blocks []MatchBlock
	if start >= end {
		return blocks
	}
	row := ll.rowOf[start]
	colStart := ll.colOf[start]
	prev := colStart
	for i := start; i < end; i++ {
		r := ll.rowOf[i]
		c := ll.colOf[i]
		if r != row {
			blocks = append(blocks, MatchBlock{Row: row, Start: colStart, End: prev + 1})
			row = r
			colStart = c
		}
		prev = c
	}
	blocks = append(blocks, MatchBlock{Row: row, Start: colStart, End: prev + 1})
	return blocks
}

// touchesColour reports whether mask sets any foreground/background
// bits, as opposed to only the non-colour attribute bits.
func touchesColour(mask Cell) bool { return mask&(fgMask|bgMask) != 0 }

// MatchHighlight toggles the overlay for match m: un-highlighting it if
// already shown, otherwise un-highlighting whatever was previously
// shown (at most one match is highlighted at a time) and highlighting
// m (spec.md §4.5 "match_highlight").
func (m *MatchEngine) MatchHighlight(mt *Match) {
	if mt == nil {
		return
	}
	if mt.highlighted {
		m.unhighlight(mt)
		if m.current == mt {
			m.current = nil
		}
		return
	}
	if m.current != nil {
		m.unhighlight(m.current)
	}
	m.highlight(mt)
	m.current = mt
}

func (m *MatchEngine) highlight(mt *Match) {
	mask := mt.pattern.mask
	s := m.screen
	if touchesColour(mask) {
		mt.saved = make(map[int][]Cell)
		for _, b := range mt.Blocks {
			line := s.viewLine(b.Row)
			if line == nil {
				continue
			}
			if _, ok := mt.saved[b.Row]; !ok {
				mt.saved[b.Row] = line.Copy()
			}
			for x := b.Start; x < b.End; x++ {
				c := line.Cell(x)
				if mask&fgMask != 0 {
					c = c.WithFg(int((mask & fgMask) >> fgShift))
				}
				if mask&bgMask != 0 {
					c = c.WithBg(int((mask & bgMask) >> bgShift))
				}
				c = c.WithAttr(mask & AttrMask)
				line.SetCell(x, c)
			}
		}
	} else {
		for _, b := range mt.Blocks {
			line := s.viewLine(b.Row)
			if line == nil {
				continue
			}
			for x := b.Start; x < b.End; x++ {
				line.SetCell(x, line.Cell(x)^mask)
			}
		}
	}
	mt.highlighted = true
	m.repaint(mt)
}

func (m *MatchEngine) unhighlight(mt *Match) {
	s := m.screen
	if mt.saved != nil {
		for row, cells := range mt.saved {
			if line := s.viewLine(row); line != nil {
				line.Restore(cells)
			}
		}
		mt.saved = nil
	} else {
		mask := mt.pattern.mask
		for _, b := range mt.Blocks {
			line := s.viewLine(b.Row)
			if line == nil {
				continue
			}
			for x := b.Start; x < b.End; x++ {
				line.SetCell(x, line.Cell(x)^mask)
			}
		}
	}
	mt.highlighted = false
	m.repaint(mt)
}

// repaint forces an immediate redraw of every row a match's blocks
// touch (spec.md §4.5 "rewrites the cells, then repaints the affected
// rectangles").
func (m *MatchEngine) repaint(mt *Match) {
	for _, b := range mt.Blocks {
		m.screen.UpdateRect(-1, b.Start, b.Row, b.End-1, b.Row)
	}
}

// MatchCheck returns the match covering viewport position (x, y), or
// nil (spec.md §4.5 "match_check(x, y)").
func (m *MatchEngine) MatchCheck(x, y int) *Match {
	for _, mt := range m.matches {
		for _, b := range mt.Blocks {
			if b.Row == y && x >= b.Start && x < b.End {
				return mt
			}
		}
	}
	return nil
}
