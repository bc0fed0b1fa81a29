package vtx

// Line is a fixed-width row of cells. It tracks the screen row it was
// last rendered at (line == -1 means "dirty, position unknown") and a
// write counter since the last render, which the differential renderer
// uses to decide whether the row needs a redraw pass (spec.md §3, §4.3).
type Line struct {
	cells    []Cell
	line     int // screen row last rendered at, or -1
	modcount int
	wrapped  bool // soft-wrapped into the following physical row
}

// NewLine allocates a blank line of the given width.
func NewLine(width int) *Line {
	l := &Line{cells: make([]Cell, width), line: -1}
	for i := range l.cells {
		l.cells[i] = Clear
	}
	return l
}

// Width returns the number of cells in the line.
func (l *Line) Width() int { return len(l.cells) }

// Cell returns the cell at column x, or Clear if x is out of range.
func (l *Line) Cell(x int) Cell {
	if x < 0 || x >= len(l.cells) {
		return Clear
	}
	return l.cells[x]
}

// SetCell writes a cell at column x and bumps the modification counter.
func (l *Line) SetCell(x int, c Cell) {
	if x < 0 || x >= len(l.cells) {
		return
	}
	l.cells[x] = c
	l.modcount++
}

// MarkDirty forces the next renderer pass to treat the line as unrendered.
func (l *Line) MarkDirty() { l.line = -1 }

// Clear resets every cell to fill and bumps the modification counter.
func (l *Line) Clear(fill Cell) {
	for i := range l.cells {
		l.cells[i] = fill
	}
	l.modcount++
	l.wrapped = false
}

// ClearRange resets cells in [start, end) to fill.
func (l *Line) ClearRange(start, end int, fill Cell) {
	if start < 0 {
		start = 0
	}
	if end > len(l.cells) {
		end = len(l.cells)
	}
	for i := start; i < end; i++ {
		l.cells[i] = fill
	}
	l.modcount++
}

// Resize changes the line's width in place, padding new cells with
// fillRight (the attribute of the prior rightmost cell, per spec.md §3's
// resize invariant) and marking the line dirty.
func (l *Line) Resize(width int, fillRight Cell) {
	if width == len(l.cells) {
		return
	}
	cells := make([]Cell, width)
	n := len(l.cells)
	if n > width {
		n = width
	}
	copy(cells, l.cells[:n])
	for i := n; i < width; i++ {
		cells[i] = fillRight
	}
	l.cells = cells
	l.MarkDirty()
}

// LastNonBlank returns the column of the last cell not considered blank
// (spec.md §3 "Cells beyond the first non-blank from the right are
// considered unused"), or -1 if the entire line is blank.
func (l *Line) LastNonBlank() int {
	for x := len(l.cells) - 1; x >= 0; x-- {
		if !l.cells[x].IsBlank() {
			return x
		}
	}
	return -1
}

// Copy returns an independent copy of the line's cell contents (used by
// the active-match engine's saveline overlay mechanism).
func (l *Line) Copy() []Cell {
	cp := make([]Cell, len(l.cells))
	copy(cp, l.cells)
	return cp
}

// Restore overwrites the line's cells from a previously saved copy.
func (l *Line) Restore(saved []Cell) {
	n := len(l.cells)
	if len(saved) < n {
		n = len(saved)
	}
	copy(l.cells, saved[:n])
	l.modcount++
}

// lineRing is a fixed-capacity ring buffer of owned *Line values,
// addressed by a logical row plus a "first" rotation offset. rotateUp and
// rotateDown advance first without moving cell data; Screen's scrolling
// (scrollRegion) does not use them and instead moves *Line pointers
// between rows of the region.
type lineRing struct {
	lines []*Line
	first int
}

func newLineRing(height, width int) *lineRing {
	r := &lineRing{lines: make([]*Line, height)}
	for i := range r.lines {
		r.lines[i] = NewLine(width)
	}
	return r
}

func (r *lineRing) height() int { return len(r.lines) }

func (r *lineRing) at(row int) *Line {
	return r.lines[(r.first+row)%len(r.lines)]
}

func (r *lineRing) setAt(row int, l *Line) {
	r.lines[(r.first+row)%len(r.lines)] = l
}

// rotateUp advances `first` by one, so logical row 0 becomes the slot
// that used to be row 1, and the old row 0 slot becomes the new bottom
// row (caller is responsible for clearing/repurposing it as the evicted
// line).
func (r *lineRing) rotateUp() *Line {
	evicted := r.lines[r.first]
	r.first = (r.first + 1) % len(r.lines)
	return evicted
}

// rotateDown is the inverse of rotateUp.
func (r *lineRing) rotateDown(newTop *Line) {
	r.first = (r.first - 1 + len(r.lines)) % len(r.lines)
	r.lines[r.first] = newTop
}

// all returns the lines in logical row order 0..height-1.
func (r *lineRing) all() []*Line {
	out := make([]*Line, len(r.lines))
	for i := range out {
		out[i] = r.at(i)
	}
	return out
}

// scrollbackRing is a bounded FIFO of lines scrolled off the top of the
// primary screen (spec.md §3 "scrollback"). It is a plain ring with
// head/tail indices, the only place spec.md §9 says genuine splicing is
// needed.
type scrollbackRing struct {
	buf        []*Line
	head, size int
	max        int
}

func newScrollbackRing(max int) *scrollbackRing {
	if max < 0 {
		max = 0
	}
	return &scrollbackRing{buf: make([]*Line, max), max: max}
}

func (s *scrollbackRing) Len() int { return s.size }

// Push appends a line, evicting the oldest entry if at capacity.
func (s *scrollbackRing) Push(l *Line) {
	if s.max == 0 {
		return
	}
	idx := (s.head + s.size) % s.max
	if s.size == s.max {
		s.head = (s.head + 1) % s.max
	} else {
		s.size++
	}
	s.buf[idx] = l
}

// At returns the line at index (0 = oldest), or nil if out of range.
func (s *scrollbackRing) At(index int) *Line {
	if index < 0 || index >= s.size {
		return nil
	}
	return s.buf[(s.head+index)%s.max]
}

// SetMax truncates the ring to at most max entries, keeping the most
// recent ones (spec.md §4.2 "scrollback_set(max)").
func (s *scrollbackRing) SetMax(max int) {
	if max < 0 {
		max = 0
	}
	if max >= s.size {
		newBuf := make([]*Line, max)
		for i := 0; i < s.size; i++ {
			newBuf[i] = s.At(i)
		}
		s.buf, s.head, s.max = newBuf, 0, max
		return
	}
	drop := s.size - max
	newBuf := make([]*Line, max)
	for i := 0; i < max; i++ {
		newBuf[i] = s.At(i + drop)
	}
	s.buf, s.head, s.size, s.max = newBuf, 0, max, max
}
