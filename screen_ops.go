package vtx

// This file implements the screen operations the parser invokes
// (spec.md §4.2). Every method assumes the caller already holds s.mu
// (taken with Screen.Lock around parser.Parser.Feed, which does not lock).

// Goto moves the cursor to (x, y), clamped per spec.md §4.2: x into
// [0, width-1], y into [miny, maxy-1] where, under relative-origin mode,
// miny/maxy are the scrolling region bounds, else the full screen.
func (s *Screen) Goto(x, y int) {
	s.pendingWrap = false
	miny, maxy := 0, s.height
	if s.mode&ModeRelative != 0 {
		miny, maxy = s.scrollTop, s.scrollBottom+1
		y += miny
	}
	if x < 0 {
		x = 0
	}
	if x > s.width-1 {
		x = s.width - 1
	}
	if y < miny {
		y = miny
	}
	if y > maxy-1 {
		y = maxy - 1
	}
	s.cursorX, s.cursorY = x, y
}

// remap applies the active G-set mapping to a character code <= 0xFF,
// per spec.md §4.2 "write(ch)".
func (s *Screen) remap(ch rune) rune {
	if ch > 0xFF {
		return ch
	}
	if s.charsets[s.activeG] {
		if r, ok := decSpecialGraphics[ch]; ok {
			return r
		}
	}
	return ch
}

// Write deposits one character at the cursor, advancing it, per
// spec.md §4.2 "write(ch)".
func (s *Screen) Write(ch rune) {
	if s.mode&ModeWrapOff == 0 && s.pendingWrap {
		s.lineFeed()
		s.cursorX = 0
		s.pendingWrap = false
	}
	ch = s.remap(ch)
	if s.mode&ModeInsert != 0 {
		s.insertChars(s.cursorY, s.cursorX, 1)
	}
	cell := (s.attr &^ DataMask) | (Cell(ch) & DataMask)
	s.Row(s.cursorY).SetCell(s.cursorX, cell)

	if s.cursorX+1 >= s.width {
		s.pendingWrap = true
	} else {
		s.cursorX++
	}
}

// lineFeed performs a bare line feed: move down one row, scrolling the
// region if already at the bottom.
func (s *Screen) lineFeed() {
	if s.cursorY == s.scrollBottom {
		s.ScrollUp(1)
	} else if s.cursorY+1 < s.height {
		s.cursorY++
	}
}

// LineFeed implements LF/VT/FF as a bare line feed; the column is left
// unchanged (CR is a separate control, spec.md §4.1, kept distinct so
// BS/CR/HT remain simple one-liners in the parser).
func (s *Screen) LineFeed() {
	s.pendingWrap = false
	s.lineFeed()
}

// CarriageReturn moves the cursor to column 0.
func (s *Screen) CarriageReturn() {
	s.pendingWrap = false
	s.cursorX = 0
}

// Backspace moves the cursor left by one, clamped at column 0.
func (s *Screen) Backspace() {
	s.pendingWrap = false
	if s.cursorX > 0 {
		s.cursorX--
	}
}

// Tab advances to the next multiple of 8, clamped to width-1, wrapping
// via pendingWrap semantics if a wrap is pending at the last column. Like
// the original's vt_tab, it deposits the HT character itself into the
// current cell before advancing, so selection/extraction can later
// recognise and compress the run (spec.md §4.4).
func (s *Screen) Tab() {
	if s.mode&ModeWrapOff == 0 && s.pendingWrap {
		s.lineFeed()
		s.cursorX = 0
		s.pendingWrap = false
	}
	cell := (s.attr &^ DataMask) | (Cell('\t') & DataMask)
	s.Row(s.cursorY).SetCell(s.cursorX, cell)

	next := ((s.cursorX / 8) + 1) * 8
	if next >= s.width {
		next = s.width - 1
	}
	s.cursorX = next
}

// BackTab (CSI Z) moves to the previous multiple of 8.
func (s *Screen) BackTab() {
	prev := ((s.cursorX - 1) / 8) * 8
	if s.cursorX%8 == 0 {
		prev = ((s.cursorX / 8) - 1) * 8
	}
	if prev < 0 {
		prev = 0
	}
	s.cursorX = prev
}

// NextLine implements NEL (ESC E / CSI E): line feed then CR.
func (s *Screen) NextLine() {
	s.lineFeed()
	s.cursorX = 0
	s.pendingWrap = false
}

// ScrollUp shifts the scrolling region up by n rows. On the primary
// screen, when scrollTop == 0, evicted top lines are appended to
// scrollback (spec.md §4.2 "scroll_up"); otherwise the line is
// discarded. Either way a new line blanked with the current attribute
// enters at the bottom of the region.
func (s *Screen) ScrollUp(n int) {
	s.scrollRegion(n, true)
}

// ScrollDown shifts the scrolling region down by n rows, blanking the
// new top rows. Scroll-down never feeds scrollback.
func (s *Screen) ScrollDown(n int) {
	s.scrollRegion(n, false)
}

func (s *Screen) scrollRegion(n int, up bool) {
	top, bottom := s.scrollTop, s.scrollBottom
	if top > bottom || n <= 0 {
		return
	}
	regionHeight := bottom - top + 1
	if n > regionHeight {
		n = regionHeight
	}
	ring := s.activeRing()
	fill := s.attr.Blanked()

	if up {
		for i := 0; i < n; i++ {
			toScrollback := top == 0 && !s.usingAlt
			line := ring.at(top)
			if toScrollback {
				s.scrollback.Push(line)
				ring.setAt(top, NewLine(s.width))
			}
			// shift rows [top+1, bottom] up into [top, bottom-1]
			for row := top; row < bottom; row++ {
				ring.setAt(row, ring.at(row+1))
				ring.at(row).MarkDirty()
			}
			newBottom := NewLine(s.width)
			newBottom.Clear(fill)
			ring.setAt(bottom, newBottom)
		}
	} else {
		for i := 0; i < n; i++ {
			for row := bottom; row > top; row-- {
				ring.setAt(row, ring.at(row-1))
				ring.at(row).MarkDirty()
			}
			newTop := NewLine(s.width)
			newTop.Clear(fill)
			ring.setAt(top, newTop)
		}
	}
}

// InsertLines inserts n blank lines at the cursor row within the
// scrolling region, pushing the rest down (spec.md §4.2).
func (s *Screen) InsertLines(n int) {
	if s.cursorY < s.scrollTop || s.cursorY > s.scrollBottom {
		return
	}
	saved := s.scrollTop
	s.scrollTop = s.cursorY
	s.ScrollDown(n)
	s.scrollTop = saved
}

// DeleteLines removes n lines at the cursor row within the scrolling
// region, pulling the rest up.
func (s *Screen) DeleteLines(n int) {
	if s.cursorY < s.scrollTop || s.cursorY > s.scrollBottom {
		return
	}
	saved := s.scrollTop
	s.scrollTop = s.cursorY
	s.ScrollUp(n)
	s.scrollTop = saved
}

// InsertCharsAtCursor shifts the row right by n starting at the cursor,
// discarding characters pushed past the right edge.
func (s *Screen) InsertCharsAtCursor(n int) { s.insertChars(s.cursorY, s.cursorX, n) }

func (s *Screen) insertChars(y, x, n int) {
	line := s.Row(y)
	if line == nil {
		return
	}
	if n > s.width-x {
		n = s.width - x
	}
	fill := s.attr.Blanked()
	for c := s.width - 1; c >= x+n; c-- {
		line.SetCell(c, line.Cell(c-n))
	}
	for c := x; c < x+n && c < s.width; c++ {
		line.SetCell(c, fill)
	}
}

// DeleteChars removes n characters at the cursor, shifting the
// remainder of the row left and blanking the vacated tail.
func (s *Screen) DeleteChars(n int) {
	line := s.Row(s.cursorY)
	if line == nil {
		return
	}
	x := s.cursorX
	if n > s.width-x {
		n = s.width - x
	}
	fill := s.attr.Blanked()
	for c := x; c < s.width-n; c++ {
		line.SetCell(c, line.Cell(c+n))
	}
	for c := s.width - n; c < s.width; c++ {
		line.SetCell(c, fill)
	}
}

// EraseChars blanks n cells starting at the cursor without shifting
// anything (CSI X).
func (s *Screen) EraseChars(n int) {
	line := s.Row(s.cursorY)
	if line == nil {
		return
	}
	end := s.cursorX + n
	if end > s.width {
		end = s.width
	}
	line.ClearRange(s.cursorX, end, s.attr.Blanked())
}

// EraseInLine implements CSI K (spec.md §4.1).
func (s *Screen) EraseInLine(mode EraseMode) {
	line := s.Row(s.cursorY)
	if line == nil {
		return
	}
	fill := s.attr.Blanked()
	switch mode {
	case EraseToEnd:
		line.ClearRange(s.cursorX, s.width, fill)
	case EraseToStart:
		line.ClearRange(0, s.cursorX+1, fill)
	case EraseAll:
		line.Clear(fill)
	}
}

// EraseInDisplay implements CSI J (spec.md §4.1).
func (s *Screen) EraseInDisplay(mode EraseMode) {
	fill := s.attr.Blanked()
	switch mode {
	case EraseToEnd:
		s.EraseInLine(EraseToEnd)
		for y := s.cursorY + 1; y < s.height; y++ {
			s.Row(y).Clear(fill)
		}
	case EraseToStart:
		s.EraseInLine(EraseToStart)
		for y := 0; y < s.cursorY; y++ {
			s.Row(y).Clear(fill)
		}
	case EraseAll:
		for y := 0; y < s.height; y++ {
			s.Row(y).Clear(fill)
		}
	}
}

// SetScrollRegion implements CSI r (DECSTBM), clamped to screen bounds.
func (s *Screen) SetScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom > s.height-1 {
		bottom = s.height - 1
	}
	if top >= bottom {
		top, bottom = 0, s.height-1
	}
	s.scrollTop, s.scrollBottom = top, bottom
	// DECSTBM homes the cursor; Goto itself offsets by scrollTop when
	// relative mode is set, so one call covers both cases.
	s.Goto(0, 0)
}

// SetScreen swaps between primary and alternate screens (CSI ?47/1047h/l),
// marking every line dirty and rebinding the cursor, per spec.md §4.2
// "set_screen(alt)". clearOnSwitchAway implements the 1047-specific
// behaviour of clearing the alternate screen when switching away from it.
func (s *Screen) SetScreen(alt bool, clearOnSwitchAway bool) {
	if s.usingAlt == alt {
		return
	}
	if s.usingAlt && clearOnSwitchAway {
		for y := 0; y < s.height; y++ {
			s.alt.at(y).Clear(Clear)
		}
	}
	s.usingAlt = alt
	s.mode = (s.mode &^ ModeAltScreen)
	if alt {
		s.mode |= ModeAltScreen
	}
	for _, l := range s.primary.all() {
		l.MarkDirty()
	}
	for _, l := range s.alt.all() {
		l.MarkDirty()
	}
}

// SaveCursor snapshots cursor position, a mode-bit subset, current
// attribute, and active G-mapping (spec.md §4.2 "save/restore cursor").
func (s *Screen) SaveCursor() {
	st := savedState{
		x: s.cursorX, y: s.cursorY,
		attr:     s.attr,
		modeBits: s.mode & (ModeInsert | ModeWrapOff | ModeAppCursor | ModeRelative),
		g:        [4]charsetSlot{},
		activeG:  s.activeG,
		valid:    true,
	}
	for i := 0; i < 4; i++ {
		if s.charsets[i] {
			st.g[i] = 1
		}
	}
	if s.usingAlt {
		s.savedAlt = st
	} else {
		s.savedPrimary = st
	}
}

// RestoreCursor restores a previously saved state, or resets to the
// origin if nothing was saved yet.
func (s *Screen) RestoreCursor() {
	st := &s.savedPrimary
	if s.usingAlt {
		st = &s.savedAlt
	}
	if !st.valid {
		s.Goto(0, 0)
		return
	}
	s.cursorX, s.cursorY = st.x, st.y
	s.attr = st.attr
	s.mode = (s.mode &^ (ModeInsert | ModeWrapOff | ModeAppCursor | ModeRelative)) | st.modeBits
	s.activeG = st.activeG
	for i := 0; i < 4; i++ {
		s.charsets[i] = st.g[i] != 0
	}
	s.pendingWrap = false
}

// SelectCharset designates whether slot g maps to DEC special graphics.
func (s *Screen) SelectCharset(slot int, specialGraphics bool) {
	if slot < 0 || slot > 3 {
		return
	}
	s.charsets[slot] = specialGraphics
}

// ShiftOut/ShiftIn select G1/G0 as the active mapping (SO/SI controls).
func (s *Screen) ShiftOut() { s.activeG = 1 }
func (s *Screen) ShiftIn()  { s.activeG = 0 }

// FullReset implements RIS (ESC c): clears both screens, resets cursor,
// modes, scrolling region, and attribute to defaults.
func (s *Screen) FullReset() {
	for y := 0; y < s.height; y++ {
		s.primary.at(y).Clear(Clear)
		s.alt.at(y).Clear(Clear)
	}
	s.cursorX, s.cursorY = 0, 0
	s.scrollTop, s.scrollBottom = 0, s.height-1
	s.mode = 0
	s.attr = Clear
	s.activeG = 0
	s.charsets = [4]bool{}
	s.usingAlt = false
	s.pendingWrap = false
	s.savedPrimary = savedState{}
	s.savedAlt = savedState{}
}

// FillWithE implements DECALN (ESC # 8): fills the screen with 'E',
// used as a terminal alignment test pattern.
func (s *Screen) FillWithE() {
	for y := 0; y < s.height; y++ {
		line := s.Row(y)
		for x := 0; x < s.width; x++ {
			line.SetCell(x, Clear.WithChar('E'))
		}
	}
}

// Resize changes the screen dimensions. Every line of the primary,
// alternate and back buffers is resized and padded with the attribute of
// its prior rightmost cell (spec.md §3's resize invariant); scrollback
// lines keep their original width. The cursor is clamped into the new
// bounds and the scrolling region is reset to the full screen.
func (s *Screen) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.resizeRing(s.primary, width, height)
	s.resizeRing(s.alt, width, height)
	s.resizeRing(s.back, width, height)

	s.width, s.height = width, height
	if s.cursorX > width {
		s.cursorX = width
	}
	if s.cursorY >= height {
		s.cursorY = height - 1
	}
	s.scrollTop = 0
	s.scrollBottom = height - 1
}

func (s *Screen) resizeRing(r *lineRing, width, height int) {
	oldHeight := r.height()
	lines := r.all()
	for _, l := range lines {
		fillRight := Clear
		if l.Width() > 0 {
			fillRight = l.Cell(l.Width() - 1).Blanked()
		}
		l.Resize(width, fillRight)
	}
	if height > oldHeight {
		for i := oldHeight; i < height; i++ {
			lines = append(lines, NewLine(width))
		}
	} else if height < oldHeight {
		lines = lines[:height]
	}
	r.lines = lines
	r.first = 0
}
