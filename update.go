package vtx

// UpdateOptions controls one call to Update.
type UpdateOptions struct {
	// ScrollType selects the scroll-optimisation policy (spec.md §4.3
	// step 6).
	ScrollType ScrollType
	// ForceRefresh redraws every visible row regardless of dirty state.
	ForceRefresh bool
}

// Update runs the differential renderer: it detects scrolled groups of
// lines and blits them, then redraws any row whose content changed,
// converging the back-buffer with the live screen (spec.md §4.3,
// testable property 5 "back-buffer convergence").
func (s *Screen) Update(opts UpdateOptions) {
	prior := s.renderer.CursorState(false)

	s.matches.clearOverlay()

	height := s.height
	live := make([]*Line, height)
	for y := 0; y < height; y++ {
		live[y] = s.viewLine(y)
	}

	moved := make([]bool, height)

	// Forward pass: detect downward-moved groups (viewLine(y).line < y,
	// i.e. content shifted down relative to where it last rendered).
	s.scanScrollGroups(live, moved, opts, true)
	// Reverse pass: detect upward-moved groups.
	s.scanScrollGroups(live, moved, opts, false)

	// Redraw pass.
	for y := 0; y < height; y++ {
		line := live[y]
		if line == nil {
			continue
		}
		if !opts.ForceRefresh && !moved[y] && line.line == y && line.modcount == 0 {
			continue
		}
		s.redrawRow(y, line)
	}

	s.scrollbackOld = s.scrollbackOffset
	s.renderer.CursorState(prior)
	s.drawCursor()
}

// scanScrollGroups finds maximal runs of lines that share the same
// nonzero rendered-row delta (moved down if down is true, up otherwise)
// and emits one ScrollArea per run, per spec.md §4.3 steps 3-4.
func (s *Screen) scanScrollGroups(live []*Line, moved []bool, opts UpdateOptions, down bool) {
	height := len(live)
	start := 0
	step := 1
	if !down {
		start = height - 1
		step = -1
	}

	i := start
	for i >= 0 && i < height {
		line := live[i]
		if line == nil || line.line < 0 {
			i += step
			continue
		}
		delta := i - line.line
		wantPositive := down
		if (delta > 0) != wantPositive || delta == 0 {
			i += step
			continue
		}
		// Extend the run while the next line shares the same delta.
		j := i
		for {
			next := j + step
			if next < 0 || next >= height {
				break
			}
			nl := live[next]
			if nl == nil || nl.line < 0 || next-nl.line != delta {
				break
			}
			j = next
		}

		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		count := hi - lo + 1
		if s.emitScroll(lo, count, delta, opts) {
			// The host's scroll_area shifts its pixel buffer, so our
			// back-buffer bookkeeping must track the same shift or the
			// redraw pass below would see every scrolled cell as "changed"
			// and repaint the whole run instead of only genuine deltas.
			s.shiftBackBuffer(lo, hi, delta)
		}
		for r := lo; r <= hi; r++ {
			moved[r] = true
			live[r].line = r
		}
		i = j + step
	}
}

// shiftBackBuffer mirrors a detected scroll of [lo,hi] by delta rows
// onto the back-buffer ring, so the following redraw pass diffs against
// content that already reflects the move.
func (s *Screen) shiftBackBuffer(lo, hi, delta int) {
	n := hi - lo + 1
	old := make([]*Line, n)
	for k := 0; k < n; k++ {
		old[k] = s.back.at(lo + k)
	}
	for k := 0; k < n; k++ {
		r := lo + k
		src := r - delta
		if src >= lo && src <= hi {
			s.back.setAt(r, old[src-lo])
		} else {
			s.back.setAt(r, NewLine(s.width))
		}
	}
}

// emitScroll applies the scroll-optimisation policy from spec.md §4.3
// step 6: ALWAYS always blits, SOMETIMES blits only past half the
// screen height, NEVER always repaints (leaving moved[] set so the
// redraw pass repaints the affected rows instead). It reports whether a
// ScrollArea blit was issued.
func (s *Screen) emitScroll(firstrow, count, offset int, opts UpdateOptions) bool {
	switch opts.ScrollType {
	case ScrollNever:
		return false
	case ScrollSometimes:
		if count <= s.height/2 {
			return false
		}
	}
	s.renderer.ScrollArea(firstrow, count, offset, s.attr.Bg())
	return true
}

// redrawRow diffs line against the back-buffer row and emits DrawText
// for each maximal run where content differs (or, when content can't
// prove equality, where attribute differs), updating the back-buffer to
// match (spec.md §4.3 step 5).
func (s *Screen) redrawRow(row int, line *Line) {
	back := s.back.at(row)
	width := line.Width()

	x := 0
	for x < width {
		cur := line.Cell(x)
		if cur == back.Cell(x) {
			x++
			continue
		}
		runStart := x
		runAttr := cur &^ DataMask
		for x < width {
			c := line.Cell(x)
			if c == back.Cell(x) {
				break
			}
			if (c &^ DataMask) != runAttr {
				break
			}
			back.SetCell(x, c)
			x++
		}
		s.renderer.DrawText(line, row, runStart, x-runStart, runAttr)
	}

	line.modcount = 0
	line.line = row
}

// UpdateRect repaints a single rectangle, first resetting the affected
// back-buffer cells to fill's background (when fill >= 0) so diffing
// against a host-cleared region produces correct redraws (spec.md §4.3
// "Partial update").
func (s *Screen) UpdateRect(fill int, sx, sy, ex, ey int) {
	if sy < 0 {
		sy = 0
	}
	if ey > s.height-1 {
		ey = s.height - 1
	}
	for y := sy; y <= ey; y++ {
		if fill >= 0 {
			back := s.back.at(y)
			lo, hi := sx, ex
			if lo < 0 {
				lo = 0
			}
			if hi > s.width-1 {
				hi = s.width - 1
			}
			for x := lo; x <= hi; x++ {
				back.SetCell(x, Cell(fill&0x1F)<<bgShift)
			}
		}
		line := s.viewLine(y)
		if line != nil {
			s.redrawRow(y, line)
		}
	}
}

// drawCursor draws the cursor cell with foreground/background swapped,
// when the cursor row is on the live (non-scrollback) screen and
// BLANK_CURSOR is unset (spec.md §4.3 "Cursor draw").
func (s *Screen) drawCursor() {
	if s.mode&ModeBlankCursor != 0 {
		return
	}
	if s.scrollbackOffset != 0 {
		return
	}
	y := s.cursorY
	x := s.cursorX
	if x >= s.width {
		x = s.width - 1
	}
	line := s.Row(y)
	if line == nil {
		return
	}
	cell := line.Cell(x).reverseVideo()
	s.renderer.DrawText(line, y, x, 1, cell&^DataMask)
	// Force the next diff to repaint underneath: mark the back-buffer
	// cell mismatched.
	s.back.at(y).SetCell(x, cell^1)
}
