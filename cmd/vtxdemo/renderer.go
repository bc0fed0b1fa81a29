package main

import (
	"fmt"
	"io"

	"github.com/vtx/vtx"
)

// ansiRenderer implements vtx.Renderer by re-emitting each draw_text run
// as a cursor-position + SGR + literal-text sequence onto a real ANSI
// terminal, the simplest faithful host for a demo binary. ScrollArea is
// intentionally left a no-op: the demo runs the engine with
// vtx.ScrollNever, so every affected row is repainted by the redraw
// pass instead (spec.md §4.3 step 6).
type ansiRenderer struct {
	out         io.Writer
	cursorShown bool
}

func newAnsiRenderer(out io.Writer) *ansiRenderer {
	return &ansiRenderer{out: out, cursorShown: true}
}

// sgrFor builds the SGR parameter string for attr: the engine's 0-15
// ANSI indices map straight through and 16/17 (default fg/bg) to SGR
// 39/49.
func sgrFor(attr vtx.Cell) string {
	sgr := "0"
	if attr.Bold() {
		sgr += ";1"
	}
	if attr.Underline() {
		sgr += ";4"
	}
	if attr.Blink() {
		sgr += ";5"
	}
	if attr.Reverse() {
		sgr += ";7"
	}
	fg := attr.Fg()
	switch {
	case fg == vtx.ColorDefaultFg:
		sgr += ";39"
	case fg < 8:
		sgr += fmt.Sprintf(";%d", 30+fg)
	default:
		sgr += fmt.Sprintf(";%d", 90+fg-8)
	}
	bg := attr.Bg()
	switch {
	case bg == vtx.ColorDefaultBg:
		sgr += ";49"
	case bg < 8:
		sgr += fmt.Sprintf(";%d", 40+bg)
	default:
		sgr += fmt.Sprintf(";%d", 100+bg-8)
	}
	return sgr
}

func (r *ansiRenderer) DrawText(line *vtx.Line, row, col, length int, attr vtx.Cell) {
	fmt.Fprintf(r.out, "\x1b[%d;%dH\x1b[%sm", row+1, col+1, sgrFor(attr))
	for i := 0; i < length; i++ {
		ch := line.Cell(col + i).Char()
		if ch == 0 {
			ch = ' '
		}
		fmt.Fprintf(r.out, "%c", ch)
	}
}

func (r *ansiRenderer) ScrollArea(firstrow, count, offset, fill int) {}

func (r *ansiRenderer) CursorState(newState bool) bool {
	prior := r.cursorShown
	if newState {
		fmt.Fprint(r.out, "\x1b[?25h")
	} else {
		fmt.Fprint(r.out, "\x1b[?25l")
	}
	r.cursorShown = newState
	return prior
}

func (r *ansiRenderer) SelectionChanged() {}

func (r *ansiRenderer) RingBell() { fmt.Fprint(r.out, "\a") }

func (r *ansiRenderer) ChangeName(text string, kind vtx.TitleKind) {
	fmt.Fprintf(r.out, "\x1b]0;%s\x07", text)
}

var _ vtx.Renderer = (*ansiRenderer)(nil)
