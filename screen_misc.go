package vtx

import "fmt"

// CurrentAttr returns the SGR attribute/colour template applied to
// subsequently written cells.
func (s *Screen) CurrentAttr() Cell { return s.attr }

// SetCurrentAttr replaces the SGR attribute/colour template.
func (s *Screen) SetCurrentAttr(a Cell) { s.attr = a }

// Bell invokes the host's bell callback (spec.md §6 "ring_my_bell").
func (s *Screen) Bell() { s.renderer.RingBell() }

// SetTitle invokes the host's title-change callback (spec.md §6
// "change_my_name").
func (s *Screen) SetTitle(text string, kind TitleKind) { s.renderer.ChangeName(text, kind) }

// WriteResponse writes byte-exact reply sequences to the response sink
// (device status reports, device attributes, mouse reports - spec.md §6
// "Byte-exact emissions to the child").
func (s *Screen) WriteResponse(p []byte) { s.response.Write(p) }

// ScrollbackSet truncates scrollback to at most max lines (spec.md §4.2
// "scrollback_set(max)").
func (s *Screen) ScrollbackSet(max int) { s.scrollbackSet(max) }

// ReportCursorPosition writes `ESC [ %d ; %d R` with 1-based coordinates
// (spec.md §4.1 CSI 'n' code 6, and §6).
func (s *Screen) ReportCursorPosition() {
	fmt.Fprintf(s.response, "\x1b[%d;%dR", s.cursorY+1, s.cursorX+1)
}

// ReportStatusOK writes `ESC [ 0 n` (spec.md CSI 'n' code 5).
func (s *Screen) ReportStatusOK() { fmt.Fprint(s.response, "\x1b[0n") }

// ReportPrimaryDA writes the primary device attributes reply.
func (s *Screen) ReportPrimaryDA() { fmt.Fprint(s.response, "\x1b[?6c") }

// ReportSecondaryDA writes the secondary device attributes reply.
func (s *Screen) ReportSecondaryDA() { fmt.Fprint(s.response, "\x1b[>1;0;0c") }

// mouseButtonChars is the button-number-to-character table spec.md §6
// names: " !\"`abc" indexed by button-1, bit 4 (shift), bit 8 (meta),
// bit 16 (ctrl) OR'd in, with releases (when both press+release are
// reported) using the "#" (space+3) code.
const mouseButtonChars = " !\"`abc"

// ReportButton encodes a mouse event as `ESC [ M b c r` and writes it to
// the response sink, per spec.md §6, when mouse reporting is active.
// qual combines shift(1)/meta(2)/ctrl(4) into the bit positions spec.md
// names (4/8/16).
func (s *Screen) ReportButton(down bool, button, qual, x, y int) {
	sendPress := s.mode&ModeSendMousePress != 0
	sendBoth := s.mode&ModeSendMouseBoth != 0
	if !sendPress && !sendBoth {
		return
	}
	if !down && !sendBoth {
		return
	}

	var b byte
	if !down {
		b = ' ' + 3
	} else {
		idx := button - 1
		if idx < 0 || idx >= len(mouseButtonChars) {
			idx = 0
		}
		b = mouseButtonChars[idx]
		if qual&1 != 0 {
			b |= 1 << 2
		}
		if qual&2 != 0 {
			b |= 1 << 3
		}
		if qual&4 != 0 {
			b |= 1 << 4
		}
	}
	col := byte(x) + ' ' + 1
	row := byte(y) + ' ' + 1
	fmt.Fprintf(s.response, "\x1b[M%c%c%c", b, col, row)
}
