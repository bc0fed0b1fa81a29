package parser

import "github.com/vtx/vtx"

// stepCSI accumulates numeric parameters and the private/intermediate
// prefix bytes, dispatching once a final byte (0x40-0x7E) arrives.
// Spec.md §4.1 splits this into several named states (CSI, CSI?,
// CSI!, CSI SP, CSI') depending on which prefix/intermediate byte was
// seen; this implementation folds them into one accumulator and tracks
// the prefix/intermediate bytes explicitly, which produces the same
// dispatch behaviour.
func (p *Parser) stepCSI(b byte) {
	if p.handleControl(b) {
		return
	}

	switch {
	case b >= '0' && b <= '9':
		p.hasDigit = true
		if p.nparams == 0 {
			p.nparams = 1
		}
		idx := p.nparams - 1
		if idx < maxParams {
			v := p.params[idx]*10 + int(b-'0')
			if v > paramOverflow {
				v = paramOverflow
			}
			p.params[idx] = v
		}
		return
	case b == ';' || b == ':':
		if p.nparams < maxParams {
			p.nparams++
		}
		p.hasDigit = false
		return
	case b == '?' && p.nparams == 0 && p.prefix == 0:
		p.prefix = '?'
		p.state = StateCSIPrivate
		return
	case b == '!' && p.nparams == 0 && p.prefix == 0:
		p.prefix = '!'
		p.state = StateCSIBang
		return
	case b == '>' && p.nparams == 0 && p.prefix == 0:
		p.prefix = '>'
		p.state = StateCSISecondaryDA
		return
	case b == ' ':
		p.intermed = ' '
		p.state = StateCSISpace
		return
	case b == '\'':
		p.intermed = '\''
		p.state = StateCSIQuote
		return
	case b >= 0x40 && b <= 0x7E:
		p.dispatchCSI(b)
		p.state = StateGround
		return
	default:
		// Unrecognised intermediate: ignore and stay in CSI, matching
		// spec.md §7's "malformed escape sequences return to ground
		// silently" only once a genuine terminator or timeout occurs;
		// here we simply drop the byte and keep accumulating.
		return
	}
}

// param returns parameter i (0-based), or def if it was not supplied or
// is zero - the ANSI convention that an omitted/zero parameter means
// "use the default".
func (p *Parser) param(i, def int) int {
	if i >= p.nparams || p.params[i] == 0 {
		return def
	}
	return p.params[i]
}

// paramRaw returns parameter i (0-based) with no default substitution.
func (p *Parser) paramRaw(i int) int {
	if i >= p.nparams {
		return 0
	}
	return p.params[i]
}

func (p *Parser) dispatchCSI(final byte) {
	defer p.resetCSI()

	if p.prefix == '?' {
		p.dispatchPrivateMode(final)
		return
	}
	if p.prefix == '>' {
		if final == 'c' {
			p.screen.ReportSecondaryDA()
		}
		return
	}
	if p.prefix == '!' {
		if final == 'p' {
			p.screen.FullReset() // DECSTR soft reset approximated as full reset
		}
		return
	}
	if p.intermed == '\'' {
		// Column insert/delete (DECIC/DECDC `}`/`~` with ' intermediate):
		// accepted, treated as no-ops beyond what '}'/'~' already cover
		// below via the plain terminator path.
		return
	}

	n := p.param(0, 1)
	switch final {
	case '@':
		p.screen.InsertCharsAtCursor(n)
	case 'A':
		p.screen.Goto(p.screen.CursorX(), p.screen.CursorY()-n)
	case 'B':
		p.screen.Goto(p.screen.CursorX(), p.screen.CursorY()+n)
	case 'C':
		p.screen.Goto(p.screen.CursorX()+n, p.screen.CursorY())
	case 'D':
		p.screen.Goto(p.screen.CursorX()-n, p.screen.CursorY())
	case 'E':
		for i := 0; i < n; i++ {
			p.screen.NextLine()
		}
	case 'G':
		p.screen.Goto(p.param(0, 1)-1, p.screen.CursorY())
	case 'H', 'f':
		row := p.param(0, 1) - 1
		col := p.param(1, 1) - 1
		p.screen.Goto(col, row)
	case 'J':
		p.screen.EraseInDisplay(eraseModeOf(p.param(0, 0)))
	case 'K':
		p.screen.EraseInLine(eraseModeOf(p.param(0, 0)))
	case 'L':
		p.screen.InsertLines(n)
	case 'M':
		p.screen.DeleteLines(n)
	case 'P':
		p.screen.DeleteChars(n)
	case 'S':
		p.screen.ScrollUp(n)
	case 'T':
		p.screen.ScrollDown(n)
	case 'X':
		p.screen.EraseChars(n)
	case 'Z':
		p.screen.BackTab()
	case 'c':
		p.screen.ReportPrimaryDA()
	case 'd':
		p.screen.Goto(p.screen.CursorX(), p.param(0, 1)-1)
	case 'g':
		// Tab clear: out of the buffer's scope (no tab-stop model on
		// Screen); accepted and discarded.
	case 'h':
		p.setModeBytes(true)
	case 'l':
		p.setModeBytes(false)
	case 'm':
		p.dispatchSGR()
	case 'n':
		switch p.param(0, 0) {
		case 5:
			p.screen.ReportStatusOK()
		case 6:
			p.screen.ReportCursorPosition()
		}
	case 'r':
		top := p.param(0, 1) - 1
		bottom := p.param(1, p.screen.Height()) - 1
		p.screen.SetScrollRegion(top, bottom)
	case '}':
		// DECIC - insert n blank columns at cursor: approximate with a
		// per-row InsertCharsAtCursor across the whole screen height.
		p.insertColumns(n)
	case '~':
		// Function-key decode: no keyboard-input path in the core;
		// accepted and discarded.
	}
}

func (p *Parser) insertColumns(n int) {
	y := p.screen.CursorY()
	x := p.screen.CursorX()
	for row := 0; row < p.screen.Height(); row++ {
		p.screen.Goto(x, row)
		p.screen.InsertCharsAtCursor(n)
	}
	p.screen.Goto(x, y)
}

func eraseModeOf(n int) vtx.EraseMode {
	switch n {
	case 1:
		return vtx.EraseToStart
	case 2:
		return vtx.EraseAll
	default:
		return vtx.EraseToEnd
	}
}

// setModeBytes applies every accumulated parameter as a mode set/reset,
// since CSI h/l (and CSI ? h/l) may carry multiple mode numbers.
func (p *Parser) setModeBytes(on bool) {
	if p.prefix == '?' {
		return // handled by dispatchPrivateMode
	}
	for i := 0; i < p.nparams; i++ {
		switch p.paramRaw(i) {
		case 4:
			p.screen.SetMode(vtx.ModeInsert, on)
		case 20:
			// LNM - line feed/new line mode: folded into CR handling by
			// the host if it cares; no dedicated bit on Screen.
		}
	}
}

func (p *Parser) dispatchPrivateMode(final byte) {
	if final != 'h' && final != 'l' {
		return
	}
	on := final == 'h'
	for i := 0; i < p.nparams || i == 0; i++ {
		mode := p.paramRaw(i)
		switch mode {
		case 1:
			p.screen.SetMode(vtx.ModeAppCursor, on)
		case 6:
			p.screen.SetMode(vtx.ModeRelative, on)
			if on {
				p.screen.Goto(0, 0)
			}
		case 7:
			p.screen.SetMode(vtx.ModeWrapOff, !on)
		case 9:
			p.screen.SetMode(vtx.ModeSendMousePress, on)
		case 25:
			p.screen.SetMode(vtx.ModeBlankCursor, !on)
		case 47, 1047:
			p.screen.SetScreen(on, mode == 1047)
		case 1048:
			if on {
				p.screen.SaveCursor()
			} else {
				p.screen.RestoreCursor()
			}
		case 1000:
			p.screen.SetMode(vtx.ModeSendMousePress, on)
			p.screen.SetMode(vtx.ModeSendMouseBoth, on)
		}
		if i+1 >= p.nparams {
			break
		}
	}
}
