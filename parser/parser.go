package parser

import (
	"github.com/vtx/vtx"
)

// Parser drives a *vtx.Screen from a byte stream. State persists across
// Feed calls, so fragmented input is accepted transparently (spec.md §8
// property 1, "parser totality").
type Parser struct {
	screen *vtx.Screen

	state State

	// CSI parameter accumulator.
	params   [maxParams]int
	nparams  int
	hasDigit bool
	prefix   byte // '?', '!', '>', 0
	intermed byte // ' ', '\'', 0

	// OSC text accumulator.
	oscBuf []byte

	// Two-byte escape: remembers the first byte (e.g. '(' ')' '*' '+' '%'
	// '#') while waiting for the second.
	escFirst byte
}

// New returns a parser bound to screen, starting in the ground state.
func New(screen *vtx.Screen) *Parser {
	return &Parser{screen: screen}
}

// State returns the parser's current logical state, useful for tests
// and diagnostics.
func (p *Parser) State() State { return p.state }

// Feed processes len(data) bytes, mutating the bound screen. By
// convention the caller holds Screen.Lock (spec.md §5: exactly
// one coarse mutex, held for the whole mutation including any renderer
// callbacks a later Update triggers) - Feed itself does not lock so
// callers can batch a Feed with a subsequent Update under one critical
// section.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

func isControlCode(b byte) bool { return b < 0x20 || b == 0x7F }

func (p *Parser) step(b byte) {
	// ESC always interrupts whatever is being accumulated, except
	// inside an OSC string (handled specially: ESC there may begin an
	// ST terminator) and except literal control handling below.
	if b == 0x1B && p.state != StateGround && p.state != StateOSC {
		p.state = StateEsc
		return
	}
	switch p.state {
	case StateGround:
		p.stepGround(b)
	case StateEsc:
		p.stepEsc(b)
	case StateCSI, StateCSIPrivate, StateCSISpace, StateCSIBang, StateCSIQuote, StateCSISecondaryDA:
		p.stepCSI(b)
	case StateSS3:
		p.stepSS3(b)
	case StateOSC:
		p.stepOSC(b)
	case StateEscTwoByte:
		p.stepEscTwoByte(b)
	}
}

func (p *Parser) stepGround(b byte) {
	if p.handleControl(b) {
		return
	}
	if b == 0x1B {
		p.state = StateEsc
		return
	}
	r, res := p.screen.GroundByte(b)
	switch res {
	case vtx.UTF8NeedMore:
		return
	case vtx.UTF8Control:
		if isControlCode(byte(r)) {
			p.handleControl(byte(r))
			return
		}
		p.screen.Write(r)
	case vtx.UTF8Rune:
		p.screen.Write(r)
	}
}

// handleControl executes a control byte if it names one of the actions
// spec.md §4.1 lists, and reports whether it consumed the byte.
// Controls are always executed regardless of the ground/CSI/escape
// state the parser happens to be in, per the state table's "always
// executed" column - except inside an OSC string, where only BEL/LF
// terminate (handled in stepOSC instead).
func (p *Parser) handleControl(b byte) bool {
	if p.state == StateOSC {
		return false
	}
	switch b {
	case 0x07: // BEL
		p.screen.Bell()
	case 0x08: // BS
		p.screen.Backspace()
	case 0x09: // HT
		p.screen.Tab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		p.screen.LineFeed()
	case 0x0D: // CR
		p.screen.CarriageReturn()
	case 0x0E: // SO
		p.screen.ShiftOut()
	case 0x0F: // SI
		p.screen.ShiftIn()
	default:
		return false
	}
	return true
}

func (p *Parser) resetCSI() {
	p.nparams = 0
	p.hasDigit = false
	p.prefix = 0
	p.intermed = 0
	for i := range p.params {
		p.params[i] = 0
	}
}

func (p *Parser) stepEsc(b byte) {
	if p.handleControl(b) {
		return
	}
	switch b {
	case '[':
		p.resetCSI()
		p.state = StateCSI
	case 'O':
		p.state = StateSS3
	case 'P', '_', '^', ']', 'k':
		p.oscBuf = p.oscBuf[:0]
		p.state = StateOSC
	case '(', ')', '*', '+', '%', '#':
		p.escFirst = b
		p.state = StateEscTwoByte
	case 'D': // IND
		if p.screen.CursorY() == p.screen.ScrollBottom() {
			p.screen.ScrollUp(1)
		} else {
			p.screen.Goto(p.screen.CursorX(), p.screen.CursorY()+1)
		}
		p.state = StateGround
	case 'E': // NEL
		p.screen.NextLine()
		p.state = StateGround
	case 'H': // HTS - tab stop set; out of scope for the core buffer
		p.state = StateGround
	case 'M': // RI
		if p.screen.CursorY() == p.screen.ScrollTop() {
			p.screen.ScrollDown(1)
		} else {
			p.screen.Goto(p.screen.CursorX(), p.screen.CursorY()-1)
		}
		p.state = StateGround
	case 'c': // RIS
		p.screen.FullReset()
		p.state = StateGround
	case '=': // DECPAM
		p.screen.SetMode(vtx.ModeAppKeypad, true)
		p.state = StateGround
	case '>': // DECPNM
		p.screen.SetMode(vtx.ModeAppKeypad, false)
		p.state = StateGround
	case '7': // DECSC
		p.screen.SaveCursor()
		p.state = StateGround
	case '8': // DECRC
		p.screen.RestoreCursor()
		p.state = StateGround
	case '\\': // ST with no preceding string - ignore
		p.state = StateGround
	default:
		// Unknown escape: return to ground silently (spec.md §7).
		p.state = StateGround
	}
}

func (p *Parser) stepSS3(b byte) {
	if p.handleControl(b) {
		return
	}
	// Single function-key byte; the core has no keyboard-input path of
	// its own (input comes from the host, not the child stream), so this
	// is accepted and discarded.
	p.state = StateGround
}

func (p *Parser) stepOSC(b byte) {
	switch b {
	case 0x07: // BEL terminates
		p.dispatchOSC()
		p.state = StateGround
	case 0x0A: // LF aborts
		p.state = StateGround
	case 0x1B:
		// Tolerate an ST (ESC \) terminator in addition to BEL, the
		// de-facto xterm convention; spec.md names BEL/LF explicitly but
		// does not forbid ST.
		p.dispatchOSC()
		p.state = StateEsc
	default:
		p.oscBuf = append(p.oscBuf, b)
	}
}

func (p *Parser) stepEscTwoByte(b byte) {
	if p.handleControl(b) {
		return
	}
	first := p.escFirst
	p.state = StateGround

	switch first {
	case '(', ')', '*', '+':
		slot := map[byte]int{'(': 0, ')': 1, '*': 2, '+': 3}[first]
		switch b {
		case '0':
			p.screen.SelectCharset(slot, true)
		case 'A', 'B':
			p.screen.SelectCharset(slot, false)
		default:
			p.screen.SelectCharset(slot, false)
		}
	case '%':
		switch b {
		case 'G':
			p.screen.SetUTF8Enabled(true)
		case '@':
			p.screen.SetUTF8Enabled(false)
		}
	case '#':
		// DECALN and double-width/height: accepted, DECALN implemented,
		// sizing modes are no-ops (spec.md §4.1).
		if b == '8' {
			p.screen.FillWithE()
		}
	}
}
