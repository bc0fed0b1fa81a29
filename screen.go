package vtx

import "sync"

// Mode is a bitfield of terminal behaviour flags (spec.md §4.2 "Mode
// bits").
type Mode uint32

const (
	ModeInsert Mode = 1 << iota
	ModeWrapOff
	ModeAppCursor
	ModeRelative
	ModeAppKeypad
	ModeSendMousePress
	ModeSendMouseBoth
	ModeBlankCursor
	ModeAltScreen
)

// EraseMode selects which part of a line/display an erase operation
// clears (spec.md §4.1 CSI 'J'/'K').
type EraseMode int

const (
	EraseToEnd EraseMode = iota
	EraseToStart
	EraseAll
)

// charsetSlot is one of the four G0-G3 character-set designator slots.
type charsetSlot int

const (
	G0 charsetSlot = iota
	G1
	G2
	G3
)

// decSpecialGraphics maps ASCII 0x5F-0x7E to the DEC Special Graphics
// line-drawing glyphs selected by `ESC ( 0` (spec.md §4.1 "Two-byte
// escapes").
var decSpecialGraphics = map[rune]rune{
	'_': ' ', '`': '♦', 'a': '▒', 'b': '␉', 'c': '␌', 'd': '␍', 'e': '␊',
	'f': '°', 'g': '±', 'h': '␤', 'i': '␋', 'j': '┘', 'k': '┐', 'l': '┌',
	'm': '└', 'n': '┼', 'o': '⎺', 'p': '⎻', 'q': '─', 'r': '⎼', 's': '⎽',
	't': '├', 'u': '┤', 'v': '┴', 'w': '┬', 'x': '│', 'y': '≤', 'z': '≥',
	'{': 'π', '|': '≠', '}': '£', '~': '·',
}

// savedState is the snapshot taken by DECSC (`ESC 7`) and CSI ?1048h and
// restored by DECRC (spec.md §4.2 "save/restore cursor").
type savedState struct {
	x, y       int
	attr       Cell
	modeBits   Mode // subset: insert, wrap, app-cursor, relative
	g          [4]charsetSlot
	activeG    int
	valid      bool
}

// Screen holds the full mutable state of one terminal instance: the
// primary/alternate/back-buffer line rings, scrollback, cursor, current
// attribute template, scrolling region, mode bits, and character-set
// remap state (spec.md §3).
type Screen struct {
	mu sync.Mutex

	width, height int

	primary *lineRing
	alt     *lineRing
	back    *lineRing

	scrollback       *scrollbackRing
	scrollbackMax    int
	scrollbackOffset int
	scrollbackOld    int

	usingAlt bool

	cursorX, cursorY int
	savedPrimary     savedState
	savedAlt         savedState

	scrollTop, scrollBottom int

	attr Cell // current SGR attribute template (colour+attr bits; char ignored)

	mode Mode

	charsets [4]bool // true => slot maps to DEC special graphics
	activeG  int     // 0 or 1, selected by SI/SO

	wordclass [256]bool

	selection Selection
	matches   *MatchEngine

	renderer Renderer
	response ResponseWriter

	pendingWrap bool

	decoder utf8Decoder
}

// New creates a Screen of the given size with default word-class
// (alphanumerics + underscore), a no-op renderer, and a discarding
// response sink. Use the With* options to attach real collaborators.
func New(width, height int, opts ...Option) *Screen {
	s := &Screen{
		width:         width,
		height:        height,
		primary:       newLineRing(height, width),
		alt:           newLineRing(height, width),
		back:          newLineRing(height, width),
		scrollbackMax: 10000,
		scrollTop:     0,
		scrollBottom:  height - 1,
		attr:          Clear,
		renderer:      NoopRenderer{},
		response:      discardWriter{},
		decoder:       newUTF8Decoder(),
	}
	s.scrollback = newScrollbackRing(s.scrollbackMax)
	// Wrap and cursor visibility default on; ModeWrapOff/ModeBlankCursor
	// start cleared.
	s.setDefaultWordClass()
	s.matches = newMatchEngine(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

// Option configures a Screen at construction time.
type Option func(*Screen)

// WithRenderer attaches the host's draw/scroll/cursor callback sink.
func WithRenderer(r Renderer) Option { return func(s *Screen) { s.renderer = r } }

// WithResponseWriter attaches the sink for device-reply bytes.
func WithResponseWriter(w ResponseWriter) Option { return func(s *Screen) { s.response = w } }

// SetResponseWriter replaces the sink for device-reply bytes after
// construction, for hosts that only learn their pty's writer once the
// child process has been started.
func (s *Screen) SetResponseWriter(w ResponseWriter) { s.response = w }

// WithScrollbackMax sets the scrollback capacity (default 10000).
func WithScrollbackMax(max int) Option {
	return func(s *Screen) {
		s.scrollbackMax = max
		s.scrollback.SetMax(max)
	}
}

func (s *Screen) setDefaultWordClass() {
	for c := '0'; c <= '9'; c++ {
		s.wordclass[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		s.wordclass[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		s.wordclass[c] = true
	}
	s.wordclass['_'] = true
}

// Lock/Unlock expose the single coarse-grained mutex described in
// spec.md §5 so callers can serialise a sequence of operations (e.g. a
// host event-loop thread handling a keypress alongside the update
// thread's parse+render cycle).
func (s *Screen) Lock()   { s.mu.Lock() }
func (s *Screen) Unlock() { s.mu.Unlock() }

// Width and Height return the current screen size.
func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

// activeRing returns the currently visible line ring (primary or
// alternate).
func (s *Screen) activeRing() *lineRing {
	if s.usingAlt {
		return s.alt
	}
	return s.primary
}

// Row returns the live line at screen row y (0-based, visible area
// only).
func (s *Screen) Row(y int) *Line {
	if y < 0 || y >= s.height {
		return nil
	}
	return s.activeRing().at(y)
}

// BackRow returns the corresponding back-buffer (last-rendered) line.
func (s *Screen) BackRow(y int) *Line {
	if y < 0 || y >= s.height {
		return nil
	}
	return s.back.at(y)
}

// CursorX, CursorY return the current cursor position. After a write to
// the last column the cursor stays at Width()-1 and the pending wrap is
// held in a separate flag, so CursorX does not report Width() for it.
func (s *Screen) CursorX() int { return s.cursorX }
func (s *Screen) CursorY() int { return s.cursorY }

// ScrollTop, ScrollBottom return the current scrolling region bounds
// (inclusive).
func (s *Screen) ScrollTop() int    { return s.scrollTop }
func (s *Screen) ScrollBottom() int { return s.scrollBottom }

// Mode returns the current mode bitfield.
func (s *Screen) Mode() Mode { return s.mode }

// SetMode sets (or, if on is false, clears) the given mode bits.
func (s *Screen) SetMode(bits Mode, on bool) {
	if on {
		s.mode |= bits
	} else {
		s.mode &^= bits
	}
}

// IsAltScreen reports whether the alternate screen is active.
func (s *Screen) IsAltScreen() bool { return s.usingAlt }

// ScrollbackLen returns the number of lines currently retained in
// scrollback.
func (s *Screen) ScrollbackLen() int { return s.scrollback.Len() }

// ScrollbackOffset returns the current (non-positive) viewport offset
// into scrollback; 0 means the live screen is fully visible.
func (s *Screen) ScrollbackOffset() int { return s.scrollbackOffset }

// SetScrollbackOffset moves the viewport into scrollback, clamped to
// [-scrollbacklines, 0] (spec.md §3 invariant).
func (s *Screen) SetScrollbackOffset(delta int) {
	s.scrollbackOffset += delta
	if s.scrollbackOffset > 0 {
		s.scrollbackOffset = 0
	}
	if min := -s.scrollback.Len(); s.scrollbackOffset < min {
		s.scrollbackOffset = min
	}
}

// scrollbackSet truncates the scrollback FIFO to at most max lines
// (spec.md §4.2 "scrollback_set(max)").
func (s *Screen) scrollbackSet(max int) {
	s.scrollbackMax = max
	s.scrollback.SetMax(max)
	if -s.scrollbackOffset > s.scrollback.Len() {
		s.scrollbackOffset = -s.scrollback.Len()
	}
}

// viewLine returns the line visible at viewport row y, accounting for
// scrollbackOffset: rows above the live screen (y + offset < 0) come
// from scrollback, oldest-first being most negative.
func (s *Screen) viewLine(y int) *Line {
	idx := y + s.scrollbackOffset
	if idx < 0 {
		sbIdx := s.scrollback.Len() + idx
		return s.scrollback.At(sbIdx)
	}
	if idx >= s.height {
		return nil
	}
	return s.activeRing().at(idx)
}
