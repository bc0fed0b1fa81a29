package vtx

import "io"

// TitleKind distinguishes which OSC title-setting sequence triggered
// ChangeName (spec.md §6 "change_my_name(user, text, VTTITLE_kind)").
type TitleKind int

const (
	TitleIcon TitleKind = iota
	TitleWindow
	TitleIconAndWindow
	TitleXProperty
)

// ScrollType selects the differential renderer's scroll-optimisation
// policy (spec.md §4.3 step 6).
type ScrollType int

const (
	// ScrollAlways always issues a ScrollArea blit.
	ScrollAlways ScrollType = iota
	// ScrollSometimes blits only when the moved run exceeds half the
	// screen height, otherwise repaints the affected rows.
	ScrollSometimes
	// ScrollNever always repaints instead of blitting.
	ScrollNever
)

// Renderer is the host capability the emulator drives (spec.md §6
// "Host -> core callbacks"). The emulator holds exactly one Renderer and
// calls it only while its own mutex is held, so implementations must not
// re-enter the emulator (spec.md §5).
type Renderer interface {
	// DrawText draws len cells from line starting at col, all sharing
	// attr, at screen row `row`. The line reference lets the host read
	// the live character data; attr is passed once for the whole run.
	DrawText(line *Line, row, col, length int, attr Cell)

	// ScrollArea shifts `count` rows starting at `firstrow` by `offset`
	// rows (positive = downward), clearing the vacated region with
	// fill's background colour.
	ScrollArea(firstrow, count, offset int, fill int)

	// CursorState sets the cursor's visual on/off state and returns the
	// prior state. Called twice per update: once to turn it off, once
	// to restore it, so the host can suppress flicker.
	CursorState(newState bool) (priorState bool)

	// SelectionChanged notifies the host that the selection endpoints
	// moved and a redraw was scheduled.
	SelectionChanged()

	// RingBell is invoked on a BEL (0x07) control byte.
	RingBell()

	// ChangeName is invoked on an OSC title-setting sequence.
	ChangeName(text string, kind TitleKind)
}

// NoopRenderer implements Renderer with no-op methods; embed it to
// satisfy the interface while overriding only the methods a test cares
// about, the way the teacher's Noop* providers work (providers.go).
type NoopRenderer struct{}

func (NoopRenderer) DrawText(*Line, int, int, int, Cell) {}
func (NoopRenderer) ScrollArea(int, int, int, int)       {}
func (NoopRenderer) CursorState(s bool) bool             { return s }
func (NoopRenderer) SelectionChanged()                   {}
func (NoopRenderer) RingBell()                           {}
func (NoopRenderer) ChangeName(string, TitleKind)        {}

var _ Renderer = NoopRenderer{}

// ResponseWriter is where byte-exact device replies (DSR, DA, mouse
// reports) are written, typically the pty master's write side. It is a
// plain io.Writer, matching the teacher's `ResponseProvider = io.Writer`
// alias (providers.go).
type ResponseWriter = io.Writer

// discardWriter discards everything written to it, used as the default
// ResponseWriter when the host doesn't care about replies.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
