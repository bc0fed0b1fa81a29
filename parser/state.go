// Package parser implements the escape-sequence state machine described
// in spec.md §4.1: a finite automaton that consumes a byte
// stream (arbitrarily fragmented across Feed calls) and drives a
// *vtx.Screen through cursor motion, attribute, scrolling, and mode
// operations.
//
// The parser is placed inside this module rather than delegated to an
// external decoder, unlike the teacher (danielgatis/go-headless-term),
// which hands decoding off to github.com/danielgatis/go-ansicode -
// spec.md §1 explicitly puts the escape-sequence parser inside THE CORE.
// The state-machine shape (one handler per state, selected by a switch
// on the current state for each byte) is grounded on vt10x's parser.
package parser

// State names the eleven logical parser states spec.md §4.1 enumerates.
// Several are folded into one CSI-accumulation code path (see Parser's
// params/prefix/intermed fields and stepCSI) but are kept as distinct named values so the mapping back to
// spec.md's table stays legible at call sites and in tests.
type State int

const (
	StateGround State = iota
	StateEsc
	StateCSI
	StateSS3
	StateOSC
	StateEscTwoByte
	StateCSIPrivate
	StateCSISpace
	StateCSIBang
	StateCSIQuote
	StateCSISecondaryDA
)

func (s State) String() string {
	switch s {
	case StateGround:
		return "ground"
	case StateEsc:
		return "esc"
	case StateCSI:
		return "csi"
	case StateSS3:
		return "ss3"
	case StateOSC:
		return "osc"
	case StateEscTwoByte:
		return "esc2"
	case StateCSIPrivate:
		return "csi-private"
	case StateCSISpace:
		return "csi-space"
	case StateCSIBang:
		return "csi-bang"
	case StateCSIQuote:
		return "csi-quote"
	case StateCSISecondaryDA:
		return "csi-secondary-da"
	}
	return "?"
}

// maxParams bounds the numeric parameter accumulator (spec.md §4.1 "up
// to 20 integers").
const maxParams = 20

// paramOverflow is the clamp applied when a parameter digit run would
// overflow 31 bits (spec.md §4.1 "Overflow clamps to 31 bits").
const paramOverflow = 1<<31 - 1
