package vtx

import "golang.org/x/text/encoding/charmap"

// utf8Decoder implements the deliberately non-standard incremental UTF-8
// decode spec.md §4.1 describes: in ground state bytes 0x80-0xBF are
// treated as C1 controls when not mid-sequence, bytes >= 0xC0 begin a
// multi-byte sequence sized from the leading byte's high bits, and an
// out-of-sequence continuation byte resets to ground. State persists
// across Feed calls, per spec.md §9's "UTF-8 continuation across calls"
// design note.
type utf8Decoder struct {
	enabled bool
	pending rune
	need    int // remaining continuation bytes expected
	got     int // continuation bytes consumed so far
}

// newUTF8Decoder returns a decoder with UTF-8 decoding enabled, the
// default xterm/vtx behaviour.
func newUTF8Decoder() utf8Decoder { return utf8Decoder{enabled: true} }

// utf8Result classifies what Step produced for a single input byte.
type utf8Result int

const (
	// utf8NeedMore means the byte was consumed as part of a pending
	// multi-byte sequence; no rune is ready yet.
	utf8NeedMore utf8Result = iota
	// utf8Rune means a complete scalar value is ready in the returned rune.
	utf8Rune
	// utf8Control means the byte should be treated as a literal
	// single-byte control/character (decoding disabled, ASCII, or a
	// resync after a broken sequence).
	utf8Control
)

// Step feeds one byte through the decoder and reports what happened.
func (d *utf8Decoder) Step(b byte) (r rune, result utf8Result) {
	if b < 0x80 {
		// An ASCII byte also abandons any pending multi-byte sequence.
		d.need, d.got, d.pending = 0, 0, 0
		return rune(b), utf8Control
	}
	if !d.enabled {
		// ESC % @ selects Latin-1 (spec.md §4.1): every byte is one
		// character, decoded through the ISO-8859-1 table rather than
		// assumed identity-mapped.
		return charmap.ISO8859_1.DecodeByte(b), utf8Control
	}

	if d.need > 0 {
		if b >= 0x80 && b < 0xC0 {
			d.pending = (d.pending << 6) | rune(b&0x3F)
			d.got++
			if d.got == d.need {
				r, d.need, d.got = d.pending, 0, 0
				if r > 0xFFFF {
					r = '?'
				}
				return r, utf8Rune
			}
			return 0, utf8NeedMore
		}
		// A lead byte (>= 0xC0) arrived mid-sequence: drop the pending
		// sequence and reprocess this byte as a fresh lead byte.
		d.need, d.got, d.pending = 0, 0, 0
	}

	switch {
	case b < 0xC0:
		// 0x80-0xBF outside a sequence: treated as a C1 control.
		return rune(b), utf8Control
	case b < 0xE0:
		d.pending, d.need, d.got = rune(b&0x1F), 1, 0
		return 0, utf8NeedMore
	case b < 0xF0:
		d.pending, d.need, d.got = rune(b&0x0F), 2, 0
		return 0, utf8NeedMore
	case b < 0xF8:
		d.pending, d.need, d.got = rune(b&0x07), 3, 0
		return 0, utf8NeedMore
	default:
		return '?', utf8Control
	}
}

// SetUTF8Enabled toggles UTF-8 decoding (ESC %G enables, ESC %@
// disables and selects Latin-1, per spec.md §4.1).
func (s *Screen) SetUTF8Enabled(on bool) {
	s.decoder.enabled = on
	s.decoder.need, s.decoder.got, s.decoder.pending = 0, 0, 0
}

// UTF8Enabled reports the decoder's current mode.
func (s *Screen) UTF8Enabled() bool { return s.decoder.enabled }

// UTF8Result classifies the outcome of GroundByte for the parser package.
type UTF8Result = utf8Result

// Exported aliases of the UTF8Result values, for use by package parser.
const (
	UTF8NeedMore = utf8NeedMore
	UTF8Rune     = utf8Rune
	UTF8Control  = utf8Control
)

// GroundByte is the entry point the parser uses for ground-state bytes
// that are not already known single-byte controls: it runs the
// persistent UTF-8 decoder and reports whether a full rune is ready.
func (s *Screen) GroundByte(b byte) (rune, UTF8Result) {
	return s.decoder.Step(b)
}
