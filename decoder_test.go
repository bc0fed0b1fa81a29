package vtx

import "testing"

func TestUTF8DecoderDefaultEnabled(t *testing.T) {
	s := New(5, 1)
	if !s.UTF8Enabled() {
		t.Error("expected UTF-8 decoding enabled by default")
	}
}

func TestUTF8DecoderTwoByteSequence(t *testing.T) {
	s := New(5, 1)
	// U+00E9 'é' encodes as 0xC3 0xA9.
	r1, res1 := s.GroundByte(0xC3)
	if res1 != UTF8NeedMore {
		t.Fatalf("first byte result = %v, want UTF8NeedMore", res1)
	}
	r2, res2 := s.GroundByte(0xA9)
	if res2 != UTF8Rune {
		t.Fatalf("second byte result = %v, want UTF8Rune", res2)
	}
	if r2 != 'é' {
		t.Errorf("decoded rune = %q, want 'é'", r2)
	}
	_ = r1
}

func TestUTF8DecoderOutOfSequenceResyncs(t *testing.T) {
	s := New(5, 1)
	s.GroundByte(0xE0) // begin a 3-byte sequence
	r, res := s.GroundByte('A')
	if res != UTF8Control {
		t.Fatalf("result after broken sequence = %v, want UTF8Control", res)
	}
	if r != 'A' {
		t.Errorf("resync byte = %q, want 'A'", r)
	}
}

func TestUTF8DecoderDisabledDecodesLatin1(t *testing.T) {
	s := New(5, 1)
	s.SetUTF8Enabled(false)

	r, res := s.GroundByte(0xE9) // Latin-1 'é'
	if res != UTF8Control {
		t.Fatalf("result = %v, want UTF8Control", res)
	}
	if r != 'é' {
		t.Errorf("decoded rune = %q, want 'é'", r)
	}
}

func TestUTF8DecoderReenableAfterLatin1(t *testing.T) {
	s := New(5, 1)
	s.SetUTF8Enabled(false)
	s.GroundByte(0xE9)
	s.SetUTF8Enabled(true)

	if !s.UTF8Enabled() {
		t.Error("expected UTF-8 re-enabled")
	}
	_, res := s.GroundByte(0xC3)
	if res != UTF8NeedMore {
		t.Errorf("result = %v, want UTF8NeedMore after re-enabling", res)
	}
}
