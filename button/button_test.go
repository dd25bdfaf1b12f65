package button

import (
	"testing"

	"nixieclock/hal"
)

func scanTicks(s *Scanner, n uint16) {
	for i := uint16(0); i < n; i++ {
		s.Scan()
	}
}

func TestShortPress(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	in.Press(hal.ButtonBit1)
	scanTicks(s, ShortTicks-1)
	if s.Pressed() != 0 {
		t.Fatal("pressed latched before debounce threshold")
	}
	scanTicks(s, 1)
	if s.Pressed() != hal.ButtonBit1 {
		t.Fatal("pressed not latched at threshold")
	}
	if s.Debounced() != hal.ButtonBit1 {
		t.Fatal("debounced bit not set")
	}

	in.Release()
	scanTicks(s, 1)
	if s.TakeReleased() != hal.ButtonBit1 {
		t.Fatal("released not latched")
	}
	if s.TakeShort() != hal.ButtonBit1 {
		t.Fatal("short not latched")
	}
	if s.Long() != 0 {
		t.Fatal("long latched for a short press")
	}
	if s.Debounced() != 0 {
		t.Fatal("debounced bit survived release")
	}
}

func TestGlitchIgnored(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	in.Press(hal.ButtonBit0)
	scanTicks(s, ShortTicks/2)
	in.Release()
	scanTicks(s, 1)
	if s.Pressed() != 0 || s.Released() != 0 || s.Short() != 0 {
		t.Fatal("sub-threshold press latched something")
	}
}

func TestLongPress(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	in.Press(hal.ButtonBit5)
	scanTicks(s, LongTicks)
	if s.TakeLong() != hal.ButtonBit5 {
		t.Fatal("long not latched")
	}
	in.Release()
	scanTicks(s, 1)
	if s.TakeReleased() != hal.ButtonBit5 {
		t.Fatal("released not latched after long press")
	}
	if s.Short() != 0 {
		t.Fatal("short latched for a long press")
	}
}

func TestPressLatchesOncePerCycle(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	in.Press(hal.ButtonBit2)
	scanTicks(s, ShortTicks+10)
	if s.TakePressed() != hal.ButtonBit2 {
		t.Fatal("pressed not latched")
	}
	scanTicks(s, 100)
	if s.Pressed() != 0 {
		t.Fatal("pressed latched twice during one hold")
	}
}

func TestChord(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	pattern := uint8(hal.ButtonBit0 | hal.ButtonBit5)
	in.Press(pattern)
	scanTicks(s, ChordTicks)
	if s.Chord() != 0 {
		t.Fatal("chord latched early")
	}
	scanTicks(s, 1)
	if s.TakeChord() != pattern {
		t.Fatal("chord not latched at threshold")
	}
	// Only once per stable pattern.
	scanTicks(s, 100)
	if s.Chord() != 0 {
		t.Fatal("chord relatched without pattern change")
	}
}

func TestSingleButtonIsNotAChord(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	in.Press(hal.ButtonBit3)
	scanTicks(s, ChordTicks+10)
	if s.Chord() != 0 {
		t.Fatal("single button produced a chord")
	}
}

func TestChordResetOnPatternChange(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)

	in.Press(hal.ButtonBit0)
	scanTicks(s, ChordTicks/2)
	in.Press(hal.ButtonBit0 | hal.ButtonBit1)
	scanTicks(s, ChordTicks)
	if s.Chord() != 0 {
		t.Fatal("chord latched before the new pattern was stable")
	}
	scanTicks(s, 1)
	if s.TakeChord() != hal.ButtonBit0|hal.ButtonBit1 {
		t.Fatal("chord not latched for the stable pattern")
	}
}

func TestDisabledScannerIgnoresInput(t *testing.T) {
	in := &hal.SimButtons{}
	s := NewScanner(in)
	s.SetEnabled(false)

	in.Press(hal.ButtonBit4)
	scanTicks(s, LongTicks)
	if s.Pressed() != 0 || s.Long() != 0 {
		t.Fatal("disabled scanner latched input")
	}
}
