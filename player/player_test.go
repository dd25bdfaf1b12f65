package player

import (
	"testing"

	"nixieclock/hal"
)

// pump services the player until it stops or limit calls elapse, returning
// the number of Service calls made.
func pump(p *Player, limit int) int {
	for i := 1; i <= limit; i++ {
		p.Service()
		if p.Stopped() {
			return i
		}
	}
	return limit
}

// pitches filters a tone change log down to the audible period programs,
// dropping the 0xFF/off writes used to silence the beeper.
func pitches(changes []hal.ToneChange) []uint16 {
	var out []uint16
	for _, c := range changes {
		if c.Prescale != hal.PrescaleOff {
			out = append(out, c.Period)
		}
	}
	return out
}

func TestQuarterNoteTiming(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	// 120 BPM whole note = 1250 ticks, quarter = 312, played 7/8 of
	// the time: 273 ticks of sound then 39 of silence.
	p.Start("CQ")
	for i := 0; i < 272; i++ {
		p.Service()
	}
	got := pitches(tone.Recorded())
	if len(got) != 1 || got[0] != noteTable[4][0].period {
		t.Fatalf("pitches after 272 ticks = %v, want [%d]", got, noteTable[4][0].period)
	}
	if n := len(tone.Recorded()); n != 2 {
		t.Fatalf("tone writes = %d, want 2 (reset stop + note)", n)
	}

	p.Service() // tick 273 ends the note
	if n := len(tone.Recorded()); n != 3 {
		t.Fatalf("tone writes after note end = %d, want 3", n)
	}
	if p.Stopped() {
		t.Fatal("stopped during inter-note rest")
	}

	for i := 0; i < 38; i++ {
		p.Service()
	}
	if p.Stopped() {
		t.Fatal("stopped one tick early")
	}
	p.Service() // tick 312 ends the rest, end of score stops playback
	if !p.Stopped() {
		t.Fatal("not stopped at end of score")
	}
	if !tone.IsMuted() {
		t.Fatal("speaker not muted after stop")
	}
}

func TestBookmarkRepeat(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	// Bookmark 0 with repeat count 3: the note plays once, then the
	// jump is taken three times.
	p.Start("[0:3:C]0:")
	if n := pump(p, 10000); n == 10000 {
		t.Fatal("player did not stop")
	}

	got := pitches(tone.Recorded())
	want := noteTable[4][0].period
	if len(got) != 4 {
		t.Fatalf("note count = %d, want 4", len(got))
	}
	for i, period := range got {
		if period != want {
			t.Fatalf("note %d period = %d, want %d", i, period, want)
		}
	}
}

func TestForwardBookmarkReference(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	// The goto precedes the bookmark definition, so only the pre-scan
	// makes the jump possible. The rest between them is skipped.
	p.Start("C]0:R[0:1:D")
	if n := pump(p, 10000); n == 10000 {
		t.Fatal("player did not stop")
	}

	got := pitches(tone.Recorded())
	want := []uint16{noteTable[4][0].period, noteTable[4][2].period}
	if len(got) != len(want) {
		t.Fatalf("pitches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pitches = %v, want %v", got, want)
		}
	}
}

func TestInfiniteRepeat(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	p.Start("[1::CS]1")
	if n := pump(p, 5000); n != 5000 {
		t.Fatalf("infinite repeat stopped after %d ticks", n)
	}
	p.Stop()
	if !p.Stopped() || !tone.IsMuted() {
		t.Fatal("Stop did not silence player")
	}
}

func TestVolume(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	p.Start("V3:C")
	pump(p, 1000)
	if tone.Gain != 2 {
		t.Fatalf("gain = %d, want 2", tone.Gain)
	}

	p.Start("V0:C")
	p.Service()
	if !tone.IsMuted() {
		t.Fatal("volume 0 did not mute")
	}
}

func TestTempo(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	// 60 BPM quarter note = 625 ticks, sounding for 625*7/8 = 546.
	p.Start("T:60:CQ")
	ticks := 0
	for len(tone.Recorded()) < 3 {
		p.Service()
		ticks++
		if ticks > 2000 {
			t.Fatal("note never ended")
		}
	}
	if ticks != 546 {
		t.Fatalf("note lasted %d ticks, want 546", ticks)
	}
}

func TestKeySignature(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	p.Start("K+F:F")
	pump(p, 1000)
	got := pitches(tone.Recorded())
	if len(got) != 1 || got[0] != noteTable[4][6].period {
		t.Fatalf("pitches = %v, want [%d] (F#4)", got, noteTable[4][6].period)
	}
}

func TestTransposition(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	p.Start("P2:C")
	pump(p, 1000)
	got := pitches(tone.Recorded())
	if len(got) != 1 || got[0] != noteTable[4][2].period {
		t.Fatalf("pitches = %v, want [%d] (D4)", got, noteTable[4][2].period)
	}

	// A transposition of an octave or more is out of range and resets
	// to zero.
	tone2 := &hal.SimTone{}
	p2 := New(tone2)
	p2.Start("P12:C")
	pump(p2, 1000)
	got = pitches(tone2.Recorded())
	if len(got) != 1 || got[0] != noteTable[4][0].period {
		t.Fatalf("pitches = %v, want [%d] (C4)", got, noteTable[4][0].period)
	}
}

func TestOctaveCommands(t *testing.T) {
	cases := []struct {
		score  string
		period uint16
	}{
		{">C", noteTable[5][0].period},
		{"<C", noteTable[3][0].period},
		{"O6:C", noteTable[6][0].period},
		{"C7", noteTable[7][0].period},
	}
	for _, tc := range cases {
		tone := &hal.SimTone{}
		p := New(tone)
		p.Start(tc.score)
		pump(p, 1000)
		got := pitches(tone.Recorded())
		if len(got) != 1 || got[0] != tc.period {
			t.Errorf("%q pitches = %v, want [%d]", tc.score, got, tc.period)
		}
	}
}

func TestRestIsSilent(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	p.Start("RQ")
	ticks := pump(p, 1000)
	if got := pitches(tone.Recorded()); len(got) != 0 {
		t.Fatalf("rest produced pitches %v", got)
	}
	// A quarter rest spans the full 312 ticks.
	if ticks != 312 {
		t.Fatalf("rest lasted %d ticks, want 312", ticks)
	}
}

func TestLowercaseFolds(t *testing.T) {
	upper := &hal.SimTone{}
	p := New(upper)
	p.Start("CQ")
	pump(p, 1000)

	lower := &hal.SimTone{}
	q := New(lower)
	q.Start("cq")
	pump(q, 1000)

	a, b := pitches(upper.Recorded()), pitches(lower.Recorded())
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Fatalf("lowercase score diverged: %v vs %v", a, b)
	}
}

func TestMalformedScoreStops(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	// Octave command followed by a non-digit aborts playback.
	p.Start("OX")
	p.Service()
	if !p.Stopped() {
		t.Fatal("malformed score kept playing")
	}
	if !tone.IsMuted() {
		t.Fatal("speaker not muted after abort")
	}
}

func TestStaccatoShortensNote(t *testing.T) {
	tone := &hal.SimTone{}
	p := New(tone)

	// Staccato overrides the note-to-rest ratio with 2/8: a quarter
	// note sounds for 312*2/8 = 78 ticks.
	p.Start("CQ^")
	ticks := 0
	for len(tone.Recorded()) < 3 {
		p.Service()
		ticks++
		if ticks > 2000 {
			t.Fatal("note never ended")
		}
	}
	if ticks != 78 {
		t.Fatalf("staccato note lasted %d ticks, want 78", ticks)
	}
}
