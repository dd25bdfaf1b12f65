package app

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"nixieclock/button"
	"nixieclock/clock"
	"nixieclock/event"
	"nixieclock/hal"
	"nixieclock/nixie"
)

func testSystem() (*system, *hal.Sim) {
	sim := hal.NewSim()
	return newSystem(sim, Config{SkipIntro: true}), sim
}

func ticks(s *system, n int) {
	for i := 0; i < n; i++ {
		s.tick()
	}
}

// pressAndRelease holds a button pattern long enough to debounce, then
// lets go.
func pressAndRelease(s *system, sim *hal.Sim, mask uint8) {
	sim.Btns.Press(mask)
	ticks(s, int(button.ShortTicks)+2)
	sim.Btns.Release()
	ticks(s, 2)
}

func waitResult(t *testing.T, res <-chan bool) bool {
	t.Helper()
	select {
	case ok := <-res:
		return ok
	case <-time.After(5 * time.Second):
		t.Fatal("editor did not finish")
		return false
	}
}

func TestSetTimeAccept(t *testing.T) {
	s, sim := testSystem()
	tt := clock.Time{Hour: 23, Minute: 59, Second: 58}

	res := make(chan bool, 1)
	go func() { res <- s.setTime(modeClock24, &tt) }()

	pressAndRelease(s, sim, 1<<1)               // increment hours, wraps 23 -> 0
	pressAndRelease(s, sim, hal.RightButtonBit) // accept

	if !waitResult(t, res) {
		t.Fatal("accept returned false")
	}
	if tt != (clock.Time{Hour: 0, Minute: 59, Second: 58}) {
		t.Fatalf("time = %+v, want 0:59:58", tt)
	}
}

func TestSetTimeCancel(t *testing.T) {
	s, sim := testSystem()
	tt := clock.Time{Hour: 23, Minute: 59, Second: 58}

	res := make(chan bool, 1)
	go func() { res <- s.setTime(modeClock24, &tt) }()

	pressAndRelease(s, sim, 1<<1)
	pressAndRelease(s, sim, hal.LeftButtonBit) // cancel

	if waitResult(t, res) {
		t.Fatal("cancel returned true")
	}
}

func TestSetTimeChordResetsAll(t *testing.T) {
	s, sim := testSystem()
	tt := clock.Time{Hour: 17, Minute: 23, Second: 41}

	res := make(chan bool, 1)
	go func() { res <- s.setTime(modeClock24, &tt) }()

	// Buttons 0+5 held together: the individual pressed events fire
	// first, then the chord resets everything.
	sim.Btns.Press(0x21)
	ticks(s, int(button.ChordTicks)+2)
	sim.Btns.Release()
	ticks(s, 2)

	pressAndRelease(s, sim, hal.RightButtonBit)

	if !waitResult(t, res) {
		t.Fatal("accept returned false")
	}
	if tt != (clock.Time{}) {
		t.Fatalf("time = %+v, want 0:00:00", tt)
	}
}

func TestSetDateClampsDay(t *testing.T) {
	s, sim := testSystem()
	d := clock.Date{Year: 2024, Month: 3, Day: 31}

	res := make(chan bool, 1)
	go func() { res <- s.setDate(&d) }()

	pressAndRelease(s, sim, 1<<0) // month 3 -> 2, day clamps to 29
	pressAndRelease(s, sim, hal.RightButtonBit)

	if !waitResult(t, res) {
		t.Fatal("accept returned false")
	}
	if d != (clock.Date{Year: 2024, Month: 2, Day: 29}) {
		t.Fatalf("date = %+v, want 2024-02-29", d)
	}
}

func TestTerminalModeEchoesAndExits(t *testing.T) {
	s, sim := testSystem()

	done := make(chan struct{})
	go func() {
		s.terminalMode()
		close(done)
	}()

	sim.Ser.Inject([]byte("12\x1b"))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("terminal mode did not exit on ESC")
	}

	if !bytes.Contains(sim.Ser.Output(), []byte("12")) {
		t.Fatal("input not echoed to serial")
	}
	buf := s.primary.Buffer()
	if buf.At(1) != nixie.MaxIntensity { // '1' on tube 0
		t.Fatal("tube 0 does not show 1")
	}
	if buf.At(12) != nixie.MaxIntensity { // '2' on tube 1
		t.Fatal("tube 1 does not show 2")
	}
}

func TestOneSecondPulse(t *testing.T) {
	s, _ := testSystem()
	start := s.clock.Time()

	ticks(s, int(hal.TickHz))

	if got := s.clock.Time(); got.Second != start.Second+1 {
		t.Fatalf("clock did not advance: %+v -> %+v", start, got)
	}
	for {
		ev := s.events.Next(0)
		if ev.Kind == event.None {
			t.Fatal("no one-second event queued")
		}
		if ev.Kind == event.OneSecondElapsed {
			break
		}
	}
}

// parseClock24 inverts the 24-hour render format by reading which digit
// cathode is lit on each tube.
func parseClock24(buf *nixie.Buffer) (clock.Time, bool) {
	bases := []int{0, 10, 21, 32, 43, 53}
	var digits [6]uint8
	for tube, base := range bases {
		found := false
		for d := 0; d < 10; d++ {
			if buf.At(base+d) > 0 {
				digits[tube] = uint8(d)
				found = true
				break
			}
		}
		if !found {
			return clock.Time{}, false
		}
	}
	return clock.Time{
		Hour:   digits[0]*10 + digits[1],
		Minute: digits[2]*10 + digits[3],
		Second: digits[4]*10 + digits[5],
	}, true
}

func TestRenderParseRoundTrip(t *testing.T) {
	times := []clock.Time{
		{Hour: 23, Minute: 59, Second: 58},
		{Hour: 0, Minute: 0, Second: 0},
		{Hour: 12, Minute: 34, Second: 56},
		{Hour: 7, Minute: 8, Second: 9},
	}
	for _, want := range times {
		st := nixie.NewStream(nixie.NewBuffer())
		fmt.Fprintf(st, "\f\r~x%02d.%02d.%02dy", want.Hour, want.Minute, want.Second)
		got, ok := parseClock24(st.Buffer())
		if !ok || got != want {
			t.Fatalf("round trip %+v -> %+v (ok=%v)", want, got, ok)
		}
	}
}
