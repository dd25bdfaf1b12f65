package nixie

import (
	"testing"
	"time"

	"nixieclock/hal"
)

func TestRefreshLitSetMatchesIntensities(t *testing.T) {
	bus := &hal.SimBus{OutputEnable: true}
	buf := NewBuffer()
	d := NewDisplay(bus, buf)

	for i := 0; i < Segments; i++ {
		buf.Set(i, uint8(i%(MaxIntensity+1)))
	}

	for sub := uint8(0); sub < MaxIntensity; sub++ {
		d.RefreshStep()
		lit := bus.LitSegments()
		for i := 0; i < Segments; i++ {
			want := buf.At(i) > sub
			if lit[i] != want {
				t.Fatalf("sub-cycle %d segment %d: lit=%v, want %v", sub, i, lit[i], want)
			}
		}
	}
}

func TestRefreshDisabledShiftsNothing(t *testing.T) {
	bus := &hal.SimBus{OutputEnable: true}
	d := NewDisplay(bus, NewBuffer())
	d.SetEnabled(false)
	d.RefreshStep()
	if bus.Frames != 0 {
		t.Fatalf("shifted %d frames while disabled", bus.Frames)
	}
	if bus.OutputEnable {
		t.Fatal("output enable still high")
	}
}

func TestCrossfadeConvergence(t *testing.T) {
	bus := &hal.SimBus{OutputEnable: true}
	from := NewBuffer()
	to := NewBuffer()
	d := NewDisplay(bus, from)

	for i := 0; i < Segments; i++ {
		from.Set(i, MaxIntensity)
	}
	target := NewStream(to)

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				d.RefreshStep()
				time.Sleep(time.Microsecond)
			}
		}
	}()
	defer close(stop)

	done := make(chan struct{})
	go func() {
		d.Crossfade(target)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("crossfade did not converge")
	}

	old := from.Snapshot()
	for i, v := range old {
		if v != 0 {
			t.Fatalf("segment %d = %d after fade to blank", i, v)
		}
	}
	if d.Active() != from {
		t.Fatal("active binding changed during crossfade")
	}
}

func TestCrossfadeRampsUp(t *testing.T) {
	bus := &hal.SimBus{OutputEnable: true}
	from := NewBuffer()
	to := NewBuffer()
	d := NewDisplay(bus, from)
	d.SetCrossfadeRate(1)

	target := NewStream(to)
	target.Write([]byte("\f*7012345"))

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				d.RefreshStep()
			}
		}
	}()
	defer close(stop)

	d.Crossfade(target)

	for tube := 0; tube < Width; tube++ {
		if got := from.At(tubeBase[tube] + tube); got != 7 {
			t.Fatalf("tube %d ramped to %d, want 7", tube, got)
		}
	}
}
