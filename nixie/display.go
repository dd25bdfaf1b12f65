package nixie

import (
	"sync"

	"nixieclock/hal"
)

// MaxCrossfadeRate is the largest crossfade throttle: up to three PWM
// cycles are skipped between intensity steps.
const MaxCrossfadeRate = 3

// Display owns the refresh engine and the active-buffer binding. One
// RefreshStep runs per heartbeat tick; MaxIntensity steps make a full
// PWM cycle.
type Display struct {
	bus hal.SegmentBus

	mu        sync.Mutex
	cycleDone *sync.Cond

	active  *Buffer
	sub     uint8
	enable  bool
	oneOnly bool
	oneDone bool

	rate      uint8
	rateCount uint8
}

func NewDisplay(bus hal.SegmentBus, active *Buffer) *Display {
	d := &Display{
		bus:       bus,
		active:    active,
		enable:    true,
		rateCount: MaxCrossfadeRate,
	}
	d.cycleDone = sync.NewCond(&d.mu)
	return d
}

// Show atomically rebinds the buffer the refresh engine renders.
func (d *Display) Show(b *Buffer) {
	d.mu.Lock()
	d.active = b
	d.mu.Unlock()
}

// Active returns the currently bound buffer.
func (d *Display) Active() *Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// SetEnabled gates refresh and the driver output stage together.
func (d *Display) SetEnabled(on bool) {
	d.mu.Lock()
	d.enable = on
	d.mu.Unlock()
	d.bus.SetOutputEnable(on)
}

// SetCrossfadeRate sets the animation throttle, clamped 0..3.
func (d *Display) SetCrossfadeRate(rate uint8) {
	if rate > MaxCrossfadeRate {
		rate = MaxCrossfadeRate
	}
	d.mu.Lock()
	d.rate = rate
	d.mu.Unlock()
}

// RefreshStep emits one PWM sub-cycle. Called from the tick loop.
func (d *Display) RefreshStep() {
	d.mu.Lock()
	if !d.enable {
		d.mu.Unlock()
		return
	}
	buf := d.active
	sub := d.sub
	d.mu.Unlock()

	snap := buf.Snapshot()
	var frame [8]byte
	for i := 0; i < Segments; i++ {
		if snap[i] > sub {
			frame[i/8] |= 0x80 >> (i % 8)
		}
	}
	d.bus.ShiftFrame(&frame)

	d.mu.Lock()
	d.sub++
	if d.sub >= MaxIntensity {
		d.sub = 0
		d.oneDone = true
		if d.oneOnly {
			d.enable = false
		}
		d.cycleDone.Broadcast()
	}
	d.mu.Unlock()
}

// waitCycle parks until the refresh engine finishes a PWM cycle and
// pauses. Refresh must be resumed by the caller.
func (d *Display) waitCycle() {
	d.mu.Lock()
	d.oneOnly = true
	d.oneDone = false
	d.enable = true
	for !d.oneDone {
		d.cycleDone.Wait()
	}
	d.mu.Unlock()
}

// Crossfade animates the active buffer toward the target stream's
// buffer, one intensity step per PWM cycle. The active binding is left
// alone, so the caller keeps composing into the target and crossfading.
// Blocking; must not be called from the tick loop.
func (d *Display) Crossfade(to *Stream) {
	target := to.Buffer()

	d.mu.Lock()
	d.rateCount = MaxCrossfadeRate
	d.mu.Unlock()

	for {
		d.waitCycle()

		d.mu.Lock()
		throttle := d.rateCount < d.rate
		if throttle {
			d.rateCount++
			d.enable = true
			d.mu.Unlock()
			continue
		}
		d.rateCount = 0
		active := d.active
		d.mu.Unlock()

		changed := active.stepToward(target)

		d.mu.Lock()
		d.enable = true
		d.mu.Unlock()

		if changed == 0 {
			break
		}
	}

	d.mu.Lock()
	d.oneOnly = false
	d.enable = true
	d.mu.Unlock()
}
