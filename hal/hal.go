package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// TickHz is the heartbeat rate every platform must deliver on Time.Ticks.
// One tick is 1.6ms; nine ticks make one display brightness cycle.
const TickHz = 625

// SegmentBus is the chain of latched high-voltage shift registers behind
// the tubes. One frame is 64 bits: bit i of the frame (MSb of byte 0
// shifted first) is cathode driver i.
type SegmentBus interface {
	// ShiftFrame clocks out all eight bytes and pulses the driver latch.
	ShiftFrame(frame *[8]byte)
	// SetOutputEnable drives the blanking input. False blanks every tube.
	SetOutputEnable(on bool)
}

// Prescale selects the tone timer clock divider.
type Prescale uint8

const (
	PrescaleOff Prescale = iota
	Prescale1
	Prescale8
)

// Divisor returns the clock division factor, or 0 when the timer is off.
func (p Prescale) Divisor() uint32 {
	switch p {
	case Prescale1:
		return 1
	case Prescale8:
		return 8
	}
	return 0
}

// ToneClockHz is the reference clock the tone generator divides down.
// A period value p with prescale divisor d toggles every d*(p+1) clocks,
// so the audible frequency is ToneClockHz / (d * (p+1) * 2).
const ToneClockHz = 16000000

// ToneGen is the toggle-on-compare square wave source behind the speaker.
type ToneGen interface {
	SetPeriod(period uint16, p Prescale)
	Mute(mute bool)
	// SetGain sets loudness 0 (quietest) to 7. Ignored on hardware
	// without a volume stage.
	SetGain(gain uint8)
}

// Button input bit positions as sampled by Buttons.Read.
const (
	ButtonBit0 = 1 << iota
	ButtonBit1
	ButtonBit2
	ButtonBit3
	ButtonBit4
	ButtonBit5
	LeftButtonBit
	RightButtonBit
)

// Buttons samples the eight momentary inputs. A set bit means pressed;
// the electrical inversion happens below this interface.
type Buttons interface {
	Read() uint8
}

// EncoderEdge is one B-channel transition of a quadrature encoder, with
// both channels sampled at the edge.
type EncoderEdge struct {
	B bool
	A bool
}

// Encoder delivers B-channel edges of one quadrature encoder. The
// callback may run from an interrupt goroutine and must stay short.
type Encoder interface {
	Watch(fn func(EncoderEdge))
}

// Serial moves raw bytes to and from the operator terminal.
type Serial interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Time provides the base tick stream.
//
// Ticks arrive at TickHz. Platforms may coalesce under load; consumers
// that need wall time count ticks themselves.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is the only contact point between the clock and the outside world.
type HAL interface {
	Logger() Logger
	Segments() SegmentBus
	Tone() ToneGen
	Buttons() Buttons
	LeftEncoder() Encoder
	RightEncoder() Encoder
	Serial() Serial
	Time() Time
}
