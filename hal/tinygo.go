//go:build tinygo

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/tone"
)

type tinyGoHAL struct {
	logger *uartLogger
	bus    *spiSegmentBus
	tone   *pwmTone
	btns   *pinButtons
	lenc   *pinEncoder
	renc   *pinEncoder
	serial *uartSerial
	t      *tinyGoTime
}

// New returns a Pico 2 (RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 38400 8N1.
// Driver chain: SPI0 on GP18 (SCK) / GP19 (SDO), latch GP20, blank GP21.
// Speaker: GP22 (PWM). Buttons: GP2..GP9, active low with pull-ups.
// Encoders: left A/B on GP10/GP11, right A/B on GP12/GP13.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 38400,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		bus:    newSPISegmentBus(machine.SPI0, machine.GP18, machine.GP19, machine.GP20, machine.GP21),
		tone:   newPWMTone(machine.GP22),
		btns: newPinButtons([8]machine.Pin{
			machine.GP2, machine.GP3, machine.GP4, machine.GP5,
			machine.GP6, machine.GP7, machine.GP8, machine.GP9,
		}),
		lenc:   newPinEncoder(machine.GP10, machine.GP11),
		renc:   newPinEncoder(machine.GP12, machine.GP13),
		serial: &uartSerial{uart: uart},
		t:      newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger        { return h.logger }
func (h *tinyGoHAL) Segments() SegmentBus  { return h.bus }
func (h *tinyGoHAL) Tone() ToneGen         { return h.tone }
func (h *tinyGoHAL) Buttons() Buttons      { return h.btns }
func (h *tinyGoHAL) LeftEncoder() Encoder  { return h.lenc }
func (h *tinyGoHAL) RightEncoder() Encoder { return h.renc }
func (h *tinyGoHAL) Serial() Serial        { return h.serial }
func (h *tinyGoHAL) Time() Time            { return h.t }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Read(p)
}

func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Write(p)
}

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1600 * time.Microsecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type spiSegmentBus struct {
	spi   *machine.SPI
	latch machine.Pin
	blank machine.Pin
}

func newSPISegmentBus(spi *machine.SPI, sck, sdo, latch, blank machine.Pin) *spiSegmentBus {
	spi.Configure(machine.SPIConfig{
		Frequency: 2000000,
		SCK:       sck,
		SDO:       sdo,
		Mode:      2,
	})
	latch.Configure(machine.PinConfig{Mode: machine.PinOutput})
	latch.Low()
	blank.Configure(machine.PinConfig{Mode: machine.PinOutput})
	blank.High()
	return &spiSegmentBus{spi: spi, latch: latch, blank: blank}
}

func (b *spiSegmentBus) ShiftFrame(frame *[8]byte) {
	b.spi.Tx(frame[:], nil)
	b.latch.High()
	b.latch.Low()
}

// SetOutputEnable drives the driver blanking input, which is active low.
func (b *spiSegmentBus) SetOutputEnable(on bool) {
	b.blank.Set(on)
}

type pinButtons struct {
	pins [8]machine.Pin
}

func newPinButtons(pins [8]machine.Pin) *pinButtons {
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return &pinButtons{pins: pins}
}

func (b *pinButtons) Read() uint8 {
	var mask uint8
	for i, p := range b.pins {
		if !p.Get() {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

type pinEncoder struct {
	a  machine.Pin
	b  machine.Pin
	fn func(EncoderEdge)
}

func newPinEncoder(a, b machine.Pin) *pinEncoder {
	a.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	b.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &pinEncoder{a: a, b: b}
}

func (e *pinEncoder) Watch(fn func(EncoderEdge)) {
	e.fn = fn
	e.b.SetInterrupt(machine.PinToggle, func(machine.Pin) {
		if e.fn != nil {
			e.fn(EncoderEdge{B: e.b.Get(), A: e.a.Get()})
		}
	})
}

// pwmTone drives the speaker through a PWM slice at 50% duty, using the
// slice period as the pitch.
type pwmTone struct {
	pwm     tone.PWM
	speaker tone.Speaker
	ok      bool
	periodN uint64
	muted   bool
}

func newPWMTone(pin machine.Pin) *pwmTone {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return &pwmTone{muted: true}
	}
	sp, err := tone.New(pwm, pin)
	if err != nil {
		return &pwmTone{muted: true}
	}
	return &pwmTone{pwm: pwm, speaker: sp, ok: true, muted: true}
}

func pwmForPin(pin machine.Pin) tone.PWM {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (t *pwmTone) SetPeriod(period uint16, p Prescale) {
	if !t.ok {
		return
	}
	div := p.Divisor()
	if div == 0 {
		t.periodN = 0
		t.speaker.Stop()
		return
	}
	// Two timer toggles per wave; one reference clock is 62.5ns.
	t.periodN = uint64(div) * (uint64(period) + 1) * 125
	if !t.muted {
		t.apply()
	}
}

func (t *pwmTone) Mute(mute bool) {
	if !t.ok {
		return
	}
	t.muted = mute
	if mute {
		t.speaker.Stop()
	} else if t.periodN > 0 {
		t.apply()
	}
}

func (t *pwmTone) apply() {
	t.speaker.SetPeriod(t.periodN)
	t.pwm.Set(t.speaker.Channel, t.pwm.Top()/2)
}

// SetGain is a no-op: the speaker has no volume stage.
func (t *pwmTone) SetGain(gain uint8) {}
