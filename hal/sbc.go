//go:build !tinygo && sbc

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SBCConfig names the Linux GPIO lines and SPI bus wired to the driver
// board. Zero-value fields fall back to the defaults below.
type SBCConfig struct {
	SPIDev   string
	Latch    string
	Blank    string
	Speaker  string
	Buttons  [8]string
	LeftA    string
	LeftB    string
	RightA   string
	RightB   string
}

func (c *SBCConfig) setDefaults() {
	if c.Latch == "" {
		c.Latch = "GPIO25"
	}
	if c.Blank == "" {
		c.Blank = "GPIO24"
	}
	if c.Speaker == "" {
		c.Speaker = "GPIO18"
	}
	if c.Buttons == ([8]string{}) {
		c.Buttons = [8]string{
			"GPIO5", "GPIO6", "GPIO13", "GPIO19",
			"GPIO26", "GPIO16", "GPIO20", "GPIO21",
		}
	}
	if c.LeftA == "" {
		c.LeftA = "GPIO17"
	}
	if c.LeftB == "" {
		c.LeftB = "GPIO27"
	}
	if c.RightA == "" {
		c.RightA = "GPIO22"
	}
	if c.RightB == "" {
		c.RightB = "GPIO23"
	}
}

type sbcHAL struct {
	logger *sbcLogger
	bus    *sbcSegmentBus
	tone   *sbcTone
	btns   *sbcButtons
	lenc   *sbcEncoder
	renc   *sbcEncoder
	serial *sbcSerial
	t      *sbcTime
}

// New returns a HAL for a Linux single-board computer driving the tube
// board over spidev and the GPIO character device.
func New() HAL {
	h, err := NewSBC(SBCConfig{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return h
}

func NewSBC(cfg SBCConfig) (HAL, error) {
	cfg.setDefaults()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph: %w", err)
	}

	port, err := spireg.Open(cfg.SPIDev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", cfg.SPIDev, err)
	}
	conn, err := port.Connect(2*physic.MegaHertz, spi.Mode2, 8)
	if err != nil {
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	pin := func(name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("no gpio %q", name)
		}
		return p, nil
	}

	latch, err := pin(cfg.Latch)
	if err != nil {
		return nil, err
	}
	blank, err := pin(cfg.Blank)
	if err != nil {
		return nil, err
	}
	if err := latch.Out(gpio.Low); err != nil {
		return nil, err
	}
	if err := blank.Out(gpio.High); err != nil {
		return nil, err
	}

	var btnPins [8]gpio.PinIO
	for i, name := range cfg.Buttons {
		p, err := pin(name)
		if err != nil {
			return nil, err
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, err
		}
		btnPins[i] = p
	}

	speaker, err := pin(cfg.Speaker)
	if err != nil {
		return nil, err
	}

	newEnc := func(aName, bName string) (*sbcEncoder, error) {
		a, err := pin(aName)
		if err != nil {
			return nil, err
		}
		b, err := pin(bName)
		if err != nil {
			return nil, err
		}
		if err := a.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, err
		}
		if err := b.In(gpio.PullUp, gpio.BothEdges); err != nil {
			return nil, err
		}
		return &sbcEncoder{a: a, b: b}, nil
	}
	lenc, err := newEnc(cfg.LeftA, cfg.LeftB)
	if err != nil {
		return nil, err
	}
	renc, err := newEnc(cfg.RightA, cfg.RightB)
	if err != nil {
		return nil, err
	}

	return &sbcHAL{
		logger: &sbcLogger{w: os.Stderr},
		bus:    &sbcSegmentBus{conn: conn, latch: latch, blank: blank},
		tone:   &sbcTone{pin: speaker},
		btns:   &sbcButtons{pins: btnPins},
		lenc:   lenc,
		renc:   renc,
		serial: &sbcSerial{r: os.Stdin, w: os.Stdout},
		t:      newSBCTime(),
	}, nil
}

func (h *sbcHAL) Logger() Logger        { return h.logger }
func (h *sbcHAL) Segments() SegmentBus  { return h.bus }
func (h *sbcHAL) Tone() ToneGen         { return h.tone }
func (h *sbcHAL) Buttons() Buttons      { return h.btns }
func (h *sbcHAL) LeftEncoder() Encoder  { return h.lenc }
func (h *sbcHAL) RightEncoder() Encoder { return h.renc }
func (h *sbcHAL) Serial() Serial        { return h.serial }
func (h *sbcHAL) Time() Time            { return h.t }

type sbcLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *sbcLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *sbcLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type sbcSegmentBus struct {
	mu    sync.Mutex
	conn  spi.Conn
	latch gpio.PinIO
	blank gpio.PinIO
}

func (b *sbcSegmentBus) ShiftFrame(frame *[8]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conn.Tx(frame[:], nil)
	b.latch.Out(gpio.High)
	b.latch.Out(gpio.Low)
}

func (b *sbcSegmentBus) SetOutputEnable(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blank.Out(gpio.Level(on))
}

type sbcButtons struct {
	pins [8]gpio.PinIO
}

func (b *sbcButtons) Read() uint8 {
	var mask uint8
	for i, p := range b.pins {
		if p.Read() == gpio.Low {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

type sbcEncoder struct {
	a gpio.PinIO
	b gpio.PinIO
}

func (e *sbcEncoder) Watch(fn func(EncoderEdge)) {
	go func() {
		for {
			if !e.b.WaitForEdge(-1) {
				continue
			}
			fn(EncoderEdge{
				B: e.b.Read() == gpio.High,
				A: e.a.Read() == gpio.High,
			})
		}
	}()
}

// sbcTone uses the kernel PWM line behind the speaker pin. Gain is
// unsupported there, the speaker is driven at half duty.
type sbcTone struct {
	mu    sync.Mutex
	pin   gpio.PinIO
	freq  physic.Frequency
	muted bool
}

func (t *sbcTone) SetPeriod(period uint16, p Prescale) {
	div := p.Divisor()

	t.mu.Lock()
	defer t.mu.Unlock()
	if div == 0 {
		t.freq = 0
	} else {
		hz := uint64(ToneClockHz) / (uint64(div) * (uint64(period) + 1) * 2)
		t.freq = physic.Frequency(hz) * physic.Hertz
	}
	t.applyLocked()
}

func (t *sbcTone) Mute(mute bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = mute
	t.applyLocked()
}

func (t *sbcTone) SetGain(gain uint8) {}

func (t *sbcTone) applyLocked() {
	if t.muted || t.freq == 0 {
		t.pin.Halt()
		return
	}
	t.pin.PWM(gpio.DutyHalf, t.freq)
}

type sbcTime struct {
	ch  chan uint64
	seq uint64
}

func newSBCTime() *sbcTime {
	t := &sbcTime{ch: make(chan uint64, 4096)}
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

func (t *sbcTime) Ticks() <-chan uint64 { return t.ch }

type sbcSerial struct {
	mu sync.Mutex
	r  *os.File
	w  *os.File
}

func (s *sbcSerial) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *sbcSerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
