//go:build !tinygo && !sbc

package hal

import (
	"fmt"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	bus    *hostBus
	tone   ToneGen
	btns   *hostButtons
	lenc   *hostEncoder
	renc   *hostEncoder
	serial *hostSerial
	t      *hostTime
}

// New returns a desktop HAL implementation. The window (or the headless
// runner) feeds time and input; tubes render from the latched frames.
func New() HAL {
	return &hostHAL{
		logger: &hostLogger{w: os.Stderr},
		bus:    newHostBus(),
		tone:   newHostTone(),
		btns:   &hostButtons{},
		lenc:   &hostEncoder{},
		renc:   &hostEncoder{},
		serial: &hostSerial{r: os.Stdin, w: os.Stdout},
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger        { return h.logger }
func (h *hostHAL) Segments() SegmentBus  { return h.bus }
func (h *hostHAL) Tone() ToneGen         { return h.tone }
func (h *hostHAL) Buttons() Buttons      { return h.btns }
func (h *hostHAL) LeftEncoder() Encoder  { return h.lenc }
func (h *hostHAL) RightEncoder() Encoder { return h.renc }
func (h *hostHAL) Serial() Serial        { return h.serial }
func (h *hostHAL) Time() Time            { return h.t }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\r', '\n'})
}

// hostBus integrates frame duty so the window can show brightness
// instead of raw per-subcycle flicker. One brightness cycle is nine
// latched frames.
type hostBus struct {
	mu     sync.Mutex
	oe     bool
	frames int
	accum  [64]uint8
	duty   [64]uint8
}

func newHostBus() *hostBus {
	return &hostBus{oe: true}
}

func (b *hostBus) ShiftFrame(frame *[8]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < 64; i++ {
		if frame[i/8]&(0x80>>(i%8)) != 0 {
			b.accum[i]++
		}
	}
	b.frames++
	if b.frames >= 9 {
		b.duty = b.accum
		b.accum = [64]uint8{}
		b.frames = 0
	}
}

func (b *hostBus) SetOutputEnable(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.oe = on
	if !on {
		b.accum = [64]uint8{}
		b.duty = [64]uint8{}
		b.frames = 0
	}
}

// snapshotDuty copies the last full brightness cycle, 0..9 per segment.
func (b *hostBus) snapshotDuty() (out [64]uint8, oe bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duty, b.oe
}

type hostButtons struct {
	mu   sync.Mutex
	mask uint8
}

func (b *hostButtons) Read() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mask
}

func (b *hostButtons) set(mask uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mask = mask
}

type hostEncoder struct {
	mu    sync.Mutex
	fn    func(EncoderEdge)
	phase bool
}

func (e *hostEncoder) Watch(fn func(EncoderEdge)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fn = fn
}

// click synthesizes one detent. Alternating B phases keep the edge
// stream plausible across repeated clicks.
func (e *hostEncoder) click(cw bool) {
	e.mu.Lock()
	e.phase = !e.phase
	b := e.phase
	fn := e.fn
	e.mu.Unlock()
	if fn == nil {
		return
	}
	if cw {
		fn(EncoderEdge{B: b, A: b})
	} else {
		fn(EncoderEdge{B: b, A: !b})
	}
}
