package hal

import "sync"

// Sim is an in-memory HAL for tests. Every peripheral records what the
// firmware did to it and lets the test inject inputs.
type Sim struct {
	Log  *SimLogger
	Bus  *SimBus
	Gen  *SimTone
	Btns *SimButtons
	LEnc *SimEncoder
	REnc *SimEncoder
	Ser  *SimSerial
	Tick *SimTime
}

// NewSim returns a fully wired simulated HAL.
func NewSim() *Sim {
	return &Sim{
		Log:  &SimLogger{},
		Bus:  &SimBus{OutputEnable: true},
		Gen:  &SimTone{Muted: true},
		Btns: &SimButtons{},
		LEnc: &SimEncoder{},
		REnc: &SimEncoder{},
		Ser:  NewSimSerial(),
		Tick: NewSimTime(),
	}
}

func (s *Sim) Logger() Logger        { return s.Log }
func (s *Sim) Segments() SegmentBus  { return s.Bus }
func (s *Sim) Tone() ToneGen         { return s.Gen }
func (s *Sim) Buttons() Buttons      { return s.Btns }
func (s *Sim) LeftEncoder() Encoder  { return s.LEnc }
func (s *Sim) RightEncoder() Encoder { return s.REnc }
func (s *Sim) Serial() Serial        { return s.Ser }
func (s *Sim) Time() Time            { return s.Tick }

// SimLogger keeps log lines in memory.
type SimLogger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *SimLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, s)
}

func (l *SimLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

// SimBus records every latched frame.
type SimBus struct {
	mu           sync.Mutex
	Frames       int
	Last         [8]byte
	OutputEnable bool
	OnLatch      func(frame [8]byte)
}

func (b *SimBus) ShiftFrame(frame *[8]byte) {
	b.mu.Lock()
	b.Frames++
	b.Last = *frame
	hook := b.OnLatch
	f := *frame
	b.mu.Unlock()
	if hook != nil {
		hook(f)
	}
}

func (b *SimBus) SetOutputEnable(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.OutputEnable = on
}

// LastFrame returns the most recently latched frame.
func (b *SimBus) LastFrame() [8]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Last
}

// LitSegments decodes the last frame into the set of driven cathodes.
func (b *SimBus) LitSegments() map[int]bool {
	f := b.LastFrame()
	lit := make(map[int]bool)
	for i := 0; i < 64; i++ {
		if f[i/8]&(0x80>>(i%8)) != 0 {
			lit[i] = true
		}
	}
	return lit
}

// ToneChange is one recorded ToneGen call.
type ToneChange struct {
	Period   uint16
	Prescale Prescale
}

// SimTone records period programming and the mute/gain state.
type SimTone struct {
	mu      sync.Mutex
	Changes []ToneChange
	Muted   bool
	Gain    uint8
}

func (t *SimTone) SetPeriod(period uint16, p Prescale) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Changes = append(t.Changes, ToneChange{Period: period, Prescale: p})
}

func (t *SimTone) Mute(mute bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Muted = mute
}

func (t *SimTone) SetGain(gain uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Gain = gain
}

// IsMuted reports the current mute state.
func (t *SimTone) IsMuted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Muted
}

// Recorded returns a copy of the period change log.
func (t *SimTone) Recorded() []ToneChange {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ToneChange, len(t.Changes))
	copy(out, t.Changes)
	return out
}

// SimButtons holds the pressed bitmap the test wants the firmware to see.
type SimButtons struct {
	mu   sync.Mutex
	mask uint8
}

func (b *SimButtons) Read() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mask
}

// Press sets the pressed bitmap.
func (b *SimButtons) Press(mask uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mask = mask
}

// Release clears all buttons.
func (b *SimButtons) Release() { b.Press(0) }

// SimEncoder forwards synthesized edges to the registered watcher.
type SimEncoder struct {
	mu    sync.Mutex
	fn    func(EncoderEdge)
	phase bool
}

func (e *SimEncoder) Watch(fn func(EncoderEdge)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fn = fn
}

// Edge delivers one raw B-channel edge.
func (e *SimEncoder) Edge(b, a bool) {
	e.mu.Lock()
	fn := e.fn
	e.mu.Unlock()
	if fn != nil {
		fn(EncoderEdge{B: b, A: a})
	}
}

// Turn emits n detents, clockwise when n is positive.
func (e *SimEncoder) Turn(n int) {
	cw := n > 0
	if n < 0 {
		n = -n
	}
	for i := 0; i < n; i++ {
		e.mu.Lock()
		e.phase = !e.phase
		b := e.phase
		e.mu.Unlock()
		if cw {
			e.Edge(b, b)
		} else {
			e.Edge(b, !b)
		}
	}
}

// SimSerial is a bidirectional in-memory port. Reads block until input
// is injected or the port is closed.
type SimSerial struct {
	mu     sync.Mutex
	cond   *sync.Cond
	in     []byte
	out    []byte
	closed bool
}

func NewSimSerial() *SimSerial {
	s := &SimSerial{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *SimSerial) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.in) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.in) == 0 {
		return 0, ErrNotImplemented
	}
	n := copy(p, s.in)
	s.in = s.in[n:]
	return n, nil
}

func (s *SimSerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = append(s.out, p...)
	return len(p), nil
}

// Inject queues bytes for the firmware to read.
func (s *SimSerial) Inject(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in = append(s.in, b...)
	s.cond.Broadcast()
}

// Close wakes blocked readers.
func (s *SimSerial) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}

// Output returns everything the firmware wrote so far.
func (s *SimSerial) Output() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.out))
	copy(out, s.out)
	return out
}

// SimTime is a manually stepped tick source.
type SimTime struct {
	ch  chan uint64
	seq uint64
}

func NewSimTime() *SimTime {
	return &SimTime{ch: make(chan uint64, 4096)}
}

func (t *SimTime) Ticks() <-chan uint64 { return t.ch }

// Step queues n ticks.
func (t *SimTime) Step(n int) {
	for i := 0; i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
