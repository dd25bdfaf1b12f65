// Package serial layers ring-buffered byte I/O over a raw HAL port,
// standing in for the UART interrupt service of the hardware.
package serial

import (
	"errors"
	"sync"

	"nixieclock/hal"
)

const (
	DefaultRxSize = 16
	DefaultTxSize = 32
)

var (
	// ErrRxEmpty is returned by non-blocking reads with nothing pending.
	ErrRxEmpty = errors.New("serial: rx buffer empty")
	// ErrTxFull is returned by non-blocking writes when the ring is
	// full; the byte is dropped.
	ErrTxFull = errors.New("serial: tx buffer full")
	// ErrClosed is returned after the underlying port fails or closes.
	ErrClosed = errors.New("serial: port closed")
)

// Config selects buffer sizes and the blocking policy per direction.
// Polled mode bypasses the rings and drives the port directly.
type Config struct {
	RxSize        int
	TxSize        int
	BlockingRead  bool
	BlockingWrite bool
	AutoCRLF      bool
	Polled        bool
}

// Port is a buffered bidirectional serial channel. Two pump goroutines
// play the role of the RX and TX interrupts.
type Port struct {
	hw  hal.Serial
	cfg Config

	mu     sync.Mutex
	rcond  *sync.Cond
	wcond  *sync.Cond
	rx     ring
	tx     ring
	closed bool
	crlf   bool
}

func New(hw hal.Serial, cfg Config) *Port {
	if cfg.RxSize <= 0 {
		cfg.RxSize = DefaultRxSize
	}
	if cfg.TxSize <= 0 {
		cfg.TxSize = DefaultTxSize
	}
	p := &Port{
		hw:   hw,
		cfg:  cfg,
		rx:   newRing(cfg.RxSize),
		tx:   newRing(cfg.TxSize),
		crlf: cfg.AutoCRLF,
	}
	p.rcond = sync.NewCond(&p.mu)
	p.wcond = sync.NewCond(&p.mu)
	if !cfg.Polled {
		go p.rxPump()
		go p.txPump()
	}
	return p
}

// SetAutoCRLF toggles newline expansion on the write path.
func (p *Port) SetAutoCRLF(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.crlf = on
}

// rxPump moves bytes from the wire into the RX ring. A full ring drops
// the newest byte, matching a UART overrun.
func (p *Port) rxPump() {
	buf := make([]byte, 1)
	for {
		n, err := p.hw.Read(buf)
		p.mu.Lock()
		if n > 0 {
			p.rx.put(buf[0])
			p.rcond.Broadcast()
		}
		if err != nil {
			p.closed = true
			p.rcond.Broadcast()
			p.wcond.Broadcast()
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
}

// txPump drains the TX ring onto the wire.
func (p *Port) txPump() {
	for {
		p.mu.Lock()
		for p.tx.empty() && !p.closed {
			p.wcond.Wait()
		}
		if p.closed && p.tx.empty() {
			p.mu.Unlock()
			return
		}
		b, _ := p.tx.take()
		p.wcond.Broadcast()
		p.mu.Unlock()

		if _, err := p.hw.Write([]byte{b}); err != nil {
			p.mu.Lock()
			p.closed = true
			p.rcond.Broadcast()
			p.wcond.Broadcast()
			p.mu.Unlock()
			return
		}
	}
}

// ReadByte returns one received byte, honoring the blocking policy.
func (p *Port) ReadByte() (byte, error) {
	if p.cfg.Polled {
		buf := make([]byte, 1)
		for {
			n, err := p.hw.Read(buf)
			if err != nil {
				return 0, err
			}
			if n > 0 {
				return buf[0], nil
			}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for p.rx.empty() {
		if p.closed {
			return 0, ErrClosed
		}
		if !p.cfg.BlockingRead {
			return 0, ErrRxEmpty
		}
		p.rcond.Wait()
	}
	b, _ := p.rx.take()
	return b, nil
}

// TryReadByte returns a pending byte without blocking.
func (p *Port) TryReadByte() (byte, bool) {
	if p.cfg.Polled {
		return 0, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.rx.take()
	return b, ok
}

// WriteByte queues one byte for transmission, expanding newline when
// auto-CRLF is on.
func (p *Port) WriteByte(b byte) error {
	p.mu.Lock()
	crlf := p.crlf
	p.mu.Unlock()
	if crlf && b == '\n' {
		if err := p.writeRaw('\r'); err != nil {
			return err
		}
	}
	return p.writeRaw(b)
}

func (p *Port) writeRaw(b byte) error {
	if p.cfg.Polled {
		_, err := p.hw.Write([]byte{b})
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for p.tx.full() {
		if p.closed {
			return ErrClosed
		}
		if !p.cfg.BlockingWrite {
			return ErrTxFull
		}
		p.wcond.Wait()
	}
	if p.closed {
		return ErrClosed
	}
	p.tx.put(b)
	p.wcond.Broadcast()
	return nil
}

// Write implements io.Writer over WriteByte.
func (p *Port) Write(data []byte) (int, error) {
	for i, b := range data {
		if err := p.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(data), nil
}

// WriteString queues a string for transmission.
func (p *Port) WriteString(s string) error {
	_, err := p.Write([]byte(s))
	return err
}

// Read implements io.Reader: it returns at least one byte, honoring
// the blocking policy for the first.
func (p *Port) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	b, err := p.ReadByte()
	if err != nil {
		return 0, err
	}
	buf[0] = b
	n := 1
	for n < len(buf) {
		b, ok := p.TryReadByte()
		if !ok {
			break
		}
		buf[n] = b
		n++
	}
	return n, nil
}

// ring is a fixed byte FIFO. Full means count == size; the newest byte
// is dropped by callers that cannot wait.
type ring struct {
	buf  []byte
	head int
	tail int
	n    int
}

func newRing(size int) ring {
	return ring{buf: make([]byte, size)}
}

func (r *ring) empty() bool { return r.n == 0 }
func (r *ring) full() bool  { return r.n == len(r.buf) }

func (r *ring) put(b byte) bool {
	if r.full() {
		return false
	}
	r.buf[r.head] = b
	r.head = (r.head + 1) % len(r.buf)
	r.n++
	return true
}

func (r *ring) take() (byte, bool) {
	if r.n == 0 {
		return 0, false
	}
	b := r.buf[r.tail]
	r.tail = (r.tail + 1) % len(r.buf)
	r.n--
	return b, true
}
