// Package button debounces the eight momentary inputs and recognizes
// short presses, long presses, and stable multi-button chords.
package button

import (
	"sync"

	"nixieclock/hal"
	"nixieclock/timer"
)

// Press thresholds in heartbeat ticks.
var (
	ShortTicks = timer.MsToTicks(50)
	LongTicks  = timer.MsToTicks(1000)
	ChordTicks = timer.MsToTicks(750)
)

// Scanner samples the inputs once per tick and latches edge results.
// Latches stay set until consumed with the Take accessors.
type Scanner struct {
	mu      sync.Mutex
	port    hal.Buttons
	enabled bool

	state     uint8
	previous  uint8
	debounced uint8
	stable    uint16
	down      [8]uint16

	pressed  uint8
	released uint8
	short    uint8
	long     uint8
	chord    uint8
}

func NewScanner(port hal.Buttons) *Scanner {
	return &Scanner{port: port, enabled: true}
}

// SetEnabled gates scanning. While disabled the inputs are ignored and
// no latches change.
func (s *Scanner) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on
}

// Reset clears all latches and counters.
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = 0
	s.previous = 0
	s.debounced = 0
	s.stable = 0
	s.down = [8]uint16{}
	s.pressed = 0
	s.released = 0
	s.short = 0
	s.long = 0
	s.chord = 0
}

// Scan runs one debounce step. Called from the tick loop.
func (s *Scanner) Scan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}

	s.state = s.port.Read()

	// Chord recognition watches the whole pattern for stability.
	if s.state != 0 && s.state == s.previous {
		if s.stable < ChordTicks {
			s.stable++
			if s.stable == ChordTicks && s.state&(s.state-1) != 0 {
				s.chord = s.state
			}
		}
	} else {
		s.stable = 0
	}
	s.previous = s.state

	for i := uint(0); i < 8; i++ {
		bit := uint8(1) << i
		if s.state&bit != 0 {
			if s.down[i] < 0xFFFF {
				s.down[i]++
			}
			if s.down[i] == ShortTicks {
				s.pressed |= bit
				s.debounced |= bit
			}
			if s.down[i] == LongTicks {
				s.long |= bit
			}
			continue
		}
		if s.down[i] >= ShortTicks {
			s.released |= bit
			if s.down[i] < LongTicks {
				s.short |= bit
			}
			s.debounced &^= bit
		}
		s.down[i] = 0
	}
}

// State returns the raw sample from the last scan.
func (s *Scanner) State() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Debounced returns the bitmap of buttons currently held past the
// debounce threshold.
func (s *Scanner) Debounced() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounced
}

func (s *Scanner) Pressed() uint8  { return s.peek(&s.pressed) }
func (s *Scanner) Released() uint8 { return s.peek(&s.released) }
func (s *Scanner) Short() uint8    { return s.peek(&s.short) }
func (s *Scanner) Long() uint8     { return s.peek(&s.long) }
func (s *Scanner) Chord() uint8    { return s.peek(&s.chord) }

// TakePressed returns and clears the pressed latch.
func (s *Scanner) TakePressed() uint8  { return s.take(&s.pressed) }
func (s *Scanner) TakeReleased() uint8 { return s.take(&s.released) }
func (s *Scanner) TakeShort() uint8    { return s.take(&s.short) }
func (s *Scanner) TakeLong() uint8     { return s.take(&s.long) }
func (s *Scanner) TakeChord() uint8    { return s.take(&s.chord) }

func (s *Scanner) peek(latch *uint8) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *latch
}

func (s *Scanner) take(latch *uint8) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *latch
	*latch = 0
	return v
}
