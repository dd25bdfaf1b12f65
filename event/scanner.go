package event

import (
	"nixieclock/button"
	"nixieclock/rotary"
	"nixieclock/timer"
)

// Scanner drains the input sources into a queue and hands events to
// the application. Consumers drive the drain themselves: every Next,
// Peek, or Wait call runs one scan pass first, matching the
// single-threaded consumer model the sources were built for.
type Scanner struct {
	queue   *Queue
	buttons *button.Scanner
	dials   *rotary.Decoder
	timers  *timer.Pool
	kick    chan struct{}
}

func NewScanner(q *Queue, b *button.Scanner, d *rotary.Decoder, t *timer.Pool) *Scanner {
	return &Scanner{
		queue:   q,
		buttons: b,
		dials:   d,
		timers:  t,
		kick:    make(chan struct{}, 1),
	}
}

// Queue returns the underlying queue, for producers outside the
// scanned sources (the 1 Hz pulse, synthetic UI events).
func (s *Scanner) Queue() *Queue { return s.queue }

// Kick wakes a consumer blocked in Wait. The tick loop calls this once
// per tick; extra kicks coalesce.
func (s *Scanner) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Scan drains all sources in fixed order: per-button phases, chord,
// rotary deltas, then expired timers.
func (s *Scanner) Scan() {
	pressed := s.buttons.TakePressed()
	released := s.buttons.TakeReleased()
	short := s.buttons.TakeShort()
	long := s.buttons.TakeLong()
	debounced := s.buttons.Debounced()

	for i := uint8(0); i < 8; i++ {
		bit := uint8(1) << i
		if pressed&bit != 0 {
			s.queue.Add(ButtonKind(i, Pressed), debounced)
		}
		if released&bit != 0 {
			s.queue.Add(ButtonKind(i, Released), debounced)
		}
		if short&bit != 0 {
			s.queue.Add(ButtonKind(i, Short), debounced)
		}
		if long&bit != 0 {
			s.queue.Add(ButtonKind(i, Long), debounced)
		}
	}

	if chord := s.buttons.TakeChord(); chord != 0 {
		s.queue.Add(Chord, chord)
	}

	if d := s.dials.Relative(rotary.Right); d != 0 {
		s.queue.Add(RightRotaryMoved, uint8(d))
	}
	if d := s.dials.Relative(rotary.Left); d != 0 {
		s.queue.Add(LeftRotaryMoved, uint8(d))
	}

	for id := uint8(0); id < timer.NumTimers; id++ {
		if s.timers.Expired(id, true) {
			s.queue.Add(TimerExpired, id)
		}
	}
}

// Next scans and returns the oldest pending event, or a None event.
// The mask parameter is reserved for filtering; pass 0.
func (s *Scanner) Next(mask uint8) Event {
	s.Scan()
	if e, ok := s.queue.take(); ok {
		return e
	}
	return Event{Kind: None}
}

// Peek scans and returns the oldest pending event without consuming it.
func (s *Scanner) Peek() Event {
	s.Scan()
	if e, ok := s.queue.peek(); ok {
		return e
	}
	return Event{Kind: None}
}

// Wait blocks until an event arrives. It parks on the tick kick
// between scans instead of spinning.
func (s *Scanner) Wait(mask uint8) Event {
	for {
		if e := s.Next(mask); e.Kind != None {
			return e
		}
		<-s.kick
	}
}
