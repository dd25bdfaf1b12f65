// Package timer provides the heartbeat-driven software timer pool.
package timer

import "sync"

// TickHz is the heartbeat rate. One tick is 1.6ms.
const TickHz = 625

// NumTimers is the pool size.
const NumTimers = 8

// None is returned by Start when no timer slot is free.
const None = 0xFF

// MsToTicks converts milliseconds to heartbeat ticks, truncating.
func MsToTicks(ms uint32) uint16 {
	return uint16(ms * TickHz / 1000)
}

// Pool is a fixed set of countdown timers decremented once per tick.
// A slot is free when both its count and its reload period are zero.
type Pool struct {
	mu      sync.Mutex
	count   [NumTimers]uint16
	period  [NumTimers]uint16
	expired uint8
}

func NewPool() *Pool {
	return &Pool{}
}

// Start claims a free slot and arms it. Recurring timers reload their
// period on expiry; one-shot timers free their slot. Returns None when
// the pool is exhausted.
func (p *Pool) Start(ticks uint16, recurring bool) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < NumTimers; i++ {
		if p.count[i] == 0 && p.period[i] == 0 {
			p.count[i] = ticks
			if recurring {
				p.period[i] = ticks
			}
			return uint8(i)
		}
	}
	return None
}

// Restart rearms a specific slot regardless of its current state.
func (p *Pool) Restart(id uint8, ticks uint16, recurring bool) {
	if id >= NumTimers {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count[id] = ticks
	if recurring {
		p.period[id] = ticks
	} else {
		p.period[id] = 0
	}
	p.expired &^= 1 << id
}

// Stop frees a slot and clears its expiry flag.
func (p *Pool) Stop(id uint8) {
	if id >= NumTimers {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count[id] = 0
	p.period[id] = 0
	p.expired &^= 1 << id
}

// Reset reloads a recurring timer from its period.
func (p *Pool) Reset(id uint8) {
	if id >= NumTimers {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count[id] = p.period[id]
}

// Read returns the remaining tick count.
func (p *Pool) Read(id uint8) uint16 {
	if id >= NumTimers {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count[id]
}

// Expired reports whether a slot has expired since last asked. When
// clear is set the flag is consumed.
func (p *Pool) Expired(id uint8, clear bool) bool {
	if id >= NumTimers {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	bit := uint8(1) << id
	exp := p.expired&bit != 0
	if clear {
		p.expired &^= bit
	}
	return exp
}

// Status returns the expiry flag bitmap without consuming it.
func (p *Pool) Status() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expired
}

// TakeStatus returns and clears the expiry flag bitmap.
func (p *Pool) TakeStatus() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.expired
	p.expired = 0
	return s
}

// Update advances every armed timer by one tick.
func (p *Pool) Update() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < NumTimers; i++ {
		if p.count[i] == 0 {
			continue
		}
		p.count[i]--
		if p.count[i] == 0 {
			p.expired |= 1 << uint(i)
			p.count[i] = p.period[i]
		}
	}
}
