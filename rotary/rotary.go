// Package rotary decodes two quadrature encoders at 1x resolution,
// one count per B-channel edge.
package rotary

import (
	"sync"

	"nixieclock/hal"
)

// Side selects one of the two encoders.
type Side int

const (
	Left Side = iota
	Right
)

// Decoder accumulates signed position counts from edge callbacks. The
// callbacks run on the interrupt goroutines of the HAL, so state is
// kept behind a mutex with no work done inside it.
type Decoder struct {
	mu    sync.Mutex
	rel   [2]int8
	abs   [2]int8
	prevB [2]bool
	haveB [2]bool
}

func NewDecoder(left, right hal.Encoder) *Decoder {
	d := &Decoder{}
	left.Watch(func(e hal.EncoderEdge) { d.edge(Left, e) })
	right.Watch(func(e hal.EncoderEdge) { d.edge(Right, e) })
	return d
}

// edge applies one B transition. Direction falls out of the quadrature
// phase: channels equal at the edge means clockwise.
func (d *Decoder) edge(s Side, e hal.EncoderEdge) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.haveB[s] && d.prevB[s] == e.B {
		return
	}
	d.haveB[s] = true
	d.prevB[s] = e.B

	if e.B == e.A {
		d.rel[s]++
		d.abs[s]++
	} else {
		d.rel[s]--
		d.abs[s]--
	}
}

// Relative atomically swaps the signed counter with zero and returns
// the old value.
func (d *Decoder) Relative(s Side) int8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.rel[s]
	d.rel[s] = 0
	return v
}

// Absolute returns the running position without clearing it.
func (d *Decoder) Absolute(s Side) int8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.abs[s]
}
