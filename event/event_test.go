package event

import (
	"testing"
	"time"

	"nixieclock/button"
	"nixieclock/hal"
	"nixieclock/rotary"
	"nixieclock/timer"
)

func TestKindArithmetic(t *testing.T) {
	if ButtonKind(0, Pressed) != Button0Pressed {
		t.Fatal("button 0 pressed")
	}
	if ButtonKind(5, Long) != Button5Long {
		t.Fatal("button 5 long")
	}
	if ButtonKind(6, Short) != LeftButtonShort {
		t.Fatal("left button short")
	}
	if ButtonKind(7, Pressed) != RightButtonPressed {
		t.Fatal("right button pressed")
	}
	if !RightButtonPressed.IsPressed() || RightButtonPressed.IsReleased() {
		t.Fatal("phase predicates")
	}
	if got := Button3Short.Button(); got != 3 {
		t.Fatalf("Button() = %d, want 3", got)
	}
	if Chord.IsButton() {
		t.Fatal("chord classified as per-button kind")
	}
	if TimerExpired.IsButton() || !TimerExpired.IsTimer() {
		t.Fatal("timer kind predicates")
	}
}

func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewQueue()
	for i := 0; i < QueueSize+3; i++ {
		q.Add(TimerExpired, uint8(i))
	}
	e, ok := q.take()
	if !ok {
		t.Fatal("queue empty")
	}
	// Ring keeps QueueSize-1 entries; the oldest surviving payload
	// follows the discarded ones.
	want := uint8(QueueSize + 3 - (QueueSize - 1))
	if e.Data != want {
		t.Fatalf("oldest data = %d, want %d", e.Data, want)
	}
}

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	q.Add(OneSecondElapsed, 0)
	q.Add(TimerExpired, 4)
	if e, _ := q.take(); e.Kind != OneSecondElapsed {
		t.Fatalf("first = %v", e.Kind)
	}
	if e, _ := q.take(); e.Kind != TimerExpired || e.Data != 4 {
		t.Fatalf("second = %v/%d", e.Kind, e.Data)
	}
	if _, ok := q.take(); ok {
		t.Fatal("queue not drained")
	}
}

func newTestScanner() (*Scanner, *hal.SimButtons, *hal.SimEncoder, *hal.SimEncoder, *button.Scanner, *timer.Pool) {
	in := &hal.SimButtons{}
	le, re := &hal.SimEncoder{}, &hal.SimEncoder{}
	bs := button.NewScanner(in)
	rd := rotary.NewDecoder(le, re)
	tp := timer.NewPool()
	return NewScanner(NewQueue(), bs, rd, tp), in, le, re, bs, tp
}

func TestScanOrdering(t *testing.T) {
	s, in, le, re, bs, tp := newTestScanner()

	in.Press(hal.ButtonBit0)
	for i := uint16(0); i < button.ShortTicks; i++ {
		bs.Scan()
	}
	re.Turn(2)
	le.Turn(-1)
	id := tp.Start(1, false)
	tp.Update()

	got := []Event{}
	for {
		e := s.Next(0)
		if e.Kind == None {
			break
		}
		got = append(got, e)
	}

	want := []Kind{Button0Pressed, RightRotaryMoved, LeftRotaryMoved, TimerExpired}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Fatalf("event %d = %v, want %v", i, got[i].Kind, k)
		}
	}
	if got[1].Delta() != 2 || got[2].Delta() != -1 {
		t.Fatalf("rotary deltas = %d,%d", got[1].Delta(), got[2].Delta())
	}
	if got[3].Data != id {
		t.Fatalf("timer id = %d, want %d", got[3].Data, id)
	}
}

func TestChordEvent(t *testing.T) {
	s, in, _, _, bs, _ := newTestScanner()

	pattern := uint8(hal.ButtonBit0 | hal.ButtonBit5)
	in.Press(pattern)
	for i := uint16(0); i < button.ChordTicks+1; i++ {
		bs.Scan()
	}

	var chord *Event
	for {
		e := s.Next(0)
		if e.Kind == None {
			break
		}
		if e.Kind == Chord {
			ev := e
			chord = &ev
		}
	}
	if chord == nil {
		t.Fatal("no chord event")
	}
	if chord.Data != pattern {
		t.Fatalf("chord data = %#x, want %#x", chord.Data, pattern)
	}
}

func TestWaitParksUntilKick(t *testing.T) {
	s, in, _, _, bs, _ := newTestScanner()

	done := make(chan Event, 1)
	go func() {
		done <- s.Wait(0)
	}()

	select {
	case e := <-done:
		t.Fatalf("wait returned %v with no input", e.Kind)
	case <-time.After(20 * time.Millisecond):
	}

	in.Press(hal.ButtonBit2)
	for i := uint16(0); i < button.ShortTicks; i++ {
		bs.Scan()
	}
	s.Kick()

	select {
	case e := <-done:
		if e.Kind != Button2Pressed {
			t.Fatalf("wait returned %v", e.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not wake on kick")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	s, _, _, re, _, _ := newTestScanner()
	re.Turn(1)

	if e := s.Peek(); e.Kind != RightRotaryMoved {
		t.Fatalf("peek = %v", e.Kind)
	}
	if e := s.Next(0); e.Kind != RightRotaryMoved {
		t.Fatalf("next after peek = %v", e.Kind)
	}
	if e := s.Next(0); e.Kind != None {
		t.Fatalf("queue not empty: %v", e.Kind)
	}
}
