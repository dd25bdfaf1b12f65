package event

import "sync"

// QueueSize is the ring capacity. One slot is kept empty to tell full
// from empty, so QueueSize-1 events can be pending.
const QueueSize = 16

// Queue is a fixed ring of events. When full, the oldest entry is
// discarded so fresh input always wins.
type Queue struct {
	mu   sync.Mutex
	buf  [QueueSize]Event
	head uint8
	tail uint8
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add enqueues one event.
func (q *Queue) Add(kind Kind, data uint8) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf[q.head] = Event{Kind: kind, Data: data}
	q.head++
	if q.head >= QueueSize {
		q.head = 0
	}
	if q.head == q.tail {
		q.tail++
		if q.tail >= QueueSize {
			q.tail = 0
		}
	}
}

// Clear discards everything pending.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.head = 0
	q.tail = 0
}

// take removes and returns the oldest event, if any.
func (q *Queue) take() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		return Event{}, false
	}
	e := q.buf[q.tail]
	q.tail++
	if q.tail >= QueueSize {
		q.tail = 0
	}
	return e, true
}

// peek returns the oldest event without removing it.
func (q *Queue) peek() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		return Event{}, false
	}
	return q.buf[q.tail], true
}

// empty reports whether nothing is pending.
func (q *Queue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head == q.tail
}
