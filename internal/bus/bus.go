// Package bus provides the unbounded message queue linking a worker to
// the scheduler. There is at most one producing worker at any instant
// and exactly one consuming scheduler; delivery preserves send order.
package bus

import (
	"sync"

	"github.com/hjmartin/autobidder/internal/model"
)

// Queue is an unbounded FIFO of engine messages backed by a growable
// ring. Send never blocks; the scheduler drains with TryReceive on its
// tick so the consumer never blocks either.
type Queue struct {
	mu     sync.Mutex
	buf    []model.Message
	head   int
	tail   int
	count  int
	closed bool

	totalSent     int64
	totalReceived int64
}

// New creates a queue with a small initial capacity.
func New() *Queue {
	return NewWithCapacity(64)
}

// NewWithCapacity creates a queue with the given initial capacity.
func NewWithCapacity(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{buf: make([]model.Message, capacity)}
}

// Send appends a message. Returns false if the queue has been closed.
func (q *Queue) Send(m model.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = m
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
	q.totalSent++
	return true
}

// TryReceive removes the oldest message without blocking. The second
// return is false when the queue is empty.
func (q *Queue) TryReceive() (model.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil, false
	}
	m := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	q.totalReceived++
	return m, true
}

// Close marks the queue closed. Pending messages remain receivable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// grow doubles the ring. Caller holds the lock.
func (q *Queue) grow() {
	next := make([]model.Message, len(q.buf)*2)
	if q.head < q.tail {
		copy(next, q.buf[q.head:q.tail])
	} else {
		n := copy(next, q.buf[q.head:])
		copy(next[n:], q.buf[:q.tail])
	}
	q.buf = next
	q.head = 0
	q.tail = q.count
}
