// Package stream broadcasts the engine's message stream to websocket
// observers. The presentation layer is a pure observer: it never feeds
// anything back into the scheduler.
package stream

import (
	"sync"

	"github.com/hjmartin/autobidder/internal/model"
)

// Subscription is one observer's buffered message feed.
type Subscription struct {
	ch chan model.Message
}

// C returns the receive side of the feed. It is closed on Unsubscribe.
func (s *Subscription) C() <-chan model.Message { return s.ch }

// Hub fans engine messages out to any number of subscribers. Publish
// never blocks; a subscriber that falls behind loses messages rather
// than stalling the scheduler.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers an observer with the given buffer size.
func (h *Hub) Subscribe(buffer int) *Subscription {
	sub := &Subscription{ch: make(chan model.Message, buffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes an observer and closes its feed.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	close(sub.ch)
}

// Publish delivers a message to every subscriber without blocking.
func (h *Hub) Publish(m model.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- m:
		default:
		}
	}
}
