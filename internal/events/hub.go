// Package events fans change notifications out to live observers.
//
// Every subscriber owns an unbounded FIFO queue, so a publisher never blocks
// on a slow reader and each reader gets its own copy of every message. A
// reader that never drains its queue grows memory without bound.
package events

import (
	"context"
	"sync"
)

// Hub is a registry of subscriber queues. The zero value is not usable;
// create one with NewHub.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*Subscription
	lastID      uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[uint64]*Subscription)}
}

// Subscribe registers a new subscriber that receives every message published
// after this call. When ctx ends the subscription closes itself and is
// dropped on the next Notify.
func (h *Hub) Subscribe(ctx context.Context) *Subscription {
	h.mu.Lock()
	h.lastID++
	sub := newSubscription(h.lastID)
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	if ctx != nil && ctx.Done() != nil {
		sub.watch(ctx)
	}
	return sub
}

// Notify appends message to every live subscriber's queue. Subscribers whose
// receiving end has been closed are removed instead; that is not reported.
func (h *Hub) Notify(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subscribers {
		if !sub.push(message) {
			delete(h.subscribers, id)
		}
	}
}

// Unsubscribe closes and removes the subscriber with the given id. Unknown
// ids are ignored.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		sub.Close()
	}
}

// Len returns the number of registered subscribers, including closed ones
// that have not been pruned yet.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
