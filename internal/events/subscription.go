package events

import (
	"context"
	"errors"
	"sync"
)

// ErrSubscriptionClosed is returned by Recv once the subscription is closed.
var ErrSubscriptionClosed = errors.New("events: subscription closed")

// Subscription is the receiving end of one subscriber's queue.
type Subscription struct {
	id uint64

	mu     sync.Mutex
	queue  []string
	ready  chan struct{} // holds at most one wake-up token
	closed bool
	stop   func() bool // detaches the context hook, if any
}

func newSubscription(id uint64) *Subscription {
	return &Subscription{
		id:    id,
		ready: make(chan struct{}, 1),
	}
}

// ID returns the subscriber id assigned by the hub.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Recv returns the oldest queued message, waiting until one arrives, ctx
// ends, or the subscription is closed.
func (s *Subscription) Recv(ctx context.Context) (string, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return "", ErrSubscriptionClosed
		}
		if len(s.queue) > 0 {
			msg := s.queue[0]
			s.queue[0] = ""
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return msg, nil
		}
		s.mu.Unlock()

		select {
		case <-s.ready:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Pending returns the number of queued, unread messages.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close discards the receiving end and any unread messages. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.ready)
	if s.stop != nil {
		s.stop()
	}
}

// watch closes s when ctx ends. The hook is detached again on Close.
func (s *Subscription) watch(ctx context.Context) {
	stop := context.AfterFunc(ctx, s.Close)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		stop()
		return
	}
	s.stop = stop
}

// push enqueues msg and reports false if the subscription is closed.
func (s *Subscription) push(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.queue = append(s.queue, msg)

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return true
}
