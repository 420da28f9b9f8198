package notification

import (
	"context"
	"errors"
	"log"

	"showerroom-status-backend/internal/events"
)

// Bridge forwards every hub message to the worker pool. It is an ordinary
// hub subscriber, so a slow push backend never delays other observers.
type Bridge struct {
	hub  *events.Hub
	pool *WorkerPool
}

// NewBridge creates a bridge between hub and pool.
func NewBridge(hub *events.Hub, pool *WorkerPool) *Bridge {
	return &Bridge{hub: hub, pool: pool}
}

// Run subscribes to the hub and dispatches messages until ctx ends.
func (b *Bridge) Run(ctx context.Context) {
	sub := b.hub.Subscribe(ctx)
	defer sub.Close()

	log.Printf("Push bridge subscribed as %d", sub.ID())
	for {
		topic, err := sub.Recv(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, events.ErrSubscriptionClosed) {
				log.Printf("Push bridge stopped: %v", err)
			}
			return
		}
		if err := b.pool.Dispatch(ctx, topic); err != nil {
			return
		}
	}
}
