package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvWithin(t *testing.T, sub *Subscription, d time.Duration) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	msg, err := sub.Recv(ctx)
	require.NoError(t, err)
	return msg
}

func TestHub_SubscribeAssignsIncreasingIDs(t *testing.T) {
	hub := NewHub()

	a := hub.Subscribe(context.Background())
	b := hub.Subscribe(context.Background())

	assert.Equal(t, uint64(1), a.ID())
	assert.Equal(t, uint64(2), b.ID())
	assert.Equal(t, 2, hub.Len())
}

func TestHub_NotifyReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe(context.Background())
	b := hub.Subscribe(context.Background())

	hub.Notify("x")

	assert.Equal(t, "x", recvWithin(t, a, time.Second))
	assert.Equal(t, "x", recvWithin(t, b, time.Second))
	assert.Zero(t, a.Pending(), "each message is delivered exactly once")
	assert.Zero(t, b.Pending())
}

func TestHub_PerSubscriberOrder(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(context.Background())

	for i := 0; i < 100; i++ {
		hub.Notify(fmt.Sprintf("m%d", i))
	}

	for i := 0; i < 100; i++ {
		assert.Equal(t, fmt.Sprintf("m%d", i), recvWithin(t, sub, time.Second))
	}
}

func TestHub_OnlyMessagesAfterSubscribe(t *testing.T) {
	hub := NewHub()
	hub.Notify("before")

	sub := hub.Subscribe(context.Background())
	hub.Notify("after")

	assert.Equal(t, "after", recvWithin(t, sub, time.Second))
	assert.Zero(t, sub.Pending())
}

func TestHub_NotifyWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() { hub.Notify("nobody listens") })
}

func TestHub_PrunesClosedSubscriber(t *testing.T) {
	hub := NewHub()
	dead := hub.Subscribe(context.Background())
	live := hub.Subscribe(context.Background())

	dead.Close()
	assert.Equal(t, 2, hub.Len(), "closed subscribers are pruned lazily")

	assert.NotPanics(t, func() { hub.Notify("first") })
	assert.Equal(t, 1, hub.Len())

	hub.Notify("second")
	assert.Equal(t, "first", recvWithin(t, live, time.Second))
	assert.Equal(t, "second", recvWithin(t, live, time.Second))

	_, err := dead.Recv(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestHub_ContextCancelClosesSubscription(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	sub := hub.Subscribe(ctx)

	cancel()

	assert.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()
		_, err := sub.Recv(ctx)
		return errors.Is(err, ErrSubscriptionClosed)
	}, time.Second, 10*time.Millisecond)

	hub.Notify("gone")
	assert.Zero(t, hub.Len())
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(context.Background())

	hub.Unsubscribe(sub.ID())
	hub.Unsubscribe(sub.ID())
	hub.Unsubscribe(12345)

	assert.Zero(t, hub.Len())
	_, err := sub.Recv(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestSubscription_CloseDetachesContextHook(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := hub.Subscribe(ctx)

	sub.mu.Lock()
	stop := sub.stop
	sub.mu.Unlock()
	require.NotNil(t, stop)

	hub.Unsubscribe(sub.ID())

	// The hook was already detached, so stopping it again reports false.
	assert.False(t, stop())

	// Subscriptions without a cancellable context install no hook.
	plain := hub.Subscribe(context.Background())
	assert.Nil(t, plain.stop)
}

func TestSubscription_RecvHonoursContext(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sub.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscription_RecvWakesOnNotify(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(context.Background())

	got := make(chan string, 1)
	go func() {
		msg, err := sub.Recv(context.Background())
		if err == nil {
			got <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	hub.Notify("wake")

	select {
	case msg := <-got:
		assert.Equal(t, "wake", msg)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestSubscription_CloseUnblocksRecv(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(context.Background())

	errs := make(chan error, 1)
	go func() {
		_, err := sub.Recv(context.Background())
		errs <- err
	}()

	time.Sleep(10 * time.Millisecond)
	sub.Close()
	sub.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrSubscriptionClosed)
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after Close")
	}
}

func TestHub_StalledSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	stalled := hub.Subscribe(context.Background())
	live := hub.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			hub.Notify("tick")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Notify blocked on a stalled subscriber")
	}

	assert.Equal(t, 10000, stalled.Pending())
	assert.Equal(t, 10000, live.Pending())
}

func TestHub_ConcurrentPublishersAndSubscribers(t *testing.T) {
	hub := NewHub()

	const publishers, perPublisher = 8, 50
	subs := make([]*Subscription, 4)
	for i := range subs {
		subs[i] = hub.Subscribe(context.Background())
	}

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				hub.Notify(fmt.Sprintf("%d/%d", p, i))
			}
		}(p)
	}

	// Subscribers joining and leaving during publishing must not disturb
	// the long-lived ones.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := hub.Subscribe(context.Background())
			s.Close()
		}()
	}
	wg.Wait()

	for _, sub := range subs {
		require.Equal(t, publishers*perPublisher, sub.Pending())

		// Messages from one publisher stay in publish order.
		last := make(map[int]int)
		for i := 0; i < publishers*perPublisher; i++ {
			var p, n int
			_, err := fmt.Sscanf(recvWithin(t, sub, time.Second), "%d/%d", &p, &n)
			require.NoError(t, err)
			if prev, ok := last[p]; ok {
				assert.Greater(t, n, prev)
			}
			last[p] = n
		}
	}
}
