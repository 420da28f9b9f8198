package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/parse"
	"showerroom-status-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending notifications. Each job
// is a topic naming the location that changed.
type WorkerPool struct {
	size     int
	jobs     chan string
	db       *gorm.DB
	sections store.Store
	webpush  *webpush.Options
	sender   NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, sections store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:     size,
		jobs:     make(chan string, size), // Buffered channel
		db:       db,
		sections: sections,
		webpush:  webpushOptions,
		sender:   &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case topic := <-wp.jobs:
			log.Printf("Worker %d processing %s", id, topic)
			wp.sendNotificationsForTopic(ctx, topic)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool. It blocks while every worker is
// busy and the buffer is full, and gives up when ctx ends.
func (wp *WorkerPool) Dispatch(ctx context.Context, topic string) error {
	select {
	case wp.jobs <- topic:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// sendNotificationsForTopic announces free rooms at the topic's location to
// every push subscription that follows it.
func (wp *WorkerPool) sendNotificationsForTopic(ctx context.Context, topic string) {
	loc, err := parse.ParseTopic(topic)
	if err != nil {
		log.Printf("Skipping malformed topic %q: %v", topic, err)
		return
	}

	sections, err := wp.sections.FindByFloor(ctx, loc)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Error fetching sections for %s: %v", topic, err)
		return
	}

	available := 0
	for _, s := range sections {
		available += s.Available
	}
	if available == 0 {
		return
	}

	var subscriptions []model.PushSubscription
	err = wp.db.WithContext(ctx).
		Joins("JOIN push_topics pt ON pt.endpoint = push_subscriptions.endpoint").
		Where("pt.gender = ? AND pt.building = ? AND pt.floor = ?", loc.Gender, loc.Building, loc.Floor).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for %s: %v", topic, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for %s", len(subscriptions), topic)

	message := fmt.Sprintf("%s %s (%s): %d shower rooms available", loc.Building, parse.FloorLabel(loc.Floor), loc.Gender, available)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := DeleteSubscription(wp.db.WithContext(ctx), sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

// DeleteSubscription removes a push subscription together with its topics.
func DeleteSubscription(db *gorm.DB, endpoint string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.PushTopic{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	})
}
