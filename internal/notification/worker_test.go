package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSections returns a store with one section at female/C/2.
func newSections(t *testing.T, occupyAll bool) store.Store {
	s := store.NewMemoryStore()
	section, err := s.Create(context.Background(), model.Location{Gender: "female", Building: "C", Floor: 2}, 2)
	require.NoError(t, err)
	if occupyAll {
		for i := 0; i < 2; i++ {
			_, err := s.Update(context.Background(), section.ID, "available", "occupied")
			require.NoError(t, err)
		}
	}
	return s
}

const subscriptionsQuery = `SELECT .* FROM "push_subscriptions".*JOIN push_topics pt.*WHERE pt\.gender = \$1 AND pt\.building = \$2 AND pt\.floor = \$3`

func okResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusCreated,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, store.NewMemoryStore(), &webpush.Options{})

	// Dispatch a job
	require.NoError(t, wp.Dispatch(context.Background(), "male/A/1"))

	// Check if the job is in the channel
	select {
	case job := <-wp.jobs:
		assert.Equal(t, "male/A/1", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchHonoursContext(t *testing.T) {
	wp := NewWorkerPool(1, nil, store.NewMemoryStore(), &webpush.Options{})
	require.NoError(t, wp.Dispatch(context.Background(), "male/A/1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wp.Dispatch(ctx, "male/A/2"), context.Canceled)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, newSections(t, false), &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)

	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
			assert.Equal(t, "C 2F (female): 2 shower rooms available", string(payload))
			wg.Done()
			return okResponse(), nil
		},
	}

	mock.ExpectQuery(subscriptionsQuery).
		WithArgs("female", "C", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

	require.NoError(t, wp.Dispatch(ctx, "female/C/2"))
	wg.Wait()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerPool_BasementFloorLabel(t *testing.T) {
	gormDB, mock := newTestDB(t)
	sections := store.NewMemoryStore()
	_, err := sections.Create(context.Background(), model.Location{Gender: "male", Building: "A", Floor: -1}, 1)
	require.NoError(t, err)

	wp := NewWorkerPool(1, gormDB, sections, &webpush.Options{})
	payloads := make(chan string, 1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			payloads <- string(payload)
			return okResponse(), nil
		},
	}

	mock.ExpectQuery(subscriptionsQuery).
		WithArgs("male", "A", int64(-1)).
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)
	require.NoError(t, wp.Dispatch(ctx, "male/A/B1"))

	select {
	case payload := <-payloads:
		assert.Equal(t, "A B1 (male): 1 shower rooms available", payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the notification")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, newSections(t, false), &webpush.Options{})

	sent := 0
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			sent++
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	endpoint := "https://example.com/expired"
	mock.ExpectQuery(subscriptionsQuery).
		WithArgs("female", "C", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow(endpoint, "test_p256dh_expired", "test_auth_expired", time.Now()))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "push_topics" WHERE endpoint = \$1`).
		WithArgs(endpoint).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
		WithArgs(endpoint).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	wp.sendNotificationsForTopic(context.Background(), "female/C/2")

	assert.Equal(t, 1, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerPool_SkipsWithoutAvailableRooms(t *testing.T) {
	testCases := []struct {
		name     string
		sections store.Store
		topic    string
	}{
		{"all rooms occupied", newSections(t, true), "female/C/2"},
		{"location has no sections", newSections(t, false), "male/A/1"},
		{"malformed topic", newSections(t, false), "not-a-topic"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			wp := NewWorkerPool(1, gormDB, tc.sections, &webpush.Options{})
			wp.sender = &mockSender{
				SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
					t.Errorf("unexpected notification to %s", sub.Endpoint)
					return okResponse(), nil
				},
			}

			wp.sendNotificationsForTopic(context.Background(), tc.topic)

			// No SQL may run either.
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
