package occupancy

import (
	"context"
	"errors"
	"fmt"
	"log"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/parse"
	"showerroom-status-backend/internal/store"
)

// ErrInvalidTotal rejects a section with a negative room count.
var ErrInvalidTotal = errors.New("total must not be negative")

// Notifier publishes change messages to observers.
type Notifier interface {
	Notify(message string)
}

// Service applies section mutations through the store and announces every
// successful one with the section's topic.
type Service struct {
	store    store.Store
	notifier Notifier
}

// NewService creates an occupancy service. notifier may be nil.
func NewService(s store.Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier}
}

// Store returns the underlying store for read-only lookups.
func (s *Service) Store() store.Store {
	return s.store
}

// Create adds a section with every room available.
func (s *Service) Create(ctx context.Context, loc model.Location, total int) (model.Section, error) {
	if total < 0 {
		return model.Section{}, fmt.Errorf("%w, got %d", ErrInvalidTotal, total)
	}

	section, err := s.store.Create(ctx, loc, total)
	if err != nil {
		return model.Section{}, err
	}
	s.publish(section.Location())
	return section, nil
}

// UpdateUsage moves one room of section id from currentStatus to nextStatus.
func (s *Service) UpdateUsage(ctx context.Context, id int64, currentStatus, nextStatus string) (model.Section, error) {
	section, err := s.store.Update(ctx, id, currentStatus, nextStatus)
	if err != nil {
		return model.Section{}, err
	}
	s.publish(section.Location())
	return section, nil
}

// UpdateUsageAt updates the lowest-id section at loc.
func (s *Service) UpdateUsageAt(ctx context.Context, loc model.Location, currentStatus, nextStatus string) (model.Section, error) {
	sections, err := s.store.FindByFloor(ctx, loc)
	if err != nil {
		return model.Section{}, err
	}
	return s.UpdateUsage(ctx, sections[0].ID, currentStatus, nextStatus)
}

// Delete removes section id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	section, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(section.Location())
	return nil
}

func (s *Service) publish(loc model.Location) {
	if s.notifier == nil {
		return
	}
	topic := parse.FormatTopic(loc)
	log.Printf("Section changed at %s", topic)
	s.notifier.Notify(topic)
}
