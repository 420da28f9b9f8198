package store

import (
	"context"
	"errors"

	"showerroom-status-backend/internal/model"
)

// ErrNotFound is returned when no section matches an id or a filter.
var ErrNotFound = errors.New("section not found")

// Store defines the persistence contract for sections. Filtered lookups
// report an empty result as ErrNotFound; FindAll never does.
type Store interface {
	Create(ctx context.Context, loc model.Location, total int) (model.Section, error)
	FindByID(ctx context.Context, id int64) (model.Section, error)
	FindByGender(ctx context.Context, gender string) ([]model.Section, error)
	FindByBuilding(ctx context.Context, gender, building string) ([]model.Section, error)
	FindByFloor(ctx context.Context, loc model.Location) ([]model.Section, error)
	FindAll(ctx context.Context) ([]model.Section, error)
	Update(ctx context.Context, id int64, currentStatus, nextStatus string) (model.Section, error)
	Delete(ctx context.Context, id int64) error
}
