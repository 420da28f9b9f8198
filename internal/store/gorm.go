package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/usage"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store. The sections table must
// already be migrated.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, loc model.Location, total int) (model.Section, error) {
	section := model.NewSection(loc, total)
	if err := s.db.WithContext(ctx).Create(&section).Error; err != nil {
		return model.Section{}, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

func (s *gormStore) FindByID(ctx context.Context, id int64) (model.Section, error) {
	return findByID(s.db.WithContext(ctx), id)
}

func (s *gormStore) FindByGender(ctx context.Context, gender string) ([]model.Section, error) {
	sections, err := s.find(ctx, "gender = ?", gender)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("gender %q: %w", gender, ErrNotFound)
	}
	return sections, nil
}

func (s *gormStore) FindByBuilding(ctx context.Context, gender, building string) ([]model.Section, error) {
	sections, err := s.find(ctx, "gender = ? AND building = ?", gender, building)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("gender %q building %q: %w", gender, building, ErrNotFound)
	}
	return sections, nil
}

func (s *gormStore) FindByFloor(ctx context.Context, loc model.Location) ([]model.Section, error) {
	sections, err := s.find(ctx, "gender = ? AND building = ? AND floor = ?", loc.Gender, loc.Building, loc.Floor)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("gender %q building %q floor %d: %w", loc.Gender, loc.Building, loc.Floor, ErrNotFound)
	}
	return sections, nil
}

func (s *gormStore) FindAll(ctx context.Context) ([]model.Section, error) {
	sections := []model.Section{}
	if err := s.db.WithContext(ctx).Order("id").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

// Update moves one room between counters with a single conditional UPDATE,
// so concurrent writers on the same row cannot lose updates or drive a
// counter below zero.
func (s *gormStore) Update(ctx context.Context, id int64, currentStatus, nextStatus string) (model.Section, error) {
	from, to, err := usage.Columns(currentStatus, nextStatus)
	if err != nil {
		return model.Section{}, err
	}

	var updated model.Section
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Section{}).
			Where("id = ? AND "+from+" > 0", id).
			Updates(map[string]any{
				from: gorm.Expr(from + " - 1"),
				to:   gorm.Expr(to + " + 1"),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update section %d: %w", id, res.Error)
		}

		current, err := findByID(tx, id)
		if err != nil {
			return err
		}

		if res.RowsAffected == 0 {
			// Nothing matched although the row exists: the source counter is
			// exhausted. Let the engine explain the rejection.
			if _, err := usage.Switch(currentStatus, nextStatus, current.Usage()); err != nil {
				return err
			}
			return fmt.Errorf("section %d was not updated", id)
		}

		updated = current
		return nil
	})
	if err != nil {
		return model.Section{}, err
	}
	return updated, nil
}

func (s *gormStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Section{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete section %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) find(ctx context.Context, query string, args ...any) ([]model.Section, error) {
	var sections []model.Section
	if err := s.db.WithContext(ctx).Where(query, args...).Order("id").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	return sections, nil
}

func findByID(db *gorm.DB, id int64) (model.Section, error) {
	var section model.Section
	err := db.First(&section, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Section{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Section{}, fmt.Errorf("failed to load section %d: %w", id, err)
	}
	return section, nil
}
