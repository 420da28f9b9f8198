package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/usage"
)

// memoryStore implements Store with a map guarded by a single RWMutex.
// Writes hold the exclusive lock for the whole read-modify-write.
type memoryStore struct {
	mu       sync.RWMutex
	sections map[int64]model.Section
	nextID   int64
}

// NewMemoryStore creates an empty in-memory store. Ids start at 1 and are
// never reused, even after deletes.
func NewMemoryStore() Store {
	return &memoryStore{sections: make(map[int64]model.Section)}
}

func (s *memoryStore) Create(_ context.Context, loc model.Location, total int) (model.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	section := model.NewSection(loc, total)
	section.ID = s.nextID
	s.sections[section.ID] = section
	return section, nil
}

func (s *memoryStore) FindByID(_ context.Context, id int64) (model.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	section, ok := s.sections[id]
	if !ok {
		return model.Section{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return section, nil
}

func (s *memoryStore) FindByGender(_ context.Context, gender string) ([]model.Section, error) {
	sections := s.filter(func(sec model.Section) bool {
		return sec.Gender == gender
	})
	if len(sections) == 0 {
		return nil, fmt.Errorf("gender %q: %w", gender, ErrNotFound)
	}
	return sections, nil
}

func (s *memoryStore) FindByBuilding(_ context.Context, gender, building string) ([]model.Section, error) {
	sections := s.filter(func(sec model.Section) bool {
		return sec.Gender == gender && sec.Building == building
	})
	if len(sections) == 0 {
		return nil, fmt.Errorf("gender %q building %q: %w", gender, building, ErrNotFound)
	}
	return sections, nil
}

func (s *memoryStore) FindByFloor(_ context.Context, loc model.Location) ([]model.Section, error) {
	sections := s.filter(func(sec model.Section) bool {
		return sec.Location() == loc
	})
	if len(sections) == 0 {
		return nil, fmt.Errorf("gender %q building %q floor %d: %w", loc.Gender, loc.Building, loc.Floor, ErrNotFound)
	}
	return sections, nil
}

func (s *memoryStore) FindAll(_ context.Context) ([]model.Section, error) {
	sections := s.filter(func(model.Section) bool { return true })
	if sections == nil {
		sections = []model.Section{}
	}
	return sections, nil
}

func (s *memoryStore) Update(_ context.Context, id int64, currentStatus, nextStatus string) (model.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section, ok := s.sections[id]
	if !ok {
		return model.Section{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	next, err := usage.Switch(currentStatus, nextStatus, section.Usage())
	if err != nil {
		return model.Section{}, err
	}

	section = section.WithUsage(next)
	s.sections[id] = section
	return section, nil
}

func (s *memoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[id]; !ok {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	delete(s.sections, id)
	return nil
}

// filter returns matching sections ordered by id.
func (s *memoryStore) filter(keep func(model.Section) bool) []model.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Section
	for _, sec := range s.sections {
		if keep(sec) {
			out = append(out, sec)
		}
	}
	slices.SortFunc(out, func(a, b model.Section) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
