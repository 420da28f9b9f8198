package model

import (
	"time"

	"showerroom-status-backend/internal/usage"
)

// Location identifies where a section is: gender, building and floor.
// Several sections may share a location.
type Location struct {
	Gender   string `json:"gender"`
	Building string `json:"building"`
	Floor    int    `json:"floor"`
}

// Section holds the room counters of one shower-room section.
type Section struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Gender        string    `gorm:"size:32;not null;index:idx_sections_location" json:"gender"`
	Building      string    `gorm:"size:128;not null;index:idx_sections_location" json:"building"`
	Floor         int       `gorm:"not null;index:idx_sections_location" json:"floor"`
	Total         int       `gorm:"not null;check:chk_sections_counters,available + occupied + disabled_rooms = total" json:"total"`
	Available     int       `gorm:"not null;check:available >= 0" json:"available"`
	Occupied      int       `gorm:"not null;check:occupied >= 0" json:"occupied"`
	DisabledRooms int       `gorm:"not null;check:disabled_rooms >= 0" json:"disabled_rooms"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// NewSection returns a section with every room available. The ID is left
// for the store to assign.
func NewSection(loc Location, total int) Section {
	return Section{
		Gender:    loc.Gender,
		Building:  loc.Building,
		Floor:     loc.Floor,
		Total:     total,
		Available: total,
	}
}

// Location returns the section's coordinates.
func (s Section) Location() Location {
	return Location{Gender: s.Gender, Building: s.Building, Floor: s.Floor}
}

// Usage returns the section's current counters.
func (s Section) Usage() usage.Usage {
	return usage.Usage{
		Available:     s.Available,
		Occupied:      s.Occupied,
		DisabledRooms: s.DisabledRooms,
	}
}

// WithUsage returns a copy of s carrying the counters of u.
func (s Section) WithUsage(u usage.Usage) Section {
	s.Available = u.Available
	s.Occupied = u.Occupied
	s.DisabledRooms = u.DisabledRooms
	return s
}
