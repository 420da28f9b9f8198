// Package seed loads the initial set of sections from a YAML file.
package seed

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"showerroom-status-backend/internal/model"
	"showerroom-status-backend/internal/store"
)

// Entry describes one section to create.
type Entry struct {
	Gender   string `yaml:"gender"`
	Building string `yaml:"building"`
	Floor    int    `yaml:"floor"`
	Total    int    `yaml:"total"`
}

type file struct {
	Sections []Entry `yaml:"sections"`
}

// Load reads and validates a seed file.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc file
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	for i, e := range doc.Sections {
		if e.Gender == "" || e.Building == "" {
			return nil, fmt.Errorf("seed entry %d: gender and building are required", i)
		}
		if e.Total < 0 {
			return nil, fmt.Errorf("seed entry %d: total must not be negative", i)
		}
	}
	return doc.Sections, nil
}

// Apply creates the entries in s unless s already holds sections. It
// returns the number of sections created.
func Apply(ctx context.Context, s store.Store, entries []Entry) (int, error) {
	existing, err := s.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("Store already holds %d sections; skipping seed", len(existing))
		return 0, nil
	}

	for _, e := range entries {
		loc := model.Location{Gender: e.Gender, Building: e.Building, Floor: e.Floor}
		if _, err := s.Create(ctx, loc, e.Total); err != nil {
			return 0, fmt.Errorf("failed to seed section %+v: %w", loc, err)
		}
	}
	return len(entries), nil
}
