package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/lukman83/autolot/internal/models"
)

// Memory keeps everything in process. Used by tests and `sync --dry-run`.
type Memory struct {
	mu       sync.RWMutex
	vehicles map[string]models.Vehicle
	events   []models.Event
}

func NewMemory() *Memory {
	return &Memory{vehicles: make(map[string]models.Vehicle)}
}

func (m *Memory) Migrate(ctx context.Context) error { return nil }
func (m *Memory) Close() error                      { return nil }

func (m *Memory) UpsertVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vehicles {
		v.Pictures = slices.Clone(v.Pictures)
		if v.Pictures == nil {
			v.Pictures = []string{}
		}
		m.vehicles[v.ID] = v
	}
	return nil
}

func (m *Memory) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		v.Pictures = slices.Clone(v.Pictures)
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) VehicleBySlug(ctx context.Context, slug string) (*models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *models.Vehicle
	for _, v := range m.vehicles {
		if v.Slug != slug {
			continue
		}
		if best == nil || v.SyncedAt.After(best.SyncedAt) ||
			(v.SyncedAt.Equal(best.SyncedAt) && v.ID < best.ID) {
			v := v
			v.Pictures = slices.Clone(v.Pictures)
			best = &v
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (m *Memory) InsertEvent(ctx context.Context, ev models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) AnalyticsReport(ctx context.Context, start, end time.Time) (*models.AnalyticsReport, error) {
	vehicles, err := m.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	r := foldReport(m.Events(), start, end)
	finishReport(&r, vehicles)
	return &r, nil
}

// Events returns a copy of recorded analytics events.
func (m *Memory) Events() []models.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events)
}
