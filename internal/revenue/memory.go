package revenue

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemory is a map-backed revenue store for tests and dev mode.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewInMemory returns an empty in-memory revenue store.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string]*Entry)}
}

func (m *InMemory) CreateRevenueEntry(ctx context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *InMemory) ListRevenueEntries(ctx context.Context, filter Filter) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if filter.TalentID != "" && e.TalentID != filter.TalentID {
			continue
		}
		if filter.PersonaID != "" && e.PersonaID != filter.PersonaID {
			continue
		}
		if filter.Platform != "" && e.Platform != filter.Platform {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (m *InMemory) SumRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0.0
	for _, e := range m.entries {
		if !e.RecordedAt.Before(since) {
			total += e.Amount
		}
	}
	return total, nil
}

func (m *InMemory) GroupRevenueSince(ctx context.Context, since time.Time) ([]Bucket, []Bucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	platforms := make(map[string]float64)
	types := make(map[string]float64)
	for _, e := range m.entries {
		if e.RecordedAt.Before(since) {
			continue
		}
		platforms[e.Platform] += e.Amount
		types[e.RevenueType] += e.Amount
	}
	byPlatform := make([]Bucket, 0, len(platforms))
	for platform, total := range platforms {
		byPlatform = append(byPlatform, Bucket{Platform: platform, Total: total})
	}
	byType := make([]Bucket, 0, len(types))
	for revenueType, total := range types {
		byType = append(byType, Bucket{RevenueType: revenueType, Total: total})
	}
	sort.Slice(byPlatform, func(i, j int) bool { return byPlatform[i].Platform < byPlatform[j].Platform })
	sort.Slice(byType, func(i, j int) bool { return byType[i].RevenueType < byType[j].RevenueType })
	return byPlatform, byType, nil
}
