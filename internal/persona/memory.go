package persona

import (
	"context"
	"sort"
	"sync"
)

// InMemory is a map-backed persona store for tests and dev mode.
type InMemory struct {
	mu       sync.RWMutex
	personas map[string]*Persona
}

// NewInMemory returns an empty in-memory persona store.
func NewInMemory() *InMemory {
	return &InMemory{personas: make(map[string]*Persona)}
}

func (m *InMemory) CreatePersona(ctx context.Context, p *Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.personas[p.ID] = &cp
	return nil
}

func (m *InMemory) GetPersona(ctx context.Context, id string) (*Persona, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.personas[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *InMemory) ListPersonas(ctx context.Context, filter Filter) ([]*Persona, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Persona, 0, len(m.personas))
	for _, p := range m.personas {
		if filter.TalentID != "" && p.TalentID != filter.TalentID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *InMemory) UpdatePersona(ctx context.Context, p *Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.personas[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.personas[p.ID] = &cp
	return nil
}

func (m *InMemory) DeletePersonasByTalent(ctx context.Context, talentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.personas {
		if p.TalentID == talentID {
			delete(m.personas, id)
		}
	}
	return nil
}

// CountPersonas reports the total number of stored personas.
func (m *InMemory) CountPersonas(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.personas), nil
}

// CountPersonasByMinRisk reports personas with a risk score at or above min.
func (m *InMemory) CountPersonasByMinRisk(ctx context.Context, min int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, p := range m.personas {
		if p.RiskScore >= min {
			n++
		}
	}
	return n, nil
}

// ListPersonasByMinRisk returns personas with a risk score at or above min,
// highest risk first.
func (m *InMemory) ListPersonasByMinRisk(ctx context.Context, min int) ([]*Persona, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Persona, 0)
	for _, p := range m.personas {
		if p.RiskScore >= min {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RiskScore > out[j].RiskScore })
	return out, nil
}
