package consent

import (
	"context"
	"sort"
	"sync"
)

// InMemory is a map-backed store for consents and content records, for
// tests and dev mode.
type InMemory struct {
	mu       sync.RWMutex
	consents map[string]*Consent
	content  map[string]*ContentRecord
}

// NewInMemory returns an empty in-memory consent store.
func NewInMemory() *InMemory {
	return &InMemory{
		consents: make(map[string]*Consent),
		content:  make(map[string]*ContentRecord),
	}
}

func (m *InMemory) CreateConsent(ctx context.Context, c *Consent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.consents[c.ID] = &cp
	return nil
}

func (m *InMemory) GetConsent(ctx context.Context, id string) (*Consent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.consents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *InMemory) ListConsents(ctx context.Context, filter Filter) ([]*Consent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Consent, 0, len(m.consents))
	for _, c := range m.consents {
		if filter.TalentID != "" && c.TalentID != filter.TalentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GrantedAt.Before(out[j].GrantedAt) })
	return out, nil
}

func (m *InMemory) RevokeConsent(ctx context.Context, c *Consent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.consents[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	m.consents[c.ID] = &cp
	return nil
}

// AddContent stores a content record. Used by seeds and tests.
func (m *InMemory) AddContent(ctx context.Context, rec *ContentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.ConsentIDs = append([]string(nil), rec.ConsentIDs...)
	m.content[rec.ID] = &cp
	return nil
}

// ContentByID returns a stored content record.
func (m *InMemory) ContentByID(ctx context.Context, id string) (*ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.content[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	cp.ConsentIDs = append([]string(nil), rec.ConsentIDs...)
	return &cp, nil
}

func (m *InMemory) FlagContentByConsent(ctx context.Context, consentID, reason string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flagged := 0
	for _, rec := range m.content {
		for _, id := range rec.ConsentIDs {
			if id == consentID {
				rec.Flagged = true
				rec.FlagReason = reason
				flagged++
				break
			}
		}
	}
	return flagged, nil
}
