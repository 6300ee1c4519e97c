package talent

import (
	"context"
	"sync"
)

// InMemory implements Store and OnboardingStore with in-process
// concurrency safety. Used by tests and dev mode.
type InMemory struct {
	mu         sync.RWMutex
	talents    map[string]*Talent
	onboarding map[string]*Onboarding // keyed by talent id
}

var (
	_ Store           = (*InMemory)(nil)
	_ OnboardingStore = (*InMemory)(nil)
)

// NewInMemory creates an empty talent store.
func NewInMemory() *InMemory {
	return &InMemory{
		talents:    make(map[string]*Talent),
		onboarding: make(map[string]*Onboarding),
	}
}

func (s *InMemory) CreateTalent(ctx context.Context, t *Talent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.talents[t.ID] = &cp
	return nil
}

func (s *InMemory) GetTalent(ctx context.Context, id string) (*Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.talents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemory) ListTalents(ctx context.Context) ([]*Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Talent, 0, len(s.talents))
	for _, t := range s.talents {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) UpdateTalent(ctx context.Context, t *Talent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.talents[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	s.talents[t.ID] = &cp
	return nil
}

func (s *InMemory) DeleteTalent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.talents[id]; !ok {
		return ErrNotFound
	}
	delete(s.talents, id)
	return nil
}

func (s *InMemory) SetTalentReadiness(ctx context.Context, id string, score int, complete bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.talents[id]
	if !ok {
		return ErrNotFound
	}
	t.ReadinessScore = score
	t.OnboardingComplete = complete
	return nil
}

// TalentExists reports whether a talent record is present.
func (s *InMemory) TalentExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.talents[id]
	return ok, nil
}

// AdjustPersonaCount applies a delta to the denormalized persona count.
// Single-map mutation under the lock, the in-process analogue of an
// atomic single-document increment.
func (s *InMemory) AdjustPersonaCount(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.talents[id]
	if !ok {
		return ErrNotFound
	}
	t.PersonaCount += delta
	return nil
}

// CountTalents returns the number of talent records.
func (s *InMemory) CountTalents(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.talents), nil
}

// CountOnboardingInProgress counts talents that have not completed
// onboarding.
func (s *InMemory) CountOnboardingInProgress(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.talents {
		if !t.OnboardingComplete {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) CreateOnboarding(ctx context.Context, o *Onboarding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarding[o.TalentID] = copyOnboarding(o)
	return nil
}

func (s *InMemory) OnboardingByTalent(ctx context.Context, talentID string) (*Onboarding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.onboarding[talentID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOnboarding(o), nil
}

func (s *InMemory) UpdateOnboarding(ctx context.Context, o *Onboarding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.onboarding[o.TalentID]; !ok {
		return ErrNotFound
	}
	s.onboarding[o.TalentID] = copyOnboarding(o)
	return nil
}

func (s *InMemory) DeleteOnboardingByTalent(ctx context.Context, talentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.onboarding, talentID)
	return nil
}

func copyOnboarding(o *Onboarding) *Onboarding {
	cp := *o
	cp.Steps = make([]OnboardingStep, len(o.Steps))
	copy(cp.Steps, o.Steps)
	return &cp
}
