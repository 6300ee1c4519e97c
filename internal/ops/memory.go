package ops

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemory is a map-backed store for incidents, wellbeing entries and
// tasks, for tests and dev mode.
type InMemory struct {
	mu        sync.RWMutex
	incidents map[string]*Incident
	wellbeing map[string][]*WellbeingEntry
	tasks     map[string]*Task
}

// NewInMemory returns an empty in-memory ops store.
func NewInMemory() *InMemory {
	return &InMemory{
		incidents: make(map[string]*Incident),
		wellbeing: make(map[string][]*WellbeingEntry),
		tasks:     make(map[string]*Task),
	}
}

func (m *InMemory) CreateIncident(ctx context.Context, inc *Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inc
	m.incidents[inc.ID] = &cp
	return nil
}

func (m *InMemory) GetIncident(ctx context.Context, id string) (*Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inc, ok := m.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inc
	return &cp, nil
}

func (m *InMemory) ListIncidents(ctx context.Context, filter IncidentFilter) ([]*Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Incident, 0, len(m.incidents))
	for _, inc := range m.incidents {
		if filter.TalentID != "" && inc.TalentID != filter.TalentID {
			continue
		}
		if filter.Status != "" && inc.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && inc.Severity != filter.Severity {
			continue
		}
		cp := *inc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedAt.After(out[j].ReportedAt) })
	return out, nil
}

func (m *InMemory) ResolveIncident(ctx context.Context, inc *Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.incidents[inc.ID]; !ok {
		return ErrNotFound
	}
	cp := *inc
	m.incidents[inc.ID] = &cp
	return nil
}

// CountActiveIncidents reports incidents still in the open state.
func (m *InMemory) CountActiveIncidents(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, inc := range m.incidents {
		if inc.Status == IncidentOpen {
			n++
		}
	}
	return n, nil
}

// ListOpenIncidentsByMinSeverity returns open incidents at or above the
// given severity, newest first.
func (m *InMemory) ListOpenIncidentsByMinSeverity(ctx context.Context, min string) ([]*Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rank := severityRank(min)
	out := make([]*Incident, 0)
	for _, inc := range m.incidents {
		if inc.Status != IncidentOpen {
			continue
		}
		if severityRank(inc.Severity) < rank {
			continue
		}
		cp := *inc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedAt.After(out[j].ReportedAt) })
	return out, nil
}

func severityRank(s string) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

func (m *InMemory) CreateWellbeingEntry(ctx context.Context, e *WellbeingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.wellbeing[e.TalentID] = append(m.wellbeing[e.TalentID], &cp)
	return nil
}

func (m *InMemory) ListWellbeingByTalent(ctx context.Context, talentID string, limit int) ([]*WellbeingEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.wellbeing[talentID]
	out := make([]*WellbeingEntry, 0, len(entries))
	for _, e := range entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *InMemory) CreateTask(ctx context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *InMemory) GetTask(ctx context.Context, id string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *InMemory) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if filter.TalentID != "" && t.TalentID != filter.TalentID {
			continue
		}
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *InMemory) SetTaskStatus(ctx context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

// CountPendingTasks reports tasks still in the pending state.
func (m *InMemory) CountPendingTasks(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.tasks {
		if t.Status == TaskPending {
			n++
		}
	}
	return n, nil
}

// ListOverdueTasks returns unfinished tasks whose deadline has passed.
func (m *InMemory) ListOverdueTasks(ctx context.Context, now time.Time) ([]*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Task, 0)
	for _, t := range m.tasks {
		if t.Status == TaskCompleted || t.Deadline == nil {
			continue
		}
		if t.Deadline.Before(now) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	return out, nil
}
