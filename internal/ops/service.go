package ops

import (
	"context"
	"fmt"
	"time"

	"talentos.org/internal/ids"
)

// WellbeingHistoryLimit caps a per-talent wellbeing listing.
const WellbeingHistoryLimit = 50

// IncidentStore is the persistence contract for incidents.
type IncidentStore interface {
	CreateIncident(ctx context.Context, inc *Incident) error
	GetIncident(ctx context.Context, id string) (*Incident, error)
	ListIncidents(ctx context.Context, filter IncidentFilter) ([]*Incident, error)
	ResolveIncident(ctx context.Context, inc *Incident) error
}

// WellbeingStore is the persistence contract for wellbeing check-ins.
type WellbeingStore interface {
	CreateWellbeingEntry(ctx context.Context, e *WellbeingEntry) error
	ListWellbeingByTalent(ctx context.Context, talentID string, limit int) ([]*WellbeingEntry, error)
}

// TaskStore is the persistence contract for tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)
	SetTaskStatus(ctx context.Context, t *Task) error
}

// Service implements incident, wellbeing and task operations.
type Service struct {
	incidents IncidentStore
	wellbeing WellbeingStore
	tasks     TaskStore
	now       func() time.Time
}

// NewService wires an ops service over its stores.
func NewService(incidents IncidentStore, wellbeing WellbeingStore, tasks TaskStore) (*Service, error) {
	if incidents == nil || wellbeing == nil || tasks == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidInput)
	}
	return &Service{incidents: incidents, wellbeing: wellbeing, tasks: tasks, now: time.Now}, nil
}

// ReportIncident validates and stores a new open incident.
func (s *Service) ReportIncident(ctx context.Context, input IncidentInput, actorID string) (*Incident, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !validSeverity(input.Severity) {
		return nil, fmt.Errorf("%w: severity must be one of low, medium, high, critical", ErrInvalidInput)
	}
	inc := &Incident{
		ID:          ids.New(),
		TalentID:    input.TalentID,
		PersonaID:   input.PersonaID,
		Severity:    input.Severity,
		Category:    input.Category,
		Description: input.Description,
		Status:      IncidentOpen,
		ReportedBy:  actorID,
		ReportedAt:  s.now().UTC(),
	}
	if err := s.incidents.CreateIncident(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

// ListIncidents returns incidents matching the filter.
func (s *Service) ListIncidents(ctx context.Context, filter IncidentFilter) ([]*Incident, error) {
	return s.incidents.ListIncidents(ctx, filter)
}

// ResolveIncident closes an incident with a resolution note. Resolving
// an already resolved incident returns it unchanged.
func (s *Service) ResolveIncident(ctx context.Context, id, resolution, actorID string) (*Incident, error) {
	inc, err := s.incidents.GetIncident(ctx, id)
	if err != nil {
		return nil, err
	}
	if inc.Status == IncidentResolved {
		return inc, nil
	}
	now := s.now().UTC()
	inc.Status = IncidentResolved
	inc.ResolvedAt = &now
	inc.ResolvedBy = actorID
	inc.Resolution = resolution
	if err := s.incidents.ResolveIncident(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

// RecordWellbeing validates and stores a check-in. Scores run 1 to 10.
func (s *Service) RecordWellbeing(ctx context.Context, input WellbeingInput, actorID string) (*WellbeingEntry, error) {
	if input.TalentID == "" {
		return nil, fmt.Errorf("%w: talent_id is required", ErrInvalidInput)
	}
	if input.MoodScore < 1 || input.MoodScore > 10 {
		return nil, fmt.Errorf("%w: mood_score must be between 1 and 10", ErrInvalidInput)
	}
	if input.StressScore < 1 || input.StressScore > 10 {
		return nil, fmt.Errorf("%w: stress_score must be between 1 and 10", ErrInvalidInput)
	}
	e := &WellbeingEntry{
		ID:          ids.New(),
		TalentID:    input.TalentID,
		MoodScore:   input.MoodScore,
		StressScore: input.StressScore,
		Notes:       input.Notes,
		RecordedBy:  actorID,
		RecordedAt:  s.now().UTC(),
	}
	if err := s.wellbeing.CreateWellbeingEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// WellbeingHistory returns a talent's check-ins, newest first, capped
// at WellbeingHistoryLimit.
func (s *Service) WellbeingHistory(ctx context.Context, talentID string) ([]*WellbeingEntry, error) {
	if talentID == "" {
		return nil, fmt.Errorf("%w: talent_id is required", ErrInvalidInput)
	}
	return s.wellbeing.ListWellbeingByTalent(ctx, talentID, WellbeingHistoryLimit)
}

// CreateTask validates and stores a new pending task.
func (s *Service) CreateTask(ctx context.Context, input TaskInput, actorID string) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("%w: priority must be one of low, medium, high", ErrInvalidInput)
	}
	var deadline *time.Time
	if input.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, input.Deadline)
		if err != nil {
			return nil, fmt.Errorf("%w: deadline must be RFC 3339", ErrInvalidInput)
		}
		utc := parsed.UTC()
		deadline = &utc
	}
	t := &Task{
		ID:          ids.New(),
		Title:       input.Title,
		Description: input.Description,
		TalentID:    input.TalentID,
		AssignedTo:  input.AssignedTo,
		Priority:    priority,
		Status:      TaskPending,
		Deadline:    deadline,
		CreatedBy:   actorID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns tasks matching the filter.
func (s *Service) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	return s.tasks.ListTasks(ctx, filter)
}

// SetTaskStatus moves a task to a new state. Entering completed stamps
// completed_at; leaving it clears the stamp.
func (s *Service) SetTaskStatus(ctx context.Context, id, status string) (*Task, error) {
	if !validTaskStatus(status) {
		return nil, fmt.Errorf("%w: status must be one of pending, in_progress, completed, blocked", ErrInvalidInput)
	}
	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	if status == TaskCompleted {
		now := s.now().UTC()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	if err := s.tasks.SetTaskStatus(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
