// Package ops covers the day-to-day operational records: safety
// incidents, wellbeing check-ins and work tasks.
package ops

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record id does not resolve.
	ErrNotFound = errors.New("ops: not found")
	// ErrInvalidInput is returned for malformed payloads.
	ErrInvalidInput = errors.New("ops: invalid input")
)

// Incident severities, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident states.
const (
	IncidentOpen     = "open"
	IncidentResolved = "resolved"
)

// Task states.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskBlocked    = "blocked"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Incident is a reported safety or policy event.
type Incident struct {
	ID          string     `json:"id"`
	TalentID    string     `json:"talent_id,omitempty"`
	PersonaID   string     `json:"persona_id,omitempty"`
	Severity    string     `json:"severity"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ReportedBy  string     `json:"reported_by"`
	ReportedAt  time.Time  `json:"reported_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
}

// IncidentInput carries the fields of a new incident report.
type IncidentInput struct {
	TalentID    string `json:"talent_id"`
	PersonaID   string `json:"persona_id"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// WellbeingEntry is one check-in on a talent's state.
type WellbeingEntry struct {
	ID          string    `json:"id"`
	TalentID    string    `json:"talent_id"`
	MoodScore   int       `json:"mood_score"`
	StressScore int       `json:"stress_score"`
	Notes       string    `json:"notes,omitempty"`
	RecordedBy  string    `json:"recorded_by"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// WellbeingInput carries the fields of a new wellbeing check-in.
type WellbeingInput struct {
	TalentID    string `json:"talent_id"`
	MoodScore   int    `json:"mood_score"`
	StressScore int    `json:"stress_score"`
	Notes       string `json:"notes"`
}

// Task is a unit of back-office work, optionally tied to a talent.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TalentID    string     `json:"talent_id,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedBy   string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskInput carries the fields of a new task. Deadline is RFC 3339.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TalentID    string `json:"talent_id"`
	AssignedTo  string `json:"assigned_to"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

// IncidentFilter narrows an incident listing.
type IncidentFilter struct {
	TalentID string
	Status   string
	Severity string
}

// TaskFilter narrows a task listing.
type TaskFilter struct {
	TalentID   string
	AssignedTo string
	Status     string
}

func validSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func validTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskBlocked:
		return true
	}
	return false
}

func validPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
