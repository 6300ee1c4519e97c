// Package dashboard aggregates cross-resource counts and alerts for
// the back-office landing view.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"talentos.org/internal/ops"
	"talentos.org/internal/persona"
	"talentos.org/internal/revenue"
)

// Risk thresholds. Personas at or above StatsRiskThreshold count in the
// high-risk stat; those at or above AlertRiskThreshold also raise alerts.
const (
	StatsRiskThreshold = 70
	AlertRiskThreshold = 80
)

const descriptionPreviewLen = 50

// Stats is the headline counters block.
type Stats struct {
	TotalTalents          int     `json:"total_talents"`
	TotalPersonas         int     `json:"total_personas"`
	ActiveIncidents       int     `json:"active_incidents"`
	PendingTasks          int     `json:"pending_tasks"`
	TotalRevenueMTD       float64 `json:"total_revenue_mtd"`
	OnboardingInProgress  int     `json:"onboarding_in_progress"`
	HighRiskPersonas      int     `json:"high_risk_personas"`
}

// Alert is one row of the attention feed.
type Alert struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Link     string `json:"link"`
}

// TalentCounts exposes the talent-side counters the dashboard reads.
type TalentCounts interface {
	CountTalents(ctx context.Context) (int, error)
	CountOnboardingInProgress(ctx context.Context) (int, error)
}

// PersonaCounts exposes the persona-side counters and the high-risk listing.
type PersonaCounts interface {
	CountPersonas(ctx context.Context) (int, error)
	CountPersonasByMinRisk(ctx context.Context, min int) (int, error)
	ListPersonasByMinRisk(ctx context.Context, min int) ([]*persona.Persona, error)
}

// OpsCounts exposes the incident and task counters and listings.
type OpsCounts interface {
	CountActiveIncidents(ctx context.Context) (int, error)
	ListOpenIncidentsByMinSeverity(ctx context.Context, min string) ([]*ops.Incident, error)
	CountPendingTasks(ctx context.Context) (int, error)
	ListOverdueTasks(ctx context.Context, now time.Time) ([]*ops.Task, error)
}

// RevenueSums exposes the month-to-date revenue total.
type RevenueSums interface {
	SumRevenueSince(ctx context.Context, since time.Time) (float64, error)
}

// Service assembles the dashboard from the resource stores.
type Service struct {
	talents  TalentCounts
	personas PersonaCounts
	ops      OpsCounts
	revenue  RevenueSums
	now      func() time.Time
}

// NewService wires a dashboard over the four resource sources.
func NewService(talents TalentCounts, personas PersonaCounts, opsStore OpsCounts, revenueStore RevenueSums) *Service {
	return &Service{talents: talents, personas: personas, ops: opsStore, revenue: revenueStore, now: time.Now}
}

// Stats returns the headline counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	totalTalents, err := s.talents.CountTalents(ctx)
	if err != nil {
		return nil, err
	}
	onboarding, err := s.talents.CountOnboardingInProgress(ctx)
	if err != nil {
		return nil, err
	}
	totalPersonas, err := s.personas.CountPersonas(ctx)
	if err != nil {
		return nil, err
	}
	highRisk, err := s.personas.CountPersonasByMinRisk(ctx, StatsRiskThreshold)
	if err != nil {
		return nil, err
	}
	activeIncidents, err := s.ops.CountActiveIncidents(ctx)
	if err != nil {
		return nil, err
	}
	pendingTasks, err := s.ops.CountPendingTasks(ctx)
	if err != nil {
		return nil, err
	}
	totalMTD, err := s.revenue.SumRevenueSince(ctx, revenue.MonthStartUTC(s.now()))
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalTalents:         totalTalents,
		TotalPersonas:        totalPersonas,
		ActiveIncidents:      activeIncidents,
		PendingTasks:         pendingTasks,
		TotalRevenueMTD:      totalMTD,
		OnboardingInProgress: onboarding,
		HighRiskPersonas:     highRisk,
	}, nil
}

// Alerts returns the attention feed: open high and critical incidents,
// very high risk personas and overdue tasks.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	alerts := make([]Alert, 0)

	incidents, err := s.ops.ListOpenIncidentsByMinSeverity(ctx, ops.SeverityHigh)
	if err != nil {
		return nil, err
	}
	for _, inc := range incidents {
		alerts = append(alerts, Alert{
			Type:     "incident",
			Severity: inc.Severity,
			Message:  fmt.Sprintf("Open %s incident: %s", inc.Severity, preview(inc.Description)),
			Link:     "/api/incidents/" + inc.ID,
		})
	}

	personas, err := s.personas.ListPersonasByMinRisk(ctx, AlertRiskThreshold)
	if err != nil {
		return nil, err
	}
	for _, p := range personas {
		alerts = append(alerts, Alert{
			Type:     "persona_risk",
			Severity: "high",
			Message:  fmt.Sprintf("Persona %q has risk score %d", p.Name, p.RiskScore),
			Link:     "/api/personas/" + p.ID,
		})
	}

	overdue, err := s.ops.ListOverdueTasks(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	for _, t := range overdue {
		alerts = append(alerts, Alert{
			Type:     "task_overdue",
			Severity: "medium",
			Message:  fmt.Sprintf("Task %q is past its deadline", t.Title),
			Link:     "/api/tasks/" + t.ID,
		})
	}
	return alerts, nil
}

func preview(s string) string {
	if len(s) <= descriptionPreviewLen {
		return s
	}
	return s[:descriptionPreviewLen] + "..."
}
