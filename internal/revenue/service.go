package revenue

import (
	"context"
	"fmt"
	"time"

	"talentos.org/internal/ids"
)

// Store is the persistence contract for revenue entries.
type Store interface {
	CreateRevenueEntry(ctx context.Context, e *Entry) error
	ListRevenueEntries(ctx context.Context, filter Filter) ([]*Entry, error)
	SumRevenueSince(ctx context.Context, since time.Time) (float64, error)
	GroupRevenueSince(ctx context.Context, since time.Time) (byPlatform, byType []Bucket, err error)
}

// Service implements revenue operations.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires a revenue service over its store.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidInput)
	}
	return &Service{store: store, now: time.Now}, nil
}

// MonthStartUTC returns midnight on the first day of t's month in UTC.
func MonthStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Record validates and stores a revenue entry.
func (s *Service) Record(ctx context.Context, input Input, actorID string) (*Entry, error) {
	if input.TalentID == "" {
		return nil, fmt.Errorf("%w: talent_id is required", ErrInvalidInput)
	}
	if input.Platform == "" {
		return nil, fmt.Errorf("%w: platform is required", ErrInvalidInput)
	}
	if input.RevenueType == "" {
		return nil, fmt.Errorf("%w: revenue_type is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	e := &Entry{
		ID:          ids.New(),
		TalentID:    input.TalentID,
		PersonaID:   input.PersonaID,
		Platform:    input.Platform,
		RevenueType: input.RevenueType,
		Amount:      input.Amount,
		Currency:    currency,
		Period:      input.Period,
		RecordedAt:  s.now().UTC(),
		RecordedBy:  actorID,
	}
	if err := s.store.CreateRevenueEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns entries, optionally narrowed by talent, persona or platform.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	return s.store.ListRevenueEntries(ctx, filter)
}

// Summarize aggregates revenue recorded since the start of the current
// UTC month.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	since := MonthStartUTC(s.now())
	total, err := s.store.SumRevenueSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byPlatform, byType, err := s.store.GroupRevenueSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &Summary{
		ByPlatform: byPlatform,
		ByType:     byType,
		TotalMTD:   total,
		MonthStart: since,
	}, nil
}
