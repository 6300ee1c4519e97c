package persona

import (
	"context"
	"fmt"
	"time"

	"talentos.org/internal/ids"
)

// Store is the persistence contract for personas.
type Store interface {
	CreatePersona(ctx context.Context, p *Persona) error
	GetPersona(ctx context.Context, id string) (*Persona, error)
	ListPersonas(ctx context.Context, filter Filter) ([]*Persona, error)
	UpdatePersona(ctx context.Context, p *Persona) error
	DeletePersonasByTalent(ctx context.Context, talentID string) error
}

// TalentDirectory is the slice of the talent store personas need: an
// existence check for referential integrity and the per-talent counter.
type TalentDirectory interface {
	TalentExists(ctx context.Context, talentID string) (bool, error)
	AdjustPersonaCount(ctx context.Context, talentID string, delta int) error
}

// Service implements persona operations.
type Service struct {
	store   Store
	talents TalentDirectory
	now     func() time.Time
}

// NewService wires a persona service over its store and talent directory.
func NewService(store Store, talents TalentDirectory) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidInput)
	}
	if talents == nil {
		return nil, fmt.Errorf("%w: nil talent directory", ErrInvalidInput)
	}
	return &Service{store: store, talents: talents, now: time.Now}, nil
}

// Create validates the payload, verifies the talent reference and bumps
// the talent's persona counter.
func (s *Service) Create(ctx context.Context, input Input, actorID string) (*Persona, error) {
	if input.TalentID == "" {
		return nil, fmt.Errorf("%w: talent_id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.RiskScore != nil && (*input.RiskScore < 0 || *input.RiskScore > 100) {
		return nil, fmt.Errorf("%w: risk_score must be between 0 and 100", ErrInvalidInput)
	}

	exists, err := s.talents.TalentExists(ctx, input.TalentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTalentNotFound, input.TalentID)
	}

	now := s.now().UTC()
	p := &Persona{
		ID:            ids.New(),
		TalentID:      input.TalentID,
		Name:          input.Name,
		Backstory:     input.Backstory,
		Platforms:     normalize(input.Platforms),
		ContentThemes: normalize(input.ContentThemes),
		BoundaryTags:  normalize(input.BoundaryTags),
		Active:        true,
		CreatedBy:     actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.RiskScore != nil {
		p.RiskScore = *input.RiskScore
	}
	if input.Active != nil {
		p.Active = *input.Active
	}
	if err := s.store.CreatePersona(ctx, p); err != nil {
		return nil, err
	}
	if err := s.talents.AdjustPersonaCount(ctx, p.TalentID, 1); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns personas, optionally narrowed to one talent.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Persona, error) {
	return s.store.ListPersonas(ctx, filter)
}

// Get returns a persona by id.
func (s *Service) Get(ctx context.Context, id string) (*Persona, error) {
	return s.store.GetPersona(ctx, id)
}

// Update applies the mutable fields of input to an existing persona.
// Zero-valued list fields leave the stored lists untouched.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Persona, error) {
	if input.RiskScore != nil && (*input.RiskScore < 0 || *input.RiskScore > 100) {
		return nil, fmt.Errorf("%w: risk_score must be between 0 and 100", ErrInvalidInput)
	}
	p, err := s.store.GetPersona(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Backstory != "" {
		p.Backstory = input.Backstory
	}
	if input.Platforms != nil {
		p.Platforms = normalize(input.Platforms)
	}
	if input.ContentThemes != nil {
		p.ContentThemes = normalize(input.ContentThemes)
	}
	if input.BoundaryTags != nil {
		p.BoundaryTags = normalize(input.BoundaryTags)
	}
	if input.RiskScore != nil {
		p.RiskScore = *input.RiskScore
	}
	if input.Active != nil {
		p.Active = *input.Active
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePersona(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func normalize(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
