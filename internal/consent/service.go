package consent

import (
	"context"
	"fmt"
	"time"

	"talentos.org/internal/ids"
)

// Store is the persistence contract for consent records.
type Store interface {
	CreateConsent(ctx context.Context, c *Consent) error
	GetConsent(ctx context.Context, id string) (*Consent, error)
	ListConsents(ctx context.Context, filter Filter) ([]*Consent, error)
	RevokeConsent(ctx context.Context, c *Consent) error
}

// ContentFlagger flags every content record that references a consent.
// It reports how many records were flagged.
type ContentFlagger interface {
	FlagContentByConsent(ctx context.Context, consentID, reason string) (int, error)
}

// Service implements consent operations.
type Service struct {
	store   Store
	content ContentFlagger
	now     func() time.Time
}

// NewService wires a consent service over its store and content flagger.
func NewService(store Store, content ContentFlagger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidInput)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: nil content flagger", ErrInvalidInput)
	}
	return &Service{store: store, content: content, now: time.Now}, nil
}

// Create records a new consent grant in the active state.
func (s *Service) Create(ctx context.Context, input Input, actorID string) (*Consent, error) {
	if input.TalentID == "" {
		return nil, fmt.Errorf("%w: talent_id is required", ErrInvalidInput)
	}
	if input.Scope == "" {
		return nil, fmt.Errorf("%w: scope is required", ErrInvalidInput)
	}
	c := &Consent{
		ID:         ids.New(),
		TalentID:   input.TalentID,
		Scope:      input.Scope,
		Terms:      input.Terms,
		Status:     StatusActive,
		ExpiryDate: input.ExpiryDate,
		GrantedAt:  s.now().UTC(),
		CreatedBy:  actorID,
	}
	if err := s.store.CreateConsent(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns consents, optionally narrowed by talent or status.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Consent, error) {
	return s.store.ListConsents(ctx, filter)
}

// Get returns a consent by id.
func (s *Service) Get(ctx context.Context, id string) (*Consent, error) {
	return s.store.GetConsent(ctx, id)
}

// Revocation is the outcome of a revoke: the updated consent and the
// number of content records that were flagged because of it.
type Revocation struct {
	Consent        *Consent `json:"consent"`
	ContentFlagged int      `json:"content_flagged"`
}

// Revoke withdraws a consent and flags all content that depends on it.
// Revoking an already revoked consent is a no-op for the content side.
func (s *Service) Revoke(ctx context.Context, id, actorID string) (*Revocation, error) {
	c, err := s.store.GetConsent(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusRevoked {
		return &Revocation{Consent: c}, nil
	}
	now := s.now().UTC()
	c.Status = StatusRevoked
	c.RevokedAt = &now
	c.RevokedBy = actorID
	if err := s.store.RevokeConsent(ctx, c); err != nil {
		return nil, err
	}
	flagged, err := s.content.FlagContentByConsent(ctx, id, RevokedReason)
	if err != nil {
		return nil, err
	}
	return &Revocation{Consent: c, ContentFlagged: flagged}, nil
}
