package talent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"talentos.org/internal/fieldcrypt"
	"talentos.org/internal/ids"
)

// Store describes talent persistence.
type Store interface {
	CreateTalent(ctx context.Context, t *Talent) error
	GetTalent(ctx context.Context, id string) (*Talent, error)
	ListTalents(ctx context.Context) ([]*Talent, error)
	UpdateTalent(ctx context.Context, t *Talent) error
	DeleteTalent(ctx context.Context, id string) error
	SetTalentReadiness(ctx context.Context, id string, score int, complete bool) error
}

// OnboardingStore describes onboarding-record persistence.
type OnboardingStore interface {
	CreateOnboarding(ctx context.Context, o *Onboarding) error
	OnboardingByTalent(ctx context.Context, talentID string) (*Onboarding, error)
	UpdateOnboarding(ctx context.Context, o *Onboarding) error
	DeleteOnboardingByTalent(ctx context.Context, talentID string) error
}

// PersonaPurger removes persona rows owned by a talent, so delete can
// cascade without this package owning the persona store.
type PersonaPurger interface {
	DeletePersonasByTalent(ctx context.Context, talentID string) error
}

// Service implements talent CRUD and the onboarding checklist. All PII
// passes through the field cipher on the way in and, on the single
// detail read, on the way out.
type Service struct {
	store      Store
	onboarding OnboardingStore
	personas   PersonaPurger
	cipher     *fieldcrypt.Cipher
	now        func() time.Time
}

// NewService constructs Service.
func NewService(store Store, onboarding OnboardingStore, personas PersonaPurger, cipher *fieldcrypt.Cipher) (*Service, error) {
	if store == nil || onboarding == nil || personas == nil {
		return nil, errors.New("talent: store, onboarding store, and persona purger are required")
	}
	if cipher == nil {
		return nil, errors.New("talent: field cipher is required")
	}
	return &Service{store: store, onboarding: onboarding, personas: personas, cipher: cipher, now: time.Now}, nil
}

// Create encrypts the PII fields, persists the talent, and stamps out its
// onboarding record. The two inserts are separate store calls; a crash
// in between leaves a talent without an onboarding record, an accepted
// inconsistency window.
func (s *Service) Create(ctx context.Context, input Input, actorID string) (*Talent, error) {
	if strings.TrimSpace(input.LegalName) == "" {
		return nil, fmt.Errorf("%w: legal_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.DOB) == "" {
		return nil, fmt.Errorf("%w: dob is required", ErrInvalidInput)
	}
	status := strings.TrimSpace(input.VerificationStatus)
	if status == "" {
		status = "pending"
	}

	legalName, err := s.cipher.Encrypt(input.LegalName)
	if err != nil {
		return nil, err
	}
	dob, err := s.cipher.Encrypt(input.DOB)
	if err != nil {
		return nil, err
	}
	emergency, err := s.cipher.Encrypt(input.EmergencyContact)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	id := ids.New()
	t := &Talent{
		ID:                 id,
		DisplayID:          ids.Display("TL", id),
		LegalNameEnvelope:  legalName,
		DOBEnvelope:        dob,
		EmergencyEnvelope:  emergency,
		VerificationStatus: status,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
		CreatedBy:          actorID,
	}
	if err := s.store.CreateTalent(ctx, t); err != nil {
		return nil, err
	}

	onboarding := &Onboarding{
		ID:        ids.New(),
		TalentID:  id,
		Steps:     DefaultSteps(),
		StartedAt: now,
	}
	if err := s.onboarding.CreateOnboarding(ctx, onboarding); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all talents. Envelope fields never serialize, so list
// views carry no PII, encrypted or otherwise.
func (s *Service) List(ctx context.Context) ([]*Talent, error) {
	return s.store.ListTalents(ctx)
}

// Get is the single detail read that decrypts stored PII. A tampered or
// undecryptable envelope surfaces as the cipher's sentinel value, not as
// an error: one corrupted record must not break the page.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	t, err := s.store.GetTalent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Talent:           *t,
		LegalName:        s.cipher.Decrypt(t.LegalNameEnvelope),
		DOB:              s.cipher.Decrypt(t.DOBEnvelope),
		EmergencyContact: s.cipher.Decrypt(t.EmergencyEnvelope),
	}, nil
}

// Update re-encrypts the PII fields and rewrites the mutable columns.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Talent, error) {
	if strings.TrimSpace(input.LegalName) == "" {
		return nil, fmt.Errorf("%w: legal_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.DOB) == "" {
		return nil, fmt.Errorf("%w: dob is required", ErrInvalidInput)
	}
	t, err := s.store.GetTalent(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.LegalNameEnvelope, err = s.cipher.Encrypt(input.LegalName); err != nil {
		return nil, err
	}
	if t.DOBEnvelope, err = s.cipher.Encrypt(input.DOB); err != nil {
		return nil, err
	}
	if t.EmergencyEnvelope, err = s.cipher.Encrypt(input.EmergencyContact); err != nil {
		return nil, err
	}
	if status := strings.TrimSpace(input.VerificationStatus); status != "" {
		t.VerificationStatus = status
	}
	t.Notes = input.Notes
	t.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateTalent(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the talent and cascades to its personas and onboarding
// record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTalent(ctx, id); err != nil {
		return err
	}
	if err := s.personas.DeletePersonasByTalent(ctx, id); err != nil {
		return err
	}
	return s.onboarding.DeleteOnboardingByTalent(ctx, id)
}

// Onboarding returns the checklist record for a talent.
func (s *Service) Onboarding(ctx context.Context, talentID string) (*Onboarding, error) {
	return s.onboarding.OnboardingByTalent(ctx, talentID)
}

// CompleteStep marks one checklist step done, recomputes overall
// progress, and propagates readiness onto the owning talent. The record
// and talent flip to complete exactly on the step that completes the
// set.
func (s *Service) CompleteStep(ctx context.Context, talentID, stepID, notes, actorID string) (*Onboarding, error) {
	record, err := s.onboarding.OnboardingByTalent(ctx, talentID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	found := false
	completed := 0
	for i := range record.Steps {
		step := &record.Steps[i]
		if step.StepID == stepID {
			found = true
			step.Completed = true
			step.CompletedAt = &now
			step.CompletedBy = actorID
			if notes != "" {
				step.Notes = notes
			}
		}
		if step.Completed {
			completed++
		}
	}
	if !found {
		return nil, ErrStepNotFound
	}

	record.OverallProgress = progress(completed, len(record.Steps))
	if record.OverallProgress == 100 {
		record.CompletedAt = &now
	} else {
		record.CompletedAt = nil
	}

	if err := s.onboarding.UpdateOnboarding(ctx, record); err != nil {
		return nil, err
	}
	if err := s.store.SetTalentReadiness(ctx, talentID, record.OverallProgress, record.OverallProgress == 100); err != nil {
		return nil, err
	}
	return record, nil
}

func progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
