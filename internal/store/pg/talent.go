package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"talentos.org/internal/talent"
)

const talentColumns = `id, display_id, legal_name_enc, dob_enc, emergency_contact_enc,
	verification_status, notes, onboarding_complete, readiness_score, persona_count,
	created_by, created_at, updated_at`

func (s *Store) CreateTalent(ctx context.Context, t *talent.Talent) error {
	_, err := s.db.ExecContext(ctx, `
		insert into talents (`+talentColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, t.ID, t.DisplayID, t.LegalNameEnvelope, t.DOBEnvelope, nullIfEmpty(t.EmergencyEnvelope),
		t.VerificationStatus, nullIfEmpty(t.Notes), t.OnboardingComplete, t.ReadinessScore,
		t.PersonaCount, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("%w: duplicate talent id", talent.ErrInvalidInput)
	}
	return err
}

func (s *Store) GetTalent(ctx context.Context, id string) (*talent.Talent, error) {
	return scanTalent(s.db.QueryRowContext(ctx, `
		select `+talentColumns+` from talents where id = $1
	`, id))
}

func (s *Store) ListTalents(ctx context.Context) ([]*talent.Talent, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+talentColumns+` from talents order by created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*talent.Talent, 0)
	for rows.Next() {
		t, err := scanTalentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTalent(ctx context.Context, t *talent.Talent) error {
	res, err := s.db.ExecContext(ctx, `
		update talents
		set legal_name_enc = $2, dob_enc = $3, emergency_contact_enc = $4,
			verification_status = $5, notes = $6, updated_at = $7
		where id = $1
	`, t.ID, t.LegalNameEnvelope, t.DOBEnvelope, nullIfEmpty(t.EmergencyEnvelope),
		t.VerificationStatus, nullIfEmpty(t.Notes), t.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, talent.ErrNotFound)
}

func (s *Store) DeleteTalent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from talents where id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, talent.ErrNotFound)
}

// SetTalentReadiness applies onboarding progress onto the talent row.
func (s *Store) SetTalentReadiness(ctx context.Context, id string, score int, complete bool) error {
	res, err := s.db.ExecContext(ctx, `
		update talents
		set readiness_score = $2, onboarding_complete = $3, updated_at = now()
		where id = $1
	`, id, score, complete)
	if err != nil {
		return err
	}
	return requireRow(res, talent.ErrNotFound)
}

func (s *Store) TalentExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `select 1 from talents where id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AdjustPersonaCount shifts the denormalized persona counter in one
// statement so concurrent persona writes never race a read-modify-write.
func (s *Store) AdjustPersonaCount(ctx context.Context, id string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
		update talents
		set persona_count = greatest(persona_count + $2, 0), updated_at = now()
		where id = $1
	`, id, delta)
	if err != nil {
		return err
	}
	return requireRow(res, talent.ErrNotFound)
}

func (s *Store) CountTalents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from talents`).Scan(&n)
	return n, err
}

func (s *Store) CountOnboardingInProgress(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from talents where not onboarding_complete
	`).Scan(&n)
	return n, err
}

func (s *Store) CreateOnboarding(ctx context.Context, o *talent.Onboarding) error {
	steps, err := json.Marshal(o.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into onboarding (id, talent_id, steps, overall_progress, started_at, completed_at)
		values ($1, $2, $3, $4, $5, $6)
	`, o.ID, o.TalentID, steps, o.OverallProgress, o.StartedAt, nullTime(o.CompletedAt))
	return err
}

func (s *Store) OnboardingByTalent(ctx context.Context, talentID string) (*talent.Onboarding, error) {
	var (
		o         talent.Onboarding
		rawSteps  []byte
		completed sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		select id, talent_id, steps, overall_progress, started_at, completed_at
		from onboarding where talent_id = $1
	`, talentID).Scan(&o.ID, &o.TalentID, &rawSteps, &o.OverallProgress, &o.StartedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, talent.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawSteps, &o.Steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	o.CompletedAt = timePtr(completed)
	return &o, nil
}

func (s *Store) UpdateOnboarding(ctx context.Context, o *talent.Onboarding) error {
	steps, err := json.Marshal(o.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		update onboarding
		set steps = $2, overall_progress = $3, completed_at = $4
		where id = $1
	`, o.ID, steps, o.OverallProgress, nullTime(o.CompletedAt))
	if err != nil {
		return err
	}
	return requireRow(res, talent.ErrNotFound)
}

func (s *Store) DeleteOnboardingByTalent(ctx context.Context, talentID string) error {
	_, err := s.db.ExecContext(ctx, `delete from onboarding where talent_id = $1`, talentID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTalent(row *sql.Row) (*talent.Talent, error) {
	t, err := scanTalentRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, talent.ErrNotFound
	}
	return t, err
}

func scanTalentRow(row rowScanner) (*talent.Talent, error) {
	var (
		t         talent.Talent
		emergency sql.NullString
		notes     sql.NullString
	)
	err := row.Scan(&t.ID, &t.DisplayID, &t.LegalNameEnvelope, &t.DOBEnvelope, &emergency,
		&t.VerificationStatus, &notes, &t.OnboardingComplete, &t.ReadinessScore,
		&t.PersonaCount, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.EmergencyEnvelope = emergency.String
	t.Notes = notes.String
	return &t, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
