package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"talentos.org/internal/persona"
)

const personaColumns = `id, talent_id, name, backstory, platforms, content_themes,
	boundary_tags, risk_score, active, created_by, created_at, updated_at`

func (s *Store) CreatePersona(ctx context.Context, p *persona.Persona) error {
	platforms, themes, tags, err := marshalPersonaLists(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into personas (`+personaColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, p.ID, p.TalentID, p.Name, nullIfEmpty(p.Backstory), platforms, themes, tags,
		p.RiskScore, p.Active, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
		return fmt.Errorf("%w: %s", persona.ErrTalentNotFound, p.TalentID)
	}
	return err
}

func (s *Store) GetPersona(ctx context.Context, id string) (*persona.Persona, error) {
	p, err := scanPersona(s.db.QueryRowContext(ctx, `
		select `+personaColumns+` from personas where id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persona.ErrNotFound
	}
	return p, err
}

func (s *Store) ListPersonas(ctx context.Context, filter persona.Filter) ([]*persona.Persona, error) {
	query := `select ` + personaColumns + ` from personas`
	args := []any{}
	if filter.TalentID != "" {
		query += ` where talent_id = $1`
		args = append(args, filter.TalentID)
	}
	query += ` order by created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*persona.Persona, 0)
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePersona(ctx context.Context, p *persona.Persona) error {
	platforms, themes, tags, err := marshalPersonaLists(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		update personas
		set name = $2, backstory = $3, platforms = $4, content_themes = $5,
			boundary_tags = $6, risk_score = $7, active = $8, updated_at = $9
		where id = $1
	`, p.ID, p.Name, nullIfEmpty(p.Backstory), platforms, themes, tags,
		p.RiskScore, p.Active, p.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, persona.ErrNotFound)
}

func (s *Store) DeletePersonasByTalent(ctx context.Context, talentID string) error {
	_, err := s.db.ExecContext(ctx, `delete from personas where talent_id = $1`, talentID)
	return err
}

func (s *Store) CountPersonas(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from personas`).Scan(&n)
	return n, err
}

func (s *Store) CountPersonasByMinRisk(ctx context.Context, min int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from personas where risk_score >= $1
	`, min).Scan(&n)
	return n, err
}

func (s *Store) ListPersonasByMinRisk(ctx context.Context, min int) ([]*persona.Persona, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+personaColumns+` from personas
		where risk_score >= $1
		order by risk_score desc
	`, min)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*persona.Persona, 0)
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func marshalPersonaLists(p *persona.Persona) (platforms, themes, tags []byte, err error) {
	if platforms, err = json.Marshal(p.Platforms); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal platforms: %w", err)
	}
	if themes, err = json.Marshal(p.ContentThemes); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal content themes: %w", err)
	}
	if tags, err = json.Marshal(p.BoundaryTags); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal boundary tags: %w", err)
	}
	return platforms, themes, tags, nil
}

func scanPersona(row rowScanner) (*persona.Persona, error) {
	var (
		p         persona.Persona
		backstory sql.NullString
		platforms []byte
		themes    []byte
		tags      []byte
	)
	err := row.Scan(&p.ID, &p.TalentID, &p.Name, &backstory, &platforms, &themes, &tags,
		&p.RiskScore, &p.Active, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Backstory = backstory.String
	if err := json.Unmarshal(platforms, &p.Platforms); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	if err := json.Unmarshal(themes, &p.ContentThemes); err != nil {
		return nil, fmt.Errorf("decode content themes: %w", err)
	}
	if err := json.Unmarshal(tags, &p.BoundaryTags); err != nil {
		return nil, fmt.Errorf("decode boundary tags: %w", err)
	}
	return &p, nil
}
