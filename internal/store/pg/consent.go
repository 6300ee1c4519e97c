package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"talentos.org/internal/consent"
)

const consentColumns = `id, talent_id, scope, terms, status, expiry_date,
	granted_at, revoked_at, revoked_by, created_by`

func (s *Store) CreateConsent(ctx context.Context, c *consent.Consent) error {
	_, err := s.db.ExecContext(ctx, `
		insert into consents (`+consentColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.TalentID, c.Scope, nullIfEmpty(c.Terms), c.Status, nullIfEmpty(c.ExpiryDate),
		c.GrantedAt, nullTime(c.RevokedAt), nullIfEmpty(c.RevokedBy), c.CreatedBy)
	return err
}

func (s *Store) GetConsent(ctx context.Context, id string) (*consent.Consent, error) {
	c, err := scanConsent(s.db.QueryRowContext(ctx, `
		select `+consentColumns+` from consents where id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, consent.ErrNotFound
	}
	return c, err
}

func (s *Store) ListConsents(ctx context.Context, filter consent.Filter) ([]*consent.Consent, error) {
	query := `select ` + consentColumns + ` from consents`
	args := []any{}
	where := ""
	if filter.TalentID != "" {
		args = append(args, filter.TalentID)
		where = fmt.Sprintf(" where talent_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if where == "" {
			where = fmt.Sprintf(" where status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" and status = $%d", len(args))
		}
	}
	query += where + ` order by granted_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*consent.Consent, 0)
	for rows.Next() {
		c, err := scanConsent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) RevokeConsent(ctx context.Context, c *consent.Consent) error {
	res, err := s.db.ExecContext(ctx, `
		update consents
		set status = $2, revoked_at = $3, revoked_by = $4
		where id = $1
	`, c.ID, c.Status, nullTime(c.RevokedAt), nullIfEmpty(c.RevokedBy))
	if err != nil {
		return err
	}
	return requireRow(res, consent.ErrNotFound)
}

// FlagContentByConsent flags every content row whose consent_ids array
// contains the consent. Returns the number of rows flagged.
func (s *Store) FlagContentByConsent(ctx context.Context, consentID, reason string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		update content
		set flagged = true, flag_reason = $2
		where consent_ids @> to_jsonb(array[$1::text])
	`, consentID, reason)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanConsent(row rowScanner) (*consent.Consent, error) {
	var (
		c         consent.Consent
		terms     sql.NullString
		expiry    sql.NullString
		revokedAt sql.NullTime
		revokedBy sql.NullString
	)
	err := row.Scan(&c.ID, &c.TalentID, &c.Scope, &terms, &c.Status, &expiry,
		&c.GrantedAt, &revokedAt, &revokedBy, &c.CreatedBy)
	if err != nil {
		return nil, err
	}
	c.Terms = terms.String
	c.ExpiryDate = expiry.String
	c.RevokedAt = timePtr(revokedAt)
	c.RevokedBy = revokedBy.String
	return &c, nil
}
