package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"talentos.org/internal/revenue"
)

const revenueColumns = `id, talent_id, persona_id, platform, revenue_type, amount,
	currency, period, recorded_at, recorded_by`

func (s *Store) CreateRevenueEntry(ctx context.Context, e *revenue.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into revenue_entries (`+revenueColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, e.ID, e.TalentID, nullIfEmpty(e.PersonaID), e.Platform, e.RevenueType, e.Amount,
		e.Currency, nullIfEmpty(e.Period), e.RecordedAt, e.RecordedBy)
	return err
}

func (s *Store) ListRevenueEntries(ctx context.Context, filter revenue.Filter) ([]*revenue.Entry, error) {
	query := `select ` + revenueColumns + ` from revenue_entries`
	args := []any{}
	where := ""
	appendClause := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		if where == "" {
			where = fmt.Sprintf(" where %s = $%d", column, len(args))
		} else {
			where += fmt.Sprintf(" and %s = $%d", column, len(args))
		}
	}
	appendClause("talent_id", filter.TalentID)
	appendClause("persona_id", filter.PersonaID)
	appendClause("platform", filter.Platform)
	query += where + ` order by recorded_at desc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*revenue.Entry, 0)
	for rows.Next() {
		var (
			e         revenue.Entry
			personaID sql.NullString
			period    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.TalentID, &personaID, &e.Platform, &e.RevenueType,
			&e.Amount, &e.Currency, &period, &e.RecordedAt, &e.RecordedBy); err != nil {
			return nil, err
		}
		e.PersonaID = personaID.String
		e.Period = period.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *Store) SumRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, `
		select coalesce(sum(amount), 0) from revenue_entries where recorded_at >= $1
	`, since).Scan(&total)
	return total, err
}

func (s *Store) GroupRevenueSince(ctx context.Context, since time.Time) ([]revenue.Bucket, []revenue.Bucket, error) {
	byPlatform, err := s.groupRevenue(ctx, "platform", since)
	if err != nil {
		return nil, nil, err
	}
	byType, err := s.groupRevenue(ctx, "revenue_type", since)
	if err != nil {
		return nil, nil, err
	}
	return byPlatform, byType, nil
}

func (s *Store) groupRevenue(ctx context.Context, column string, since time.Time) ([]revenue.Bucket, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		select %s, sum(amount) from revenue_entries
		where recorded_at >= $1
		group by %s order by %s
	`, column, column, column), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]revenue.Bucket, 0)
	for rows.Next() {
		var (
			key   string
			total float64
		)
		if err := rows.Scan(&key, &total); err != nil {
			return nil, err
		}
		b := revenue.Bucket{Total: total}
		if column == "platform" {
			b.Platform = key
		} else {
			b.RevenueType = key
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
