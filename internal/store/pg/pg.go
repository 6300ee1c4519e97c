// Package pg implements every resource store on PostgreSQL through
// database/sql over the pgx stdlib driver.
package pg

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"talentos.org/internal/auth"
	"talentos.org/internal/consent"
	"talentos.org/internal/ops"
	"talentos.org/internal/persona"
	"talentos.org/internal/revenue"
	"talentos.org/internal/talent"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Store holds one pooled connection and satisfies all resource store
// contracts.
type Store struct {
	db *sql.DB
}

var (
	_ auth.Store              = (*Store)(nil)
	_ talent.Store            = (*Store)(nil)
	_ talent.OnboardingStore  = (*Store)(nil)
	_ talent.PersonaPurger    = (*Store)(nil)
	_ persona.Store           = (*Store)(nil)
	_ persona.TalentDirectory = (*Store)(nil)
	_ consent.Store           = (*Store)(nil)
	_ consent.ContentFlagger  = (*Store)(nil)
	_ revenue.Store           = (*Store)(nil)
	_ ops.IncidentStore       = (*Store)(nil)
	_ ops.WellbeingStore      = (*Store)(nil)
	_ ops.TaskStore           = (*Store)(nil)
)

// Open connects to PostgreSQL using the given DSN.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection. Used by tests with sqlmock.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
