package pg

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"talentos.org/internal/auth"
	"talentos.org/internal/consent"
	"talentos.org/internal/ops"
	"talentos.org/internal/talent"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.CreateUser(context.Background(), &auth.User{ID: "u1", Email: "dup@talentos.org"})
	if !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindUserNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select id, email, password_hash, name, role, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "created_at"}))

	if _, err := store.FindUser(context.Background(), "missing"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTalentScansEnvelopes(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "display_id", "legal_name_enc", "dob_enc", "emergency_contact_enc",
		"verification_status", "notes", "onboarding_complete", "readiness_score",
		"persona_count", "created_by", "created_at", "updated_at",
	}).AddRow("t1", "TL-ABCDEF12", "env-name", "env-dob", nil, "pending", nil, false, 0, 0, "u1", now, now)
	mock.ExpectQuery("select (.+) from talents where id").WithArgs("t1").WillReturnRows(rows)

	got, err := store.GetTalent(context.Background(), "t1")
	if err != nil {
		t.Fatalf("GetTalent: %v", err)
	}
	if got.LegalNameEnvelope != "env-name" || got.EmergencyEnvelope != "" {
		t.Fatalf("unexpected talent: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTalentMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("update talents").
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateTalent(context.Background(), &talent.Talent{ID: "missing"})
	if !errors.Is(err, talent.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOnboardingRoundTripsSteps(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	steps := talent.DefaultSteps()
	raw, err := json.Marshal(steps)
	if err != nil {
		t.Fatalf("marshal steps: %v", err)
	}
	rows := sqlmock.NewRows([]string{"id", "talent_id", "steps", "overall_progress", "started_at", "completed_at"}).
		AddRow("o1", "t1", raw, 0, now, nil)
	mock.ExpectQuery("select id, talent_id, steps, overall_progress").WithArgs("t1").WillReturnRows(rows)

	got, err := store.OnboardingByTalent(context.Background(), "t1")
	if err != nil {
		t.Fatalf("OnboardingByTalent: %v", err)
	}
	if len(got.Steps) != len(steps) || got.Steps[0].StepID != "id_verified" {
		t.Fatalf("steps did not round trip: %+v", got.Steps)
	}
	if got.CompletedAt != nil {
		t.Fatalf("completed_at should be nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFlagContentByConsentReturnsCount(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("update content").
		WithArgs("c1", consent.RevokedReason).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := store.FlagContentByConsent(context.Background(), "c1", consent.RevokedReason)
	if err != nil {
		t.Fatalf("FlagContentByConsent: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 flagged rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSumRevenueSince(t *testing.T) {
	store, mock := newMockStore(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("select coalesce\\(sum\\(amount\\), 0\\) from revenue_entries").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1450.50))

	total, err := store.SumRevenueSince(context.Background(), since)
	if err != nil {
		t.Fatalf("SumRevenueSince: %v", err)
	}
	if total != 1450.50 {
		t.Fatalf("total = %v", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListOpenIncidentsByMinSeverityExpandsSet(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "talent_id", "persona_id", "severity", "category", "description",
		"status", "reported_by", "reported_at", "resolved_at", "resolved_by", "resolution",
	}).AddRow("i1", nil, nil, ops.SeverityCritical, nil, "leak", "open", "u1", now, nil, nil, nil)
	mock.ExpectQuery("select (.+) from incidents").
		WithArgs(ops.SeverityHigh, ops.SeverityCritical).
		WillReturnRows(rows)

	got, err := store.ListOpenIncidentsByMinSeverity(context.Background(), ops.SeverityHigh)
	if err != nil {
		t.Fatalf("ListOpenIncidentsByMinSeverity: %v", err)
	}
	if len(got) != 1 || got[0].Severity != ops.SeverityCritical {
		t.Fatalf("unexpected incidents: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
