package consent

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, *InMemory) {
	t.Helper()
	store := NewInMemory()
	svc, err := NewService(store, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc, _ := newTestService(t)
	c, err := svc.Create(context.Background(), Input{TalentID: "talent-1", Scope: "photo_content"}, "actor-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Status != StatusActive {
		t.Fatalf("expected active, got %q", c.Status)
	}
	if c.RevokedAt != nil {
		t.Fatalf("new consent must not carry a revocation timestamp")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, Input{Scope: "photo_content"}, "actor-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing talent_id: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{TalentID: "talent-1"}, "actor-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing scope: expected ErrInvalidInput, got %v", err)
	}
}

func TestRevokeFlagsDependentContent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, Input{TalentID: "talent-1", Scope: "photo_content"}, "actor-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := svc.Create(ctx, Input{TalentID: "talent-1", Scope: "video_content"}, "actor-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now().UTC()
	store.AddContent(ctx, &ContentRecord{ID: "content-1", PersonaID: "p1", Title: "Set A", ConsentIDs: []string{c.ID}, CreatedAt: now})
	store.AddContent(ctx, &ContentRecord{ID: "content-2", PersonaID: "p1", Title: "Set B", ConsentIDs: []string{c.ID, other.ID}, CreatedAt: now})
	store.AddContent(ctx, &ContentRecord{ID: "content-3", PersonaID: "p2", Title: "Set C", ConsentIDs: []string{other.ID}, CreatedAt: now})

	rev, err := svc.Revoke(ctx, c.ID, "actor-2")
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if rev.Consent.Status != StatusRevoked || rev.Consent.RevokedAt == nil || rev.Consent.RevokedBy != "actor-2" {
		t.Fatalf("revocation not recorded: %+v", rev.Consent)
	}
	if rev.ContentFlagged != 2 {
		t.Fatalf("expected 2 flagged content records, got %d", rev.ContentFlagged)
	}

	flagged, _ := store.ContentByID(ctx, "content-2")
	if !flagged.Flagged || flagged.FlagReason != RevokedReason {
		t.Fatalf("content not flagged: %+v", flagged)
	}
	untouched, _ := store.ContentByID(ctx, "content-3")
	if untouched.Flagged {
		t.Fatalf("content without the revoked consent must not be flagged")
	}
}

func TestRevokeTwiceIsIdempotentForContent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, Input{TalentID: "talent-1", Scope: "photo_content"}, "actor-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	store.AddContent(ctx, &ContentRecord{ID: "content-1", ConsentIDs: []string{c.ID}})

	first, err := svc.Revoke(ctx, c.ID, "actor-1")
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	second, err := svc.Revoke(ctx, c.ID, "actor-1")
	if err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if first.ContentFlagged != 1 || second.ContentFlagged != 0 {
		t.Fatalf("expected 1 then 0 flagged, got %d then %d", first.ContentFlagged, second.ContentFlagged)
	}

	if _, err := svc.Revoke(ctx, "missing", "actor-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, Input{TalentID: "talent-1", Scope: "photo_content"}, "actor-1")
	svc.Create(ctx, Input{TalentID: "talent-1", Scope: "video_content"}, "actor-1")
	svc.Create(ctx, Input{TalentID: "talent-2", Scope: "photo_content"}, "actor-1")
	if _, err := svc.Revoke(ctx, a.ID, "actor-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	byTalent, err := svc.List(ctx, Filter{TalentID: "talent-1"})
	if err != nil || len(byTalent) != 2 {
		t.Fatalf("by talent: %d, err %v", len(byTalent), err)
	}
	active, err := svc.List(ctx, Filter{Status: StatusActive})
	if err != nil || len(active) != 2 {
		t.Fatalf("active: %d, err %v", len(active), err)
	}
	revoked, err := svc.List(ctx, Filter{TalentID: "talent-1", Status: StatusRevoked})
	if err != nil || len(revoked) != 1 {
		t.Fatalf("revoked: %d, err %v", len(revoked), err)
	}
}
