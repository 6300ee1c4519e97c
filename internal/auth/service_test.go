package auth

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) (*Service, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	tokens, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	svc, err := NewService(store, tokens)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "OWNER@Example.com", "hunter22", "Agency Owner", "owner")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.User.Email != "owner@example.com" {
		t.Fatalf("email not normalized: %s", session.User.Email)
	}
	if session.User.Role != RoleOwner {
		t.Fatalf("unexpected role: %s", session.User.Role)
	}
	if session.Token == "" {
		t.Fatalf("expected session token")
	}

	login, err := svc.Login(ctx, "owner@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	user, err := svc.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != session.User.ID {
		t.Fatalf("authenticate resolved wrong user")
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected stored hash on resolved user")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	svc, _ := newTestService(t)
	session, err := svc.Register(context.Background(), "mgr@example.com", "pw123456", "Manager", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.User.Role != RoleTalentManager {
		t.Fatalf("expected default role talent_manager, got %s", session.User.Role)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "dup@example.com", "pw123456", "First", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "dup@example.com", "pw123456", "Second", "")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "ops@example.com", "pw123456", "Ops", "ops_director"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "ops@example.com", "wrong-pass"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "pw123456"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

// A token minted before a role change must resolve to the CURRENT stored
// role: verification yields only an identity reference, then the store
// supplies the role.
func TestAuthenticateResolvesStoredRole(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "demoted@example.com", "pw123456", "Demoted", "ops_director")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	store.SetRole(session.User.ID, RoleFinance)

	user, err := svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Role != RoleFinance {
		t.Fatalf("expected stored role finance to win over token claim, got %s", user.Role)
	}
}

func TestAuthenticateUnknownSubject(t *testing.T) {
	svc, _ := newTestService(t)
	tokens, _ := NewTokenService("test-secret")
	orphan, _, err := tokens.Issue("no-such-user", RoleOwner)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), orphan); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown subject, got %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatalf("unexpected identity on empty context")
	}
	user := &User{ID: "user-7", Role: RoleOwner}
	ctx = ContextWithIdentity(ctx, user)
	got, ok := IdentityFromContext(ctx)
	if !ok || got.ID != "user-7" {
		t.Fatalf("unexpected identity: %+v ok=%v", got, ok)
	}
	ctx = ContextWithToken(ctx, "raw-token")
	token, ok := TokenFromContext(ctx)
	if !ok || token != "raw-token" {
		t.Fatalf("unexpected token: %q ok=%v", token, ok)
	}
}
