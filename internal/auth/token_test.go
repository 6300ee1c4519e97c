package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, expiresAt, err := svc.Issue("user-42", RoleFinance)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if until := time.Until(expiresAt); until < 23*time.Hour {
		t.Fatalf("expected ~24h expiry, got %v", until)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != string(RoleFinance) {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti claim")
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	current := issued

	svc, err := NewTokenService("test-secret", WithClock(func() time.Time { return current }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, _, err := svc.Issue("user-1", RoleOwner)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	current = issued.Add(DefaultTokenTTL - time.Second)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("expected token valid one second before expiry, got %v", err)
	}

	current = issued.Add(DefaultTokenTTL + time.Second)
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	issuerSvc, _ := NewTokenService("secret-a")
	verifier, _ := NewTokenService("secret-b")

	token, _, err := issuerSvc.Issue("user-1", RoleOwner)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _ := NewTokenService("test-secret")
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}
