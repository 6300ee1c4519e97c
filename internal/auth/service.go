package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talentos.org/internal/ids"
)

// Store describes persistence operations required by the auth subsystem.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	FindUser(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}

// Service handles registration, login, and bearer token resolution.
type Service struct {
	store  Store
	tokens *TokenService
	now    func() time.Time
}

// NewService constructs Service.
func NewService(store Store, tokens *TokenService) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token service is required")
	}
	return &Service{store: store, tokens: tokens, now: time.Now}, nil
}

// Session is the result of a successful registration or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Register creates a user account and issues a session token. A duplicate
// email fails with ErrConflict.
func (s *Service) Register(ctx context.Context, email, password, name, role string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return Session{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	parsedRole := DefaultRole
	if strings.TrimSpace(role) != "" {
		var err error
		parsedRole, err = ParseRole(role)
		if err != nil {
			return Session{}, err
		}
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}
	user := &User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         parsedRole,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return Session{}, err
	}
	return s.openSession(user)
}

// Login authenticates credentials and issues a session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, ErrUnauthorized
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrUnauthorized
	}
	return s.openSession(user)
}

// Authenticate verifies a bearer token and re-reads the stored user.
// Verification only yields an identity reference; the second lookup
// supplies the authoritative current role, so a token minted before a
// role change never carries stale privileges past this point.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.FindUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) openSession(user *User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
