// Package consent tracks consent records for talents and the content
// items gated by them. Revoking a consent flags every content item that
// references it.
package consent

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a consent id does not resolve.
	ErrNotFound = errors.New("consent: not found")
	// ErrInvalidInput is returned for malformed payloads.
	ErrInvalidInput = errors.New("consent: invalid input")
)

// Consent lifecycle states.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
	StatusExpired = "expired"
)

// RevokedReason is the flag reason stamped on content when its consent
// is withdrawn.
const RevokedReason = "Consent revoked"

// Consent is one grant of permission from a talent for a scope of use.
type Consent struct {
	ID         string     `json:"id"`
	TalentID   string     `json:"talent_id"`
	Scope      string     `json:"scope"`
	Terms      string     `json:"terms,omitempty"`
	Status     string     `json:"status"`
	ExpiryDate string     `json:"expiry_date,omitempty"`
	GrantedAt  time.Time  `json:"granted_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	RevokedBy  string     `json:"revoked_by,omitempty"`
	CreatedBy  string     `json:"-"`
}

// Input carries the fields of a new consent grant.
type Input struct {
	TalentID   string `json:"talent_id"`
	Scope      string `json:"scope"`
	Terms      string `json:"terms"`
	ExpiryDate string `json:"expiry_date"`
}

// ContentRecord is a piece of published or scheduled content tied to
// the consents that authorize it.
type ContentRecord struct {
	ID         string    `json:"id"`
	PersonaID  string    `json:"persona_id"`
	Title      string    `json:"title"`
	ConsentIDs []string  `json:"consent_ids"`
	Flagged    bool      `json:"flagged"`
	FlagReason string    `json:"flag_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter narrows a consent listing.
type Filter struct {
	TalentID string
	Status   string
}
