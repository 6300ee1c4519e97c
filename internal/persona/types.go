// Package persona manages the public-facing personas layered on top of
// talent records. Personas carry no PII; they reference their talent by
// id only.
package persona

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a persona id does not resolve.
	ErrNotFound = errors.New("persona: not found")
	// ErrTalentNotFound is returned when the referenced talent does not exist.
	ErrTalentNotFound = errors.New("persona: talent not found")
	// ErrInvalidInput is returned for malformed create or update payloads.
	ErrInvalidInput = errors.New("persona: invalid input")
)

// Persona is a public identity operated on behalf of a talent.
type Persona struct {
	ID              string    `json:"id"`
	TalentID        string    `json:"talent_id"`
	Name            string    `json:"name"`
	Backstory       string    `json:"backstory,omitempty"`
	Platforms       []string  `json:"platforms"`
	ContentThemes   []string  `json:"content_themes"`
	BoundaryTags    []string  `json:"boundary_tags"`
	RiskScore       int       `json:"risk_score"`
	Active          bool      `json:"active"`
	CreatedBy       string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input carries the mutable fields of a persona.
type Input struct {
	TalentID      string   `json:"talent_id"`
	Name          string   `json:"name"`
	Backstory     string   `json:"backstory"`
	Platforms     []string `json:"platforms"`
	ContentThemes []string `json:"content_themes"`
	BoundaryTags  []string `json:"boundary_tags"`
	RiskScore     *int     `json:"risk_score"`
	Active        *bool    `json:"active"`
}

// Filter narrows a persona listing.
type Filter struct {
	TalentID string
}
