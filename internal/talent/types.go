package talent

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("talent: not found")
	ErrStepNotFound = errors.New("talent: onboarding step not found")
	ErrInvalidInput = errors.New("talent: invalid input")
)

// Talent is the stored record. PII lives only in the envelope fields,
// which never serialize; detail reads go through Detail instead.
type Talent struct {
	ID                 string    `json:"id"`
	DisplayID          string    `json:"display_id"`
	LegalNameEnvelope  string    `json:"-"`
	DOBEnvelope        string    `json:"-"`
	EmergencyEnvelope  string    `json:"-"`
	VerificationStatus string    `json:"verification_status"`
	Notes              string    `json:"notes,omitempty"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	ReadinessScore     int       `json:"readiness_score"`
	PersonaCount       int       `json:"persona_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CreatedBy          string    `json:"-"`
}

// Detail is the single authorized read that carries decrypted PII.
type Detail struct {
	Talent
	LegalName        string `json:"legal_name"`
	DOB              string `json:"dob"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
}

// Input carries the writable talent fields; the PII strings are
// encrypted before they reach a store.
type Input struct {
	LegalName          string `json:"legal_name"`
	DOB                string `json:"dob"`
	EmergencyContact   string `json:"emergency_contact"`
	VerificationStatus string `json:"verification_status"`
	Notes              string `json:"notes"`
}

// OnboardingStep is one checklist item on a talent's onboarding record.
type OnboardingStep struct {
	StepID      string     `json:"step_id"`
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Onboarding tracks checklist progress for one talent.
type Onboarding struct {
	ID              string           `json:"id"`
	TalentID        string           `json:"talent_id"`
	Steps           []OnboardingStep `json:"steps"`
	OverallProgress int              `json:"overall_progress"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

// DefaultSteps is the checklist template stamped onto every new talent.
func DefaultSteps() []OnboardingStep {
	return []OnboardingStep{
		{StepID: "id_verified", Name: "ID Verified"},
		{StepID: "age_confirmed", Name: "Age Confirmed"},
		{StepID: "consent_framework", Name: "Consent Framework Signed"},
		{StepID: "boundaries_defined", Name: "Boundaries Defined"},
		{StepID: "platform_suitability", Name: "Platform Suitability Checked"},
		{StepID: "safety_briefing", Name: "Safety Briefing Acknowledged"},
	}
}
