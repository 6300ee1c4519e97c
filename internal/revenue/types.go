// Package revenue records per-persona revenue entries and aggregates
// them into month-to-date summaries.
package revenue

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an entry id does not resolve.
	ErrNotFound = errors.New("revenue: not found")
	// ErrInvalidInput is returned for malformed payloads.
	ErrInvalidInput = errors.New("revenue: invalid input")
)

// DefaultCurrency is applied when an entry omits its currency.
const DefaultCurrency = "USD"

// Entry is a single recorded amount of revenue.
type Entry struct {
	ID          string    `json:"id"`
	TalentID    string    `json:"talent_id"`
	PersonaID   string    `json:"persona_id,omitempty"`
	Platform    string    `json:"platform"`
	RevenueType string    `json:"revenue_type"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Period      string    `json:"period,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
	RecordedBy  string    `json:"-"`
}

// Input carries the fields of a new revenue entry.
type Input struct {
	TalentID    string  `json:"talent_id"`
	PersonaID   string  `json:"persona_id"`
	Platform    string  `json:"platform"`
	RevenueType string  `json:"revenue_type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Period      string  `json:"period"`
}

// Filter narrows an entry listing.
type Filter struct {
	TalentID  string
	PersonaID string
	Platform  string
}

// Bucket is one grouped row of a summary.
type Bucket struct {
	Platform    string  `json:"platform,omitempty"`
	RevenueType string  `json:"revenue_type,omitempty"`
	Total       float64 `json:"total"`
}

// Summary is the month-to-date aggregate view.
type Summary struct {
	ByPlatform []Bucket  `json:"by_platform"`
	ByType     []Bucket  `json:"by_type"`
	TotalMTD   float64   `json:"total_mtd"`
	MonthStart time.Time `json:"month_start"`
}
