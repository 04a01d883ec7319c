package quotations

import (
	"time"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Quotation is a persisted quotation record: a frozen pricing document plus
// the commercial metadata around it. The document column is stored as one
// opaque JSONB blob; pricing internals never get their own columns.
type Quotation struct {
	ID          int64            `json:"id" db:"id"`
	QuoteNumber string           `json:"quote_number" db:"quote_number"`
	CustomerID  *int64           `json:"customer_id,omitempty" db:"customer_id"`
	IssueDate   time.Time        `json:"issue_date" db:"issue_date"`
	ValidUntil  time.Time        `json:"valid_until" db:"valid_until"`
	Status      Status           `json:"status" db:"status"`
	Currency    string           `json:"currency" db:"currency"`
	Document    pricing.Snapshot `json:"document" db:"document"`
	Terms       string           `json:"terms,omitempty" db:"terms"`
	Notes       string           `json:"notes,omitempty" db:"notes"`
	CreatedBy   int64            `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}
