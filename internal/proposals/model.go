package proposals

import (
	"time"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

// VersionEntry is one row of a proposal's version history. Entries are
// never edited or removed once written; the history only grows.
type VersionEntry struct {
	Version     string    `json:"version"`
	Date        time.Time `json:"date"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
}

// Proposal is a project proposal. Its commercial section is edited as
// sectioned line items; on every save those items are recomputed into an
// embedded quotation snapshot (quotation_data). The snapshot is a
// denormalized copy rebuilt from scratch, never a live reference and never
// patched incrementally, so it cannot drift from the editable items.
type Proposal struct {
	ID              int64                   `json:"id" db:"id"`
	Title           string                  `json:"title" db:"title"`
	CustomerID      *int64                  `json:"customer_id,omitempty" db:"customer_id"`
	Customer        pricing.CustomerRef     `json:"customer" db:"customer"`
	DurationMonths  int                     `json:"duration_months" db:"duration_months"`
	PaymentTerms    string                  `json:"payment_terms,omitempty" db:"payment_terms"`
	CommercialItems []pricing.Section       `json:"commercial_items" db:"commercial_items"`
	QuotationData   *pricing.ProposalExport `json:"quotation_data,omitempty" db:"quotation_data"`
	CurrentVersion  string                  `json:"current_version" db:"current_version"`
	VersionHistory  []VersionEntry          `json:"version_history" db:"version_history"`
	CreatedBy       int64                   `json:"created_by" db:"created_by"`
	UpdatedBy       int64                   `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at" db:"updated_at"`
}
