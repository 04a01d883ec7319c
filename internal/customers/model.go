package customers

import (
	"time"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

// Customer is the commercial party quotations and proposals are addressed
// to: company name plus contact and registration details.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Contact   *string   `json:"contact,omitempty" db:"contact"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	VATNumber *string   `json:"vat_number,omitempty" db:"vat_number"`
	CRNumber  *string   `json:"cr_number,omitempty" db:"cr_number"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedBy int64     `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Ref denormalizes the customer into the form frozen inside document
// snapshots.
func (c Customer) Ref() pricing.CustomerRef {
	ref := pricing.CustomerRef{Name: c.Name}
	if c.Contact != nil {
		ref.Contact = *c.Contact
	}
	if c.Phone != nil {
		ref.Phone = *c.Phone
	}
	if c.Email != nil {
		ref.Email = *c.Email
	}
	if c.VATNumber != nil {
		ref.VATNumber = *c.VATNumber
	}
	if c.CRNumber != nil {
		ref.CRNumber = *c.CRNumber
	}
	return ref
}
