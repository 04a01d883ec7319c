package proposals

import "github.com/vantage-admin/vantage-admin/internal/pricing"

type CreateProposalRequest struct {
	Title          string              `json:"title" validate:"required,max=300"`
	CustomerID     *int64              `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Customer       pricing.CustomerRef `json:"customer"`
	DurationMonths int                 `json:"duration_months" validate:"gte=0"`
	PaymentTerms   string              `json:"payment_terms,omitempty"`
}

type SectionInput struct {
	ID        string          `json:"id,omitempty"`
	Title     string          `json:"title" validate:"required,max=200"`
	LineItems []LineItemInput `json:"line_items" validate:"dive"`
}

type LineItemInput struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description" validate:"max=500"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Unit        string  `json:"unit,omitempty" validate:"max=20"`
	PartNumber  string  `json:"part_number,omitempty" validate:"max=100"`
}

// SaveCommercialItemsRequest replaces a proposal's commercial items and
// triggers the snapshot rebuild.
type SaveCommercialItemsRequest struct {
	Sections       []SectionInput   `json:"sections" validate:"dive"`
	Discount       pricing.Discount `json:"discount"`
	PaymentTerms   string           `json:"payment_terms,omitempty"`
	DurationMonths int              `json:"duration_months" validate:"gte=0"`
}

// UpdateVersionRequest records a new document version.
type UpdateVersionRequest struct {
	Version     string `json:"version" validate:"required,max=30"`
	Description string `json:"description" validate:"required,max=500"`
}

type ListProposalsRequest struct {
	CustomerID *int64 `json:"customer_id,omitempty"`
	Limit      int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int    `json:"offset" validate:"gte=0"`
}

func toSections(inputs []SectionInput) []pricing.Section {
	out := make([]pricing.Section, 0, len(inputs))
	for _, s := range inputs {
		sec := pricing.Section{ID: s.ID, Title: s.Title}
		for _, li := range s.LineItems {
			sec.LineItems = append(sec.LineItems, pricing.LineItem{
				ID:          li.ID,
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
				Unit:        li.Unit,
				PartNumber:  li.PartNumber,
			})
		}
		sec.Normalize()
		out = append(out, sec)
	}
	return out
}
