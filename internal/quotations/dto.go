package quotations

import (
	"time"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

// SectionInput mirrors the editor's section shape. Items arrive with raw
// editable fields only; totals are rederived server-side.
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

// SaveQuotationRequest carries one editing session's document to the save
// path. Exactly one of LineItems or Sections should be set; the flat shape
// is treated as a single implicit section.
type SaveQuotationRequest struct {
	QuoteNumber string              `json:"quote_number,omitempty" validate:"omitempty,max=30"`
	CustomerID  *int64              `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Customer    pricing.CustomerRef `json:"customer"`
	IssueDate   time.Time           `json:"issue_date"`
	ValidUntil  time.Time           `json:"valid_until"`
	Currency    string              `json:"currency" validate:"required,len=3"`
	LineItems   []LineItemInput     `json:"line_items,omitempty" validate:"dive"`
	Sections    []SectionInput      `json:"sections,omitempty" validate:"dive"`
	Discount    pricing.Discount    `json:"discount"`
	TaxRate     *float64            `json:"tax_rate,omitempty" validate:"omitempty,gte=0"`
	Terms       string              `json:"terms,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

// EmailQuotationRequest asks for the rendered document to be sent out.
type EmailQuotationRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject,omitempty" validate:"max=200"`
}

type ListQuotationsRequest struct {
	Status     *Status    `json:"status,omitempty"`
	CustomerID *int64     `json:"customer_id,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}

// PreviewRequest computes totals for an in-flight document without
// persisting anything. The editor calls this on every meaningful edit.
type PreviewRequest struct {
	LineItems []LineItemInput  `json:"line_items,omitempty" validate:"dive"`
	Sections  []SectionInput   `json:"sections,omitempty" validate:"dive"`
	Discount  pricing.Discount `json:"discount"`
	TaxRate   *float64         `json:"tax_rate,omitempty" validate:"omitempty,gte=0"`
}

func (li LineItemInput) toModel() pricing.LineItem {
	item := pricing.LineItem{
		ID:          li.ID,
		Description: li.Description,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		Unit:        li.Unit,
		PartNumber:  li.PartNumber,
	}
	item.Normalize()
	return item
}

func toCollection(items []LineItemInput, sections []SectionInput) pricing.Collection {
	if len(sections) > 0 {
		out := make([]pricing.Section, 0, len(sections))
		for _, s := range sections {
			sec := pricing.Section{ID: s.ID, Title: s.Title}
			for _, li := range s.LineItems {
				sec.LineItems = append(sec.LineItems, li.toModel())
			}
			sec.Normalize()
			out = append(out, sec)
		}
		return pricing.Sectioned(out)
	}
	out := make([]pricing.LineItem, 0, len(items))
	for _, li := range items {
		out = append(out, li.toModel())
	}
	return pricing.Flat(out)
}
