package pricing

import "time"

// CustomerRef is the commercial party a document is addressed to.
type CustomerRef struct {
	Name      string `json:"name"`
	Contact   string `json:"contact,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
	CRNumber  string `json:"cr_number,omitempty"`
}

// SnapshotLine is a line item frozen into a snapshot, tagged with its
// 1-based position in the flattened document.
type SnapshotLine struct {
	SerialNumber int     `json:"serial_number"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	PartNumber   string  `json:"part_number,omitempty"`
	UnitPrice    float64 `json:"unit_price"`
	Total        float64 `json:"total"`
}

// Snapshot is the canonical frozen form of a pricing document, taken at
// save or export time. Totals are a copy of the figures computed from the
// live items at that moment; during editing the in-memory document remains
// the source of truth and the snapshot is rebuilt, never patched.
type Snapshot struct {
	Number     string         `json:"number"`
	Date       time.Time      `json:"date"`
	ValidUntil time.Time      `json:"valid_until"`
	Customer   CustomerRef    `json:"customer"`
	Lines      []SnapshotLine `json:"lines"`
	Discount   Discount       `json:"discount"`
	TaxRate    float64        `json:"tax_rate"`
	Totals     Totals         `json:"totals"`
	Currency   string         `json:"currency"`
	Terms      string         `json:"terms,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

// BuildSnapshot freezes a collection into the canonical snapshot form.
// Items are flattened in document order and numbered sequentially.
func BuildSnapshot(col Collection, discount Discount, taxRatePercent float64) Snapshot {
	items := col.Flatten()
	lines := make([]SnapshotLine, 0, len(items))
	for i, li := range items {
		lines = append(lines, SnapshotLine{
			SerialNumber: i + 1,
			Description:  li.Description,
			Quantity:     li.Quantity,
			Unit:         li.Unit,
			PartNumber:   li.PartNumber,
			UnitPrice:    li.UnitPrice,
			Total:        li.Total,
		})
	}
	return Snapshot{
		Lines:    lines,
		Discount: discount,
		TaxRate:  taxRatePercent,
		Totals:   Compute(col, discount, taxRatePercent),
	}
}

// The two historical consumers spell the computed fields differently: the
// quotation/PDF flow reads "vat" and "total", the proposal flow reads
// "taxAmount" and "grandTotal". The canonical schema stays internal and
// these adapters produce the exact wire spellings each consumer expects.

// QuotationExport is the snapshot shape consumed by the quotation PDF
// renderer and the quotation persistence blob.
type QuotationExport struct {
	Number         string         `json:"number"`
	Date           string         `json:"date"`
	ValidUntil     string         `json:"validUntil"`
	Customer       CustomerRef    `json:"customer"`
	LineItems      []SnapshotLine `json:"lineItems"`
	Subtotal       float64        `json:"subtotal"`
	Discount       Discount       `json:"discount"`
	DiscountAmount float64        `json:"discountAmount"`
	VAT            float64        `json:"vat"`
	Total          float64        `json:"total"`
	Currency       string         `json:"currency"`
	CustomTerms    string         `json:"customTerms,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

// ProposalExport is the snapshot shape embedded as quotation_data on a
// proposal record.
type ProposalExport struct {
	Number         string         `json:"number,omitempty"`
	Date           string         `json:"date"`
	Customer       CustomerRef    `json:"customer"`
	LineItems      []SnapshotLine `json:"lineItems"`
	Subtotal       float64        `json:"subtotal"`
	Discount       Discount       `json:"discount"`
	DiscountAmount float64        `json:"discountAmount"`
	TaxAmount      float64        `json:"taxAmount"`
	GrandTotal     float64        `json:"grandTotal"`
	Currency       string         `json:"currency"`
	CustomTerms    string         `json:"customTerms,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// ToQuotationExport adapts the canonical snapshot to the quotation-flow
// spelling.
func (s Snapshot) ToQuotationExport() QuotationExport {
	return QuotationExport{
		Number:         s.Number,
		Date:           formatDate(s.Date),
		ValidUntil:     formatDate(s.ValidUntil),
		Customer:       s.Customer,
		LineItems:      s.Lines,
		Subtotal:       s.Totals.Subtotal,
		Discount:       s.Discount,
		DiscountAmount: s.Totals.DiscountAmount,
		VAT:            s.Totals.TaxAmount,
		Total:          s.Totals.GrandTotal,
		Currency:       s.Currency,
		CustomTerms:    s.Terms,
		Notes:          s.Notes,
	}
}

// ToProposalExport adapts the canonical snapshot to the proposal-flow
// spelling.
func (s Snapshot) ToProposalExport() ProposalExport {
	return ProposalExport{
		Number:         s.Number,
		Date:           formatDate(s.Date),
		Customer:       s.Customer,
		LineItems:      s.Lines,
		Subtotal:       s.Totals.Subtotal,
		Discount:       s.Discount,
		DiscountAmount: s.Totals.DiscountAmount,
		TaxAmount:      s.Totals.TaxAmount,
		GrandTotal:     s.Totals.GrandTotal,
		Currency:       s.Currency,
		CustomTerms:    s.Terms,
		Notes:          s.Notes,
	}
}
