package pricing

// DiscountKind selects how the discount value is interpreted.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Discount describes a document-level discount. A percentage discount is
// applied against the subtotal; a fixed discount is taken as-is and is
// deliberately not capped at the subtotal (see Totals).
type Discount struct {
	Kind  DiscountKind `json:"kind"`
	Value float64      `json:"value"`
}

// StandardVATRate is the fixed VAT percentage used by the invoice-oriented
// flow, where the rate is not user-editable.
const StandardVATRate = 15.0

// Totals holds the computed figures of a pricing document in the order they
// are derived: subtotal, discount, taxable amount, VAT, grand total.
//
// TaxableAmount and GrandTotal may go negative when a fixed discount
// exceeds the subtotal. That is intentional: documents already exported by
// existing installations reflect the unclamped figures, so clamping here
// would silently change numbers users have on paper.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableAmount  float64 `json:"taxable_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

// Compute derives document totals from a collection, a discount and a VAT
// rate percentage. Pure function: identical inputs always produce identical
// outputs, and nothing is cached between calls.
//
// The invoice flow calls this with StandardVATRate; the quotation/proposal
// flows pass the user-edited rate. Both are configurations of this one
// function, not separate algorithms.
func Compute(col Collection, discount Discount, taxRatePercent float64) Totals {
	subtotal := col.Subtotal()

	var discountAmount float64
	switch discount.Kind {
	case DiscountPercentage:
		discountAmount = subtotal * CoerceNumber(discount.Value) / 100
	case DiscountFixed:
		discountAmount = CoerceNumber(discount.Value)
	}

	taxable := subtotal - discountAmount
	tax := taxable * CoerceNumber(taxRatePercent) / 100

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		GrandTotal:     taxable + tax,
	}
}
