package pricing

import "github.com/google/uuid"

// LineItem is a single priced entry. Total is always derived from
// Quantity and UnitPrice; it is never set independently.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Unit        string  `json:"unit,omitempty"`
	PartNumber  string  `json:"part_number,omitempty"`
}

// Editable field names accepted by Apply.
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unit_price"
	FieldUnit        = "unit"
	FieldPartNumber  = "part_number"
)

// NewLineItem returns a fresh item as the editor creates it: quantity one,
// price zero, total zero.
func NewLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
}

// Apply sets a single field from raw editor input. Numeric fields pass
// through CoerceNumber, and the total is recomputed in the same call so it
// is never stale, even transiently. Unknown fields are ignored.
func (li *LineItem) Apply(field string, value any) {
	switch field {
	case FieldDescription:
		li.Description, _ = value.(string)
	case FieldUnit:
		li.Unit, _ = value.(string)
	case FieldPartNumber:
		li.PartNumber, _ = value.(string)
	case FieldQuantity:
		li.Quantity = CoerceNumber(value)
		li.recompute()
	case FieldUnitPrice:
		li.UnitPrice = CoerceNumber(value)
		li.recompute()
	}
}

// SetQuantity updates the quantity and recomputes the total.
func (li *LineItem) SetQuantity(v any) {
	li.Quantity = CoerceNumber(v)
	li.recompute()
}

// SetUnitPrice updates the unit price and recomputes the total.
func (li *LineItem) SetUnitPrice(v any) {
	li.UnitPrice = CoerceNumber(v)
	li.recompute()
}

func (li *LineItem) recompute() {
	li.Total = li.Quantity * li.UnitPrice
}

// Normalize recomputes the derived total from quantity and unit price,
// coercing both through the numeric guard. Used when items arrive from an
// external boundary (API payload, Excel import) where Total cannot be
// trusted.
func (li *LineItem) Normalize() {
	li.Quantity = CoerceNumber(li.Quantity)
	li.UnitPrice = CoerceNumber(li.UnitPrice)
	if li.ID == "" {
		li.ID = uuid.NewString()
	}
	li.recompute()
}

// RemoveItem deletes the item with the given ID from items, preserving
// order. It returns the slice unchanged when the ID is absent.
func RemoveItem(items []LineItem, id string) []LineItem {
	for i, li := range items {
		if li.ID == id {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}
