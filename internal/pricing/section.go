package pricing

import "github.com/google/uuid"

// Section is a named, ordered group of line items ("Civil Infrastructure",
// "Electrical Works", ...). The model tolerates empty sections; an empty
// section contributes zero to the document subtotal.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	LineItems []LineItem `json:"line_items"`
}

// ServiceCategories is the controlled vocabulary offered for section titles.
// Titles remain free text; this list only seeds the picker.
var ServiceCategories = []string{
	"Civil Infrastructure",
	"Electrical Works",
	"Mechanical Works",
	"Telecommunications",
	"Safety & Security Systems",
	"Operations & Maintenance",
	"Consultancy Services",
}

// NewSection creates a section with one blank line item, matching the
// editor's creation flow.
func NewSection(title string) Section {
	return Section{
		ID:        uuid.NewString(),
		Title:     title,
		LineItems: []LineItem{NewLineItem()},
	}
}

// AddItem appends a fresh blank line item and returns it.
func (s *Section) AddItem() LineItem {
	li := NewLineItem()
	s.LineItems = append(s.LineItems, li)
	return li
}

// RemoveItem deletes a line item by ID.
func (s *Section) RemoveItem(id string) {
	s.LineItems = RemoveItem(s.LineItems, id)
}

// Subtotal sums the derived totals of the section's items.
func (s Section) Subtotal() float64 {
	var sum float64
	for _, li := range s.LineItems {
		sum += li.Total
	}
	return sum
}

// Normalize recomputes every item total from its editable fields.
func (s *Section) Normalize() {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	for i := range s.LineItems {
		s.LineItems[i].Normalize()
	}
}
