package pricing

// Collection is the tagged variant over the two aggregation shapes the
// system produces: a flat item list (simple quotation) or a list of titled
// sections (sectioned quotation and proposal flows). Exactly one of the two
// slices is populated.
type Collection struct {
	items    []LineItem
	sections []Section
}

// Flat wraps a plain item list.
func Flat(items []LineItem) Collection {
	return Collection{items: items}
}

// Sectioned wraps a list of sections.
func Sectioned(sections []Section) Collection {
	return Collection{sections: sections}
}

// IsSectioned reports which variant the collection holds.
func (c Collection) IsSectioned() bool {
	return c.sections != nil
}

// Subtotal aggregates item totals across the variant. Grouping depth does
// not matter: a flat list is treated as a single implicit section, so both
// shapes agree on the same items.
func (c Collection) Subtotal() float64 {
	var sum float64
	if c.sections != nil {
		for _, s := range c.sections {
			sum += s.Subtotal()
		}
		return sum
	}
	for _, li := range c.items {
		sum += li.Total
	}
	return sum
}

// Flatten returns all line items in document order regardless of variant.
func (c Collection) Flatten() []LineItem {
	if c.sections == nil {
		out := make([]LineItem, len(c.items))
		copy(out, c.items)
		return out
	}
	var out []LineItem
	for _, s := range c.sections {
		out = append(out, s.LineItems...)
	}
	return out
}

// Sections returns the sectioned variant's sections, or nil for flat.
func (c Collection) Sections() []Section {
	return c.sections
}

// Normalize recomputes every contained item total in place.
func (c *Collection) Normalize() {
	for i := range c.items {
		c.items[i].Normalize()
	}
	for i := range c.sections {
		c.sections[i].Normalize()
	}
}
