package pricing

import "testing"

func twoItemFixture() []LineItem {
	a := NewLineItem()
	a.Description = "Fiber trenching"
	a.SetQuantity(3)
	a.SetUnitPrice(100)
	b := NewLineItem()
	b.Description = "Site survey"
	b.SetQuantity(1)
	b.SetUnitPrice(250)
	return []LineItem{a, b}
}

func TestComputePercentageDiscount(t *testing.T) {
	totals := Compute(Flat(twoItemFixture()), Discount{Kind: DiscountPercentage, Value: 10}, 15)
	if totals.Subtotal != 550 {
		t.Fatalf("subtotal = %v, want 550", totals.Subtotal)
	}
	if totals.DiscountAmount != 55 {
		t.Fatalf("discount = %v, want 55", totals.DiscountAmount)
	}
	if totals.TaxableAmount != 495 {
		t.Fatalf("taxable = %v, want 495", totals.TaxableAmount)
	}
	if totals.TaxAmount != 74.25 {
		t.Fatalf("tax = %v, want 74.25", totals.TaxAmount)
	}
	if totals.GrandTotal != 569.25 {
		t.Fatalf("grand total = %v, want 569.25", totals.GrandTotal)
	}
}

func TestComputeFixedDiscountExceedingSubtotalStaysUnclamped(t *testing.T) {
	totals := Compute(Flat(twoItemFixture()), Discount{Kind: DiscountFixed, Value: 600}, 15)
	if totals.DiscountAmount != 600 {
		t.Fatalf("discount = %v, want 600", totals.DiscountAmount)
	}
	if totals.TaxableAmount != -50 {
		t.Fatalf("taxable = %v, want -50", totals.TaxableAmount)
	}
	if totals.TaxAmount != -7.5 {
		t.Fatalf("tax = %v, want -7.5", totals.TaxAmount)
	}
	if totals.GrandTotal != -57.5 {
		t.Fatalf("grand total = %v, want -57.5", totals.GrandTotal)
	}
}

func TestComputeEmptySectionList(t *testing.T) {
	totals := Compute(Sectioned([]Section{}), Discount{Kind: DiscountPercentage, Value: 10}, 15)
	if totals.Subtotal != 0 || totals.DiscountAmount != 0 || totals.TaxableAmount != 0 ||
		totals.TaxAmount != 0 || totals.GrandTotal != 0 {
		t.Fatalf("expected all-zero totals, got %+v", totals)
	}
}

func TestSubtotalIndifferentToGrouping(t *testing.T) {
	items := twoItemFixture()

	flat := Flat(items).Subtotal()

	one := Sectioned([]Section{{ID: "s1", Title: "All works", LineItems: items}}).Subtotal()
	split := Sectioned([]Section{
		{ID: "s1", Title: "Civil", LineItems: items[:1]},
		{ID: "s2", Title: "Survey", LineItems: items[1:]},
		{ID: "s3", Title: "Empty"},
	}).Subtotal()

	if flat != one || flat != split {
		t.Fatalf("grouping changed subtotal: flat=%v one=%v split=%v", flat, one, split)
	}
}

func TestComputeIsPure(t *testing.T) {
	col := Flat(twoItemFixture())
	d := Discount{Kind: DiscountPercentage, Value: 12.5}
	first := Compute(col, d, 15)
	second := Compute(col, d, 15)
	if first != second {
		t.Fatalf("repeated compute diverged: %+v vs %+v", first, second)
	}
}

func TestComputeIdentities(t *testing.T) {
	cases := []struct {
		name string
		d    Discount
		rate float64
	}{
		{"no discount", Discount{}, 15},
		{"percentage", Discount{Kind: DiscountPercentage, Value: 30}, 5},
		{"fixed under subtotal", Discount{Kind: DiscountFixed, Value: 100}, 15},
		{"fixed over subtotal", Discount{Kind: DiscountFixed, Value: 10000}, 15},
		{"zero rate", Discount{Kind: DiscountPercentage, Value: 10}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := Compute(Flat(twoItemFixture()), tc.d, tc.rate)
			if got := totals.Subtotal - totals.DiscountAmount; got != totals.TaxableAmount {
				t.Fatalf("taxable identity broken: %v != %v", got, totals.TaxableAmount)
			}
			if got := totals.TaxableAmount * tc.rate / 100; got != totals.TaxAmount {
				t.Fatalf("tax identity broken: %v != %v", got, totals.TaxAmount)
			}
			if got := totals.TaxableAmount + totals.TaxAmount; got != totals.GrandTotal {
				t.Fatalf("grand total identity broken: %v != %v", got, totals.GrandTotal)
			}
		})
	}
}

func TestComputeVariableVersusStandardRate(t *testing.T) {
	col := Flat(twoItemFixture())
	fixed := Compute(col, Discount{}, StandardVATRate)
	variable := Compute(col, Discount{}, 15)
	if fixed != variable {
		t.Fatalf("rate modes disagree: %+v vs %+v", fixed, variable)
	}
	zero := Compute(col, Discount{}, 0)
	if zero.TaxAmount != 0 || zero.GrandTotal != zero.TaxableAmount {
		t.Fatalf("zero-rate mode wrong: %+v", zero)
	}
}
