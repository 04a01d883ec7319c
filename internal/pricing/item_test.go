package pricing

import (
	"math"
	"testing"
)

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 2.5, 2.5},
		{"int", 7, 7},
		{"numeric string", " 12.75 ", 12.75},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"negative inf", math.Inf(-1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceNumber(tc.in); got != tc.want {
				t.Fatalf("CoerceNumber(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewLineItemDefaults(t *testing.T) {
	li := NewLineItem()
	if li.ID == "" {
		t.Fatal("expected generated ID")
	}
	if li.Quantity != 1 || li.UnitPrice != 0 || li.Total != 0 {
		t.Fatalf("unexpected defaults: %+v", li)
	}
}

func TestApplyRecomputesTotalInSameCall(t *testing.T) {
	li := NewLineItem()
	li.Apply(FieldUnitPrice, 40)
	if li.Total != 40 {
		t.Fatalf("total = %v, want 40", li.Total)
	}
	li.Apply(FieldQuantity, 5)
	if li.Total != 200 {
		t.Fatalf("total = %v, want 200", li.Total)
	}
	li.Apply(FieldQuantity, "not a number")
	if li.Quantity != 0 || li.Total != 0 {
		t.Fatalf("bad input must zero out: %+v", li)
	}
}

func TestQuantityEditUpdatesParentSubtotalOnly(t *testing.T) {
	items := twoItemFixture()
	before := Flat(items).Subtotal()
	if before != 550 {
		t.Fatalf("fixture subtotal = %v, want 550", before)
	}

	// qty 1 -> 5 on the 250 item; the other item is untouched.
	items[1].SetQuantity(5)
	if items[1].Total != 1250 {
		t.Fatalf("item total = %v, want 1250", items[1].Total)
	}
	if items[0].Total != 300 {
		t.Fatalf("sibling total changed: %v", items[0].Total)
	}
	if got := Flat(items).Subtotal(); got != 1550 {
		t.Fatalf("subtotal = %v, want 1550", got)
	}
}

func TestRemoveItem(t *testing.T) {
	items := twoItemFixture()
	removed := RemoveItem(items, items[0].ID)
	if len(removed) != 1 || removed[0].Description != "Site survey" {
		t.Fatalf("unexpected result: %+v", removed)
	}
	same := RemoveItem(removed, "missing-id")
	if len(same) != 1 {
		t.Fatalf("removal of unknown ID mutated list: %+v", same)
	}
}

func TestSectionLifecycle(t *testing.T) {
	s := NewSection("Civil Infrastructure")
	if len(s.LineItems) != 1 {
		t.Fatalf("new section should hold one blank item, got %d", len(s.LineItems))
	}
	added := s.AddItem()
	s.RemoveItem(added.ID)
	if len(s.LineItems) != 1 {
		t.Fatalf("expected single item after add/remove, got %d", len(s.LineItems))
	}
	// The model itself permits emptying; only the UI prevents it.
	s.RemoveItem(s.LineItems[0].ID)
	if got := s.Subtotal(); got != 0 {
		t.Fatalf("empty section subtotal = %v, want 0", got)
	}
}

func TestNormalizeRederivesTotal(t *testing.T) {
	li := LineItem{Description: "Imported row", Quantity: 4, UnitPrice: 9, Total: 999}
	li.Normalize()
	if li.Total != 36 {
		t.Fatalf("total = %v, want 36", li.Total)
	}
	if li.ID == "" {
		t.Fatal("normalize should assign missing ID")
	}
}

func TestFormatAmountDoesNotTouchValue(t *testing.T) {
	v := 1234567.891
	got := FormatAmount(v, "SAR")
	if got != "SAR 1,234,567.89" {
		t.Fatalf("formatted = %q", got)
	}
	if v != 1234567.891 {
		t.Fatal("formatting mutated the value")
	}
}
