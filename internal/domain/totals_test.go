package domain

import (
	"testing"
)

func sampleLines() []InvoiceItem {
	return []InvoiceItem{
		NewInvoiceItem("Design", 2, 50),
		NewInvoiceItem("Hosting", 1, 30),
	}
}

func TestCalculateTotals_PercentageDiscount(t *testing.T) {
	got := CalculateTotals(sampleLines(), 10, DiscountPercentage, 5)

	want := Totals{Subtotal: 130, TaxAmount: 13, DiscountAmount: 6.5, Total: 136.5}
	if got != want {
		t.Fatalf("CalculateTotals() = %+v, want %+v", got, want)
	}
}

func TestCalculateTotals_FixedDiscount(t *testing.T) {
	got := CalculateTotals(sampleLines(), 10, DiscountFixed, 20)

	want := Totals{Subtotal: 130, TaxAmount: 13, DiscountAmount: 20, Total: 123}
	if got != want {
		t.Fatalf("CalculateTotals() = %+v, want %+v", got, want)
	}
}

func TestCalculateTotals_FixedDiscountNotClamped(t *testing.T) {
	got := CalculateTotals(sampleLines(), 0, DiscountFixed, 200)
	if got.Total != -70 {
		t.Fatalf("expected total -70, got %v", got.Total)
	}
}

func TestCalculateTotals_TrustsStoredLineTotals(t *testing.T) {
	stale := []InvoiceItem{{Quantity: 3, UnitPrice: 10, Total: 5}}
	got := CalculateTotals(stale, 0, DiscountPercentage, 0)
	if got.Subtotal != 5 {
		t.Fatalf("expected subtotal from stored total (5), got %v", got.Subtotal)
	}
}

func TestCalculateTotals_Identity(t *testing.T) {
	lines := []InvoiceItem{
		NewInvoiceItem("a", 1.5, 19.99),
		NewInvoiceItem("b", 7, 0.1),
		NewInvoiceItem("c", 0, 1000),
	}

	tests := []struct {
		name     string
		taxRate  float64
		discount DiscountType
		value    float64
	}{
		{"no tax no discount", 0, DiscountPercentage, 0},
		{"tax and percentage", 8.25, DiscountPercentage, 12.5},
		{"tax and fixed", 20, DiscountFixed, 3.33},
		{"empty discount type behaves as percentage", 5, "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(lines, tt.taxRate, tt.discount, tt.value)

			var sum float64
			for _, li := range lines {
				sum += li.Total
			}
			tax := sum * (tt.taxRate / 100)
			discount := sum * (tt.value / 100)
			if tt.discount == DiscountFixed {
				discount = tt.value
			}

			if got.Subtotal != sum || got.TaxAmount != tax || got.DiscountAmount != discount {
				t.Fatalf("unexpected breakdown %+v", got)
			}
			if got.Total != sum+tax-discount {
				t.Fatalf("total %v != %v", got.Total, sum+tax-discount)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"abc", 0},
		{"12abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"12.5", 12.5},
		{" 42 ", 42},
		{"$1,250.00", 1250},
		{"-3", -3},
	}

	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
