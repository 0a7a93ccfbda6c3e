package domain

import (
	"math"
	"strconv"
	"strings"
)

// Totals is the result of pricing an invoice
type Totals struct {
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	Total          float64
}

// CalculateTotals prices a list of lines. Line totals are trusted as stored;
// callers keep them current through SetQuantity and SetUnitPrice. A fixed
// discount is not clamped, so the total can go negative. No rounding is applied.
func CalculateTotals(items []InvoiceItem, taxRate float64, discountType DiscountType, discountValue float64) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Total
	}
	t.TaxAmount = t.Subtotal * (taxRate / 100)
	if discountType == DiscountFixed {
		t.DiscountAmount = discountValue
	} else {
		t.DiscountAmount = t.Subtotal * (discountValue / 100)
	}
	t.Total = t.Subtotal + t.TaxAmount - t.DiscountAmount
	return t
}

// ParseAmount parses user-entered numeric text; anything that is not a finite
// number becomes 0
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0
	}
	return f
}

// finite reports whether f is neither NaN nor an infinity
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
