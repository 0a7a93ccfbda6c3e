package domain

import (
	"github.com/Rhymond/go-money"
)

// FormatCurrency renders an amount for display. Amounts are always shown in
// USD, whatever the invoice's currency field says.
func FormatCurrency(amount float64) string {
	return money.NewFromFloat(amount, money.USD).Display()
}
