package orders

import (
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/cart"
	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/money"
)

// TaxRatePercent is the VAT applied on top of the subtotal.
const TaxRatePercent = 20

// ComputeTotals prices lines in currency. Shipping is always free.
func ComputeTotals(lines []cart.LineItem, currency money.Currency) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice(currency) * int64(l.Quantity)
	}
	tax := roundPercent(subtotal, TaxRatePercent)
	var shipping int64
	return Totals{
		Currency:      currency,
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + tax + shipping,
	}
}

// roundPercent is round(amount * pct / 100) with halves rounded up, for non-negative amounts.
func roundPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
