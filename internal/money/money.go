package money

import (
	"strings"

	"github.com/CodeNoLimits/ultime-barukh-sagit-jewelry/internal/i18n"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	EUR Currency = "EUR"
	ILS Currency = "ILS"
)

func (c Currency) Valid() bool {
	return c == EUR || c == ILS
}

// ParseCurrency accepts upper or lower case codes. ok is false for anything else.
func ParseCurrency(code string) (Currency, bool) {
	c := Currency(strings.ToUpper(code))
	return c, c.Valid()
}

// ForLocale is the currency prices are shown in for a locale.
func ForLocale(l i18n.Locale) Currency {
	if l == i18n.Hebrew {
		return ILS
	}
	return EUR
}

// Format renders an amount of minor units the way the storefront displays it:
// "1\u202f299,00\u00a0€" for euros (narrow no-break space between thousands, no-break
// space before the sign) and "₪1,299.00" for shekels.
func Format(cents int64, c Currency) string {
	amount := decimal.New(cents, -2)
	neg := amount.IsNegative()
	whole, frac, _ := strings.Cut(amount.Abs().StringFixed(2), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	switch c {
	case ILS:
		b.WriteString("₪")
		b.WriteString(group(whole, ","))
		b.WriteString(".")
		b.WriteString(frac)
	default:
		b.WriteString(group(whole, " "))
		b.WriteString(",")
		b.WriteString(frac)
		b.WriteString(" €")
	}
	return b.String()
}

func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	parts := []string{digits[:head]}
	for i := head; i < len(digits); i += 3 {
		parts = append(parts, digits[i:i+3])
	}
	return strings.Join(parts, sep)
}
