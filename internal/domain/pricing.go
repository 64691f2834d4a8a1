package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is printed before every formatted amount.
const CurrencyPrefix = "R$"

// moneyPlaces is the number of decimal places used for display and payloads.
const moneyPlaces = 2

// LineTotal is quantity × unit price.
func LineTotal(item LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Total sums every line of the draft and rounds to cents.
func Total(d *Draft) decimal.Decimal {
	total := decimal.Zero
	for _, id := range d.order {
		total = total.Add(LineTotal(*d.items[id]))
	}
	return total.Round(moneyPlaces)
}

// ChangeDue is max(0, tendered - total). It is absent when nothing was tendered.
func ChangeDue(tendered decimal.NullDecimal, total decimal.Decimal) decimal.NullDecimal {
	if !tendered.Valid {
		return decimal.NullDecimal{}
	}
	change := tendered.Decimal.Sub(total)
	if change.IsNegative() {
		change = decimal.Zero
	}
	return decimal.NewNullDecimal(change.Round(moneyPlaces))
}

// FormatMoney renders d as "R$ 25.00".
func FormatMoney(d decimal.Decimal) string {
	return CurrencyPrefix + " " + d.StringFixed(moneyPlaces)
}

// FormatOptionalMoney renders an absent amount as zero.
func FormatOptionalMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return FormatMoney(decimal.Zero)
	}
	return FormatMoney(d.Decimal)
}

// ParseMoney reads an operator-typed amount. Either '.' or ',' may be the
// decimal separator; when both appear the rightmost one is the separator and
// the other is a grouping mark. Empty, malformed or negative input yields zero.
func ParseMoney(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, CurrencyPrefix))
	if s == "" {
		return decimal.Zero
	}

	sep := strings.LastIndexAny(s, ".,")
	if sep >= 0 {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:sep])
		s = intPart + "." + s[sep+1:]
	}
	if strings.Trim(s, "0123456789.") != "" || s == "." {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
