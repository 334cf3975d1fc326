package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MonetaryPrecision is the number of decimal places kept for amounts and prices (cents).
const MonetaryPrecision int32 = 2

// MaxAmount is the largest amount a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// exceedsMax reports whether a normalized amount would overflow storage.
func exceedsMax(d decimal.Decimal) bool {
	return d.GreaterThan(MaxAmount)
}

// NormalizeAmount rounds to MonetaryPrecision so comparisons never see float noise.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(MonetaryPrecision)
}

// ParseMoney parses a user supplied amount such as "120" or "99.95".
func ParseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", raw)
	}
	d = NormalizeAmount(d)
	if exceedsMax(d) {
		return decimal.Zero, fmt.Errorf("%q exceeds the maximum amount %s", raw, MaxAmount.StringFixed(MonetaryPrecision))
	}
	return d, nil
}
