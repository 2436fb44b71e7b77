package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every monetary value.
const MoneyScale = 2

// RoundMoney normalizes an amount to two decimal places, rounding half up.
// Amounts reaching the ledger are positive, so decimal's half-away-from-zero
// rounding is the same as half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// ParseMoney parses a decimal string and normalizes it to two decimal places.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, s)
	}

	return RoundMoney(d), nil
}
