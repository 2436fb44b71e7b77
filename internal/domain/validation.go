package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall   = errors.New("amount below minimum allowed")
	ErrMetadataTooLarge = errors.New("metadata size exceeds limit")
)

// Validation constants
const (
	MaxMetadataSize = 10240 // 10KB
	MaxAmount       = "1000000000"
	MinAmount       = "0.01"
)

var (
	maxAmount = decimal.RequireFromString(MaxAmount)
	minAmount = decimal.RequireFromString(MinAmount)
)

// Pay currencies accepted by the gateway integration.
var validPayCurrencies = map[string]bool{
	"btc": true, "eth": true, "ltc": true, "trx": true,
	"usdttrc20": true, "usdterc20": true, "usdtbsc": true,
	"usdcerc20": true, "bnbbsc": true, "sol": true, "ton": true,
}

// ValidateAmount normalizes amount to two decimals and checks its bounds.
func ValidateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := RoundMoney(amount)

	if !rounded.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	if rounded.LessThan(minAmount) {
		return decimal.Zero, fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinAmount)
	}

	if rounded.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return rounded, nil
}

// NormalizePayCurrency lowercases a gateway currency ticker and checks it is supported.
func NormalizePayCurrency(currency string) (string, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))

	if !validPayCurrencies[currency] {
		return "", fmt.Errorf("%w: %q", ErrInvalidPayCurrency, currency)
	}

	return currency, nil
}

// ValidateMetadata validates metadata size
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataTooLarge, err)
	}

	if len(data) > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, len(data), MaxMetadataSize)
	}

	return nil
}

// ClampLimit applies the default page size and bounds a list limit to [1, max].
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}

	if limit > max {
		return max
	}

	return limit
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	limit = ClampLimit(limit, DefaultPageSize, MaxPageSize)

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// IsValidationError reports whether err belongs to the input validation class.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrAmountTooSmall, ErrAmountTooLarge, ErrInvalidEntryKind,
		ErrInvalidPayCurrency, ErrMetadataTooLarge, ErrInvalidWebhookPayload, ErrMissingMarathonForJoin,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
