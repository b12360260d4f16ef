package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 2 // 2 decimal places for display currency (0.01 precision)

// maxIntegerDigits bounds the integer part of an accepted amount.
const maxIntegerDigits = 15

var (
	// ErrNotANumber is returned by ParseAmount for text that is not a positive decimal.
	ErrNotANumber = errors.New("not a positive number")

	// ErrAmountTooLarge is returned by ParseAmount for amounts with more than maxIntegerDigits
	// integer digits.
	ErrAmountTooLarge = errors.New("amount too large")
)

// ParseAmount parses user-entered money. Surrounding whitespace is ignored and the value is
// rounded to monetaryPrecision; zero and negative amounts are rejected, and amounts above
// maxIntegerDigits integer digits fail with ErrAmountTooLarge.
func ParseAmount(text string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return decimal.Zero, ErrNotANumber
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, trimmed)
	}

	// Rounding rescales the coefficient, so magnitudes are checked on the exponent first.
	integerDigits := int64(amount.NumDigits()) + int64(amount.Exponent())
	if integerDigits > maxIntegerDigits {
		if !amount.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, trimmed)
		}
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountTooLarge, trimmed)
	}
	if integerDigits < -int64(monetaryPrecision) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, trimmed)
	}

	amount = amount.Round(monetaryPrecision)
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, trimmed)
	}
	return amount, nil
}

// Money builds an amount from a float literal, rounded to monetaryPrecision.
func Money(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(monetaryPrecision)
}

// FormatMoney renders an amount with the currency symbol and exactly two decimals.
func FormatMoney(currency string, amount decimal.Decimal) string {
	return currency + amount.StringFixed(monetaryPrecision)
}
