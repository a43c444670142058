package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds on money values accepted from callers. MaxAmountScale matches the
// precision used when dividing a group total.
const (
	MaxAmountScale         = 16
	MaxAmountIntegerDigits = 18
)

// CheckAmountBounds rejects values with more than MaxAmountScale fractional
// digits or MaxAmountIntegerDigits integer digits. Sign is not checked.
func CheckAmountBounds(field string, d decimal.Decimal) error {
	if d.Exponent() < -MaxAmountScale {
		return fmt.Errorf("%w: %s allows at most %d decimal places", ErrInvalidAmount, field, MaxAmountScale)
	}
	if int64(d.NumDigits())+int64(d.Exponent()) > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: %s must be below 1e%d", ErrInvalidAmount, field, MaxAmountIntegerDigits)
	}
	return nil
}
