package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned for non-positive or non-numeric amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrContactNotFound is returned when a referenced contact is absent or
	// owned by another user. The two cases are indistinguishable to callers.
	ErrContactNotFound = errors.New("contact not found")

	// ErrPayerNotInGroup is returned when a group payer is neither USER nor
	// one of the participants.
	ErrPayerNotInGroup = errors.New("payer is not a participant")

	// ErrSplitMismatch is returned when manual shares do not add up to the total.
	ErrSplitMismatch = errors.New("split does not match total")

	// ErrValidationFailed is returned for field-shape errors.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotFound is returned for any other missing record scoped to a user.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// SplitMismatchError carries both totals so callers can show the discrepancy.
type SplitMismatchError struct {
	Expected decimal.Decimal
	Computed decimal.Decimal
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split does not match total: expected %s, shares add up to %s",
		e.Expected.String(), e.Computed.String())
}

func (e *SplitMismatchError) Unwrap() error {
	return ErrSplitMismatch
}

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrPayerNotInGroup) ||
		errors.Is(err, ErrSplitMismatch) ||
		errors.Is(err, ErrValidationFailed)
}

// IsNotFound returns true if the error indicates a missing or foreign record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound) ||
		errors.Is(err, ErrNotFound)
}
