package models

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced synchronously by mutating operations, always
// before any state change.
var (
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrInsufficientUnits    = errors.New("insufficient units")
	ErrPortfolioNotFound    = errors.New("portfolio not found")
	ErrPositionNotFound     = errors.New("position not found")
	ErrCashEntryNotFound    = errors.New("cash entry not found")
	ErrTradeNotFound        = errors.New("trade not found")
	ErrPortfolioActive      = errors.New("portfolio is active")
)

// ValidationError reports a rejected input field. Raised before any state
// change and returned to the caller synchronously.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation returns true if err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
