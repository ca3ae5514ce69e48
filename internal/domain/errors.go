package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPrice is matched by every InvalidPriceError through errors.Is
	ErrInvalidPrice = errors.New("invalid benchmark price")

	// ErrNoDeposits is returned when a comparison is requested over an empty ledger
	ErrNoDeposits = errors.New("no deposits recorded")

	// ErrPriceUnavailable is the cause attached when no source knows a close for the date
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrNotFound is returned by repositories when a row does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched by every ValidationError through errors.Is
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports input rejected by an entity or usecase rule.
// Its message is shown to the caller as is.
type ValidationError struct {
	Message string
}

// NewValidationError formats a ValidationError
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidPriceError reports a price input that is non-positive or could not be resolved.
type InvalidPriceError struct {
	Field string          // which input was rejected, e.g. "current_price"
	Price decimal.Decimal // the offending value, zero when unavailable
	Cause error
}

func (e *InvalidPriceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("invalid %s: %s must be positive", e.Field, e.Price.String())
}

func (e *InvalidPriceError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrInvalidPrice) match any InvalidPriceError
func (e *InvalidPriceError) Is(target error) bool {
	return target == ErrInvalidPrice
}
