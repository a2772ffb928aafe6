/*
errors.go - Error types for the contribution core

ERROR CATEGORIES:
  1. Invalid input - a computation received out-of-domain arguments. Fatal
     to the call; the host must re-prompt.
  2. Validation - a submission broke an acceptance rule. Recoverable; the
     Field tells the host which form control to flag.

USAGE:
  if errors.Is(err, arl.ErrValidation) {
      var vErr *arl.ValidationError
      errors.As(err, &vErr)
      focus(vErr.Field)
  }

SEE ALSO:
  - ledger/errors.go: NotFound / Empty failures
*/
package arl

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned by the engine for missing or unknown
	// salary/classification arguments.
	ErrInvalidInput = errors.New("invalid calculation input")

	// ErrValidation is returned when a submission fails an acceptance rule.
	ErrValidation = errors.New("validation failed")
)

// Fields reported by ValidationError, in check order.
const (
	FieldEmployeeCount = "employee_count"
	FieldSalary        = "salary"
	FieldRiskClass     = "risk_class"
	FieldDuplicate     = "duplicate"
)

// InputError carries the reason an engine computation was refused.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalidInput(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError names the first rule a submission violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsDuplicate reports whether err is the duplicate-combination failure.
func IsDuplicate(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) && vErr.Field == FieldDuplicate
}
