package ledger

import (
	"errors"
	"fmt"

	"github.com/warp/arl-calculator/arl"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrGroupNotFound is returned by Remove when no group has the identifier.
	// Non-fatal; the ledger is unchanged.
	ErrGroupNotFound = errors.New("group not found")

	// ErrLedgerEmpty is returned when clearing or exporting an empty ledger.
	// Informational; the ledger is unchanged.
	ErrLedgerEmpty = errors.New("ledger is empty")

	// ErrDuplicateGroup is returned by a Store asked to hold two groups with
	// the same (salary, risk class) pair.
	ErrDuplicateGroup = errors.New("duplicate salary and risk class combination")
)

// GroupNotFoundError names the identifier that did not match.
type GroupNotFoundError struct {
	ID arl.GroupID
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("group not found: %s", e.ID)
}

func (e *GroupNotFoundError) Unwrap() error {
	return ErrGroupNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether err stems from user input and should become
// a notification rather than a server failure.
func IsClientError(err error) bool {
	return errors.Is(err, arl.ErrValidation) ||
		errors.Is(err, ErrDuplicateGroup) ||
		errors.Is(err, ErrLedgerEmpty)
}

// IsNotFound reports whether err indicates a missing group.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound)
}
