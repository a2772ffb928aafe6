/*
store.go - Persistence interfaces behind the group ledger

PURPOSE:
  The Ledger owns ordering and pricing; a Store only holds groups. Stores
  live for one session: the memory store by construction, the SQLite store
  because it opens ":memory:" unless told otherwise.

KEY INTERFACES:
  Store:    Ordered group storage (append, delete by id, load, clear)
  AuditLog: Append-only record of what happened to the ledger

ORDERING CONTRACT:
  Load returns groups in insertion order. Deleting a group never reorders
  the rest.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory, default for tests and dev
  - store/sqlite/sqlite.go: SQLite with a unique (salary, risk_class) index

SEE ALSO:
  - ledger.go: Higher-level operations using Store
*/
package ledger

import (
	"context"
	"time"

	"github.com/warp/arl-calculator/arl"
)

// =============================================================================
// STORE - Ordered group storage
// =============================================================================

// Store holds the groups of one ledger.
type Store interface {
	// Append stores g after every existing group. Returns ErrDuplicateGroup
	// if a group with the same salary and risk class is already stored.
	Append(ctx context.Context, g arl.EmployeeGroup) error

	// Delete removes the group with id and returns it.
	// Returns ErrGroupNotFound if there is none.
	Delete(ctx context.Context, id arl.GroupID) (arl.EmployeeGroup, error)

	// Load returns all groups in insertion order.
	Load(ctx context.Context) ([]arl.EmployeeGroup, error)

	// Clear removes every group and returns how many there were.
	Clear(ctx context.Context) (int, error)
}

// =============================================================================
// AUDIT LOG - Separate from groups, tracks what happened when
// =============================================================================

type AuditAction string

const (
	AuditGroupAdded    AuditAction = "group_added"
	AuditGroupRemoved  AuditAction = "group_removed"
	AuditLedgerCleared AuditAction = "ledger_cleared"
	AuditExported      AuditAction = "exported"
)

// AuditEntry records one ledger event.
type AuditEntry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    AuditAction       `json:"action"`
	GroupID   arl.GroupID       `json:"groupId,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	Record(ctx context.Context, entry AuditEntry) error
	Entries(ctx context.Context) ([]AuditEntry, error)
}
