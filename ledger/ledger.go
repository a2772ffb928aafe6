/*
Package ledger owns the ordered, in-memory collection of employee groups.

PURPOSE:
  The Ledger is the only owner of EmployeeGroup values for a session.
  Groups are priced once, on Add, and never edited afterwards. A group is
  corrected by removing it and adding a new one.

INVARIANTS:
  1. ORDERED: Snapshot returns groups in insertion order
  2. UNIQUE PAIR: no two groups share (salary, risk class). Validation
     decides this before Add; stores refuse it as a backstop
  3. NO PARTIAL INSERT: if pricing fails, nothing is stored
  4. DERIVED TOTALS: aggregates and statistics are recomputed per call

CALLER CONTRACT:
  Only submissions that passed arl.ValidateSubmission reach Add. Invalid
  data that slips through fails loudly with the engine's ErrInvalidInput.

EXAMPLE:
  l := ledger.New(store.NewMemory())
  g, err := l.Add(ctx, arl.GroupInput{EmployeeCount: 3, Salary: 1_500_000, RiskClass: arl.ClassIII})
  totals, _ := l.Aggregate(ctx)

SEE ALSO:
  - store.go: Store and AuditLog interfaces
  - statistics.go: Extended statistics
  - calculator/calculator.go: Validation + ledger for the host
*/
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/warp/arl-calculator/arl"
)

// Ledger is not safe for concurrent mutation; the host serializes calls.
type Ledger struct {
	store Store
	now   func() time.Time
	newID func() arl.GroupID
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the creation-time source. Defaults to time.Now in UTC.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator sets the identifier source. Defaults to random UUIDs.
func WithIDGenerator(newID func() arl.GroupID) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates a ledger over store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() arl.GroupID { return arl.GroupID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add prices in and appends it as a new group.
func (l *Ledger) Add(ctx context.Context, in arl.GroupInput) (arl.EmployeeGroup, error) {
	contributions, err := arl.ComputeGroupContributions(in.EmployeeCount, in.Salary, in.RiskClass)
	if err != nil {
		return arl.EmployeeGroup{}, err
	}

	g := arl.EmployeeGroup{
		ID:             l.newID(),
		EmployeeCount:  in.EmployeeCount,
		Salary:         in.Salary,
		RiskClass:      in.RiskClass,
		EconomicSector: in.EconomicSector,
		Contributions:  contributions,
		CreatedAt:      l.now(),
	}
	if err := l.store.Append(ctx, g); err != nil {
		return arl.EmployeeGroup{}, err
	}
	return g, nil
}

// Remove deletes the group with id and returns it for notification purposes.
func (l *Ledger) Remove(ctx context.Context, id arl.GroupID) (arl.EmployeeGroup, error) {
	g, err := l.store.Delete(ctx, id)
	if errors.Is(err, ErrGroupNotFound) {
		return arl.EmployeeGroup{}, &GroupNotFoundError{ID: id}
	}
	return g, err
}

// Clear empties the ledger and returns how many groups were removed.
// Returns ErrLedgerEmpty if there was nothing to remove.
func (l *Ledger) Clear(ctx context.Context) (int, error) {
	n, err := l.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrLedgerEmpty
	}
	return n, nil
}

// =============================================================================
// READS
// =============================================================================

// Snapshot returns a copy of the groups in insertion order.
func (l *Ledger) Snapshot(ctx context.Context) ([]arl.EmployeeGroup, error) {
	groups, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []arl.EmployeeGroup{}
	}
	return groups, nil
}

// Aggregate sums the current groups.
func (l *Ledger) Aggregate(ctx context.Context) (arl.AggregateTotals, error) {
	groups, err := l.store.Load(ctx)
	if err != nil {
		return arl.AggregateTotals{}, err
	}
	return arl.ComputeAggregateTotals(groups), nil
}

// Statistics derives the extended statistics of the current groups.
func (l *Ledger) Statistics(ctx context.Context) (Statistics, error) {
	groups, err := l.store.Load(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(groups), nil
}

// Len returns the number of groups.
func (l *Ledger) Len(ctx context.Context) (int, error) {
	groups, err := l.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(groups), nil
}
