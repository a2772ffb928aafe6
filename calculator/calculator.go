/*
Package calculator is the single entry point the host uses to drive the
contribution core.

PURPOSE:
  A Calculator ties raw form parsing, acceptance rules, the group ledger,
  the export serializer, and the audit log together. The host hands it raw
  strings and renders whatever comes back; it never prices or validates on
  its own.

OPERATIONS:
  AddGroup:         parse, validate against the current snapshot, then add
  RemoveGroup:      remove by identifier
  ClearAll:         empty the ledger
  Snapshot:         ordered copy of the groups
  Aggregate:        totals across groups
  Statistics:       extended statistics
  ExportTabular:    CSV document for download
  ExportStructured: JSON document for download
  History:          audit entries in recording order

FAILURES:
  - *arl.ValidationError (ErrValidation): rejected submission, ledger unchanged
  - ledger.ErrGroupNotFound: unknown identifier, ledger unchanged
  - ledger.ErrLedgerEmpty: nothing to clear or export
  - arl.ErrInvalidInput: a submission that skipped validation

AUDIT:
  Recording is best-effort. A mutation that succeeded is reported as a
  success even when its audit entry could not be written; the failure goes
  to the handler set with WithAuditErrorHandler.

CONCURRENCY:
  One Calculator per session. Calls must be serialized by the host.

SEE ALSO:
  - arl/validation.go: Acceptance rules
  - ledger/ledger.go: Group storage
  - export/export.go: Document rendering
*/
package calculator

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/export"
	"github.com/warp/arl-calculator/ledger"
)

// Calculator is the session-scoped facade over the core.
type Calculator struct {
	ledger   *ledger.Ledger
	audit    ledger.AuditLog
	now      func() time.Time
	location *time.Location
	onAudit  func(ledger.AuditAction, error)
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock sets the time source for exports and audit entries.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithLocation sets the zone used for dates in the tabular export.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) { c.location = loc }
}

// WithAuditErrorHandler receives audit entries that could not be recorded.
func WithAuditErrorHandler(fn func(action ledger.AuditAction, err error)) Option {
	return func(c *Calculator) { c.onAudit = fn }
}

// New creates a Calculator over l. audit may be nil, in which case nothing
// is recorded and History is always empty.
func New(l *ledger.Ledger, audit ledger.AuditLog, opts ...Option) *Calculator {
	c := &Calculator{
		ledger:   l,
		audit:    audit,
		now:      func() time.Time { return time.Now().UTC() },
		location: time.UTC,
		onAudit:  func(ledger.AuditAction, error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Export is a rendered document ready to be served as a download.
type Export struct {
	Kind        export.Kind
	Filename    string
	ContentType string
	Body        []byte
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AddGroup parses raw form input, validates it against the current groups,
// and adds it. On any failure the ledger is unchanged.
func (c *Calculator) AddGroup(ctx context.Context, raw arl.RawGroupInput) (arl.EmployeeGroup, error) {
	in := arl.ParseGroupInput(raw)

	existing, err := c.ledger.Snapshot(ctx)
	if err != nil {
		return arl.EmployeeGroup{}, err
	}
	if err := arl.ValidateSubmission(existing, in); err != nil {
		return arl.EmployeeGroup{}, err
	}

	g, err := c.ledger.Add(ctx, in)
	if err != nil {
		return arl.EmployeeGroup{}, err
	}

	c.record(ctx, ledger.AuditGroupAdded, g.ID, map[string]string{
		"employee_count": strconv.Itoa(g.EmployeeCount),
		"salary":         strconv.FormatInt(int64(g.Salary), 10),
		"risk_class":     strconv.Itoa(int(g.RiskClass)),
		"monthly_total":  strconv.FormatInt(int64(g.Contributions.MonthlyTotal), 10),
	})
	return g, nil
}

// RemoveGroup removes the group with id and returns it.
func (c *Calculator) RemoveGroup(ctx context.Context, id arl.GroupID) (arl.EmployeeGroup, error) {
	g, err := c.ledger.Remove(ctx, id)
	if err != nil {
		return arl.EmployeeGroup{}, err
	}

	c.record(ctx, ledger.AuditGroupRemoved, g.ID, map[string]string{
		"employee_count": strconv.Itoa(g.EmployeeCount),
	})
	return g, nil
}

// ClearAll removes every group and returns how many there were.
func (c *Calculator) ClearAll(ctx context.Context) (int, error) {
	n, err := c.ledger.Clear(ctx)
	if err != nil {
		return 0, err
	}

	c.record(ctx, ledger.AuditLedgerCleared, "", map[string]string{
		"groups": strconv.Itoa(n),
	})
	return n, nil
}

// =============================================================================
// READS
// =============================================================================

func (c *Calculator) Snapshot(ctx context.Context) ([]arl.EmployeeGroup, error) {
	return c.ledger.Snapshot(ctx)
}

func (c *Calculator) Aggregate(ctx context.Context) (arl.AggregateTotals, error) {
	return c.ledger.Aggregate(ctx)
}

func (c *Calculator) Statistics(ctx context.Context) (ledger.Statistics, error) {
	return c.ledger.Statistics(ctx)
}

// History returns the audit entries in recording order.
func (c *Calculator) History(ctx context.Context) ([]ledger.AuditEntry, error) {
	if c.audit == nil {
		return []ledger.AuditEntry{}, nil
	}
	return c.audit.Entries(ctx)
}

// =============================================================================
// EXPORTS
// =============================================================================

// ExportTabular renders the ledger as CSV. Returns ErrLedgerEmpty when
// there are no groups.
func (c *Calculator) ExportTabular(ctx context.Context) (Export, error) {
	return c.export(ctx, export.KindTabular, func(buf *bytes.Buffer, groups []arl.EmployeeGroup, at time.Time) error {
		return export.WriteTabular(buf, groups, export.TabularOptions{Location: c.location})
	})
}

// ExportStructured renders the ledger as a JSON summary. Returns
// ErrLedgerEmpty when there are no groups.
func (c *Calculator) ExportStructured(ctx context.Context) (Export, error) {
	return c.export(ctx, export.KindStructured, func(buf *bytes.Buffer, groups []arl.EmployeeGroup, at time.Time) error {
		return export.WriteStructured(buf, groups, at)
	})
}

type renderFunc func(buf *bytes.Buffer, groups []arl.EmployeeGroup, at time.Time) error

func (c *Calculator) export(ctx context.Context, kind export.Kind, render renderFunc) (Export, error) {
	groups, err := c.ledger.Snapshot(ctx)
	if err != nil {
		return Export{}, err
	}
	if len(groups) == 0 {
		return Export{}, ledger.ErrLedgerEmpty
	}

	at := c.now()
	var buf bytes.Buffer
	if err := render(&buf, groups, at); err != nil {
		return Export{}, fmt.Errorf("failed to render %s export: %w", kind, err)
	}

	out := Export{
		Kind:        kind,
		Filename:    export.Filename(kind, at),
		ContentType: kind.ContentType(),
		Body:        buf.Bytes(),
	}

	c.record(ctx, ledger.AuditExported, "", map[string]string{
		"format": string(kind),
		"groups": strconv.Itoa(len(groups)),
	})
	return out, nil
}

// =============================================================================
// AUDIT
// =============================================================================

// record never fails the operation that triggered it.
func (c *Calculator) record(ctx context.Context, action ledger.AuditAction, id arl.GroupID, details map[string]string) {
	if c.audit == nil {
		return
	}
	err := c.audit.Record(ctx, ledger.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: c.now(),
		Action:    action,
		GroupID:   id,
		Details:   details,
	})
	if err != nil {
		c.onAudit(action, fmt.Errorf("failed to record %s: %w", action, err))
	}
}
