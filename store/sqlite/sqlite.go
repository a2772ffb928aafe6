/*
Package sqlite provides a SQLite-backed implementation of the ledger storage
interfaces.

PURPOSE:
  Implements ledger.Store and ledger.AuditLog on SQLite. The default path
  is ":memory:", so a ledger lives exactly as long as the process, the
  same as the memory store. A file path is accepted for local debugging.

INTERFACES IMPLEMENTED:
  ledger.Store:    Ordered group storage
  ledger.AuditLog: Append-only event log

KEY TABLES:
  employee_groups: One row per group, ordered by seq
  audit_log:       Ledger events, ordered by seq

INDEXES:
  - idx_unique_salary_class: Enforces the no-duplicate (salary, risk class)
    invariant at the database level

CONCURRENCY:
  A single connection is kept open. ":memory:" databases are private to a
  connection, and SQLite serializes writers anyway.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  l := ledger.New(store)

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/ledger"
)

// Store implements ledger.Store and ledger.AuditLog using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ ledger.Store    = (*Store)(nil)
	_ ledger.AuditLog = (*Store)(nil)
)

// New opens (and migrates) a SQLite store at dbPath.
// Use ":memory:" for a session-scoped database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employee_groups (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		employee_count INTEGER NOT NULL,
		salary INTEGER NOT NULL,
		risk_class INTEGER NOT NULL,
		economic_sector TEXT NOT NULL DEFAULT '',
		monthly_per_employee INTEGER NOT NULL,
		annual_per_employee INTEGER NOT NULL,
		monthly_total INTEGER NOT NULL,
		annual_total INTEGER NOT NULL,
		effective_rate TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- One group per (salary, risk class) pair
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_salary_class
		ON employee_groups(salary, risk_class);

	CREATE TABLE IF NOT EXISTS audit_log (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL,
		group_id TEXT,
		details_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_action
		ON audit_log(action);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// GROUPS
// =============================================================================

const groupColumns = `id, employee_count, salary, risk_class, economic_sector,
	monthly_per_employee, annual_per_employee, monthly_total, annual_total,
	effective_rate, created_at`

// Append inserts g as the last group.
func (s *Store) Append(ctx context.Context, g arl.EmployeeGroup) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employee_groups (`+groupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(g.ID),
		g.EmployeeCount,
		int64(g.Salary),
		int(g.RiskClass),
		string(g.EconomicSector),
		int64(g.Contributions.MonthlyPerEmployee),
		int64(g.Contributions.AnnualPerEmployee),
		int64(g.Contributions.MonthlyTotal),
		int64(g.Contributions.AnnualTotal),
		g.Contributions.EffectiveRate.String(),
		g.CreatedAt.Format(time.RFC3339Nano),
	)
	if isPairConstraintError(err) {
		return ledger.ErrDuplicateGroup
	}
	if err != nil {
		return fmt.Errorf("failed to append group: %w", err)
	}
	return nil
}

// Delete removes the group with id inside one transaction.
func (s *Store) Delete(ctx context.Context, id arl.GroupID) (arl.EmployeeGroup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return arl.EmployeeGroup{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM employee_groups WHERE id = ?`, string(id))
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return arl.EmployeeGroup{}, ledger.ErrGroupNotFound
	}
	if err != nil {
		return arl.EmployeeGroup{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM employee_groups WHERE id = ?`, string(id)); err != nil {
		return arl.EmployeeGroup{}, fmt.Errorf("failed to delete group: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return arl.EmployeeGroup{}, fmt.Errorf("failed to commit delete: %w", err)
	}
	return g, nil
}

// Load returns every group ordered by insertion.
func (s *Store) Load(ctx context.Context) ([]arl.EmployeeGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM employee_groups ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	defer rows.Close()

	groups := []arl.EmployeeGroup{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Clear deletes every group.
func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employee_groups`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear groups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (arl.EmployeeGroup, error) {
	var (
		g                           arl.EmployeeGroup
		id, sector, rate, createdAt string
		salary, riskClass           int64
		monthly, annual             int64
		monthlyTotal, annualTotal   int64
	)
	err := row.Scan(&id, &g.EmployeeCount, &salary, &riskClass, &sector,
		&monthly, &annual, &monthlyTotal, &annualTotal, &rate, &createdAt)
	if err != nil {
		return arl.EmployeeGroup{}, err
	}

	effectiveRate, err := decimal.NewFromString(rate)
	if err != nil {
		return arl.EmployeeGroup{}, fmt.Errorf("corrupt effective_rate %q: %w", rate, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return arl.EmployeeGroup{}, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}

	g.ID = arl.GroupID(id)
	g.Salary = arl.Money(salary)
	g.RiskClass = arl.Classification(riskClass)
	g.EconomicSector = arl.Sector(sector)
	g.Contributions = arl.Contributions{
		MonthlyPerEmployee: arl.Money(monthly),
		AnnualPerEmployee:  arl.Money(annual),
		MonthlyTotal:       arl.Money(monthlyTotal),
		AnnualTotal:        arl.Money(annualTotal),
		EffectiveRate:      arl.Rate{Decimal: effectiveRate},
	}
	g.CreatedAt = created
	return g, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

// Record appends an audit entry.
func (s *Store) Record(ctx context.Context, entry ledger.AuditEntry) error {
	var details sql.NullString
	if len(entry.Details) > 0 {
		b, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		details = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, timestamp, action, group_id, details_json)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.Format(time.RFC3339Nano),
		string(entry.Action),
		nullString(string(entry.GroupID)),
		details,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Entries returns the audit log in recording order.
func (s *Store) Entries(ctx context.Context) ([]ledger.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, action, group_id, details_json
		FROM audit_log ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	defer rows.Close()

	entries := []ledger.AuditEntry{}
	for rows.Next() {
		var (
			e                  ledger.AuditEntry
			ts, action         string
			groupID, detailsJS sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &action, &groupID, &detailsJS); err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("corrupt audit timestamp %q: %w", ts, err)
		}
		e.Action = ledger.AuditAction(action)
		e.GroupID = arl.GroupID(groupID.String)
		if detailsJS.Valid {
			if err := json.Unmarshal([]byte(detailsJS.String), &e.Details); err != nil {
				return nil, fmt.Errorf("corrupt audit details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// isPairConstraintError reports a violation of idx_unique_salary_class, as
// opposed to an id collision.
func isPairConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(sqliteErr.Error(), "employee_groups.salary")
}
