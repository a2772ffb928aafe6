/*
Package arl provides the contribution core of the ARL calculator.

PURPOSE:
  ARL (occupational-risk insurance) contributions are priced per employee
  group: every employee in a group shares one salary and one risk
  classification. This package holds the fixed rate table, the pure
  contribution arithmetic, raw form parsing, and the acceptance rules that
  run before anything is stored.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: whole currency units (no subunits)
  - Rate: a percentage from the rate table (e.g. 2.436 means 2.436%)
  - Classification: the five risk classes
  - EmployeeGroup: a priced cohort, immutable once created
  - AggregateTotals: sums across groups, always derived

DESIGN PRINCIPLES:
  1. Precision: rates are decimal.Decimal; only the monthly product is
     taken in float64, so quotes match double arithmetic
  2. Purity: nothing in this package logs, stores, or reads the clock
  3. Replace-only: groups are never edited, only removed and re-added

SEE ALSO:
  - rates.go: Rate table and limits
  - contribution.go: Contribution engine
  - validation.go: Acceptance rules
  - ledger/ledger.go: Ordered collection of groups
*/
package arl

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TimestampLayout is millisecond ISO-8601 in UTC, e.g. 2026-10-19T09:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t with TimestampLayout. The zero time renders empty.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// =============================================================================
// MONEY AND RATES
// =============================================================================

// Money is an amount in whole currency units.
type Money int64

// Rate is a contribution percentage. It marshals to a bare JSON number.
type Rate struct {
	decimal.Decimal
}

// MustRate parses a percentage literal. It panics on malformed input and is
// meant for the static rate table.
func MustRate(s string) Rate {
	return Rate{Decimal: decimal.RequireFromString(s)}
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.String()), nil
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	return r.Decimal.UnmarshalJSON(b)
}

// =============================================================================
// IDENTIFIERS AND ENUMS
// =============================================================================

// GroupID is an opaque group identifier, stable for the group's lifetime.
type GroupID string

// Classification is a risk class in 1..5.
type Classification int

const (
	ClassI Classification = iota + 1
	ClassII
	ClassIII
	ClassIV
	ClassV
)

// Sector is an optional economic sector key. It is display metadata only
// and never affects a calculation.
type Sector string

const (
	SectorNone        Sector = ""
	SectorCommerce    Sector = "commerce"
	SectorAgriculture Sector = "agriculture"
	SectorFood        Sector = "food"
	SectorTextiles    Sector = "textiles"
	SectorOil         Sector = "oil"
)

// =============================================================================
// GROUPS
// =============================================================================

// GroupInput is a parsed submission, not yet validated.
type GroupInput struct {
	EmployeeCount  int
	Salary         Money
	RiskClass      Classification
	EconomicSector Sector
}

// Contributions is the cached pricing of a group, computed once at creation.
type Contributions struct {
	MonthlyPerEmployee Money `json:"monthlyPerEmployee"`
	AnnualPerEmployee  Money `json:"annualPerEmployee"`
	MonthlyTotal       Money `json:"monthlyTotal"`
	AnnualTotal        Money `json:"annualTotal"`
	EffectiveRate      Rate  `json:"effectiveRate"`
}

// EmployeeGroup is a cohort of employees sharing salary and risk class.
type EmployeeGroup struct {
	ID             GroupID        `json:"id"`
	EmployeeCount  int            `json:"employeeCount"`
	Salary         Money          `json:"salary"`
	RiskClass      Classification `json:"riskClass"`
	EconomicSector Sector         `json:"economicSector"`
	Contributions  Contributions  `json:"contributions"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// MarshalJSON writes CreatedAt with millisecond precision.
func (g EmployeeGroup) MarshalJSON() ([]byte, error) {
	type plain EmployeeGroup
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"createdAt,omitempty"`
	}{plain: plain(g), CreatedAt: FormatTimestamp(g.CreatedAt)})
}

// AggregateTotals sums employees and contributions across groups.
type AggregateTotals struct {
	TotalEmployees int   `json:"totalEmployees"`
	TotalMonthly   Money `json:"totalMonthlyAmount"`
	TotalAnnual    Money `json:"totalAnnualAmount"`
}
