/*
contribution.go - Contribution engine

PURPOSE:
  Pure, side-effect-free pricing of employee groups.

ROUNDING:
  The monthly per-employee figure is computed in float64 as
  salary × (rate / 100) and rounded once to the nearest whole unit, ties
  upward. Quoted figures must agree with every other calculator using
  double arithmetic, so 1,301,000 at Class IV is 56,593 (the product is
  56,593.49999999999), not the 56,594 exact decimals would give. Annual
  figures multiply the already-rounded
  monthly figure by 12 and group totals multiply by headcount. Nothing is
  recomputed from the unrounded rate, so the rounding error compounds the
  same way every time.

EXAMPLE:
  salary 1,500,000 at Class III (2.436%):
    monthly per employee = round(1,500,000 × 2.436 / 100) = 36,540
    annual per employee  = 36,540 × 12                    = 438,480
*/
package arl

import (
	"math"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

var maxMoney = decimal.NewFromInt(math.MaxInt64)

// 2^63; every float64 below it converts to int64 exactly.
const maxMoneyFloat = 1 << 63

// ComputeMonthlyContribution returns the monthly contribution for a single
// employee. Fails with ErrInvalidInput on a non-positive salary, a missing
// classification, or a classification without a registered rate.
func ComputeMonthlyContribution(salary Money, class Classification) (Money, error) {
	if salary <= 0 {
		return 0, invalidInput("salary must be positive, got %d", salary)
	}
	if class == 0 {
		return 0, invalidInput("risk class is required")
	}
	rate, ok := class.Rate()
	if !ok {
		return 0, invalidInput("no rate registered for risk class %d", class)
	}

	return roundMoney(float64(salary) * (rate.InexactFloat64() / 100))
}

// roundMoney rounds x to the nearest integer with ties toward +Inf.
func roundMoney(x float64) (Money, error) {
	if math.IsNaN(x) || math.Abs(x) >= maxMoneyFloat {
		return 0, invalidInput("amount %g out of range", x)
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return Money(r), nil
}

// ComputeAnnualContribution is exactly the monthly contribution times 12.
func ComputeAnnualContribution(salary Money, class Classification) (Money, error) {
	monthly, err := ComputeMonthlyContribution(salary, class)
	if err != nil {
		return 0, err
	}
	return multiply(monthly, monthsPerYear)
}

// ComputeGroupContributions prices a whole group. Engine failures are
// returned unchanged.
func ComputeGroupContributions(employeeCount int, salary Money, class Classification) (Contributions, error) {
	monthlyPerEmployee, err := ComputeMonthlyContribution(salary, class)
	if err != nil {
		return Contributions{}, err
	}
	annualPerEmployee, err := ComputeAnnualContribution(salary, class)
	if err != nil {
		return Contributions{}, err
	}
	monthlyTotal, err := multiply(monthlyPerEmployee, int64(employeeCount))
	if err != nil {
		return Contributions{}, err
	}
	annualTotal, err := multiply(annualPerEmployee, int64(employeeCount))
	if err != nil {
		return Contributions{}, err
	}

	rate, _ := class.Rate()
	return Contributions{
		MonthlyPerEmployee: monthlyPerEmployee,
		AnnualPerEmployee:  annualPerEmployee,
		MonthlyTotal:       monthlyTotal,
		AnnualTotal:        annualTotal,
		EffectiveRate:      rate,
	}, nil
}

// ComputeAggregateTotals folds groups into totals. Order does not matter;
// an empty slice yields zeros.
func ComputeAggregateTotals(groups []EmployeeGroup) AggregateTotals {
	var totals AggregateTotals
	for _, g := range groups {
		totals.TotalEmployees += g.EmployeeCount
		totals.TotalMonthly += g.Contributions.MonthlyTotal
		totals.TotalAnnual += g.Contributions.AnnualTotal
	}
	return totals
}

func multiply(m Money, n int64) (Money, error) {
	return toMoney(decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(n)))
}

func toMoney(d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThan(maxMoney) {
		return 0, invalidInput("amount %s out of range", d.String())
	}
	return Money(d.IntPart()), nil
}
