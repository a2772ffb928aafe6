package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/warp/arl-calculator/arl"
)

// Statistics is the extended summary shown next to the group list.
type Statistics struct {
	TotalGroups int `json:"totalGroups"`
	arl.AggregateTotals

	// RiskDistribution maps "Class N" to the employees in that class.
	RiskDistribution map[string]int `json:"riskDistribution"`

	// AverageSalary is weighted by headcount, rounded to whole units.
	AverageSalary arl.Money `json:"averageSalary"`
}

// ComputeStatistics derives Statistics from groups. Never cached.
func ComputeStatistics(groups []arl.EmployeeGroup) Statistics {
	totals := arl.ComputeAggregateTotals(groups)

	distribution := make(map[string]int)
	payroll := decimal.Zero
	for _, g := range groups {
		distribution[g.RiskClass.Short()] += g.EmployeeCount
		payroll = payroll.Add(decimal.NewFromInt(int64(g.Salary)).Mul(decimal.NewFromInt(int64(g.EmployeeCount))))
	}

	var average arl.Money
	if totals.TotalEmployees > 0 {
		average = arl.Money(payroll.Div(decimal.NewFromInt(int64(totals.TotalEmployees))).Round(0).IntPart())
	}

	return Statistics{
		TotalGroups:      len(groups),
		AggregateTotals:  totals,
		RiskDistribution: distribution,
		AverageSalary:    average,
	}
}
