package arl_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/arl-calculator/arl"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// ratePercent is the rate table as plain doubles, kept independent of the
// engine so the tests do not reuse its lookup.
var ratePercent = map[arl.Classification]float64{
	arl.ClassI:   0.522,
	arl.ClassII:  1.044,
	arl.ClassIII: 2.436,
	arl.ClassIV:  4.350,
	arl.ClassV:   6.960,
}

// referenceMonthly is floor(x + 0.5) of salary × (rate / 100) in doubles.
func referenceMonthly(salary arl.Money, class arl.Classification) arl.Money {
	return arl.Money(math.Floor(float64(salary)*(ratePercent[class]/100) + 0.5))
}

func group(count int, salary arl.Money, class arl.Classification) arl.EmployeeGroup {
	c, err := arl.ComputeGroupContributions(count, salary, class)
	if err != nil {
		panic(err)
	}
	return arl.EmployeeGroup{
		ID:            arl.GroupID("g"),
		EmployeeCount: count,
		Salary:        salary,
		RiskClass:     class,
		Contributions: c,
	}
}

// =============================================================================
// MONTHLY / ANNUAL
// =============================================================================

func TestComputeMonthlyContribution_MatchesRateTable(t *testing.T) {
	salaries := []arl.Money{1, 999, 1_300_000, 1_500_000, 2_000_000, 2_345_678, 4_800_001, 25_000_000}

	for _, class := range arl.Classifications() {
		for _, salary := range salaries {
			got, err := arl.ComputeMonthlyContribution(salary, class)
			require.NoError(t, err)
			assert.Equal(t, referenceMonthly(salary, class), got, "salary %d class %d", salary, class)
		}
	}
}

func TestComputeMonthlyContribution_MatchesDoubleArithmeticAcrossRange(t *testing.T) {
	// GIVEN: Every salary in steps of 1,000 from the minimum up to 3,000,000
	// WHEN: Pricing each one in every class
	// THEN: The engine agrees with double arithmetic, including products
	//       such as 56,593.49999999999 that exact decimals would round up

	for _, class := range arl.Classifications() {
		for salary := arl.MinimumSalary; salary <= 3_000_000; salary += 1_000 {
			got, err := arl.ComputeMonthlyContribution(salary, class)
			require.NoError(t, err)
			require.Equal(t, referenceMonthly(salary, class), got, "salary %d class %d", salary, class)
		}
	}
}

func TestComputeMonthlyContribution_Rounding(t *testing.T) {
	tests := []struct {
		salary arl.Money
		class  arl.Classification
		want   arl.Money
	}{
		{1_000_250, arl.ClassI, 5221},    // 5,221.305
		{1_250_050, arl.ClassIV, 54377},  // 54,377.175
		{1_149_425, arl.ClassIV, 50000},  // 49,999.9875
		{10, arl.ClassV, 1},              // 0.696
		{312_500, arl.ClassIII, 7613},    // 7,612.5
		{1_312_500, arl.ClassIII, 31973}, // 31,972.5
		{1_301_000, arl.ClassIV, 56593},  // 56,593.49999999999
		{1_303_000, arl.ClassIV, 56680},  // 56,680.49999999999
	}

	for _, tt := range tests {
		got, err := arl.ComputeMonthlyContribution(tt.salary, tt.class)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "salary %d class %d", tt.salary, tt.class)
	}
}

func TestComputeAnnualContribution_IsMonthlyTimesTwelve(t *testing.T) {
	for _, class := range arl.Classifications() {
		for _, salary := range []arl.Money{1_300_000, 1_333_333, 2_000_000, 7_777_777} {
			monthly, err := arl.ComputeMonthlyContribution(salary, class)
			require.NoError(t, err)
			annual, err := arl.ComputeAnnualContribution(salary, class)
			require.NoError(t, err)
			assert.Equal(t, monthly*12, annual)
		}
	}
}

func TestComputeMonthlyContribution_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		salary arl.Money
		class  arl.Classification
	}{
		{"zero salary", 0, arl.ClassI},
		{"negative salary", -1_500_000, arl.ClassI},
		{"zero class", 1_500_000, 0},
		{"class above range", 1_500_000, 6},
		{"negative class", 1_500_000, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := arl.ComputeMonthlyContribution(tt.salary, tt.class)
			assert.ErrorIs(t, err, arl.ErrInvalidInput)

			_, err = arl.ComputeAnnualContribution(tt.salary, tt.class)
			assert.ErrorIs(t, err, arl.ErrInvalidInput)

			_, err = arl.ComputeGroupContributions(3, tt.salary, tt.class)
			assert.ErrorIs(t, err, arl.ErrInvalidInput)
			var inErr *arl.InputError
			assert.ErrorAs(t, err, &inErr)
		})
	}
}

func TestComputeGroupContributions_OutOfRangeIsInvalidInput(t *testing.T) {
	_, err := arl.ComputeGroupContributions(9999, arl.Money(900_000_000_000_000_000), arl.ClassV)
	assert.ErrorIs(t, err, arl.ErrInvalidInput)
}

// =============================================================================
// GROUP / AGGREGATE
// =============================================================================

func TestComputeGroupContributions_Scenario(t *testing.T) {
	// GIVEN: 3 employees earning 1,500,000 in Class III
	// WHEN: Pricing the group
	// THEN: 36,540 per employee, 109,620 per month, 1,315,440 per year

	c, err := arl.ComputeGroupContributions(3, 1_500_000, arl.ClassIII)
	require.NoError(t, err)

	assert.Equal(t, arl.Money(36_540), c.MonthlyPerEmployee)
	assert.Equal(t, arl.Money(438_480), c.AnnualPerEmployee)
	assert.Equal(t, arl.Money(109_620), c.MonthlyTotal)
	assert.Equal(t, arl.Money(1_315_440), c.AnnualTotal)
	assert.Equal(t, "2.436", c.EffectiveRate.String())
}

func TestComputeAggregateTotals(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, arl.AggregateTotals{}, arl.ComputeAggregateTotals(nil))
	})

	t.Run("sum is order independent", func(t *testing.T) {
		g1 := group(3, 1_500_000, arl.ClassIII)
		g2 := group(10, 2_000_000, arl.ClassI)
		g3 := group(1, 9_000_000, arl.ClassV)

		forward := arl.ComputeAggregateTotals([]arl.EmployeeGroup{g1, g2, g3})
		backward := arl.ComputeAggregateTotals([]arl.EmployeeGroup{g3, g2, g1})
		assert.Equal(t, forward, backward)

		assert.Equal(t, 14, forward.TotalEmployees)
		assert.Equal(t, g1.Contributions.MonthlyTotal+g2.Contributions.MonthlyTotal+g3.Contributions.MonthlyTotal, forward.TotalMonthly)
		assert.Equal(t, g1.Contributions.AnnualTotal+g2.Contributions.AnnualTotal+g3.Contributions.AnnualTotal, forward.TotalAnnual)
	})
}

// =============================================================================
// RATE TABLE
// =============================================================================

func TestRateTable_EveryClassResolves(t *testing.T) {
	for _, class := range arl.Classifications() {
		rate, ok := class.Rate()
		assert.True(t, ok, "class %d", class)
		assert.True(t, rate.IsPositive())
		assert.Contains(t, class.Label(), "Class ")
		assert.Contains(t, class.Label(), "Risk")
	}

	_, ok := arl.Classification(0).Rate()
	assert.False(t, ok)
	_, ok = arl.Classification(6).Rate()
	assert.False(t, ok)
}

func TestRateJSON_IsBareNumber(t *testing.T) {
	b, err := arl.MustRate("4.350").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "4.35", string(b))

	var r arl.Rate
	require.NoError(t, r.UnmarshalJSON([]byte("2.436")))
	assert.True(t, r.Equal(arl.MustRate("2.436").Decimal))
}

func TestSectorLabel(t *testing.T) {
	assert.Equal(t, "Commerce, ICT and Services", arl.SectorCommerce.Label())
	assert.Equal(t, "mining", arl.Sector("mining").Label())
	assert.Equal(t, "", arl.SectorNone.Label())
	assert.True(t, arl.SectorOil.Known())
	assert.False(t, arl.Sector("mining").Known())
}
