package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/ledger"
	"github.com/warp/arl-calculator/ledger/store"
	"github.com/warp/arl-calculator/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var fixedNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

type backend struct {
	name string
	open func(t *testing.T) ledger.Store
}

var backends = []backend{
	{
		name: "memory",
		open: func(t *testing.T) ledger.Store { return store.NewMemory() },
	},
	{
		name: "sqlite",
		open: func(t *testing.T) ledger.Store {
			s, err := sqlite.New(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	},
}

// sequentialIDs makes identifiers predictable: g-1, g-2, ...
func sequentialIDs() func() arl.GroupID {
	n := 0
	return func() arl.GroupID {
		n++
		return arl.GroupID(fmt.Sprintf("g-%d", n))
	}
}

func newTestLedger(t *testing.T, b backend) *ledger.Ledger {
	return ledger.New(b.open(t),
		ledger.WithClock(func() time.Time { return fixedNow }),
		ledger.WithIDGenerator(sequentialIDs()),
	)
}

func input(count int, salary arl.Money, class arl.Classification) arl.GroupInput {
	return arl.GroupInput{EmployeeCount: count, Salary: salary, RiskClass: class}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, l *ledger.Ledger)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, newTestLedger(t, b))
		})
	}
}

// =============================================================================
// ADD
// =============================================================================

func TestLedger_Add_PricesAndAppends(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		// GIVEN: An empty ledger
		// WHEN: Adding 3 employees at 1,500,000 in Class III, commerce
		// THEN: The group is priced and becomes the only entry

		ctx := context.Background()
		in := input(3, 1_500_000, arl.ClassIII)
		in.EconomicSector = arl.SectorCommerce

		g, err := l.Add(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, arl.GroupID("g-1"), g.ID)
		assert.Equal(t, arl.Money(36_540), g.Contributions.MonthlyPerEmployee)
		assert.Equal(t, arl.Money(109_620), g.Contributions.MonthlyTotal)
		assert.Equal(t, arl.Money(1_315_440), g.Contributions.AnnualTotal)
		assert.True(t, fixedNow.Equal(g.CreatedAt))

		totals, err := l.Aggregate(ctx)
		require.NoError(t, err)
		assert.Equal(t, arl.AggregateTotals{TotalEmployees: 3, TotalMonthly: 109_620, TotalAnnual: 1_315_440}, totals)

		snap, err := l.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap, 1)
		assert.Equal(t, arl.SectorCommerce, snap[0].EconomicSector)
		assert.Equal(t, "2.436", snap[0].Contributions.EffectiveRate.String())
		assert.True(t, fixedNow.Equal(snap[0].CreatedAt))
	})
}

func TestLedger_Add_EngineFailureInsertsNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		ctx := context.Background()

		_, err := l.Add(ctx, input(3, 1_500_000, 7))
		assert.ErrorIs(t, err, arl.ErrInvalidInput)

		_, err = l.Add(ctx, input(3, 0, arl.ClassI))
		assert.ErrorIs(t, err, arl.ErrInvalidInput)

		n, err := l.Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestLedger_Add_StoreRejectsDuplicatePair(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		// GIVEN: A group at (2,000,000, Class III)
		// WHEN: The same pair bypasses validation and reaches Add
		// THEN: The store refuses it and the ledger keeps one group

		ctx := context.Background()
		_, err := l.Add(ctx, input(1, 2_000_000, arl.ClassIII))
		require.NoError(t, err)

		_, err = l.Add(ctx, input(5, 2_000_000, arl.ClassIII))
		assert.ErrorIs(t, err, ledger.ErrDuplicateGroup)
		assert.True(t, ledger.IsClientError(err))

		n, err := l.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

// =============================================================================
// REMOVE / CLEAR
// =============================================================================

func TestLedger_Remove_KeepsOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		ctx := context.Background()
		for i, salary := range []arl.Money{1_300_000, 1_400_000, 1_500_000, 1_600_000} {
			_, err := l.Add(ctx, input(i+1, salary, arl.ClassII))
			require.NoError(t, err)
		}

		removed, err := l.Remove(ctx, "g-2")
		require.NoError(t, err)
		assert.Equal(t, arl.Money(1_400_000), removed.Salary)
		assert.Equal(t, 2, removed.EmployeeCount)

		snap, err := l.Snapshot(ctx)
		require.NoError(t, err)
		ids := make([]arl.GroupID, len(snap))
		for i, g := range snap {
			ids[i] = g.ID
		}
		assert.Equal(t, []arl.GroupID{"g-1", "g-3", "g-4"}, ids)

		// The freed pair can be added again
		_, err = l.Add(ctx, input(9, 1_400_000, arl.ClassII))
		assert.NoError(t, err)
	})
}

func TestLedger_Remove_NotFoundLeavesLedgerUnchanged(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		ctx := context.Background()
		_, err := l.Add(ctx, input(3, 1_500_000, arl.ClassIII))
		require.NoError(t, err)
		_, err = l.Add(ctx, input(4, 2_500_000, arl.ClassI))
		require.NoError(t, err)

		before, err := l.Snapshot(ctx)
		require.NoError(t, err)

		_, err = l.Remove(ctx, "missing")
		assert.ErrorIs(t, err, ledger.ErrGroupNotFound)
		assert.True(t, ledger.IsNotFound(err))
		var nf *ledger.GroupNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, arl.GroupID("missing"), nf.ID)

		after, err := l.Snapshot(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before))
		for i := range before {
			assert.Equal(t, before[i].ID, after[i].ID)
			assert.Equal(t, before[i].Contributions.AnnualTotal, after[i].Contributions.AnnualTotal)
		}
	})
}

func TestLedger_Clear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		ctx := context.Background()

		_, err := l.Clear(ctx)
		assert.ErrorIs(t, err, ledger.ErrLedgerEmpty)

		_, err = l.Add(ctx, input(3, 1_500_000, arl.ClassIII))
		require.NoError(t, err)
		_, err = l.Add(ctx, input(4, 2_500_000, arl.ClassI))
		require.NoError(t, err)

		n, err := l.Clear(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		snap, err := l.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap)
		assert.NotNil(t, snap)
	})
}

// =============================================================================
// AGGREGATE / STATISTICS
// =============================================================================

func TestLedger_Aggregate_IdempotentAndOrderIndependent(t *testing.T) {
	inputs := []arl.GroupInput{
		input(3, 1_500_000, arl.ClassIII),
		input(12, 1_300_000, arl.ClassI),
		input(1, 8_750_000, arl.ClassV),
		input(40, 2_100_000, arl.ClassIV),
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			forward := newTestLedger(t, b)
			backward := newTestLedger(t, b)

			var want arl.AggregateTotals
			for i := range inputs {
				g, err := forward.Add(ctx, inputs[i])
				require.NoError(t, err)
				want.TotalEmployees += g.EmployeeCount
				want.TotalMonthly += g.Contributions.MonthlyTotal
				want.TotalAnnual += g.Contributions.AnnualTotal

				_, err = backward.Add(ctx, inputs[len(inputs)-1-i])
				require.NoError(t, err)
			}

			first, err := forward.Aggregate(ctx)
			require.NoError(t, err)
			second, err := forward.Aggregate(ctx)
			require.NoError(t, err)
			reversed, err := backward.Aggregate(ctx)
			require.NoError(t, err)

			assert.Equal(t, want, first)
			assert.Equal(t, first, second)
			assert.Equal(t, first, reversed)
		})
	}
}

func TestLedger_Statistics(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *ledger.Ledger) {
		ctx := context.Background()

		t.Run("empty", func(t *testing.T) {
			stats, err := l.Statistics(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, stats.TotalGroups)
			assert.Equal(t, arl.AggregateTotals{}, stats.AggregateTotals)
			assert.Equal(t, map[string]int{}, stats.RiskDistribution)
			assert.Equal(t, arl.Money(0), stats.AverageSalary)
		})

		t.Run("populated", func(t *testing.T) {
			_, err := l.Add(ctx, input(3, 1_500_000, arl.ClassIII))
			require.NoError(t, err)
			_, err = l.Add(ctx, input(2, 2_000_000, arl.ClassIII))
			require.NoError(t, err)
			_, err = l.Add(ctx, input(1, 1_300_001, arl.ClassI))
			require.NoError(t, err)

			stats, err := l.Statistics(ctx)
			require.NoError(t, err)

			assert.Equal(t, 3, stats.TotalGroups)
			assert.Equal(t, 6, stats.TotalEmployees)
			assert.Equal(t, map[string]int{"Class 3": 5, "Class 1": 1}, stats.RiskDistribution)
			// (4,500,000 + 4,000,000 + 1,300,001) / 6 = 1,633,333.5 -> 1,633,334
			assert.Equal(t, arl.Money(1_633_334), stats.AverageSalary)
		})
	})
}
