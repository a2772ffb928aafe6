package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func pricedGroup(t *testing.T, id string, count int, salary arl.Money, class arl.Classification) arl.EmployeeGroup {
	t.Helper()
	c, err := arl.ComputeGroupContributions(count, salary, class)
	require.NoError(t, err)
	return arl.EmployeeGroup{
		ID:             arl.GroupID(id),
		EmployeeCount:  count,
		Salary:         salary,
		RiskClass:      class,
		EconomicSector: arl.SectorFood,
		Contributions:  c,
		CreatedAt:      time.Date(2026, time.January, 2, 15, 4, 5, 123456789, time.UTC),
	}
}

func TestSQLite_RoundTripsGroup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	want := pricedGroup(t, "g-1", 4, 2_300_000, arl.ClassIV)

	require.NoError(t, s.Append(ctx, want))

	groups, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	got := groups[0]

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.EmployeeCount, got.EmployeeCount)
	assert.Equal(t, want.Salary, got.Salary)
	assert.Equal(t, want.RiskClass, got.RiskClass)
	assert.Equal(t, want.EconomicSector, got.EconomicSector)
	assert.Equal(t, want.Contributions.MonthlyTotal, got.Contributions.MonthlyTotal)
	assert.Equal(t, want.Contributions.AnnualPerEmployee, got.Contributions.AnnualPerEmployee)
	assert.True(t, want.Contributions.EffectiveRate.Equal(got.Contributions.EffectiveRate.Decimal))
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestSQLite_UniquePairIndex(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, pricedGroup(t, "g-1", 1, 1_500_000, arl.ClassIII)))

	err := s.Append(ctx, pricedGroup(t, "g-2", 7, 1_500_000, arl.ClassIII))
	assert.ErrorIs(t, err, ledger.ErrDuplicateGroup)

	// An id collision is a storage error, not a duplicate pair
	err = s.Append(ctx, pricedGroup(t, "g-1", 1, 1_600_000, arl.ClassIII))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ledger.ErrDuplicateGroup)
}

func TestSQLite_DeleteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(ctx, pricedGroup(t, id, 1, arl.Money(1_300_000+i), arl.ClassII)))
	}

	_, err := s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrGroupNotFound)

	removed, err := s.Delete(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, arl.Money(1_300_001), removed.Salary)

	groups, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, arl.GroupID("a"), groups[0].ID)
	assert.Equal(t, arl.GroupID("c"), groups[1].ID)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	groups, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSQLite_AuditLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	at := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, ledger.AuditEntry{
		ID: "e1", Timestamp: at, Action: ledger.AuditGroupAdded, GroupID: "g-1",
		Details: map[string]string{"employees": "3"},
	}))
	require.NoError(t, s.Record(ctx, ledger.AuditEntry{
		ID: "e2", Timestamp: at.Add(time.Minute), Action: ledger.AuditExported,
	}))

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ledger.AuditGroupAdded, entries[0].Action)
	assert.Equal(t, arl.GroupID("g-1"), entries[0].GroupID)
	assert.Equal(t, map[string]string{"employees": "3"}, entries[0].Details)
	assert.True(t, at.Equal(entries[0].Timestamp))

	assert.Equal(t, ledger.AuditExported, entries[1].Action)
	assert.Empty(t, entries[1].GroupID)
	assert.Nil(t, entries[1].Details)
}
