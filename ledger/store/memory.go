// Package store provides in-memory ledger.Store and ledger.AuditLog
// implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	groups []arl.EmployeeGroup
	pairs  map[pair]arl.GroupID
	audit  []ledger.AuditEntry
}

type pair struct {
	Salary    arl.Money
	RiskClass arl.Classification
}

var (
	_ ledger.Store    = (*Memory)(nil)
	_ ledger.AuditLog = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{pairs: make(map[pair]arl.GroupID)}
}

// Append adds g at the end of the sequence.
func (m *Memory) Append(_ context.Context, g arl.EmployeeGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := pair{Salary: g.Salary, RiskClass: g.RiskClass}
	if _, exists := m.pairs[k]; exists {
		return ledger.ErrDuplicateGroup
	}
	m.groups = append(m.groups, g)
	m.pairs[k] = g.ID
	return nil
}

// Delete removes the first group with id, keeping the others in order.
func (m *Memory) Delete(_ context.Context, id arl.GroupID) (arl.EmployeeGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, g := range m.groups {
		if g.ID != id {
			continue
		}
		m.groups = append(m.groups[:i:i], m.groups[i+1:]...)
		delete(m.pairs, pair{Salary: g.Salary, RiskClass: g.RiskClass})
		return g, nil
	}
	return arl.EmployeeGroup{}, ledger.ErrGroupNotFound
}

// Load returns a copy so callers cannot alias the stored slice.
func (m *Memory) Load(_ context.Context) ([]arl.EmployeeGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]arl.EmployeeGroup, len(m.groups))
	copy(result, m.groups)
	return result, nil
}

func (m *Memory) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.groups)
	m.groups = nil
	m.pairs = make(map[pair]arl.GroupID)
	return n, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (m *Memory) Record(_ context.Context, entry ledger.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, entry)
	return nil
}

func (m *Memory) Entries(_ context.Context) ([]ledger.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.AuditEntry, len(m.audit))
	copy(result, m.audit)
	return result, nil
}
