// Package memory provides an in-memory allowance.Store.
package memory

import (
	"context"
	"sync"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	shifts    map[string]allowance.CalculatedShift
	financial allowance.FinancialData
	profile   allowance.Profile
}

var _ allowance.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{shifts: make(map[string]allowance.CalculatedShift)}
}

func (m *Memory) SaveShift(_ context.Context, cs allowance.CalculatedShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[cs.ID] = cs
	return nil
}

func (m *Memory) GetShift(_ context.Context, id string) (allowance.CalculatedShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs, ok := m.shifts[id]
	if !ok {
		return allowance.CalculatedShift{}, generic.ErrShiftNotFound
	}
	return cs, nil
}

func (m *Memory) ListShifts(_ context.Context) ([]allowance.CalculatedShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(allowance.CalculatedShift) bool { return true }), nil
}

func (m *Memory) ListShiftsInPeriod(_ context.Context, p generic.Period) ([]allowance.CalculatedShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(cs allowance.CalculatedShift) bool { return p.Contains(cs.Date) }), nil
}

// ReplaceDays is atomic under the write lock.
func (m *Memory) ReplaceDays(_ context.Context, days []generic.TimePoint, shifts []allowance.CalculatedShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[generic.TimePoint]bool, len(days))
	for _, d := range days {
		drop[d] = true
	}
	for id, cs := range m.shifts {
		if drop[cs.Date] && !cs.IsOvertime {
			delete(m.shifts, id)
		}
	}
	for _, cs := range shifts {
		m.shifts[cs.ID] = cs
	}
	return nil
}

func (m *Memory) DeleteShift(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[id]; !ok {
		return generic.ErrShiftNotFound
	}
	delete(m.shifts, id)
	return nil
}

func (m *Memory) GetFinancialData(_ context.Context) (allowance.FinancialData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.financial, nil
}

func (m *Memory) UpdateFinancialData(_ context.Context, f allowance.FinancialData, shifts []allowance.CalculatedShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cs := range shifts {
		m.shifts[cs.ID] = cs
	}
	m.financial = f
	return nil
}

func (m *Memory) GetProfile(_ context.Context) (allowance.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile, nil
}

func (m *Memory) SaveProfile(_ context.Context, p allowance.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = p
	return nil
}

func (m *Memory) ReplaceAll(_ context.Context, snap allowance.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts = make(map[string]allowance.CalculatedShift, len(snap.Shifts))
	for _, cs := range snap.Shifts {
		m.shifts[cs.ID] = cs
	}
	m.financial = snap.Financial
	m.profile = snap.Profile
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts = make(map[string]allowance.CalculatedShift)
	m.financial = allowance.FinancialData{}
	m.profile = allowance.Profile{}
	return nil
}

func (m *Memory) sortedLocked(keep func(allowance.CalculatedShift) bool) []allowance.CalculatedShift {
	var out []allowance.CalculatedShift
	for _, cs := range m.shifts {
		if keep(cs) {
			out = append(out, cs)
		}
	}
	allowance.SortShifts(out)
	return out
}
