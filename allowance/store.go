/*
store.go - Persistence interface for computed shifts and settings

PURPOSE:
  Defines the boundary between the allowance domain and storage. The
  engine itself never touches a Store; handlers load inputs, call the
  engine and persist the returned values.

KEY OPERATIONS:
  Shifts:   SaveShift, GetShift, ListShifts, ListShiftsInPeriod,
            ReplaceDays, DeleteShift
  Settings: GetFinancialData, UpdateFinancialData,
            GetProfile, SaveProfile
  Bulk:     ReplaceAll (backup restore), Reset

ATOMICITY:
  ReplaceDays, UpdateFinancialData and ReplaceAll are all-or-nothing. A
  failed backup restore leaves the previous data in place.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - store/memory/memory.go: in-memory, for tests and development

SEE ALSO:
  - export/backup.go: produces and consumes Snapshot values
*/
package allowance

import (
	"context"

	"github.com/warp/roster-engine/generic"
)

// Snapshot is the complete persisted state.
type Snapshot struct {
	Profile   Profile           `json:"profile"`
	Financial FinancialData     `json:"financial_data"`
	Shifts    []CalculatedShift `json:"calculated_shifts"`
}

// Store persists computed shifts, financial data and the profile.
type Store interface {
	// SaveShift inserts or replaces a shift by ID.
	SaveShift(ctx context.Context, s CalculatedShift) error

	// GetShift returns generic.ErrShiftNotFound for unknown ids.
	GetShift(ctx context.Context, id string) (CalculatedShift, error)

	// ListShifts returns every shift ordered by date.
	ListShifts(ctx context.Context) ([]CalculatedShift, error)

	// ListShiftsInPeriod returns shifts dated inside [p.Start, p.End].
	ListShiftsInPeriod(ctx context.Context, p generic.Period) ([]CalculatedShift, error)

	// ReplaceDays drops every regular shift dated on one of days and stores
	// shifts, in one transaction. Overtime rows on those days are kept.
	// Re-importing a week uses it.
	ReplaceDays(ctx context.Context, days []generic.TimePoint, shifts []CalculatedShift) error

	// DeleteShift returns generic.ErrShiftNotFound for unknown ids.
	DeleteShift(ctx context.Context, id string) error

	// GetFinancialData returns zero values when nothing was saved yet.
	GetFinancialData(ctx context.Context) (FinancialData, error)
	// UpdateFinancialData saves f and upserts the shifts recomputed with it
	// in one transaction.
	UpdateFinancialData(ctx context.Context, f FinancialData, shifts []CalculatedShift) error

	GetProfile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, p Profile) error

	// ReplaceAll swaps the whole state for the snapshot.
	ReplaceAll(ctx context.Context, snap Snapshot) error

	// Reset removes all data.
	Reset(ctx context.Context) error
}

// LoadSnapshot reads the full state from a store.
func LoadSnapshot(ctx context.Context, st Store) (Snapshot, error) {
	profile, err := st.GetProfile(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	fin, err := st.GetFinancialData(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	shifts, err := st.ListShifts(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Profile: profile, Financial: fin, Shifts: shifts}, nil
}
