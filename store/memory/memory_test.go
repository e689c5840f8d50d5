package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
)

func shift(id string, date generic.TimePoint, overtime bool) allowance.CalculatedShift {
	return allowance.CalculatedShift{
		Shift:          allowance.Shift{ID: id, Date: date, StartTime: "07:00", EndTime: "13:00", IsOvertime: overtime},
		Allowances:     []allowance.Allowance{},
		TotalAllowance: decimal.Zero,
	}
}

func TestMemory_ShiftLifecycle(t *testing.T) {
	ctx := context.Background()
	m := New()
	d := generic.NewTimePoint(2025, time.March, 10)

	require.NoError(t, m.SaveShift(ctx, shift("a", d, false)))
	got, err := m.GetShift(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	require.NoError(t, m.DeleteShift(ctx, "a"))
	_, err = m.GetShift(ctx, "a")
	assert.ErrorIs(t, err, generic.ErrShiftNotFound)
	assert.ErrorIs(t, m.DeleteShift(ctx, "a"), generic.ErrShiftNotFound)
}

func TestMemory_ReplaceDaysKeepsOvertime(t *testing.T) {
	ctx := context.Background()
	m := New()
	mon := generic.NewTimePoint(2025, time.March, 10)
	tue := mon.AddDays(1)

	require.NoError(t, m.ReplaceDays(ctx, nil, []allowance.CalculatedShift{
		shift("reg-mon", mon, false),
		shift("ot-mon", mon, true),
		shift("reg-tue", tue, false),
	}))
	require.NoError(t, m.ReplaceDays(ctx, []generic.TimePoint{mon}, []allowance.CalculatedShift{shift("new-mon", mon, false)}))

	all, err := m.ListShifts(ctx)
	require.NoError(t, err)
	var ids []string
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"new-mon", "ot-mon", "reg-tue"}, ids)

	week, err := m.ListShiftsInPeriod(ctx, generic.WeekStarting(tue))
	require.NoError(t, err)
	assert.Len(t, week, 1)
}

func TestMemory_ReplaceAllAndReset(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.SaveProfile(ctx, allowance.Profile{FirstName: "Old"}))

	snap := allowance.Snapshot{
		Profile: allowance.Profile{FirstName: "Mario", LastName: "Rossi"},
		Shifts:  []allowance.CalculatedShift{shift("x", generic.NewTimePoint(2025, time.March, 10), false)},
	}
	require.NoError(t, m.ReplaceAll(ctx, snap))

	loaded, err := allowance.LoadSnapshot(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "Mario", loaded.Profile.FirstName)
	assert.Len(t, loaded.Shifts, 1)

	require.NoError(t, m.Reset(ctx))
	loaded, err = allowance.LoadSnapshot(ctx, m)
	require.NoError(t, err)
	assert.Empty(t, loaded.Shifts)
	assert.Empty(t, loaded.Profile.FirstName)
}

func TestMemory_UpdateFinancialData(t *testing.T) {
	ctx := context.Background()
	m := New()
	cs := shift("a", generic.NewTimePoint(2025, time.March, 10), false)
	require.NoError(t, m.SaveShift(ctx, cs))

	cs.TotalAllowance = decimal.RequireFromString("12.5")
	fin := allowance.FinancialData{Supplement: decimal.RequireFromString("37.73")}
	require.NoError(t, m.UpdateFinancialData(ctx, fin, []allowance.CalculatedShift{cs}))

	got, err := m.GetFinancialData(ctx)
	require.NoError(t, err)
	assert.True(t, got.Supplement.Equal(fin.Supplement))
	stored, err := m.GetShift(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "12.5", stored.TotalAllowance.String())
}
