package allowance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testFinancial gives RAW = 1500 and BASE = 1620.
func testFinancial() allowance.FinancialData {
	return allowance.FinancialData{
		ComponentA: dec("1000"),
		ComponentB: dec("500"),
		Supplement: dec("37.73"),
	}
}

func newTestEngine(t *testing.T) *allowance.Engine {
	t.Helper()
	e, err := allowance.NewEngine(allowance.DefaultRules(), allowance.Calendar{}, nil)
	require.NoError(t, err)
	return e
}

func day(s string) generic.TimePoint {
	d, err := generic.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func regular(date, start, end string) allowance.Shift {
	return allowance.Shift{ID: "s-" + date, Date: day(date), ShiftCode: "T", StartTime: start, EndTime: end}
}

func overtime(date, start, end string) allowance.Shift {
	s := regular(date, start, end)
	s.ID = "ot-" + date
	s.ShiftCode = allowance.OvertimeCode
	s.IsOvertime = true
	return s
}

// byCode indexes lines by code; repeated codes keep every line.
func byCode(lines []allowance.Allowance) map[string][]allowance.Allowance {
	out := make(map[string][]allowance.Allowance)
	for _, l := range lines {
		out[l.Code] = append(out[l.Code], l)
	}
	return out
}

func codes(lines []allowance.Allowance) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Code
	}
	return out
}

func cents(d decimal.Decimal) string { return d.StringFixed(2) }

func assertTotalIsSum(t *testing.T, res allowance.Result) {
	t.Helper()
	sum := decimal.Zero
	for _, l := range res.Allowances {
		sum = sum.Add(l.Value)
	}
	assert.True(t, sum.Equal(res.TotalAllowance), "total %s != sum %s", res.TotalAllowance, sum)
}

// =============================================================================
// BASES
// =============================================================================

func TestDeriveBases(t *testing.T) {
	b := allowance.DeriveBases(testFinancial())
	assert.True(t, b.Raw.Equal(dec("1500")))
	assert.True(t, b.Base.Equal(dec("1620")))
	assert.Equal(t, "9.36", cents(b.Hourly))
	assert.Equal(t, "138.14", cents(b.MonthlyThirteenth))
	assert.Equal(t, "1758.14", cents(b.MonthlyPlusThirteenth))
	assert.Equal(t, "10.16", cents(b.HourlyOvertime))
}

// =============================================================================
// REGULAR SHIFTS
// =============================================================================

func TestCompute_WeekdayNightShift(t *testing.T) {
	// GIVEN: Wednesday 12 March 2025, 21:00 → 05:00
	e := newTestEngine(t)

	// WHEN: Computing
	res, err := e.Compute(regular("2025-03-12", "21:00", "05:00"), testFinancial())
	require.NoError(t, err)

	// THEN: TN30, RMTR and 8 night hours of LNH5
	assert.Equal(t, []string{"TN30", "RMTR", "LNH5"}, codes(res.Allowances))
	lines := byCode(res.Allowances)

	assert.Equal(t, "17.31", cents(lines["TN30"][0].Value)) // 1500 × 0.30 / 26
	assert.Nil(t, lines["TN30"][0].Hours)
	assert.True(t, lines["RMTR"][0].Value.Equal(dec("5.16")))

	lnh5 := lines["LNH5"][0]
	require.NotNil(t, lnh5.Hours)
	assert.True(t, lnh5.Hours.Equal(dec("8")))
	assert.Equal(t, "37.46", cents(lnh5.Value)) // 8 × 1620/173 × 0.5

	assert.Equal(t, "59.92", cents(res.TotalAllowance))
	assertTotalIsSum(t, res)
}

func TestCompute_DayShiftEarnsNothing(t *testing.T) {
	res, err := newTestEngine(t).Compute(regular("2025-03-12", "07:00", "13:00"), testFinancial())
	require.NoError(t, err)
	assert.Empty(t, res.Allowances)
	assert.NotNil(t, res.Allowances)
	assert.True(t, res.TotalAllowance.IsZero())
}

func TestCompute_EarlyStart(t *testing.T) {
	// GIVEN: Tuesday 05:30 → 11:30
	res, err := newTestEngine(t).Compute(regular("2025-03-11", "05:30", "11:30"), testFinancial())
	require.NoError(t, err)

	// THEN: TN35 plus half an hour of night premium
	assert.Equal(t, []string{"TN35", "LNH5"}, codes(res.Allowances))
	lines := byCode(res.Allowances)
	assert.Equal(t, "20.19", cents(lines["TN35"][0].Value))
	assert.True(t, lines["LNH5"][0].Hours.Equal(dec("0.5")))
	assert.Equal(t, "2.34", cents(lines["LNH5"][0].Value))
}

func TestCompute_EarlyStartBoundaries(t *testing.T) {
	e := newTestEngine(t)
	for start, want := range map[string]bool{"04:59": false, "05:00": true, "05:59": true, "06:00": false} {
		res, err := e.Compute(regular("2025-03-11", start, "12:00"), testFinancial())
		require.NoError(t, err)
		assert.Equal(t, want, len(byCode(res.Allowances)["TN35"]) == 1, "start %s", start)
	}
}

func TestCompute_LateFinishAtThreshold(t *testing.T) {
	// GIVEN: 17:30 → 23:30 on a weekday
	res, err := newTestEngine(t).Compute(regular("2025-03-12", "17:30", "23:30"), testFinancial())
	require.NoError(t, err)

	// THEN: RMTR without TN30, and 2.5 night hours
	assert.Equal(t, []string{"RMTR", "LNH5"}, codes(res.Allowances))
	assert.Equal(t, "11.71", cents(byCode(res.Allowances)["LNH5"][0].Value))
}

func TestCompute_EndingAtMidnightIsLateNotCrossing(t *testing.T) {
	res, err := newTestEngine(t).Compute(regular("2025-03-12", "18:00", "00:00"), testFinancial())
	require.NoError(t, err)
	got := byCode(res.Allowances)
	assert.Len(t, got["RMTR"], 1)
	assert.Empty(t, got["TN30"], "ends before 00:30")
}

func TestCompute_NightCrossingThreshold(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Compute(regular("2025-03-12", "19:00", "00:29"), testFinancial())
	require.NoError(t, err)
	assert.Empty(t, byCode(res.Allowances)["TN30"])

	res, err = e.Compute(regular("2025-03-12", "19:00", "00:30"), testFinancial())
	require.NoError(t, err)
	assert.Len(t, byCode(res.Allowances)["TN30"], 1)
}

func TestCompute_MissedWeeklyRest(t *testing.T) {
	s := regular("2025-03-12", "07:00", "13:00")
	s.HasMNS = true

	res, err := newTestEngine(t).Compute(s, testFinancial())
	require.NoError(t, err)
	assert.Equal(t, []string{"MNL"}, codes(res.Allowances))
	assert.True(t, res.TotalAllowance.Equal(dec("25.82")))
}

func TestCompute_SundayShift(t *testing.T) {
	// GIVEN: Sunday 16 March 2025, 17:00 → 23:00
	res, err := newTestEngine(t).Compute(regular("2025-03-16", "17:00", "23:00"), testFinancial())
	require.NoError(t, err)

	// THEN: 4 day hours of DH40, 2 night hours of DH60, no weekday night line
	assert.Equal(t, []string{"DH40", "DH60"}, codes(res.Allowances))
	lines := byCode(res.Allowances)
	assert.True(t, lines["DH40"][0].Hours.Equal(dec("4")))
	assert.True(t, lines["DH60"][0].Hours.Equal(dec("2")))
	assertTotalIsSum(t, res)
}

func TestCompute_HolidayShift(t *testing.T) {
	// GIVEN: Easter Monday 2025, 07:00 → 13:00
	res, err := newTestEngine(t).Compute(regular("2025-04-21", "07:00", "13:00"), testFinancial())
	require.NoError(t, err)

	// THEN: Only day hours, so only LFH6
	assert.Equal(t, []string{"LFH6"}, codes(res.Allowances))
	assert.Equal(t, "33.71", cents(res.TotalAllowance))
}

func TestCompute_HolidayOnSundayUsesHolidayRules(t *testing.T) {
	// 2 June 2024 was a Sunday.
	res, err := newTestEngine(t).Compute(regular("2024-06-02", "20:00", "23:00"), testFinancial())
	require.NoError(t, err)
	assert.Equal(t, []string{"LFH6", "LFH8"}, codes(res.Allowances))
}

// =============================================================================
// OVERTIME
// =============================================================================

func TestCompute_SundayOvertime(t *testing.T) {
	// GIVEN: Overtime on Sunday 16 March 2025, 17:00 → 23:00
	res, err := newTestEngine(t).Compute(overtime("2025-03-16", "17:00", "23:00"), testFinancial())
	require.NoError(t, err)

	// THEN: 4h at OT × 1.50 and 2h at OT × 1.75
	assert.Equal(t, []string{"ST-DOM", "ST-DOM-N"}, codes(res.Allowances))
	lines := byCode(res.Allowances)
	assert.True(t, lines["ST-DOM"][0].Hours.Equal(dec("4")))
	assert.Equal(t, "60.98", cents(lines["ST-DOM"][0].Value))
	assert.True(t, lines["ST-DOM-N"][0].Hours.Equal(dec("2")))
	assert.Equal(t, "35.57", cents(lines["ST-DOM-N"][0].Value))
	assert.Equal(t, "96.55", cents(res.TotalAllowance))
	assert.Equal(t, "Straordinario domenicale diurno", lines["ST-DOM"][0].Description)
}

func TestCompute_HolidayOvertimeUsesHolidayWording(t *testing.T) {
	res, err := newTestEngine(t).Compute(overtime("2025-12-25", "08:00", "10:00"), testFinancial())
	require.NoError(t, err)
	require.Len(t, res.Allowances, 1)
	assert.Equal(t, "Straordinario festivo diurno", res.Allowances[0].Description)
}

func TestCompute_WeekdayOvertimeSplitsNightHours(t *testing.T) {
	// GIVEN: Weekday overtime 20:00 → 23:00 (1 day hour, 2 night hours)
	res, err := newTestEngine(t).Compute(overtime("2025-03-12", "20:00", "23:00"), testFinancial())
	require.NoError(t, err)

	// THEN: STSE for the day hour; STSE and LNH5 over the night hours
	assert.Equal(t, []string{"STSE", "STSE", "LNH5"}, codes(res.Allowances))
	assert.Equal(t, "13.21", cents(res.Allowances[0].Value))
	assert.Equal(t, "26.42", cents(res.Allowances[1].Value))
	assert.Equal(t, "9.36", cents(res.Allowances[2].Value))
	assert.NotEqual(t, res.Allowances[0].Description, res.Allowances[1].Description)
	assertTotalIsSum(t, res)
}

func TestCompute_WeekdayOvertimeDayOnly(t *testing.T) {
	res, err := newTestEngine(t).Compute(overtime("2025-03-12", "14:00", "16:00"), testFinancial())
	require.NoError(t, err)
	assert.Equal(t, []string{"STSE"}, codes(res.Allowances))
}

func TestCompute_OvertimeNeverEarnsEarlyStart(t *testing.T) {
	res, err := newTestEngine(t).Compute(overtime("2025-03-12", "05:30", "07:00"), testFinancial())
	require.NoError(t, err)
	assert.Empty(t, byCode(res.Allowances)["TN35"])
}

// =============================================================================
// ERRORS AND PURITY
// =============================================================================

func TestCompute_MalformedTime(t *testing.T) {
	_, err := newTestEngine(t).Compute(regular("2025-03-12", "25:00", "05:00"), testFinancial())
	assert.ErrorIs(t, err, generic.ErrParse)

	_, err = newTestEngine(t).Calculate(regular("2025-03-12", "21:00", "5"), testFinancial())
	assert.ErrorIs(t, err, generic.ErrParse)
}

func TestCalculate_DoesNotMutateInput(t *testing.T) {
	s := regular("2025-03-12", "21:00", "05:00")
	before := s

	cs, err := newTestEngine(t).Calculate(s, testFinancial())
	require.NoError(t, err)
	assert.Equal(t, before, s)
	assert.Equal(t, s, cs.Shift)
	assert.Len(t, cs.Allowances, 3)
}

func TestNewEngine_RejectsIncompleteRules(t *testing.T) {
	rules := allowance.DefaultRules()
	delete(rules, allowance.CodeNight)

	_, err := allowance.NewEngine(rules, nil, nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestNewEngine_CustomCalendar(t *testing.T) {
	// GIVEN: A calendar without holidays
	e, err := allowance.NewEngine(allowance.DefaultRules(), generic.NoHolidays{}, nil)
	require.NoError(t, err)

	// THEN: Christmas on a weekday is an ordinary day
	res, err := e.Compute(regular("2025-12-25", "07:00", "13:00"), testFinancial())
	require.NoError(t, err)
	assert.Empty(t, res.Allowances)
}
