package generic

import "time"

// =============================================================================
// PERIOD - Inclusive range of calendar days
// =============================================================================

// Period is the inclusive day range [Start, End].
//
// Examples:
//   - Roster week: Monday 3 March - Sunday 9 March
//   - Calendar month: 1 March - 31 March
type Period struct {
	Start TimePoint
	End   TimePoint
}

// DaysPerWeek is the length of a roster week.
const DaysPerWeek = 7

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// WeekStarting returns the seven consecutive days beginning at anchor.
// Month and year boundaries are crossed by plain calendar arithmetic.
func WeekStarting(anchor TimePoint) Period {
	return Period{Start: anchor, End: anchor.AddDays(DaysPerWeek - 1)}
}

// MondayOf returns the Monday of the ISO week containing the day.
func MondayOf(day TimePoint) TimePoint {
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDays(-offset)
}

// MonthPeriod returns the first to last day of a calendar month.
func MonthPeriod(year int, month time.Month) Period {
	start := NewTimePoint(year, month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// ParseMonth parses "YYYY-MM" into its period.
func ParseMonth(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, &ParseError{Field: "month", Input: s, Err: err}
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}
