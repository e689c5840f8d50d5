package generic

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - A calendar day pinned to UTC midnight
// =============================================================================

// TimePoint is a calendar day. Roster dates never carry a time zone: every
// value is normalized to 00:00 UTC so that day arithmetic is plain calendar
// arithmetic.
type TimePoint struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates any instant to its UTC calendar day.
func DayOf(t time.Time) TimePoint {
	t = t.UTC()
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return TimePoint{}, &ParseError{Field: "date", Input: s, Err: err}
	}
	return DayOf(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, n, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsSunday() bool        { return tp.Weekday() == time.Sunday }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// At combines the day with a wall-clock time.
func (tp TimePoint) At(c Clock) time.Time {
	return tp.Time.Add(c.Duration())
}

func (tp TimePoint) String() string {
	return tp.Time.Format(dateLayout)
}

// MarshalJSON encodes the day as "YYYY-MM-DD".
func (tp TimePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(tp.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" or a full RFC 3339 timestamp.
func (tp *TimePoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		*tp = DayOf(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return &ParseError{Field: "date", Input: s, Err: err}
	}
	*tp = DayOf(t)
	return nil
}

// =============================================================================
// CLOCK - Wall-clock time of day (HH:MM)
// =============================================================================

// Clock is a time of day expressed in minutes after midnight.
type Clock int

const MinutesPerDay = 24 * 60

// NewClock builds a clock value; no range checks.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// ParseClock parses "HH:MM" (24h). Anything else is a *ParseError.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, &ParseError{Field: "time", Input: s}
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, &ParseError{Field: "time", Input: s, Err: err}
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, &ParseError{Field: "time", Input: s, Err: err}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, &ParseError{Field: "time", Input: s}
	}
	return NewClock(h, m), nil
}

func (c Clock) Hour() int               { return int(c) / 60 }
func (c Clock) Minute() int             { return int(c) % 60 }
func (c Clock) Duration() time.Duration { return time.Duration(c) * time.Minute }
func (c Clock) String() string          { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a non-working civil day.
type Holiday struct {
	Date TimePoint
	Name string
}

// HolidayCalendar answers holiday lookups. Implementations must be pure:
// the answer depends only on the date.
type HolidayCalendar interface {
	// IsHoliday reports whether the day is a holiday.
	IsHoliday(date TimePoint) bool

	// Holidays returns every holiday of the year in calendar order.
	Holidays(year int) []Holiday
}

// NoHolidays is a calendar without holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(TimePoint) bool { return false }
func (NoHolidays) Holidays(int) []Holiday   { return nil }
