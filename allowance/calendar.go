package allowance

import (
	"sort"
	"time"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// HOLIDAY CALENDAR - Fixed civil holidays plus Easter Monday
// =============================================================================

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
}

var civilHolidays = []fixedHoliday{
	{time.January, 1, "Capodanno"},
	{time.January, 6, "Epifania"},
	{time.April, 25, "Festa della Liberazione"},
	{time.May, 1, "Festa dei Lavoratori"},
	{time.June, 2, "Festa della Repubblica"},
	{time.August, 15, "Ferragosto"},
	{time.November, 1, "Ognissanti"},
	{time.December, 8, "Immacolata Concezione"},
	{time.December, 25, "Natale"},
	{time.December, 26, "Santo Stefano"},
}

// Calendar is the civil holiday calendar. It is stateless; every answer is
// computed from the date alone.
type Calendar struct{}

var _ generic.HolidayCalendar = Calendar{}

// EasterSunday returns the Gregorian Easter Sunday of the year using the
// anonymous Gregorian computus (Meeus/Jones/Butcher).
func EasterSunday(year int) generic.TimePoint {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return generic.NewTimePoint(year, time.Month(month), day)
}

// EasterMonday is the day after Easter Sunday.
func EasterMonday(year int) generic.TimePoint {
	return EasterSunday(year).AddDays(1)
}

// Holidays returns the year's holidays in calendar order.
func (Calendar) Holidays(year int) []generic.Holiday {
	out := make([]generic.Holiday, 0, len(civilHolidays)+1)
	for _, h := range civilHolidays {
		out = append(out, generic.Holiday{Date: generic.NewTimePoint(year, h.month, h.day), Name: h.name})
	}
	out = append(out, generic.Holiday{Date: EasterMonday(year), Name: "Lunedì dell'Angelo"})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// IsHoliday compares day and month against the fixed list and against Easter
// Monday of the date's own year.
func (Calendar) IsHoliday(date generic.TimePoint) bool {
	for _, h := range civilHolidays {
		if date.Month() == h.month && date.Day() == h.day {
			return true
		}
	}
	em := EasterMonday(date.Year())
	return date.Month() == em.Month() && date.Day() == em.Day()
}
