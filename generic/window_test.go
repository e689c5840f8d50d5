package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/roster-engine/generic"
)

var testNight = []generic.DailyWindow{
	{From: generic.NewClock(0, 0), To: generic.NewClock(6, 0)},
	{From: generic.NewClock(21, 0), To: generic.Clock(generic.MinutesPerDay)},
}

func resolve(date string, start, end string) generic.Interval {
	d, err := generic.ParseDate(date)
	if err != nil {
		panic(err)
	}
	s, err := generic.ParseClock(start)
	if err != nil {
		panic(err)
	}
	e, err := generic.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return generic.ResolveShift(d, s, e)
}

// =============================================================================
// SHIFT RESOLUTION
// =============================================================================

func TestResolveShift_SameDay(t *testing.T) {
	iv := resolve("2025-03-12", "07:00", "13:00")
	assert.Equal(t, 6*time.Hour, iv.Duration())
	assert.False(t, iv.CrossesMidnight())
}

func TestResolveShift_RollsOverMidnightOnce(t *testing.T) {
	// GIVEN: A night shift 21:00 → 05:00
	iv := resolve("2025-03-12", "21:00", "05:00")

	// THEN: It ends the next morning
	assert.Equal(t, 8*time.Hour, iv.Duration())
	assert.True(t, iv.CrossesMidnight())
	assert.Equal(t, "2025-03-13", generic.DayOf(iv.End).String())
}

func TestResolveShift_EndAtMidnightCrosses(t *testing.T) {
	iv := resolve("2025-03-12", "18:00", "00:00")
	assert.Equal(t, 6*time.Hour, iv.Duration())
	assert.True(t, iv.CrossesMidnight())
}

func TestResolveShift_EqualClocksSpanADay(t *testing.T) {
	iv := resolve("2025-03-12", "07:00", "07:00")
	assert.Equal(t, 24*time.Hour, iv.Duration())
}

// =============================================================================
// WINDOW OVERLAP
// =============================================================================

func TestWindowOverlap(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		start, end string
		want       time.Duration
	}{
		{"full night shift", "2025-03-12", "21:00", "05:00", 8 * time.Hour},
		{"evening tail", "2025-03-16", "17:00", "23:00", 2 * time.Hour},
		{"pure day", "2025-03-12", "07:00", "13:00", 0},
		{"early start", "2025-03-11", "05:30", "11:30", 30 * time.Minute},
		{"both windows one day", "2025-03-12", "04:00", "22:00", 3 * time.Hour},
		{"across the year", "2024-12-31", "22:00", "07:00", 8 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := resolve(tt.date, tt.start, tt.end)
			assert.Equal(t, tt.want, generic.WindowOverlap(iv, testNight...))
		})
	}
}

func TestWindowOverlap_IsAdditive(t *testing.T) {
	// GIVEN: A 24h span and every possible 15-minute split point
	iv := resolve("2025-03-12", "19:00", "19:00")
	whole := generic.WindowOverlap(iv, testNight...)

	for cut := iv.Start; cut.Before(iv.End); cut = cut.Add(15 * time.Minute) {
		left := generic.Interval{Start: iv.Start, End: cut}
		right := generic.Interval{Start: cut, End: iv.End}

		// THEN: The parts always add up to the whole
		got := generic.WindowOverlap(left, testNight...) + generic.WindowOverlap(right, testNight...)
		assert.Equal(t, whole, got, "split at %s", cut.Format(time.RFC3339))
	}
	assert.Equal(t, 9*time.Hour, whole)
}

func TestWindowOverlap_EmptyInterval(t *testing.T) {
	at := time.Date(2025, time.March, 12, 22, 0, 0, 0, time.UTC)
	assert.Zero(t, generic.WindowOverlap(generic.Interval{Start: at, End: at}, testNight...))
}
