package generic

import "time"

// =============================================================================
// INTERVAL - Half-open span of instants [Start, End)
// =============================================================================

// Interval is the half-open span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// ResolveShift turns a day plus start/end clocks into an interval. When the
// end clock is not after the start clock the end rolls forward by exactly one
// day; it never rolls more than once.
func ResolveShift(day TimePoint, start, end Clock) Interval {
	from := day.At(start)
	to := day.At(end)
	if !to.After(from) {
		to = to.AddDate(0, 0, 1)
	}
	return Interval{Start: from, End: to}
}

func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// CrossesMidnight reports whether the interval ends on a later day than it starts.
func (iv Interval) CrossesMidnight() bool {
	return !DayOf(iv.End).Equal(DayOf(iv.Start))
}

// Overlap returns the length of the intersection with other.
func (iv Interval) Overlap(other Interval) time.Duration {
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// =============================================================================
// DAILY WINDOW - A span of wall-clock time repeated every day
// =============================================================================

// DailyWindow is [From, To) on every calendar day. To may be 24:00
// (MinutesPerDay) to reach the end of the day.
type DailyWindow struct {
	From Clock
	To   Clock
}

// On returns the window's concrete interval on the given day.
func (w DailyWindow) On(day TimePoint) Interval {
	return Interval{Start: day.At(w.From), End: day.At(w.To)}
}

// WindowOverlap sums, over every calendar day the interval touches, the
// overlap with each window individually. The result is exact at minute
// resolution and additive: splitting the interval at any instant and summing
// the parts gives the same total.
func WindowOverlap(iv Interval, windows ...DailyWindow) time.Duration {
	if !iv.End.After(iv.Start) {
		return 0
	}
	var total time.Duration
	for day := DayOf(iv.Start); day.Time.Before(iv.End); day = day.AddDays(1) {
		for _, w := range windows {
			total += iv.Overlap(w.On(day))
		}
	}
	return total
}
