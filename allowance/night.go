package allowance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// NightWindows is the recurring night window [00:00,06:00) ∪ [21:00,24:00).
var NightWindows = []generic.DailyWindow{
	{From: generic.NewClock(0, 0), To: generic.NewClock(6, 0)},
	{From: generic.NewClock(21, 0), To: generic.Clock(generic.MinutesPerDay)},
}

// NightDuration is the part of the interval inside the night window, summed
// over every day the interval touches.
func NightDuration(iv generic.Interval) time.Duration {
	return generic.WindowOverlap(iv, NightWindows...)
}

// SplitHours returns night and day hours; they always add up to the
// interval's duration.
func SplitHours(iv generic.Interval) (night, day decimal.Decimal) {
	nightDur := NightDuration(iv)
	return generic.HoursOf(nightDur), generic.HoursOf(iv.Duration() - nightDur)
}
