package allowance

import (
	"github.com/google/uuid"

	"github.com/warp/roster-engine/generic"
)

// OvertimeCode is the shift code of manually entered overtime.
const OvertimeCode = "STRAORD."

// NewOvertime builds an overtime shift. OvertimeHours is the resolved
// interval length, so an end at or before the start spans midnight.
func NewOvertime(date generic.TimePoint, start, end string) (Shift, error) {
	from, err := generic.ParseClock(start)
	if err != nil {
		return Shift{}, err
	}
	to, err := generic.ParseClock(end)
	if err != nil {
		return Shift{}, err
	}
	hours := generic.HoursOf(generic.ResolveShift(date, from, to).Duration())
	return Shift{
		ID:            "overtime-" + uuid.NewString(),
		Date:          date,
		ShiftCode:     OvertimeCode,
		StartTime:     start,
		EndTime:       end,
		IsOvertime:    true,
		OvertimeHours: &hours,
	}, nil
}

// DefaultOvertimeStart suggests where overtime on a day begins: the latest
// end clock among that day's regular shifts, or 00:00 when there are none.
// Clocks are compared as times of day; a shift ending at 00:00 does not win
// over one ending at 23:30.
func DefaultOvertimeStart(shifts []CalculatedShift, date generic.TimePoint) string {
	latest := generic.Clock(0)
	for _, s := range shifts {
		if s.IsOvertime || !s.Date.Equal(date) {
			continue
		}
		end, err := generic.ParseClock(s.EndTime)
		if err != nil {
			continue
		}
		if end > latest {
			latest = end
		}
	}
	return latest.String()
}
