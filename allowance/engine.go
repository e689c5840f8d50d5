/*
engine.go - The allowance rule engine

PURPOSE:
  Computes the itemized allowances of one shift from the shift itself and
  the employee's financial data. The engine is a pure function: it owns no
  collections, performs no I/O and never mutates its inputs.

EVALUATION:
  1. Resolve start/end clocks on the shift date (one midnight rollover at most)
  2. Split the interval into night hours and day hours
  3. Stacking rules - each one that applies adds its line:
       hasMNS                          → MNL lump sum
       crosses midnight, end ≥ 00:30   → TN30  RAW × pct / 26
       end ≥ 23:30 or crosses midnight → RMTR lump sum
       start in [05:00,06:00), regular → TN35  RAW × pct / 26
  4. Exclusive rules - the first that applies adds its lines:
       overtime on Sunday/holiday → ST-DOM (×1.50) / ST-DOM-N (×1.75)
       overtime on a weekday      → STSE day, STSE + LNH5 night
       regular on a holiday       → LFH6 / LFH8
       regular on a Sunday        → DH40 / DH60
       regular on a weekday       → LNH5 night only
  5. Total = Σ line values at full precision

CONCURRENCY:
  Engine is immutable after construction and safe for concurrent use.
*/
package allowance

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/roster-engine/generic"
)

var (
	nightCrossingThreshold = generic.NewClock(0, 30)
	lateFinishThreshold    = generic.NewClock(23, 30)
	earlyStartFrom         = generic.NewClock(5, 0)
	earlyStartTo           = generic.NewClock(6, 0)
)

// evaluation is everything the rules look at, computed once per call.
type evaluation struct {
	shift    Shift
	interval generic.Interval
	start    generic.Clock
	end      generic.Clock
	bases    Bases
	night    decimal.Decimal
	day      decimal.Decimal
	sunday   bool
	holiday  bool
}

// Engine computes allowances for single shifts.
type Engine struct {
	rules    RuleTable
	calendar generic.HolidayCalendar
	logger   *zap.Logger
	set      generic.RuleSet[*evaluation, Allowance]
}

// NewEngine validates the rule table and builds the evaluation tables.
// A nil calendar means the civil Calendar.
func NewEngine(rules RuleTable, calendar generic.HolidayCalendar, logger *zap.Logger) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if calendar == nil {
		calendar = Calendar{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{rules: rules, calendar: calendar, logger: logger}
	e.set = e.buildRuleSet()
	return e, nil
}

// Rules returns the engine's rule table.
func (e *Engine) Rules() RuleTable { return e.rules }

// Compute returns the allowances of one shift. Only malformed HH:MM input
// fails, with a *generic.ParseError.
func (e *Engine) Compute(s Shift, fin FinancialData) (Result, error) {
	start, err := generic.ParseClock(s.StartTime)
	if err != nil {
		return Result{}, err
	}
	end, err := generic.ParseClock(s.EndTime)
	if err != nil {
		return Result{}, err
	}

	iv := generic.ResolveShift(s.Date, start, end)
	night, day := SplitHours(iv)
	ev := &evaluation{
		shift:    s,
		interval: iv,
		start:    start,
		end:      end,
		bases:    DeriveBases(fin),
		night:    night,
		day:      day,
		sunday:   s.Date.IsSunday(),
		holiday:  e.calendar.IsHoliday(s.Date),
	}

	var fired []string
	lines := e.set.Evaluate(ev, func(name string) { fired = append(fired, name) })
	if lines == nil {
		lines = []Allowance{}
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Value)
	}

	e.logger.Debug("allowances computed",
		zap.String("shift_id", s.ID),
		zap.String("date", s.Date.String()),
		zap.String("code", s.ShiftCode),
		zap.Bool("overtime", s.IsOvertime),
		zap.String("night_hours", night.String()),
		zap.String("day_hours", day.String()),
		zap.Strings("rules", fired),
		zap.String("total", total.StringFixed(2)))

	return Result{Allowances: lines, TotalAllowance: total}, nil
}

// Calculate returns a new CalculatedShift for s; s itself is not modified.
func (e *Engine) Calculate(s Shift, fin FinancialData) (CalculatedShift, error) {
	res, err := e.Compute(s, fin)
	if err != nil {
		return CalculatedShift{}, err
	}
	return CalculatedShift{Shift: s, Allowances: res.Allowances, TotalAllowance: res.TotalAllowance}, nil
}

// =============================================================================
// RULE TABLES
// =============================================================================

func (e *Engine) buildRuleSet() generic.RuleSet[*evaluation, Allowance] {
	return generic.RuleSet[*evaluation, Allowance]{
		Stacking: []generic.Rule[*evaluation, Allowance]{
			{
				Name: "missed_weekly_rest",
				When: func(ev *evaluation) bool { return ev.shift.HasMNS },
				Emit: func(ev *evaluation) []Allowance { return e.lumpSum(CodeMissedWeeklyRest) },
			},
			{
				Name: "night_crossing",
				When: func(ev *evaluation) bool {
					return ev.interval.CrossesMidnight() && ev.end >= nightCrossingThreshold
				},
				Emit: func(ev *evaluation) []Allowance { return e.daily(ev, CodeNightCrossing) },
			},
			{
				Name: "late_finish",
				When: func(ev *evaluation) bool {
					return ev.end >= lateFinishThreshold || ev.interval.CrossesMidnight()
				},
				Emit: func(ev *evaluation) []Allowance { return e.lumpSum(CodeLateFinish) },
			},
			{
				Name: "early_start",
				When: func(ev *evaluation) bool {
					return !ev.shift.IsOvertime && ev.start >= earlyStartFrom && ev.start < earlyStartTo
				},
				Emit: func(ev *evaluation) []Allowance { return e.daily(ev, CodeEarlyStart) },
			},
		},
		Exclusive: []generic.Rule[*evaluation, Allowance]{
			{
				Name: "festive_overtime",
				When: func(ev *evaluation) bool { return ev.shift.IsOvertime && (ev.sunday || ev.holiday) },
				Emit: e.festiveOvertime,
			},
			{
				Name: "weekday_overtime",
				When: func(ev *evaluation) bool { return ev.shift.IsOvertime },
				Emit: e.weekdayOvertime,
			},
			{
				Name: "holiday",
				When: func(ev *evaluation) bool { return ev.holiday },
				Emit: func(ev *evaluation) []Allowance {
					return append(
						e.hourly(CodeHolidayDay, e.rules[CodeHolidayDay].Description, ev.day, ev.bases.PremiumRate(e.rules[CodeHolidayDay])),
						e.hourly(CodeHolidayNight, e.rules[CodeHolidayNight].Description, ev.night, ev.bases.PremiumRate(e.rules[CodeHolidayNight]))...)
				},
			},
			{
				Name: "sunday",
				When: func(ev *evaluation) bool { return ev.sunday },
				Emit: func(ev *evaluation) []Allowance {
					return append(
						e.hourly(CodeSundayDay, e.rules[CodeSundayDay].Description, ev.day, ev.bases.PremiumRate(e.rules[CodeSundayDay])),
						e.hourly(CodeSundayNight, e.rules[CodeSundayNight].Description, ev.night, ev.bases.PremiumRate(e.rules[CodeSundayNight]))...)
				},
			},
			{
				Name: "weekday_night",
				When: generic.Always[*evaluation],
				Emit: func(ev *evaluation) []Allowance {
					return e.hourly(CodeNight, e.rules[CodeNight].Description, ev.night, ev.bases.PremiumRate(e.rules[CodeNight]))
				},
			},
		},
	}
}

func (e *Engine) festiveOvertime(ev *evaluation) []Allowance {
	dayRule, nightRule := e.rules[CodeFestiveOvertime], e.rules[CodeFestiveOvertimeNgt]
	dayDesc, nightDesc := dayRule.Description, nightRule.Description
	if ev.holiday {
		dayDesc, nightDesc = altOr(dayRule), altOr(nightRule)
	}
	return append(
		e.hourly(CodeFestiveOvertime, dayDesc, ev.day, ev.bases.FullRate(dayRule)),
		e.hourly(CodeFestiveOvertimeNgt, nightDesc, ev.night, ev.bases.FullRate(nightRule))...)
}

// weekdayOvertime pays day hours at the overtime rate. Night hours get two
// lines over the same hours: the overtime rate, plus the night premium on the
// ordinary hourly base.
func (e *Engine) weekdayOvertime(ev *evaluation) []Allowance {
	ot, night := e.rules[CodeOvertime], e.rules[CodeNight]
	out := e.hourly(CodeOvertime, ot.Description, ev.day, ev.bases.FullRate(ot))
	if ev.night.IsPositive() {
		out = append(out, e.hourly(CodeOvertime, altOr(ot), ev.night, ev.bases.FullRate(ot))...)
		out = append(out, e.hourly(CodeNight, altOr(night), ev.night, ev.bases.PremiumRate(night))...)
	}
	return out
}

// =============================================================================
// LINE BUILDERS
// =============================================================================

func (e *Engine) lumpSum(code string) []Allowance {
	r := e.rules[code]
	return []Allowance{{Code: code, Description: r.Description, Value: r.Value}}
}

func (e *Engine) daily(ev *evaluation, code string) []Allowance {
	r := e.rules[code]
	return []Allowance{{Code: code, Description: r.Description, Value: ev.bases.DailyValue(r)}}
}

// hourly emits hours × rate, or nothing when hours is zero.
func (e *Engine) hourly(code, description string, hours, rate decimal.Decimal) []Allowance {
	if !hours.IsPositive() {
		return nil
	}
	h := hours
	return []Allowance{{Code: code, Description: description, Value: hours.Mul(rate), Hours: &h}}
}

func altOr(r Rule) string {
	if r.AltDescription != "" {
		return r.AltDescription
	}
	return r.Description
}
