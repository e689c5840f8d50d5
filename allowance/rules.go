package allowance

import (
	"fmt"
	"sort"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// RULE TABLE
// =============================================================================

// Allowance codes the engine emits.
const (
	CodeMissedWeeklyRest   = "MNL"
	CodeNightCrossing      = "TN30"
	CodeLateFinish         = "RMTR"
	CodeEarlyStart         = "TN35"
	CodeOvertime           = "STSE"
	CodeNight              = "LNH5"
	CodeHolidayDay         = "LFH6"
	CodeHolidayNight       = "LFH8"
	CodeSundayDay          = "DH40"
	CodeSundayNight        = "DH60"
	CodeFestiveOvertime    = "ST-DOM"
	CodeFestiveOvertimeNgt = "ST-DOM-N"
)

// RequiredCodes lists every code the engine looks up.
var RequiredCodes = []string{
	CodeMissedWeeklyRest, CodeNightCrossing, CodeLateFinish, CodeEarlyStart,
	CodeOvertime, CodeNight, CodeHolidayDay, CodeHolidayNight,
	CodeSundayDay, CodeSundayNight, CodeFestiveOvertime, CodeFestiveOvertimeNgt,
}

// RuleTable maps allowance codes to their configuration. Read-only.
type RuleTable map[string]Rule

// Validate checks that every required code is present and well-formed.
func (t RuleTable) Validate() error {
	for _, code := range RequiredCodes {
		r, ok := t[code]
		if !ok {
			return fmt.Errorf("%w: rule %s missing", generic.ErrInvalidInput, code)
		}
		switch r.Type {
		case HourlyPercentage, DailyPercentage:
			if r.Base == "" {
				return fmt.Errorf("%w: rule %s needs a base", generic.ErrInvalidInput, code)
			}
		case LumpSum:
		default:
			return fmt.Errorf("%w: rule %s has unknown type %q", generic.ErrInvalidInput, code, r.Type)
		}
		if r.Value.IsNegative() {
			return fmt.Errorf("%w: rule %s has negative value", generic.ErrInvalidInput, code)
		}
	}
	return nil
}

// Codes returns the table's codes in lexical order.
func (t RuleTable) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// DefaultRules returns the built-in allowance table.
func DefaultRules() RuleTable {
	d := generic.MustParseDecimal
	return RuleTable{
		CodeMissedWeeklyRest: {
			Code: CodeMissedWeeklyRest, Description: "Mancato riposo settimanale",
			Type: LumpSum, Value: d("25.82"),
		},
		CodeNightCrossing: {
			Code: CodeNightCrossing, Description: "Turno oltre le 00:30",
			Type: DailyPercentage, Value: d("0.30"), Base: BaseDailyRaw,
		},
		CodeLateFinish: {
			Code: CodeLateFinish, Description: "Rientro a tarda ora",
			Type: LumpSum, Value: d("5.16"),
		},
		CodeEarlyStart: {
			Code: CodeEarlyStart, Description: "Inizio turno tra le 05:00 e le 06:00",
			Type: DailyPercentage, Value: d("0.35"), Base: BaseDailyRaw,
		},
		CodeOvertime: {
			Code: CodeOvertime, Description: "Straordinario feriale diurno",
			AltDescription: "Straordinario feriale (quota oraria)",
			Type:           HourlyPercentage, Value: d("0.30"), Base: BaseOvertimeHourly,
		},
		CodeNight: {
			Code: CodeNight, Description: "Maggiorazione lavoro notturno",
			AltDescription: "Maggiorazione notturna (su straordinario)",
			Type:           HourlyPercentage, Value: d("0.50"), Base: BaseHourly,
		},
		CodeHolidayDay: {
			Code: CodeHolidayDay, Description: "Lavoro festivo diurno",
			Type: HourlyPercentage, Value: d("0.60"), Base: BaseHourly,
		},
		CodeHolidayNight: {
			Code: CodeHolidayNight, Description: "Lavoro festivo notturno",
			Type: HourlyPercentage, Value: d("0.80"), Base: BaseHourly,
		},
		CodeSundayDay: {
			Code: CodeSundayDay, Description: "Lavoro domenicale diurno",
			Type: HourlyPercentage, Value: d("0.40"), Base: BaseHourly,
		},
		CodeSundayNight: {
			Code: CodeSundayNight, Description: "Lavoro domenicale notturno",
			Type: HourlyPercentage, Value: d("0.60"), Base: BaseHourly,
		},
		CodeFestiveOvertime: {
			Code: CodeFestiveOvertime, Description: "Straordinario domenicale diurno",
			AltDescription: "Straordinario festivo diurno",
			Type:           HourlyPercentage, Value: d("0.50"), Base: BaseOvertimeHourly,
		},
		CodeFestiveOvertimeNgt: {
			Code: CodeFestiveOvertimeNgt, Description: "Straordinario domenicale notturno",
			AltDescription: "Straordinario festivo notturno",
			Type:           HourlyPercentage, Value: d("0.75"), Base: BaseOvertimeHourly,
		},
	}
}
