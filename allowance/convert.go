package allowance

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// ROSTER → ENGINE INPUT
// =============================================================================

// ShiftID is the deterministic id of a regular shift: the same day and code
// always map to the same id, so re-importing a roster overwrites rather than
// duplicates.
func ShiftID(date generic.TimePoint, code string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("shift:"+date.String()+":"+code)).String()
}

// FromExtracted maps a parsed roster day to an engine Shift. Rest days, the
// no-shift sentinel and codes without a time range yield ok=false.
func FromExtracted(es roster.ExtractedShift, codes roster.CodeTable) (Shift, bool) {
	if codes.IsRest(es.ShiftCode) || codes.IsNoShift(es.ShiftCode) {
		return Shift{}, false
	}
	tr, ok := codes.Times(es.ShiftCode)
	if !ok {
		return Shift{}, false
	}
	return Shift{
		ID:        ShiftID(es.Date, es.ShiftCode),
		Date:      es.Date,
		ShiftCode: es.ShiftCode,
		StartTime: tr.Start,
		EndTime:   tr.End,
		HasMNS:    es.HasMNS,
	}, true
}

// CalculateWeek converts and computes every working day of an imported week.
// The output is ordered by date.
func (e *Engine) CalculateWeek(week []roster.ExtractedShift, codes roster.CodeTable, fin FinancialData) ([]CalculatedShift, error) {
	out := make([]CalculatedShift, 0, len(week))
	for _, es := range week {
		s, ok := FromExtracted(es, codes)
		if !ok {
			e.logger.Debug("skipping non-working day",
				zap.String("date", es.Date.String()),
				zap.String("code", es.ShiftCode))
			continue
		}
		cs, err := e.Calculate(s, fin)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	SortShifts(out)
	return out, nil
}

// Recalculate recomputes every shift against new financial data, e.g. after
// the settings change.
func (e *Engine) Recalculate(shifts []CalculatedShift, fin FinancialData) ([]CalculatedShift, error) {
	out := make([]CalculatedShift, 0, len(shifts))
	for _, cs := range shifts {
		re, err := e.Calculate(cs.Shift, fin)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// ImportedDays returns the distinct days of a computed import, in order.
func ImportedDays(shifts []CalculatedShift) []generic.TimePoint {
	seen := make(map[generic.TimePoint]bool, len(shifts))
	var days []generic.TimePoint
	for _, s := range shifts {
		if !seen[s.Date] {
			seen[s.Date] = true
			days = append(days, s.Date)
		}
	}
	return days
}
