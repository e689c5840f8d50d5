/*
summary.go - Monthly view over computed shifts

PURPOSE:
  Everything the monthly screen shows: the month's shifts, the grand total
  and a per-code breakdown. All figures are summed at full precision; the
  caller rounds for display.

SEE ALSO:
  - engine.go: produces the CalculatedShift values summarized here
  - api/handlers.go: GET /api/summary
*/
package allowance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// SummaryLine aggregates one allowance code over a month.
type SummaryLine struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Count       int             `json:"count"` // lines without hours, e.g. lump sums
}

// MonthlyReport is the summary of one calendar month.
type MonthlyReport struct {
	Period generic.Period `json:"-"`
	Month  string         `json:"month"`
	Total  generic.Amount `json:"total"`
	Shifts int            `json:"shifts"`
	Lines  []SummaryLine  `json:"lines"`
}

// SortShifts orders shifts by date, then start time, then id.
func SortShifts(shifts []CalculatedShift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		a, b := shifts[i], shifts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

// ShiftsInMonth returns the shifts dated inside the period, ordered.
func ShiftsInMonth(shifts []CalculatedShift, month generic.Period) []CalculatedShift {
	var out []CalculatedShift
	for _, s := range shifts {
		if month.Contains(s.Date) {
			out = append(out, s)
		}
	}
	SortShifts(out)
	return out
}

// MonthlyTotal sums the total allowance of the given shifts.
func MonthlyTotal(shifts []CalculatedShift) decimal.Decimal {
	values := make([]decimal.Decimal, len(shifts))
	for i, s := range shifts {
		values[i] = s.TotalAllowance
	}
	return generic.Sum(values...)
}

// MonthlySummary groups allowance lines by code, highest value first.
// Ties are broken by code so the order is stable.
func MonthlySummary(shifts []CalculatedShift) []SummaryLine {
	byCode := make(map[string]*SummaryLine)
	for _, s := range shifts {
		for _, a := range s.Allowances {
			line, ok := byCode[a.Code]
			if !ok {
				line = &SummaryLine{Code: a.Code, Description: a.Description}
				byCode[a.Code] = line
			}
			line.TotalValue = line.TotalValue.Add(a.Value)
			if a.Hours != nil {
				line.TotalHours = line.TotalHours.Add(*a.Hours)
			} else {
				line.Count++
			}
		}
	}

	out := make([]SummaryLine, 0, len(byCode))
	for _, l := range byCode {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalValue.Cmp(out[j].TotalValue); c != 0 {
			return c > 0
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// BuildMonthlyReport filters, totals and summarizes one month.
func BuildMonthlyReport(shifts []CalculatedShift, month generic.Period) MonthlyReport {
	in := ShiftsInMonth(shifts, month)
	return MonthlyReport{
		Period: month,
		Month:  month.Start.Time.Format("2006-01"),
		Total:  generic.NewAmountFromDecimal(MonthlyTotal(in), generic.UnitEUR),
		Shifts: len(in),
		Lines:  MonthlySummary(in),
	}
}
