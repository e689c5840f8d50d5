package allowance

import "github.com/shopspring/decimal"

var (
	contractUplift     = decimal.RequireFromString("1.08")
	monthlyHourDivisor = decimal.NewFromInt(173)
	monthlyDayDivisor  = decimal.NewFromInt(26)
	monthsPerYear      = decimal.NewFromInt(12)
)

// Bases are the derived salary bases, computed once per engine call.
type Bases struct {
	Raw                   decimal.Decimal `json:"raw"`                     // ComponentA + ComponentB
	Base                  decimal.Decimal `json:"base"`                    // Raw × 1.08
	Hourly                decimal.Decimal `json:"hourly"`                  // Base / 173
	MonthlyThirteenth     decimal.Decimal `json:"monthly_thirteenth"`      // (Base + Supplement) / 12
	MonthlyPlusThirteenth decimal.Decimal `json:"monthly_plus_thirteenth"` // Base + MonthlyThirteenth
	HourlyOvertime        decimal.Decimal `json:"hourly_overtime"`         // MonthlyPlusThirteenth / 173
}

func DeriveBases(f FinancialData) Bases {
	raw := f.ComponentA.Add(f.ComponentB)
	base := raw.Mul(contractUplift)
	thirteenth := base.Add(f.Supplement).Div(monthsPerYear)
	plus := base.Add(thirteenth)
	return Bases{
		Raw:                   raw,
		Base:                  base,
		Hourly:                base.Div(monthlyHourDivisor),
		MonthlyThirteenth:     thirteenth,
		MonthlyPlusThirteenth: plus,
		HourlyOvertime:        plus.Div(monthlyHourDivisor),
	}
}

// Of returns the base a rule's percentage applies to. Daily references are
// the monthly figure before division by 26.
func (b Bases) Of(ref BaseReference) decimal.Decimal {
	switch ref {
	case BaseOvertimeHourly:
		return b.HourlyOvertime
	case BaseDailyRaw:
		return b.Raw
	case BaseDaily:
		return b.Base
	default:
		return b.Hourly
	}
}

// PremiumRate is the per-hour premium of an hourly rule: base × value.
func (b Bases) PremiumRate(r Rule) decimal.Decimal {
	return b.Of(r.Base).Mul(r.Value)
}

// FullRate is the per-hour pay of an hourly rule including the base itself:
// base × (1 + value).
func (b Bases) FullRate(r Rule) decimal.Decimal {
	return b.Of(r.Base).Mul(decimal.NewFromInt(1).Add(r.Value))
}

// DailyValue is the value of a daily-percentage rule: base × value / 26.
func (b Bases) DailyValue(r Rule) decimal.Decimal {
	return b.Of(r.Base).Mul(r.Value).Div(monthlyDayDivisor)
}
