package allowance

import "github.com/shopspring/decimal"

// ReferenceRow shows what one rule is worth for the current financial data.
// Fields that do not apply to the rule's type are zero.
type ReferenceRow struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Type        CalculationType `json:"type"`
	Premium     decimal.Decimal `json:"premium_per_hour"` // hourly rules: base × value
	HourlyPay   decimal.Decimal `json:"hourly_pay"`       // hourly rules: base + premium
	GrossValue  decimal.Decimal `json:"gross_value"`      // daily and lump-sum rules
}

// Reference is the reference table for a set of rules.
type Reference struct {
	Bases Bases          `json:"bases"`
	Rows  []ReferenceRow `json:"rows"`

	// NightOvertime combines the two lines paid for a night hour of weekday
	// overtime.
	NightOvertime ReferenceRow `json:"night_overtime"`
}

// BuildReference evaluates every rule of the table, in code order.
func BuildReference(rules RuleTable, fin FinancialData) Reference {
	b := DeriveBases(fin)
	ref := Reference{Bases: b}
	for _, code := range rules.Codes() {
		r := rules[code]
		row := ReferenceRow{Code: code, Description: r.Description, Type: r.Type}
		switch r.Type {
		case HourlyPercentage:
			row.Premium = b.PremiumRate(r)
			row.HourlyPay = b.Of(r.Base).Add(row.Premium)
		case DailyPercentage:
			row.GrossValue = b.DailyValue(r)
		case LumpSum:
			row.GrossValue = r.Value
		}
		ref.Rows = append(ref.Rows, row)
	}

	ot, night := rules[CodeOvertime], rules[CodeNight]
	premium := b.PremiumRate(ot).Add(b.PremiumRate(night))
	ref.NightOvertime = ReferenceRow{
		Code:        CodeOvertime + "+" + CodeNight,
		Description: altOr(ot),
		Type:        HourlyPercentage,
		Premium:     premium,
		HourlyPay:   b.HourlyOvertime.Add(premium),
	}
	return ref
}
