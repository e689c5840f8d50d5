// Package allowance implements the labor-law allowance engine: night and
// holiday premiums, missed-rest lump sums and overtime splits for one shift.
package allowance

import (
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// FINANCIAL DATA
// =============================================================================

// FinancialData holds the payslip components every rate is derived from.
type FinancialData struct {
	ComponentA decimal.Decimal `json:"component_a"` // base salary line
	ComponentB decimal.Decimal `json:"component_b"` // cost-of-living line
	Supplement decimal.Decimal `json:"supplement"`  // separate element, counts towards the thirteenth
}

// =============================================================================
// RULE CONFIGURATION
// =============================================================================

type CalculationType string

const (
	HourlyPercentage CalculationType = "hourly_percentage"
	DailyPercentage  CalculationType = "daily_percentage"
	LumpSum          CalculationType = "lump_sum"
)

// BaseReference names the derived base a percentage applies to.
type BaseReference string

const (
	BaseHourly         BaseReference = "hourly"          // BASE / 173
	BaseOvertimeHourly BaseReference = "overtime_hourly" // (BASE + thirteenth) / 173
	BaseDailyRaw       BaseReference = "daily_raw"       // RAW / 26
	BaseDaily          BaseReference = "daily"           // BASE / 26
)

// Rule is one line of the allowance table.
type Rule struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Type        CalculationType `json:"type"`
	Value       decimal.Decimal `json:"value"` // fraction (0.5 = 50%) or amount for lump sums
	Base        BaseReference   `json:"base,omitempty"`

	// AltDescription is the wording used when the rule is applied in its
	// secondary context: holiday rather than Sunday overtime, the night
	// share of weekday overtime, or the night premium stacked on overtime.
	AltDescription string `json:"alt_description,omitempty"`
}

// =============================================================================
// SHIFTS AND ALLOWANCES
// =============================================================================

// Allowance is one itemized line. Hours is set only for hourly lines.
type Allowance struct {
	Code        string           `json:"code"`
	Description string           `json:"description"`
	Value       decimal.Decimal  `json:"value"`
	Hours       *decimal.Decimal `json:"hours,omitempty"`
}

// Shift is the engine input: a day plus HH:MM start and end.
type Shift struct {
	ID            string            `json:"id"`
	Date          generic.TimePoint `json:"date"`
	ShiftCode     string            `json:"shift_code"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	IsOvertime    bool              `json:"is_overtime"`
	OvertimeHours *decimal.Decimal  `json:"overtime_hours,omitempty"`
	HasMNS        bool              `json:"has_mns"`
}

// CalculatedShift is a shift with its computed allowances.
// TotalAllowance always equals the sum of Allowances[].Value.
type CalculatedShift struct {
	Shift
	Allowances     []Allowance     `json:"allowances"`
	TotalAllowance decimal.Decimal `json:"total_allowance"`
}

// Result is the engine output for one shift.
type Result struct {
	Allowances     []Allowance
	TotalAllowance decimal.Decimal
}

// Profile is the employee whose roster is imported.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
