/*
Package generic provides the domain-agnostic building blocks of the roster engine.

PURPOSE:
  The roster importer and the allowance engine both reason about calendar
  days, wall-clock times, recurring daily windows and money. Those concepts
  live here so that the domain packages only express business rules.

KEY CONCEPTS:
  - TimePoint: a calendar day at UTC midnight (time.go)
  - Clock: a wall-clock HH:MM value (time.go)
  - Interval / DailyWindow: instant spans and recurring windows (window.go)
  - Period: inclusive day ranges, roster weeks, months (period.go)
  - Amount: a decimal quantity with a unit (this file)
  - RuleSet: ordered predicate → emitter tables (rules.go)

DESIGN PRINCIPLES:
  1. Purity: nothing in this package holds mutable shared state
  2. Precision: money and hours use decimal.Decimal; rounding is a display concern
  3. UTC only: no time-zone arithmetic anywhere

SEE ALSO:
  - roster/: document extraction and schedule parsing
  - allowance/: the allowance rule engine
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

type Unit string

const UnitEUR Unit = "EUR"

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// HoursOf converts a duration to decimal hours at full precision.
func HoursOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}

// MustParseDecimal parses a literal known to be valid; invalid input yields zero.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Sum adds decimals at full precision.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
