/*
Package factory provides JSON to Go conversion of the engine's static tables.

PURPOSE:
  Converts JSON definitions into an allowance.RuleTable and a
  roster.CodeTable. Contract renewals change rates, and a new roster adds
  shift codes; both are configuration, not code.

RULES JSON:
  {
    "replace": false,
    "rules": [
      {"code": "MNL",  "type": "lump_sum",          "value": "26.10"},
      {"code": "LNH5", "type": "hourly_percentage", "value": "0.55", "base": "hourly"}
    ]
  }

CODES JSON:
  {
    "replace": false,
    "shifts":    {"M3": {"start": "09:30", "end": "15:30"}},
    "rest":      {"Z4": "Extra rest"},
    "no_shift":  "XXX",
    "locations": {"NW": "Newsroom"}
  }

MERGING:
  With "replace": false (the default) entries are laid over the built-in
  tables; fields left empty keep the built-in value. With "replace": true
  the JSON is the whole table. Either way the result is validated.

USAGE:
  rules, err := factory.ParseRules(data)
  codes, err := factory.ParseCodes(data)

SEE ALSO:
  - allowance/rules.go: RuleTable and DefaultRules
  - roster/codes.go: CodeTable and DefaultCodes
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of a rule table.
type RulesJSON struct {
	Replace bool       `json:"replace,omitempty"`
	Rules   []RuleJSON `json:"rules"`
}

// RuleJSON represents one allowance rule. Value is a decimal given as a
// string or a number.
type RuleJSON struct {
	Code           string           `json:"code"`
	Description    string           `json:"description,omitempty"`
	AltDescription string           `json:"alt_description,omitempty"`
	Type           string           `json:"type,omitempty"`
	Value          *decimal.Decimal `json:"value,omitempty"`
	Base           string           `json:"base,omitempty"`
}

// CodesJSON is the JSON representation of a shift-code table.
type CodesJSON struct {
	Replace   bool                        `json:"replace,omitempty"`
	Shifts    map[string]roster.TimeRange `json:"shifts,omitempty"`
	Rest      map[string]string           `json:"rest,omitempty"`
	NoShift   string                      `json:"no_shift,omitempty"`
	Locations map[string]string           `json:"locations,omitempty"`
}

// =============================================================================
// RULES
// =============================================================================

// ParseRules parses a JSON rule table and validates the result.
func ParseRules(data []byte) (allowance.RuleTable, error) {
	var rj RulesJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse rules JSON: %v", generic.ErrInvalidInput, err)
	}
	return RulesFromJSON(rj)
}

// RulesFromJSON converts RulesJSON to a validated allowance.RuleTable.
func RulesFromJSON(rj RulesJSON) (allowance.RuleTable, error) {
	table := allowance.RuleTable{}
	if !rj.Replace {
		table = allowance.DefaultRules()
	}

	for _, r := range rj.Rules {
		if r.Code == "" {
			return nil, fmt.Errorf("%w: rule without code", generic.ErrInvalidInput)
		}
		rule := table[r.Code]
		rule.Code = r.Code
		if r.Description != "" {
			rule.Description = r.Description
		}
		if r.AltDescription != "" {
			rule.AltDescription = r.AltDescription
		}
		if r.Type != "" {
			t, err := parseCalculationType(r.Type)
			if err != nil {
				return nil, err
			}
			rule.Type = t
		}
		if r.Value != nil {
			rule.Value = *r.Value
		}
		if r.Base != "" {
			b, err := parseBase(r.Base)
			if err != nil {
				return nil, err
			}
			rule.Base = b
		}
		table[r.Code] = rule
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// RulesToJSON converts a rule table to its full JSON form, in code order.
func RulesToJSON(table allowance.RuleTable) RulesJSON {
	rj := RulesJSON{Replace: true}
	for _, code := range table.Codes() {
		r := table[code]
		v := r.Value
		rj.Rules = append(rj.Rules, RuleJSON{
			Code:           code,
			Description:    r.Description,
			AltDescription: r.AltDescription,
			Type:           string(r.Type),
			Value:          &v,
			Base:           string(r.Base),
		})
	}
	return rj
}

// =============================================================================
// CODES
// =============================================================================

// ParseCodes parses a JSON shift-code table and validates the result.
func ParseCodes(data []byte) (roster.CodeTable, error) {
	var cj CodesJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return roster.CodeTable{}, fmt.Errorf("%w: failed to parse codes JSON: %v", generic.ErrInvalidInput, err)
	}
	return CodesFromJSON(cj)
}

// CodesFromJSON converts CodesJSON to a validated roster.CodeTable.
func CodesFromJSON(cj CodesJSON) (roster.CodeTable, error) {
	table := roster.CodeTable{
		Shifts:    map[string]roster.TimeRange{},
		Rest:      map[string]string{},
		NoShift:   roster.NoShiftCode,
		Locations: map[string]string{},
	}
	if !cj.Replace {
		table = roster.DefaultCodes()
	}

	for code, tr := range cj.Shifts {
		table.Shifts[code] = tr
	}
	for code, name := range cj.Rest {
		table.Rest[code] = name
	}
	for abbr, name := range cj.Locations {
		table.Locations[abbr] = name
	}
	if cj.NoShift != "" {
		table.NoShift = cj.NoShift
	}

	if err := validateCodes(table); err != nil {
		return roster.CodeTable{}, err
	}
	return table, nil
}

func validateCodes(t roster.CodeTable) error {
	for code, tr := range t.Shifts {
		if code == "" {
			return fmt.Errorf("%w: empty shift code", generic.ErrInvalidInput)
		}
		if _, err := generic.ParseClock(tr.Start); err != nil {
			return fmt.Errorf("%w: shift %s start: %v", generic.ErrInvalidInput, code, err)
		}
		if _, err := generic.ParseClock(tr.End); err != nil {
			return fmt.Errorf("%w: shift %s end: %v", generic.ErrInvalidInput, code, err)
		}
		if _, rest := t.Rest[code]; rest {
			return fmt.Errorf("%w: code %s is both a shift and a rest code", generic.ErrInvalidInput, code)
		}
		if code == t.NoShift {
			return fmt.Errorf("%w: code %s is both a shift and the no-shift code", generic.ErrInvalidInput, code)
		}
	}
	return nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

// LoadRules reads a rules file; an empty path means the built-in table.
func LoadRules(path string) (allowance.RuleTable, error) {
	if path == "" {
		return allowance.DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// LoadCodes reads a codes file; an empty path means the built-in table.
func LoadCodes(path string) (roster.CodeTable, error) {
	if path == "" {
		return roster.DefaultCodes(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return roster.CodeTable{}, fmt.Errorf("failed to read codes file: %w", err)
	}
	return ParseCodes(data)
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseCalculationType(s string) (allowance.CalculationType, error) {
	switch t := allowance.CalculationType(s); t {
	case allowance.HourlyPercentage, allowance.DailyPercentage, allowance.LumpSum:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown calculation type %q", generic.ErrInvalidInput, s)
	}
}

func parseBase(s string) (allowance.BaseReference, error) {
	switch b := allowance.BaseReference(s); b {
	case allowance.BaseHourly, allowance.BaseOvertimeHourly, allowance.BaseDailyRaw, allowance.BaseDaily:
		return b, nil
	default:
		return "", fmt.Errorf("%w: unknown base %q", generic.ErrInvalidInput, s)
	}
}
