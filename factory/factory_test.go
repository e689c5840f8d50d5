package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// RULES
// =============================================================================

func TestParseRules_OverlaysDefaults(t *testing.T) {
	// GIVEN: A renewal that changes one lump sum and one percentage
	data := []byte(`{
		"rules": [
			{"code": "MNL", "value": "26.10"},
			{"code": "LNH5", "value": 0.55, "description": "Notturno"}
		]
	}`)

	// WHEN: Parsing
	rules, err := ParseRules(data)
	require.NoError(t, err)

	// THEN: Only the given fields change
	assert.Equal(t, "26.1", rules[allowance.CodeMissedWeeklyRest].Value.String())
	assert.Equal(t, allowance.LumpSum, rules[allowance.CodeMissedWeeklyRest].Type)

	night := rules[allowance.CodeNight]
	assert.Equal(t, "0.55", night.Value.String())
	assert.Equal(t, "Notturno", night.Description)
	assert.Equal(t, allowance.BaseHourly, night.Base)
	assert.Equal(t, allowance.DefaultRules()[allowance.CodeNight].AltDescription, night.AltDescription)

	assert.Len(t, rules, len(allowance.DefaultRules()))
}

func TestParseRules_ReplaceRequiresEveryCode(t *testing.T) {
	data := []byte(`{"replace": true, "rules": [{"code": "MNL", "type": "lump_sum", "value": "1"}]}`)
	_, err := ParseRules(data)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestParseRules_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed json": `{"rules": [`,
		"missing code":   `{"rules": [{"value": "1"}]}`,
		"unknown type":   `{"rules": [{"code": "MNL", "type": "weekly"}]}`,
		"unknown base":   `{"rules": [{"code": "LNH5", "base": "yearly"}]}`,
		"negative value": `{"rules": [{"code": "RMTR", "value": "-1"}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRules([]byte(data))
			assert.ErrorIs(t, err, generic.ErrInvalidInput)
		})
	}
}

func TestRulesToJSON_RoundTrip(t *testing.T) {
	rj := RulesToJSON(allowance.DefaultRules())
	assert.True(t, rj.Replace)
	require.Len(t, rj.Rules, len(allowance.RequiredCodes))

	back, err := RulesFromJSON(rj)
	require.NoError(t, err)
	for code, want := range allowance.DefaultRules() {
		got := back[code]
		assert.True(t, want.Value.Equal(got.Value), code)
		assert.Equal(t, want.Type, got.Type, code)
		assert.Equal(t, want.Base, got.Base, code)
	}
}

// =============================================================================
// CODES
// =============================================================================

func TestParseCodes_AddsToDefaults(t *testing.T) {
	data := []byte(`{
		"shifts": {"M3": {"start": "09:30", "end": "15:30"}},
		"rest": {"Z4": "Extra rest"},
		"locations": {"NW": "Newsroom"}
	}`)
	codes, err := ParseCodes(data)
	require.NoError(t, err)

	assert.True(t, codes.IsShift("M3"))
	assert.True(t, codes.IsShift("N"), "built-in codes kept")
	assert.True(t, codes.IsRest("Z4"))
	assert.Equal(t, "Newsroom", codes.LocationName("NW"))
	assert.Equal(t, "XXX", codes.NoShift)
}

func TestParseCodes_Replace(t *testing.T) {
	data := []byte(`{"replace": true, "shifts": {"A": {"start": "06:00", "end": "14:00"}}, "no_shift": "---"}`)
	codes, err := ParseCodes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, codes.ShiftCodes())
	assert.True(t, codes.IsNoShift("---"))
	assert.False(t, codes.IsShift("N"))
}

func TestParseCodes_Errors(t *testing.T) {
	tests := map[string]string{
		"bad time":       `{"shifts": {"X1": {"start": "9", "end": "15:00"}}}`,
		"shift and rest": `{"rest": {"M": "Not a shift"}}`,
		"no-shift clash": `{"no_shift": "M"}`,
		"malformed json": `{"shifts": 3}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCodes([]byte(data))
			assert.ErrorIs(t, err, generic.ErrInvalidInput)
		})
	}
}

// =============================================================================
// FILES
// =============================================================================

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Len(t, rules, len(allowance.RequiredCodes))

	codes, err := LoadCodes("")
	require.NoError(t, err)
	assert.True(t, codes.IsShift("N"))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rules": [{"code": "RMTR", "value": "6"}]}`), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "6", rules[allowance.CodeLateFinish].Value.String())

	_, err = LoadCodes(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
