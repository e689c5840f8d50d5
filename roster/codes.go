package roster

import "sort"

// =============================================================================
// SHIFT CODE TABLE - Code → time range lookup
// =============================================================================

// TimeRange is the HH:MM start and end of a standard shift.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CodeTable is the static vocabulary of a roster: working shift codes with
// their times, rest-day codes with display names, the no-shift sentinel and
// location labels. It is read-only after construction and safe to share.
type CodeTable struct {
	Shifts    map[string]TimeRange `json:"shifts"`
	Rest      map[string]string    `json:"rest"`
	NoShift   string               `json:"no_shift"`
	Locations map[string]string    `json:"locations,omitempty"`
}

// NoShiftCode is the default sentinel for "no shift assigned".
const NoShiftCode = "XXX"

func (t CodeTable) IsShift(code string) bool {
	_, ok := t.Shifts[code]
	return ok
}

func (t CodeTable) IsRest(code string) bool {
	_, ok := t.Rest[code]
	return ok
}

func (t CodeTable) IsNoShift(code string) bool {
	return code != "" && code == t.NoShift
}

// IsKnown reports whether a bare token may stand for a roster day.
func (t CodeTable) IsKnown(code string) bool {
	return t.IsShift(code) || t.IsRest(code) || t.IsNoShift(code)
}

// Times returns the time range of a working shift code.
func (t CodeTable) Times(code string) (TimeRange, bool) {
	tr, ok := t.Shifts[code]
	return tr, ok
}

// LocationName resolves a location abbreviation, falling back to the input.
func (t CodeTable) LocationName(loc string) string {
	if name, ok := t.Locations[loc]; ok {
		return name
	}
	return loc
}

// ShiftCodes returns the working codes in lexical order.
func (t CodeTable) ShiftCodes() []string {
	codes := make([]string, 0, len(t.Shifts))
	for c := range t.Shifts {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// DefaultCodes returns the built-in roster vocabulary.
func DefaultCodes() CodeTable {
	return CodeTable{
		Shifts: map[string]TimeRange{
			"M":   {Start: "07:00", End: "13:00"},
			"M1":  {Start: "06:00", End: "12:00"},
			"M2":  {Start: "08:00", End: "14:00"},
			"TM":  {Start: "05:30", End: "11:30"},
			"P":   {Start: "13:00", End: "19:00"},
			"P1":  {Start: "14:00", End: "20:00"},
			"P2":  {Start: "16:00", End: "22:00"},
			"S":   {Start: "18:00", End: "00:00"},
			"S1":  {Start: "17:30", End: "23:30"},
			"L":   {Start: "09:00", End: "17:00"},
			"G":   {Start: "08:00", End: "20:00"},
			"N":   {Start: "21:00", End: "05:00"},
			"N1":  {Start: "22:00", End: "06:00"},
			"*N":  {Start: "00:00", End: "06:00"},
			"M+":  {Start: "06:30", End: "14:30"},
			"P+":  {Start: "14:30", End: "22:30"},
			"S-1": {Start: "19:00", End: "01:00"},
		},
		Rest: map[string]string{
			"Z1":  "Weekly rest",
			"Z2":  "Second weekly rest",
			"Z3":  "Compensatory rest",
			"ZF":  "Holiday rest",
			"RCF": "Compensatory holiday rest",
		},
		NoShift: NoShiftCode,
		Locations: map[string]string{
			"SP": "Studio principale",
			"SE": "Sede esterna",
			"RD": "Redazione",
		},
	}
}
