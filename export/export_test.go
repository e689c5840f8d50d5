package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/export"
	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

func day(y int, m time.Month, d int) generic.TimePoint { return generic.NewTimePoint(y, m, d) }

// =============================================================================
// ICS
// =============================================================================

func testWeek() []roster.ExtractedShift {
	return []roster.ExtractedShift{
		{Date: day(2025, time.March, 10), ShiftCode: "N", Location: "SP"},
		{Date: day(2025, time.March, 11), ShiftCode: "Z1", Location: roster.RestLocation},
		{Date: day(2025, time.March, 12), ShiftCode: "XXX", Location: roster.UnknownLocation},
		{Date: day(2025, time.March, 13), ShiftCode: "M", Location: "ZZ"},
	}
}

func TestCalendar_Build(t *testing.T) {
	// GIVEN: A week with two working days
	cal := export.NewCalendar(roster.DefaultCodes())
	cal.Now = func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) }

	// WHEN: Building the calendar
	out, err := cal.Build(testWeek())
	require.NoError(t, err)

	// THEN: One event per working day; the night shift ends the next morning
	events := out.Events()
	require.Len(t, events, 2)

	nightStart := time.Date(2025, time.March, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, export.EventUID(nightStart, "N"), events[0].Id())

	text := out.Serialize()
	assert.Contains(t, text, "DTSTART:20250310T210000Z")
	assert.Contains(t, text, "DTEND:20250311T050000Z")
	assert.Contains(t, text, "SUMMARY:Shift N - Studio principale")
	assert.Contains(t, text, "SUMMARY:Shift M - ZZ")
	assert.Contains(t, text, "METHOD:PUBLISH")
	assert.NotContains(t, text, "Weekly rest")
}

func TestCalendar_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewCalendar(roster.DefaultCodes()).Write(&buf, testWeek()))
	assert.True(t, strings.HasPrefix(buf.String(), "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(buf.String(), "BEGIN:VEVENT"))
}

func TestEventUID_Stable(t *testing.T) {
	at := time.Date(2025, time.March, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, export.EventUID(at, "N"), export.EventUID(at, "N"))
	assert.True(t, strings.HasSuffix(export.EventUID(at, "N"), "N@shifts"))
}

// =============================================================================
// BACKUP
// =============================================================================

func testSnapshot() allowance.Snapshot {
	hours := decimal.RequireFromString("8")
	return allowance.Snapshot{
		Profile: allowance.Profile{FirstName: "Mario", LastName: "Rossi & Figli"},
		Financial: allowance.FinancialData{
			ComponentA: decimal.RequireFromString("1000"),
			ComponentB: decimal.RequireFromString("500"),
			Supplement: decimal.RequireFromString("37.73"),
		},
		Shifts: []allowance.CalculatedShift{{
			Shift: allowance.Shift{
				ID: "s1", Date: day(2025, time.March, 12), ShiftCode: "N",
				StartTime: "21:00", EndTime: "05:00",
			},
			Allowances: []allowance.Allowance{
				{Code: "RMTR", Description: "Rientro a tarda ora", Value: decimal.RequireFromString("5.16")},
				{Code: "LNH5", Description: "Notturno <50%>", Value: decimal.RequireFromString("37.4566"), Hours: &hours},
			},
			TotalAllowance: decimal.RequireFromString("42.6166"),
		}},
	}
}

func TestBackup_RoundTrip(t *testing.T) {
	// GIVEN: A snapshot with characters that need escaping
	var buf bytes.Buffer
	require.NoError(t, export.WriteBackup(&buf, testSnapshot()))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `<rosterData version="1.0">`)
	assert.Contains(t, text, "<![CDATA[Mario]]>")

	// WHEN: Reading it back
	snap, err := export.ReadBackup(&buf)
	require.NoError(t, err)

	// THEN: Everything survives
	want := testSnapshot()
	assert.Equal(t, want.Profile, snap.Profile)
	assert.True(t, want.Financial.Supplement.Equal(snap.Financial.Supplement))
	require.Len(t, snap.Shifts, 1)
	got := snap.Shifts[0]
	assert.Equal(t, "s1", got.ID)
	assert.True(t, got.Date.Equal(want.Shifts[0].Date))
	assert.Equal(t, "Notturno <50%>", got.Allowances[1].Description)
	require.NotNil(t, got.Allowances[1].Hours)
	assert.True(t, got.Allowances[1].Hours.Equal(decimal.RequireFromString("8")))
	assert.True(t, got.TotalAllowance.Equal(want.Shifts[0].TotalAllowance))
}

func TestBackup_EmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteBackup(&buf, allowance.Snapshot{}))
	assert.Contains(t, buf.String(), "<![CDATA[[]]]>")

	snap, err := export.ReadBackup(&buf)
	require.NoError(t, err)
	assert.Empty(t, snap.Shifts)
}

func TestReadBackup_PlainTextElements(t *testing.T) {
	doc := `<rosterData version="1.0">
  <user><firstName>Anna</firstName><lastName>Verdi</lastName></user>
  <data><financialData></financialData><calculatedShifts></calculatedShifts></data>
</rosterData>`
	snap, err := export.ReadBackup(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Anna", snap.Profile.FirstName)
	assert.True(t, snap.Financial.ComponentA.IsZero())
}

func TestReadBackup_Invalid(t *testing.T) {
	tests := map[string]string{
		"not xml":       "hello",
		"wrong root":    `<other version="1.0"></other>`,
		"wrong version": `<rosterData version="2.0"><user/><data/></rosterData>`,
		"bad json": `<rosterData version="1.0"><user/><data>` +
			`<financialData>{oops</financialData></data></rosterData>`,
		"shift without id": `<rosterData version="1.0"><user/><data>` +
			`<calculatedShifts><![CDATA[[{"date":"2025-03-12"}]]]></calculatedShifts></data></rosterData>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := export.ReadBackup(strings.NewReader(doc))
			assert.ErrorIs(t, err, generic.ErrInvalidBackup)
		})
	}
}
