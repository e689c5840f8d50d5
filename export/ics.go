/*
Package export turns roster data into files a user keeps outside the app.

PURPOSE:
  - ics.go: an iCalendar feed of the imported working days
  - backup.go: the XML backup of profile, financial data and computed shifts

Both are pure encoders/decoders over in-memory values; persistence is the
caller's concern.

SEE ALSO:
  - roster/types.go: ExtractedShift
  - allowance/store.go: Snapshot
*/
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/warp/roster-engine/generic"
	"github.com/warp/roster-engine/roster"
)

// DefaultProductID identifies the calendar producer.
const DefaultProductID = "-//Roster Engine//Shift Calendar//EN"

// Calendar renders imported weeks as iCalendar events.
type Calendar struct {
	Codes     roster.CodeTable
	ProductID string

	// Now stamps DTSTAMP on every event.
	Now func() time.Time
}

func NewCalendar(codes roster.CodeTable) *Calendar {
	return &Calendar{Codes: codes, ProductID: DefaultProductID, Now: time.Now}
}

// Build returns one VEVENT per working day. Rest days, the no-shift code and
// codes without times are skipped; an end at or before the start rolls to
// the next day.
func (c *Calendar) Build(week []roster.ExtractedShift) (*ics.Calendar, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(c.ProductID)

	stamp := c.now().UTC()
	for _, es := range week {
		if c.Codes.IsRest(es.ShiftCode) || c.Codes.IsNoShift(es.ShiftCode) {
			continue
		}
		tr, ok := c.Codes.Times(es.ShiftCode)
		if !ok {
			continue
		}
		start, err := generic.ParseClock(tr.Start)
		if err != nil {
			return nil, err
		}
		end, err := generic.ParseClock(tr.End)
		if err != nil {
			return nil, err
		}
		iv := generic.ResolveShift(es.Date, start, end)
		location := c.Codes.LocationName(es.Location)

		ev := cal.AddEvent(EventUID(iv.Start, es.ShiftCode))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(iv.Start)
		ev.SetEndAt(iv.End)
		ev.SetSummary(fmt.Sprintf("Shift %s - %s", es.ShiftCode, location))
		ev.SetLocation(location)
	}
	return cal, nil
}

// Write serializes the calendar for the week to w.
func (c *Calendar) Write(w io.Writer, week []roster.ExtractedShift) error {
	cal, err := c.Build(week)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, cal.Serialize())
	return err
}

// EventUID is stable for a given start instant and code, so re-exporting a
// week updates events instead of duplicating them.
func EventUID(start time.Time, code string) string {
	return strconv.FormatInt(start.UnixMilli(), 10) + code + "@shifts"
}

func (c *Calendar) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
