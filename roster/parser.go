package roster

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// SCHEDULE PARSER - Roster text → one ExtractedShift per day
// =============================================================================

const (
	// DefaultPeriodMarker introduces the roster week's date range.
	DefaultPeriodMarker = "PERIODO DI RIFERIMENTO"

	// DefaultMarkerWindow is how many bytes after the marker are searched
	// for the date range.
	DefaultMarkerWindow = 300

	// separatorChars are structural column separators dropped from a row.
	separatorChars = ">"
)

var (
	markerRangePattern = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s*-\s*(\d{2})/(\d{2})/(\d{4})|(\d{2})/(\d{2})/(\d{4})\s+(\d{2})/(\d{2})/(\d{4})`)
	anyRangePattern    = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s*-?\s*(\d{2})/(\d{2})/(\d{4})`)
	numericToken       = regexp.MustCompile(`^\d+$`)
)

// Parser decodes an employee's row. It holds no mutable state; one Parser may
// serve concurrent calls.
type Parser struct {
	Codes        CodeTable
	PeriodMarker string
	MarkerWindow int

	// Now supplies the current time for the current-week fallback.
	Now    func() time.Time
	Logger *zap.Logger
}

func NewParser(codes CodeTable, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		Codes:        codes,
		PeriodMarker: DefaultPeriodMarker,
		MarkerWindow: DefaultMarkerWindow,
		Now:          time.Now,
		Logger:       logger,
	}
}

// Parse finds the employee's row in fullText and decodes up to seven days.
func (p *Parser) Parse(fullText, firstName, lastName string) ParseResult {
	lines := strings.Split(fullText, "\n")
	nameRe := employeePattern(firstName, lastName)

	lineIdx := -1
	for i, line := range lines {
		if nameRe.MatchString(line) {
			lineIdx = i
			break
		}
	}
	if lineIdx < 0 {
		suggestion := closestRow(lines, firstName, lastName)
		p.Logger.Warn("employee row not found",
			zap.String("first_name", firstName),
			zap.String("last_name", lastName),
			zap.String("closest_row", suggestion))
		return ParseResult{Found: false, Suggestion: suggestion}
	}
	row := lines[lineIdx]
	p.Logger.Info("employee row found", zap.Int("line", lineIdx), zap.String("row", truncate(row, 100)))

	anchor, ok := p.weekAnchor(fullText, lines)
	result := ParseResult{Found: true}
	if !ok {
		anchor = generic.MondayOf(generic.DayOf(p.now()))
		result.WeekFallback = true
		p.Logger.Warn("week dates not found, falling back to current week",
			zap.String("monday", anchor.String()))
	}
	weekDates := generic.WeekStarting(anchor).Days()

	segment := dataSegment(row, nameRe)
	p.Logger.Debug("employee data segment", zap.String("segment", segment))

	tokens := p.tokenize(segment)
	p.Logger.Info("shift codes recognized", zap.Int("count", len(tokens)))

	limit := len(tokens)
	if limit > generic.DaysPerWeek {
		p.Logger.Debug("ignoring tokens beyond one week", zap.Int("extra", limit-generic.DaysPerWeek))
		limit = generic.DaysPerWeek
	}

	for i := 0; i < limit; i++ {
		tok := tokens[i]
		tail := segment[tok.end:]
		if i+1 < len(tokens) {
			tail = segment[tok.end:tokens[i+1].start]
		}
		day := p.decodeDay(tok.code, tail)
		day.Date = weekDates[i]
		p.Logger.Debug("day decoded",
			zap.Int("day", i),
			zap.String("date", day.Date.String()),
			zap.String("code", day.ShiftCode),
			zap.String("location", day.Location),
			zap.Bool("mfs", day.HasMFS),
			zap.Bool("mns", day.HasMNS),
			zap.Bool("fs", day.HasFS))
		result.Schedule = append(result.Schedule, day)
	}
	return result
}

// decodeDay reads flags and location text that follow a shift token.
func (p *Parser) decodeDay(code, tail string) ExtractedShift {
	day := ExtractedShift{ShiftCode: code}
	var location []string
	for _, tok := range strings.Fields(tail) {
		switch {
		case tok == "MFS":
			day.HasMFS = true
		case tok == "MNS":
			day.HasMNS = true
		case tok == "FS":
			day.HasFS = true
		case numericToken.MatchString(tok):
			// stray counters
		default:
			location = append(location, tok)
		}
	}
	day.Location = UnknownLocation
	if len(location) > 0 {
		day.Location = strings.Join(location, " ")
	}
	if p.Codes.IsRest(code) {
		day.Location = RestLocation
	}
	return day
}

// weekAnchor finds the first day of the roster week: first near the period
// marker, then anywhere in the document.
func (p *Parser) weekAnchor(text string, lines []string) (generic.TimePoint, bool) {
	if p.PeriodMarker != "" {
		if idx := strings.Index(text, p.PeriodMarker); idx >= 0 {
			window := p.MarkerWindow
			if window <= 0 {
				window = DefaultMarkerWindow
			}
			end := idx + window
			if end > len(text) {
				end = len(text)
			}
			if m := markerRangePattern.FindStringSubmatch(text[idx:end]); m != nil {
				// The two alternatives capture into different groups.
				d, mo, y := m[1], m[2], m[3]
				if d == "" {
					d, mo, y = m[7], m[8], m[9]
				}
				if day, ok := makeDate(d, mo, y); ok {
					p.Logger.Info("week dates found near period marker", zap.String("range", m[0]))
					return day, true
				}
			}
		}
	}
	for _, line := range lines {
		if m := anyRangePattern.FindStringSubmatch(line); m != nil {
			if day, ok := makeDate(m[1], m[2], m[3]); ok {
				p.Logger.Info("week dates found in document", zap.String("range", m[0]))
				return day, true
			}
		}
	}
	return generic.TimePoint{}, false
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// =============================================================================
// HELPERS
// =============================================================================

// employeePattern matches "lastName ... firstName" on one line, ignoring case.
func employeePattern(firstName, lastName string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` +
		regexp.QuoteMeta(strings.TrimSpace(lastName)) + `.*` +
		regexp.QuoteMeta(strings.TrimSpace(firstName)))
}

// dataSegment strips the matched name and separators from the row.
func dataSegment(row string, nameRe *regexp.Regexp) string {
	if loc := nameRe.FindStringIndex(row); loc != nil {
		row = row[:loc[0]] + row[loc[1]:]
	}
	row = strings.TrimSpace(row)
	for _, sep := range separatorChars {
		row = strings.ReplaceAll(row, string(sep), " ")
	}
	return row
}

func makeDate(day, month, year string) (generic.TimePoint, bool) {
	t, err := time.Parse("02/01/2006", day+"/"+month+"/"+year)
	if err != nil {
		return generic.TimePoint{}, false
	}
	return generic.DayOf(t), true
}

// closestRow returns the line prefix most similar to "LAST FIRST", or "" when
// nothing is reasonably close.
func closestRow(lines []string, firstName, lastName string) string {
	target := strings.ToUpper(strings.TrimSpace(lastName) + " " + strings.TrimSpace(firstName))
	if strings.TrimSpace(target) == "" {
		return ""
	}
	best, bestDist := "", len(target)/4+2
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		prefix := []rune(strings.ToUpper(line))
		if len(prefix) > len([]rune(target)) {
			prefix = prefix[:len([]rune(target))]
		}
		if d := levenshtein.ComputeDistance(string(prefix), target); d < bestDist {
			best, bestDist = string(prefix), d
		}
	}
	return best
}

// truncate shortens s to n runes for log output.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…(" + strconv.Itoa(len(r)-n) + " more)"
}
