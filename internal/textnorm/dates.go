package textnorm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout identifies one of the raw date-range layouts the sources publish.
type DateLayout int

const (
	// LayoutISORange is "2026-03-02 – 2026-03-06", or a single "2026-03-02".
	LayoutISORange DateLayout = iota
	// LayoutDayMonthRange is "02 mar - 06 mar 2026" with Swedish month abbreviations.
	// The start month may be omitted: "02 - 06 mar 2026".
	LayoutDayMonthRange
)

// String returns the layout name.
func (l DateLayout) String() string {
	switch l {
	case LayoutISORange:
		return "iso-range"
	case LayoutDayMonthRange:
		return "day-month-range"
	default:
		return "unknown"
	}
}

const isoDate = "2006-01-02"

// monthAbbreviations is the closed set of abbreviations the sources use.
// It stands in for locale-aware month parsing, so every month is listed.
var monthAbbreviations = []struct {
	abbr  string
	month time.Month
}{
	{"jan", time.January},
	{"feb", time.February},
	{"mar", time.March},
	{"apr", time.April},
	{"maj", time.May},
	{"jun", time.June},
	{"jul", time.July},
	{"aug", time.August},
	{"sep", time.September},
	{"okt", time.October},
	{"nov", time.November},
	{"dec", time.December},
}

var (
	isoRangePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:\s*(?:-|–|—|till)\s*(\d{4}-\d{2}-\d{2}))?$`)

	dayMonthRangePattern = regexp.MustCompile(`(?i)^(\d{1,2})\s*(?:([a-zåäö]{3})\.?)?\s*(?:-|–|—)\s*(\d{1,2})\s*([a-zåäö]{3})\.?\s+(\d{4})$`)
)

// MonthAbbreviations returns the twelve accepted month abbreviations in calendar order.
func MonthAbbreviations() []string {
	out := make([]string, len(monthAbbreviations))
	for i, m := range monthAbbreviations {
		out[i] = m.abbr
	}
	return out
}

// lookupMonth resolves a three-letter abbreviation, case-insensitively.
// Returns 0 for anything outside the table.
func lookupMonth(abbr string) time.Month {
	abbr = strings.ToLower(abbr)
	for _, m := range monthAbbreviations {
		if m.abbr == abbr {
			return m.month
		}
	}
	return 0
}

// NormalizeDateRange parses raw in the given layout into start and end dates (UTC midnight).
// ok is false when the text does not match the layout, a date does not exist,
// or the end precedes the start; callers keep raw as the display fallback.
func NormalizeDateRange(raw string, layout DateLayout) (start, end time.Time, ok bool) {
	text := CollapseSpace(raw)
	if text == "" {
		return time.Time{}, time.Time{}, false
	}

	switch layout {
	case LayoutISORange:
		start, end, ok = parseISORange(text)
	case LayoutDayMonthRange:
		start, end, ok = parseDayMonthRange(text)
	default:
		return time.Time{}, time.Time{}, false
	}

	if !ok || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// ParseISODate parses the leading "YYYY-MM-DD" of text, ignoring any time suffix
// such as "2026-03-02T09:00" or "2026-03-02 09:00".
func ParseISODate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if len(text) < len(isoDate) {
		return time.Time{}, false
	}
	t, err := time.Parse(isoDate, text[:len(isoDate)])
	if err != nil {
		return time.Time{}, false
	}
	if len(text) > len(isoDate) {
		next := text[len(isoDate)]
		if next != 'T' && next != ' ' {
			return time.Time{}, false
		}
	}
	return t, true
}

func parseISORange(text string) (time.Time, time.Time, bool) {
	m := isoRangePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(isoDate, m[1])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if m[2] == "" {
		return start, start, true
	}

	end, err := time.Parse(isoDate, m[2])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseDayMonthRange(text string) (time.Time, time.Time, bool) {
	m := dayMonthRangePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}

	endMonth := lookupMonth(m[4])
	if endMonth == 0 {
		return time.Time{}, time.Time{}, false
	}
	startMonth := endMonth
	if m[2] != "" {
		startMonth = lookupMonth(m[2])
		if startMonth == 0 {
			return time.Time{}, time.Time{}, false
		}
	}

	year, err := strconv.Atoi(m[5])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	startYear := year
	// "28 dec - 02 jan 2027" starts in the previous year
	if startMonth > endMonth {
		startYear--
	}

	start, ok := makeDate(startYear, startMonth, m[1])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := makeDate(year, endMonth, m[3])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// makeDate builds a date and rejects days that time.Date would roll over (31 apr).
func makeDate(year int, month time.Month, dayText string) (time.Time, bool) {
	day, err := strconv.Atoi(dayText)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}
