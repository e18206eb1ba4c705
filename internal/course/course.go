package course

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxInstructors is the most instructor names a record keeps. Sources never
// list more than two; extras are dropped.
const MaxInstructors = 2

const dateLayout = "2006-01-02"

// Record is the canonical representation of one scheduled course instance.
type Record struct {
	ID          string    `json:"id"`
	Week        *int      `json:"week,omitempty"`
	Dates       DateRange `json:"dates"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location,omitempty"`
	Instructors []string  `json:"instructors,omitempty"`
	Price       Price     `json:"price"`
	Seats       Seats     `json:"seats"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	MapsURL     string    `json:"maps_url,omitempty"`
	Issues      []string  `json:"issues,omitempty"` // per-field fallbacks applied during normalization
}

// GenerateID creates a deterministic ID from the fields that identify a course instance.
func GenerateID(source, venue, dateText string) string {
	h := sha1.New()
	h.Write([]byte(source + "|" + strings.ToLower(venue) + "|" + dateText))
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// MapsSearchURL returns a Google Maps search link for a venue and location.
func MapsSearchURL(venue, location string) string {
	query := strings.TrimSpace(venue)
	if location != "" {
		query += ", " + location
	}
	if query == "" {
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// WeekNumber returns the week and whether it is known.
func (r Record) WeekNumber() (int, bool) {
	if r.Week == nil {
		return 0, false
	}
	return *r.Week, true
}

// WeekText returns the week as text, or "" when unknown.
func (r Record) WeekText() string {
	if r.Week == nil {
		return ""
	}
	return strconv.Itoa(*r.Week)
}

// InstructorText joins the instructor names for display.
func (r Record) InstructorText() string {
	return strings.Join(r.Instructors, ", ")
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	c := r
	if r.Week != nil {
		w := *r.Week
		c.Week = &w
	}
	if r.Instructors != nil {
		c.Instructors = append([]string(nil), r.Instructors...)
	}
	if r.Issues != nil {
		c.Issues = append([]string(nil), r.Issues...)
	}
	return c
}

// WeekPtr returns a pointer to a valid ISO week, or nil when w is outside [1,53].
func WeekPtr(w int) *int {
	if w < 1 || w > 53 {
		return nil
	}
	return &w
}

// DateRange is a course's start and end date. When the source text could not be
// parsed, Start and End are zero and Raw holds the original text for display.
type DateRange struct {
	Start time.Time
	End   time.Time
	Raw   string
}

// NewDateRange builds a parsed range, keeping raw as the original text.
func NewDateRange(start, end time.Time, raw string) DateRange {
	return DateRange{Start: start, End: end, Raw: raw}
}

// Valid reports whether the range was parsed.
func (d DateRange) Valid() bool {
	return !d.Start.IsZero()
}

// IsZero reports whether there is neither a parsed date nor raw text.
func (d DateRange) IsZero() bool {
	return d.Start.IsZero() && strings.TrimSpace(d.Raw) == ""
}

// Days returns the number of calendar days the range covers, 0 when unparsed.
func (d DateRange) Days() int {
	if !d.Valid() {
		return 0
	}
	return int(d.End.Sub(d.Start).Hours()/24) + 1
}

// ISOWeek returns the ISO week of the start date.
func (d DateRange) ISOWeek() (int, bool) {
	if !d.Valid() {
		return 0, false
	}
	_, w := d.Start.ISOWeek()
	return w, true
}

// String renders "2026-03-02 – 2026-03-06", a single date for one-day ranges,
// or the raw text when the range was not parsed.
func (d DateRange) String() string {
	if !d.Valid() {
		return d.Raw
	}
	if d.End.IsZero() || d.End.Equal(d.Start) {
		return d.Start.Format(dateLayout)
	}
	return d.Start.Format(dateLayout) + " – " + d.End.Format(dateLayout)
}

// MarshalJSON encodes dates as plain YYYY-MM-DD strings.
func (d DateRange) MarshalJSON() ([]byte, error) {
	out := struct {
		Start   string `json:"start,omitempty"`
		End     string `json:"end,omitempty"`
		Raw     string `json:"raw,omitempty"`
		Display string `json:"display"`
	}{
		Raw:     d.Raw,
		Display: d.String(),
	}
	if d.Valid() {
		out.Start = d.Start.Format(dateLayout)
		out.End = d.End.Format(dateLayout)
	}
	return json.Marshal(out)
}

// Price keeps the source's display text and the whole-krona amount derived from it.
type Price struct {
	Text   string `json:"text"`
	Amount int    `json:"amount"`
}

var priceFormatter = message.NewPrinter(language.Swedish)

// FormatAmount renders an amount the Swedish way: "26 300 kr".
func FormatAmount(amount int) string {
	return priceFormatter.Sprintf("%d kr", amount)
}

// String returns the source text, or the formatted amount when the source gave none.
func (p Price) String() string {
	if p.Text != "" {
		return p.Text
	}
	if p.Amount > 0 {
		return FormatAmount(p.Amount)
	}
	return ""
}
