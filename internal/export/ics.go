package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/ugl-courses/internal/course"
)

// WriteICS writes an iCalendar file with one all-day event per record.
// Records without a parsed date range are skipped; the number written is returned.
func WriteICS(w io.Writer, records []course.Record, now time.Time) (int, error) {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//ugl-courses//ugl-courses//SV\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	written := 0
	for _, rec := range records {
		if !rec.Dates.Valid() {
			continue
		}
		writeEvent(&ics, rec, now)
		written++
	}

	ics.WriteString("END:VCALENDAR\r\n")

	if _, err := io.WriteString(w, ics.String()); err != nil {
		return 0, fmt.Errorf("writing calendar: %w", err)
	}
	return written, nil
}

func writeEvent(ics *strings.Builder, rec course.Record, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@ugl-courses\r\n", rec.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	// DTEND is exclusive for all-day events
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(rec.Dates.Start)))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(rec.Dates.End.AddDate(0, 0, 1))))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS("UGL – "+rec.Venue)))

	var desc []string
	if w := rec.WeekText(); w != "" {
		desc = append(desc, "Vecka "+w)
	}
	if len(rec.Instructors) > 0 {
		desc = append(desc, "Handledare: "+rec.InstructorText())
	}
	if p := rec.Price.String(); p != "" {
		desc = append(desc, "Pris: "+p)
	}
	if rec.URL != "" {
		desc = append(desc, "Bokning: "+rec.URL)
	}
	if len(desc) > 0 {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(strings.Join(desc, "\n"))))
	}

	location := rec.Venue
	if rec.Location != "" {
		location = rec.Venue + ", " + rec.Location
	}
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))

	if rec.URL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", rec.URL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
