package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pfrederiksen/ugl-courses/internal/course"
)

var csvHeader = []string{
	"id", "week", "start", "end", "dates", "venue", "location", "instructors",
	"price", "price_amount", "seats", "source", "url", "maps_url",
}

// WriteCSV writes one line per record with CRLF line endings.
func WriteCSV(w io.Writer, records []course.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, rec := range records {
		var start, end string
		if rec.Dates.Valid() {
			start = rec.Dates.Start.Format("2006-01-02")
			end = rec.Dates.End.Format("2006-01-02")
		}
		line := []string{
			rec.ID,
			rec.WeekText(),
			start,
			end,
			rec.Dates.String(),
			rec.Venue,
			rec.Location,
			rec.InstructorText(),
			rec.Price.Text,
			strconv.Itoa(rec.Price.Amount),
			rec.Seats.String(),
			rec.Source,
			rec.URL,
			rec.MapsURL,
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
