package source

import (
	"regexp"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/scraper"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
)

// seatsLabel is matched on the original text so the cut indices stay valid.
var seatsLabel = regexp.MustCompile(`(?i)platser kvar:`)

// tableRow is one row of the simple table listing:
//
//	[date, week] [venue, location + seats] [instructors...] [price] [link]
type tableRow struct {
	dateLine    string
	weekLine    string
	venueLine   string
	seatsLine   string
	instructors []string
	priceLine   string
	link        string
}

func newTableRow(row scraper.Row) (tableRow, error) {
	if err := minGroups(row, 4); err != nil {
		return tableRow{}, err
	}

	r := tableRow{
		dateLine:    row[0].First(),
		weekLine:    row[0].Rest(),
		instructors: row[2],
		priceLine:   row[3].Joined(),
		link:        rowLink(row, 4),
	}

	// The label sometimes sits on the venue line itself.
	cell := row[1].Joined()
	if loc := seatsLabel.FindStringIndex(cell); loc != nil {
		r.venueLine = cell[:loc[0]]
		r.seatsLine = cell[loc[1]:]
	} else {
		r.venueLine = row[1].First()
		r.seatsLine = row[1].Rest()
	}

	// Week glued onto the date line: "2026-03-02 – 2026-03-06 Vecka 10".
	if r.weekLine == "" {
		if _, token, ok := textnorm.FindWeek(r.dateLine); ok {
			r.weekLine = token
			r.dateLine = strings.TrimSpace(strings.Replace(r.dateLine, token, "", 1))
		}
	}

	return r, nil
}

func (r tableRow) record(pageURL string) course.Record {
	var is issues
	rec := course.Record{URL: orDefault(r.link, pageURL)}

	dateLine := textnorm.CollapseSpace(r.dateLine)
	if start, end, ok := textnorm.NormalizeDateRange(dateLine, textnorm.LayoutISORange); ok {
		rec.Dates = course.NewDateRange(start, end, dateLine)
	} else {
		rec.Dates = course.DateRange{Raw: dateLine}
		is.add("dates", dateLine)
	}

	if w, ok := textnorm.ParseISOWeek(r.weekLine); ok {
		rec.Week = course.WeekPtr(w)
	} else {
		if r.weekLine != "" {
			is.add("week", r.weekLine)
		}
		rec.Week = weekFromDates(rec.Dates)
	}

	rec.Venue, rec.Location = splitLast(r.venueLine, ",")

	rec.Seats = course.ParseSeats(textnorm.CollapseSpace(r.seatsLine))
	rec.Instructors = instructorsFrom(r.instructors)
	rec.Price = priceFrom(r.priceLine, &is)
	rec.Issues = is
	return rec
}

func parseTable(row scraper.Row, pageURL string) (course.Record, error) {
	r, err := newTableRow(row)
	if err != nil {
		return course.Record{}, err
	}
	return r.record(pageURL), nil
}
