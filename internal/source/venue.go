package source

import (
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/scraper"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
)

// CourseDays is the length of a course; the venue listing only prints the start.
const CourseDays = 5

// venueRow is one entry of a venue's own listing:
//
//	[start date] [venue: location] [price] [instructors] [seats]
type venueRow struct {
	start       string
	place       string
	price       string
	instructors []string
	seats       string
	hasSeats    bool
}

func newVenueRow(row scraper.Row) (venueRow, error) {
	if err := minGroups(row, 3); err != nil {
		return venueRow{}, err
	}
	return venueRow{
		start:       row[0].First(),
		place:       row[1].Joined(),
		price:       row[2].Joined(),
		instructors: group(row, 3),
		seats:       group(row, 4).Joined(),
		hasSeats:    len(row) > 4,
	}, nil
}

func (r venueRow) record(pageURL string) course.Record {
	var is issues
	rec := course.Record{URL: pageURL}

	raw := textnorm.CollapseSpace(r.start)
	if start, ok := textnorm.ParseISODate(raw); ok {
		rec.Dates = course.NewDateRange(start, start.AddDate(0, 0, CourseDays-1), raw)
		rec.Week = weekFromDates(rec.Dates)
	} else {
		rec.Dates = course.DateRange{Raw: raw}
		is.add("dates", raw)
	}

	place := textnorm.CollapseSpace(r.place)
	if venue, location, ok := strings.Cut(place, ":"); ok {
		rec.Venue, rec.Location = strings.TrimSpace(venue), strings.TrimSpace(location)
	} else {
		rec.Venue, rec.Location = splitLast(place, ",")
	}

	rec.Price = priceFrom(r.price, &is)
	rec.Instructors = instructorsFrom(r.instructors)
	if r.hasSeats {
		rec.Seats = venueSeats(r.seats)
	}
	rec.Issues = is
	return rec
}

// venueSeats reports a count of zero as few left, never as "0".
func venueSeats(text string) course.Seats {
	s := course.ParseSeats(textnorm.CollapseSpace(text))
	if s.State == course.SeatsCount && s.Count == 0 {
		return course.FewSeats(s.Text)
	}
	return s
}

func parseVenue(row scraper.Row, pageURL string) (course.Record, error) {
	r, err := newVenueRow(row)
	if err != nil {
		return course.Record{}, err
	}
	return r.record(pageURL), nil
}
