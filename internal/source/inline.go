package source

import (
	"math"
	"regexp"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/scraper"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
)

// knownVenues maps venue names the inline listing prints without a location.
var knownVenues = map[string]struct{ venue, location string }{
	"sigtunahöjden": {"Sigtunahöjden Hotell & Konferens", "Sigtuna"},
}

var (
	// One name: a capitalized first name (optionally hyphenated) and an
	// optional capitalized surname. Glued names split at the capital.
	namePattern = regexp.MustCompile(`\p{Lu}\p{Ll}+(?:-\p{Lu}\p{Ll}+)?(?: \p{Lu}\p{Ll}+(?:-\p{Lu}\p{Ll}+)?)?`)

	// "12 000 kr", "3000kr"
	krPattern = regexp.MustCompile(`(?i)(\d[\d \x{00a0}\x{202f}.]*\d|\d)\s*kr\b`)
)

// inlineRow is one entry of the inline listing:
//
//	[week + dates] [venue] [instructors] [itemized price] [seats] [link]
type inlineRow struct {
	dateWeek    string
	venue       string
	instructors string
	price       string
	seats       string
	link        string
}

func newInlineRow(row scraper.Row) (inlineRow, error) {
	if err := minGroups(row, 5); err != nil {
		return inlineRow{}, err
	}
	return inlineRow{
		dateWeek:    row[0].Joined(),
		venue:       row[1].Joined(),
		instructors: row[2].Joined(),
		price:       row[3].Joined(),
		seats:       row[4].Joined(),
		link:        rowLink(row, 5),
	}, nil
}

func (r inlineRow) record(pageURL string) course.Record {
	var is issues
	rec := course.Record{URL: orDefault(r.link, pageURL)}

	dates := textnorm.CollapseSpace(r.dateWeek)
	week, token, hasWeek := textnorm.FindWeek(dates)
	if token != "" {
		dates = strings.Replace(dates, token, "", 1)
	}
	dates = strings.Trim(textnorm.CollapseSpace(dates), " |,;·–-")

	if start, end, ok := textnorm.NormalizeDateRange(dates, textnorm.LayoutDayMonthRange); ok {
		rec.Dates = course.NewDateRange(start, end, dates)
	} else {
		rec.Dates = course.DateRange{Raw: dates}
		is.add("dates", dates)
	}

	if hasWeek {
		rec.Week = course.WeekPtr(week)
	} else {
		if token != "" {
			is.add("week", token)
		}
		rec.Week = weekFromDates(rec.Dates)
	}

	venue := textnorm.CollapseSpace(r.venue)
	if known, ok := knownVenues[strings.ToLower(venue)]; ok {
		rec.Venue, rec.Location = known.venue, known.location
	} else {
		rec.Venue, rec.Location = splitLast(venue, ",")
	}

	rec.Instructors = splitInstructors(r.instructors)
	rec.Price = sumPrice(r.price, &is)
	rec.Seats = inlineSeats(r.seats)
	rec.Issues = is
	return rec
}

// splitInstructors pulls up to MaxInstructors names out of one string.
func splitInstructors(text string) []string {
	names := namePattern.FindAllString(textnorm.CollapseSpace(text), course.MaxInstructors)
	if len(names) == 0 {
		return nil
	}
	return names
}

// sumPrice adds every "<number> kr" in the field; a course fee and a
// separately listed accommodation fee form one price.
func sumPrice(text string, is *issues) course.Price {
	text = textnorm.CollapseSpace(text)
	matches := krPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return priceFrom(text, is)
	}

	total := 0
	for _, m := range matches {
		n := textnorm.ExtractInteger(m[1])
		if n > math.MaxInt-total {
			total = math.MaxInt
			break
		}
		total += n
	}
	if total == 0 {
		is.add("price", text)
	}
	return course.Price{Text: text, Amount: total}
}

// inlineSeats reads the listing's "fully booked" marker as few seats left.
func inlineSeats(text string) course.Seats {
	text = textnorm.CollapseSpace(text)
	if strings.Contains(strings.ToLower(text), "fully booked") {
		return course.FewSeats(text)
	}
	return course.ParseSeats(text)
}

func parseInline(row scraper.Row, pageURL string) (course.Record, error) {
	r, err := newInlineRow(row)
	if err != nil {
		return course.Record{}, err
	}
	return r.record(pageURL), nil
}
