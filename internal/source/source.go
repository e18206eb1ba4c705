package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/config"
	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/scraper"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
)

// Adapter fetches one listing and normalizes its rows.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]scraper.Row, error)
	Normalize(rows []scraper.Row) ([]course.Record, []error)
}

// rowParser builds a record from one row. Returning an error drops the row.
type rowParser func(row scraper.Row, pageURL string) (course.Record, error)

type adapter struct {
	name    string
	target  scraper.Target
	fetcher scraper.Fetcher
	parse   rowParser
}

func (a *adapter) Name() string {
	return a.name
}

func (a *adapter) Fetch(ctx context.Context) ([]scraper.Row, error) {
	return a.fetcher.Fetch(ctx, a.target)
}

// Normalize converts every row it can and reports one error per dropped row.
func (a *adapter) Normalize(rows []scraper.Row) ([]course.Record, []error) {
	records := make([]course.Record, 0, len(rows))
	var errs []error

	for i, row := range rows {
		rec, err := a.parse(row, a.target.URL)
		if err != nil {
			errs = append(errs, &course.RowError{Source: a.name, Index: i, Reason: err.Error()})
			continue
		}
		if strings.TrimSpace(rec.Venue) == "" {
			errs = append(errs, &course.RowError{Source: a.name, Index: i, Reason: "no venue"})
			continue
		}

		rec.Source = a.name
		if rec.Price.Amount < 0 {
			rec.Price.Amount = 0
		}
		if len(rec.Instructors) > course.MaxInstructors {
			rec.Instructors = rec.Instructors[:course.MaxInstructors]
		}
		rec.ID = course.GenerateID(a.name, rec.Venue, rec.Dates.String())
		rec.MapsURL = course.MapsSearchURL(rec.Venue, rec.Location)
		records = append(records, rec)
	}

	return records, errs
}

// New builds the adapter of the given kind.
func New(kind, name string, target scraper.Target, fetcher scraper.Fetcher) (Adapter, error) {
	if name == "" {
		return nil, fmt.Errorf("%s adapter needs a name", kind)
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}

	a := &adapter{name: name, target: target, fetcher: fetcher}
	switch kind {
	case config.KindTable:
		a.parse = parseTable
		a.target.WithLinks = true
	case config.KindInline:
		a.parse = parseInline
		a.target.WithLinks = true
	case config.KindVenue:
		a.parse = parseVenue
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
	return a, nil
}

// FromConfig builds the enabled adapters in configuration order.
func FromConfig(sources config.SourcesConfig, fetcher scraper.Fetcher) ([]Adapter, error) {
	enabled := sources.Enabled()
	adapters := make([]Adapter, 0, len(enabled))
	for _, src := range enabled {
		a, err := New(src.Kind, src.ID, scraper.Target{
			URL:          src.URL,
			RowSelector:  src.RowSelector,
			CellSelector: src.CellSelector,
		}, fetcher)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// issues collects per-field fallbacks while a row is converted.
type issues []string

func (is *issues) add(field, raw string) {
	*is = append(*is, (&course.FieldError{Field: field, Raw: raw}).Error())
}

// minGroups rejects rows with fewer field groups than the adapter needs.
func minGroups(row scraper.Row, n int) error {
	if len(row) < n {
		return fmt.Errorf("has %d field groups, need %d", len(row), n)
	}
	return nil
}

// group returns row[i], or an empty group when the row is shorter.
func group(row scraper.Row, i int) scraper.FieldGroup {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// splitLast splits "Hotell Skogsbo, Avesta" at the last sep.
func splitLast(text, sep string) (string, string) {
	text = textnorm.CollapseSpace(text)
	i := strings.LastIndex(text, sep)
	if i < 0 {
		return text, ""
	}
	return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+len(sep):])
}

// rowLink returns the first fragment at or after group from that looks like a URL.
func rowLink(row scraper.Row, from int) string {
	for i := from; i < len(row); i++ {
		for _, frag := range row[i] {
			if strings.HasPrefix(frag, "http://") || strings.HasPrefix(frag, "https://") {
				return frag
			}
		}
	}
	return ""
}

// priceFrom reads a single-amount price field.
func priceFrom(text string, is *issues) course.Price {
	text = textnorm.CollapseSpace(text)
	p := course.Price{Text: text, Amount: textnorm.ExtractInteger(text)}
	if p.Amount == 0 {
		is.add("price", text)
	}
	return p
}

// instructorsFrom normalizes instructor lines and keeps at most MaxInstructors.
func instructorsFrom(lines []string) []string {
	var out []string
	for _, line := range lines {
		if name := textnorm.NormalizeName(line); name != "" {
			out = append(out, name)
		}
		if len(out) == course.MaxInstructors {
			break
		}
	}
	return out
}

// weekFromDates falls back to the ISO week of the start date.
func weekFromDates(d course.DateRange) *int {
	if w, ok := d.ISOWeek(); ok {
		return course.WeekPtr(w)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
