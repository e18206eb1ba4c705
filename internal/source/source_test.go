package source

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/ugl-courses/internal/config"
	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/scraper"
)

type fakeFetcher struct {
	rows   []scraper.Row
	err    error
	target scraper.Target
}

func (f *fakeFetcher) Fetch(_ context.Context, t scraper.Target) ([]scraper.Row, error) {
	f.target = t
	return f.rows, f.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newAdapter(t *testing.T, kind, name string) Adapter {
	t.Helper()
	a, err := New(kind, name, scraper.Target{URL: "https://example.com/kurser"}, &fakeFetcher{})
	require.NoError(t, err)
	return a
}

func week(t *testing.T, rec course.Record) int {
	t.Helper()
	w, ok := rec.WeekNumber()
	require.True(t, ok, "week should be known")
	return w
}

func TestTable_Normalize(t *testing.T) {
	a := newAdapter(t, config.KindTable, "uglkurser")

	records, errs := a.Normalize([]scraper.Row{
		{
			{"2026-03-02 – 2026-03-06", "Vecka 10"},
			{"Hotell Skogsbo, Avesta", "Platser kvar: 4"},
			{"Anna Andersson", "Bertil Berg", "Cecilia Ek"},
			{"26 300 kr"},
			{"Boka"},
			{"https://example.com/boka?id=12"},
		},
		{
			{"2026-04-13 – 2026-04-17 Vecka 16"},
			{"Sigtunahöjden, SigtunaPlatser kvar: Fullbokad"},
			{"ANNA ÅKESSON"},
			{"27 900 kr"},
		},
	})
	require.Empty(t, errs)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "uglkurser", first.Source)
	assert.Equal(t, 10, week(t, first))
	assert.Equal(t, date(2026, 3, 2), first.Dates.Start)
	assert.Equal(t, date(2026, 3, 6), first.Dates.End)
	assert.Equal(t, "Hotell Skogsbo", first.Venue)
	assert.Equal(t, "Avesta", first.Location)
	assert.Equal(t, course.Seats{State: course.SeatsCount, Count: 4, Text: "4"}, first.Seats)
	assert.Equal(t, []string{"Anna Andersson", "Bertil Berg"}, first.Instructors)
	assert.Equal(t, course.Price{Text: "26 300 kr", Amount: 26300}, first.Price)
	assert.Equal(t, "https://example.com/boka?id=12", first.URL)
	assert.NotEmpty(t, first.ID)
	assert.Contains(t, first.MapsURL, "Hotell+Skogsbo")
	assert.Empty(t, first.Issues)

	second := records[1]
	assert.Equal(t, 16, week(t, second))
	assert.Equal(t, "Sigtunahöjden", second.Venue)
	assert.Equal(t, "Sigtuna", second.Location)
	assert.Equal(t, course.SeatsFull, second.Seats.State)
	assert.Equal(t, []string{"Anna Åkesson"}, second.Instructors)
	assert.Equal(t, "https://example.com/kurser", second.URL, "falls back to the page URL")
}

func TestTable_SeatsLabelAfterCaseChangingRunes(t *testing.T) {
	a := newAdapter(t, config.KindTable, "uglkurser")

	// Ⱥ lowercases to a longer byte sequence and İ to a shorter one.
	records, errs := a.Normalize([]scraper.Row{
		{{"2026-03-02 – 2026-03-06"}, {"ȺȺȺȺȺȺȺȺȺȺȺȺȺȺ Platser kvar: 3"}, {}, {"26 300 kr"}},
		{{"2026-03-09 – 2026-03-13"}, {"İİİİ Hotell, Sigtuna PLATSER KVAR: 2"}, {}, {"26 300 kr"}},
	})
	require.Empty(t, errs)
	require.Len(t, records, 2)

	assert.Equal(t, "ȺȺȺȺȺȺȺȺȺȺȺȺȺȺ", records[0].Venue)
	assert.Equal(t, course.Seats{State: course.SeatsCount, Count: 3, Text: "3"}, records[0].Seats)

	assert.Equal(t, "İİİİ Hotell", records[1].Venue)
	assert.Equal(t, "Sigtuna", records[1].Location)
	assert.Equal(t, 2, records[1].Seats.Count)
}

func TestTable_FieldFallbacks(t *testing.T) {
	a := newAdapter(t, config.KindTable, "uglkurser")

	tests := []struct {
		name      string
		row       scraper.Row
		wantIssue string
		check     func(t *testing.T, rec course.Record)
	}{
		{
			name:      "unparsable week falls back to the start date",
			row:       scraper.Row{{"2026-03-02 – 2026-03-06", "Vecka x"}, {"Hotell Skogsbo, Avesta"}, {}, {"26 300 kr"}},
			wantIssue: "week",
			check: func(t *testing.T, rec course.Record) {
				assert.Equal(t, 10, week(t, rec))
			},
		},
		{
			name:      "unparsable dates keep raw text",
			row:       scraper.Row{{"i höst"}, {"Hotell Skogsbo, Avesta"}, {}, {"26 300 kr"}},
			wantIssue: "dates",
			check: func(t *testing.T, rec course.Record) {
				assert.False(t, rec.Dates.Valid())
				assert.Equal(t, "i höst", rec.Dates.String())
				assert.Nil(t, rec.Week)
			},
		},
		{
			name:      "price without digits is zero",
			row:       scraper.Row{{"2026-03-02 – 2026-03-06"}, {"Hotell Skogsbo"}, {}, {"Pris på förfrågan"}},
			wantIssue: "price",
			check: func(t *testing.T, rec course.Record) {
				assert.Equal(t, 0, rec.Price.Amount)
				assert.Equal(t, "Pris på förfrågan", rec.Price.Text)
				assert.Equal(t, "", rec.Location)
			},
		},
		{
			name: "free-text seats stay unknown",
			row:  scraper.Row{{"2026-03-02 – 2026-03-06"}, {"Hotell Skogsbo, Avesta", "Platser kvar: ring oss"}, {}, {"26 300 kr"}},
			check: func(t *testing.T, rec course.Record) {
				assert.Equal(t, course.SeatsUnknown, rec.Seats.State)
				assert.Equal(t, "ring oss", rec.Seats.Text)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, errs := a.Normalize([]scraper.Row{tt.row})
			require.Empty(t, errs)
			require.Len(t, records, 1)
			if tt.wantIssue != "" {
				require.Len(t, records[0].Issues, 1)
				assert.Contains(t, records[0].Issues[0], tt.wantIssue)
			}
			tt.check(t, records[0])
		})
	}
}

func TestNormalize_DropsBadRows(t *testing.T) {
	tests := []struct {
		kind string
		row  scraper.Row
	}{
		{config.KindTable, scraper.Row{{"2026-03-02"}, {"Hotell Skogsbo"}, {"Anna Andersson"}}},
		{config.KindTable, scraper.Row{{"2026-03-02"}, {}, {}, {"100 kr"}}},
		{config.KindInline, scraper.Row{{"v.10 02 mar - 06 mar 2026"}, {"Sigtunahöjden"}, {}, {"12 000 kr"}}},
		{config.KindVenue, scraper.Row{{"2026-05-18"}, {"Sigtunahöjden: Sigtuna"}}},
		{config.KindVenue, scraper.Row{{"2026-05-18"}, {": Sigtuna"}, {"100 kr"}}},
	}

	good := map[string]scraper.Row{
		config.KindTable:  {{"2026-03-02 – 2026-03-06"}, {"Hotell Skogsbo, Avesta"}, {}, {"26 300 kr"}},
		config.KindInline: {{"02 mar - 06 mar 2026"}, {"Hotell Skogsbo, Avesta"}, {}, {"24 500 kr"}, {"3"}},
		config.KindVenue:  {{"2026-05-18"}, {"Sigtunahöjden: Sigtuna"}, {"26 900 kr"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			a := newAdapter(t, tt.kind, "src")
			records, errs := a.Normalize([]scraper.Row{tt.row, good[tt.kind]})

			require.Len(t, records, 1, "the good row survives")
			require.Len(t, errs, 1)
			assert.True(t, errors.Is(errs[0], course.ErrRowMalformed))

			var rowErr *course.RowError
			require.True(t, errors.As(errs[0], &rowErr))
			assert.Equal(t, 0, rowErr.Index)
			assert.Equal(t, "src", rowErr.Source)
		})
	}
}

func TestInline_Normalize(t *testing.T) {
	a := newAdapter(t, config.KindInline, "ugl-inline")

	records, errs := a.Normalize([]scraper.Row{
		{
			{"v.10 02 mar - 06 mar 2026"},
			{"Sigtunahöjden"},
			{"Anna AnderssonBertil BergCecilia Ek"},
			{"12 000 kr + 3 000 kr"},
			{"Fully booked"},
		},
		{
			{"28 dec - 01 jan 2027"},
			{"Hotell Skogsbo, Avesta"},
			{"Anna-Karin Lund och David Holm"},
			{"24 500 kr"},
			{"3"},
			{"https://example.com/anmalan/7"},
		},
	})
	require.Empty(t, errs)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 10, week(t, first))
	assert.Equal(t, date(2026, 3, 2), first.Dates.Start)
	assert.Equal(t, date(2026, 3, 6), first.Dates.End)
	assert.Equal(t, "Sigtunahöjden Hotell & Konferens", first.Venue)
	assert.Equal(t, "Sigtuna", first.Location)
	assert.Equal(t, []string{"Anna Andersson", "Bertil Berg"}, first.Instructors)
	assert.Equal(t, 15000, first.Price.Amount)
	assert.Equal(t, "12 000 kr + 3 000 kr", first.Price.Text)
	assert.Equal(t, course.SeatsFew, first.Seats.State)
	assert.Equal(t, "few left", first.Seats.String())

	second := records[1]
	assert.Equal(t, date(2026, 12, 28), second.Dates.Start)
	assert.Equal(t, date(2027, 1, 1), second.Dates.End)
	assert.Equal(t, 53, week(t, second), "week falls back to the start date")
	assert.Equal(t, "Hotell Skogsbo", second.Venue)
	assert.Equal(t, "Avesta", second.Location)
	assert.Equal(t, []string{"Anna-Karin Lund", "David Holm"}, second.Instructors)
	assert.Equal(t, 24500, second.Price.Amount)
	assert.Equal(t, course.Seats{State: course.SeatsCount, Count: 3, Text: "3"}, second.Seats)
	assert.Equal(t, "https://example.com/anmalan/7", second.URL)
}

func TestSumPrice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"12 000 kr + 3 000 kr", 15000},
		{"12 000 kr (kurs) + 3 000 kr (logi)", 15000},
		{"3000kr", 3000},
		{"24 500 kr", 24500},
		{"24500", 24500},
		{"", 0},
		{"gratis", 0},
		{"9223372036854775807 kr + 9223372036854775807 kr", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var is issues
			assert.Equal(t, tt.want, sumPrice(tt.input, &is).Amount)
		})
	}
}

func TestVenue_Normalize(t *testing.T) {
	a := newAdapter(t, config.KindVenue, "ugl-venue")

	records, errs := a.Normalize([]scraper.Row{
		{{"2026-05-18"}, {"Sigtunahöjden: Sigtuna"}, {"26 900 kr"}, {"Anna Andersson", "Bertil Berg", "Cecilia Ek"}, {"0"}},
		{{"2026-08-24T09:00"}, {"Hotell Skogsbo, Avesta"}, {"25 000 kr"}},
		{{"2026-09-07"}, {"Sigtunahöjden: Sigtuna"}, {"26 900 kr"}, {}, {"5"}},
		{{"snart"}, {"Sigtunahöjden: Sigtuna"}, {"26 900 kr"}},
	})
	require.Empty(t, errs)
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, date(2026, 5, 18), first.Dates.Start)
	assert.Equal(t, date(2026, 5, 22), first.Dates.End)
	assert.Equal(t, CourseDays, first.Dates.Days())
	assert.Equal(t, 21, week(t, first))
	assert.Equal(t, "Sigtunahöjden", first.Venue)
	assert.Equal(t, "Sigtuna", first.Location)
	assert.Equal(t, []string{"Anna Andersson", "Bertil Berg"}, first.Instructors)
	assert.Equal(t, course.SeatsFew, first.Seats.State)
	assert.NotEqual(t, "0", first.Seats.String())
	assert.Equal(t, "https://example.com/kurser", first.URL)

	second := records[1]
	assert.Equal(t, date(2026, 8, 24), second.Dates.Start)
	assert.Equal(t, "Hotell Skogsbo", second.Venue)
	assert.Equal(t, "Avesta", second.Location)
	assert.Equal(t, course.SeatsUnknown, second.Seats.State)

	assert.Equal(t, course.Seats{State: course.SeatsCount, Count: 5, Text: "5"}, records[2].Seats)

	fourth := records[3]
	assert.False(t, fourth.Dates.Valid())
	assert.Nil(t, fourth.Week)
	assert.Len(t, fourth.Issues, 1)
}

func TestNormalize_PriceNeverNegative(t *testing.T) {
	rows := map[string][]scraper.Row{
		config.KindTable: {
			{{"2026-03-02"}, {"A, B"}, {}, {"-26 300 kr"}},
			{{"2026-03-02"}, {"A, B"}, {}, {"99999999999999999999999 kr"}},
		},
		config.KindInline: {
			{{"02 mar 2026"}, {"A"}, {}, {"-12 000 kr + -3 000 kr"}, {}},
			{{"02 mar 2026"}, {"A"}, {}, {"kr kr kr"}, {}},
		},
		config.KindVenue: {
			{{"2026-03-02"}, {"A: B"}, {"−500"}},
		},
	}

	for kind, kindRows := range rows {
		records, _ := newAdapter(t, kind, "src").Normalize(kindRows)
		for _, rec := range records {
			assert.GreaterOrEqual(t, rec.Price.Amount, 0, "%s: %q", kind, rec.Price.Text)
		}
	}
}

func TestAdapter_Fetch(t *testing.T) {
	rows := []scraper.Row{{{"x"}}}
	tests := []struct {
		kind      string
		wantLinks bool
	}{
		{config.KindTable, true},
		{config.KindInline, true},
		{config.KindVenue, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			f := &fakeFetcher{rows: rows}
			a, err := New(tt.kind, "src", scraper.Target{URL: "https://example.com", RowSelector: "tr"}, f)
			require.NoError(t, err)

			got, err := a.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, rows, got)
			assert.Equal(t, "https://example.com", f.target.URL)
			assert.Equal(t, tt.wantLinks, f.target.WithLinks)
			assert.Equal(t, "src", a.Name())
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("pdf", "src", scraper.Target{}, &fakeFetcher{})
	assert.Error(t, err)

	_, err = New(config.KindTable, "", scraper.Target{}, &fakeFetcher{})
	assert.Error(t, err)

	_, err = New(config.KindTable, "src", scraper.Target{}, nil)
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Venue.Enabled = true

	adapters, err := FromConfig(cfg.Sources, &fakeFetcher{})
	require.NoError(t, err)
	require.Len(t, adapters, 2)
	assert.Equal(t, "uglkurser", adapters[0].Name())
	assert.Equal(t, "ugl-venue", adapters[1].Name())
}
