package textnorm

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDateRange(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		layout    DateLayout
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{
			name:      "iso range with en dash",
			raw:       "2026-03-02 – 2026-03-06",
			layout:    LayoutISORange,
			wantStart: date(2026, time.March, 2),
			wantEnd:   date(2026, time.March, 6),
			wantOK:    true,
		},
		{
			name:      "iso range with hyphen and no spaces",
			raw:       "2026-03-02-2026-03-06",
			layout:    LayoutISORange,
			wantStart: date(2026, time.March, 2),
			wantEnd:   date(2026, time.March, 6),
			wantOK:    true,
		},
		{
			name:      "single iso date",
			raw:       "2026-09-14",
			layout:    LayoutISORange,
			wantStart: date(2026, time.September, 14),
			wantEnd:   date(2026, time.September, 14),
			wantOK:    true,
		},
		{
			name:   "iso invalid day",
			raw:    "2026-02-30 – 2026-03-02",
			layout: LayoutISORange,
		},
		{
			name:   "iso end before start",
			raw:    "2026-03-06 – 2026-03-02",
			layout: LayoutISORange,
		},
		{
			name:      "day month range",
			raw:       "02 mar - 06 mar 2026",
			layout:    LayoutDayMonthRange,
			wantStart: date(2026, time.March, 2),
			wantEnd:   date(2026, time.March, 6),
			wantOK:    true,
		},
		{
			name:      "day month range swedish may uppercase",
			raw:       "11 MAJ – 15 MAJ 2026",
			layout:    LayoutDayMonthRange,
			wantStart: date(2026, time.May, 11),
			wantEnd:   date(2026, time.May, 15),
			wantOK:    true,
		},
		{
			name:      "day month range across months",
			raw:       "28 sep - 2 okt 2026",
			layout:    LayoutDayMonthRange,
			wantStart: date(2026, time.September, 28),
			wantEnd:   date(2026, time.October, 2),
			wantOK:    true,
		},
		{
			name:      "day month range across year end",
			raw:       "28 dec - 01 jan 2027",
			layout:    LayoutDayMonthRange,
			wantStart: date(2026, time.December, 28),
			wantEnd:   date(2027, time.January, 1),
			wantOK:    true,
		},
		{
			name:      "start month omitted",
			raw:       "02 - 06 mar 2026",
			layout:    LayoutDayMonthRange,
			wantStart: date(2026, time.March, 2),
			wantEnd:   date(2026, time.March, 6),
			wantOK:    true,
		},
		{
			name:   "english may is not in the table",
			raw:    "11 may - 15 may 2026",
			layout: LayoutDayMonthRange,
		},
		{
			name:   "31 april does not exist",
			raw:    "27 apr - 31 apr 2026",
			layout: LayoutDayMonthRange,
		},
		{
			name:   "iso text with day month layout",
			raw:    "2026-03-02 – 2026-03-06",
			layout: LayoutDayMonthRange,
		},
		{
			name:   "empty",
			raw:    "",
			layout: LayoutISORange,
		},
		{
			name:   "free text",
			raw:    "Datum meddelas senare",
			layout: LayoutISORange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := NormalizeDateRange(tt.raw, tt.layout)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDateRange(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				if !start.IsZero() || !end.IsZero() {
					t.Errorf("NormalizeDateRange(%q) returned non-zero dates on failure", tt.raw)
				}
				return
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestMonthAbbreviations(t *testing.T) {
	abbrs := MonthAbbreviations()
	if len(abbrs) != 12 {
		t.Fatalf("MonthAbbreviations() has %d entries, want 12", len(abbrs))
	}

	for i, abbr := range abbrs {
		if got := lookupMonth(abbr); got != time.Month(i+1) {
			t.Errorf("lookupMonth(%q) = %v, want %v", abbr, got, time.Month(i+1))
		}
	}

	// the returned slice is a copy
	abbrs[0] = "xxx"
	if MonthAbbreviations()[0] != "jan" {
		t.Error("MonthAbbreviations() exposes the internal table")
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{"2026-03-02", date(2026, time.March, 2), true},
		{"2026-03-02T09:00:00", date(2026, time.March, 2), true},
		{"2026-03-02 09:00", date(2026, time.March, 2), true},
		{"2026-03-0212", time.Time{}, false},
		{"02/03/2026", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseISODate(tt.input)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("ParseISODate(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDateLayout_String(t *testing.T) {
	if LayoutISORange.String() != "iso-range" {
		t.Errorf("LayoutISORange.String() = %q", LayoutISORange.String())
	}
	if LayoutDayMonthRange.String() != "day-month-range" {
		t.Errorf("LayoutDayMonthRange.String() = %q", LayoutDayMonthRange.String())
	}
	if DateLayout(99).String() != "unknown" {
		t.Errorf("DateLayout(99).String() = %q", DateLayout(99).String())
	}
}
