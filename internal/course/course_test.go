package course

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID("uglkurser", "Hotell Skogsbo", "2026-03-02")
	id2 := GenerateID("uglkurser", "hotell skogsbo", "2026-03-02")
	id3 := GenerateID("inline", "Hotell Skogsbo", "2026-03-02")

	if id1 != id2 {
		t.Errorf("GenerateID should ignore venue case: %q != %q", id1, id2)
	}
	if id1 == id3 {
		t.Error("GenerateID should differ between sources")
	}
	if len(id1) != 16 {
		t.Errorf("len(GenerateID()) = %d, want 16", len(id1))
	}
}

func TestWeekPtr(t *testing.T) {
	tests := []struct {
		in      int
		wantNil bool
	}{
		{1, false},
		{53, false},
		{0, true},
		{54, true},
		{-3, true},
	}

	for _, tt := range tests {
		got := WeekPtr(tt.in)
		if (got == nil) != tt.wantNil {
			t.Errorf("WeekPtr(%d) nil = %v, want %v", tt.in, got == nil, tt.wantNil)
		}
		if got != nil && *got != tt.in {
			t.Errorf("WeekPtr(%d) = %d", tt.in, *got)
		}
	}
}

func TestRecord_Clone(t *testing.T) {
	r := Record{
		Week:        WeekPtr(12),
		Venue:       "Hotell Skogsbo",
		Instructors: []string{"Anna Andersson"},
		Issues:      []string{"price: missing"},
	}

	c := r.Clone()
	*c.Week = 40
	c.Instructors[0] = "Changed"
	c.Issues[0] = "changed"

	if *r.Week != 12 {
		t.Errorf("original week changed to %d", *r.Week)
	}
	if r.Instructors[0] != "Anna Andersson" {
		t.Errorf("original instructors changed to %v", r.Instructors)
	}
	if r.Issues[0] != "price: missing" {
		t.Errorf("original issues changed to %v", r.Issues)
	}
}

func TestRecord_WeekText(t *testing.T) {
	r := Record{}
	if r.WeekText() != "" {
		t.Errorf("WeekText() = %q for unknown week, want empty", r.WeekText())
	}
	if _, ok := r.WeekNumber(); ok {
		t.Error("WeekNumber() ok = true for unknown week")
	}

	r.Week = WeekPtr(9)
	if r.WeekText() != "9" {
		t.Errorf("WeekText() = %q, want 9", r.WeekText())
	}
}

func TestDateRange(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	t.Run("parsed range", func(t *testing.T) {
		d := NewDateRange(start, end, "2026-03-02 – 2026-03-06")
		if !d.Valid() {
			t.Fatal("Valid() = false")
		}
		if d.String() != "2026-03-02 – 2026-03-06" {
			t.Errorf("String() = %q", d.String())
		}
		if d.Days() != 5 {
			t.Errorf("Days() = %d, want 5", d.Days())
		}
		if w, ok := d.ISOWeek(); !ok || w != 10 {
			t.Errorf("ISOWeek() = (%d, %v), want (10, true)", w, ok)
		}
	})

	t.Run("single day", func(t *testing.T) {
		d := NewDateRange(start, start, "2026-03-02")
		if d.String() != "2026-03-02" {
			t.Errorf("String() = %q", d.String())
		}
	})

	t.Run("raw fallback", func(t *testing.T) {
		d := DateRange{Raw: "Hösten 2026"}
		if d.Valid() {
			t.Error("Valid() = true for raw-only range")
		}
		if d.IsZero() {
			t.Error("IsZero() = true for raw-only range")
		}
		if d.String() != "Hösten 2026" {
			t.Errorf("String() = %q", d.String())
		}
		if d.Days() != 0 {
			t.Errorf("Days() = %d, want 0", d.Days())
		}
	})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(NewDateRange(start, end, "raw"))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		s := string(data)
		if !strings.Contains(s, `"start":"2026-03-02"`) || !strings.Contains(s, `"end":"2026-03-06"`) {
			t.Errorf("Marshal() = %s", s)
		}
	})
}

func TestPrice_String(t *testing.T) {
	if got := (Price{Text: "26 300 kr", Amount: 26300}).String(); got != "26 300 kr" {
		t.Errorf("String() = %q, want source text", got)
	}
	got := (Price{Amount: 15000}).String()
	if !strings.HasPrefix(got, "15") || !strings.HasSuffix(got, "000 kr") {
		t.Errorf("String() = %q, want formatted amount", got)
	}
	if got := (Price{}).String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestMapsSearchURL(t *testing.T) {
	got := MapsSearchURL("Hotell Skogsbo", "Avesta")
	want := "https://www.google.com/maps/search/?api=1&query=Hotell+Skogsbo%2C+Avesta"
	if got != want {
		t.Errorf("MapsSearchURL() = %q, want %q", got, want)
	}
	if MapsSearchURL("", "") != "" {
		t.Error("MapsSearchURL() should be empty without venue and location")
	}
}

func TestErrors(t *testing.T) {
	var err error = &FieldError{Field: "price", Raw: "ring oss"}
	if !errors.Is(err, ErrFieldUnparsable) {
		t.Error("FieldError should match ErrFieldUnparsable")
	}
	if !strings.Contains(err.Error(), `"ring oss"`) {
		t.Errorf("Error() = %q", err.Error())
	}
	if (&FieldError{Field: "week"}).Error() != "week: missing" {
		t.Errorf("Error() = %q", (&FieldError{Field: "week"}).Error())
	}

	err = &RowError{Source: "inline", Index: 3, Reason: "2 field groups, need 5"}
	if !errors.Is(err, ErrRowMalformed) {
		t.Error("RowError should match ErrRowMalformed")
	}
	if err.Error() != "inline row 3: 2 field groups, need 5" {
		t.Errorf("Error() = %q", err.Error())
	}
}
