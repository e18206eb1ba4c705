package course

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseSeats(t *testing.T) {
	tests := []struct {
		input     string
		wantState SeatState
		wantCount int
	}{
		{"4", SeatsCount, 4},
		{"0", SeatsCount, 0},
		{" 12 ", SeatsCount, 12},
		{"4 platser kvar", SeatsCount, 4},
		{"Platser: 2", SeatsCount, 2},
		{"Få platser kvar", SeatsFew, 0},
		{"Fåtal", SeatsFew, 0},
		{"Enstaka platser", SeatsFew, 0},
		{"Few seats", SeatsFew, 0},
		{"Fullbokad", SeatsFull, 0},
		{"FULLT", SeatsFull, 0},
		{"Inga platser kvar", SeatsFull, 0},
		{"Ring för info", SeatsUnknown, 0},
		{"", SeatsUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseSeats(tt.input)
			if got.State != tt.wantState {
				t.Errorf("ParseSeats(%q).State = %v, want %v", tt.input, got.State, tt.wantState)
			}
			if got.Count != tt.wantCount {
				t.Errorf("ParseSeats(%q).Count = %d, want %d", tt.input, got.Count, tt.wantCount)
			}
		})
	}
}

func TestSeats_String(t *testing.T) {
	tests := []struct {
		seats Seats
		want  string
	}{
		{Seats{State: SeatsCount, Count: 3, Text: "3"}, "3"},
		{FewSeats("0"), "few left"},
		{Seats{State: SeatsFull, Text: "Fullbokad"}, "full"},
		{Seats{State: SeatsUnknown, Text: "Ring oss"}, "Ring oss"},
	}

	for _, tt := range tests {
		if got := tt.seats.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.seats, got, tt.want)
		}
	}
}

func TestSeats_FewNeverRendersZero(t *testing.T) {
	s := FewSeats("0")
	if s.String() == "0" {
		t.Error("few seats rendered as 0")
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"state":"few"`) || !strings.Contains(string(data), `"display":"few left"`) {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestSeatState_String(t *testing.T) {
	if SeatState(42).String() != "unknown" {
		t.Errorf("SeatState(42).String() = %q", SeatState(42).String())
	}
}
