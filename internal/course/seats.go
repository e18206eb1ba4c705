package course

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SeatState is the semantic seat availability of a course.
type SeatState int

const (
	SeatsUnknown SeatState = iota // free text that matched no rule
	SeatsCount                    // an exact number of seats left
	SeatsFew                      // "few left", or a source's sold-out marker that still takes bookings
	SeatsFull                     // no seats available
)

var seatStateNames = map[SeatState]string{
	SeatsUnknown: "unknown",
	SeatsCount:   "count",
	SeatsFew:     "few",
	SeatsFull:    "full",
}

// String returns the state name.
func (s SeatState) String() string {
	if name, ok := seatStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state as its name.
func (s SeatState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Phrases recognised in free-text seat fields, compared lowercase.
var (
	fewPhrases  = []string{"få platser", "fåtal", "enstaka", "few", "få"}
	fullPhrases = []string{"fullbokad", "fullbokat", "fulltecknad", "slutsåld", "inga platser", "full"}
)

// Seats is the seat availability of a course together with the source's text.
type Seats struct {
	State SeatState `json:"state"`
	Count int       `json:"count,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// FewSeats returns the qualitative "few" state.
func FewSeats(text string) Seats {
	return Seats{State: SeatsFew, Text: text}
}

// ParseSeats interprets a seat field. A digits-only field becomes a count;
// known phrases become Few or Full; anything else is Unknown with the text kept.
func ParseSeats(text string) Seats {
	text = strings.TrimSpace(text)
	if text == "" {
		return Seats{State: SeatsUnknown}
	}

	if n, err := strconv.Atoi(text); err == nil && n >= 0 {
		return Seats{State: SeatsCount, Count: n, Text: text}
	}

	lower := strings.ToLower(text)
	for _, p := range fullPhrases {
		if strings.Contains(lower, p) {
			return Seats{State: SeatsFull, Text: text}
		}
	}
	for _, p := range fewPhrases {
		if containsWord(lower, p) {
			return Seats{State: SeatsFew, Text: text}
		}
	}

	// "4 platser kvar", "Platser: 4"
	if fields := strings.Fields(lower); len(fields) > 0 {
		for _, f := range fields {
			f = strings.Trim(f, ":.,")
			if n, err := strconv.Atoi(f); err == nil && n >= 0 {
				return Seats{State: SeatsCount, Count: n, Text: text}
			}
		}
	}

	return Seats{State: SeatsUnknown, Text: text}
}

// containsWord reports whether phrase occurs in s on word boundaries, so that
// "få" does not match inside "fågel".
func containsWord(s, phrase string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], phrase)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(phrase)
		if isBoundary(s, start-1) && isBoundary(s, end) {
			return true
		}
		i = start + 1
		if i >= len(s) {
			return false
		}
	}
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return c == ' ' || c == ',' || c == '.' || c == '!' || c == ':' || c == '(' || c == ')'
}

// String renders the availability for display. A Few state never renders as a number.
func (s Seats) String() string {
	switch s.State {
	case SeatsCount:
		return strconv.Itoa(s.Count)
	case SeatsFew:
		return "few left"
	case SeatsFull:
		return "full"
	default:
		return s.Text
	}
}

// MarshalJSON adds the display form so consumers don't need the rules above.
func (s Seats) MarshalJSON() ([]byte, error) {
	type plain Seats
	return json.Marshal(struct {
		plain
		Display string `json:"display"`
	}{plain(s), s.String()})
}
