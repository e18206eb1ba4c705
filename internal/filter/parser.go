package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
	"github.com/pfrederiksen/ugl-courses/internal/travel"
)

// Input holds raw filter values as typed by a user or sent as query parameters.
type Input struct {
	Weeks    string `form:"weeks" json:"weeks"`
	MaxPrice string `form:"max-price" json:"max_price"`
	From     string `form:"from" json:"from"`
	Mode     string `form:"mode" json:"mode"`
	Budget   string `form:"budget" json:"budget"`
}

// Diagnostic explains why one filter input was ignored.
type Diagnostic struct {
	Field   string `json:"field"`
	Input   string `json:"input"`
	Message string `json:"message"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %q ignored: %s", d.Field, d.Input, d.Message)
}

// Unwrap lets errors.Is match ErrFilterSpecInvalid.
func (d Diagnostic) Unwrap() error {
	return course.ErrFilterSpecInvalid
}

// ParseCriteria converts raw inputs into criteria. A malformed input leaves its
// criterion unset and adds a diagnostic; parsing never fails as a whole.
func ParseCriteria(in Input) (Criteria, []Diagnostic) {
	var c Criteria
	var diags []Diagnostic

	if spec := strings.TrimSpace(in.Weeks); spec != "" {
		weeks := textnorm.SplitWeekRangeSpec(spec)
		if weeks.Len() == 0 {
			diags = append(diags, Diagnostic{Field: "weeks", Input: in.Weeks, Message: "no week number in 1-53"})
		} else {
			c.Weeks = weeks
		}
	}

	if raw := strings.TrimSpace(in.MaxPrice); raw != "" {
		price, err := parseNumber(raw)
		if err != nil {
			diags = append(diags, Diagnostic{Field: "max-price", Input: in.MaxPrice, Message: err.Error()})
		} else {
			c.MaxPrice = price
		}
	}

	t, travelDiags := parseTravel(in)
	c.Travel = t
	diags = append(diags, travelDiags...)

	return c, diags
}

func parseTravel(in Input) (*TravelConstraint, []Diagnostic) {
	from := strings.TrimSpace(in.From)
	rawBudget := strings.TrimSpace(in.Budget)
	rawMode := strings.TrimSpace(in.Mode)

	if from == "" {
		if rawBudget != "" {
			return nil, []Diagnostic{{Field: "budget", Input: in.Budget, Message: "needs a starting town"}}
		}
		return nil, nil
	}

	var diags []Diagnostic
	mode := travel.ModeCar
	if rawMode != "" {
		m, err := travel.ParseMode(rawMode)
		if err != nil {
			return nil, []Diagnostic{{Field: "mode", Input: in.Mode, Message: err.Error()}}
		}
		mode = m
	}

	if rawBudget == "" {
		return nil, append(diags, Diagnostic{Field: "from", Input: in.From, Message: "needs a travel budget in minutes"})
	}
	budget, err := parseNumber(rawBudget)
	if err == nil && budget == 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		return nil, append(diags, Diagnostic{Field: "budget", Input: in.Budget, Message: err.Error()})
	}

	return &TravelConstraint{From: from, Mode: mode, Budget: budget}, diags
}

// parseNumber accepts a non-negative integer, allowing digit grouping ("28 000")
// and a trailing "kr" or "min".
func parseNumber(raw string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "kr")
	s = strings.TrimSuffix(s, "min")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, errors.New("not a number")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}
