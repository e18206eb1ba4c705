// Package filter narrows a set of course records by week, price and travel time.
//
// Criteria are combined with AND; a criterion that is not set does not
// restrict anything. When no criterion is set at all, the engine keeps the
// courses starting in the next few weeks instead of returning everything.
//
// Example usage:
//
//	criteria, diags := filter.ParseCriteria(filter.Input{
//	    Weeks:    "15,20-22",
//	    MaxPrice: "28000",
//	})
//	for _, d := range diags {
//	    fmt.Println(d)
//	}
//	matches := filter.NewEngine().Apply(records, criteria)
package filter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
	"github.com/pfrederiksen/ugl-courses/internal/travel"
)

const (
	// DefaultPriceTolerance is added to a price ceiling before comparing.
	DefaultPriceTolerance = 500

	// DefaultLookaheadWeeks is how many upcoming weeks the unfiltered view shows.
	DefaultLookaheadWeeks = 2
)

// TravelConstraint limits courses at the travel venue to those reachable
// from a town within a budget.
type TravelConstraint struct {
	From   string      `json:"from"`
	Mode   travel.Mode `json:"mode"`
	Budget int         `json:"budget"` // minutes
}

// Criteria represents the active filters.
type Criteria struct {
	Weeks    textnorm.IntSet   `json:"-"`
	MaxPrice int               `json:"max_price,omitempty"`
	Travel   *TravelConstraint `json:"travel,omitempty"`
}

// weeksActive reports whether a week filter is set.
func (c Criteria) weeksActive() bool {
	return c.Weeks.Len() > 0
}

func (c Criteria) travelActive() bool {
	return c.Travel != nil && strings.TrimSpace(c.Travel.From) != "" && c.Travel.Budget > 0
}

// IsEmpty reports whether no criterion is active.
func (c Criteria) IsEmpty() bool {
	return !c.weeksActive() && c.MaxPrice <= 0 && !c.travelActive()
}

// String returns a human-readable description of the active criteria.
// Format: "Weeks: 15,20-22 | Max price: 28 000 kr | From Stockholm by car: 60 min"
func (c Criteria) String() string {
	if c.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if c.weeksActive() {
		parts = append(parts, fmt.Sprintf("Weeks: %s", c.Weeks))
	}
	if c.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("Max price: %s", course.FormatAmount(c.MaxPrice)))
	}
	if c.travelActive() {
		parts = append(parts, fmt.Sprintf("From %s by %s: %d min", c.Travel.From, c.Travel.Mode, c.Travel.Budget))
	}
	return strings.Join(parts, " | ")
}

// Engine applies criteria. The zero value is not usable; use NewEngine.
type Engine struct {
	PriceTolerance int
	LookaheadWeeks int
	Travel         travel.Table
	Now            func() time.Time
}

// NewEngine returns an engine with the default tolerance, lookahead and travel table.
func NewEngine() *Engine {
	return &Engine{
		PriceTolerance: DefaultPriceTolerance,
		LookaheadWeeks: DefaultLookaheadWeeks,
		Travel:         travel.Default,
		Now:            time.Now,
	}
}

// UpcomingWeeks returns the ISO weeks 1..LookaheadWeeks weeks after now.
// A non-positive LookaheadWeeks uses DefaultLookaheadWeeks.
func (e *Engine) UpcomingWeeks() textnorm.IntSet {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	lookahead := e.LookaheadWeeks
	if lookahead <= 0 {
		lookahead = DefaultLookaheadWeeks
	}
	weeks := make(textnorm.IntSet, lookahead)
	for i := 1; i <= lookahead; i++ {
		_, w := now.AddDate(0, 0, 7*i).ISOWeek()
		weeks[w] = struct{}{}
	}
	return weeks
}

// Matches reports whether a record passes every active criterion.
func (e *Engine) Matches(rec course.Record, c Criteria) bool {
	if c.IsEmpty() {
		return inWeeks(rec, e.UpcomingWeeks())
	}
	return e.matches(rec, c)
}

func (e *Engine) matches(rec course.Record, c Criteria) bool {
	if c.weeksActive() && !inWeeks(rec, c.Weeks) {
		return false
	}

	if c.MaxPrice > 0 && rec.Price.Amount-e.PriceTolerance > c.MaxPrice {
		return false
	}

	if c.travelActive() && strings.EqualFold(strings.TrimSpace(rec.Location), travel.VenueTown) {
		table := e.Travel
		if table == nil {
			table = travel.Default
		}
		if table.Minutes(c.Travel.From, c.Travel.Mode) > c.Travel.Budget {
			return false
		}
	}

	return true
}

// Apply returns the matching records in their original order. The input is
// never modified and the result never aliases it.
func (e *Engine) Apply(records []course.Record, c Criteria) []course.Record {
	filtered := make([]course.Record, 0)

	if c.IsEmpty() {
		upcoming := e.UpcomingWeeks()
		for _, rec := range records {
			if inWeeks(rec, upcoming) {
				filtered = append(filtered, rec.Clone())
			}
		}
		return filtered
	}

	for _, rec := range records {
		if e.matches(rec, c) {
			filtered = append(filtered, rec.Clone())
		}
	}
	return filtered
}

func inWeeks(rec course.Record, weeks textnorm.IntSet) bool {
	w, ok := rec.WeekNumber()
	return ok && weeks.Has(w)
}

// MarshalJSON lists the weeks in order and adds the display form.
func (c Criteria) MarshalJSON() ([]byte, error) {
	type plain Criteria
	return json.Marshal(struct {
		plain
		Weeks       []int  `json:"weeks,omitempty"`
		Description string `json:"description"`
	}{plain(c), c.Weeks.Sorted(), c.String()})
}
