package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/course"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByPrice  SortOrder = "price"
	SortByWeek   SortOrder = "week"
	SortByVenue  SortOrder = "venue"
	SortBySource SortOrder = "source"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByPrice, SortByWeek, SortByVenue, SortBySource:
		return order, nil
	case "":
		return SortByDate, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be date, price, week, venue or source)", s)
}

// sortRecords sorts records in place. Ties fall back to date order.
func sortRecords(records []course.Record, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByPrice:
		sort.SliceStable(records, func(i, j int) bool {
			pi, pj := records[i].Price.Amount, records[j].Price.Amount
			if pi != pj {
				// unknown prices last
				if pi == 0 || pj == 0 {
					return pj == 0
				}
				return pi < pj
			}
			return compareByDate(records[i], records[j])
		})
	case SortByWeek:
		sort.SliceStable(records, func(i, j int) bool {
			wi, oki := records[i].WeekNumber()
			wj, okj := records[j].WeekNumber()
			if oki != okj {
				return oki
			}
			if wi != wj {
				return wi < wj
			}
			return compareByDate(records[i], records[j])
		})
	case SortByVenue:
		sort.SliceStable(records, func(i, j int) bool {
			vi, vj := strings.ToLower(records[i].Venue), strings.ToLower(records[j].Venue)
			if vi != vj {
				return vi < vj
			}
			return compareByDate(records[i], records[j])
		})
	case SortBySource:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Source != records[j].Source {
				return records[i].Source < records[j].Source
			}
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate reports whether i starts before j.
// Records without a parsed date sort after dated ones.
func compareByDate(i, j course.Record) bool {
	vi, vj := i.Dates.Valid(), j.Dates.Valid()

	if vi && vj {
		if !i.Dates.Start.Equal(j.Dates.Start) {
			return i.Dates.Start.Before(j.Dates.Start)
		}
		return strings.ToLower(i.Venue) < strings.ToLower(j.Venue)
	}
	if vi {
		return true
	}
	if vj {
		return false
	}

	if i.Source != j.Source {
		return i.Source < j.Source
	}
	return strings.ToLower(i.Venue) < strings.ToLower(j.Venue)
}
