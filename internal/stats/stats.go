// Package stats summarizes the full course set: the most common locations
// and price points.
package stats

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/ugl-courses/internal/course"
)

// DefaultTop is the number of entries the summaries show.
const DefaultTop = 5

// Count is one value and how many records carry it.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopLocations returns the n most common towns. A location such as
// "Sigtuna, Stockholms län" counts under its last comma-separated part.
func TopLocations(records []course.Record, n int) []Count {
	return top(records, n, func(r course.Record) string {
		loc := strings.TrimSpace(r.Location)
		if i := strings.LastIndex(loc, ","); i >= 0 {
			loc = strings.TrimSpace(loc[i+1:])
		}
		return loc
	})
}

// TopPrices returns the n most common prices, keyed by their display text.
func TopPrices(records []course.Record, n int) []Count {
	return top(records, n, func(r course.Record) string {
		if r.Price.Amount > 0 {
			return course.FormatAmount(r.Price.Amount)
		}
		return ""
	})
}

// top counts non-empty keys and orders them by count, then alphabetically.
func top(records []course.Record, n int, key func(course.Record) string) []Count {
	counts := make(map[string]int)
	for _, r := range records {
		if k := key(r); k != "" {
			counts[k]++
		}
	}

	out := make([]Count, 0, len(counts))
	for v, c := range counts {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
