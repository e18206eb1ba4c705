package textnorm

import (
	"sort"
	"strconv"
	"strings"
)

// IntSet is an unordered set of integers.
type IntSet map[int]struct{}

// Has reports whether n is in the set.
func (s IntSet) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of members.
func (s IntSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s IntSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// String renders the set compactly, folding consecutive runs: "7,15,35-37".
func (s IntSet) String() string {
	nums := s.Sorted()
	parts := make([]string, 0, len(nums))
	for i := 0; i < len(nums); {
		j := i
		for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, strconv.Itoa(nums[i])+"-"+strconv.Itoa(nums[j]))
		} else {
			parts = append(parts, strconv.Itoa(nums[i]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// SplitWeekRangeSpec parses a week specification such as "15,7" or "35-37".
// Tokens that are not a week number in [1,53] or an inclusive range of them are
// skipped, so the result is empty when every token is malformed.
func SplitWeekRangeSpec(spec string) IntSet {
	return SplitRangeSpec(spec, 1, 53)
}

// SplitRangeSpec parses comma-separated tokens, each a bare integer or an
// inclusive "start-end" range, and returns their union. Tokens outside
// [min,max], reversed ranges and anything unparsable are skipped.
func SplitRangeSpec(spec string, min, max int) IntSet {
	set := make(IntSet)

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		start, end, ok := parseRangeToken(token)
		if !ok || start > end || start < min || end > max {
			continue
		}
		for n := start; n <= end; n++ {
			set[n] = struct{}{}
		}
	}

	return set
}

func parseRangeToken(token string) (int, int, bool) {
	lo, hi, isRange := strings.Cut(token, "-")
	if !isRange {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}

	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, false
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
