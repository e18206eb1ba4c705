package textnorm

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// weekPattern matches the week markers sources put next to dates:
// "Vecka 10", "v.10", "v 10", "V10", "Week 10", "w.10".
var weekPattern = regexp.MustCompile(`(?i)\b(?:vecka|week|v|w)\.?\s*(\d{1,2})\b`)

// InsertWordBoundary inserts a space wherever a lowercase letter is directly
// followed by an uppercase letter, e.g. "Anna AnderssonBertil Berg" becomes
// "Anna Andersson Bertil Berg". Diacritics count as letters. The input is
// NFC-normalized first so decomposed characters behave like their composed form.
// Applying it twice gives the same result as applying it once.
func InsertWordBoundary(text string) string {
	text = norm.NFC.String(text)
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)

	var prev rune
	for i, r := range text {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	return b.String()
}

// NormalizeName cleans an instructor name: word boundaries repaired, whitespace
// collapsed, and names published in all caps ("ANNA ANDERSSON") title-cased.
func NormalizeName(name string) string {
	name = CollapseSpace(InsertWordBoundary(name))
	if name == "" || !hasLetter(name) || strings.ToUpper(name) != name {
		return name
	}
	return cases.Title(language.Swedish).String(strings.ToLower(name))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ExtractInteger removes every character that is not an ASCII digit and parses
// the rest. It returns 0 when nothing is left or the number does not fit in an int.
func ExtractInteger(text string) int {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}

	n, err := strconv.Atoi(b.String())
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// CollapseSpace trims the text and replaces every run of whitespace,
// including non-breaking spaces (U+00A0, U+202F), with a single space.
func CollapseSpace(text string) string {
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

// FindWeek looks for a week marker in text and returns the week number together
// with the exact token that matched, so callers can cut it out of a combined field.
// ok is false when no marker is found or the number is outside [1,53].
func FindWeek(text string) (week int, token string, ok bool) {
	m := weekPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}

	week, err := strconv.Atoi(m[1])
	if err != nil || week < 1 || week > 53 {
		return 0, m[0], false
	}
	return week, m[0], true
}

// ParseISOWeek extracts a week number from text such as "Vecka 10", "v.10" or a
// bare "10". ok is false when no number in [1,53] can be found.
func ParseISOWeek(text string) (int, bool) {
	if week, _, ok := FindWeek(text); ok {
		return week, true
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(trimmed) > 2 {
		return 0, false
	}
	week, err := strconv.Atoi(trimmed)
	if err != nil || week < 1 || week > 53 {
		return 0, false
	}
	return week, true
}
