// Package textnorm provides the string transforms shared by every source adapter.
//
// All functions are pure and deterministic: word-boundary repair for names glued
// together by source markup, digit extraction for prices, date-range parsing for
// the layouts the known sources publish, and week/range specification parsing.
// None of them panic on malformed input; they fall back to a zero value or an
// ok=false result instead.
package textnorm
