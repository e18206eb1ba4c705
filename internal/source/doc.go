// Package source turns the rows of each course listing into course records.
//
// Every listing has its own adapter. An adapter fetches its page through a
// scraper.Fetcher, converts each row into a typed row with a fixed set of
// fields, and builds a course.Record from it. Rows missing required fields are
// dropped with an error wrapping course.ErrRowMalformed; individual fields that
// fail to parse fall back to an empty value and are noted in Record.Issues.
//
// Supported adapters:
//   - table:  a plain HTML table with ISO dates and a "Platser kvar:" label
//   - inline: a list where date and week share one field and prices are itemized
//   - venue:  a venue's own listing with start dates only
package source
