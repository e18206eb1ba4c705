// Package course defines the canonical course record every source adapter produces.
//
// A Record describes one scheduled course instance: its ISO week, date range,
// venue, location, instructors, price, and seat availability, tagged with the
// source it came from. Records are plain values. Once aggregated they are only
// read and selected, never modified.
//
// The package also holds the error taxonomy shared by the pipeline. Each
// sentinel error describes a failure that is recovered locally, so none of them
// ends a run.
package course
