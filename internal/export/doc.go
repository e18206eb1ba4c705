// Package export turns a user's selected courses into a summary that can be
// mailed, plus CSV and iCalendar files.
//
// Build validates the request, assigns it a fresh request ID and renders a
// plain-text summary (with a table) and an HTML summary. WriteCSV and WriteICS
// write the selected records in file formats for spreadsheets and calendars.
package export
