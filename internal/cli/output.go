package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/export"
	"github.com/pfrederiksen/ugl-courses/internal/filter"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'csv')", s)
}

// OutputResult contains data to be output
type OutputResult struct {
	FetchedAt   time.Time       `json:"fetched_at"`
	Criteria    filter.Criteria `json:"criteria"`
	Records     []course.Record `json:"records"`
	Count       int             `json:"count"`
	Total       int             `json:"total"`
	Failures    []string        `json:"failures,omitempty"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
	ShowAll     bool            `json:"show_all,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return export.WriteCSV(w, result.Records)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// listColumns prefixes the summary columns with the selection number.
var listColumns = append([]string{"#"}, append(append([]string(nil), export.Columns...), "Seats", "Instructors")...)

// writeText outputs results as a numbered table. The numbers are what
// `export --select` refers to.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if !result.ShowAll {
		fmt.Fprintln(w, result.Criteria.String())
	}
	for _, f := range result.Failures {
		fmt.Fprintf(w, "Unavailable: %s\n", f)
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "Ignored filter: %s\n", d)
	}

	if result.Count == 0 {
		if result.ShowAll {
			fmt.Fprintln(w, "No courses found.")
		} else {
			fmt.Fprintln(w, "No courses match the filters.")
		}
		return nil
	}

	rows := make([][]string, 0, len(result.Records))
	for i, rec := range result.Records {
		row := append([]string{strconv.Itoa(i + 1)}, export.Row(rec)...)
		row = append(row, rec.Seats.String(), rec.InstructorText())
		rows = append(rows, row)
	}
	fmt.Fprintln(w, export.Table(listColumns, rows))

	if verbose {
		for i, rec := range result.Records {
			fmt.Fprintf(w, "%d. ID: %s\n", i+1, rec.ID)
			if rec.URL != "" {
				fmt.Fprintf(w, "   Link: %s\n", rec.URL)
			}
			if rec.MapsURL != "" {
				fmt.Fprintf(w, "   Map: %s\n", rec.MapsURL)
			}
			for _, issue := range rec.Issues {
				fmt.Fprintf(w, "   Issue: %s\n", issue)
			}
		}
	}

	fmt.Fprintf(w, "\nShowing %d of %d courses\n", result.Count, result.Total)
	return nil
}
