package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/export"
)

func main() {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rec := course.Record{
		ID:          course.GenerateID("uglkurser", "Sigtunahöjden", "2026-03-02 – 2026-03-06"),
		Week:        course.WeekPtr(10),
		Dates:       course.NewDateRange(start, start.AddDate(0, 0, 4), "2026-03-02 – 2026-03-06"),
		Venue:       "Sigtunahöjden Hotell & Konferens",
		Location:    "Sigtuna",
		Instructors: []string{"Anna Berg", "Erik Lund"},
		Price:       course.Price{Amount: 24900},
		Seats:       course.ParseSeats("3 platser kvar"),
		Source:      "uglkurser",
		URL:         "https://www.uglkurser.se/datumochpriser.php",
	}
	rec.MapsURL = course.MapsSearchURL(rec.Venue, rec.Location)

	var buf bytes.Buffer
	if _, err := export.WriteICS(&buf, []course.Record{rec}, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating calendar: %v\n", err)
		os.Exit(1)
	}

	// Write to file (owner read/write only)
	filename := "test-ugl-course.ics"
	if err := os.WriteFile(filename, buf.Bytes(), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Print(buf.String())
	fmt.Println("---")
}
