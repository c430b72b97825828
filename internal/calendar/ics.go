// Package calendar renders shows as an iCalendar (.ics) feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/mindriot101/whatson/internal/date"
	"github.com/mindriot101/whatson/internal/show"
)

// GenerateICS generates an iCalendar feed with one all-day event per show.
// stamp is written as the DTSTAMP of every entry.
func GenerateICS(shows []show.Show, stamp time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//whatson//whatson//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for _, s := range shows {
		writeEvent(&ics, s, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, s show.Show, stamp time.Time) {
	start, end := date.Bounds(s.Date)
	// A range printed backwards still occupies its opening day.
	if end.Before(start) {
		end = start
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@whatson\r\n", s.ID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(stamp))

	// All-day events; DTEND is exclusive.
	fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", formatICSDate(start.Time()))
	fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", formatICSDate(end.Time().AddDate(0, 0, 1)))

	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(s.Name))
	if s.Theatre != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(s.Theatre))
	}
	fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(fmt.Sprintf("%s\n%s", s.Name, s.Date)))
	if s.LinkURL != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", s.LinkURL)
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
