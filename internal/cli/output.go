package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mindriot101/whatson/internal/calendar"
	"github.com/mindriot101/whatson/internal/logger"
	"github.com/mindriot101/whatson/internal/scraper"
	"github.com/mindriot101/whatson/internal/show"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// ParseOutputFormat validates a user-supplied output format
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", s)
	}
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time       `json:"checked_at"`
	Theatres  []TheatreResult `json:"theatres"`
	Summary   scraper.Summary `json:"summary"`
}

// TheatreResult is the outcome for one theatre. Exactly one of Shows and Error is meaningful.
type TheatreResult struct {
	Name      string      `json:"name"`
	URL       string      `json:"url"`
	RootURL   string      `json:"root_url,omitempty"`
	Shows     []show.Show `json:"shows"`
	Error     string      `json:"error,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
}

// NewOutputResult converts scrape results into their output form, keeping their order
func NewOutputResult(results []scraper.Result) *OutputResult {
	out := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Theatres:  make([]TheatreResult, 0, len(results)),
		Summary:   scraper.Summarize(results),
	}
	for _, r := range results {
		tr := TheatreResult{
			Name:    r.Theatre.Name,
			URL:     r.Theatre.URL,
			RootURL: r.Theatre.RootURL,
			Shows:   r.Shows,
		}
		if r.Err != nil {
			tr.Shows = nil
			tr.Error = r.Err.Error()
			tr.ErrorKind = string(scraper.Classify(r.Err))
		} else if tr.Shows == nil {
			tr.Shows = []show.Show{}
		}
		out.Theatres = append(out.Theatres, tr)
	}
	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	case FormatICS:
		return writeICS(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult) error {
	if len(result.Theatres) == 0 {
		_, err := fmt.Fprintln(w, "No theatres configured.")
		return err
	}

	for _, tr := range result.Theatres {
		if tr.Error != "" {
			fmt.Fprintf(w, "\n%s: FAILED\n", tr.Name)
			fmt.Fprintf(w, "  ERROR (%s): %s\n", tr.ErrorKind, tr.Error)
			continue
		}

		fmt.Fprintf(w, "\n%s (%d shows):\n", tr.Name, len(tr.Shows))
		if len(tr.Shows) == 0 {
			fmt.Fprintln(w, "  No shows found.")
			continue
		}
		for _, s := range tr.Shows {
			fmt.Fprintf(w, "  %-40s  %s\n", s.Date, s.Name)
		}
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d shows from %d theatres (%d failed)\n",
		result.Summary.Shows, result.Summary.Venues, result.Summary.Failed)
	return err
}

// writeICS outputs the shows of every successful theatre as one calendar feed
func writeICS(w io.Writer, result *OutputResult) error {
	var shows []show.Show
	for _, tr := range result.Theatres {
		shows = append(shows, tr.Shows...)
	}
	_, err := io.WriteString(w, calendar.GenerateICS(shows, result.CheckedAt))
	return err
}

// writeMetrics prints the run metrics after the results
func writeMetrics(w io.Writer, snapshot logger.Snapshot) error {
	fmt.Fprintln(w, "\nMetrics:")
	return writeJSON(w, snapshot)
}
