package scraper

import (
	"errors"

	"github.com/mindriot101/whatson/internal/config"
	"github.com/mindriot101/whatson/internal/date"
	"github.com/mindriot101/whatson/internal/fetcher"
	"github.com/mindriot101/whatson/internal/listing"
	"github.com/mindriot101/whatson/internal/show"
)

// Result is the outcome of scraping one theatre: either its shows or an error
type Result struct {
	Theatre config.Theatre
	Shows   []show.Show
	Err     error
}

// OK reports whether the theatre was scraped successfully
func (r Result) OK() bool {
	return r.Err == nil
}

// ErrorKind classifies why a theatre failed
type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindFetch     ErrorKind = "fetch"
	KindDate      ErrorKind = "date"
	KindStructure ErrorKind = "structure"
	KindOther     ErrorKind = "other"
)

// Classify maps a theatre error onto its ErrorKind
func Classify(err error) ErrorKind {
	var (
		fe *fetcher.FetchError
		pe *date.ParseError
		se *listing.StructureError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &fe):
		return KindFetch
	case errors.As(err, &pe):
		return KindDate
	case errors.As(err, &se):
		return KindStructure
	default:
		return KindOther
	}
}

// Summary counts the outcome of a run
type Summary struct {
	Venues int `json:"venues"`
	Failed int `json:"failed"`
	Shows  int `json:"shows"`
}

// Summarize totals a run's results
func Summarize(results []Result) Summary {
	sum := Summary{Venues: len(results)}
	for _, r := range results {
		if !r.OK() {
			sum.Failed++
			continue
		}
		sum.Shows += len(r.Shows)
	}
	return sum
}
