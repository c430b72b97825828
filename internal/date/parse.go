package date

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrUnrecognizedMonth is returned when the month token is not a full English month name.
	ErrUnrecognizedMonth = errors.New("unrecognized month")
	// ErrMalformedRange is returned when a range does not split into exactly two dates.
	ErrMalformedRange = errors.New("malformed range")
	// ErrInvalidDay is returned when the text does not start with a day number.
	ErrInvalidDay = errors.New("invalid day")
)

// ParseError describes why a piece of date text could not be parsed.
// Kind is one of the Err* sentinels above, so callers can use errors.Is.
type ParseError struct {
	Kind error
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%v: %q", e.Kind, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool { return target == e.Kind }

func (e *ParseError) Unwrap() error { return e.Err }

// rangeSeparator splits "3rd September - 10th September" into its two ends.
const rangeSeparator = "-"

// Parse converts date text into a Date, using year for every day it mentions.
//
// Text containing a hyphen is a range and must split into exactly two dates.
// Otherwise the text is a single date: a run of leading digits giving the day, then
// everything after the first whitespace character, trimmed, giving the month name.
// Ordinal suffixes ("3rd") are therefore skipped.
func Parse(text string, year uint) (Date, error) {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, rangeSeparator) {
		raw, err := parseSingle(text, year)
		if err != nil {
			return nil, err
		}
		return Single{raw}, nil
	}

	parts := strings.Split(text, rangeSeparator)
	if len(parts) != 2 {
		return nil, &ParseError{
			Kind: ErrMalformedRange,
			Text: text,
			Err:  fmt.Errorf("expected 2 dates, found %d", len(parts)),
		}
	}

	ends := make([]RawDate, 0, 2)
	for _, part := range parts {
		d, err := Parse(part, year)
		if err != nil {
			return nil, err
		}
		s, ok := d.(Single)
		if !ok {
			return nil, &ParseError{Kind: ErrMalformedRange, Text: text, Err: errors.New("nested range")}
		}
		ends = append(ends, s.RawDate)
	}
	return Range{Start: ends[0], End: ends[1]}, nil
}

func parseSingle(text string, year uint) (RawDate, error) {
	digits := strings.IndexFunc(text, func(r rune) bool { return r < '0' || r > '9' })
	if digits < 0 {
		digits = len(text)
	}
	day, err := strconv.Atoi(text[:digits])
	if err != nil {
		return RawDate{}, &ParseError{Kind: ErrInvalidDay, Text: text, Err: err}
	}

	var monthText string
	if sp := strings.IndexFunc(text[digits:], unicode.IsSpace); sp >= 0 {
		monthText = strings.TrimSpace(text[digits+sp:])
	}
	month, err := MonthFromName(monthText)
	if err != nil {
		return RawDate{}, err
	}

	return RawDate{Day: day, Month: month, Year: year}, nil
}
