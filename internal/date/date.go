package date

import (
	"fmt"
	"time"
)

// RawDate is a calendar day as printed on a listing page. Month is zero-indexed
// (0 = January). Day is not checked against the length of the month.
type RawDate struct {
	Day   int  `json:"day"`
	Month int  `json:"month"`
	Year  uint `json:"year"`
}

// String renders the day and month the way listing pages print them, e.g. "25 December".
func (r RawDate) String() string {
	return fmt.Sprintf("%d %s", r.Day, monthName(r.Month))
}

// Format renders the full date, e.g. "25 December 2024".
func (r RawDate) Format() string {
	return fmt.Sprintf("%d %s %d", r.Day, monthName(r.Month), r.Year)
}

// Time converts the date to midnight UTC. Out-of-range days roll over into the
// following month, which is good enough for ordering.
func (r RawDate) Time() time.Time {
	return time.Date(int(r.Year), time.Month(r.Month+1), r.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether r falls strictly before o.
func (r RawDate) Before(o RawDate) bool {
	if r.Year != o.Year {
		return r.Year < o.Year
	}
	if r.Month != o.Month {
		return r.Month < o.Month
	}
	return r.Day < o.Day
}

// Date is either a Single day or a Range. The set of implementations is closed;
// consumers switch over Single and Range (or use Match).
type Date interface {
	fmt.Stringer
	isDate()
}

// Single is a one-day performance.
type Single struct {
	RawDate
}

// Range is an inclusive run of performances. Start is not required to precede End.
type Range struct {
	Start RawDate
	End   RawDate
}

func (Single) isDate() {}
func (Range) isDate()  {}

func (s Single) String() string { return s.RawDate.Format() }

func (r Range) String() string {
	return r.Start.Format() + " - " + r.End.Format()
}

// Match calls onSingle or onRange depending on the variant of d.
func Match[T any](d Date, onSingle func(Single) T, onRange func(Range) T) T {
	switch v := d.(type) {
	case Single:
		return onSingle(v)
	case Range:
		return onRange(v)
	default:
		panic(fmt.Sprintf("date: unknown variant %T", d))
	}
}

// Bounds returns the first and last day covered by d. For a Single both are the same day.
func Bounds(d Date) (start, end RawDate) {
	type pair struct{ start, end RawDate }
	p := Match(d,
		func(s Single) pair { return pair{s.RawDate, s.RawDate} },
		func(r Range) pair { return pair{r.Start, r.End} },
	)
	return p.start, p.end
}
