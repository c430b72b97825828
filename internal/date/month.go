package date

import "strconv"

var months = [...]string{
	"January",
	"February",
	"March",
	"April",
	"May",
	"June",
	"July",
	"August",
	"September",
	"October",
	"November",
	"December",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(months))
	for i, name := range months {
		m[name] = i
	}
	return m
}()

// MonthFromName returns the zero-indexed month for a full English month name.
// The lookup is exact and case-sensitive: "October" matches, "october" and "Oct" do not.
func MonthFromName(name string) (int, error) {
	m, ok := monthIndex[name]
	if !ok {
		return 0, &ParseError{Kind: ErrUnrecognizedMonth, Text: name}
	}
	return m, nil
}

func monthName(m int) string {
	if m < 0 || m >= len(months) {
		return "Month(" + strconv.Itoa(m) + ")"
	}
	return months[m]
}
