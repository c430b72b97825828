package show

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mindriot101/whatson/internal/date"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDocument SortOrder = "document"
	SortByDate     SortOrder = "date"
	SortByName     SortOrder = "name"
)

// ParseSortOrder validates a user-supplied sort order
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByDocument, SortByDate, SortByName:
		return o, nil
	case "":
		return SortByDocument, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'document', 'date' or 'name')", s)
	}
}

// Sort orders shows in place. SortByDocument leaves the listing page order untouched.
// Sorting is stable, so ties keep their page order.
func Sort(shows []Show, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(shows, func(i, j int) bool {
			return compareByDate(shows[i], shows[j])
		})
	case SortByName:
		sort.SliceStable(shows, func(i, j int) bool {
			a, b := strings.ToLower(shows[i].Name), strings.ToLower(shows[j].Name)
			if a != b {
				return a < b
			}
			// If names are equal, sort by date
			return compareByDate(shows[i], shows[j])
		})
	}
}

// compareByDate orders by opening day, then by closing day
func compareByDate(i, j Show) bool {
	startI, endI := date.Bounds(i.Date)
	startJ, endJ := date.Bounds(j.Date)

	if startI != startJ {
		return startI.Before(startJ)
	}
	return endI.Before(endJ)
}
