package show

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/mindriot101/whatson/internal/date"
)

// Show is a production title paired with its performance dates
type Show struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Theatre string    `json:"theatre,omitempty"`
	Date    date.Date `json:"date"`
	// LinkURL and ImageURL point at the show's page and poster, when the listing has them.
	LinkURL  string `json:"link_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// GenerateID creates a deterministic ID from the fields that identify a run of a production
func GenerateID(theatre, name string, d date.Date) string {
	start, end := date.Bounds(d)
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(theatre)),
		strings.ToLower(strings.TrimSpace(name)),
		start.Format(), end.Format())
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Show with its ID populated
func New(theatre, name string, d date.Date) Show {
	return Show{
		ID:      GenerateID(theatre, name, d),
		Name:    name,
		Theatre: theatre,
		Date:    d,
	}
}

// WithTheatre returns a copy of s attributed to theatre, with the ID regenerated
func (s Show) WithTheatre(theatre string) Show {
	s.Theatre = theatre
	s.ID = GenerateID(theatre, s.Name, s.Date)
	return s
}
