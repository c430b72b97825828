package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mindriot101/whatson/internal/date"
	"github.com/mindriot101/whatson/internal/show"
)

var (
	// ErrNoYear is returned when a listing item appears before any year heading.
	ErrNoYear = errors.New("listing item before any year heading")
	// ErrBadYearHeading is returned when a heading's second word is not a year.
	ErrBadYearHeading = errors.New("malformed year heading")
	ErrMissingDetails = errors.New("listing item has no details")
	ErrMissingTitle   = errors.New("listing item has no title")
	ErrMissingDate    = errors.New("listing item has no date")
)

// StructureError reports a listing page that does not follow the expected markup.
// Position is the index of the offending child within the production list.
type StructureError struct {
	Kind     error
	Position int
	Text     string
	Err      error
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("%v at position %d", e.Kind, e.Position)
	if e.Text != "" {
		msg += fmt.Sprintf(" (%q)", e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructureError) Is(target error) bool { return target == e.Kind }

func (e *StructureError) Unwrap() error { return e.Err }

// Extract returns the shows on a listing page using the default markup.
func Extract(root Node) ([]show.Show, error) {
	return ExtractWith(root, DefaultMarkup())
}

// ExtractWith returns the shows on a listing page in document order.
//
// A page without a production list has no shows and is not an error. The first
// structural problem or unparseable date fails the whole page. Link and image
// URLs are returned as written in the page.
func ExtractWith(root Node, m Markup) ([]show.Show, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	containers := root.Find(m.Container)
	if len(containers) == 0 {
		return []show.Show{}, nil
	}

	acc := extractor{markup: m, shows: []show.Show{}}
	for i, child := range containers[0].Children() {
		var err error
		if acc, err = acc.step(i, child); err != nil {
			return nil, err
		}
	}
	return acc.shows, nil
}

// extractor is the state carried from one production list child to the next.
type extractor struct {
	markup   Markup
	year     uint
	haveYear bool
	shows    []show.Show
}

func (e extractor) step(pos int, n Node) (extractor, error) {
	switch {
	case e.markup.Heading.Matches(n):
		year, err := headingYear(n.Text())
		if err != nil {
			return e, &StructureError{Kind: ErrBadYearHeading, Position: pos, Text: strings.TrimSpace(n.Text()), Err: err}
		}
		e.year, e.haveYear = year, true
	case e.markup.Item.Matches(n):
		s, err := e.item(pos, n)
		if err != nil {
			return e, err
		}
		e.shows = append(e.shows, s)
	}
	return e, nil
}

func (e extractor) item(pos int, n Node) (show.Show, error) {
	details := first(n, e.markup.Details)
	if details == nil {
		return show.Show{}, &StructureError{Kind: ErrMissingDetails, Position: pos}
	}
	title := first(details, e.markup.Title)
	if title == nil {
		return show.Show{}, &StructureError{Kind: ErrMissingTitle, Position: pos}
	}
	name := strings.TrimSpace(title.Text())
	dateNode := first(details, e.markup.Date)
	if dateNode == nil {
		return show.Show{}, &StructureError{Kind: ErrMissingDate, Position: pos, Text: name}
	}
	if !e.haveYear {
		return show.Show{}, &StructureError{Kind: ErrNoYear, Position: pos, Text: name}
	}

	d, err := date.Parse(dateNode.Text(), e.year)
	if err != nil {
		return show.Show{}, fmt.Errorf("show %q: %w", name, err)
	}
	s := show.New("", name, d)
	s.LinkURL, s.ImageURL = e.links(n)
	return s, nil
}

// links returns the href of the item's link and the src of its image, if any.
func (e extractor) links(n Node) (link, image string) {
	if a := first(n, e.markup.Link); a != nil {
		link, _ = a.Attr("href")
		link = strings.TrimSpace(link)
	}
	if img := first(n, e.markup.Image); img != nil {
		image, _ = img.Attr("src")
		image = strings.TrimSpace(image)
	}
	return link, image
}

// headingYear reads the year from heading text such as "Season 2024".
func headingYear(text string) (uint, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, fmt.Errorf("expected at least 2 words, found %d", len(fields))
	}
	year, err := strconv.ParseUint(fields[1], 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(year), nil
}

func first(n Node, m Match) Node {
	if found := n.Find(m); len(found) > 0 {
		return found[0]
	}
	return nil
}
