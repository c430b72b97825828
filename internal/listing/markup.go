package listing

import (
	"fmt"
	"sort"
	"strings"
)

// Match identifies elements by tag and, optionally, class.
type Match struct {
	Tag   string
	Class string
}

// String renders the match as a CSS selector, e.g. "div.list-productions".
func (m Match) String() string {
	tag := m.Tag
	if tag == "" {
		tag = "*"
	}
	if m.Class == "" {
		return tag
	}
	return tag + "." + m.Class
}

// Matches reports whether n satisfies m.
func (m Match) Matches(n Node) bool {
	if m.Tag != "" && n.Tag() != m.Tag {
		return false
	}
	return m.Class == "" || n.HasClass(m.Class)
}

// ParseMatch parses "tag", "tag.class" or ".class".
func ParseMatch(s string) (Match, error) {
	s = strings.TrimSpace(s)
	tag, class, _ := strings.Cut(s, ".")
	m := Match{Tag: strings.ToLower(tag), Class: class}
	if m.Tag == "" && m.Class == "" {
		return Match{}, fmt.Errorf("empty element match %q", s)
	}
	if strings.ContainsAny(s, " >+~[]:#,") || strings.Contains(class, ".") {
		return Match{}, fmt.Errorf("element match %q must be tag, tag.class or .class", s)
	}
	if _, err := m.compile(); err != nil {
		return Match{}, fmt.Errorf("element match %q: %w", s, err)
	}
	return m, nil
}

// Markup names the elements that make up a listing page.
type Markup struct {
	// Container holds the headings and listing items as direct children.
	Container Match
	// Heading carries the season year as its second word.
	Heading Match
	Item    Match
	// Details is the part of an item holding Title and Date.
	Details Match
	Title   Match
	Date    Match
	// Link and Image are optional; an item without them has no link or image URL.
	Link  Match
	Image Match
}

// DefaultMarkup returns the markup used by the Belgrade-style listing pages.
func DefaultMarkup() Markup {
	return Markup{
		Container: Match{Tag: "div", Class: "list-productions"},
		Heading:   Match{Tag: "h2"},
		Item:      Match{Tag: "div", Class: "production-list-item"},
		Details:   Match{Tag: "div", Class: "details"},
		Title:     Match{Tag: "h3"},
		Date:      Match{Tag: "p", Class: "date"},
		Link:      Match{Tag: "a", Class: "production-link"},
		Image:     Match{Tag: "img"},
	}
}

type markupPart struct {
	name  string
	match *Match
}

func (m *Markup) parts() []markupPart {
	return []markupPart{
		{"container", &m.Container},
		{"heading", &m.Heading},
		{"item", &m.Item},
		{"details", &m.Details},
		{"title", &m.Title},
		{"date", &m.Date},
		{"link", &m.Link},
		{"image", &m.Image},
	}
}

// Validate reports the first part of m that does not compile to a selector.
func (m Markup) Validate() error {
	for _, p := range m.parts() {
		if _, err := p.match.compile(); err != nil {
			return fmt.Errorf("markup %s %q: %w", p.name, p.match.String(), err)
		}
	}
	return nil
}

// WithOverrides returns a copy of m with the named parts replaced. Keys are
// container, heading, item, details, title, date, link and image.
func (m Markup) WithOverrides(overrides map[string]string) (Markup, error) {
	parts := make(map[string]*Match)
	for _, p := range m.parts() {
		parts[p.name] = p.match
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		dst, ok := parts[k]
		if !ok {
			return Markup{}, fmt.Errorf("unknown markup element %q", k)
		}
		match, err := ParseMatch(overrides[k])
		if err != nil {
			return Markup{}, fmt.Errorf("markup %s: %w", k, err)
		}
		*dst = match
	}
	return m, nil
}
