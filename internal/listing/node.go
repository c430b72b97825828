package listing

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Node is the view of a document element the extractor needs.
type Node interface {
	// Tag returns the lowercase element name, e.g. "div".
	Tag() string
	HasClass(class string) bool
	// Text returns the combined text of the element and its descendants.
	Text() string
	// Children returns the element children in document order.
	Children() []Node
	// Attr returns the value of the named attribute and whether it is present.
	Attr(name string) (string, bool)
	// Find returns matching descendants in document order.
	Find(m Match) []Node
}

// Parse reads an HTML document and returns its root node.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return selectionNode{doc.Selection}, nil
}

// selectionNode adapts a single-element goquery selection to Node.
type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) Tag() string { return goquery.NodeName(n.sel) }

func (n selectionNode) HasClass(class string) bool { return n.sel.HasClass(class) }

func (n selectionNode) Text() string { return n.sel.Text() }

func (n selectionNode) Attr(name string) (string, bool) { return n.sel.Attr(name) }

func (n selectionNode) Children() []Node {
	return wrap(n.sel.Children())
}

// Find panics if m does not compile; Markup.Validate reports that as an error.
func (n selectionNode) Find(m Match) []Node {
	return wrap(n.sel.FindMatcher(cascadia.MustCompile(m.String())))
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{s})
	})
	return nodes
}

func (m Match) compile() (cascadia.Selector, error) {
	return cascadia.Compile(m.String())
}
