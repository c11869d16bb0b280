package browse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// docElement wraps a goquery selection as an Element handle. Both navigator
// implementations materialize the page as a goquery document and hand out
// docElements over it.
type docElement struct {
	sel *goquery.Selection
}

// NewElement wraps a goquery selection in an Element handle.
func NewElement(sel *goquery.Selection) Element {
	return &docElement{sel: sel}
}

// Elements expands a goquery selection into one Element per matched node,
// preserving document order.
func Elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &docElement{sel: s})
	})
	return out
}

func (e *docElement) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *docElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *docElement) Find(selector string) []Element {
	return Elements(e.sel.Find(selector))
}
