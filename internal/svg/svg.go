// Package svg assembles SVG filter primitives into an inline filter document.
package svg

import (
	"net/url"
	"strings"
)

const (
	// Namespace is the SVG XML namespace
	Namespace = "http://www.w3.org/2000/svg"
	// FilterID is the id of the single filter element in a Document
	FilterID = "filter"
)

// Attr is one attribute of a primitive. Attributes keep their given order.
type Attr struct {
	Name  string
	Value string
}

// A builds an Attr
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Element renders a self-closing primitive: <tag a="b" />
func Element(tag string, attrs ...Attr) string {
	var b strings.Builder
	openTag(&b, tag, attrs)
	b.WriteString(" />")
	return b.String()
}

// Container renders a primitive wrapping child primitives: <tag a="b">...</tag>
func Container(tag string, attrs []Attr, children ...string) string {
	var b strings.Builder
	openTag(&b, tag, attrs)
	b.WriteByte('>')
	for _, child := range children {
		b.WriteString(child)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}

func openTag(b *strings.Builder, tag string, attrs []Attr) {
	b.WriteByte('<')
	b.WriteString(tag)
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}
}

// Document wraps primitives in one <filter id="filter"> inside a minimal
// <svg> document. Fragments are concatenated as given.
func Document(fragments []string) string {
	var b strings.Builder
	b.WriteString(`<svg xmlns="`)
	b.WriteString(Namespace)
	b.WriteString(`"><filter id="`)
	b.WriteString(FilterID)
	b.WriteString(`">`)
	for _, fragment := range fragments {
		b.WriteString(fragment)
	}
	b.WriteString("</filter></svg>")
	return b.String()
}

// DataURI returns a CSS url() referencing the filter inside doc. When encode
// is set the document is percent-encoded, otherwise it is embedded verbatim.
func DataURI(doc string, encode bool) string {
	if encode {
		doc = url.PathEscape(doc)
	}
	return "url('data:image/svg+xml;charset=utf-8," + doc + "#" + FilterID + "')"
}
