package html

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// regionPattern captures <style> bodies and quoted attribute values with
// their names. Attribute names are compared in Go since HTML ignores case.
const regionPattern = `[
	(style_element (raw_text) @style)
	(attribute
		(attribute_name) @name
		(quoted_attribute_value (attribute_value) @value))
]`

var language = sitter.NewLanguage(tree_sitter_html.Language())

// Parser finds CSS in HTML documents
type Parser struct {
	parser *sitter.Parser
	query  *sitter.Query
}

func newParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(language); err != nil {
		panic(fmt.Sprintf("failed to set HTML language: %v", err))
	}
	query, err := sitter.NewQuery(language, regionPattern)
	if err != nil {
		panic(fmt.Sprintf("failed to compile region query: %v", err))
	}
	return &Parser{parser: parser, query: query}
}

var pool = sync.Pool{New: func() any { return newParser() }}

// AcquireParser takes a parser from the pool
func AcquireParser() *Parser {
	p := pool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns p to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		pool.Put(p)
	}
}

// Close frees the tree-sitter resources held by p
func (p *Parser) Close() {
	p.query.Close()
	p.parser.Close()
}

// ClosePool closes the parsers currently idle in the pool
func ClosePool() {
	for range 100 {
		p, ok := pool.Get().(*Parser)
		if !ok || p == nil {
			return
		}
		p.Close()
	}
}

// ParseCSSRegions returns the <style> contents and style attribute values
// in source, ordered by position
func (p *Parser) ParseCSSRegions(source string) []CSSRegion {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := p.query.CaptureNames()
	var regions []CSSRegion

	matches := cursor.Matches(p.query, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var attr string
		var value *sitter.Node
		for _, capture := range match.Captures {
			node := capture.Node
			switch names[capture.Index] {
			case "style":
				regions = append(regions, region(source, &node, StyleTag))
			case "name":
				attr = source[node.StartByte():node.EndByte()]
			case "value":
				value = &node
			}
		}
		if value == nil || !strings.EqualFold(attr, "style") {
			continue
		}

		r := region(source, value, StyleAttribute)
		if quoted := value.Parent(); quoted != nil {
			r.Quote = source[quoted.StartByte()]
		}
		regions = append(regions, r)
	}

	slices.SortStableFunc(regions, func(a, b CSSRegion) int { return a.Start - b.Start })
	return regions
}

func region(source string, node *sitter.Node, typ RegionType) CSSRegion {
	start, end := int(node.StartByte()), int(node.EndByte())
	return CSSRegion{Content: source[start:end], Start: start, End: end, Type: typ}
}

// ParseCSSRegions finds CSS regions with a pooled parser
func ParseCSSRegions(source string) []CSSRegion {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.ParseCSSRegions(source)
}
