package js

import (
	"fmt"
	"slices"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Tags are the template tags whose contents are CSS or HTML
var Tags = []string{"css", "html"}

// templatePattern matches tag`...` and the TypeScript generic form
// tag<T>`...`, which the grammar reads as (tag < T) > `...`.
const templatePattern = `[
	(call_expression
		function: (identifier) @tag
		arguments: (template_string) @template)
	(binary_expression
		left: (binary_expression left: (identifier) @tag)
		right: (template_string) @template)
]`

var language = sitter.NewLanguage(tree_sitter_javascript.Language())

// Parser finds tagged templates in JavaScript and TypeScript
type Parser struct {
	parser *sitter.Parser
	query  *sitter.Query
}

func newParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(language); err != nil {
		panic(fmt.Sprintf("failed to set JS language: %v", err))
	}
	query, err := sitter.NewQuery(language, templatePattern)
	if err != nil {
		panic(fmt.Sprintf("failed to compile template query: %v", err))
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

// ParseTemplates returns the css and html tagged templates in source,
// ordered by position
func (p *Parser) ParseTemplates(source string) []TemplateRegion {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := p.query.CaptureNames()
	var regions []TemplateRegion
	starts := map[uint]bool{}

	matches := cursor.Matches(p.query, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag string
		var template *sitter.Node
		for _, capture := range match.Captures {
			switch names[capture.Index] {
			case "tag":
				tag = source[capture.Node.StartByte():capture.Node.EndByte()]
			case "template":
				node := capture.Node
				template = &node
			}
		}
		if template == nil || !slices.Contains(Tags, tag) || starts[template.StartByte()] {
			continue
		}
		starts[template.StartByte()] = true
		regions = append(regions, split(tag, template, source))
	}

	slices.SortStableFunc(regions, func(a, b TemplateRegion) int {
		return a.Segments[0].Start - b.Segments[0].Start
	})
	return regions
}

// split cuts a template_string node at its substitutions. Escape sequences
// stay in the segments as written.
func split(tag string, template *sitter.Node, source string) TemplateRegion {
	region := TemplateRegion{Tag: tag}
	start := int(template.StartByte()) + 1
	for i := uint(0); i < template.ChildCount(); i++ {
		child := template.Child(i)
		if child.Kind() != "template_substitution" {
			continue
		}
		end := int(child.StartByte())
		region.Segments = append(region.Segments, Segment{Content: source[start:end], Start: start, End: end})
		region.Substitutions++
		start = int(child.EndByte())
	}
	end := max(int(template.EndByte())-1, start)
	region.Segments = append(region.Segments, Segment{Content: source[start:end], Start: start, End: end})
	return region
}

// ParseTemplates finds tagged templates with a pooled parser
func ParseTemplates(source string) []TemplateRegion {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.ParseTemplates(source)
}
