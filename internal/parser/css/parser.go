package css

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/filterfallback/internal/stylesheet"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// ErrParseFailed indicates tree-sitter returned no tree
var ErrParseFailed = errors.New("failed to parse CSS")

// Tokenize wraps a bare value in this so tree-sitter sees a declaration
const (
	valuePrefix = "a{x:"
	valueSuffix = ";}"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses a stylesheet with a pooled parser
func Parse(source string) (*stylesheet.Stylesheet, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.ParseStylesheet(source)
}

// Tokenize tokenizes a declaration value with a pooled parser
func Tokenize(value string) (*ValueList, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Tokenize(value)
}

// ParseStylesheet builds the document model for source. Every block becomes a
// rule holding its own declarations; declarations outside any block share
// one rule with an empty selector.
func (p *Parser) ParseStylesheet(source string) (*stylesheet.Stylesheet, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, ErrParseFailed
	}
	defer tree.Close()

	sheet := stylesheet.New(source)
	w := &sheetWalker{src: src, sheet: sheet}
	w.walk(tree.RootNode())
	return sheet, nil
}

type sheetWalker struct {
	src      []byte
	sheet    *stylesheet.Stylesheet
	topLevel *stylesheet.Rule
}

func (w *sheetWalker) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "block":
		rule := w.sheet.NewRule(w.selectorFor(node))
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "declaration" {
				w.addDeclaration(rule, child)
				continue
			}
			w.walk(child)
		}
		return

	case "declaration":
		if w.topLevel == nil {
			w.topLevel = w.sheet.NewRule("")
		}
		w.addDeclaration(w.topLevel, node)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i))
	}
}

// selectorFor returns the prelude of a block: ".a, .b" for a rule set,
// "@media print" for an at-rule
func (w *sheetWalker) selectorFor(block *sitter.Node) string {
	parent := block.Parent()
	if parent == nil {
		return ""
	}
	return strings.TrimSpace(string(w.src[parent.StartByte():block.StartByte()]))
}

func (w *sheetWalker) addDeclaration(rule *stylesheet.Rule, node *sitter.Node) {
	var propNode *sitter.Node
	var values []*sitter.Node
	important := false
	seenColon := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			propNode = child
		case ":":
			seenColon = true
		case ";", "comment":
		case "important":
			important = true
		default:
			if seenColon {
				values = append(values, child)
			}
		}
	}

	if propNode == nil || len(values) == 0 {
		return
	}

	propStart, propEnd := int(propNode.StartByte()), int(propNode.EndByte())
	valueStart := int(values[0].StartByte())
	valueEnd := int(values[len(values)-1].EndByte())

	rule.AppendParsed(
		string(w.src[propStart:propEnd]),
		string(w.src[propEnd:valueStart]),
		string(w.src[valueStart:valueEnd]),
		important,
		stylesheet.Span{
			Start:      int(node.StartByte()),
			End:        int(node.EndByte()),
			PropStart:  propStart,
			PropEnd:    propEnd,
			ValueStart: valueStart,
			ValueEnd:   valueEnd,
		},
	)
}

// Tokenize splits a declaration value into words, functions, dividers and
// spaces with byte offsets into value.
func (p *Parser) Tokenize(value string) (*ValueList, error) {
	src := []byte(valuePrefix + value + valueSuffix)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, ErrParseFailed
	}
	defer tree.Close()

	list := &ValueList{Source: value}
	if strings.TrimSpace(value) == "" {
		return list, nil
	}

	base := len(valuePrefix)
	decl := findFirst(tree.RootNode(), "declaration")
	if decl == nil {
		// Unparseable values stay opaque
		list.Nodes = []Node{{Type: WordNode, Value: value, Start: 0, End: len(value)}}
		return list, nil
	}

	var items []*sitter.Node
	seenColon := false
	for i := uint(0); i < decl.ChildCount(); i++ {
		child := decl.Child(i)
		switch child.Kind() {
		case ":":
			seenColon = true
		case "property_name", ";", "comment":
		default:
			if seenColon {
				items = append(items, child)
			}
		}
	}

	t := &tokenizer{src: src, base: base, limit: base + len(value)}
	list.Nodes = t.build(items, base, base+len(value))
	return list, nil
}

type tokenizer struct {
	src   []byte
	base  int
	limit int
}

// span returns an item's byte range clamped to the wrapped value
func (t *tokenizer) span(item *sitter.Node) (int, int) {
	return min(int(item.StartByte()), t.limit), min(int(item.EndByte()), t.limit)
}

// build converts sibling syntax nodes to tokens, emitting a space token for
// every gap between them inside [from, to)
func (t *tokenizer) build(items []*sitter.Node, from, to int) []Node {
	var nodes []Node
	pos := from
	for _, item := range items {
		start, end := t.span(item)
		if start > pos {
			nodes = append(nodes, t.space(pos, start))
		}
		nodes = append(nodes, t.convert(item))
		pos = end
	}
	if to > pos {
		nodes = append(nodes, t.space(pos, to))
	}
	return nodes
}

func (t *tokenizer) space(start, end int) Node {
	return Node{
		Type:  SpaceNode,
		Value: string(t.src[start:end]),
		Start: start - t.base,
		End:   end - t.base,
	}
}

func (t *tokenizer) convert(item *sitter.Node) Node {
	start, end := t.span(item)
	node := Node{
		Type:  WordNode,
		Value: string(t.src[start:end]),
		Start: start - t.base,
		End:   end - t.base,
	}

	switch item.Kind() {
	case ",", ";":
		node.Type = DividerNode
	case "call_expression":
		var name, args *sitter.Node
		for i := uint(0); i < item.ChildCount(); i++ {
			child := item.Child(i)
			switch child.Kind() {
			case "function_name":
				name = child
			case "arguments":
				args = child
			}
		}
		if name == nil || args == nil {
			return node
		}

		node.Type = FunctionNode
		node.Value = strings.ToLower(string(t.src[name.StartByte():name.EndByte()]))

		open, closeAt := t.span(args)
		var inner []*sitter.Node
		for i := uint(0); i < args.ChildCount(); i++ {
			child := args.Child(i)
			switch child.Kind() {
			case "(":
				open = min(int(child.EndByte()), t.limit)
			case ")":
				closeAt = min(int(child.StartByte()), t.limit)
			case "comment":
			default:
				inner = append(inner, child)
			}
		}
		node.Nodes = t.build(inner, open, closeAt)
	}

	return node
}

func findFirst(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findFirst(node.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}
