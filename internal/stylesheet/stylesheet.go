// Package stylesheet is a minimal mutable model of a parsed CSS document.
//
// Declarations parsed from source remember their byte spans, so String()
// reproduces the original text and only splices in what changed: new
// sibling declarations and rewritten property names or values.
package stylesheet

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotInRule indicates a reference declaration does not belong to the rule
var ErrNotInRule = errors.New("declaration is not a child of this rule")

// Span holds byte offsets of a parsed declaration in the stylesheet source
type Span struct {
	Start      int
	End        int
	PropStart  int
	PropEnd    int
	ValueStart int
	ValueEnd   int
}

// Declaration is a single property: value pair
type Declaration struct {
	Prop      string
	Value     string
	Important bool

	between string
	rule    *Rule
	span    *Span
	// original prop/value, used to detect rewrites of parsed declarations
	origProp  string
	origValue string
}

// NewDeclaration creates a declaration that is not yet part of a document
func NewDeclaration(prop, value string) *Declaration {
	return &Declaration{
		Prop:    prop,
		Value:   value,
		between: ": ",
	}
}

// Rule returns the rule that owns the declaration, or nil if it is detached
func (d *Declaration) Rule() *Rule {
	return d.rule
}

// Offset returns the byte offset of a parsed declaration in the source, or -1
func (d *Declaration) Offset() int {
	if d.span == nil {
		return -1
	}
	return d.span.Start
}

// ValueOffset returns the byte offset where a parsed declaration's value starts, or -1
func (d *Declaration) ValueOffset() int {
	if d.span == nil {
		return -1
	}
	return d.span.ValueStart
}

// String renders the declaration without a trailing semicolon
func (d *Declaration) String() string {
	var b strings.Builder
	b.WriteString(d.Prop)
	b.WriteString(d.between)
	b.WriteString(d.Value)
	if d.Important {
		b.WriteString(" !important")
	}
	return b.String()
}

// Rule is a block of declarations, such as the body of a rule set
type Rule struct {
	// Selector is the prelude text of the block, empty for top-level declarations
	Selector string

	sheet *Stylesheet
	nodes []*Declaration
}

// Declarations returns the rule's children in document order
func (r *Rule) Declarations() []*Declaration {
	out := make([]*Declaration, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// AppendParsed adds a declaration read from the source at the given span.
// between is the raw text between the property name and the value.
func (r *Rule) AppendParsed(prop, between, value string, important bool, span Span) *Declaration {
	d := &Declaration{
		Prop:      prop,
		Value:     value,
		Important: important,
		between:   between,
		rule:      r,
		span:      &span,
		origProp:  prop,
		origValue: value,
	}
	r.nodes = append(r.nodes, d)
	return d
}

// InsertBefore places decl immediately before ref
func (r *Rule) InsertBefore(ref, decl *Declaration) error {
	idx := r.indexOf(ref)
	if idx < 0 {
		return ErrNotInRule
	}
	decl.rule = r
	r.nodes = append(r.nodes, nil)
	copy(r.nodes[idx+1:], r.nodes[idx:])
	r.nodes[idx] = decl
	return nil
}

// CloneBefore copies ref with the given property and value and inserts the
// copy before ref. The copy keeps ref's separator and !important flag.
func (r *Rule) CloneBefore(ref *Declaration, prop, value string) (*Declaration, error) {
	clone := &Declaration{
		Prop:      prop,
		Value:     value,
		Important: ref.Important,
		between:   ref.between,
	}
	if err := r.InsertBefore(ref, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (r *Rule) indexOf(ref *Declaration) int {
	for i, node := range r.nodes {
		if node == ref {
			return i
		}
	}
	return -1
}

// Stylesheet is a parsed CSS document
type Stylesheet struct {
	source string
	rules  []*Rule
}

// New creates an empty stylesheet over source. Parsers populate it with
// NewRule and Rule.AppendParsed.
func New(source string) *Stylesheet {
	return &Stylesheet{source: source}
}

// Source returns the original text
func (s *Stylesheet) Source() string {
	return s.source
}

// NewRule appends an empty rule
func (s *Stylesheet) NewRule(selector string) *Rule {
	r := &Rule{Selector: selector, sheet: s}
	s.rules = append(s.rules, r)
	return r
}

// Rules returns all rules in document order
func (s *Stylesheet) Rules() []*Rule {
	out := make([]*Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

type edit struct {
	start int
	end   int
	text  string
}

// String serializes the document. Unchanged source is copied byte for byte.
// Inserted declarations are written before their parsed successor, each
// followed by that successor's leading whitespace.
func (s *Stylesheet) String() string {
	var edits []edit

	for _, rule := range s.rules {
		var pending []*Declaration
		for _, d := range rule.nodes {
			if d.span == nil {
				pending = append(pending, d)
				continue
			}

			if len(pending) > 0 {
				indent := s.leadingSpace(d.span.Start)
				var b strings.Builder
				for _, p := range pending {
					b.WriteString(p.String())
					b.WriteByte(';')
					b.WriteString(indent)
				}
				edits = append(edits, edit{start: d.span.Start, end: d.span.Start, text: b.String()})
				pending = pending[:0]
			}

			if d.Prop != d.origProp {
				edits = append(edits, edit{start: d.span.PropStart, end: d.span.PropEnd, text: d.Prop})
			}
			if d.Value != d.origValue {
				edits = append(edits, edit{start: d.span.ValueStart, end: d.span.ValueEnd, text: d.Value})
			}
		}
	}

	if len(edits) == 0 {
		return s.source
	}

	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].start < edits[j].start
	})

	var b strings.Builder
	b.Grow(len(s.source))
	pos := 0
	for _, e := range edits {
		b.WriteString(s.source[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(s.source[pos:])
	return b.String()
}

// leadingSpace returns the whitespace run that ends at offset
func (s *Stylesheet) leadingSpace(offset int) string {
	start := offset
	for start > 0 {
		switch s.source[start-1] {
		case ' ', '\t', '\n', '\r', '\f':
			start--
			continue
		}
		break
	}
	return s.source[start:offset]
}
