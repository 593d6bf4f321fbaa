// Package fallback rewrites filter declarations of a stylesheet, adding
// vendor-prefixed, SVG and legacy fallbacks before each one.
package fallback

import (
	"fmt"
	"strings"

	"bennypowers.dev/filterfallback/internal/collections"
	"bennypowers.dev/filterfallback/internal/filter"
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/parser/css"
	"bennypowers.dev/filterfallback/internal/stylesheet"
	"bennypowers.dev/filterfallback/internal/svg"
)

const (
	filterProp       = "filter"
	webkitFilterProp = "-webkit-filter"
)

// WarningMessage is the text reported for a filter call that failed to convert
const WarningMessage = "Unexpected filter"

// Warning is a filter call that could not be converted
type Warning struct {
	Declaration *stylesheet.Declaration
	// Filter is the source text of the failed call, e.g. "blur(5)"
	Filter string
	// Offset is the byte offset of the call in the stylesheet source, or -1
	Offset int
	Err    error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("%s %q: %v", WarningMessage, w.Filter, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// State is what happened to a filter declaration
type State int

const (
	// StateSkipped means the declaration was not converted because its rule
	// already holds several filter declarations
	StateSkipped State = iota
	// StateUnchanged means nothing in the value could be converted
	StateUnchanged
	// StateRewritten means fallbacks were added or the value became none.
	// A call that converts to nothing, such as a drop-shadow with a spread,
	// leaves the declaration unchanged.
	StateRewritten
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateUnchanged:
		return "unchanged"
	case StateRewritten:
		return "rewritten"
	}
	return "unknown"
}

// Outcome records the final state of one filter declaration
type Outcome struct {
	Declaration *stylesheet.Declaration
	State       State
	// Added holds the declarations inserted before Declaration
	Added []*stylesheet.Declaration
}

// Result summarizes one pass over a stylesheet
type Result struct {
	Warnings []*Warning
	Outcomes []Outcome
}

// Changed reports whether any declaration was rewritten
func (r *Result) Changed() bool {
	for _, o := range r.Outcomes {
		if o.State == StateRewritten {
			return true
		}
	}
	return false
}

// Processor applies Options to stylesheets
type Processor struct {
	opts Options
}

// New creates a Processor
func New(opts Options) *Processor {
	return &Processor{opts: opts}
}

// Options returns the processor's configuration
func (p *Processor) Options() Options {
	return p.opts
}

// pass carries the state of one walk over a stylesheet
type pass struct {
	opts    Options
	visited collections.Set[*stylesheet.Declaration]
	result  *Result
}

// Process rewrites every filter declaration in sheet in place. With
// StrictFail the first failed call stops the walk and is returned as a
// *Warning; declarations rewritten before it keep their changes.
func (p *Processor) Process(sheet *stylesheet.Stylesheet) (*Result, error) {
	ps := &pass{
		opts:    p.opts,
		visited: collections.NewSet[*stylesheet.Declaration](),
		result:  &Result{},
	}

	for _, rule := range sheet.Rules() {
		for _, decl := range rule.Declarations() {
			if err := ps.declaration(decl); err != nil {
				return ps.result, err
			}
		}
	}
	return ps.result, nil
}

// ProcessCSS parses source, processes it and returns the serialized result
func ProcessCSS(source string, opts Options) (string, *Result, error) {
	sheet, err := css.Parse(source)
	if err != nil {
		return "", nil, fmt.Errorf("parsing stylesheet: %w", err)
	}
	result, err := New(opts).Process(sheet)
	if err != nil {
		return "", result, err
	}
	if !result.Changed() {
		return sheet.Source(), result, nil
	}
	return sheet.String(), result, nil
}

// properties accumulates converter output for one declaration in call order
type properties struct {
	modern []string
	vector []string
	legacy []string
}

func (a *properties) add(r filter.Result) {
	a.modern = append(a.modern, r.Modern...)
	a.vector = append(a.vector, r.Vector...)
	a.legacy = append(a.legacy, r.Legacy...)
}

func isFilterProp(prop string) bool {
	return strings.EqualFold(prop, filterProp) || strings.EqualFold(prop, webkitFilterProp)
}

// duplicated reports whether the rule holds more than one filter declaration
func duplicated(rule *stylesheet.Rule) bool {
	count := 0
	for _, d := range rule.Declarations() {
		if isFilterProp(d.Prop) {
			count++
		}
	}
	return count > 1
}

func (ps *pass) declaration(decl *stylesheet.Declaration) error {
	if ps.visited.Has(decl) || !strings.EqualFold(decl.Prop, filterProp) {
		return nil
	}
	ps.visited.Add(decl)

	rule := decl.Rule()
	if ps.opts.SkipIfDuplicated && rule != nil && duplicated(rule) {
		ps.record(decl, StateSkipped, nil)
		return nil
	}

	list, err := css.Tokenize(decl.Value)
	if err != nil {
		return fmt.Errorf("tokenizing %q: %w", decl.Value, err)
	}

	var props properties
	none := false
	changed := false

	for _, node := range list.Nodes {
		switch node.Type {
		case css.WordNode:
			if strings.EqualFold(node.Value, "none") {
				none = true
			}

		case css.FunctionNode:
			kind := filter.LookupKind(node.Value)
			if kind == filter.KindUnknown {
				props.modern = append(props.modern, list.Raw(node))
				continue
			}

			res, err := filter.Convert(kind, filter.GroupArguments(node, list))
			if err != nil {
				if werr := ps.fail(decl, list, node, err); werr != nil {
					return werr
				}
				continue
			}
			if res.Empty() {
				log.Debug("%s has no fallback", list.Raw(node))
				continue
			}
			props.add(res)
			changed = true
		}
	}

	switch {
	case none:
		decl.Value = "none"
		ps.record(decl, StateRewritten, nil)
	case changed:
		added, err := ps.emit(decl, props)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			ps.record(decl, StateUnchanged, nil)
			break
		}
		ps.record(decl, StateRewritten, added)
	default:
		ps.record(decl, StateUnchanged, nil)
	}
	return nil
}

// fail applies the strict mode to a failed call. It returns a non-nil error
// only when processing must stop.
func (ps *pass) fail(decl *stylesheet.Declaration, list *css.ValueList, node css.Node, err error) error {
	offset := -1
	if decl.ValueOffset() >= 0 {
		offset = decl.ValueOffset() + node.Start
	}
	w := &Warning{
		Declaration: decl,
		Filter:      list.Raw(node),
		Offset:      offset,
		Err:         err,
	}

	switch ps.opts.Strict {
	case StrictFail:
		return w
	case StrictIgnore:
		log.Debug("Ignoring %v", w)
	default:
		ps.result.Warnings = append(ps.result.Warnings, w)
	}
	return nil
}

// emit inserts the enabled fallbacks before decl: legacy, then SVG, then the
// prefixed clone
func (ps *pass) emit(decl *stylesheet.Declaration, props properties) ([]*stylesheet.Declaration, error) {
	rule := decl.Rule()
	if rule == nil {
		return nil, fmt.Errorf("declaration %q has no rule", decl.String())
	}

	var added []*stylesheet.Declaration
	insert := func(value string) error {
		sibling := stylesheet.NewDeclaration(filterProp, value)
		if err := rule.InsertBefore(decl, sibling); err != nil {
			return err
		}
		ps.visited.Add(sibling)
		added = append(added, sibling)
		return nil
	}

	if ps.opts.LegacyOutput && len(props.legacy) > 0 {
		if err := insert(strings.Join(props.legacy, " ")); err != nil {
			return added, err
		}
	}

	if ps.opts.VectorOutput && len(props.vector) > 0 {
		doc := svg.Document(props.vector)
		if err := insert(svg.DataURI(doc, ps.opts.EncodeDataURI)); err != nil {
			return added, err
		}
	}

	if ps.opts.VendorPrefix && len(props.modern) > 0 {
		clone, err := rule.CloneBefore(decl, webkitFilterProp, strings.Join(props.modern, " "))
		if err != nil {
			return added, err
		}
		ps.visited.Add(clone)
		added = append(added, clone)
	}

	return added, nil
}

func (ps *pass) record(decl *stylesheet.Declaration, state State, added []*stylesheet.Declaration) {
	log.Debug("filter at %d: %s -> %s", decl.Offset(), decl.Value, state)
	ps.result.Outcomes = append(ps.result.Outcomes, Outcome{
		Declaration: decl,
		State:       state,
		Added:       added,
	})
}
