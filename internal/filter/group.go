package filter

import "bennypowers.dev/filterfallback/internal/parser/css"

// ArgumentGroup is the raw text of every token in one comma-separated
// argument slot
type ArgumentGroup []string

// GroupArguments splits a function call's children at dividers, dropping
// whitespace. A call without children has no groups.
func GroupArguments(fn css.Node, list *css.ValueList) []ArgumentGroup {
	if len(fn.Nodes) == 0 {
		return nil
	}

	var groups []ArgumentGroup
	current := ArgumentGroup{}
	for _, child := range fn.Nodes {
		switch child.Type {
		case css.DividerNode:
			groups = append(groups, current)
			current = ArgumentGroup{}
		case css.SpaceNode:
		default:
			current = append(current, list.Raw(child))
		}
	}
	return append(groups, current)
}
