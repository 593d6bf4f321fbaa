package stylesheet_test

import (
	"strings"
	"testing"

	"bennypowers.dev/filterfallback/internal/stylesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheetWith builds a one-rule document for src, registering each declaration
// found by locating "prop: value" literally in src.
func sheetWith(t *testing.T, src string, decls ...[2]string) (*stylesheet.Stylesheet, *stylesheet.Rule, []*stylesheet.Declaration) {
	t.Helper()
	sheet := stylesheet.New(src)
	rule := sheet.NewRule(".a")
	var out []*stylesheet.Declaration
	searchFrom := 0
	for _, pv := range decls {
		text := pv[0] + ": " + pv[1]
		idx := strings.Index(src[searchFrom:], text)
		require.GreaterOrEqual(t, idx, 0, "declaration %q not in source", text)
		start := searchFrom + idx
		propEnd := start + len(pv[0])
		valueStart := propEnd + 2
		valueEnd := valueStart + len(pv[1])
		out = append(out, rule.AppendParsed(pv[0], ": ", pv[1], false, stylesheet.Span{
			Start:      start,
			End:        valueEnd + 1,
			PropStart:  start,
			PropEnd:    propEnd,
			ValueStart: valueStart,
			ValueEnd:   valueEnd,
		}))
		searchFrom = valueEnd
	}
	return sheet, rule, out
}

func TestStringUnchanged(t *testing.T) {
	src := ".a {\n  filter: blur(2px);\n}\n"
	sheet, _, _ := sheetWith(t, src, [2]string{"filter", "blur(2px)"})
	assert.Equal(t, src, sheet.String())
}

func TestInsertBefore(t *testing.T) {
	src := ".a {\n  color: red;\n  filter: blur(2px);\n}\n"
	sheet, rule, decls := sheetWith(t, src,
		[2]string{"color", "red"},
		[2]string{"filter", "blur(2px)"},
	)

	first := stylesheet.NewDeclaration("filter", "one")
	second := stylesheet.NewDeclaration("filter", "two")
	require.NoError(t, rule.InsertBefore(decls[1], first))
	require.NoError(t, rule.InsertBefore(decls[1], second))

	assert.Same(t, rule, first.Rule())
	assert.Equal(t, -1, first.Offset())

	got := rule.Declarations()
	require.Len(t, got, 4)
	assert.Same(t, decls[0], got[0])
	assert.Same(t, first, got[1])
	assert.Same(t, second, got[2])
	assert.Same(t, decls[1], got[3])

	expected := ".a {\n  color: red;\n  filter: one;\n  filter: two;\n  filter: blur(2px);\n}\n"
	assert.Equal(t, expected, sheet.String())
}

func TestInsertBeforeUnknownRef(t *testing.T) {
	sheet := stylesheet.New("")
	rule := sheet.NewRule("")
	err := rule.InsertBefore(stylesheet.NewDeclaration("a", "b"), stylesheet.NewDeclaration("c", "d"))
	assert.ErrorIs(t, err, stylesheet.ErrNotInRule)
}

func TestCloneBefore(t *testing.T) {
	src := ".a{filter: sepia(1)}"
	sheet, rule, decls := sheetWith(t, src, [2]string{"filter", "sepia(1)"})
	decls[0].Important = true

	clone, err := rule.CloneBefore(decls[0], "-webkit-filter", "sepia(1)")
	require.NoError(t, err)
	assert.True(t, clone.Important)
	assert.Equal(t, "-webkit-filter: sepia(1) !important", clone.String())

	// Parsed declarations keep their own source text; no leading space to reuse here
	assert.Equal(t, ".a{-webkit-filter: sepia(1) !important;filter: sepia(1)}", sheet.String())
}

func TestRewriteValueAndProp(t *testing.T) {
	src := ".a {\n  filter: grayscale(1) none;\n}"
	sheet, _, decls := sheetWith(t, src, [2]string{"filter", "grayscale(1) none"})

	decls[0].Value = "none"
	assert.Equal(t, ".a {\n  filter: none;\n}", sheet.String())

	decls[0].Prop = "-webkit-filter"
	assert.Equal(t, ".a {\n  -webkit-filter: none;\n}", sheet.String())
}

func TestRulesAndOffsets(t *testing.T) {
	src := ".a { filter: blur(1px); }"
	sheet, rule, decls := sheetWith(t, src, [2]string{"filter", "blur(1px)"})

	rules := sheet.Rules()
	require.Len(t, rules, 1)
	assert.Same(t, rule, rules[0])
	assert.Equal(t, ".a", rules[0].Selector)
	assert.Equal(t, src, sheet.Source())
	assert.Equal(t, 5, decls[0].Offset())
	assert.Equal(t, 13, decls[0].ValueOffset())
}
