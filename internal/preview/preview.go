// Package preview renders a filter value as an SVG swatch: a sample drawn
// once as is and once through the SVG filter the value compiles to.
package preview

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"bennypowers.dev/filterfallback/internal/filter"
	"bennypowers.dev/filterfallback/internal/parser/css"
	svg "github.com/ajstarks/svgo"
)

// ErrNoPrimitives is returned for values that compile to no SVG primitives,
// such as "none"
var ErrNoPrimitives = errors.New("filter value has no SVG equivalent")

const (
	filterID = "preview"
	sampleID = "sample"
	cell     = 160
	gutter   = 20
	caption  = 30
)

// Primitives compiles value to the SVG filter primitives of its calls.
// Functions outside the supported set are an error.
func Primitives(value string) ([]string, error) {
	list, err := css.Tokenize(value)
	if err != nil {
		return nil, fmt.Errorf("tokenizing %q: %w", value, err)
	}

	var fragments []string
	for _, node := range list.Nodes {
		if node.Type != css.FunctionNode {
			continue
		}
		kind := filter.LookupKind(node.Value)
		if kind == filter.KindUnknown {
			return nil, fmt.Errorf("unsupported filter %q, want one of %s", list.Raw(node), supported())
		}
		res, err := filter.Convert(kind, filter.GroupArguments(node, list))
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, res.Vector...)
	}

	if len(fragments) == 0 {
		return nil, ErrNoPrimitives
	}
	return fragments, nil
}

func supported() string {
	names := make([]string, 0, len(filter.Kinds()))
	for _, k := range filter.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// Render writes the swatch for value to w
func Render(w io.Writer, value string) error {
	fragments, err := Primitives(value)
	if err != nil {
		return err
	}

	width := 2*cell + 3*gutter
	height := cell + 2*gutter + caption

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(value)

	canvas.Def()
	canvas.Filter(filterID, `color-interpolation-filters="sRGB"`)
	for _, fragment := range fragments {
		if _, err := io.WriteString(canvas.Writer, fragment+"\n"); err != nil {
			return fmt.Errorf("writing filter primitive: %w", err)
		}
	}
	canvas.Fend()

	canvas.Gid(sampleID)
	canvas.Rect(0, 0, cell, cell, "fill:#1e88e5")
	canvas.Circle(cell/2, cell/2, cell/3, "fill:#fdd835")
	canvas.Rect(cell/4, cell/4, cell/2, cell/6, "fill:#e53935")
	canvas.Gend()
	canvas.DefEnd()

	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Use(gutter, gutter, "#"+sampleID)
	canvas.Use(2*gutter+cell, gutter, "#"+sampleID, fmt.Sprintf(`filter="url(#%s)"`, filterID))

	label := "font-family:sans-serif;font-size:14px;text-anchor:middle"
	canvas.Text(gutter+cell/2, height-gutter, "original", label)
	canvas.Text(2*gutter+cell+cell/2, height-gutter, value, label)
	canvas.End()
	return nil
}
