// Package sources applies filter fallbacks to whole files: plain
// stylesheets, <style> elements and style attributes in HTML, and css
// or html tagged templates in JavaScript and TypeScript.
package sources

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/parser/html"
	"bennypowers.dev/filterfallback/internal/parser/js"
	"bennypowers.dev/filterfallback/internal/position"
)

// Language is a file format that can carry CSS
type Language int

const (
	// Unsupported files are left alone
	Unsupported Language = iota
	CSS
	HTML
	JavaScript
)

func (l Language) String() string {
	switch l {
	case CSS:
		return "css"
	case HTML:
		return "html"
	case JavaScript:
		return "javascript"
	}
	return "unsupported"
}

// LanguageForPath picks a language by file extension
func LanguageForPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return CSS
	case ".html", ".htm":
		return HTML
	case ".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx":
		return JavaScript
	}
	return Unsupported
}

// LanguageForID maps an LSP language identifier
func LanguageForID(languageID string) Language {
	switch languageID {
	case "css":
		return CSS
	case "html":
		return HTML
	case "javascript", "javascriptreact", "typescript", "typescriptreact":
		return JavaScript
	}
	return Unsupported
}

// Warning is a fallback warning positioned in the whole file
type Warning struct {
	*fallback.Warning
	// Offset is the byte offset of the failed call in the file, or -1
	Offset int
}

// Result is the outcome of rewriting one file
type Result struct {
	Output   string
	Warnings []Warning
	// Changed reports whether Output differs from the input
	Changed bool
}

type edit struct {
	start int
	end   int
	text  string
}

// attrPrefix and attrSuffix wrap style attribute values so they parse as a
// rule body
const (
	attrPrefix = "x{"
	attrSuffix = "}"
)

// Rewrite applies opts to every CSS region of content
func Rewrite(lang Language, content string, opts fallback.Options) (*Result, error) {
	var (
		edits    []edit
		warnings []Warning
		err      error
	)

	switch lang {
	case CSS:
		edits, warnings, err = rewriteRegion(content, 0, opts)
	case HTML:
		edits, warnings, err = rewriteHTML(content, 0, opts)
	case JavaScript:
		edits, warnings, err = rewriteJS(content, opts)
	default:
		return &Result{Output: content}, nil
	}
	if err != nil {
		return nil, err
	}

	out := apply(content, edits)
	return &Result{
		Output:   out,
		Warnings: warnings,
		Changed:  out != content,
	}, nil
}

// process runs the processor over one stylesheet found at base in the file.
// trim is the length of a wrapper prefix that is not part of the file.
func process(css string, base, trim int, opts fallback.Options) (string, []Warning, error) {
	out, result, err := fallback.ProcessCSS(css, opts)
	if err != nil {
		return "", nil, err
	}

	var warnings []Warning
	for _, w := range result.Warnings {
		offset := -1
		if w.Offset >= 0 {
			offset = base + w.Offset - trim
		}
		warnings = append(warnings, Warning{Warning: w, Offset: offset})
	}
	return out, warnings, nil
}

// rewriteRegion processes a stylesheet occupying content[base:base+len(css)]
func rewriteRegion(css string, base int, opts fallback.Options) ([]edit, []Warning, error) {
	out, warnings, err := process(css, base, 0, opts)
	if err != nil || out == css {
		return nil, warnings, err
	}
	return []edit{{start: base, end: base + len(css), text: out}}, warnings, nil
}

func rewriteHTML(content string, base int, opts fallback.Options) ([]edit, []Warning, error) {
	var edits []edit
	var warnings []Warning

	for _, region := range html.ParseCSSRegions(content) {
		start := base + region.Start
		log.Debug("Processing %s at %d", region.Type, start)

		switch region.Type {
		case html.StyleTag:
			e, w, err := rewriteRegion(region.Content, start, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("%s at %d: %w", region.Type, start, err)
			}
			edits = append(edits, e...)
			warnings = append(warnings, w...)

		case html.StyleAttribute:
			e, w, err := rewriteAttribute(region, start, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("%s at %d: %w", region.Type, start, err)
			}
			edits = append(edits, e...)
			warnings = append(warnings, w...)
		}
	}
	return edits, warnings, nil
}

// rewriteAttribute processes a style attribute value. Its SVG document is
// always percent-encoded so it cannot close the attribute, and attributes
// quoted with ' get no SVG declaration since url('...') would close them.
func rewriteAttribute(region html.CSSRegion, start int, opts fallback.Options) ([]edit, []Warning, error) {
	opts.EncodeDataURI = true
	if region.Quote == '\'' {
		opts.VectorOutput = false
	}

	wrapped := attrPrefix + region.Content + attrSuffix
	out, w, err := process(wrapped, start, len(attrPrefix), opts)
	if err != nil || out == wrapped {
		return nil, w, err
	}

	text := strings.TrimSuffix(strings.TrimPrefix(out, attrPrefix), attrSuffix)
	return []edit{{start: start, end: start + len(region.Content), text: text}}, w, nil
}

func rewriteJS(content string, opts fallback.Options) ([]edit, []Warning, error) {
	var edits []edit
	var warnings []Warning

	for _, tmpl := range js.ParseTemplates(content) {
		switch tmpl.Tag {
		case "css":
			if tmpl.Interpolated() {
				log.Debug("Skipping css template at %d: it contains substitutions", tmpl.Segments[0].Start)
				continue
			}
			seg := tmpl.Segments[0]
			e, w, err := rewriteRegion(seg.Content, seg.Start, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("css template at %s: %w", position.FromOffset(content, seg.Start), err)
			}
			edits = append(edits, e...)
			warnings = append(warnings, w...)

		case "html":
			for _, seg := range tmpl.Segments {
				e, w, err := rewriteHTML(seg.Content, seg.Start, opts)
				if err != nil {
					return nil, nil, fmt.Errorf("html template at %s: %w", position.FromOffset(content, seg.Start), err)
				}
				edits = append(edits, e...)
				warnings = append(warnings, w...)
			}
		}
	}
	return edits, warnings, nil
}

// apply splices non-overlapping edits into content
func apply(content string, edits []edit) string {
	if len(edits) == 0 {
		return content
	}
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].start < edits[j].start
	})

	var b strings.Builder
	pos := 0
	for _, e := range edits {
		if e.start < pos {
			continue
		}
		b.WriteString(content[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(content[pos:])
	return b.String()
}
