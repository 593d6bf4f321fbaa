// Package diagnostic reports filter calls that cannot be converted.
package diagnostic

import (
	"bennypowers.dev/filterfallback/internal/documents"
	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/internal/position"
	"bennypowers.dev/filterfallback/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Options are the processor options used for analysis. Strict failure is
// reported like warn so that every failed call gets a diagnostic.
func Options(ctx types.ServerContext) fallback.Options {
	opts := ctx.GetConfig().Options()
	if opts.Strict == fallback.StrictFail {
		opts.Strict = fallback.StrictWarn
	}
	return opts
}

// Analyze rewrites doc with the server's analysis options
func Analyze(ctx types.ServerContext, doc *documents.Document) (*documents.Analysis, error) {
	return doc.Analyze(Options(ctx))
}

// GetDiagnostics returns one warning per failed filter call in the document.
// Unknown documents have none.
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil {
		return nil, nil
	}

	analysis, err := Analyze(ctx, doc)
	if err != nil {
		return nil, err
	}

	content := doc.Content()
	diagnostics := make([]protocol.Diagnostic, 0, len(analysis.Warnings))
	for _, w := range analysis.Warnings {
		diagnostics = append(diagnostics, FromWarning(content, w.Offset, w.Warning))
	}
	return diagnostics, nil
}

// FromWarning builds the diagnostic for a warning at a byte offset of
// content. Warnings without an offset are placed at the document start.
func FromWarning(content string, offset int, w *fallback.Warning) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityWarning
	source := types.ServerName

	var start, end position.Position
	if offset >= 0 {
		start = position.FromOffset(content, offset)
		end = position.FromOffset(content, offset+len(w.Filter))
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: start.Line, Character: start.Character},
			End:   protocol.Position{Line: end.Line, Character: end.Character},
		},
		Severity: &severity,
		Source:   &source,
		Message:  w.Error(),
	}
}
