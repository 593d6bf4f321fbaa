// Package codeaction offers the whole-document rewrite as a code action.
package codeaction

import (
	"strings"

	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/position"
	"bennypowers.dev/filterfallback/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// KindFixAll is the kind of the rewrite action. Clients can run it on save
// through "source.fixAll".
const KindFixAll protocol.CodeActionKind = "source.fixAll.filterFallback"

// Title is shown in the client's action menu
const Title = "Add filter fallbacks"

// Kinds lists the action kinds advertised in the server capabilities
var Kinds = []protocol.CodeActionKind{KindFixAll}

// CodeAction returns the rewrite action when the document would change
func CodeAction(ctx types.ServerContext, context *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI
	doc := ctx.Document(uri)
	if doc == nil {
		return nil, nil
	}

	if !requested(params.Context.Only, KindFixAll) {
		return nil, nil
	}

	analysis, err := diagnostic.Analyze(ctx, doc)
	if err != nil {
		return nil, err
	}
	if !analysis.Changed {
		return nil, nil
	}
	if ctx.GetConfig().Strict == fallback.StrictFail && len(analysis.Warnings) > 0 {
		log.Debug("Withholding fix for %s: %d filter calls failed in strict mode", uri, len(analysis.Warnings))
		return nil, nil
	}

	kind := KindFixAll
	action := protocol.CodeAction{
		Title: Title,
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {{
					Range:   wholeDocument(doc.Content()),
					NewText: analysis.Output,
				}},
			},
		},
	}

	// Attach our own diagnostics from the request so clients can relate them
	for _, diag := range params.Context.Diagnostics {
		if diag.Source != nil && *diag.Source == types.ServerName {
			action.Diagnostics = append(action.Diagnostics, diag)
		}
	}

	return []protocol.CodeAction{action}, nil
}

// requested reports whether kind passes the client's only filter. Kinds are
// hierarchical: "source" requests "source.fixAll.filterFallback".
func requested(only []protocol.CodeActionKind, kind protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if o == kind || strings.HasPrefix(string(kind), string(o)+".") {
			return true
		}
	}
	return false
}

func wholeDocument(content string) protocol.Range {
	end := position.FromOffset(content, len(content))
	return protocol.Range{
		Start: protocol.Position{},
		End:   protocol.Position{Line: end.Line, Character: end.Character},
	}
}
