package textDocument

import (
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen tracks the document and publishes its diagnostics
func DidOpen(ctx types.ServerContext, context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	log.Info("Document opened: %s (language: %s, version: %d)", item.URI, item.LanguageID, item.Version)

	ctx.DocumentManager().DidOpen(item.URI, item.LanguageID, int(item.Version), item.Text)

	if err := ctx.PublishDiagnostics(context, item.URI); err != nil {
		log.Warn("Failed to publish diagnostics for %s: %v", item.URI, err)
	}
	return nil
}

// DidChange applies the edits and republishes diagnostics
func DidChange(ctx types.ServerContext, context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)
	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	if _, err := ctx.DocumentManager().DidChange(uri, version, params.ContentChanges); err != nil {
		return err
	}

	if err := ctx.PublishDiagnostics(context, uri); err != nil {
		log.Warn("Failed to publish diagnostics for %s: %v", uri, err)
	}
	return nil
}

// DidClose forgets the document and clears its diagnostics
func DidClose(ctx types.ServerContext, context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Info("Document closed: %s", uri)

	if err := ctx.DocumentManager().DidClose(uri); err != nil {
		return err
	}

	// Publishing for an unknown document sends an empty list
	if err := ctx.PublishDiagnostics(context, uri); err != nil {
		log.Warn("Failed to clear diagnostics for %s: %v", uri, err)
	}
	return nil
}
