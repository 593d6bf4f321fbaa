package workspace

import (
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration applies new client settings and republishes
// diagnostics for every open document
func DidChangeConfiguration(ctx types.ServerContext, context *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	if err := ctx.ApplySettings(params.Settings); err != nil {
		LogWarning(context, "Ignoring invalid settings: %v", err)
		return nil
	}
	log.Debug("New configuration: %+v", ctx.GetConfig())

	for _, doc := range ctx.AllDocuments() {
		if err := ctx.PublishDiagnostics(context, doc.URI()); err != nil {
			log.Warn("Failed to publish diagnostics for %s: %v", doc.URI(), err)
		}
	}
	return nil
}
