package lifecycle

import (
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace turns debug logging on for verbose traces
func SetTrace(ctx types.ServerContext, context *glsp.Context, params *protocol.SetTraceParams) error {
	log.Info("Trace level set to: %s", params.Value)
	if params.Value == "verbose" {
		log.SetLevel(log.LevelDebug)
	}
	return nil
}
