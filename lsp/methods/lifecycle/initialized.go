package lifecycle

import (
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized stores the client context for later notifications
func Initialized(ctx types.ServerContext, context *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("Server initialized")
	ctx.SetGLSPContext(context)
	return nil
}
