package lifecycle

import (
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/parser/css"
	"bennypowers.dev/filterfallback/internal/parser/html"
	"bennypowers.dev/filterfallback/internal/parser/js"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
)

// Shutdown releases the pooled parsers
func Shutdown(ctx types.ServerContext, context *glsp.Context) error {
	log.Info("Server shutting down")
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
	return nil
}
