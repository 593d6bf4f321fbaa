package lifecycle

import (
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/uriutil"
	"bennypowers.dev/filterfallback/internal/version"
	codeaction "bennypowers.dev/filterfallback/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialize records the workspace root, loads its config file and client
// settings, and advertises full sync with code actions
func Initialize(ctx types.ServerContext, context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	if params.RootURI != nil {
		ctx.SetRootURI(*params.RootURI)
		ctx.SetRootPath(uriutil.URIToPath(*params.RootURI))
	} else if params.RootPath != nil {
		ctx.SetRootPath(*params.RootPath)
		ctx.SetRootURI(uriutil.PathToURI(*params.RootPath))
	}
	if root := ctx.RootPath(); root != "" {
		log.Info("Workspace root: %s", root)
	}

	if err := ctx.LoadWorkspaceConfig(); err != nil {
		log.Warn("Failed to load workspace config: %v", err)
	}
	if err := ctx.ApplySettings(params.InitializationOptions); err != nil {
		log.Warn("Ignoring invalid initializationOptions: %v", err)
	}

	syncKind := protocol.TextDocumentSyncKindFull
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: boolPtr(true),
				Change:    &syncKind,
			},
			CodeActionProvider: protocol.CodeActionOptions{
				CodeActionKinds: codeaction.Kinds,
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    types.ServerName,
			Version: strPtr(version.GetVersion()),
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
