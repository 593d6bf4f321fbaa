package types

import (
	"bennypowers.dev/filterfallback/internal/config"
	"bennypowers.dev/filterfallback/internal/documents"
	"github.com/tliron/glsp"
)

// ServerName identifies the server to clients and as the diagnostic source
const ServerName = "filter-fallback"

// ServerContext provides all dependencies needed by LSP handlers
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration. GetConfig is the workspace config file overlaid with
	// client settings.
	GetConfig() config.Config
	LoadWorkspaceConfig() error
	ApplySettings(settings any) error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	PublishDiagnostics(context *glsp.Context, uri string) error
}
