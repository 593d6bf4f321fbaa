// Package lsp serves filter fallback diagnostics and rewrites over the
// Language Server Protocol.
package lsp

import (
	"fmt"
	"sync"

	"bennypowers.dev/filterfallback/internal/config"
	"bennypowers.dev/filterfallback/internal/documents"
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/parser/css"
	"bennypowers.dev/filterfallback/internal/parser/html"
	"bennypowers.dev/filterfallback/internal/parser/js"
	"bennypowers.dev/filterfallback/internal/position"
	"bennypowers.dev/filterfallback/internal/uriutil"
	"bennypowers.dev/filterfallback/lsp/methods/lifecycle"
	"bennypowers.dev/filterfallback/lsp/methods/textDocument"
	codeaction "bennypowers.dev/filterfallback/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/filterfallback/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/filterfallback/lsp/methods/workspace"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the filter fallback language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	context    *glsp.Context

	configMu   sync.RWMutex // Protects everything below
	rootURI    string
	rootPath   string
	fileConfig config.Config // Workspace config file, or defaults
	settings   any           // Last client settings, reapplied over fileConfig
	config     config.Config
}

// NewServer creates a server. debug enables glsp's protocol logging.
func NewServer(debug bool) *Server {
	s := &Server{
		documents:  documents.NewManager(),
		fileConfig: config.Default(),
		config:     config.Default(),
	}

	handler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
	}

	s.glspServer = server.NewServer(&handler, types.ServerName, debug)
	return s
}

// RunStdio serves on stdin and stdout until the client disconnects
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the pooled parsers. It is safe to call more than once.
func (s *Server) Close() error {
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
	return nil
}

// Document returns the open document at uri
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all open documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GetConfig returns the effective configuration
func (s *Server) GetConfig() config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// LoadWorkspaceConfig reads the config file under the workspace root and
// reapplies the last client settings over it. Without a root the defaults
// are used.
func (s *Server) LoadWorkspaceConfig() error {
	root := s.RootPath()
	fileConfig := config.Default()
	var loadErr error
	if root != "" {
		cfg, path, err := config.Load(root)
		switch {
		case err != nil:
			loadErr = err
		case path != "":
			log.Info("Loaded config from %s", path)
			fileConfig = cfg
		}
	}

	s.configMu.Lock()
	s.fileConfig = fileConfig
	settings := s.settings
	s.configMu.Unlock()

	if err := s.apply(fileConfig, settings); err != nil {
		return err
	}
	return loadErr
}

// ApplySettings overlays client settings on the workspace config
func (s *Server) ApplySettings(settings any) error {
	s.configMu.RLock()
	fileConfig := s.fileConfig
	s.configMu.RUnlock()
	return s.apply(fileConfig, settings)
}

func (s *Server) apply(fileConfig config.Config, settings any) error {
	cfg, err := types.ParseSettings(fileConfig, settings)
	if err != nil {
		return err
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.settings = settings
	s.config = cfg
	return nil
}

func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// PublishDiagnostics pushes the document's diagnostics, an empty list for
// documents that are not open, and mirrors each one to the client log
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	workingContext := context
	if workingContext == nil {
		workingContext = s.GLSPContext()
	}
	if workingContext == nil || workingContext.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	name := uriutil.URIToPath(uri)
	if name == "" {
		name = uri
	}
	for _, d := range diagnostics {
		workspace.LogWarning(workingContext, "%s:%s: %s", name,
			position.Position{Line: d.Range.Start.Line, Character: d.Range.Start.Character}, d.Message)
	}

	workingContext.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}
