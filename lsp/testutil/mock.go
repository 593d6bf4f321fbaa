// Package testutil provides a ServerContext for handler tests.
package testutil

import (
	"sync"

	"bennypowers.dev/filterfallback/internal/config"
	"bennypowers.dev/filterfallback/internal/documents"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/tliron/glsp"
)

// MockServerContext implements types.ServerContext in memory
type MockServerContext struct {
	docs        *documents.Manager
	rootURI     string
	rootPath    string
	config      config.Config
	glspContext *glsp.Context

	// Optional callbacks for custom behavior in tests
	LoadWorkspaceConfigFunc func() error
	PublishDiagnosticsFunc  func(*glsp.Context, string) error

	mu sync.Mutex
	// Published records the URIs passed to PublishDiagnostics
	Published []string
	// LoadWorkspaceConfigCalled is set by LoadWorkspaceConfig
	LoadWorkspaceConfigCalled bool
}

var _ types.ServerContext = (*MockServerContext)(nil)

// NewMockServerContext creates a mock with the default config
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: config.Default(),
	}
}

func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

func (m *MockServerContext) GetConfig() config.Config {
	return m.config
}

// SetConfig replaces the effective config
func (m *MockServerContext) SetConfig(cfg config.Config) {
	m.config = cfg
}

func (m *MockServerContext) LoadWorkspaceConfig() error {
	m.LoadWorkspaceConfigCalled = true
	if m.LoadWorkspaceConfigFunc != nil {
		return m.LoadWorkspaceConfigFunc()
	}
	return nil
}

// ApplySettings overlays settings on the current config
func (m *MockServerContext) ApplySettings(settings any) error {
	cfg, err := types.ParseSettings(m.config, settings)
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.mu.Lock()
	m.Published = append(m.Published, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}
