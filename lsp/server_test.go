package lsp

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/lsp/methods/textDocument"
	"bennypowers.dev/filterfallback/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// recorder captures notifications sent to the client
type recorder struct {
	mu          sync.Mutex
	diagnostics []protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method != protocol.ServerTextDocumentPublishDiagnostics {
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		r.diagnostics = append(r.diagnostics, params.(protocol.PublishDiagnosticsParams))
	}}
}

func (r *recorder) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.diagnostics)
	return r.diagnostics[len(r.diagnostics)-1]
}

func newServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(false)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPublishDiagnostics(t *testing.T) {
	s := newServer(t)
	rec := &recorder{}
	ctx := rec.context()

	uri := "file:///a.css"
	require.NoError(t, textDocument.DidOpen(s, ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "css", Version: 1, Text: ".a { filter: blur(5); }"},
	}))

	published := rec.last(t)
	assert.Equal(t, uri, published.URI)
	require.Len(t, published.Diagnostics, 1)
	assert.Equal(t, protocol.Position{Line: 0, Character: 13}, published.Diagnostics[0].Range.Start)

	require.NoError(t, textDocument.DidClose(s, ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	cleared := rec.last(t)
	assert.NotNil(t, cleared.Diagnostics)
	assert.Empty(t, cleared.Diagnostics)
}

func TestPublishDiagnosticsWithoutContext(t *testing.T) {
	s := newServer(t)
	assert.Error(t, s.PublishDiagnostics(nil, "file:///a.css"))

	rec := &recorder{}
	s.SetGLSPContext(rec.context())
	require.NoError(t, s.PublishDiagnostics(nil, "file:///a.css"), "falls back to the stored context")
}

func TestLoadWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".config"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, ".config", "filter-fallback.yaml"),
		[]byte("legacy: true\nstrict: true\n"),
		0o644,
	))

	s := newServer(t)
	s.SetRootPath(root)

	require.NoError(t, s.ApplySettings(map[string]any{"filterFallback": map[string]any{"webkit": false}}))
	require.NoError(t, s.LoadWorkspaceConfig())

	cfg := s.GetConfig()
	assert.True(t, cfg.Legacy, "from the file")
	assert.Equal(t, fallback.StrictFail, cfg.Strict, "from the file")
	assert.False(t, cfg.Webkit, "client settings are reapplied over the file")
	assert.True(t, cfg.SVG, "default")

	require.NoError(t, s.ApplySettings(map[string]any{"filterFallback": map[string]any{"strict": "warn"}}))
	cfg = s.GetConfig()
	assert.True(t, cfg.Legacy, "new settings still sit on the file config")
	assert.True(t, cfg.Webkit, "earlier settings are replaced")
	assert.Equal(t, fallback.StrictWarn, cfg.Strict)
}

func TestLoadWorkspaceConfigInvalid(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "filter-fallback.json"), []byte("{"), 0o644))

	s := newServer(t)
	s.SetRootPath(root)
	assert.Error(t, s.LoadWorkspaceConfig())
	assert.True(t, s.GetConfig().SVG, "defaults remain in effect")
}

func TestRootAccessors(t *testing.T) {
	s := newServer(t)
	s.SetRootURI("file:///w")
	s.SetRootPath("/w")
	assert.Equal(t, "file:///w", s.RootURI())
	assert.Equal(t, "/w", s.RootPath())
}

func TestMiddlewareRecoversPanics(t *testing.T) {
	s := newServer(t)

	wrapped := notify(s, "test/panic", func(_ types.ServerContext, _ *glsp.Context, _ *struct{}) error {
		panic("boom")
	})
	err := wrapped(&glsp.Context{}, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error in test/panic")
}
