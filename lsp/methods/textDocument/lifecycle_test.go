package textDocument

import (
	"testing"

	"bennypowers.dev/filterfallback/lsp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///a.css"

func open(t *testing.T, ctx *testutil.MockServerContext, text string) {
	t.Helper()
	require.NoError(t, DidOpen(ctx, &glsp.Context{}, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "css", Version: 1, Text: text},
	}))
}

func TestDidOpen(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	open(t, ctx, ".a { filter: blur(2px); }")

	doc := ctx.Document(uri)
	require.NotNil(t, doc)
	assert.Equal(t, ".a { filter: blur(2px); }", doc.Content())
	assert.Equal(t, "css", doc.LanguageID())
	assert.Equal(t, []string{uri}, ctx.Published)
}

func TestDidChange(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	open(t, ctx, ".a { filter: blur(2px); }")

	err := DidChange(ctx, &glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: ".a { filter: sepia(1); }"}},
	})
	require.NoError(t, err)

	assert.Equal(t, ".a { filter: sepia(1); }", ctx.Document(uri).Content())
	assert.Equal(t, 2, ctx.Document(uri).Version())
	assert.Equal(t, []string{uri, uri}, ctx.Published)
}

func TestDidChangeUnknownDocument(t *testing.T) {
	ctx := testutil.NewMockServerContext()

	err := DidChange(ctx, &glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
	})
	assert.Error(t, err)
	assert.Empty(t, ctx.Published)
}

func TestDidClose(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	open(t, ctx, ".a {}")

	params := &protocol.DidCloseTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: uri}}
	require.NoError(t, DidClose(ctx, &glsp.Context{}, params))

	assert.Nil(t, ctx.Document(uri))
	assert.Equal(t, []string{uri, uri}, ctx.Published, "closing clears the diagnostics")

	assert.Error(t, DidClose(ctx, &glsp.Context{}, params))
}
