package workspace

import (
	"sync"
	"testing"
	"time"

	"bennypowers.dev/filterfallback/lsp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDidChangeConfiguration(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.DocumentManager().DidOpen("file:///a.css", "css", 1, ".a {}")
	ctx.DocumentManager().DidOpen("file:///b.css", "css", 1, ".b {}")

	err := DidChangeConfiguration(ctx, &glsp.Context{}, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"filterFallback": map[string]any{"legacy": true, "svg": false}},
	})
	require.NoError(t, err)

	assert.True(t, ctx.GetConfig().Legacy)
	assert.False(t, ctx.GetConfig().SVG)
	assert.ElementsMatch(t, []string{"file:///a.css", "file:///b.css"}, ctx.Published)
}

func TestDidChangeConfigurationInvalid(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	before := ctx.GetConfig()

	err := DidChangeConfiguration(ctx, &glsp.Context{}, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"filterFallback": map[string]any{"strict": 7}},
	})
	require.NoError(t, err, "bad settings are reported, not returned")
	assert.Equal(t, before, ctx.GetConfig())
}

func TestLogMessages(t *testing.T) {
	var (
		mu       sync.Mutex
		received []protocol.LogMessageParams
	)
	context := &glsp.Context{Notify: func(method string, params any) {
		if method != protocol.ServerWindowLogMessage {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		received = append(received, *params.(*protocol.LogMessageParams))
	}}

	LogWarning(context, "a.css:%d:%d: %s", 1, 2, "Unexpected filter")
	LogError(context, "boom")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 10*time.Millisecond)

	assert.ElementsMatch(t, []protocol.LogMessageParams{
		{Type: protocol.MessageTypeWarning, Message: "a.css:1:2: Unexpected filter"},
		{Type: protocol.MessageTypeError, Message: "boom"},
	}, received)
}

func TestLogWithoutConnection(t *testing.T) {
	assert.NotPanics(t, func() {
		LogWarning(nil, "no context")
		LogError(&glsp.Context{}, "no notify")
		ShowMessage(&glsp.Context{}, protocol.MessageTypeInfo, "hello")
	})
}
