package documents_test

import (
	"testing"

	"bennypowers.dev/filterfallback/internal/documents"
	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := documents.NewDocument("file:///a.css", "css", 1, "content")

	assert.Equal(t, "file:///a.css", doc.URI())
	assert.Equal(t, "css", doc.LanguageID())
	assert.Equal(t, 1, doc.Version())
	assert.Equal(t, "content", doc.Content())
}

func TestDocumentLanguage(t *testing.T) {
	tests := []struct {
		uri        string
		languageID string
		expected   sources.Language
	}{
		{"file:///a.css", "css", sources.CSS},
		{"file:///a.html", "html", sources.HTML},
		{"file:///a.ts", "typescript", sources.JavaScript},
		{"file:///a.css", "plaintext", sources.CSS},
		{"file:///a.txt", "plaintext", sources.Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.uri+" "+tt.languageID, func(t *testing.T) {
			doc := documents.NewDocument(tt.uri, tt.languageID, 1, "")
			assert.Equal(t, tt.expected, doc.Language())
		})
	}
}

func TestDocumentSetContent(t *testing.T) {
	t.Run("accepts newer and same versions", func(t *testing.T) {
		doc := documents.NewDocument("file:///a.css", "css", 1, "original")

		require.NoError(t, doc.SetContent("same", 1))
		assert.Equal(t, "same", doc.Content())

		require.NoError(t, doc.SetContent("updated", 2))
		assert.Equal(t, "updated", doc.Content())
		assert.Equal(t, 2, doc.Version())
	})

	t.Run("rejects stale versions", func(t *testing.T) {
		doc := documents.NewDocument("file:///a.css", "css", 5, "original")

		err := doc.SetContent("stale", 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stale update")
		assert.Equal(t, "original", doc.Content())
		assert.Equal(t, 5, doc.Version())
	})
}

func TestDocumentAnalyze(t *testing.T) {
	doc := documents.NewDocument("file:///a.css", "css", 1, ".a { filter: blur(2px) blur(5); }")
	opts := fallback.DefaultOptions()
	opts.VendorPrefix = true

	first, err := doc.Analyze(opts)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Len(t, first.Warnings, 1)
	assert.Equal(t, 1, first.Version)

	again, err := doc.Analyze(opts)
	require.NoError(t, err)
	assert.Same(t, first, again, "unchanged text and options reuse the analysis")

	opts.VendorPrefix = false
	off, err := doc.Analyze(opts)
	require.NoError(t, err)
	assert.NotSame(t, first, off)
	assert.False(t, off.Changed)

	require.NoError(t, doc.SetContent(".a { color: red; }", 2))
	next, err := doc.Analyze(opts)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Version)
	assert.Empty(t, next.Warnings)
}
