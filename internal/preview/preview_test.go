package preview_test

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/filterfallback/internal/filter"
	"bennypowers.dev/filterfallback/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitives(t *testing.T) {
	tests := []struct {
		value string
		count int
	}{
		{"grayscale(1)", 1},
		{"blur(2px)", 1},
		{"grayscale(1) blur(2px)", 2},
		{"drop-shadow(1px 1px 2px red)", 5},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			fragments, err := preview.Primitives(tt.value)
			require.NoError(t, err)
			assert.Len(t, fragments, tt.count)
		})
	}
}

func TestPrimitivesErrors(t *testing.T) {
	_, err := preview.Primitives("none")
	assert.ErrorIs(t, err, preview.ErrNoPrimitives)

	_, err = preview.Primitives("blur(5)")
	assert.ErrorIs(t, err, filter.ErrMissingUnit)

	_, err = preview.Primitives("custom(1)")
	assert.ErrorContains(t, err, `unsupported filter "custom(1)", want one of grayscale, sepia,`)
	assert.ErrorContains(t, err, "drop-shadow")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, preview.Render(&buf, "grayscale(1) blur(2px)"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<filter id="preview"`)
	assert.Contains(t, out, `<feColorMatrix type="matrix"`)
	assert.Contains(t, out, `<feGaussianBlur stdDeviation="2" />`)
	assert.Contains(t, out, `filter="url(#preview)"`)
	assert.Contains(t, out, "<title>grayscale(1) blur(2px)</title>")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))

	assert.Less(t, strings.Index(out, "<feColorMatrix"), strings.Index(out, "<feGaussianBlur"),
		"primitives keep call order")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, preview.Render(&buf, "none"))
	assert.Zero(t, buf.Len(), "nothing is written for values without primitives")
}
