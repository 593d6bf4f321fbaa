package svg_test

import (
	"net/url"
	"strings"
	"testing"

	"bennypowers.dev/filterfallback/internal/svg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement(t *testing.T) {
	t.Run("with attributes in order", func(t *testing.T) {
		got := svg.Element("feGaussianBlur", svg.A("in", "SourceAlpha"), svg.A("stdDeviation", "4"))
		assert.Equal(t, `<feGaussianBlur in="SourceAlpha" stdDeviation="4" />`, got)
	})

	t.Run("without attributes", func(t *testing.T) {
		assert.Equal(t, `<feMergeNode />`, svg.Element("feMergeNode"))
	})
}

func TestContainer(t *testing.T) {
	got := svg.Container("feMerge", nil,
		svg.Element("feMergeNode"),
		svg.Element("feMergeNode", svg.A("in", "SourceGraphic")),
	)
	assert.Equal(t, `<feMerge><feMergeNode /><feMergeNode in="SourceGraphic" /></feMerge>`, got)

	empty := svg.Container("feComponentTransfer", []svg.Attr{svg.A("color-interpolation-filters", "sRGB")})
	assert.Equal(t, `<feComponentTransfer color-interpolation-filters="sRGB"></feComponentTransfer>`, empty)
}

func TestDocument(t *testing.T) {
	doc := svg.Document([]string{"<a />", "<b />"})
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg"><filter id="filter"><a /><b /></filter></svg>`, doc)

	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg"><filter id="filter"></filter></svg>`, svg.Document(nil))
}

func TestDataURI(t *testing.T) {
	doc := svg.Document([]string{svg.Element("feGaussianBlur", svg.A("stdDeviation", "2"))})

	t.Run("verbatim", func(t *testing.T) {
		got := svg.DataURI(doc, false)
		assert.Equal(t, "url('data:image/svg+xml;charset=utf-8,"+doc+"#filter')", got)
	})

	t.Run("encoded", func(t *testing.T) {
		got := svg.DataURI(doc, true)
		require.True(t, strings.HasPrefix(got, "url('data:image/svg+xml;charset=utf-8,"))
		require.True(t, strings.HasSuffix(got, "#filter')"))

		payload := strings.TrimSuffix(strings.TrimPrefix(got, "url('data:image/svg+xml;charset=utf-8,"), "#filter')")
		assert.NotContains(t, payload, "<")
		assert.NotContains(t, payload, `"`)

		decoded, err := url.PathUnescape(payload)
		require.NoError(t, err)
		assert.Equal(t, doc, decoded)
	})
}
