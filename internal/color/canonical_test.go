package color_test

import (
	"testing"

	"bennypowers.dev/filterfallback/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"named", "red", "rgba(255,0,0,1)"},
		{"named upper", "Blue", "rgba(0,0,255,1)"},
		{"hex", "#000000", "rgba(0,0,0,1)"},
		{"short hex", "#fff", "rgba(255,255,255,1)"},
		{"rgb", "rgb(0, 128, 255)", "rgba(0,128,255,1)"},
		{"rgba", "rgba(0,0,0,.5)", "rgba(0,0,0,0.5)"},
		{"hsl", "hsl(120, 100%, 50%)", "rgba(0,255,0,1)"},
		{"transparent", "transparent", "rgba(0,0,0,0)"},
		{"padded", "  red ", "rgba(255,0,0,1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := color.Canonicalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCanonicalizeUnknown(t *testing.T) {
	for _, input := range []string{"notacolor", "12px", ""} {
		t.Run(input, func(t *testing.T) {
			_, err := color.Canonicalize(input)
			assert.ErrorIs(t, err, color.ErrUnknownColor)
		})
	}
}
