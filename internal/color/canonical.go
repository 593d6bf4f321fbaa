package color

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bennypowers.dev/filterfallback/internal/units"
	"github.com/mazznoer/csscolorparser"
)

// ErrUnknownColor indicates a token is not a CSS color
var ErrUnknownColor = errors.New("unknown color")

// Canonicalize parses any CSS color token (named, hex, rgb[a], hsl[a], hwb, ...)
// and renders it as rgba(r,g,b,a) with 0-255 channels.
func Canonicalize(raw string) (string, error) {
	value := strings.TrimSpace(raw)

	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, raw)
	}

	return fmt.Sprintf("rgba(%d,%d,%d,%s)",
		channel(parsed.R),
		channel(parsed.G),
		channel(parsed.B),
		units.Format(clamp(parsed.A)),
	), nil
}

func channel(v float64) int {
	return int(math.Round(clamp(v) * 255))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
