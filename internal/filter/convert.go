package filter

import (
	"fmt"
	"math"
	"strings"

	"bennypowers.dev/filterfallback/internal/color"
	"bennypowers.dev/filterfallback/internal/svg"
	"bennypowers.dev/filterfallback/internal/units"
)

// Result holds what one filter function contributes to each output target.
// Any list may be empty.
type Result struct {
	// Modern holds normalized CSS filter functions, e.g. "blur(32px)"
	Modern []string
	// Vector holds SVG filter primitives for the data URI document
	Vector []string
	// Legacy holds proprietary filter tokens, e.g. "gray"
	Legacy []string
}

// Empty reports whether the result contributes nothing to any target
func (r Result) Empty() bool {
	return len(r.Modern) == 0 && len(r.Vector) == 0 && len(r.Legacy) == 0
}

const (
	legacyLight        = "progid:DXImageTransform.Microsoft.Light()"
	defaultShadowColor = "#000000"
)

// Convert compiles one filter call. args are the call's argument groups as
// returned by GroupArguments.
func Convert(kind Kind, args []ArgumentGroup) (Result, error) {
	switch kind {
	case Grayscale:
		return convertGrayscale(args)
	case Sepia:
		return convertSepia(args)
	case Saturate:
		return convertSaturate(args)
	case HueRotate:
		return convertHueRotate(args)
	case Invert:
		return convertInvert(args)
	case Opacity:
		return convertOpacity(args)
	case Brightness:
		return convertBrightness(args)
	case Contrast:
		return convertContrast(args)
	case Blur:
		return convertBlur(args)
	case DropShadow:
		return convertDropShadow(args)
	case KindUnknown:
	}
	return Result{}, fmt.Errorf("no converter for filter kind %d", int(kind))
}

// singleToken returns the sole token of a one-argument call
func singleToken(kind Kind, args []ArgumentGroup) (string, error) {
	if len(args) != 1 || len(args[0]) != 1 {
		return "", newError(kind, ErrArity, "expected exactly one argument, got %s", describe(args))
	}
	return args[0][0], nil
}

func describe(args []ArgumentGroup) string {
	if len(args) == 0 {
		return "none"
	}
	parts := make([]string, len(args))
	for i, g := range args {
		parts[i] = strings.Join(g, " ")
	}
	return fmt.Sprintf("%q", strings.Join(parts, ", "))
}

// amountOf applies the shared numeric policy of the single-amount filters:
// negative values fail, unparsable values fall back to def, and any unit
// means the value is a percentage.
func amountOf(kind Kind, args []ArgumentGroup, def float64) (float64, error) {
	token, err := singleToken(kind, args)
	if err != nil {
		return 0, err
	}

	amount, _ := units.Parse(token)
	if amount.Value < 0 {
		return 0, newError(kind, ErrInvalidAmount, "%q is negative", token)
	}

	v := amount.Value
	if math.IsNaN(v) {
		v = def
	}
	if amount.HasUnit() {
		v /= 100
	}
	return v, nil
}

func modern(kind Kind, v float64) string {
	return kind.String() + "(" + units.Format(v) + ")"
}

func matrix(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = units.Format(v)
	}
	return svg.Element("feColorMatrix",
		svg.A("type", "matrix"),
		svg.A("color-interpolation-filters", "sRGB"),
		svg.A("values", strings.Join(parts, " ")),
	)
}

func componentTransfer(funcs ...string) string {
	return svg.Container("feComponentTransfer",
		[]svg.Attr{svg.A("color-interpolation-filters", "sRGB")},
		funcs...,
	)
}

// rgbFuncs renders the same transfer function for the red, green and blue channels
func rgbFuncs(attrs ...svg.Attr) []string {
	return []string{
		svg.Element("feFuncR", attrs...),
		svg.Element("feFuncG", attrs...),
		svg.Element("feFuncB", attrs...),
	}
}

func convertGrayscale(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Grayscale, args, 0)
	if err != nil {
		return Result{}, err
	}

	r := 1 - a
	res := Result{
		Modern: []string{modern(Grayscale, a)},
		Vector: []string{matrix(
			0.2126+0.7874*r, 0.7152-0.7152*r, 0.0722-0.0722*r, 0, 0,
			0.2126-0.2126*r, 0.7152+0.2848*r, 0.0722-0.0722*r, 0, 0,
			0.2126-0.2126*r, 0.7152-0.7152*r, 0.0722+0.9278*r, 0, 0,
			0, 0, 0, 1, 0,
		)},
	}
	if a >= 0.5 {
		res.Legacy = []string{"gray"}
	}
	return res, nil
}

func convertSepia(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Sepia, args, 0)
	if err != nil {
		return Result{}, err
	}

	r := 1 - a
	res := Result{
		Modern: []string{modern(Sepia, a)},
		Vector: []string{matrix(
			0.393+0.607*r, 0.769-0.769*r, 0.189-0.189*r, 0, 0,
			0.349-0.349*r, 0.686+0.314*r, 0.168-0.168*r, 0, 0,
			0.272-0.272*r, 0.534-0.534*r, 0.131+0.869*r, 0, 0,
			0, 0, 0, 1, 0,
		)},
	}
	if a >= 0.5 {
		res.Legacy = []string{"gray", legacyLight}
	}
	return res, nil
}

func convertSaturate(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Saturate, args, 1)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Modern: []string{modern(Saturate, a)},
		Vector: []string{matrix(
			0.213+0.787*a, 0.715-0.715*a, 0.072-0.072*a, 0, 0,
			0.213-0.213*a, 0.715+0.285*a, 0.072-0.072*a, 0, 0,
			0.213-0.213*a, 0.715-0.715*a, 0.072+0.928*a, 0, 0,
			0, 0, 0, 1, 0,
		)},
	}, nil
}

func convertHueRotate(args []ArgumentGroup) (Result, error) {
	token, err := singleToken(HueRotate, args)
	if err != nil {
		return Result{}, err
	}

	angle, _ := units.Parse(token)
	if !units.IsAngle(angle.Unit) {
		return Result{}, newError(HueRotate, ErrUnsupportedUnit, "%q is not an angle", token)
	}
	if angle.Value < 0 {
		return Result{}, newError(HueRotate, ErrInvalidAmount, "%q is negative", token)
	}

	deg := units.ToDegrees(angle.Value, angle.Unit)
	value := units.Format(deg)
	return Result{
		Modern: []string{"hue-rotate(" + value + "deg)"},
		Vector: []string{svg.Element("feColorMatrix",
			svg.A("type", "hueRotate"),
			svg.A("color-interpolation-filters", "sRGB"),
			svg.A("values", value),
		)},
	}, nil
}

func convertInvert(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Invert, args, 0)
	if err != nil {
		return Result{}, err
	}

	table := units.Format(a) + " " + units.Format(1-a)
	res := Result{
		Modern: []string{modern(Invert, a)},
		Vector: []string{componentTransfer(rgbFuncs(
			svg.A("type", "table"),
			svg.A("tableValues", table),
		)...)},
	}
	if a >= 0.5 {
		res.Legacy = []string{"invert"}
	}
	return res, nil
}

func convertOpacity(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Opacity, args, 1)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Modern: []string{modern(Opacity, a)},
		Vector: []string{componentTransfer(svg.Element("feFuncA",
			svg.A("type", "table"),
			svg.A("tableValues", "0 "+units.Format(a)),
		))},
	}, nil
}

func convertBrightness(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Brightness, args, 1)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Modern: []string{modern(Brightness, a)},
		Vector: []string{componentTransfer(rgbFuncs(
			svg.A("type", "linear"),
			svg.A("slope", units.Format(a)),
		)...)},
		Legacy: []string{legacyLight},
	}, nil
}

func convertContrast(args []ArgumentGroup) (Result, error) {
	a, err := amountOf(Contrast, args, 1)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Modern: []string{modern(Contrast, a)},
		Vector: []string{componentTransfer(rgbFuncs(
			svg.A("type", "linear"),
			svg.A("slope", units.Format(a)),
			svg.A("intercept", units.Format(-(0.5*a)+0.5)),
		)...)},
	}, nil
}

func convertBlur(args []ArgumentGroup) (Result, error) {
	token, err := singleToken(Blur, args)
	if err != nil {
		return Result{}, err
	}

	length, _ := units.Parse(token)
	if length.Value < 0 {
		return Result{}, newError(Blur, ErrInvalidAmount, "%q is negative", token)
	}
	if !length.HasUnit() && length.Value != 0 {
		return Result{}, newError(Blur, ErrMissingUnit, "%q needs a length unit", token)
	}

	v := length.Value
	if math.IsNaN(v) {
		v = 0
	}
	px := units.Format(units.ToPixels(v, length.Unit))
	return Result{
		Modern: []string{"blur(" + px + "px)"},
		Vector: []string{svg.Element("feGaussianBlur", svg.A("stdDeviation", px))},
		Legacy: []string{"progid:DXImageTransform.Microsoft.Blur(pixelradius=" + px + ")"},
	}, nil
}

// shadowLength is a rounded drop-shadow length
type shadowLength struct {
	value float64
	unit  string
}

func parseShadowLength(token string) shadowLength {
	amount, _ := units.Parse(token)
	v := math.Floor(amount.Value + 0.5)
	if math.IsNaN(v) {
		v = 0
	}
	return shadowLength{value: v, unit: amount.Unit}
}

// unitless reports a non-zero length that has no unit
func (l shadowLength) unitless() bool {
	return l.unit == "" && l.value != 0
}

func (l shadowLength) pixels() float64 {
	return units.ToPixels(l.value, l.unit)
}

// convertDropShadow takes offset-x offset-y blur-radius [spread] [color].
// A spread, or a non-zero length without a unit, has no equivalent in the
// fallback targets, so the call then contributes nothing at all.
func convertDropShadow(args []ArgumentGroup) (Result, error) {
	if len(args) != 1 || len(args[0]) < 3 || len(args[0]) > 5 {
		return Result{}, newError(DropShadow, ErrArity, "expected 3 to 5 space-separated values, got %s", describe(args))
	}
	tokens := args[0]

	x := parseShadowLength(tokens[0])
	y := parseShadowLength(tokens[1])
	radius := parseShadowLength(tokens[2])

	var spread float64
	shadowColor := defaultShadowColor
	switch len(tokens) {
	case 4:
		shadowColor = tokens[3]
	case 5:
		amount, _ := units.Parse(tokens[3])
		spread = amount.Value
		shadowColor = tokens[4]
	}

	if x.unitless() || y.unitless() || radius.unitless() || (spread != 0 && !math.IsNaN(spread)) {
		return Result{}, nil
	}

	flood, err := color.Canonicalize(shadowColor)
	if err != nil {
		return Result{}, newError(DropShadow, ErrInvalidColor, "%q", shadowColor)
	}

	dx, dy, r := x.pixels(), y.pixels(), radius.pixels()
	return Result{
		Modern: []string{fmt.Sprintf("drop-shadow(%spx %spx %spx %s)",
			units.Format(dx), units.Format(dy), units.Format(r), shadowColor)},
		Vector: []string{
			svg.Element("feGaussianBlur",
				svg.A("in", "SourceAlpha"),
				svg.A("stdDeviation", units.Format(r)),
			),
			svg.Element("feOffset",
				svg.A("dx", units.Format(dx+1)),
				svg.A("dy", units.Format(dy+1)),
				svg.A("result", "offsetblur"),
			),
			svg.Element("feFlood", svg.A("flood-color", flood)),
			svg.Element("feComposite",
				svg.A("in2", "offsetblur"),
				svg.A("operator", "in"),
			),
			svg.Container("feMerge", nil,
				svg.Element("feMergeNode"),
				svg.Element("feMergeNode", svg.A("in", "SourceGraphic")),
			),
		},
		Legacy: []string{
			"progid:DXImageTransform.Microsoft.Glow(color=" + shadowColor + ",strength=0)",
			"progid:DXImageTransform.Microsoft.Shadow(color=" + shadowColor + ",strength=0)",
		},
	}, nil
}
