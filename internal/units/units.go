// Package units splits CSS numeric tokens into magnitude and unit and
// normalizes lengths and angles.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RootFontSize is the pixel size assumed for em and rem lengths. It does not
// follow the cascade, so em/rem conversions are an approximation.
const RootFontSize = 16

// ErrMalformedNumber indicates a token has no numeric prefix
var ErrMalformedNumber = errors.New("malformed number")

// Amount is a numeric magnitude with an optional unit suffix
type Amount struct {
	Value float64
	// Unit is lowercased, and empty for a bare number
	Unit string
}

// HasUnit reports whether the amount carried a unit suffix
func (a Amount) HasUnit() bool {
	return a.Unit != ""
}

// Parse reads a leading signed decimal number from s and treats whatever
// follows it as the unit.
func Parse(s string) (Amount, error) {
	end := numberEnd(s)
	if end == 0 {
		return Amount{Value: math.NaN()}, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}

	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return Amount{Value: math.NaN()}, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}

	return Amount{
		Value: value,
		Unit:  strings.ToLower(s[end:]),
	}, nil
}

// numberEnd returns the length of the numeric prefix of s, or 0 if there is none
func numberEnd(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}

	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}

	if digits == 0 {
		return 0
	}

	// Exponent only counts when digits follow, so "2em" keeps its unit
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}

	return i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ToPixels converts a length to pixels. px and unitless values pass through,
// em and rem scale by RootFontSize, anything else is returned unchanged.
func ToPixels(value float64, unit string) float64 {
	switch unit {
	case "em", "rem":
		return value * RootFontSize
	default:
		return value
	}
}

// ToDegrees converts an angle to degrees. Unknown units pass through.
func ToDegrees(value float64, unit string) float64 {
	switch unit {
	case "grad":
		return 180 * value / 200
	case "rad":
		return 180 * value / math.Pi
	case "turn":
		return 360 * value
	default:
		return value
	}
}

// IsAngle reports whether unit is one of the CSS angle units
func IsAngle(unit string) bool {
	switch unit {
	case "deg", "grad", "rad", "turn":
		return true
	}
	return false
}

// Format renders a number as shortest round-trip decimal text. Magnitudes
// below 1e-6 or from 1e21 up use exponent notation without zero padding
// (1e-7, 1e+21), matching what browsers print for numbers.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	sign := exponent[:1]
	digits := strings.TrimLeft(exponent[1:], "0")
	return mantissa + "e" + sign + digits
}
