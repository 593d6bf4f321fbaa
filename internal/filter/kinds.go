// Package filter compiles individual CSS filter function calls into their
// modern, SVG and legacy equivalents.
package filter

import "strings"

// Kind is a filter function this package knows how to convert
type Kind int

const (
	// KindUnknown marks a function with no converter; callers pass it through
	KindUnknown Kind = iota
	Grayscale
	Sepia
	Saturate
	HueRotate
	Invert
	Opacity
	Brightness
	Contrast
	Blur
	DropShadow
)

var kindNames = map[Kind]string{
	Grayscale:  "grayscale",
	Sepia:      "sepia",
	Saturate:   "saturate",
	HueRotate:  "hue-rotate",
	Invert:     "invert",
	Opacity:    "opacity",
	Brightness: "brightness",
	Contrast:   "contrast",
	Blur:       "blur",
	DropShadow: "drop-shadow",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// LookupKind maps a function name to its Kind, ignoring case.
// Unrecognized names return KindUnknown.
func LookupKind(name string) Kind {
	if k, ok := kindsByName[strings.ToLower(name)]; ok {
		return k
	}
	return KindUnknown
}

// String returns the CSS function name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kinds returns every convertible kind in declaration order
func Kinds() []Kind {
	return []Kind{Grayscale, Sepia, Saturate, HueRotate, Invert, Opacity, Brightness, Contrast, Blur, DropShadow}
}
