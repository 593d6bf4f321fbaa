package fallback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StrictMode decides what happens when a filter call cannot be converted
type StrictMode int

const (
	// StrictWarn records a Warning and continues with the next call
	StrictWarn StrictMode = iota
	// StrictFail aborts processing and returns the failure
	StrictFail
	// StrictIgnore drops the failure silently
	StrictIgnore
)

func (m StrictMode) String() string {
	switch m {
	case StrictFail:
		return "true"
	case StrictIgnore:
		return "false"
	default:
		return "warn"
	}
}

// ParseStrictMode reads "true", "false" or "warn". The empty string is warn.
func ParseStrictMode(s string) (StrictMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn":
		return StrictWarn, nil
	case "true", "fail":
		return StrictFail, nil
	case "false", "ignore":
		return StrictIgnore, nil
	}
	return StrictWarn, fmt.Errorf("invalid strict mode %q, want true, false or warn", s)
}

// MarshalText implements encoding.TextMarshaler
func (m StrictMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *StrictMode) UnmarshalText(text []byte) error {
	parsed, err := ParseStrictMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmarshalJSON accepts a boolean or one of the strings ParseStrictMode reads
func (m *StrictMode) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*m = StrictFail
		} else {
			*m = StrictIgnore
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid strict mode %s", data)
	}
	return m.UnmarshalText([]byte(s))
}

// Options selects which fallback declarations are generated
type Options struct {
	// LegacyOutput adds a declaration with proprietary filter tokens
	LegacyOutput bool
	// VectorOutput adds a declaration referencing an inline SVG filter
	VectorOutput bool
	// VendorPrefix adds a -webkit-filter clone with the normalized value
	VendorPrefix bool
	// Strict controls failure handling for individual filter calls
	Strict StrictMode
	// SkipIfDuplicated leaves rules alone that already hold more than one
	// filter or -webkit-filter declaration
	SkipIfDuplicated bool
	// EncodeDataURI percent-encodes the SVG document in the data URI
	EncodeDataURI bool
}

// DefaultOptions generates nothing beyond the none rewrite and skips rules
// that already carry fallbacks
func DefaultOptions() Options {
	return Options{SkipIfDuplicated: true}
}
