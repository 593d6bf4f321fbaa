package filter

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion failures
var (
	// ErrArity indicates the call has the wrong number or shape of arguments
	ErrArity = errors.New("wrong number of arguments")

	// ErrInvalidAmount indicates a negative or otherwise out-of-domain value
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnsupportedUnit indicates a unit outside the set the filter accepts
	ErrUnsupportedUnit = errors.New("unsupported unit")

	// ErrMissingUnit indicates a non-zero length was given without a unit
	ErrMissingUnit = errors.New("missing unit")

	// ErrInvalidColor indicates a drop-shadow color could not be understood
	ErrInvalidColor = errors.New("invalid color")
)

// ConversionError reports why a single filter function could not be converted
type ConversionError struct {
	Filter Kind
	Err    error
	Detail string
}

func (e *ConversionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Filter, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Filter, e.Err, e.Detail)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) error {
	return &ConversionError{
		Filter: kind,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
