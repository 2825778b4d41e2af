package common

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks malformed input rows.
	ErrParse = errors.New("parse error")

	// ErrInvalidArgument marks caller-supplied parameters that are out of range
	// or inconsistent with the data (k, test ratio, dimensionality).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateFeature marks a feature whose observed range is zero.
	ErrDegenerateFeature = errors.New("degenerate feature")
)

// ParseError describes a single bad cell or row in tabular input.
// Row and Column are zero-based; Column is -1 when the whole row is at fault.
type ParseError struct {
	Row    int
	Column int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("parse error at row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("parse error at row %d, column %d (%q): %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// InvalidArgumentf returns an error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// DegenerateFeatureError reports the zero-range dimension.
func DegenerateFeatureError(dim int, value float64) error {
	return fmt.Errorf("%w: dimension %d is constant (%g)", ErrDegenerateFeature, dim, value)
}
