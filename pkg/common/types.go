package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Label is the class token attached to a sample.
type Label string

// FeatureVector is one sample: a fixed-length tuple of measured attributes.
type FeatureVector []float64

// Dim returns the number of dimensions.
func (v FeatureVector) Dim() int {
	return len(v)
}

// Clone returns a copy that shares no backing array with v.
func (v FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}

// String formats the vector for log and debug output.
func (v FeatureVector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 6, 64)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
