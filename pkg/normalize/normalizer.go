// Package normalize implements min-max feature scaling.
//
// Bounds are fit on a reference table (the training partition) and then applied
// unchanged to every vector that will be compared against it. Fitting on the full
// table before a train/test split leaks test information into training.
package normalize

import (
	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/logging"
)

// Policy selects what happens to a dimension whose min equals its max.
type Policy int

const (
	// PolicyZero maps every value of a constant dimension to 0.0.
	PolicyZero Policy = iota
	// PolicyStrict refuses to fit bounds that contain a constant dimension.
	PolicyStrict
)

// ParsePolicy accepts "zero" and "strict"; the empty string means PolicyZero.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "zero":
		return PolicyZero, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyZero, common.InvalidArgumentf("unknown degenerate feature policy %q", s)
	}
}

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "zero"
}

// Bounds holds per-dimension minimum and maximum of a reference table.
type Bounds struct {
	Min common.FeatureVector
	Max common.FeatureVector
}

// Dim returns the dimensionality the bounds were fit on.
func (b Bounds) Dim() int {
	return len(b.Min)
}

// Degenerate lists the dimensions with zero range.
func (b Bounds) Degenerate() []int {
	var dims []int
	for i := range b.Min {
		if b.Max[i] == b.Min[i] {
			dims = append(dims, i)
		}
	}
	return dims
}

// Normalizer fits and applies Bounds under a degenerate-feature policy.
// The zero value uses PolicyZero.
type Normalizer struct {
	Policy Policy
}

// Fit computes per-dimension min and max over every row of t.
func (n Normalizer) Fit(t *dataset.Table) (Bounds, error) {
	if t.Len() == 0 {
		return Bounds{}, common.InvalidArgumentf("cannot fit bounds on an empty table")
	}

	b := Bounds{
		Min: t.Row(0).Clone(),
		Max: t.Row(0).Clone(),
	}
	for i := 1; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			if v < b.Min[j] {
				b.Min[j] = v
			}
			if v > b.Max[j] {
				b.Max[j] = v
			}
		}
	}

	if dims := b.Degenerate(); len(dims) > 0 {
		if n.Policy == PolicyStrict {
			return Bounds{}, common.DegenerateFeatureError(dims[0], b.Min[dims[0]])
		}
		logging.Debug().Ints("dims", dims).Msg("constant features will normalize to 0")
	}
	return b, nil
}

// Apply rescales v into [0,1] per dimension using b. Values outside the fitted
// range map outside [0,1]; that is expected for unseen query vectors.
func (n Normalizer) Apply(v common.FeatureVector, b Bounds) (common.FeatureVector, error) {
	if len(v) != b.Dim() {
		return nil, common.InvalidArgumentf("vector has %d features, bounds have %d", len(v), b.Dim())
	}

	out := make(common.FeatureVector, len(v))
	for i, x := range v {
		span := b.Max[i] - b.Min[i]
		if span == 0 {
			if n.Policy == PolicyStrict {
				return nil, common.DegenerateFeatureError(i, b.Min[i])
			}
			out[i] = 0
			continue
		}
		out[i] = (x - b.Min[i]) / span
	}
	return out, nil
}

// ApplyTable rescales every row of t and keeps its labels.
func (n Normalizer) ApplyTable(t *dataset.Table, b Bounds) (*dataset.Table, error) {
	return t.Map(func(v common.FeatureVector) (common.FeatureVector, error) {
		return n.Apply(v, b)
	})
}

// FitApply fits bounds on t and returns t rescaled with them.
func (n Normalizer) FitApply(t *dataset.Table) (*dataset.Table, Bounds, error) {
	b, err := n.Fit(t)
	if err != nil {
		return nil, Bounds{}, err
	}
	out, err := n.ApplyTable(t, b)
	if err != nil {
		return nil, Bounds{}, err
	}
	return out, b, nil
}

// Fit uses the default policy.
func Fit(t *dataset.Table) (Bounds, error) {
	return Normalizer{}.Fit(t)
}

// Apply uses the default policy.
func Apply(v common.FeatureVector, b Bounds) (common.FeatureVector, error) {
	return Normalizer{}.Apply(v, b)
}
