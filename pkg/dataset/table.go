// Package dataset holds the in-memory feature table the classifier works on,
// plus readers and a synthetic generator that produce it.
package dataset

import (
	"knnlab/pkg/common"
)

// Table is a rectangular matrix of features with one label per row.
// It is never mutated after construction, so it can be shared across goroutines.
type Table struct {
	features []common.FeatureVector
	labels   []common.Label
	names    []string
	dim      int
}

// NewTable copies features and labels into a new Table.
func NewTable(features [][]float64, labels []common.Label) (*Table, error) {
	if len(features) != len(labels) {
		return nil, common.InvalidArgumentf("%d feature rows but %d labels", len(features), len(labels))
	}

	t := &Table{
		features: make([]common.FeatureVector, len(features)),
		labels:   make([]common.Label, len(labels)),
	}
	copy(t.labels, labels)

	for i, row := range features {
		if i == 0 {
			if len(row) == 0 {
				return nil, common.InvalidArgumentf("row 0 has no features")
			}
			t.dim = len(row)
		} else if len(row) != t.dim {
			return nil, common.InvalidArgumentf("row %d has %d features, want %d", i, len(row), t.dim)
		}
		t.features[i] = common.FeatureVector(row).Clone()
	}
	return t, nil
}

// WithNames returns a copy of t that carries column names for the features.
// Extra or missing names are an error.
func (t *Table) WithNames(names []string) (*Table, error) {
	if len(names) != t.dim {
		return nil, common.InvalidArgumentf("%d column names for %d features", len(names), t.dim)
	}
	out := *t
	out.names = append([]string(nil), names...)
	return &out, nil
}

// Len returns the row count N.
func (t *Table) Len() int {
	return len(t.features)
}

// Dim returns the feature dimensionality D (0 for an empty table).
func (t *Table) Dim() int {
	return t.dim
}

// Row returns the i-th feature vector. Callers must not modify it.
func (t *Table) Row(i int) common.FeatureVector {
	return t.features[i]
}

// Label returns the label of the i-th row.
func (t *Table) Label(i int) common.Label {
	return t.labels[i]
}

// Labels returns a copy of the label column.
func (t *Table) Labels() []common.Label {
	return append([]common.Label(nil), t.labels...)
}

// Names returns the feature column names, or nil when the source had no header.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Features returns a deep copy of the feature matrix.
func (t *Table) Features() [][]float64 {
	out := make([][]float64, len(t.features))
	for i, row := range t.features {
		out[i] = row.Clone()
	}
	return out
}

// Subset builds a table from the given row indices, in the given order.
func (t *Table) Subset(indices []int) (*Table, error) {
	out := &Table{
		features: make([]common.FeatureVector, len(indices)),
		labels:   make([]common.Label, len(indices)),
		names:    t.names,
		dim:      t.dim,
	}
	for i, idx := range indices {
		if idx < 0 || idx >= len(t.features) {
			return nil, common.InvalidArgumentf("row index %d out of range [0,%d)", idx, len(t.features))
		}
		out.features[i] = t.features[idx]
		out.labels[i] = t.labels[idx]
	}
	return out, nil
}

// Map builds a new table whose rows are fn applied to each row of t.
// Labels and names carry over unchanged.
func (t *Table) Map(fn func(common.FeatureVector) (common.FeatureVector, error)) (*Table, error) {
	out := &Table{
		features: make([]common.FeatureVector, len(t.features)),
		labels:   t.labels,
		names:    t.names,
		dim:      t.dim,
	}
	for i, row := range t.features {
		v, err := fn(row)
		if err != nil {
			return nil, err
		}
		if len(v) != t.dim {
			return nil, common.InvalidArgumentf("mapped row %d has %d features, want %d", i, len(v), t.dim)
		}
		out.features[i] = v
	}
	return out, nil
}
