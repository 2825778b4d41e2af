package eval

import (
	"fmt"
	"iter"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/model"
)

// Prediction pairs a query's caller-supplied identifier with its label.
type Prediction struct {
	ID    string       `json:"id" yaml:"id"`
	Label common.Label `json:"label" yaml:"label"`
}

// Batch is the result of classifying unlabeled rows. It is immutable and can be
// iterated any number of times.
type Batch struct {
	predictions []Prediction
}

// Len returns the number of predictions.
func (b Batch) Len() int {
	return len(b.predictions)
}

// At returns the i-th prediction.
func (b Batch) At(i int) Prediction {
	return b.predictions[i]
}

// All yields predictions in input order.
func (b Batch) All() iter.Seq2[int, Prediction] {
	return func(yield func(int, Prediction) bool) {
		for i, p := range b.predictions {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Labels returns the predicted labels in input order.
func (b Batch) Labels() []common.Label {
	out := make([]common.Label, len(b.predictions))
	for i, p := range b.predictions {
		out[i] = p.Label
	}
	return out
}

// ApplyToUnlabeledBatch classifies new rows against the whole of train.
//
// When Params.Normalize is set, bounds are fit on train and applied to both
// train and the queries, so queries must be raw values. With Normalize off,
// train and queries are compared as given; pass queries already scaled with
// the training bounds in that case.
func (e *Evaluator) ApplyToUnlabeledBatch(train *dataset.Table, queries []dataset.UnlabeledRow) (Batch, error) {
	if train == nil || train.Len() == 0 {
		return Batch{}, common.InvalidArgumentf("empty training set")
	}
	if train.Len() < e.params.K {
		return Batch{}, common.InvalidArgumentf("k=%d exceeds %d training rows", e.params.K, train.Len())
	}

	vectors := make([]common.FeatureVector, len(queries))
	for i, q := range queries {
		vectors[i] = q.Vector
	}

	if e.params.Normalize {
		n := e.params.normalizer()
		scaled, bounds, err := n.FitApply(train)
		if err != nil {
			return Batch{}, fmt.Errorf("fit bounds: %w", err)
		}
		train = scaled
		for i, v := range vectors {
			if vectors[i], err = n.Apply(v, bounds); err != nil {
				return Batch{}, fmt.Errorf("query %s: %w", queries[i].ID, err)
			}
		}
	}

	m := model.NewKNN(e.params.K, e.voter)
	m.Workers = e.params.Workers
	if err := m.Fit(train); err != nil {
		return Batch{}, err
	}
	labels, err := m.PredictBatch(vectors)
	if err != nil {
		e.Stats.RecordFailure()
		return Batch{}, err
	}
	e.Stats.RecordClassifications(len(labels))

	preds := make([]Prediction, len(labels))
	for i, label := range labels {
		preds[i] = Prediction{ID: queries[i].ID, Label: label}
	}
	return Batch{predictions: preds}, nil
}
