// Package model implements exact brute-force k-nearest-neighbour classification
// over Euclidean distance with unweighted or inverse-distance-weighted voting.
package model

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
)

// Neighbors returns the k training rows closest to query in ascending
// (distance, row) order.
func Neighbors(query common.FeatureVector, train *dataset.Table, k int) ([]Neighbor, error) {
	if err := checkQuery(query, train, k); err != nil {
		return nil, err
	}
	return nearest(query, train, k), nil
}

// Classify predicts the label of query from its k nearest rows in train.
// It does not modify train and is safe to call concurrently.
func Classify(query common.FeatureVector, train *dataset.Table, k int, v Voter) (common.Label, error) {
	if err := checkVoter(v); err != nil {
		return "", err
	}
	nbrs, err := Neighbors(query, train, k)
	if err != nil {
		return "", err
	}

	t := newTally(len(nbrs))
	for _, n := range nbrs {
		t.add(train.Label(n.Row), v.Weight(n.Distance))
	}
	label, _ := t.winner()
	return label, nil
}

// ClassifyUnweighted is Classify with one vote per neighbour.
func ClassifyUnweighted(query common.FeatureVector, train *dataset.Table, k int) (common.Label, error) {
	return Classify(query, train, k, Unweighted{})
}

// ClassifyWeighted is Classify with 1/(distance+smoothing) votes.
func ClassifyWeighted(query common.FeatureVector, train *dataset.Table, k int, smoothing float64) (common.Label, error) {
	return Classify(query, train, k, Weighted{Smoothing: smoothing})
}

// checkVoter rejects nil voters and voters whose own parameters are out of
// range, whether passed by value or by pointer.
func checkVoter(v Voter) error {
	if v == nil {
		return common.InvalidArgumentf("nil voter")
	}
	if w, ok := v.(*Weighted); ok && w == nil {
		return common.InvalidArgumentf("nil voter")
	}
	if cv, ok := v.(interface{ validate() error }); ok {
		return cv.validate()
	}
	return nil
}

func checkQuery(query common.FeatureVector, train *dataset.Table, k int) error {
	if train == nil || train.Len() == 0 {
		return common.InvalidArgumentf("empty training set")
	}
	if k < 1 || k > train.Len() {
		return common.InvalidArgumentf("k=%d outside [1,%d]", k, train.Len())
	}
	if len(query) != train.Dim() {
		return common.InvalidArgumentf("query has %d features, training rows have %d", len(query), train.Dim())
	}
	for i, x := range query {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return common.InvalidArgumentf("query feature %d is not finite", i)
		}
	}
	return nil
}

// KNN keeps a training table and classifies queries against it.
type KNN struct {
	K     int
	Voter Voter

	// Workers bounds PredictBatch parallelism; zero means GOMAXPROCS.
	Workers int

	train *dataset.Table
}

// NewKNN creates a KNN model. A nil voter means Unweighted.
func NewKNN(k int, v Voter) *KNN {
	if v == nil {
		v = Unweighted{}
	}
	return &KNN{K: k, Voter: v}
}

// Fit stores the training table. Nothing is precomputed.
func (m *KNN) Fit(train *dataset.Table) error {
	if train == nil || train.Len() == 0 {
		return common.InvalidArgumentf("empty training set")
	}
	if m.K < 1 || m.K > train.Len() {
		return common.InvalidArgumentf("k=%d outside [1,%d]", m.K, train.Len())
	}
	m.train = train
	return nil
}

// Predict classifies a single query.
func (m *KNN) Predict(query common.FeatureVector) (common.Label, error) {
	if m.train == nil {
		return "", common.InvalidArgumentf("model is not fitted")
	}
	return Classify(query, m.train, m.K, m.Voter)
}

// PredictBatch classifies queries on parallel workers, one contiguous chunk
// per worker. Output order matches input order; after the first error the
// other chunks stop at their next query.
func (m *KNN) PredictBatch(queries []common.FeatureVector) ([]common.Label, error) {
	if m.train == nil {
		return nil, common.InvalidArgumentf("model is not fitted")
	}
	if len(queries) == 0 {
		return nil, nil
	}
	if err := checkVoter(m.Voter); err != nil {
		return nil, err
	}

	out := make([]common.Label, len(queries))

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rowsPerWorker := (len(queries) + workers - 1) / workers

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for start := 0; start < len(queries); start += rowsPerWorker {
		end := min(start+rowsPerWorker, len(queries))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				label, err := Classify(queries[i], m.train, m.K, m.Voter)
				if err != nil {
					return fmt.Errorf("query %d: %w", i, err)
				}
				out[i] = label
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
