// Package partition draws randomized train/test splits over table rows.
package partition

import (
	"math"
	"math/rand/v2"

	"knnlab/pkg/common"
)

// Sized is anything with a row count, usually a *dataset.Table.
type Sized interface {
	Len() int
}

// Split is a disjoint assignment of row indices to a test and a training set.
type Split struct {
	Train []int
	Test  []int
}

// TestCount returns floor(n * testRatio), the number of rows Split puts in Test.
func TestCount(n int, testRatio float64) int {
	return int(math.Floor(float64(n) * testRatio))
}

// New draws a uniformly random permutation of 0..N-1 from rng and assigns the
// first floor(N*testRatio) indices to Test and the rest to Train. Every call
// draws a fresh permutation.
func New(t Sized, testRatio float64, rng *rand.Rand) (Split, error) {
	if math.IsNaN(testRatio) || testRatio < 0 || testRatio >= 1 {
		return Split{}, common.InvalidArgumentf("test ratio %g outside [0,1)", testRatio)
	}
	if rng == nil {
		return Split{}, common.InvalidArgumentf("nil random source")
	}

	n := t.Len()
	perm := rng.Perm(n)
	nTest := TestCount(n, testRatio)
	return Split{
		Test:  perm[:nTest:nTest],
		Train: perm[nTest:],
	}, nil
}

// KFold deals a random permutation of 0..n-1 into k folds round-robin, so fold
// sizes differ by at most one.
func KFold(n, k int, rng *rand.Rand) ([][]int, error) {
	if k < 2 || k > n {
		return nil, common.InvalidArgumentf("k=%d folds for %d rows", k, n)
	}
	if rng == nil {
		return nil, common.InvalidArgumentf("nil random source")
	}

	folds := make([][]int, k)
	for i, idx := range rng.Perm(n) {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds, nil
}

// Folds turns k folds into k splits, each holding one fold out as the test set.
func Folds(folds [][]int) []Split {
	out := make([]Split, len(folds))
	for i, test := range folds {
		var train []int
		for j, f := range folds {
			if j != i {
				train = append(train, f...)
			}
		}
		out[i] = Split{Train: train, Test: test}
	}
	return out
}
