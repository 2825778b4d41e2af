package model

import (
	"github.com/google/btree"

	"knnlab/pkg/dataset"
)

// Neighbor is one training row selected for a query.
type Neighbor struct {
	Row      int
	Distance float64
}

// nearer orders by distance, then by row index, which makes the selection a
// stable ascending sort of all distances truncated to k.
func nearer(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Row < b.Row
}

const neighborTreeDegree = 8

// nearest scans every training row and keeps the k closest in an ordered tree.
// The result is in ascending (distance, row) order.
func nearest(query []float64, train *dataset.Table, k int) []Neighbor {
	tree := btree.NewG[Neighbor](neighborTreeDegree, nearer)

	for j := 0; j < train.Len(); j++ {
		n := Neighbor{Row: j, Distance: Euclidean(query, train.Row(j))}
		if tree.Len() < k {
			tree.ReplaceOrInsert(n)
			continue
		}
		if farthest, _ := tree.Max(); nearer(n, farthest) {
			tree.DeleteMax()
			tree.ReplaceOrInsert(n)
		}
	}

	out := make([]Neighbor, 0, tree.Len())
	tree.Ascend(func(n Neighbor) bool {
		out = append(out, n)
		return true
	})
	return out
}
