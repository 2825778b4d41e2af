package model

import "knnlab/pkg/common"

// tally accumulates scores per label and remembers the order in which labels
// were first seen. It lives for a single classification.
type tally struct {
	order  []common.Label
	scores map[common.Label]float64
}

func newTally(capacity int) *tally {
	return &tally{
		order:  make([]common.Label, 0, capacity),
		scores: make(map[common.Label]float64, capacity),
	}
}

func (t *tally) add(label common.Label, score float64) {
	if _, ok := t.scores[label]; !ok {
		t.order = append(t.order, label)
	}
	t.scores[label] += score
}

// winner returns the label with the highest score. Ties go to the label that
// was added first, i.e. the one whose nearest neighbour was closest.
func (t *tally) winner() (common.Label, float64) {
	var best common.Label
	bestScore := 0.0
	for i, label := range t.order {
		if s := t.scores[label]; i == 0 || s > bestScore {
			best, bestScore = label, s
		}
	}
	return best, bestScore
}
