package model

import (
	"math"

	"knnlab/pkg/common"
)

// Strategy names a voting rule.
type Strategy string

const (
	StrategyUnweighted Strategy = "unweighted"
	StrategyWeighted   Strategy = "weighted"
)

// DefaultSmoothing is the b in 1/(distance+b) for the weighted vote.
const DefaultSmoothing = 1.0

// ParseStrategy accepts "unweighted", "weighted" and "inverse-distance-weighted".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "unweighted", "majority":
		return StrategyUnweighted, nil
	case "weighted", "inverse-distance-weighted":
		return StrategyWeighted, nil
	default:
		return "", common.InvalidArgumentf("unknown voting strategy %q", s)
	}
}

// Voter turns a neighbour distance into the score it adds to its label.
type Voter interface {
	Weight(distance float64) float64
	Strategy() Strategy
}

// Unweighted gives every neighbour one vote.
type Unweighted struct{}

func (Unweighted) Weight(float64) float64 { return 1 }

func (Unweighted) Strategy() Strategy { return StrategyUnweighted }

// Weighted gives a neighbour 1/(distance+Smoothing).
type Weighted struct {
	Smoothing float64
}

func (w Weighted) Weight(d float64) float64 { return 1 / (d + w.Smoothing) }

func (Weighted) Strategy() Strategy { return StrategyWeighted }

func (w Weighted) validate() error {
	if !(w.Smoothing > 0) || math.IsInf(w.Smoothing, 0) {
		return common.InvalidArgumentf("smoothing constant %g must be positive and finite", w.Smoothing)
	}
	return nil
}

// NewVoter builds the voter for s. smoothing is ignored for the unweighted vote.
func NewVoter(s Strategy, smoothing float64) (Voter, error) {
	switch s {
	case StrategyUnweighted:
		return Unweighted{}, nil
	case StrategyWeighted:
		w := Weighted{Smoothing: smoothing}
		if err := w.validate(); err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, common.InvalidArgumentf("unknown voting strategy %q", s)
	}
}
