package eval

import (
	"math"
	"math/rand/v2"

	"knnlab/pkg/common"
	"knnlab/pkg/model"
	"knnlab/pkg/normalize"
)

// Params is everything an evaluation run depends on besides the data and the
// random source. There is no package-level state: two runs with equal Params,
// data and seed produce equal results.
type Params struct {
	K         int            `json:"k" yaml:"k"`
	TestRatio float64        `json:"test_ratio" yaml:"test_ratio"`
	Strategy  model.Strategy `json:"strategy" yaml:"strategy"`
	// Smoothing is b in 1/(distance+b); only the weighted strategy reads it.
	Smoothing float64 `json:"smoothing" yaml:"smoothing"`
	Trials    int     `json:"trials" yaml:"trials"`
	// Normalize fits min-max bounds on the training rows of every trial and
	// rescales train and test rows with them.
	Normalize bool             `json:"normalize" yaml:"normalize"`
	Policy    normalize.Policy `json:"-" yaml:"-"`
	// Workers bounds trial parallelism; zero means GOMAXPROCS.
	Workers int `json:"-" yaml:"-"`
}

// DefaultParams mirrors the iris experiment: k=3, 20% held out, ten trials.
func DefaultParams() Params {
	return Params{
		K:         3,
		TestRatio: 0.2,
		Strategy:  model.StrategyUnweighted,
		Smoothing: model.DefaultSmoothing,
		Trials:    10,
		Normalize: true,
	}
}

// Validate checks ranges that do not depend on the data. k against the
// training row count is checked once a split exists.
func (p Params) Validate() error {
	if p.K < 1 {
		return common.InvalidArgumentf("k=%d must be at least 1", p.K)
	}
	if math.IsNaN(p.TestRatio) || p.TestRatio < 0 || p.TestRatio >= 1 {
		return common.InvalidArgumentf("test ratio %g outside [0,1)", p.TestRatio)
	}
	if p.Trials < 1 {
		return common.InvalidArgumentf("trials=%d must be at least 1", p.Trials)
	}
	if p.Workers < 0 {
		return common.InvalidArgumentf("workers=%d must not be negative", p.Workers)
	}
	_, err := p.voter()
	return err
}

func (p Params) voter() (model.Voter, error) {
	return model.NewVoter(p.Strategy, p.Smoothing)
}

func (p Params) normalizer() normalize.Normalizer {
	return normalize.Normalizer{Policy: p.Policy}
}

const seedMix = 0x9e3779b97f4a7c15

// NewRand returns a PCG-backed source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedMix))
}

// DeriveRand draws a seed from parent and returns an independent source for
// it. RunRepeated derives one source per trial, in trial order.
func DeriveRand(parent *rand.Rand) *rand.Rand {
	return NewRand(parent.Uint64())
}
