// Package eval drives partition, normalize and classify cycles and aggregates
// their error rates.
package eval

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/logging"
	"knnlab/pkg/model"
	"knnlab/pkg/monitor"
	"knnlab/pkg/partition"
)

// Misclassification is a test row whose prediction differed from its label.
type Misclassification struct {
	Row  int          `json:"row" yaml:"row"`
	Want common.Label `json:"want" yaml:"want"`
	Got  common.Label `json:"got" yaml:"got"`
}

// TrialResult is the outcome of one split-train-classify-score pass.
type TrialResult struct {
	Trial      int                 `json:"trial" yaml:"trial"`
	TrainCount int                 `json:"train_count" yaml:"train_count"`
	TestCount  int                 `json:"test_count" yaml:"test_count"`
	Errors     int                 `json:"errors" yaml:"errors"`
	ErrorRate  float64             `json:"error_rate" yaml:"error_rate"`
	Misses     []Misclassification `json:"misses,omitempty" yaml:"misses,omitempty"`
}

// Aggregate summarises repeated trials. MeanErrorRate is the mean of per-trial
// rates, not pooled errors over pooled test rows.
type Aggregate struct {
	RunID           string        `json:"run_id" yaml:"run_id"`
	Params          Params        `json:"params" yaml:"params"`
	Trials          []TrialResult `json:"trials" yaml:"trials"`
	TotalErrors     int           `json:"total_errors" yaml:"total_errors"`
	TotalTested     int           `json:"total_tested" yaml:"total_tested"`
	MeanErrorRate   float64       `json:"mean_error_rate" yaml:"mean_error_rate"`
	StdDevErrorRate float64       `json:"stddev_error_rate" yaml:"stddev_error_rate"`
}

// Accuracy is 1 - MeanErrorRate.
func (a *Aggregate) Accuracy() float64 {
	return 1 - a.MeanErrorRate
}

// Evaluator runs trials under fixed Params. Stats, when set, is updated by
// every call.
type Evaluator struct {
	params Params
	voter  model.Voter
	Stats  *monitor.EvalStats
}

// New validates p and returns an Evaluator for it.
func New(p Params) (*Evaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	v, err := p.voter()
	if err != nil {
		return nil, err
	}
	return &Evaluator{params: p, voter: v}, nil
}

// Params returns the parameters the evaluator was built with.
func (e *Evaluator) Params() Params {
	return e.params
}

// RunTrial draws a split from a source derived from rng, fits normalization on
// the training rows, classifies every test row and counts mismatches. It
// derives its source the same way RunRepeated derives trial 0's, so a one-trial
// RunRepeated and RunTrial agree for equally seeded rng.
func (e *Evaluator) RunTrial(t *dataset.Table, rng *rand.Rand) (TrialResult, error) {
	if rng == nil {
		return TrialResult{}, common.InvalidArgumentf("nil random source")
	}
	return e.trial(t, DeriveRand(rng))
}

// trial runs one trial on src and records failures.
func (e *Evaluator) trial(t *dataset.Table, src *rand.Rand) (TrialResult, error) {
	res, err := e.runTrial(t, src)
	if err != nil {
		e.Stats.RecordFailure()
		return TrialResult{}, err
	}
	return res, nil
}

func (e *Evaluator) runTrial(t *dataset.Table, rng *rand.Rand) (TrialResult, error) {
	split, err := partition.New(t, e.params.TestRatio, rng)
	if err != nil {
		return TrialResult{}, err
	}
	return e.scoreSplit(t, split)
}

// scoreSplit trains on split.Train and counts mismatches over split.Test.
func (e *Evaluator) scoreSplit(t *dataset.Table, split partition.Split) (TrialResult, error) {
	if len(split.Train) < e.params.K {
		return TrialResult{}, common.InvalidArgumentf("k=%d exceeds %d training rows", e.params.K, len(split.Train))
	}

	train, err := t.Subset(split.Train)
	if err != nil {
		return TrialResult{}, err
	}
	test, err := t.Subset(split.Test)
	if err != nil {
		return TrialResult{}, err
	}

	if e.params.Normalize {
		n := e.params.normalizer()
		bounds, err := n.Fit(train)
		if err != nil {
			return TrialResult{}, fmt.Errorf("fit bounds: %w", err)
		}
		if train, err = n.ApplyTable(train, bounds); err != nil {
			return TrialResult{}, err
		}
		if test, err = n.ApplyTable(test, bounds); err != nil {
			return TrialResult{}, err
		}
	}

	res := TrialResult{TrainCount: train.Len(), TestCount: test.Len()}
	for i := 0; i < test.Len(); i++ {
		got, err := model.Classify(test.Row(i), train, e.params.K, e.voter)
		if err != nil {
			return TrialResult{}, err
		}
		if want := test.Label(i); got != want {
			res.Errors++
			res.Misses = append(res.Misses, Misclassification{Row: split.Test[i], Want: want, Got: got})
		}
	}
	if res.TestCount > 0 {
		res.ErrorRate = float64(res.Errors) / float64(res.TestCount)
	}

	e.Stats.RecordTrial()
	e.Stats.RecordClassifications(res.TestCount)
	e.Stats.RecordMismatches(res.Errors)
	return res, nil
}

// RunRepeated runs Params.Trials independent trials. Trial i uses the i-th
// source derived from rng, so the result depends only on rng's state, never on
// goroutine scheduling. With one trial the outcome equals RunTrial on an
// equally seeded rng.
func (e *Evaluator) RunRepeated(ctx context.Context, t *dataset.Table, rng *rand.Rand) (*Aggregate, error) {
	if rng == nil {
		return nil, common.InvalidArgumentf("nil random source")
	}

	n := e.params.Trials
	sources := make([]*rand.Rand, n)
	for i := range sources {
		sources[i] = DeriveRand(rng)
	}

	results := make([]TrialResult, n)
	g, ctx := errgroup.WithContext(ctx)
	workers := e.params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := e.trial(t, sources[i])
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			r.Trial = i
			results[i] = r
			logging.Debug().
				Int("trial", i).
				Int("errors", r.Errors).
				Int("tested", r.TestCount).
				Float64("error_rate", r.ErrorRate).
				Msg("trial finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := e.aggregate(results)
	logging.Info().
		Str("run_id", agg.RunID).
		Int("k", e.params.K).
		Str("strategy", string(e.params.Strategy)).
		Int("trials", n).
		Int("total_errors", agg.TotalErrors).
		Float64("mean_error_rate", agg.MeanErrorRate).
		Msg("evaluation finished")
	return agg, nil
}

func (e *Evaluator) aggregate(results []TrialResult) *Aggregate {
	agg := &Aggregate{
		RunID:  uuid.NewString(),
		Params: e.params,
		Trials: results,
	}
	rates := make([]float64, len(results))
	for i, r := range results {
		agg.TotalErrors += r.Errors
		agg.TotalTested += r.TestCount
		rates[i] = r.ErrorRate
	}
	if len(rates) > 1 {
		agg.MeanErrorRate, agg.StdDevErrorRate = stat.MeanStdDev(rates, nil)
	} else if len(rates) == 1 {
		agg.MeanErrorRate = rates[0]
	}
	return agg
}

// CrossValidate deals the rows into folds disjoint folds and scores each fold
// against a model trained on the others. TestRatio is ignored; the aggregate
// holds one TrialResult per fold.
func (e *Evaluator) CrossValidate(ctx context.Context, t *dataset.Table, folds int, rng *rand.Rand) (*Aggregate, error) {
	idx, err := partition.KFold(t.Len(), folds, rng)
	if err != nil {
		return nil, err
	}
	splits := partition.Folds(idx)

	results := make([]TrialResult, len(splits))
	g, ctx := errgroup.WithContext(ctx)
	workers := e.params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, split := range splits {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := e.scoreSplit(t, split)
			if err != nil {
				e.Stats.RecordFailure()
				return fmt.Errorf("fold %d: %w", i, err)
			}
			r.Trial = i
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := e.aggregate(results)
	agg.Params.Trials = len(splits)
	logging.Info().
		Str("run_id", agg.RunID).
		Int("k", e.params.K).
		Int("folds", folds).
		Float64("mean_error_rate", agg.MeanErrorRate).
		Msg("cross-validation finished")
	return agg, nil
}

// SweepK evaluates every k in ks with the same seed, so each k sees the same
// sequence of splits.
func (e *Evaluator) SweepK(ctx context.Context, t *dataset.Table, ks []int, seed uint64) ([]*Aggregate, error) {
	out := make([]*Aggregate, 0, len(ks))
	for _, k := range ks {
		p := e.params
		p.K = k
		sub, err := New(p)
		if err != nil {
			return nil, err
		}
		sub.Stats = e.Stats

		agg, err := sub.RunRepeated(ctx, t, NewRand(seed))
		if err != nil {
			return nil, fmt.Errorf("k=%d: %w", k, err)
		}
		out = append(out, agg)
	}
	return out, nil
}
