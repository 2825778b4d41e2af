package monitor

import (
	"sync/atomic"
)

// EvalStats counts classifier work across evaluations. All methods are safe for
// concurrent use; a nil *EvalStats ignores every call.
type EvalStats struct {
	Trials          uint64
	Classifications uint64
	Mismatches      uint64
	Failures        uint64
}

func NewEvalStats() *EvalStats {
	return &EvalStats{}
}

func (s *EvalStats) RecordTrial() {
	if s == nil {
		return
	}
	atomic.AddUint64(&s.Trials, 1)
}

func (s *EvalStats) RecordClassifications(n int) {
	if s == nil {
		return
	}
	atomic.AddUint64(&s.Classifications, uint64(n))
}

func (s *EvalStats) RecordMismatches(n int) {
	if s == nil {
		return
	}
	atomic.AddUint64(&s.Mismatches, uint64(n))
}

func (s *EvalStats) RecordFailure() {
	if s == nil {
		return
	}
	atomic.AddUint64(&s.Failures, 1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Trials          uint64 `json:"trials" yaml:"trials"`
	Classifications uint64 `json:"classifications" yaml:"classifications"`
	Mismatches      uint64 `json:"mismatches" yaml:"mismatches"`
	Failures        uint64 `json:"failures" yaml:"failures"`
}

func (s *EvalStats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Trials:          atomic.LoadUint64(&s.Trials),
		Classifications: atomic.LoadUint64(&s.Classifications),
		Mismatches:      atomic.LoadUint64(&s.Mismatches),
		Failures:        atomic.LoadUint64(&s.Failures),
	}
}

// MismatchRate is mismatches over classifications, pooled across everything
// recorded so far. Evaluation reports use the mean of per-trial rates instead.
func (s *EvalStats) MismatchRate() float64 {
	snap := s.Snapshot()
	if snap.Classifications == 0 {
		return 0.0
	}
	return float64(snap.Mismatches) / float64(snap.Classifications)
}
