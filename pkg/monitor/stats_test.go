package monitor

import (
	"sync"
	"testing"
)

func TestEvalStatsConcurrent(t *testing.T) {
	s := NewEvalStats()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.RecordClassifications(4)
				s.RecordMismatches(1)
			}
			s.RecordTrial()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.Trials != 8 || snap.Classifications != 3200 || snap.Mismatches != 800 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if r := s.MismatchRate(); r != 0.25 {
		t.Errorf("MismatchRate: got %g, want 0.25", r)
	}
}

func TestNilEvalStats(t *testing.T) {
	var s *EvalStats
	s.RecordTrial()
	s.RecordFailure()
	if s.MismatchRate() != 0 || s.Snapshot() != (Snapshot{}) {
		t.Fatal("nil stats should read as zero")
	}
}
