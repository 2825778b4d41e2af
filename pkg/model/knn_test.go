package model

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
)

func mustTable(t *testing.T, rows [][]float64, labels ...common.Label) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(rows, labels)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestEuclidean(t *testing.T) {
	if d := Euclidean([]float64{0, 0}, []float64{3, 4}); d != 5 {
		t.Errorf("got %g, want 5", d)
	}
	if d := Euclidean([]float64{1, 2, 3}, []float64{1, 2, 3}); d != 0 {
		t.Errorf("got %g, want 0", d)
	}
}

func TestThreePointScenario(t *testing.T) {
	train := mustTable(t, [][]float64{{0, 0}, {0, 1}, {10, 10}}, "A", "A", "B")
	query := common.FeatureVector{0, 0.5}

	got, err := ClassifyUnweighted(query, train, 2)
	if err != nil {
		t.Fatalf("unweighted: %v", err)
	}
	if got != "A" {
		t.Errorf("unweighted: got %s, want A", got)
	}

	got, err = ClassifyWeighted(query, train, 2, DefaultSmoothing)
	if err != nil {
		t.Fatalf("weighted: %v", err)
	}
	if got != "A" {
		t.Errorf("weighted: got %s, want A", got)
	}
}

func TestSelfMatchWithKOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	rows := make([][]float64, 40)
	labels := make([]common.Label, 40)
	for i := range rows {
		rows[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
		labels[i] = common.Label([]string{"a", "b", "c", "d"}[i%4])
	}
	train := mustTable(t, rows, labels...)

	for i := 0; i < train.Len(); i++ {
		for _, v := range []Voter{Unweighted{}, Weighted{Smoothing: 1}} {
			got, err := Classify(train.Row(i), train, 1, v)
			if err != nil {
				t.Fatalf("row %d: %v", i, err)
			}
			if got != train.Label(i) {
				t.Errorf("row %d (%s): got %s, want %s", i, v.Strategy(), got, train.Label(i))
			}
		}
	}
}

func TestTieBreakFavoursCloserLabel(t *testing.T) {
	// Equal distances: the lower row index is scanned first and wins the tie.
	train := mustTable(t, [][]float64{{1}, {-1}}, "A", "B")
	if got, _ := ClassifyUnweighted(common.FeatureVector{0}, train, 2); got != "A" {
		t.Errorf("got %s, want A", got)
	}
	train = mustTable(t, [][]float64{{1}, {-1}}, "B", "A")
	if got, _ := ClassifyUnweighted(common.FeatureVector{0}, train, 2); got != "B" {
		t.Errorf("got %s, want B", got)
	}

	// Tally tie where the nearest neighbour decides.
	train = mustTable(t, [][]float64{{5}, {1}, {6}, {2}}, "far", "near", "far", "near")
	if got, _ := ClassifyUnweighted(common.FeatureVector{0}, train, 4); got != "near" {
		t.Errorf("got %s, want near", got)
	}
}

func TestWeightedCanOverruleMajority(t *testing.T) {
	train := mustTable(t, [][]float64{{0.1}, {5}, {5.1}}, "A", "B", "B")
	query := common.FeatureVector{0}

	if got, _ := ClassifyUnweighted(query, train, 3); got != "B" {
		t.Errorf("unweighted: got %s, want B", got)
	}
	if got, _ := ClassifyWeighted(query, train, 3, 1); got != "A" {
		t.Errorf("weighted: got %s, want A", got)
	}
}

func TestNeighborsMatchesStableSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	rows := make([][]float64, 200)
	labels := make([]common.Label, 200)
	for i := range rows {
		// Coarse grid values to force plenty of distance ties.
		rows[i] = []float64{float64(rng.IntN(5)), float64(rng.IntN(5))}
		labels[i] = "x"
	}
	train := mustTable(t, rows, labels...)
	query := common.FeatureVector{2, 2}

	all := make([]Neighbor, train.Len())
	for i := range all {
		all[i] = Neighbor{Row: i, Distance: Euclidean(query, train.Row(i))}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].Distance < all[b].Distance })

	for _, k := range []int{1, 7, 50, 200} {
		got, err := Neighbors(query, train, k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if len(got) != k {
			t.Fatalf("k=%d: got %d neighbours", k, len(got))
		}
		for i := range got {
			if got[i] != all[i] {
				t.Fatalf("k=%d position %d: got %+v, want %+v", k, i, got[i], all[i])
			}
		}
	}
}

func TestClassifyInvalidArguments(t *testing.T) {
	train := mustTable(t, [][]float64{{0, 0}, {1, 1}}, "A", "B")
	tests := []struct {
		name  string
		query common.FeatureVector
		k     int
		voter Voter
	}{
		{"k zero", common.FeatureVector{0, 0}, 0, Unweighted{}},
		{"k too large", common.FeatureVector{0, 0}, 3, Unweighted{}},
		{"dimension mismatch", common.FeatureVector{0}, 1, Unweighted{}},
		{"nan query", common.FeatureVector{math.NaN(), 0}, 1, Unweighted{}},
		{"zero smoothing", common.FeatureVector{0, 0}, 1, Weighted{Smoothing: 0}},
		{"zero smoothing by pointer", common.FeatureVector{0, 0}, 1, &Weighted{Smoothing: 0}},
		{"negative smoothing by pointer", common.FeatureVector{0, 0}, 1, &Weighted{Smoothing: -1}},
		{"nil weighted pointer", common.FeatureVector{0, 0}, 1, (*Weighted)(nil)},
		{"nil voter", common.FeatureVector{0, 0}, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Classify(tt.query, train, tt.k, tt.voter); !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestTwoClustersFullAccuracy(t *testing.T) {
	rng := rand.New(rand.NewPCG(31, 32))
	protos := []dataset.Prototype{
		{Label: "left", Vector: common.FeatureVector{0, 0}},
		{Label: "right", Vector: common.FeatureVector{10, 10}},
	}
	train, err := dataset.Generate(protos, dataset.GeneratorConfig{Total: 60, Sigma: 0.5}, rng)
	if err != nil {
		t.Fatalf("Generate train: %v", err)
	}
	test, err := dataset.Generate(protos, dataset.GeneratorConfig{Total: 40, Sigma: 0.5}, rng)
	if err != nil {
		t.Fatalf("Generate test: %v", err)
	}

	for _, s := range []Strategy{StrategyUnweighted, StrategyWeighted} {
		v, err := NewVoter(s, DefaultSmoothing)
		if err != nil {
			t.Fatalf("NewVoter(%s): %v", s, err)
		}
		m := NewKNN(5, v)
		if err := m.Fit(train); err != nil {
			t.Fatalf("Fit: %v", err)
		}
		queries := make([]common.FeatureVector, test.Len())
		for i := range queries {
			queries[i] = test.Row(i)
		}
		got, err := m.PredictBatch(queries)
		if err != nil {
			t.Fatalf("PredictBatch: %v", err)
		}
		for i, label := range got {
			if label != test.Label(i) {
				t.Errorf("%s: query %d got %s, want %s", s, i, label, test.Label(i))
			}
		}
	}
}

func TestKNNLifecycle(t *testing.T) {
	m := NewKNN(1, nil)
	if _, err := m.Predict(common.FeatureVector{0}); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("predict before fit: got %v", err)
	}
	train := mustTable(t, [][]float64{{0}, {1}}, "A", "B")
	if err := NewKNN(3, nil).Fit(train); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("fit with k > rows: got %v", err)
	}
	if err := m.Fit(train); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got, err := m.Predict(common.FeatureVector{0.9}); err != nil || got != "B" {
		t.Errorf("Predict: got %s, %v", got, err)
	}
	m.Workers = 3
	if _, err := m.PredictBatch([]common.FeatureVector{{0}, {0, 1}}); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("batch with bad query: got %v", err)
	}
}

func TestPredictBatchErrors(t *testing.T) {
	train := mustTable(t, [][]float64{{0}, {1}, {2}, {3}}, "A", "A", "B", "B")
	queries := make([]common.FeatureVector, 40)
	for i := range queries {
		queries[i] = common.FeatureVector{float64(i % 4)}
	}
	queries[33] = common.FeatureVector{math.Inf(1)}

	m := NewKNN(1, nil)
	m.Workers = 4
	if err := m.Fit(train); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := m.PredictBatch(queries); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("bad query in a later chunk: got %v", err)
	}

	queries[33] = common.FeatureVector{1}
	m.Voter = &Weighted{Smoothing: 0}
	if _, err := m.PredictBatch(queries); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("pointer voter with zero smoothing: got %v", err)
	}

	m.Voter = &Weighted{Smoothing: DefaultSmoothing}
	got, err := m.PredictBatch(queries)
	if err != nil {
		t.Fatalf("pointer voter: %v", err)
	}
	for i, label := range got {
		want := common.Label("A")
		if i%4 >= 2 {
			want = "B"
		}
		if label != want {
			t.Fatalf("query %d: got %s, want %s", i, label, want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]Strategy{
		"unweighted":                StrategyUnweighted,
		"weighted":                  StrategyWeighted,
		"inverse-distance-weighted": StrategyWeighted,
	}
	for in, want := range tests {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStrategy("cosine"); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("unknown strategy: got %v", err)
	}
	if _, err := NewVoter(StrategyWeighted, -1); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("negative smoothing: got %v", err)
	}
}
