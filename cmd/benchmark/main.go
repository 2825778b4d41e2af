package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gonuts/flag"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/eval"
	"knnlab/pkg/logging"
	"knnlab/pkg/model"
)

func main() {
	nRows := flag.Int("n", 5000, "Number of synthetic training rows")
	nQueries := flag.Int("q", 1000, "Number of queries per run")
	dim := flag.Int("d", 8, "Feature dimension")
	k := flag.Int("k", 5, "Neighbours per query")
	trials := flag.Int("trials", 20, "Trials for the repeated-evaluation run")
	flag.Parse()

	logging.Init(logging.Config{Level: "warn", Format: "console"})

	fmt.Printf("KNN Classification Benchmark (N=%d, D=%d, k=%d, queries=%d)\n", *nRows, *dim, *k, *nQueries)
	fmt.Println("---------------------------------------------------")

	rng := eval.NewRand(7)
	train, err := dataset.Generate(prototypes(*dim), dataset.GeneratorConfig{Total: *nRows, Sigma: 2}, rng)
	if err != nil {
		log.Fatalf("Generate failed: %v", err)
	}
	queries := make([]common.FeatureVector, *nQueries)
	for i := range queries {
		queries[i] = train.Row(rng.IntN(train.Len())).Clone()
		for j := range queries[i] {
			queries[i][j] += rng.NormFloat64()
		}
	}

	fmt.Println(">> Unweighted vote (sequential)...")
	unweighted := runClassifyBenchmark(train, queries, *k, model.Unweighted{})
	fmt.Printf("   Time: %v | QPS: %.0f\n\n", unweighted, float64(*nQueries)/unweighted.Seconds())

	fmt.Println(">> Inverse-distance weighted vote (sequential)...")
	weighted := runClassifyBenchmark(train, queries, *k, model.Weighted{Smoothing: model.DefaultSmoothing})
	fmt.Printf("   Time: %v | QPS: %.0f\n\n", weighted, float64(*nQueries)/weighted.Seconds())

	fmt.Println(">> Weighted vote (PredictBatch, all cores)...")
	batch := runBatchBenchmark(train, queries, *k, model.Weighted{Smoothing: model.DefaultSmoothing})
	fmt.Printf("   Time: %v | QPS: %.0f\n\n", batch, float64(*nQueries)/batch.Seconds())

	fmt.Printf(">> Repeated evaluation (%d trials, 20%% held out)...\n", *trials)
	agg, evalTime := runEvalBenchmark(train, *k, *trials)
	fmt.Printf("   Time: %v | mean error %.4f ± %.4f\n", evalTime, agg.MeanErrorRate, agg.StdDevErrorRate)

	fmt.Println("---------------------------------------------------")
	fmt.Printf("Conclusion: weighted/unweighted time ratio %.2f, batch speedup %.2fx\n",
		weighted.Seconds()/unweighted.Seconds(), weighted.Seconds()/batch.Seconds())
}

// prototypes spreads four class centres along the diagonal of a dim-cube.
func prototypes(dim int) []dataset.Prototype {
	labels := []common.Label{"a", "b", "c", "d"}
	out := make([]dataset.Prototype, len(labels))
	for i, l := range labels {
		v := make(common.FeatureVector, dim)
		for j := range v {
			v[j] = float64(i*5 + j%2)
		}
		out[i] = dataset.Prototype{Label: l, Vector: v}
	}
	return out
}

func runClassifyBenchmark(train *dataset.Table, queries []common.FeatureVector, k int, v model.Voter) time.Duration {
	start := time.Now()
	for _, q := range queries {
		if _, err := model.Classify(q, train, k, v); err != nil {
			log.Fatalf("Classify failed: %v", err)
		}
	}
	return time.Since(start)
}

func runBatchBenchmark(train *dataset.Table, queries []common.FeatureVector, k int, v model.Voter) time.Duration {
	m := model.NewKNN(k, v)
	if err := m.Fit(train); err != nil {
		log.Fatalf("Fit failed: %v", err)
	}
	start := time.Now()
	if _, err := m.PredictBatch(queries); err != nil {
		log.Fatalf("PredictBatch failed: %v", err)
	}
	return time.Since(start)
}

func runEvalBenchmark(train *dataset.Table, k, trials int) (*eval.Aggregate, time.Duration) {
	p := eval.DefaultParams()
	p.K = k
	p.Trials = trials
	e, err := eval.New(p)
	if err != nil {
		log.Fatalf("eval.New failed: %v", err)
	}
	start := time.Now()
	agg, err := e.RunRepeated(context.Background(), train, eval.NewRand(11))
	if err != nil {
		log.Fatalf("RunRepeated failed: %v", err)
	}
	return agg, time.Since(start)
}
