package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
	"knnlab/pkg/eval"
	"knnlab/pkg/model"
)

func main() {
	train, err := dataset.NewTable(
		[][]float64{{0, 0}, {0, 1}, {5, 5}},
		[]common.Label{"A", "A", "B"},
	)
	if err != nil {
		log.Fatalf("NewTable failed: %v", err)
	}

	query := common.FeatureVector{0.2, 0.3}
	fmt.Printf("Classifying %s against %d rows (k=2)\n", query, train.Len())
	start := time.Now()
	unweighted, err := model.ClassifyUnweighted(query, train, 2)
	if err != nil {
		log.Fatalf("Classify failed: %v", err)
	}
	weighted, err := model.ClassifyWeighted(query, train, 2, model.DefaultSmoothing)
	if err != nil {
		log.Fatalf("Classify failed: %v", err)
	}
	fmt.Printf("Unweighted: %s  Weighted: %s (in %v)\n", unweighted, weighted, time.Since(start))

	fmt.Println("Generating 30 iris-like samples...")
	iris, err := dataset.Generate(dataset.IrisPrototypes(), dataset.GeneratorConfig{Total: 30, Sigma: 0.1}, eval.NewRand(1))
	if err != nil {
		log.Fatalf("Generate failed: %v", err)
	}
	e, err := eval.New(eval.DefaultParams())
	if err != nil {
		log.Fatalf("eval.New failed: %v", err)
	}
	agg, err := e.RunRepeated(context.Background(), iris, eval.NewRand(42))
	if err != nil {
		log.Fatalf("RunRepeated failed: %v", err)
	}
	fmt.Printf("Accuracy over %d trials: %.2f%% (stddev %.4f)\n", len(agg.Trials), 100*agg.Accuracy(), agg.StdDevErrorRate)
}
