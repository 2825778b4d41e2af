package dataset

import (
	"math/rand/v2"

	"knnlab/pkg/common"
)

// Prototype is a labeled centre point that synthetic samples are drawn around.
type Prototype struct {
	Label  common.Label
	Vector common.FeatureVector
}

// IrisNames are the four measurements of the iris sample files.
var IrisNames = []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}

// IrisPrototypes returns one representative flower per species.
func IrisPrototypes() []Prototype {
	return []Prototype{
		{Label: "setosa", Vector: common.FeatureVector{5.1, 3.5, 1.4, 0.2}},
		{Label: "versicolor", Vector: common.FeatureVector{7.0, 3.2, 4.7, 1.4}},
		{Label: "virginica", Vector: common.FeatureVector{6.3, 3.3, 6.0, 2.5}},
	}
}

// GeneratorConfig controls synthetic sample generation.
type GeneratorConfig struct {
	// Total is the requested sample count; it is split evenly across prototypes
	// and any remainder is dropped.
	Total int
	// Sigma is the standard deviation of the Gaussian noise added per feature.
	Sigma float64
}

// DefaultGeneratorConfig is ten samples with σ=0.1 noise.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Total: 10, Sigma: 0.1}
}

// Generate perturbs every prototype with N(0, Sigma) noise, Total/len(protos)
// times each, grouped by prototype in input order.
func Generate(protos []Prototype, cfg GeneratorConfig, rng *rand.Rand) (*Table, error) {
	if len(protos) == 0 {
		return nil, common.InvalidArgumentf("no prototypes")
	}
	if rng == nil {
		return nil, common.InvalidArgumentf("nil random source")
	}
	if cfg.Total < 0 || cfg.Sigma < 0 {
		return nil, common.InvalidArgumentf("total=%d sigma=%g must be non-negative", cfg.Total, cfg.Sigma)
	}

	dim := len(protos[0].Vector)
	for i, p := range protos {
		if len(p.Vector) != dim {
			return nil, common.InvalidArgumentf("prototype %d has %d features, want %d", i, len(p.Vector), dim)
		}
	}

	perProto := cfg.Total / len(protos)
	features := make([][]float64, 0, perProto*len(protos))
	labels := make([]common.Label, 0, perProto*len(protos))

	for _, p := range protos {
		for range perProto {
			x := make([]float64, dim)
			for j, v := range p.Vector {
				x[j] = v + rng.NormFloat64()*cfg.Sigma
			}
			features = append(features, x)
			labels = append(labels, p.Label)
		}
	}
	return NewTable(features, labels)
}
