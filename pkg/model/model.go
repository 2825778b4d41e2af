package model

import (
	"knnlab/pkg/common"
	"knnlab/pkg/dataset"
)

// Classifier is a supervised model over labeled feature tables.
type Classifier interface {
	Fit(train *dataset.Table) error
	Predict(query common.FeatureVector) (common.Label, error)
	PredictBatch(queries []common.FeatureVector) ([]common.Label, error)
}

var _ Classifier = (*KNN)(nil)
