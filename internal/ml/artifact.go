// Package ml implements the Feature Builder + ML Adapter: fixed-order
// feature assembly plus a hand-rolled linear regressor loaded from a
// JSON artifact.
//
// No gradient-boosting library exists anywhere in the example corpus;
// this package follows the teacher's own precedent of hand-rolling
// model arithmetic directly in Go
// (services/forecasting_service/src/model/{lstm.go,arima.go}) rather
// than reaching outside the corpus for one.
package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// featureOrder is the fixed feature vector order spec.md §4.5 names.
var featureOrder = []string{
	"category_id", "subcategory_id", "brand_id", "department_id",
	"production_price", "days_on_shelf", "market_median",
	"market_sample_size", "market_std",
}

const unknownBucket = "unknown"

// Artifact is the serialized regressor: linear weights over the fixed
// feature order, plus the categorical vocabularies and numeric means
// used to fill unknown values at inference time.
type Artifact struct {
	Bias         float64                  `json:"bias"`
	Weights      map[string]float64       `json:"weights"`
	Vocab        map[string]map[string]int `json:"vocab"`
	FeatureMeans map[string]float64       `json:"feature_means"`
}

// LoadArtifact reads and validates a model artifact from path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	for _, name := range featureOrder {
		if _, ok := artifact.Weights[name]; !ok {
			return nil, fmt.Errorf("artifact missing weight for feature %q", name)
		}
	}
	for _, categorical := range []string{"category", "subcategory", "brand", "department"} {
		vocab, ok := artifact.Vocab[categorical]
		if !ok {
			return nil, fmt.Errorf("artifact missing vocabulary for %q", categorical)
		}
		if _, ok := vocab[unknownBucket]; !ok {
			return nil, fmt.Errorf("vocabulary %q missing reserved %q bucket", categorical, unknownBucket)
		}
	}

	return &artifact, nil
}
