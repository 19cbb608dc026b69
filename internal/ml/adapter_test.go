package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"priceadvisor/internal/ml"
)

func testArtifact() *ml.Artifact {
	return &ml.Artifact{
		Bias: 5,
		Weights: map[string]float64{
			"category_id":         0,
			"subcategory_id":      0,
			"brand_id":            0,
			"department_id":       0,
			"production_price":    0.5,
			"days_on_shelf":       -0.1,
			"market_median":       0.4,
			"market_sample_size":  0,
			"market_std":          0,
		},
		Vocab: map[string]map[string]int{
			"category":    {"unknown": 0, "blenders": 1},
			"subcategory": {"unknown": 0},
			"brand":       {"unknown": 0},
			"department":  {"unknown": 0},
		},
		FeatureMeans: map[string]float64{
			"production_price":   30,
			"days_on_shelf":      15,
			"market_median":      35,
			"market_std":         5,
		},
	}
}

func TestPredict_AllInputsPresent(t *testing.T) {
	adapter := ml.NewAdapter(testArtifact())
	price := 40.0
	days := 10.0
	median := 45.0
	std := 3.0
	result := adapter.Predict(ml.Inputs{
		Category:         "blenders",
		ProductionPrice:  &price,
		DaysOnShelf:      &days,
		MarketMedian:     &median,
		MarketStd:        &std,
		MarketSampleSize: 12,
	})
	assert.True(t, result.Available)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestPredict_MissingNumericsFillFromMeansAndDerateConfidence(t *testing.T) {
	adapter := ml.NewAdapter(testArtifact())
	result := adapter.Predict(ml.Inputs{})
	assert.True(t, result.Available)
	assert.Less(t, result.Confidence, 1.0)
}

func TestPredict_UnavailableWithoutArtifact(t *testing.T) {
	adapter := ml.Unavailable()
	result := adapter.Predict(ml.Inputs{})
	assert.False(t, result.Available)
}

func TestPredict_UnknownCategoryFallsBackToReservedBucket(t *testing.T) {
	adapter := ml.NewAdapter(testArtifact())
	result := adapter.Predict(ml.Inputs{Category: "never-seen-category"})
	assert.True(t, result.Available)
}
