package recommend_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/recommend"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func okMarket(median, mean float64, sampleSize int) *domain.MarketSample {
	return &domain.MarketSample{
		Status:     domain.SampleStatusOK,
		Median:     dec(median),
		Mean:       dec(mean),
		SampleSize: sampleSize,
	}
}

func TestCompute_S1_InternalDominantNoWarnings(t *testing.T) {
	in := recommend.Inputs{
		Query: domain.Query{Canonical: "nike sneakers"},
		Internal: &domain.InternalAggregate{
			MatchedCount:    3,
			InternalPrice:   dec(45.00),
			SellThroughRate: 0.85,
			DaysOnShelf:     25,
			Category:        "Shoes",
		},
		Market: okMarket(52.00, 51.20, 15),
		ML:     domain.MLResult{Available: false},
	}

	rec, err := recommend.Compute(in)
	require.NoError(t, err)

	assert.InDelta(t, 0.60, rec.InternalVsMarketWeighting, 1e-9)
	assert.True(t, rec.RecommendedPrice.Equal(dec(47.80)), "got %s", rec.RecommendedPrice)
	assert.Equal(t, 70, rec.ConfidenceScore)
	assert.Equal(t, domain.MethodInternal, rec.PredictionMethod)
	assert.Empty(t, rec.Warnings)
}

func TestCompute_S2_NoInternalData(t *testing.T) {
	in := recommend.Inputs{
		Query:  domain.Query{Canonical: "generic widget"},
		Market: okMarket(30.00, 30.00, 25),
		ML:     domain.MLResult{Available: false},
	}

	rec, err := recommend.Compute(in)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, rec.InternalVsMarketWeighting, 1e-9)
	assert.True(t, rec.RecommendedPrice.Equal(dec(30.00)))
	assert.Equal(t, 60, rec.ConfidenceScore)
	assert.Equal(t, domain.MethodMarket, rec.PredictionMethod)
	assert.Contains(t, rec.Warnings, "no internal data")
}

func TestCompute_S3_ScrapeFailure(t *testing.T) {
	in := recommend.Inputs{
		Query: domain.Query{Canonical: "nike sneakers"},
		Internal: &domain.InternalAggregate{
			MatchedCount:    3,
			InternalPrice:   dec(45.00),
			SellThroughRate: 0.85,
			DaysOnShelf:     25,
			Category:        "Shoes",
		},
		Market: &domain.MarketSample{Status: domain.SampleStatusError},
		ML:     domain.MLResult{Available: false},
	}

	rec, err := recommend.Compute(in)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, rec.InternalVsMarketWeighting, 1e-9)
	assert.True(t, rec.RecommendedPrice.Equal(dec(45.00)))
	assert.Equal(t, 30, rec.ConfidenceScore)
	assert.Equal(t, domain.MethodInternal, rec.PredictionMethod)
	assert.Contains(t, rec.Warnings, "scrape failure")
}

func TestCompute_S4_MLSubstitution(t *testing.T) {
	in := recommend.Inputs{
		Query: domain.Query{Canonical: "nike sneakers"},
		Internal: &domain.InternalAggregate{
			MatchedCount:    3,
			InternalPrice:   dec(45.00),
			SellThroughRate: 0.85,
			DaysOnShelf:     25,
			Category:        "Shoes",
		},
		Market: okMarket(52.00, 51.20, 15),
		ML:     domain.MLResult{Available: true, Confidence: 0.9, Price: dec(50.00)},
	}

	rec, err := recommend.Compute(in)
	require.NoError(t, err)

	assert.True(t, rec.RecommendedPrice.Equal(dec(50.10)), "got %s", rec.RecommendedPrice)
	assert.Equal(t, domain.MethodML, rec.PredictionMethod)
}

func TestCompute_SingleInternalMatchWithScrapeFailureUsesInternalPriceDirectly(t *testing.T) {
	in := recommend.Inputs{
		Query: domain.Query{Canonical: "rare vintage clock"},
		Internal: &domain.InternalAggregate{
			MatchedCount:  1,
			InternalPrice: dec(20.00),
		},
		Market: &domain.MarketSample{Status: domain.SampleStatusError},
		ML:     domain.MLResult{Available: false},
	}

	rec, err := recommend.Compute(in)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodInternal, rec.PredictionMethod)
	assert.True(t, rec.RecommendedPrice.Equal(dec(20.00)))
}

func TestCompute_FailsWithNoSignalsWhatsoever(t *testing.T) {
	in := recommend.Inputs{
		Query:  domain.Query{Canonical: "nonexistent item"},
		Market: &domain.MarketSample{Status: domain.SampleStatusError},
		ML:     domain.MLResult{Available: false},
	}

	_, err := recommend.Compute(in)
	assert.Error(t, err)
}

func TestCompute_InvariantsHoldAcrossScenarios(t *testing.T) {
	scenarios := []recommend.Inputs{
		{Query: domain.Query{Canonical: "a"}, Market: okMarket(10, 10, 30)},
		{Query: domain.Query{Canonical: "b"}, Internal: &domain.InternalAggregate{MatchedCount: 2, InternalPrice: dec(10)}, Market: &domain.MarketSample{Status: domain.SampleStatusEmpty}},
	}
	for _, in := range scenarios {
		rec, err := recommend.Compute(in)
		require.NoError(t, err)
		assert.True(t, rec.RecommendedPrice.GreaterThanOrEqual(decimal.Zero))
		assert.GreaterOrEqual(t, rec.InternalVsMarketWeighting, 0.0)
		assert.LessOrEqual(t, rec.InternalVsMarketWeighting, 1.0)
		assert.GreaterOrEqual(t, rec.ConfidenceScore, 0)
		assert.LessOrEqual(t, rec.ConfidenceScore, 100)
	}
}
