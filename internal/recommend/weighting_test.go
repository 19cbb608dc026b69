package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/recommend"
)

// TestWeighting_Monotonicity encodes spec.md §8 invariant 8: increasing
// sell_through_rate past 0.7, other inputs fixed, strictly increases
// w_internal unless already clamped at 1.0.
func TestWeighting_Monotonicity(t *testing.T) {
	base := func(sellThrough float64) recommend.Inputs {
		return recommend.Inputs{
			Internal: &domain.InternalAggregate{
				SellThroughRate: sellThrough,
				DaysOnShelf:     10,
			},
			Market: okMarket(40, 40, 15),
		}
	}

	low, err := recommend.Compute(base(0.65))
	assert := assert.New(t)
	assert.NoError(err)

	high, err := recommend.Compute(base(0.75))
	assert.NoError(err)

	assert.Greater(high.InternalVsMarketWeighting, low.InternalVsMarketWeighting)
}
