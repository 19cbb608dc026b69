package recommend

import (
	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// confidence implements spec.md §4.6's scoring table over the final
// price and inputs, clamped to [0,100].
func confidence(final decimal.Decimal, in Inputs) int {
	score := 50.0

	if hasOKMarket(in) && in.Market.SampleSize >= 10 {
		score += 20
	}
	if in.Internal != nil && in.Internal.MatchedCount >= 5 {
		score += 10
	}
	if in.ML.Available {
		score += 15
	}
	if hasOKMarket(in) && deviationFraction(final, in.Market.Median) > largeDeviationFrac {
		score -= 15
	}
	if in.Market != nil && in.Market.Status == domain.SampleStatusError {
		score -= 20
	}
	if in.Internal == nil {
		score -= 10
	}

	return int(clamp(score, 0, 100))
}

func deviationFraction(final, median decimal.Decimal) float64 {
	denominator := median
	if denominator.LessThan(decimal.NewFromInt(1)) {
		denominator = decimal.NewFromInt(1)
	}
	diff := final.Sub(median).Abs()
	frac, _ := diff.Div(denominator).Float64()
	return frac
}
