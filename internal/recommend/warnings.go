package recommend

import (
	"fmt"

	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// warnings implements spec.md §4.6's warning list: low market sample,
// stale inventory, large deviation, missing internal data, scrape
// failure, and an empty scrape. No warning is emitted for an
// unavailable ML model; that shows only in the prediction method.
func warnings(final decimal.Decimal, in Inputs) []string {
	var out []string

	if hasOKMarket(in) && in.Market.SampleSize < minMarketSampleForConfidence {
		out = append(out, fmt.Sprintf("low market sample size (%d)", in.Market.SampleSize))
	}
	if in.Internal != nil && in.Internal.DaysOnShelf > staleInventoryDays {
		out = append(out, "stale inventory: days on shelf exceeds 60")
	}
	if hasOKMarket(in) && deviationFraction(final, in.Market.Median) > largeDeviationFrac {
		out = append(out, "recommended price deviates more than 30% from market median")
	}
	if in.Internal == nil {
		out = append(out, "no internal data")
	}
	if in.Market != nil && in.Market.Status == domain.SampleStatusError {
		out = append(out, "scrape failure")
	}
	if in.Market != nil && in.Market.Status == domain.SampleStatusEmpty {
		out = append(out, "scrape returned no listings")
	}

	return out
}
