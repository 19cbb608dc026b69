// Package market computes aggregate statistics (median, mean, min,
// max, sample size, sold count) from a vector of scraped Listings,
// filtering outliers before aggregation.
package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// MinSampleForConfidence is the threshold below which a sample is
// flagged low_confidence, per spec.md §4.3.
const MinSampleForConfidence = 5

// outlierLowMultiplier and outlierHighMultiplier bound the filtering
// window applied around the unfiltered median. Deliberately chosen for
// robustness over responsiveness — see spec.md §9 and DESIGN.md; do
// not weaken this window.
const (
	outlierLowMultiplier  = 0.25
	outlierHighMultiplier = 4.0
)

// Aggregate computes a MarketSample from raw listings. Every listing
// passed in is counted as having a price (the scrape layer drops cards
// whose price it couldn't parse), so sample_size is the number of
// listings left after outlier filtering.
func Aggregate(listings []domain.Listing) domain.MarketSample {
	if len(listings) == 0 {
		return domain.MarketSample{
			Status:    domain.SampleStatusEmpty,
			Timestamp: time.Now(),
		}
	}

	prices := pricesOf(listings)
	rawMedian := median(prices)

	filtered := filterOutliers(listings, rawMedian)
	if len(filtered) == 0 {
		// every listing was an outlier relative to itself; fall back
		// to the unfiltered set rather than reporting an empty sample.
		filtered = listings
	}

	filteredPrices := pricesOf(filtered)

	sample := domain.MarketSample{
		Listings:   filtered,
		Median:     median(filteredPrices),
		Mean:       mean(filteredPrices),
		Min:        min(filteredPrices),
		Max:        max(filteredPrices),
		SampleSize: len(filteredPrices),
		SoldCount:  soldCount(filtered),
		Timestamp:  time.Now(),
		Status:     domain.SampleStatusOK,
	}
	sample.LowConfidence = sample.SampleSize < MinSampleForConfidence
	return sample
}

func pricesOf(listings []domain.Listing) []decimal.Decimal {
	prices := make([]decimal.Decimal, 0, len(listings))
	for _, l := range listings {
		prices = append(prices, l.Price)
	}
	return prices
}

// filterOutliers discards listings whose price falls outside
// [0.25, 4.0] x rawMedian, per spec.md §4.3.
func filterOutliers(listings []domain.Listing, rawMedian decimal.Decimal) []domain.Listing {
	if rawMedian.IsZero() {
		return listings
	}
	lowBound := rawMedian.Mul(decimal.NewFromFloat(outlierLowMultiplier))
	highBound := rawMedian.Mul(decimal.NewFromFloat(outlierHighMultiplier))

	kept := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price.LessThan(lowBound) || l.Price.GreaterThan(highBound) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

func median(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	two := decimal.NewFromInt(2)
	return sorted[n/2-1].Add(sorted[n/2]).Div(two)
}

func mean(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total.Div(decimal.NewFromInt(int64(len(prices))))
}

func min(prices []decimal.Decimal) decimal.Decimal {
	m := prices[0]
	for _, p := range prices[1:] {
		if p.LessThan(m) {
			m = p
		}
	}
	return m
}

func max(prices []decimal.Decimal) decimal.Decimal {
	m := prices[0]
	for _, p := range prices[1:] {
		if p.GreaterThan(m) {
			m = p
		}
	}
	return m
}

func soldCount(listings []domain.Listing) int {
	count := 0
	for _, l := range listings {
		if l.SoldDate != nil {
			count++
		}
	}
	return count
}
