package market_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/market"
)

func listing(price float64) domain.Listing {
	return domain.Listing{
		Title: "item",
		Price: decimal.NewFromFloat(price),
	}
}

func TestAggregate_EmptyListings(t *testing.T) {
	sample := market.Aggregate(nil)
	assert.Equal(t, domain.SampleStatusEmpty, sample.Status)
	assert.Equal(t, 0, sample.SampleSize)
}

func TestAggregate_MedianOddCount(t *testing.T) {
	listings := []domain.Listing{listing(10), listing(20), listing(30)}
	sample := market.Aggregate(listings)
	assert.True(t, sample.Median.Equal(decimal.NewFromFloat(20)))
}

func TestAggregate_MedianEvenCount(t *testing.T) {
	listings := []domain.Listing{listing(10), listing(20), listing(30), listing(40)}
	sample := market.Aggregate(listings)
	assert.True(t, sample.Median.Equal(decimal.NewFromFloat(25)))
}

func TestAggregate_LowConfidenceBelowFive(t *testing.T) {
	listings := []domain.Listing{listing(10), listing(12)}
	sample := market.Aggregate(listings)
	assert.True(t, sample.LowConfidence)
}

// TestAggregate_OutlierRobustness exercises the property test from
// spec.md §9: injecting a single 10x-median listing must not shift
// the reported median materially.
func TestAggregate_OutlierRobustness(t *testing.T) {
	listings := []domain.Listing{
		listing(48), listing(50), listing(52), listing(49), listing(51),
	}
	before := market.Aggregate(listings)

	withOutlier := append(append([]domain.Listing{}, listings...), listing(500))
	after := market.Aggregate(withOutlier)

	assert.True(t, before.Median.Equal(after.Median), "median should be unaffected by a single 10x outlier")
	assert.Equal(t, before.SampleSize, after.SampleSize, "the outlier should be filtered, not counted")
}

func TestAggregate_SoldCount(t *testing.T) {
	soldAt := time.Now()
	sold := domain.Listing{Title: "sold", Price: decimal.NewFromFloat(10), SoldDate: &soldAt}
	listings := []domain.Listing{sold, listing(12)}
	sample := market.Aggregate(listings)
	assert.Equal(t, 1, sample.SoldCount)
}
