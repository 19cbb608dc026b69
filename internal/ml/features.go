package ml

import (
	"math"

	"priceadvisor/internal/domain"
)

// Inputs carries everything the Feature Builder needs: the query's
// categorical attributes (from an internal match, when one exists)
// plus the market sample that always accompanies a recommendation.
type Inputs struct {
	Category    string
	Subcategory string
	Brand       string
	Department  string

	ProductionPrice *float64
	DaysOnShelf     *float64

	MarketMedian     *float64
	MarketSampleSize int
	MarketStd        *float64
}

// InputsFromAggregates builds Inputs from the pipeline's internal and
// market aggregates; either may be nil.
func InputsFromAggregates(internal *domain.InternalAggregate, market *domain.MarketSample) Inputs {
	in := Inputs{}

	if internal != nil {
		in.Category = internal.Category
		days := internal.DaysOnShelf
		in.DaysOnShelf = &days
		price, _ := internal.InternalPrice.Float64()
		in.ProductionPrice = &price
	}

	if market != nil && market.Status == domain.SampleStatusOK {
		in.MarketSampleSize = market.SampleSize
		median, _ := market.Median.Float64()
		in.MarketMedian = &median
		mean, _ := market.Mean.Float64()
		std := stdDev(market.Listings, mean)
		in.MarketStd = &std
	}

	return in
}

func stdDev(listings []domain.Listing, mean float64) float64 {
	if len(listings) == 0 {
		return 0
	}
	var sumSq float64
	for _, l := range listings {
		price, _ := l.Price.Float64()
		diff := price - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(listings)))
}

// vector assembles the fixed-order feature vector for artifact,
// filling unknown categoricals with the reserved bucket and unknown
// numerics with the artifact's training means. ok is false if a
// numeric feature is unfillable (no value and no training mean).
func (a *Artifact) vector(in Inputs) (values map[string]float64, ok bool) {
	values = make(map[string]float64, len(featureOrder))

	values["category_id"] = float64(a.categoryIndex("category", in.Category))
	values["subcategory_id"] = float64(a.categoryIndex("subcategory", in.Subcategory))
	values["brand_id"] = float64(a.categoryIndex("brand", in.Brand))
	values["department_id"] = float64(a.categoryIndex("department", in.Department))

	numeric := map[string]*float64{
		"production_price": in.ProductionPrice,
		"days_on_shelf":     in.DaysOnShelf,
		"market_median":     in.MarketMedian,
		"market_std":        in.MarketStd,
	}
	for name, ptr := range numeric {
		if ptr != nil {
			values[name] = *ptr
			continue
		}
		mean, hasMean := a.FeatureMeans[name]
		if !hasMean {
			return nil, false
		}
		values[name] = mean
	}

	values["market_sample_size"] = float64(in.MarketSampleSize)

	return values, true
}

func (a *Artifact) categoryIndex(field, value string) int {
	vocab := a.Vocab[field]
	if value == "" {
		return vocab[unknownBucket]
	}
	if id, ok := vocab[value]; ok {
		return id
	}
	return vocab[unknownBucket]
}
