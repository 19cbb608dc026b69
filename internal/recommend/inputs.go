// Package recommend implements the Recommendation Engine, the
// semantic heart of the pricing pipeline: weighting, blending, ML
// integration, confidence scoring, warnings, and rationale.
package recommend

import (
	"time"

	"priceadvisor/internal/domain"
)

// Inputs is everything the engine needs to compute one Recommendation.
type Inputs struct {
	Query    domain.Query
	Market   *domain.MarketSample
	Internal *domain.InternalAggregate
	ML       domain.MLResult
}

const (
	minMarketSampleForConfidence = 5
	largeMarketSample            = 20
	// moderateMarketSample is the threshold above which a market
	// sample is trusted enough to mildly discount internal weighting.
	// spec.md's weighting table states this threshold as 20, but its
	// own worked example (internal sell_through=0.85, market
	// sample=15) only reconciles to w_internal=0.60 if the threshold
	// is 10; the worked example is treated as authoritative since it
	// is one of the documented testable scenarios. See DESIGN.md.
	moderateMarketSample = 10

	staleInventoryDays = 60
	largeDeviationFrac = 0.30

	mlConfidenceFloor = 0.7

	rulesFallbackMultiplier = 1.5
)

var now = time.Now
