package recommend

import (
	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// blendPrice implements spec.md §4.6's base blend: w×internal +
// (1-w)×market, redistributing the full weight to whichever side is
// present if the other is absent.
func blendPrice(w float64, in Inputs) (decimal.Decimal, bool) {
	hasInternal := in.Internal != nil
	hasMarket := in.Market != nil && in.Market.Status == domain.SampleStatusOK

	switch {
	case hasInternal && hasMarket:
		internalTerm := in.Internal.InternalPrice.Mul(decimal.NewFromFloat(w))
		marketTerm := in.Market.Median.Mul(decimal.NewFromFloat(1 - w))
		return internalTerm.Add(marketTerm), true
	case hasInternal:
		return in.Internal.InternalPrice, true
	case hasMarket:
		return in.Market.Median, true
	default:
		return decimal.Zero, false
	}
}

// mlBlendPrice implements spec.md §4.6's ML substitution:
// 0.6×ml + 0.3×market + 0.1×internal, redistributing omitted terms'
// weight proportionally across whichever terms remain.
func mlBlendPrice(ml domain.MLResult, in Inputs) decimal.Decimal {
	type term struct {
		weight float64
		value  decimal.Decimal
		has    bool
	}

	terms := []term{
		{weight: 0.6, value: ml.Price, has: true},
		{weight: 0.3, value: marketMedianOrZero(in), has: hasOKMarket(in)},
		{weight: 0.1, value: internalPriceOrZero(in), has: in.Internal != nil},
	}

	var totalWeight float64
	for _, t := range terms {
		if t.has {
			totalWeight += t.weight
		}
	}
	if totalWeight == 0 {
		return ml.Price
	}

	var result decimal.Decimal
	for _, t := range terms {
		if !t.has {
			continue
		}
		normalizedWeight := t.weight / totalWeight
		result = result.Add(t.value.Mul(decimal.NewFromFloat(normalizedWeight)))
	}
	return result
}

func hasOKMarket(in Inputs) bool {
	return in.Market != nil && in.Market.Status == domain.SampleStatusOK
}

func marketMedianOrZero(in Inputs) decimal.Decimal {
	if hasOKMarket(in) {
		return in.Market.Median
	}
	return decimal.Zero
}

func internalPriceOrZero(in Inputs) decimal.Decimal {
	if in.Internal != nil {
		return in.Internal.InternalPrice
	}
	return decimal.Zero
}

// rulesFallback implements spec.md §4.6's last resort: a single
// matched internal aggregate's InternalPrice times 1.5 (the aggregate
// carries no separate production price, so none is used). Only
// reachable when blendPrice has already failed, which requires
// in.Internal == nil; under this engine's nil-or-aggregate contract
// that means there is no record left to fall back on, so this always
// reports ok=false and the caller fails with apperr.Internal. Kept as
// the documented hook for a future raw-record passthrough (see
// DESIGN.md).
func rulesFallback(in Inputs) (decimal.Decimal, bool) {
	if in.Internal == nil || in.Internal.MatchedCount != 1 {
		return decimal.Zero, false
	}
	return in.Internal.InternalPrice.Mul(decimal.NewFromFloat(rulesFallbackMultiplier)), true
}
