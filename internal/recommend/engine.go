package recommend

import (
	"priceadvisor/internal/apperr"
	"priceadvisor/internal/domain"
)

// Compute implements spec.md §4.6 end to end: weighting, blend, ML
// substitution, rules fallback, confidence, warnings, and rationale.
// Returns apperr.Internal only in the documented last-resort case:
// no market, no internal data, no ML, and no single matched record to
// fall back on (spec.md §8 invariant 4).
func Compute(in Inputs) (domain.Recommendation, error) {
	w := weighting(in)

	price, blended := blendPrice(w, in)
	method := domain.MethodMarket
	if w >= 0.5 {
		method = domain.MethodInternal
	}

	switch {
	case in.ML.Available && in.ML.Confidence >= mlConfidenceFloor:
		price = mlBlendPrice(in.ML, in)
		method = domain.MethodML
	case blended:
		// price and method already set above.
	default:
		fallback, ok := rulesFallback(in)
		if !ok {
			return domain.Recommendation{}, apperr.Internal(
				"no market data, no internal data, and no ML prediction available", nil,
			)
		}
		price = fallback
		method = domain.MethodRules
	}

	price = price.Round(2)

	rec := domain.Recommendation{
		Query:                     in.Query.Canonical,
		RecommendedPrice:          price,
		InternalVsMarketWeighting: w,
		ConfidenceScore:           confidence(price, in),
		PredictionMethod:          method,
		Market:                    in.Market,
		Internal:                  in.Internal,
		Warnings:                  warnings(price, in),
		ComputedAt:                now(),
	}
	rec.Rationale = rationale(w, method, in)

	return rec, nil
}
